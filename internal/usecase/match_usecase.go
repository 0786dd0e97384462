package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"
)

const defaultTopN = 3

type matchUsecase struct {
	projectRepo domain.ProjectRepository
	userRepo    domain.UserRepository
	llmRepo     domain.LLMRequestRepository
	scorer      domain.MatchScorer
	logger      *slog.Logger
}

func NewMatchUsecase(
	projectRepo domain.ProjectRepository,
	userRepo domain.UserRepository,
	llmRepo domain.LLMRequestRepository,
	scorer domain.MatchScorer,
	logger *slog.Logger,
) domain.MatchUsecase {
	return &matchUsecase{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		llmRepo:     llmRepo,
		scorer:      scorer,
		logger:      logger,
	}
}

// RunMatch orchestrates one matching pass: authorize, load state, score,
// audit, reshape. The only durable write is the audit row; membership is
// never mutated, so concurrent runs over the same project are independent.
func (u *matchUsecase) RunMatch(ctx context.Context, actorID int64, in domain.MatchInput) ([]domain.RoleMatchResult, error) {
	project, err := u.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(err)
	}
	if project.OwnerID != actorID {
		return nil, apperror.Forbidden("Only owner can run matching")
	}
	if len(project.Roles) == 0 {
		return nil, apperror.BadRequest("Project has no roles defined")
	}

	members, err := u.projectRepo.ListMembers(ctx, in.ProjectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	fillCount := roleFillCount(members)

	rolesToScore := project.Roles
	if in.RoleName != nil && *in.RoleName != "" {
		rolesToScore = nil
		for _, role := range project.Roles {
			if role.Name == *in.RoleName {
				rolesToScore = append(rolesToScore, role)
			}
		}
		if len(rolesToScore) == 0 {
			return nil, apperror.NotFound(fmt.Sprintf("Role %q not found", *in.RoleName))
		}
	}

	topN := in.TopN
	if topN == 0 {
		topN = defaultTopN
	}

	pool, err := u.userRepo.ListExcept(ctx, actorID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// Nobody to rank: answer from local state alone, the backend call
	// would only burn latency and cost for a guaranteed-empty result.
	if len(pool) == 0 {
		results := make([]domain.RoleMatchResult, 0, len(rolesToScore))
		for _, role := range rolesToScore {
			results = append(results, domain.RoleMatchResult{
				RoleName:   role.Name,
				Needed:     role.Count,
				Filled:     fillCount[role.Name],
				Candidates: []domain.ScoredCandidate{},
			})
		}
		return results, nil
	}

	out, err := u.scorer.Score(ctx, domain.ScoreInput{
		Project: domain.ScoreProject{
			ID:          project.ID,
			Name:        project.Name,
			Description: project.Description,
		},
		Roles:      rolesToScore,
		Candidates: candidateProjections(pool),
		TopN:       topN,
	})
	if err != nil {
		return nil, err
	}

	if err := u.writeAudit(ctx, project.ID, actorID, rolesToScore, out); err != nil {
		return nil, apperror.Internal(err)
	}

	return reshape(out.Results, fillCount), nil
}

func (u *matchUsecase) ListAuditRecords(ctx context.Context, actorID, projectID int64) ([]domain.LLMRequest, error) {
	project, err := u.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(err)
	}
	if project.OwnerID != actorID {
		return nil, apperror.Forbidden("Only owner can view match history")
	}

	records, err := u.llmRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return records, nil
}

// roleFillCount counts current members per assigned role name. Members
// without an assigned role count toward nothing.
func roleFillCount(members []domain.Member) map[string]int {
	counts := make(map[string]int)
	for _, m := range members {
		if m.RoleName != nil && *m.RoleName != "" {
			counts[*m.RoleName]++
		}
	}
	return counts
}

func candidateProjections(users []domain.User) []domain.ScoreCandidate {
	candidates := make([]domain.ScoreCandidate, 0, len(users))
	for _, u := range users {
		candidates = append(candidates, domain.ScoreCandidate{
			ID:       u.ID,
			Name:     u.Name,
			Username: u.Username,
			Bio:      u.Bio,
			Skills:   u.Skills,
		})
	}
	return candidates
}

// writeAudit appends the request/response pair. Answer prefers the raw
// backend text; when the backend produced none it stores the serialized
// normalized results instead.
func (u *matchUsecase) writeAudit(ctx context.Context, projectID, actorID int64, roles []domain.Role, out *domain.ScoreOutput) error {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}

	answer := out.Raw
	if answer == "" {
		serialized, err := json.Marshal(out.Results)
		if err != nil {
			return err
		}
		answer = string(serialized)
	}

	record := domain.LLMRequest{
		ProjectID: &projectID,
		UserID:    &actorID,
		Question:  fmt.Sprintf("Match candidates for project_id=%d, roles=%v", projectID, names),
		Answer:    answer,
	}
	return u.llmRepo.Insert(ctx, &record)
}

// reshape converts scorer output to the caller-facing contract. Filled is
// always taken from local membership state; a backend that volunteers its
// own filled count is ignored.
func reshape(results []domain.RoleScore, fillCount map[string]int) []domain.RoleMatchResult {
	out := make([]domain.RoleMatchResult, 0, len(results))
	for _, r := range results {
		roleName := r.RoleName
		if roleName == "" {
			roleName = "Unknown"
		}
		needed := r.Needed
		if needed <= 0 {
			needed = 1
		}
		candidates := r.Candidates
		if candidates == nil {
			candidates = []domain.ScoredCandidate{}
		}
		out = append(out, domain.RoleMatchResult{
			RoleName:   roleName,
			Needed:     needed,
			Filled:     fillCount[roleName],
			Candidates: candidates,
		})
	}
	return out
}
