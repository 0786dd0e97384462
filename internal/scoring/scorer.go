package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"
)

// Generator produces one text completion per prompt. The two bindings
// (OpenRouter-style REST and the Gemini API) implement it; tests use stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

const (
	defaultTimeout = 120 * time.Second

	minTopN = 1
	maxTopN = 20

	// Fallback scores sit in [70, 99]: below an excellent genuine match,
	// above the rejection band, so degraded results stay usable.
	fallbackScoreBase  = 70
	fallbackScoreRange = 30
)

// Scorer turns a project/roles/candidates payload into per-role rankings.
// Backend failures of any kind degrade to a deterministic fallback; the
// only errors it returns are caller-input violations.
type Scorer struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

func NewScorer(gen Generator, timeout time.Duration, logger *slog.Logger) *Scorer {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Scorer{gen: gen, timeout: timeout, logger: logger}
}

func (s *Scorer) Score(ctx context.Context, in domain.ScoreInput) (*domain.ScoreOutput, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(in)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.Generate(callCtx, prompt)
	if err != nil {
		s.logger.Warn("scoring backend call failed, using fallback ranking",
			"model", s.gen.Model(), "error", err)
		return &domain.ScoreOutput{
			Results: fallbackResults(in),
			Raw:     fmt.Sprintf("scoring request failed: %v", err),
		}, nil
	}

	results, err := parseResults(raw)
	if err != nil {
		s.logger.Warn("scoring backend returned unparsable payload, using fallback ranking",
			"model", s.gen.Model(), "error", err)
		return &domain.ScoreOutput{
			Results: fallbackResults(in),
			Raw:     raw,
		}, nil
	}

	return &domain.ScoreOutput{
		Results: normalize(results, in.TopN),
		Raw:     raw,
	}, nil
}

func validateInput(in domain.ScoreInput) error {
	if in.Project.Name == "" && in.Project.ID == 0 {
		return apperror.BadRequest("project, roles and candidates required")
	}
	if len(in.Roles) == 0 || len(in.Candidates) == 0 {
		return apperror.BadRequest("project, roles and candidates required")
	}
	if in.TopN < minTopN || in.TopN > maxTopN {
		return apperror.BadRequest(fmt.Sprintf("top_n must be between %d and %d", minTopN, maxTopN))
	}
	return nil
}

type scoreEnvelope struct {
	Results []domain.RoleScore `json:"results"`
}

// parseResults applies the two-stage recovery ladder: parse the raw text
// directly, then retry on the first-{ to last-} span to shed commentary
// the model may emit around the object. The fallback is the third stage
// and lives with the caller.
func parseResults(raw string) ([]domain.RoleScore, error) {
	text := strings.TrimSpace(raw)

	var envelope scoreEnvelope
	if err := json.Unmarshal([]byte(text), &envelope); err == nil {
		return envelope.Results, nil
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &envelope); err != nil {
		return nil, fmt.Errorf("parse extracted JSON: %w", err)
	}
	return envelope.Results, nil
}

// normalize enforces the shape contract regardless of how well the model
// followed instructions: candidates sorted by score descending, at most
// topN per role.
func normalize(results []domain.RoleScore, topN int) []domain.RoleScore {
	for i := range results {
		sort.SliceStable(results[i].Candidates, func(a, b int) bool {
			return results[i].Candidates[a].Score > results[i].Candidates[b].Score
		})
		if len(results[i].Candidates) > topN {
			results[i].Candidates = results[i].Candidates[:topN]
		}
	}
	return results
}

// fallbackResults builds a placeholder ranking when the backend is down or
// unintelligible: for every requested role, up to topN candidates in pool
// order with scores carrying no real signal.
func fallbackResults(in domain.ScoreInput) []domain.RoleScore {
	results := make([]domain.RoleScore, 0, len(in.Roles))
	for _, role := range in.Roles {
		n := in.TopN
		if n > len(in.Candidates) {
			n = len(in.Candidates)
		}
		candidates := make([]domain.ScoredCandidate, 0, n)
		for _, c := range in.Candidates[:n] {
			candidates = append(candidates, domain.ScoredCandidate{
				ID:     c.ID,
				Score:  fallbackScoreBase + rand.IntN(fallbackScoreRange),
				Reason: fmt.Sprintf("Fallback ranking for role %q: scoring service unavailable", role.Name),
			})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Score > candidates[b].Score
		})
		results = append(results, domain.RoleScore{
			RoleName:   role.Name,
			Needed:     role.Count,
			Candidates: candidates,
		})
	}
	return results
}
