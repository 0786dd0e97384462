package domain

import (
	"context"
	"time"
)

// MatchInput is the inbound matching request. RoleName narrows scoring to a
// single role; TopN caps how many candidates the backend may propose per
// role.
type MatchInput struct {
	ProjectID int64
	RoleName  *string
	TopN      int
}

// ScoredCandidate is one backend proposal: who, how well they fit, and why.
type ScoredCandidate struct {
	ID     int64  `json:"id"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// RoleScore is the scorer's per-role output before the orchestrator fills
// in membership state. Needed may be omitted by the backend.
type RoleScore struct {
	RoleName   string            `json:"role_name"`
	Needed     int               `json:"needed"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// RoleMatchResult is the final per-role answer returned to the caller.
// Filled is always computed from current membership, never taken from the
// scoring backend.
type RoleMatchResult struct {
	RoleName   string            `json:"role_name"`
	Needed     int               `json:"needed"`
	Filled     int               `json:"filled"`
	Candidates []ScoredCandidate `json:"candidates"`
}

// ScoreProject is the minimal project projection the scorer needs for its
// prompt.
type ScoreProject struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ScoreCandidate is a read-only snapshot of a user handed to the scorer.
type ScoreCandidate struct {
	ID       int64   `json:"id"`
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Skills   []Skill `json:"skills"`
}

type ScoreInput struct {
	Project    ScoreProject
	Roles      []Role
	Candidates []ScoreCandidate
	TopN       int
}

// ScoreOutput pairs normalized results with the raw backend text. Raw is
// persisted verbatim in the audit trail; when the fallback path ran it
// holds an error description instead of model output.
type ScoreOutput struct {
	Results []RoleScore
	Raw     string
}

// MatchScorer ranks candidates per role. Implementations must absorb
// backend failures (transport errors, timeouts, unparsable output) into a
// degraded-but-valid result; only structurally invalid input is an error.
type MatchScorer interface {
	Score(ctx context.Context, in ScoreInput) (*ScoreOutput, error)
}

// LLMRequest is the write-once audit row recorded for every scorer round
// trip, fallback included.
type LLMRequest struct {
	ID        int64     `json:"id"`
	ProjectID *int64    `json:"project_id"`
	UserID    *int64    `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type LLMRequestRepository interface {
	Insert(ctx context.Context, req *LLMRequest) error
	ListByProject(ctx context.Context, projectID int64) ([]LLMRequest, error)
}

type MatchUsecase interface {
	RunMatch(ctx context.Context, actorID int64, in MatchInput) ([]RoleMatchResult, error)
	ListAuditRecords(ctx context.Context, actorID, projectID int64) ([]LLMRequest, error)
}
