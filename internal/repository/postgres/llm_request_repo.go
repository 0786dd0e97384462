package postgres

import (
	"context"

	"github.com/Negibkaya/Mias-sema/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type llmRequestRepo struct {
	db *pgxpool.Pool
}

func NewLLMRequestRepository(db *pgxpool.Pool) domain.LLMRequestRepository {
	return &llmRequestRepo{db: db}
}

// Insert appends one audit row. Rows are write-once: nothing in the
// service updates or deletes them.
func (r *llmRequestRepo) Insert(ctx context.Context, req *domain.LLMRequest) error {
	query := `INSERT INTO llm_requests (project_id, user_id, question, answer)
              VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.db.QueryRow(ctx, query,
		req.ProjectID, req.UserID, req.Question, req.Answer,
	).Scan(&req.ID, &req.CreatedAt)
}

func (r *llmRequestRepo) ListByProject(ctx context.Context, projectID int64) ([]domain.LLMRequest, error) {
	query := `SELECT id, project_id, user_id, question, answer, created_at
              FROM llm_requests WHERE project_id = $1 ORDER BY id DESC`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.LLMRequest
	for rows.Next() {
		var rec domain.LLMRequest
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.UserID, &rec.Question, &rec.Answer, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
