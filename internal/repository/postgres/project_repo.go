package postgres

import (
	"context"
	"errors"

	"github.com/Negibkaya/Mias-sema/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type projectRepo struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepo{db: db}
}

const projectColumns = `id, name, description, COALESCE(roles, '[]'::jsonb), owner_id`

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	query := `INSERT INTO projects (name, description, roles, owner_id)
              VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRow(ctx, query,
		project.Name, project.Description, project.Roles, project.OwnerID,
	).Scan(&project.ID)
}

func (r *projectRepo) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	var p domain.Project
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Roles, &p.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Roles, &p.OwnerID); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	query := `UPDATE projects SET name = $2, description = $3, roles = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, project.ID, project.Name, project.Description, project.Roles)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepo) ListMembers(ctx context.Context, projectID int64) ([]domain.Member, error) {
	query := `SELECT user_id, role_name FROM project_members WHERE project_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.UserID, &m.RoleName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepo) ListMemberProfiles(ctx context.Context, projectID int64) ([]domain.MemberProfile, error) {
	query := `
		SELECT u.id, u.telegram_id, u.username, u.name, u.bio,
		       COALESCE(u.skills, '[]'::jsonb), pm.role_name
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.id`
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.MemberProfile
	for rows.Next() {
		var m domain.MemberProfile
		if err := rows.Scan(&m.ID, &m.TelegramID, &m.Username, &m.Name, &m.Bio, &m.Skills, &m.RoleName); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *projectRepo) GetMember(ctx context.Context, projectID, userID int64) (*domain.Member, error) {
	query := `SELECT user_id, role_name FROM project_members WHERE project_id = $1 AND user_id = $2`
	var m domain.Member
	err := r.db.QueryRow(ctx, query, projectID, userID).Scan(&m.UserID, &m.RoleName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *projectRepo) AddMember(ctx context.Context, projectID, userID int64, roleName *string) error {
	query := `INSERT INTO project_members (project_id, user_id, role_name) VALUES ($1, $2, $3)`
	_, err := r.db.Exec(ctx, query, projectID, userID, roleName)
	return err
}

func (r *projectRepo) UpdateMemberRole(ctx context.Context, projectID, userID int64, roleName string) error {
	query := `UPDATE project_members SET role_name = $3 WHERE project_id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, projectID, userID, roleName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *projectRepo) RemoveMember(ctx context.Context, projectID, userID int64) error {
	query := `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`
	_, err := r.db.Exec(ctx, query, projectID, userID)
	return err
}
