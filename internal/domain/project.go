package domain

import "context"

// Role is a hiring need inside a project: a name, how many people are
// wanted, and the minimum skill levels expected. Roles live in the
// project's jsonb column, they are not standalone rows.
type Role struct {
	Name   string  `json:"name" validate:"required"`
	Count  int     `json:"count" validate:"gte=1,lte=100"`
	Skills []Skill `json:"skills" validate:"dive"`
}

type Project struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Roles       []Role  `json:"roles"`
	OwnerID     int64   `json:"owner_id"`
}

// Member is a user attached to a project, optionally assigned to one of
// the project's roles by name.
type Member struct {
	UserID   int64   `json:"user_id"`
	RoleName *string `json:"role_name"`
}

// MemberProfile is the member row joined with the user it points at,
// returned by the members listing.
type MemberProfile struct {
	User
	RoleName *string `json:"role_name"`
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id int64) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id int64) error

	ListMembers(ctx context.Context, projectID int64) ([]Member, error)
	ListMemberProfiles(ctx context.Context, projectID int64) ([]MemberProfile, error)
	GetMember(ctx context.Context, projectID, userID int64) (*Member, error)
	AddMember(ctx context.Context, projectID, userID int64, roleName *string) error
	UpdateMemberRole(ctx context.Context, projectID, userID int64, roleName string) error
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

type ProjectPatch struct {
	Name        *string
	Description *string
	Roles       []Role
}

type ProjectUsecase interface {
	CreateProject(ctx context.Context, ownerID int64, project *Project) error
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	UpdateProject(ctx context.Context, actorID, projectID int64, patch ProjectPatch) (*Project, error)
	DeleteProject(ctx context.Context, actorID, projectID int64) error

	ListMembers(ctx context.Context, projectID int64) ([]MemberProfile, error)
	AddMember(ctx context.Context, actorID, projectID, userID int64, roleName *string) (already bool, err error)
	RemoveMember(ctx context.Context, actorID, projectID, userID int64) error
}
