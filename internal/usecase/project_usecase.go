package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type projectUsecase struct {
	projectRepo domain.ProjectRepository
	userRepo    domain.UserRepository
	notifier    domain.Notifier
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewProjectUsecase(
	projectRepo domain.ProjectRepository,
	userRepo domain.UserRepository,
	notifier domain.Notifier,
	validate *validator.Validate,
	logger *slog.Logger,
) domain.ProjectUsecase {
	return &projectUsecase{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		validate:    validate,
		logger:      logger,
	}
}

func (u *projectUsecase) CreateProject(ctx context.Context, ownerID int64, project *domain.Project) error {
	if project.Name == "" {
		return apperror.BadRequest("Name is required")
	}
	if err := u.validateRoles(project.Roles); err != nil {
		return err
	}

	project.OwnerID = ownerID
	if err := u.projectRepo.Create(ctx, project); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *projectUsecase) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	project, err := u.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(err)
	}
	return project, nil
}

func (u *projectUsecase) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := u.projectRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

func (u *projectUsecase) UpdateProject(ctx context.Context, actorID, projectID int64, patch domain.ProjectPatch) (*domain.Project, error) {
	project, err := u.ownedProject(ctx, actorID, projectID, "Only owner can edit")
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, apperror.BadRequest("Name is required")
		}
		project.Name = *patch.Name
	}
	if patch.Description != nil {
		project.Description = patch.Description
	}
	if patch.Roles != nil {
		if err := u.validateRoles(patch.Roles); err != nil {
			return nil, err
		}
		project.Roles = patch.Roles
	}

	if err := u.projectRepo.Update(ctx, project); err != nil {
		return nil, apperror.Internal(err)
	}
	return project, nil
}

func (u *projectUsecase) DeleteProject(ctx context.Context, actorID, projectID int64) error {
	if _, err := u.ownedProject(ctx, actorID, projectID, "Only owner can delete"); err != nil {
		return err
	}
	if err := u.projectRepo.Delete(ctx, projectID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (u *projectUsecase) ListMembers(ctx context.Context, projectID int64) ([]domain.MemberProfile, error) {
	if _, err := u.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	members, err := u.projectRepo.ListMemberProfiles(ctx, projectID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return members, nil
}

// AddMember is idempotent: adding an existing member only refreshes the
// role assignment when one is supplied, and reports already=true.
func (u *projectUsecase) AddMember(ctx context.Context, actorID, projectID, userID int64, roleName *string) (bool, error) {
	project, err := u.ownedProject(ctx, actorID, projectID, "Only owner can add members")
	if err != nil {
		return false, err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, apperror.NotFound("User not found")
		}
		return false, apperror.Internal(err)
	}

	existing, err := u.projectRepo.GetMember(ctx, projectID, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return false, apperror.Internal(err)
	}
	if existing != nil {
		if roleName != nil && *roleName != "" {
			if err := u.projectRepo.UpdateMemberRole(ctx, projectID, userID, *roleName); err != nil {
				return false, apperror.Internal(err)
			}
		}
		return true, nil
	}

	if err := u.projectRepo.AddMember(ctx, projectID, userID, roleName); err != nil {
		return false, apperror.Internal(err)
	}

	text := fmt.Sprintf("You were added to project: %s", project.Name)
	if roleName != nil && *roleName != "" {
		text = fmt.Sprintf("You were added to project: %s (role %q)", project.Name, *roleName)
	}
	u.notifyAsync(user.TelegramID, text)

	return false, nil
}

func (u *projectUsecase) RemoveMember(ctx context.Context, actorID, projectID, userID int64) error {
	project, err := u.ownedProject(ctx, actorID, projectID, "Only owner can remove members")
	if err != nil {
		return err
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}

	if err := u.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return apperror.Internal(err)
	}

	u.notifyAsync(user.TelegramID, fmt.Sprintf("You were removed from project: %s", project.Name))
	return nil
}

func (u *projectUsecase) ownedProject(ctx context.Context, actorID, projectID int64, denyMessage string) (*domain.Project, error) {
	project, err := u.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(err)
	}
	if project.OwnerID != actorID {
		return nil, apperror.Forbidden(denyMessage)
	}
	return project, nil
}

func (u *projectUsecase) validateRoles(roles []domain.Role) error {
	for _, role := range roles {
		if err := u.validate.Struct(role); err != nil {
			return apperror.BadRequest(fmt.Sprintf("invalid role %q: %v", role.Name, err))
		}
	}
	return nil
}

// notifyAsync fires the notification without blocking or failing the
// request. The membership write is already committed at this point.
func (u *projectUsecase) notifyAsync(telegramID int64, text string) {
	if u.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := u.notifier.Notify(ctx, telegramID, text); err != nil {
			u.logger.Warn("member notification failed", "telegram_id", telegramID, "error", err)
		}
	}()
}
