package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/internal/usecase"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	ch chan string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{ch: make(chan string, 4)}
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, text string) error {
	n.ch <- text
	return nil
}

func (n *recordingNotifier) wait(t *testing.T) string {
	t.Helper()
	select {
	case text := <-n.ch:
		return text
	case <-time.After(time.Second):
		t.Fatal("expected a notification")
		return ""
	}
}

func newProjectUC(projectRepo *MockProjectRepo, userRepo *MockUserRepo, notifier domain.Notifier) domain.ProjectUsecase {
	return usecase.NewProjectUsecase(projectRepo, userRepo, notifier, validator.New(), discardLogger())
}

func TestCreateProjectValidation(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	uc := newProjectUC(projectRepo, new(MockUserRepo), nil)

	t.Run("name required", func(t *testing.T) {
		err := uc.CreateProject(context.Background(), 1, &domain.Project{})
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("role count must be positive", func(t *testing.T) {
		err := uc.CreateProject(context.Background(), 1, &domain.Project{
			Name:  "App",
			Roles: []domain.Role{{Name: "Backend", Count: 0}},
		})
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("owner forced from caller", func(t *testing.T) {
		projectRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil).Run(func(args mock.Arguments) {
			p := args.Get(1).(*domain.Project)
			assert.Equal(t, int64(1), p.OwnerID)
		})
		err := uc.CreateProject(context.Background(), 1, &domain.Project{
			Name:    "App",
			OwnerID: 999, // caller-supplied owner must be ignored
			Roles:   []domain.Role{{Name: "Backend", Count: 2}},
		})
		require.NoError(t, err)
	})
}

func TestProjectMutationOwnerOnly(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, int64(7)).Return(sampleProject(), nil)

	uc := newProjectUC(projectRepo, new(MockUserRepo), nil)
	ctx := context.Background()

	assertForbidden := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
	}

	t.Run("update", func(t *testing.T) {
		_, err := uc.UpdateProject(ctx, 99, 7, domain.ProjectPatch{Name: ptr("New")})
		assertForbidden(t, err)
	})
	t.Run("delete", func(t *testing.T) {
		assertForbidden(t, uc.DeleteProject(ctx, 99, 7))
	})
	t.Run("add member", func(t *testing.T) {
		_, err := uc.AddMember(ctx, 99, 7, 4, nil)
		assertForbidden(t, err)
	})
	t.Run("remove member", func(t *testing.T) {
		assertForbidden(t, uc.RemoveMember(ctx, 99, 7, 4))
	})

	projectRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	projectRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	projectRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	projectRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddMemberNotifies(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, int64(7)).Return(sampleProject(), nil)
	projectRepo.On("GetMember", mock.Anything, int64(7), int64(4)).Return(nil, domain.ErrNotFound)
	projectRepo.On("AddMember", mock.Anything, int64(7), int64(4), mock.Anything).Return(nil)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, int64(4)).Return(&domain.User{ID: 4, TelegramID: 400}, nil)

	notifier := newRecordingNotifier()
	uc := newProjectUC(projectRepo, userRepo, notifier)

	already, err := uc.AddMember(context.Background(), 1, 7, 4, ptr("Backend"))
	require.NoError(t, err)
	assert.False(t, already)

	text := notifier.wait(t)
	assert.Contains(t, text, "Hackathon App")
	assert.Contains(t, text, "Backend")
}

func TestAddMemberIdempotent(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, int64(7)).Return(sampleProject(), nil)
	projectRepo.On("GetMember", mock.Anything, int64(7), int64(4)).Return(&domain.Member{UserID: 4, RoleName: ptr("Backend")}, nil)
	projectRepo.On("UpdateMemberRole", mock.Anything, int64(7), int64(4), "Designer").Return(nil)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, int64(4)).Return(&domain.User{ID: 4, TelegramID: 400}, nil)

	uc := newProjectUC(projectRepo, userRepo, nil)

	t.Run("re-add without role is a no-op", func(t *testing.T) {
		already, err := uc.AddMember(context.Background(), 1, 7, 4, nil)
		require.NoError(t, err)
		assert.True(t, already)
		projectRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("re-add with role refreshes the assignment", func(t *testing.T) {
		already, err := uc.AddMember(context.Background(), 1, 7, 4, ptr("Designer"))
		require.NoError(t, err)
		assert.True(t, already)
		projectRepo.AssertCalled(t, "UpdateMemberRole", mock.Anything, int64(7), int64(4), "Designer")
	})
}

func TestAddMemberUnknownUser(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, int64(7)).Return(sampleProject(), nil)

	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, domain.ErrNotFound)

	uc := newProjectUC(projectRepo, userRepo, nil)

	_, err := uc.AddMember(context.Background(), 1, 7, 404, nil)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestUpdateProjectPatchSemantics(t *testing.T) {
	projectRepo := new(MockProjectRepo)
	projectRepo.On("GetByID", mock.Anything, int64(7)).Return(sampleProject(), nil)
	projectRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Project")).Return(nil)

	uc := newProjectUC(projectRepo, new(MockUserRepo), nil)

	updated, err := uc.UpdateProject(context.Background(), 1, 7, domain.ProjectPatch{
		Description: ptr("New description"),
	})
	require.NoError(t, err)

	// Untouched fields survive the patch.
	assert.Equal(t, "Hackathon App", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "New description", *updated.Description)
	assert.Len(t, updated.Roles, 2)
}
