package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/internal/repository/redisrepo"
	"github.com/Negibkaya/Mias-sema/internal/usecase"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"
	"github.com/Negibkaya/Mias-sema/pkg/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubCodeStore struct {
	tickets map[string]*domain.LoginTicket
}

func (s *stubCodeStore) Redeem(_ context.Context, code string) (*domain.LoginTicket, error) {
	ticket, ok := s.tickets[code]
	if !ok {
		return nil, redisrepo.ErrCodeNotFound
	}
	// One-time semantics, matching the GETDEL-backed store.
	delete(s.tickets, code)
	return ticket, nil
}

const testSecret = "test-secret"

func TestCompleteLoginInvalidCode(t *testing.T) {
	store := &stubCodeStore{tickets: map[string]*domain.LoginTicket{}}
	uc := usecase.NewAuthUsecase(new(MockUserRepo), store, testSecret, time.Hour)

	t.Run("empty code", func(t *testing.T) {
		_, err := uc.CompleteLogin(context.Background(), "")
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := uc.CompleteLogin(context.Background(), "nope")
		require.Error(t, err)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Code)
		assert.Contains(t, appErr.Message, "Invalid or expired")
	})
}

func TestCompleteLoginCreatesUserOnFirstLogin(t *testing.T) {
	store := &stubCodeStore{tickets: map[string]*domain.LoginTicket{
		"abc123": {TelegramID: 555, Username: ptr("alice"), Name: ptr("Alice")},
	}}

	userRepo := new(MockUserRepo)
	userRepo.On("GetByTelegramID", mock.Anything, int64(555)).Return(nil, domain.ErrNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
		u := args.Get(1).(*domain.User)
		assert.Equal(t, int64(555), u.TelegramID)
		require.NotNil(t, u.Username)
		assert.Equal(t, "alice", *u.Username)
		u.ID = 10 // simulate the assigned primary key
	})

	uc := usecase.NewAuthUsecase(userRepo, store, testSecret, time.Hour)

	token, err := uc.CompleteLogin(context.Background(), "abc123")
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, int64(10), claims.UserID)
	assert.Equal(t, int64(555), claims.TelegramID)

	// The code was consumed.
	_, err = uc.CompleteLogin(context.Background(), "abc123")
	require.Error(t, err)
}

func TestCompleteLoginRefreshesProfile(t *testing.T) {
	store := &stubCodeStore{tickets: map[string]*domain.LoginTicket{
		"abc123": {TelegramID: 555, Username: ptr("alice_new"), Name: ptr("Alice")},
	}}

	userRepo := new(MockUserRepo)
	userRepo.On("GetByTelegramID", mock.Anything, int64(555)).Return(&domain.User{
		ID:         10,
		TelegramID: 555,
		Username:   ptr("alice_old"),
		Name:       ptr("Alice"),
	}, nil)
	userRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil).Run(func(args mock.Arguments) {
		u := args.Get(1).(*domain.User)
		require.NotNil(t, u.Username)
		assert.Equal(t, "alice_new", *u.Username)
	})

	uc := usecase.NewAuthUsecase(userRepo, store, testSecret, time.Hour)

	_, err := uc.CompleteLogin(context.Background(), "abc123")
	require.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestGetCurrentUserUnknownID(t *testing.T) {
	userRepo := new(MockUserRepo)
	userRepo.On("GetByID", mock.Anything, int64(42)).Return(nil, domain.ErrNotFound)

	uc := usecase.NewAuthUsecase(userRepo, &stubCodeStore{}, testSecret, time.Hour)

	_, err := uc.GetCurrentUser(context.Background(), 42)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 401, appErr.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := auth.CreateAccessToken(auth.Claims{UserID: 10, TelegramID: 555}, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, testSecret)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	token, err := auth.CreateAccessToken(auth.Claims{UserID: 10, TelegramID: 555}, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = auth.ParseAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
