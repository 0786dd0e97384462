package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Negibkaya/Mias-sema/internal/domain"
	"github.com/Negibkaya/Mias-sema/internal/repository/redisrepo"
	"github.com/Negibkaya/Mias-sema/pkg/apperror"
	"github.com/Negibkaya/Mias-sema/pkg/auth"
)

type authUsecase struct {
	userRepo  domain.UserRepository
	codeStore domain.LoginCodeStore
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthUsecase(userRepo domain.UserRepository, codeStore domain.LoginCodeStore, jwtSecret string, tokenTTL time.Duration) domain.AuthUsecase {
	return &authUsecase{
		userRepo:  userRepo,
		codeStore: codeStore,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

func (u *authUsecase) CompleteLogin(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", apperror.BadRequest("code is required")
	}

	ticket, err := u.codeStore.Redeem(ctx, code)
	if err != nil {
		if errors.Is(err, redisrepo.ErrCodeNotFound) {
			return "", apperror.Unauthorized("Invalid or expired login code")
		}
		return "", apperror.Internal(err)
	}

	user, err := u.upsertUser(ctx, ticket)
	if err != nil {
		return "", apperror.Internal(err)
	}

	token, err := auth.CreateAccessToken(auth.Claims{
		UserID:     user.ID,
		TelegramID: user.TelegramID,
	}, u.jwtSecret, u.tokenTTL)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return token, nil
}

// upsertUser creates the user on first login and refreshes username/name
// on subsequent ones when Telegram reports new values.
func (u *authUsecase) upsertUser(ctx context.Context, ticket *domain.LoginTicket) (*domain.User, error) {
	user, err := u.userRepo.GetByTelegramID(ctx, ticket.TelegramID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user = &domain.User{
			TelegramID: ticket.TelegramID,
			Username:   ticket.Username,
			Name:       ticket.Name,
		}
		if err := u.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}

	changed := false
	if ticket.Username != nil && !equalPtr(user.Username, ticket.Username) {
		user.Username = ticket.Username
		changed = true
	}
	if ticket.Name != nil && !equalPtr(user.Name, ticket.Name) {
		user.Name = ticket.Name
		changed = true
	}
	if changed {
		if err := u.userRepo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
