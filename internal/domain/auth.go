package domain

import "context"

// LoginTicket is what a redeemed one-time code resolves to. The Telegram
// bot stores these as JSON under login_code:<code> with a short TTL.
type LoginTicket struct {
	TelegramID int64   `json:"telegram_id"`
	Username   *string `json:"username"`
	Name       *string `json:"name"`
}

// LoginCodeStore redeems one-time login codes. Redemption is destructive:
// a code is valid at most once.
type LoginCodeStore interface {
	Redeem(ctx context.Context, code string) (*LoginTicket, error)
}

type AuthUsecase interface {
	// CompleteLogin redeems the code, upserts the user and returns a signed
	// access token for them.
	CompleteLogin(ctx context.Context, code string) (token string, err error)
	GetCurrentUser(ctx context.Context, userID int64) (*User, error)
}
