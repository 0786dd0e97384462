package redisrepo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Negibkaya/Mias-sema/internal/domain"

	"github.com/redis/go-redis/v9"
)

// ErrCodeNotFound means the code never existed, expired, or was already
// redeemed; callers cannot tell these apart and should not try.
var ErrCodeNotFound = errors.New("login code not found or expired")

const loginCodePrefix = "login_code:"

type loginCodeStore struct {
	client *redis.Client
}

// NewLoginCodeStore reads one-time login codes issued by the Telegram bot.
// The bot writes login_code:<code> keys holding a JSON identity triple
// with a short TTL; redemption deletes the key atomically.
func NewLoginCodeStore(client *redis.Client) domain.LoginCodeStore {
	return &loginCodeStore{client: client}
}

func (s *loginCodeStore) Redeem(ctx context.Context, code string) (*domain.LoginTicket, error) {
	raw, err := s.client.GetDel(ctx, loginCodePrefix+code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}

	var ticket domain.LoginTicket
	if err := json.Unmarshal([]byte(raw), &ticket); err != nil {
		return nil, err
	}
	if ticket.TelegramID == 0 {
		return nil, ErrCodeNotFound
	}
	return &ticket, nil
}
