package domain

import "context"

// Notifier sends a short message to a user out-of-band (the Telegram bot
// service). Delivery is best-effort; failures must never fail the API
// request that triggered them.
type Notifier interface {
	Notify(ctx context.Context, telegramID int64, text string) error
}
