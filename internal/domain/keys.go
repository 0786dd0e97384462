package domain

type contextKey string

// Context keys set by the auth middleware.
const (
	KeyUserID     contextKey = "UserID"
	KeyTelegramID contextKey = "TelegramID"
)
