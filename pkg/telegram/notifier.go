package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Notifier delivers fire-and-forget messages to users through the Telegram
// bot service's /notify endpoint. Callers treat delivery as best-effort:
// errors are logged, never surfaced to API clients.
type Notifier struct {
	baseURL string
	client  *http.Client
}

func NewNotifier(baseURL string) *Notifier {
	return &Notifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether a bot service URL was provided.
func (n *Notifier) IsConfigured() bool {
	return n.baseURL != ""
}

type notifyRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Text       string `json:"text"`
}

func (n *Notifier) Notify(ctx context.Context, telegramID int64, text string) error {
	if !n.IsConfigured() {
		return fmt.Errorf("telegram notifier: bot service URL not configured")
	}

	body, err := json.Marshal(notifyRequest{TelegramID: telegramID, Text: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/notify", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram notifier: bot service returned %d", resp.StatusCode)
	}
	return nil
}
