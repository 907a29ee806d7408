package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

// Webhook posts inconsistency alerts to an operator endpoint.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) Alert(ctx context.Context, event *domain.InconsistencyEvent) error {
	body, err := json.Marshal(InconsistencyAlert{
		EventID:            event.ID,
		Kind:               string(event.Kind),
		Operation:          event.Operation,
		SubjectAddress:     event.SubjectAddress,
		RecordID:           event.RecordID,
		LastCompletedLevel: event.LastCompletedLevel,
		Step:               event.Step,
		Error:              event.Error,
		DetectedAt:         event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build alert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("send alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("alert webhook returned status %d", resp.StatusCode)
	}
	return nil
}
