package notify

import (
	"context"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	xhttp "StockCast/pkg/http"
)

// Webhook posts training-completed events to a configured URL.
type Webhook struct {
	client *xhttp.Client
	url    string
}

// NewWebhook creates a webhook notifier.
func NewWebhook(url string, timeout time.Duration) *Webhook {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Webhook{
		client: xhttp.NewClient(xhttp.WithTimeout(timeout)),
		url:    url,
	}
}

// TrainingCompleted delivers the event. Delivery is best-effort; the caller
// treats failures as non-fatal.
func (w *Webhook) TrainingCompleted(ctx context.Context, ev models.TrainingEvent) error {
	err := w.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    w.url,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: ev,
	}, nil)
	if err != nil {
		return fmt.Errorf("post training webhook: %w", err)
	}
	return nil
}
