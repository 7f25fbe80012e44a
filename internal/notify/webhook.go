package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// webhookTransport delivers events as a JSON POST to a configured URL.
type webhookTransport struct {
	url    string
	client *http.Client
}

// NewWebhookTransport creates a Transport that POSTs events to url.
func NewWebhookTransport(url string) Transport {
	return &webhookTransport{
		url:    url,
		client: &http.Client{},
	}
}

// webhookPayload is the wire shape of a delivered event.
type webhookPayload struct {
	ID      string `json:"id"`
	Level   string `json:"level"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (t *webhookTransport) Send(ctx context.Context, event Event) error {
	body, err := json.Marshal(webhookPayload{
		ID:      event.ID,
		Level:   event.Level,
		Subject: event.Subject,
		Body:    event.Body,
	})
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting to webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
