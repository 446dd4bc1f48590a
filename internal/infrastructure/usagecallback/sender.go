package usagecallback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender posts per-request usage notifications to a configured callback URL.
// Delivery is best-effort; callers decide whether a failure matters.
type Sender struct {
	client  *http.Client
	timeout time.Duration
}

func New(client *http.Client, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Sender{client: client, timeout: timeout}
}

type Payload struct {
	Event          string `json:"event"`
	RequestID      string `json:"request_id"`
	Model          string `json:"model"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	OccurredAtUnix int64  `json:"occurred_at_unix"`
}

func (s *Sender) Send(ctx context.Context, url string, payload Payload) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("usage callback sender not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("usage callback non-2xx: %s", resp.Status)
	}
	return nil
}
