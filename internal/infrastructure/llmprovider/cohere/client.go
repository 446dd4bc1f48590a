package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poly-workshop/chat-gateway/internal/domain/chat"
)

// Provider implements application.chatgateway.Provider for the Cohere v2 Chat API.
type Provider struct {
	baseURL string
	apiKey  string
	model   string

	httpClient *http.Client
}

func NewProvider(baseURL, apiKey, model string, timeout time.Duration) *Provider {
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *Provider) Model() string { return p.model }

func (p *Provider) Chat(ctx context.Context, message string) (string, error) {
	// Cohere v2 request/response shapes (minimal subset).
	type reqMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type chatReq struct {
		Model    string       `json:"model"`
		Messages []reqMessage `json:"messages"`
	}
	// Reply content is an array of typed segments; reasoning models emit
	// "thinking" segments alongside "text" ones.
	type contentItem struct {
		Type     string `json:"type"`
		Text     string `json:"text,omitempty"`
		Thinking string `json:"thinking,omitempty"`
	}
	type respMessage struct {
		Role    string        `json:"role"`
		Content []contentItem `json:"content"`
	}
	type chatResp struct {
		ID      string      `json:"id"`
		Message respMessage `json:"message"`
	}

	body := chatReq{
		Model: p.model,
		Messages: []reqMessage{
			{Role: "user", Content: message},
		},
	}

	var out chatResp
	if err := p.doJSON(ctx, http.MethodPost, p.baseURL+"/v2/chat", body, &out); err != nil {
		return "", err
	}

	// Keep only "text" segments, in order. "thinking" and any future kinds are dropped.
	var sb strings.Builder
	for _, item := range out.Message.Content {
		if item.Type == chat.SegmentText {
			sb.WriteString(item.Text)
		}
	}
	return sb.String(), nil
}

func (p *Provider) doJSON(ctx context.Context, method, url string, in any, out any) error {
	if p.apiKey == "" {
		return chat.Upstream(fmt.Errorf("cohere api key is empty"))
	}
	b, err := json.Marshal(in)
	if err != nil {
		return chat.Upstream(err)
	}

	r, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(b))
	if err != nil {
		return chat.Upstream(err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(r)
	if err != nil {
		return chat.Upstream(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = resp.Status
		}
		return chat.Upstream(fmt.Errorf("cohere http %d: %s", resp.StatusCode, msg))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return chat.Upstream(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
