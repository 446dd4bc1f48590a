package chatgateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/poly-workshop/chat-gateway/internal/domain/chat"
)

type fakeProvider struct {
	answer string
	err    error
	calls  int
}

func (f *fakeProvider) Chat(_ context.Context, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeProvider) Model() string { return "command-test" }

func TestService_Chat(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{answer: "hi there"}
	svc := NewService(p)

	res, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if res.Answer != "hi there" {
		t.Fatalf("unexpected answer: %q", res.Answer)
	}
	if res.Model != "command-test" {
		t.Fatalf("unexpected model: %q", res.Model)
	}
	if res.RequestID == "" {
		t.Fatal("request id is empty")
	}
	if res.ElapsedMS < 0 {
		t.Fatalf("negative elapsed time: %d", res.ElapsedMS)
	}
}

func TestService_Chat_RequestIDPolicy(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeProvider{answer: "ok"})

	res, err := svc.Chat(context.Background(), ChatRequest{Message: "hello", IdempotencyKey: "key-123"})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if res.RequestID != "key-123" {
		t.Fatalf("idempotency key not echoed: %q", res.RequestID)
	}

	// Without a key, ids are generated and distinct across calls.
	first, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	second, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if first.RequestID == "" || second.RequestID == "" {
		t.Fatal("generated request id is empty")
	}
	if first.RequestID == second.RequestID {
		t.Fatalf("request ids not distinct: %q", first.RequestID)
	}
}

func TestService_Chat_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		message string
	}{
		{"empty", ""},
		{"too long", strings.Repeat("a", 1001)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := &fakeProvider{answer: "ok"}
			svc := NewService(p)

			_, err := svc.Chat(context.Background(), ChatRequest{Message: tc.message})
			if !errors.Is(err, chat.ErrInvalidArgument) {
				t.Fatalf("expected invalid argument, got: %v", err)
			}
			if p.calls != 0 {
				t.Fatalf("provider called %d times for invalid message", p.calls)
			}
		})
	}

	// 1000 characters is still valid.
	p := &fakeProvider{answer: "ok"}
	svc := NewService(p)
	if _, err := svc.Chat(context.Background(), ChatRequest{Message: strings.Repeat("a", 1000)}); err != nil {
		t.Fatalf("Chat error on max-length message: %v", err)
	}
}

func TestService_Chat_UpstreamError(t *testing.T) {
	t.Parallel()

	svc := NewService(&fakeProvider{err: chat.Upstream(errors.New("connection refused"))})

	_, err := svc.Chat(context.Background(), ChatRequest{Message: "hello"})
	if !errors.Is(err, chat.ErrUpstream) {
		t.Fatalf("expected upstream error, got: %v", err)
	}
}
