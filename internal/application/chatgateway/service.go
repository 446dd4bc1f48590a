package chatgateway

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/poly-workshop/chat-gateway/internal/domain/chat"
)

const maxMessageLen = 1000

// Service hosts the single chat use case for the gateway.
// It should depend only on domain concepts (no HTTP / wire formats).
type Service struct {
	provider Provider
}

func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

type ChatRequest struct {
	Message string

	// IdempotencyKey is accepted and echoed verbatim as the request ID.
	// It is not deduplicated against prior requests.
	IdempotencyKey string
}

func (s *Service) Chat(ctx context.Context, req ChatRequest) (chat.Exchange, error) {
	if req.Message == "" {
		return chat.Exchange{}, chat.InvalidArgument("message is required")
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		return chat.Exchange{}, chat.InvalidArgument("message must be at most 1000 characters")
	}

	// Time the provider call only; failed calls report no elapsed time.
	start := time.Now()
	answer, err := s.provider.Chat(ctx, req.Message)
	if err != nil {
		return chat.Exchange{}, err
	}
	elapsed := time.Since(start)

	requestID := req.IdempotencyKey
	if requestID == "" {
		requestID = uuid.NewString()
	}

	return chat.Exchange{
		RequestID: requestID,
		Answer:    answer,
		Model:     s.provider.Model(),
		ElapsedMS: elapsed.Milliseconds(),
	}, nil
}
