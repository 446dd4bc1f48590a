package chatgateway

import (
	"context"
)

// Provider is an application port for the upstream chat vendor (e.g. Cohere).
// Implementations live in infrastructure.
//
// Chat returns the text-typed content of the vendor reply, concatenated in
// order; any failure satisfies errors.Is(err, chat.ErrUpstream).
type Provider interface {
	Chat(ctx context.Context, message string) (string, error)

	// Model reports the configured upstream model identifier, echoed in responses.
	Model() string
}
