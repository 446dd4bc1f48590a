package chat

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUpstream covers any vendor or transport failure. Handlers surface it
	// with a fixed message; the wrapped cause is for logs only.
	ErrUpstream = errors.New("upstream failed")
)

func InvalidArgument(msg string) error {
	if msg == "" {
		return ErrInvalidArgument
	}
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}

func Upstream(err error) error {
	if err == nil {
		return ErrUpstream
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}
