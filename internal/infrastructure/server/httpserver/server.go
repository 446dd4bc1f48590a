package httpserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/poly-workshop/chat-gateway/internal/infrastructure/health"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/transport/httpadapter"
)

type Server struct {
	listen string
	chat   *httpadapter.ChatService
	ready  health.ReadyzChecker

	mu  sync.Mutex
	lis net.Listener
}

func New(listen string, chat *httpadapter.ChatService, ready health.ReadyzChecker) (*Server, error) {
	if listen == "" {
		return nil, fmt.Errorf("http listen address is empty")
	}
	if chat == nil {
		return nil, fmt.Errorf("chat service is nil")
	}
	return &Server{listen: listen, chat: chat, ready: ready}, nil
}

// Addr reports the bound listen address. Empty until Start has bound the listener.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lis == nil {
		return ""
	}
	return s.lis.Addr().String()
}

// Start serves until ctx is cancelled, then drains in-flight requests with a
// 5s budget before returning.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", health.Livez)
	mux.HandleFunc("/readyz", health.Readyz(s.ready))
	mux.HandleFunc("/chat", s.chat.HandleChat)

	lis, err := net.Listen("tcp", s.listen)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lis = lis
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
