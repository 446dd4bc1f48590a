package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/poly-workshop/chat-gateway/internal/application/chatgateway"
	"github.com/poly-workshop/chat-gateway/internal/domain/chat"
	"github.com/poly-workshop/chat-gateway/internal/infrastructure/usagecallback"
)

const idempotencyKeyHeader = "X-Idempotency-Key"

// maxBodyBytes caps request bodies well above the 1000-character message limit.
const maxBodyBytes = 1 << 20 // 1MiB

// ChatService adapts the application chat use case to the JSON HTTP surface.
type ChatService struct {
	app *chatgateway.Service

	// cbURL is empty when usage callbacks are disabled.
	cbURL    string
	cbSender *usagecallback.Sender
}

func NewChatService(app *chatgateway.Service, cbURL string, cbTimeout time.Duration) *ChatService {
	return &ChatService{
		app:      app,
		cbURL:    cbURL,
		cbSender: usagecallback.New(nil, cbTimeout),
	}
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	RequestID   string `json:"request_id"`
	Answer      string `json:"answer"`
	Model       string `json:"model"`
	ElapsedTime int64  `json:"elapsed_time"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *ChatService) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusUnprocessableEntity, "invalid request body")
		return
	}

	res, err := s.app.Chat(r.Context(), chatgateway.ChatRequest{
		Message:        req.Message,
		IdempotencyKey: r.Header.Get(idempotencyKeyHeader),
	})
	if err != nil {
		writeChatError(w, err)
		return
	}

	s.maybeSendUsageCallback(res)

	writeJSON(w, http.StatusOK, chatResponse{
		RequestID:   res.RequestID,
		Answer:      res.Answer,
		Model:       res.Model,
		ElapsedTime: res.ElapsedMS,
	})
}

func writeChatError(w http.ResponseWriter, err error) {
	if errors.Is(err, chat.ErrInvalidArgument) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if errors.Is(err, chat.ErrUpstream) {
		// The wrapped cause stays server-side; clients get a fixed message.
		slog.Error("provider call failed", "error", err)
		writeError(w, http.StatusBadGateway, "Upstream failed")
		return
	}
	slog.Error("chat handler failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeError(w http.ResponseWriter, code int, detail string) {
	writeJSON(w, code, errorResponse{Detail: detail})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func (s *ChatService) maybeSendUsageCallback(res chat.Exchange) {
	if s == nil || s.cbSender == nil || s.cbURL == "" {
		return
	}

	payload := usagecallback.Payload{
		Event:          "chat.completed",
		RequestID:      res.RequestID,
		Model:          res.Model,
		ElapsedMS:      res.ElapsedMS,
		OccurredAtUnix: time.Now().Unix(),
	}
	url := s.cbURL
	go func() {
		if err := s.cbSender.Send(context.Background(), url, payload); err != nil {
			slog.Warn("usage callback failed", "url", url, "error", err)
		}
	}()
}
