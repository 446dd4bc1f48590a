package health

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

func Livez(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type ReadyzChecker func(ctx context.Context) error

func Readyz(check ReadyzChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check == nil {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

// HTTPReadyChecker reports readiness by reaching the upstream base URL.
// Any HTTP response counts as reachable; only transport failures do not.
func HTTPReadyChecker(client *http.Client, baseURL string) ReadyzChecker {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, baseURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("upstream unreachable: %w", err)
		}
		_ = resp.Body.Close()
		return nil
	}
}
