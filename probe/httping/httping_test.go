package httping

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/netprobe-io/netprobe/probe"
)

func TestRunSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Probe", "yes")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	result, err := Run(context.Background(), Config{
		URL:     srv.URL,
		Method:  http.MethodGet,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Success {
		t.Errorf("success = false, error = %q", result.Error)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", result.StatusCode)
	}
	if result.Headers["X-Probe"] != "yes" {
		t.Errorf("response headers not captured: %v", result.Headers)
	}
	if result.ResponseTime <= 0 {
		t.Error("response time must be positive")
	}
}

func TestRunNon2xxIsNotSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result, err := Run(context.Background(), Config{URL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Success {
		t.Error("5xx response must not be a success")
	}
	if result.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", result.StatusCode)
	}
}

func TestRunTransportFailure(t *testing.T) {
	// The server is gone: the probe still completes and reports failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	result, err := Run(context.Background(), Config{URL: url, Timeout: time.Second})
	if err != nil {
		t.Fatalf("transport failure must not be a hard error, got %v", err)
	}
	if result.Success {
		t.Error("success = true on a dead server")
	}
	if result.Error == "" {
		t.Error("error message missing")
	}
	if result.StatusCode != 0 {
		t.Errorf("status = %d, want 0", result.StatusCode)
	}
}

func TestRunRejectsMethod(t *testing.T) {
	for _, method := range []string{"TRACE", "PATCH", "bogus"} {
		t.Run(method, func(t *testing.T) {
			_, err := Run(context.Background(), Config{URL: "http://127.0.0.1", Method: method})
			if !errors.Is(err, probe.ErrMalformedConfig) {
				t.Fatalf("method %q accepted, want ErrMalformedConfig", method)
			}
		})
	}
}

func TestRunCustomHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Token")
	}))
	defer srv.Close()

	_, err := Run(context.Background(), Config{
		URL:     srv.URL,
		Timeout: 5 * time.Second,
		Headers: map[string]string{"X-Token": "secret"},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got != "secret" {
		t.Errorf("header X-Token = %q, want secret", got)
	}
}

func TestRunRedirectPolicy(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer target.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer srv.Close()

	noFollow, err := Run(context.Background(), Config{URL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if noFollow.StatusCode != http.StatusFound {
		t.Errorf("without following, status = %d, want 302", noFollow.StatusCode)
	}

	follow, err := Run(context.Background(), Config{
		URL:             srv.URL,
		Timeout:         5 * time.Second,
		FollowRedirects: true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if follow.StatusCode != http.StatusOK {
		t.Errorf("with following, status = %d, want 200", follow.StatusCode)
	}
}
