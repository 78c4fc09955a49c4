// Package httping issues one timed HTTP request and records response
// metadata. Unlike ping/tcping there is no internal attempt loop:
// repetition, when wanted, is the caller's responsibility.
package httping

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/netprobe-io/netprobe/internal/config"
	"github.com/netprobe-io/netprobe/probe"
)

type Config struct {
	URL             string
	Method          string
	Timeout         time.Duration
	FollowRedirects bool
	VerifyTLS       bool
	Headers         map[string]string
}

type Result struct {
	URL           string            `json:"url"`
	StatusCode    int               `json:"status_code,omitempty"`
	ResponseTime  float64           `json:"response_time"`
	ContentLength int64             `json:"content_length,omitempty"`
	Success       bool              `json:"success"`
	Error         string            `json:"error_message,omitempty"`
	Headers       map[string]string `json:"headers"`
	Timestamp     time.Time         `json:"timestamp"`
}

// Methods the prober accepts. Anything else is a configuration error.
var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

// Run executes the request. A transport failure (DNS, connect, TLS,
// timeout) is a successful probe execution that observed failure: the
// result carries success=false and the error text. Only an unsupported
// method is a hard error, rejected before any network activity.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	method := cfg.Method
	if method == "" {
		method = http.MethodGet
	}
	if !allowedMethods[method] {
		return nil, fmt.Errorf("%w: unsupported HTTP method %q", probe.ErrMalformedConfig, cfg.Method)
	}

	client := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS},
		},
	}
	if !cfg.FollowRedirects {
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", probe.ErrMalformedConfig, err)
	}

	req.Header.Set("User-Agent", "netprobe/"+config.Version())
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}

	result := &Result{
		URL:       cfg.URL,
		Headers:   map[string]string{},
		Timestamp: time.Now().UTC(),
	}

	start := time.Now()
	resp, err := client.Do(req)
	result.ResponseTime = probe.Millis(time.Since(start))
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if resp.ContentLength >= 0 {
		result.ContentLength = resp.ContentLength
	}
	for key := range resp.Header {
		result.Headers[key] = resp.Header.Get(key)
	}

	return result, nil
}
