package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const userAgent = "reputation-bot-notify/1"

// StatusError is returned for non-2xx webhook responses.
type StatusError struct {
	Status     int
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("webhook responded with status %d, retry after %s", e.Status, e.RetryAfter)
	}
	return fmt.Sprintf("webhook responded with status %d", e.Status)
}

// Permanent reports whether resending the same payload is pointless.
func (e *StatusError) Permanent() bool {
	switch {
	case e.Status == http.StatusTooManyRequests, e.Status == http.StatusRequestTimeout:
		return false
	default:
		return e.Status >= 400 && e.Status < 500
	}
}

// APIError is a 2xx reply whose body still reports a failure code.
type APIError struct {
	Platform string
	Code     int
	Msg      string
	Retry    bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s webhook rejected message: code %d: %s", e.Platform, e.Code, e.Msg)
}

func (e *APIError) Permanent() bool { return !e.Retry }

// IsPermanent reports whether err came from a webhook that will keep
// rejecting the same request.
func IsPermanent(err error) bool {
	var p interface{ Permanent() bool }
	return errors.As(err, &p) && p.Permanent()
}

// RetryDelay returns the wait the webhook asked for, or zero.
func RetryDelay(err error) time.Duration {
	var se *StatusError
	if errors.As(err, &se) {
		return se.RetryAfter
	}
	return 0
}

type HTTPClient struct {
	inner *http.Client
}

func NewHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{inner: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, headers map[string]string, body any) error {
	_, err := c.post(ctx, endpoint, headers, body)
	return err
}

// PostJSONDecode posts body and decodes a non-empty 2xx reply into out.
func (c *HTTPClient) PostJSONDecode(ctx context.Context, endpoint string, headers map[string]string, body, out any) error {
	raw, err := c.post(ctx, endpoint, headers, body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode webhook reply: %w", err)
	}
	return nil
}

func (c *HTTPClient) post(ctx context.Context, endpoint string, headers map[string]string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.inner.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	reply, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return reply, nil
	}
	return reply, &StatusError{Status: resp.StatusCode, RetryAfter: retryAfter(resp.Header, reply)}
}

// retryAfter reads the Retry-After header in seconds, then Discord's
// fractional retry_after body field.
func retryAfter(h http.Header, reply []byte) time.Duration {
	if v := strings.TrimSpace(h.Get("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
		if at, err := http.ParseTime(v); err == nil {
			if d := time.Until(at); d > 0 {
				return d
			}
		}
	}
	var body struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if json.Unmarshal(reply, &body) == nil && body.RetryAfter > 0 {
		return time.Duration(body.RetryAfter * float64(time.Second))
	}
	return 0
}
