package platforms

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"testing"
)

type transportFunc func(*http.Request) (*http.Response, error)

func (f transportFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// webhookCapture answers every post with status and keeps the decoded
// payloads for inspection.
type webhookCapture struct {
	status int

	mu       sync.Mutex
	payloads []map[string]any
}

func newWebhookCapture(t *testing.T, status int) (*webhookCapture, *HTTPClient) {
	t.Helper()
	c := &webhookCapture{status: status}
	client := &HTTPClient{inner: &http.Client{Transport: transportFunc(func(r *http.Request) (*http.Response, error) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode webhook body: %v", err)
		}
		c.mu.Lock()
		c.payloads = append(c.payloads, payload)
		c.mu.Unlock()
		return &http.Response{StatusCode: c.status, Body: io.NopCloser(bytes.NewReader([]byte(`{}`))), Header: make(http.Header)}, nil
	})}}
	return c, client
}

func (c *webhookCapture) last(t *testing.T) map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.payloads) == 0 {
		t.Fatal("no webhook payload captured")
	}
	return c.payloads[len(c.payloads)-1]
}

func discordEmbed(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	embeds, ok := payload["embeds"].([]any)
	if !ok || len(embeds) != 1 {
		t.Fatalf("unexpected embeds: %#v", payload["embeds"])
	}
	embed, ok := embeds[0].(map[string]any)
	if !ok {
		t.Fatalf("unexpected embed type: %#v", embeds[0])
	}
	return embed
}
