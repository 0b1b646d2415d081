package platforms

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

const discordHook = "https://discord.example/webhook"

func TestDiscordAdapterPayload(t *testing.T) {
	capture, client := newWebhookCapture(t, http.StatusNoContent)
	err := NewDiscordAdapter(client).Send(context.Background(), discordHook, "", Message{
		Event:       "complaint_approved",
		Title:       "Complaint #1 approved · @Vendor1",
		Content:     "@Vendor1 received a downvote",
		Description: "late delivery",
		Severity:    SeverityNegative,
		Timestamp:   "2024-05-01T09:00:00Z",
		Fields: []Field{
			{Name: "Seller", Value: "@Vendor1", Inline: true},
			{Name: "Filed", Value: "2024-04-30T10:00:00Z", Inline: false},
		},
	})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	got := capture.last(t)
	if got["content"] != "@Vendor1 received a downvote" {
		t.Fatalf("content = %v", got["content"])
	}
	embed := discordEmbed(t, got)
	if embed["description"] != "late delivery" {
		t.Fatalf("description = %v, want late delivery", embed["description"])
	}
	if embed["color"] != float64(0xED4245) {
		t.Fatalf("color = %v, want red for negative", embed["color"])
	}
	if embed["timestamp"] != "2024-05-01T09:00:00Z" {
		t.Fatalf("timestamp = %v", embed["timestamp"])
	}
	footer, ok := embed["footer"].(map[string]any)
	if !ok || footer["text"] != "complaint_approved" {
		t.Fatalf("footer = %#v, want event kind", embed["footer"])
	}
	fields, ok := embed["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("unexpected fields: %#v", embed["fields"])
	}
	if second, _ := fields[1].(map[string]any); second["inline"] != false {
		t.Fatalf("second field = %#v, want inline=false", fields[1])
	}
	mentions, ok := got["allowed_mentions"].(map[string]any)
	if !ok {
		t.Fatalf("allowed_mentions missing: %#v", got)
	}
	if parse, _ := mentions["parse"].([]any); len(parse) != 0 {
		t.Fatalf("allowed_mentions.parse = %#v, want empty", mentions["parse"])
	}
}

func TestDiscordColorsBySeverity(t *testing.T) {
	cases := map[Severity]int{
		SeverityInfo:     0x5865F2,
		SeverityPending:  0xFEE75C,
		SeverityPositive: 0x57F287,
		SeverityAward:    0x3BA55D,
		SeverityNegative: 0xED4245,
	}
	capture, client := newWebhookCapture(t, http.StatusNoContent)
	adapter := NewDiscordAdapter(client)
	for sev, want := range cases {
		if err := adapter.Send(context.Background(), discordHook, "", Message{Title: sev.String(), Severity: sev, Footer: "reputation-bot"}); err != nil {
			t.Fatalf("send %s: %v", sev, err)
		}
		embed := discordEmbed(t, capture.last(t))
		if embed["color"] != float64(want) {
			t.Fatalf("%s color = %v, want %#x", sev, embed["color"], want)
		}
		if footer, _ := embed["footer"].(map[string]any); footer["text"] != "reputation-bot" {
			t.Fatalf("%s footer = %#v, explicit footer should win", sev, embed["footer"])
		}
	}
}

func TestDiscordAdapterClipsLongContent(t *testing.T) {
	capture, client := newWebhookCapture(t, http.StatusNoContent)
	long := strings.Repeat("ž", discordContentLimit+50)
	if err := NewDiscordAdapter(client).Send(context.Background(), discordHook, "", Message{Content: long}); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	content, _ := capture.last(t)["content"].(string)
	if n := utf8.RuneCountInString(content); n != discordContentLimit {
		t.Fatalf("content runes = %d, want %d", n, discordContentLimit)
	}
	if _, ok := discordEmbed(t, capture.last(t))["footer"]; ok {
		t.Fatal("footer set without event or footer text")
	}
}

func TestDiscordAdapterReturnsStatusError(t *testing.T) {
	_, client := newWebhookCapture(t, http.StatusTooManyRequests)
	err := NewDiscordAdapter(client).Send(context.Background(), discordHook, "", Message{Title: "t"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Status != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", se.Status)
	}
}
