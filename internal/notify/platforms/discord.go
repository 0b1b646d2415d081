package platforms

import (
	"context"
	"unicode/utf8"
)

const (
	discordContentLimit     = 2000
	discordDescriptionLimit = 4096
	discordFieldValueLimit  = 1024
)

type DiscordAdapter struct {
	client *HTTPClient
}

func NewDiscordAdapter(client *HTTPClient) *DiscordAdapter {
	return &DiscordAdapter{client: client}
}

func (a *DiscordAdapter) Name() string {
	return "discord"
}

func (a *DiscordAdapter) Send(ctx context.Context, endpoint, _ string, msg Message) error {
	type embedField struct {
		Name   string `json:"name"`
		Value  string `json:"value"`
		Inline bool   `json:"inline"`
	}
	fields := make([]embedField, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, embedField{Name: f.Name, Value: clip(f.Value, discordFieldValueLimit), Inline: f.Inline})
	}
	embed := map[string]any{
		"title":       msg.Title,
		"description": clip(msg.Description, discordDescriptionLimit),
		"fields":      fields,
		"color":       msg.Severity.discordColor(),
	}
	if msg.Timestamp != "" {
		embed["timestamp"] = msg.Timestamp
	}
	if footer := msg.footer(); footer != "" {
		embed["footer"] = map[string]string{"text": footer}
	}
	payload := map[string]any{
		"content": clip(msg.Content, discordContentLimit),
		"embeds":  []map[string]any{embed},
		// handles in announcements must not ping anyone
		"allowed_mentions": map[string]any{"parse": []string{}},
	}
	return a.client.PostJSON(ctx, endpoint, nil, payload)
}

func clip(v string, max int) string {
	if utf8.RuneCountInString(v) <= max {
		return v
	}
	r := []rune(v)
	return string(r[:max-1]) + "…"
}
