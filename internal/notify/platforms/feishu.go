package platforms

import (
	"context"
	"strings"
)

type FeishuAdapter struct {
	client *HTTPClient
}

func NewFeishuAdapter(client *HTTPClient) *FeishuAdapter {
	return &FeishuAdapter{client: client}
}

func (a *FeishuAdapter) Name() string {
	return "feishu"
}

func (a *FeishuAdapter) Send(ctx context.Context, endpoint, secret string, msg Message) error {
	elements := make([]map[string]string, 0, len(msg.Fields)+2)
	elements = append(elements, map[string]string{
		"tag":  "markdown",
		"text": fallback(msg.Description, msg.Content),
	})
	for _, f := range msg.Fields {
		elements = append(elements, map[string]string{
			"tag":  "markdown",
			"text": "**" + f.Name + "**: " + f.Value,
		})
	}
	if footer := msg.footer(); footer != "" {
		elements = append(elements, map[string]string{"tag": "markdown", "text": "*" + footer + "*"})
	}
	payload := map[string]any{
		"msg_type": "interactive",
		"card": map[string]any{
			"header": map[string]any{
				"title": map[string]any{
					"tag":     "plain_text",
					"content": msg.Title,
				},
				"template": msg.Severity.feishuTemplate(),
			},
			"elements": elements,
		},
	}
	headers := map[string]string{}
	if sig := strings.TrimSpace(secret); sig != "" {
		headers["X-Lark-Signature"] = sig
	}
	var reply feishuReply
	if err := a.client.PostJSONDecode(ctx, endpoint, headers, payload, &reply); err != nil {
		return err
	}
	if reply.Code != 0 {
		return &APIError{Platform: a.Name(), Code: reply.Code, Msg: reply.Msg, Retry: reply.Code == feishuRateLimited}
	}
	return nil
}

// feishuRateLimited is the bot webhook's frequency-limit code.
const feishuRateLimited = 11232

type feishuReply struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func fallback(v, d string) string {
	if v == "" {
		return d
	}
	return v
}
