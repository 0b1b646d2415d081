package platforms

import "context"

// Severity says how an engine event should stand out in a chat client.
// Each adapter maps it to its own palette.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityPending
	SeverityPositive
	SeverityAward
	SeverityNegative
)

func (s Severity) String() string {
	switch s {
	case SeverityPending:
		return "pending"
	case SeverityPositive:
		return "positive"
	case SeverityAward:
		return "award"
	case SeverityNegative:
		return "negative"
	}
	return "info"
}

// discordColor is the embed side-bar color.
func (s Severity) discordColor() int {
	switch s {
	case SeverityPending:
		return 0xFEE75C
	case SeverityPositive:
		return 0x57F287
	case SeverityAward:
		return 0x3BA55D
	case SeverityNegative:
		return 0xED4245
	}
	return 0x5865F2
}

// feishuTemplate is the card header template name.
func (s Severity) feishuTemplate() string {
	switch s {
	case SeverityPending:
		return "yellow"
	case SeverityPositive, SeverityAward:
		return "green"
	case SeverityNegative:
		return "red"
	}
	return "blue"
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Message is one rendered engine event. Event is the engine event kind and
// doubles as the footer when Footer is empty.
type Message struct {
	Event       string
	Title       string
	Content     string
	Description string
	Severity    Severity
	Timestamp   string
	Footer      string
	Fields      []Field
}

func (m Message) footer() string {
	if m.Footer != "" {
		return m.Footer
	}
	return m.Event
}

type Adapter interface {
	Name() string
	Send(ctx context.Context, endpoint, secret string, msg Message) error
}
