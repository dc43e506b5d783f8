package components

import (
	"context"
	"time"
)

// Message identifies a rendered message a Session is bound to.
type Message struct {
	ID        string
	ChannelID string
	Content   string
}

// InteractionKind tells which kind of component fired.
type InteractionKind int

const (
	InteractionUnknown InteractionKind = iota
	InteractionButton
	InteractionSelect
)

func (k InteractionKind) String() string {
	switch k {
	case InteractionButton:
		return "button"
	case InteractionSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Interaction is a component event, normalized across transports.
type Interaction struct {
	ID        string
	Kind      InteractionKind
	ChannelID string
	MessageID string
	UserID    string
	CustomID  string
	Values    []string

	// Raw is the transport's own event, for hooks that need platform detail.
	Raw any
}

// EventSource yields interactions matching a predicate. WaitFor returns an
// error satisfying errors.Is(err, ErrTimeout) when nothing matches
// within timeout.
type EventSource interface {
	WaitFor(ctx context.Context, match func(*Interaction) bool, timeout time.Duration) (*Interaction, error)
}

// Responder answers an interaction.
type Responder interface {
	// Acknowledge confirms receipt without changing the message.
	Acknowledge(ctx context.Context, it *Interaction) error
	// RespondEphemeral replies with a notice only the clicking user sees.
	RespondEphemeral(ctx context.Context, it *Interaction, content string) error
}

// MessageEditor replaces the content and components of a message.
type MessageEditor interface {
	EditMessage(ctx context.Context, msg Message, content string, rows []Row) (Message, error)
}

// Transport is everything a Session needs from the chat platform.
type Transport interface {
	EventSource
	Responder
	MessageEditor
}
