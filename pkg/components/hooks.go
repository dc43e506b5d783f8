package components

import "context"

const (
	DefaultTimeoutNotice    = "Interaction Timed Out."
	DefaultNotAllowedNotice = "You're not allowed to interact with this component."
)

// Hooks are the per-session callbacks. Nil entries fall back to the
// defaults below.
type Hooks struct {
	// OnButton runs for every activation of an interactive button.
	OnButton func(ctx context.Context, s *Session, button *Button, x, y int, it *Interaction) error
	// OnSelect runs for every select menu submission, with the chosen options
	// resolved against the menu's current option list.
	OnSelect func(ctx context.Context, s *Session, options []*Option, indexes []int, it *Interaction) error
	// OnTimeout runs once when no interaction arrived within the timeout.
	OnTimeout func(ctx context.Context, s *Session) error
	// OnNotAllowed runs for interactions from users outside the allow-list.
	OnNotAllowed func(ctx context.Context, s *Session, it *Interaction) error
	// OnClickLimit runs once when the click budget is used up.
	OnClickLimit func(ctx context.Context, s *Session) error
}

func (h Hooks) withDefaults() Hooks {
	if h.OnButton == nil {
		h.OnButton = func(context.Context, *Session, *Button, int, int, *Interaction) error { return nil }
	}
	if h.OnSelect == nil {
		h.OnSelect = func(context.Context, *Session, []*Option, []int, *Interaction) error { return nil }
	}
	if h.OnTimeout == nil {
		h.OnTimeout = DefaultTimeoutHook
	}
	if h.OnNotAllowed == nil {
		h.OnNotAllowed = DefaultNotAllowedHook
	}
	if h.OnClickLimit == nil {
		h.OnClickLimit = DefaultClickLimitHook
	}
	return h
}

// DefaultTimeoutHook replaces the message with the timeout notice and drops
// its components.
func DefaultTimeoutHook(ctx context.Context, s *Session) error {
	return s.EditMessage(ctx, s.timeoutNotice, []Row{})
}

// DefaultNotAllowedHook sends the rejection notice to the clicking user only.
func DefaultNotAllowedHook(ctx context.Context, s *Session, it *Interaction) error {
	return s.transport.RespondEphemeral(ctx, it, s.notAllowedNotice)
}

// DefaultClickLimitHook disables every component and re-renders the message.
func DefaultClickLimitHook(ctx context.Context, s *Session) error {
	s.DisableComponents()
	return s.EditMessage(ctx, s.Message().Content, s.Build())
}
