package components

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tungsten/pkg/logger"
)

const DefaultTimeout = 60 * time.Second

// Options configures a Session.
type Options struct {
	// Timeout bounds each wait for the next interaction. Zero means DefaultTimeout.
	Timeout time.Duration
	// AllowedIDs restricts who may use the components. Empty allows everyone.
	AllowedIDs []string
	// ClickLimit deactivates the session after that many dispatched
	// interactions. Zero means unlimited.
	ClickLimit int

	Buttons *ButtonGroup
	Menu    *SelectMenu
	Hooks   Hooks

	TimeoutNotice    string
	NotAllowedNotice string
}

// Session binds a ButtonGroup and/or SelectMenu to one message and routes its
// interactions to Hooks until it times out, runs out of clicks or is
// deactivated. Once disabled a Session stays disabled.
type Session struct {
	transport Transport
	hooks     Hooks

	timeout          time.Duration
	allowed          map[string]struct{}
	clickLimit       int
	timeoutNotice    string
	notAllowedNotice string

	buttons *ButtonGroup
	menu    *SelectMenu

	mu       sync.RWMutex
	disabled bool
	clicks   int
	message  Message
}

// NewSession returns an active session. At least one of Buttons or Menu is required.
func NewSession(transport Transport, opts Options) (*Session, error) {
	if opts.Buttons == nil && opts.Menu == nil {
		return nil, ErrNoComponents
	}
	if transport == nil {
		return nil, fmt.Errorf("session transport is nil")
	}
	if opts.ClickLimit < 0 {
		return nil, fmt.Errorf("click limit must be >= 0, got %d", opts.ClickLimit)
	}

	s := &Session{
		transport:        transport,
		hooks:            opts.Hooks.withDefaults(),
		timeout:          opts.Timeout,
		allowed:          make(map[string]struct{}, len(opts.AllowedIDs)),
		clickLimit:       opts.ClickLimit,
		timeoutNotice:    opts.TimeoutNotice,
		notAllowedNotice: opts.NotAllowedNotice,
		buttons:          opts.Buttons,
		menu:             opts.Menu,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	if s.timeoutNotice == "" {
		s.timeoutNotice = DefaultTimeoutNotice
	}
	if s.notAllowedNotice == "" {
		s.notAllowedNotice = DefaultNotAllowedNotice
	}
	for _, id := range opts.AllowedIDs {
		s.allowed[id] = struct{}{}
	}
	return s, nil
}

// Build renders the session's components. The select menu is dropped when
// the button group already uses all five rows.
func (s *Session) Build() []Row {
	switch {
	case s.buttons != nil && s.menu != nil && !s.buttons.LastRowUsed():
		return append(s.buttons.Render(), s.menu.Render()...)
	case s.buttons != nil:
		return s.buttons.Render()
	case s.menu != nil:
		return s.menu.Render()
	default:
		return nil
	}
}

// Run binds the session to msg and processes its interactions until the
// session ends. Timeout, click exhaustion and deactivation end it with a nil
// error; ctx cancellation, transport failures, hook errors and unresolvable
// interactions end it with an error. The session is disabled on return.
func (s *Session) Run(ctx context.Context, msg Message) error {
	if s.buttons == nil && s.menu == nil {
		return ErrNoComponents
	}
	if s.Disabled() {
		return ErrSessionClosed
	}

	s.mu.Lock()
	s.message = msg
	s.mu.Unlock()
	defer s.Deactivate()

	fields := map[string]interface{}{
		logger.FieldMessageID: msg.ID,
		logger.FieldChannelID: msg.ChannelID,
	}
	logger.DebugCF("components", "Session bound to message", map[string]interface{}{
		logger.FieldMessageID: msg.ID,
		logger.FieldChannelID: msg.ChannelID,
		"timeout":             s.timeout.String(),
		"click_limit":         s.clickLimit,
	})

	for {
		it, err := s.transport.WaitFor(ctx, s.belongs, s.timeout)
		if err != nil {
			if errors.Is(err, ErrTimeout) {
				logger.InfoCF("components", "Session timed out", fields)
				s.Deactivate()
				if err := s.hooks.OnTimeout(ctx, s); err != nil {
					return fmt.Errorf("timeout hook: %w", err)
				}
				return nil
			}
			return fmt.Errorf("wait for interaction: %w", err)
		}

		if err := s.process(ctx, it); err != nil {
			logger.ErrorCF("components", "Session stopped on error", map[string]interface{}{
				logger.FieldMessageID: msg.ID,
				logger.FieldUserID:    it.UserID,
				logger.FieldCustomID:  it.CustomID,
				logger.FieldError:     err.Error(),
			})
			return err
		}
		if s.Disabled() {
			logger.DebugCF("components", "Session deactivated", fields)
			return nil
		}
	}
}

func (s *Session) belongs(it *Interaction) bool {
	msg := s.Message()
	if it == nil || it.MessageID != msg.ID {
		return false
	}
	return msg.ChannelID == "" || it.ChannelID == "" || it.ChannelID == msg.ChannelID
}

func (s *Session) process(ctx context.Context, it *Interaction) error {
	if !s.IsAllowed(it.UserID) {
		logger.WarnCF("components", "Interaction rejected by allowlist", map[string]interface{}{
			logger.FieldMessageID: it.MessageID,
			logger.FieldUserID:    it.UserID,
		})
		if err := s.hooks.OnNotAllowed(ctx, s, it); err != nil {
			return fmt.Errorf("not-allowed hook: %w", err)
		}
		return nil
	}

	if err := s.transport.Acknowledge(ctx, it); err != nil {
		return fmt.Errorf("acknowledge interaction: %w", err)
	}

	var (
		dispatched bool
		err        error
	)
	switch it.Kind {
	case InteractionButton:
		dispatched, err = s.dispatchButton(ctx, it)
	case InteractionSelect:
		dispatched, err = s.dispatchSelect(ctx, it)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedInteraction, it.Kind)
	}
	if err != nil || !dispatched {
		return err
	}

	if s.clickLimit > 0 {
		s.mu.Lock()
		s.clicks++
		reached := s.clicks == s.clickLimit
		s.mu.Unlock()

		if reached {
			logger.InfoCF("components", "Click limit reached", map[string]interface{}{
				logger.FieldMessageID: it.MessageID,
				"click_limit":         s.clickLimit,
			})
			if err := s.hooks.OnClickLimit(ctx, s); err != nil {
				return fmt.Errorf("click limit hook: %w", err)
			}
			s.Deactivate()
		}
	}
	return nil
}

func (s *Session) dispatchButton(ctx context.Context, it *Interaction) (bool, error) {
	if s.buttons == nil {
		return false, fmt.Errorf("%w: button interaction without a button group", ErrUnsupportedInteraction)
	}
	x, y, err := ParseButtonID(it.CustomID)
	if err != nil {
		return false, err
	}
	button, ok := s.buttons.Button(x, y)
	if !ok {
		return false, fmt.Errorf("%w: button (%d,%d)", ErrOutOfBounds, x, y)
	}
	if button.IsLink() {
		logger.DebugCF("components", "Ignoring interaction for link button", map[string]interface{}{
			logger.FieldCustomID: it.CustomID,
		})
		return false, nil
	}

	logger.DebugCF("components", "Dispatching button", map[string]interface{}{
		logger.FieldMessageID: it.MessageID,
		logger.FieldUserID:    it.UserID,
		logger.FieldCustomID:  it.CustomID,
	})
	if err := s.hooks.OnButton(ctx, s, button, x, y, it); err != nil {
		return true, fmt.Errorf("button hook: %w", err)
	}
	return true, nil
}

func (s *Session) dispatchSelect(ctx context.Context, it *Interaction) (bool, error) {
	if s.menu == nil {
		return false, fmt.Errorf("%w: select interaction without a select menu", ErrUnsupportedInteraction)
	}
	indexes, err := ParseOptionValues(it.Values)
	if err != nil {
		return false, err
	}
	options := make([]*Option, 0, len(indexes))
	for _, i := range indexes {
		opt, ok := s.menu.Option(i)
		if !ok {
			return false, fmt.Errorf("%w: option %d", ErrOutOfBounds, i)
		}
		options = append(options, opt)
	}

	logger.DebugCF("components", "Dispatching selection", map[string]interface{}{
		logger.FieldMessageID: it.MessageID,
		logger.FieldUserID:    it.UserID,
		"indexes":             indexes,
	})
	if err := s.hooks.OnSelect(ctx, s, options, indexes, it); err != nil {
		return true, fmt.Errorf("select hook: %w", err)
	}
	return true, nil
}

// EditMessage replaces the bound message's content and components and
// rebinds to the edited message.
func (s *Session) EditMessage(ctx context.Context, content string, rows []Row) error {
	updated, err := s.transport.EditMessage(ctx, s.Message(), content, rows)
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	s.mu.Lock()
	s.message = updated
	s.mu.Unlock()
	return nil
}

// DisableComponents disables every owned component and deactivates the
// session. The message is not edited.
func (s *Session) DisableComponents() {
	if s.buttons != nil {
		s.buttons.DisableAll()
	}
	if s.menu != nil {
		s.menu.DisableAll()
	}
	s.Deactivate()
}

// Deactivate ends the session once the running callback returns.
func (s *Session) Deactivate() {
	s.mu.Lock()
	s.disabled = true
	s.mu.Unlock()
}

func (s *Session) Disabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.disabled
}

// Clicks returns the number of interactions counted against the click limit.
func (s *Session) Clicks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clicks
}

// Message returns the currently bound message.
func (s *Session) Message() Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.message
}

// IsAllowed reports whether userID may use the components.
func (s *Session) IsAllowed(userID string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[userID]
	return ok
}

func (s *Session) Buttons() *ButtonGroup {
	return s.buttons
}

func (s *Session) Menu() *SelectMenu {
	return s.menu
}

func (s *Session) Timeout() time.Duration {
	return s.timeout
}
