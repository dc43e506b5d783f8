package components

// ButtonStyle mirrors the chat platform's button style enum.
type ButtonStyle int

const (
	StylePrimary ButtonStyle = iota + 1
	StyleSecondary
	StyleSuccess
	StyleDanger
	StyleLink
)

func (s ButtonStyle) String() string {
	switch s {
	case StylePrimary:
		return "primary"
	case StyleSecondary:
		return "secondary"
	case StyleSuccess:
		return "success"
	case StyleDanger:
		return "danger"
	case StyleLink:
		return "link"
	default:
		return "unset"
	}
}

// Emoji is either a unicode emoji (Name only) or a custom one (ID + Name).
type Emoji struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// ButtonState is a named appearance override. Nil fields fall back to the
// button's own values.
type ButtonState struct {
	Label *string
	Style *ButtonStyle
	Emoji *Emoji
}

// Button is a single cell of a ButtonGroup. A button with a URL is a link
// button: it is rendered but never dispatched.
type Button struct {
	Label    string
	Style    ButtonStyle
	Emoji    *Emoji
	Disabled bool
	URL      string

	// State selects an entry of States when States is non-empty.
	State  string
	States map[string]ButtonState

	x, y int
}

// NewButton returns a button with the given label and style.
func NewButton(label string, style ButtonStyle) *Button {
	return &Button{Label: label, Style: style}
}

// NewLinkButton returns a non-interactive button pointing at url.
func NewLinkButton(label, url string) *Button {
	return &Button{Label: label, Style: StyleLink, URL: url}
}

// Coordinates returns the cached (x, y) position of the button in its group.
func (b *Button) Coordinates() (int, int) {
	return b.x, b.y
}

func (b *Button) SetCoordinates(x, y int) {
	b.x = x
	b.y = y
}

// IsLink reports whether the button is a link button.
func (b *Button) IsLink() bool {
	return b.URL != ""
}

// resolve picks a field from the active state, falling back to the direct
// value. ok is false when neither is set.
func resolve[T comparable](b *Button, pick func(ButtonState) *T, direct T) (T, bool) {
	var zero T
	if len(b.States) > 0 {
		if st, found := b.States[b.State]; found {
			if v := pick(st); v != nil {
				return *v, true
			}
		}
	}
	if direct == zero {
		return zero, false
	}
	return direct, true
}

// ResolvedLabel returns the label currently shown for the button.
func (b *Button) ResolvedLabel() (string, bool) {
	return resolve(b, func(s ButtonState) *string { return s.Label }, b.Label)
}

func (b *Button) ResolvedStyle() (ButtonStyle, bool) {
	return resolve(b, func(s ButtonState) *ButtonStyle { return s.Style }, b.Style)
}

func (b *Button) ResolvedEmoji() (*Emoji, bool) {
	return resolve(b, func(s ButtonState) **Emoji {
		if s.Emoji == nil {
			return nil
		}
		return &s.Emoji
	}, b.Emoji)
}

// ButtonPatch is a partial update for a Button; only non-nil fields apply.
type ButtonPatch struct {
	Label    *string
	Style    *ButtonStyle
	Emoji    *Emoji
	Disabled *bool
	URL      *string
	State    *string
	States   map[string]ButtonState
}

func (p ButtonPatch) apply(b *Button) {
	if p.Label != nil {
		b.Label = *p.Label
	}
	if p.Style != nil {
		b.Style = *p.Style
	}
	if p.Emoji != nil {
		e := *p.Emoji
		b.Emoji = &e
	}
	if p.Disabled != nil {
		b.Disabled = *p.Disabled
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.State != nil {
		b.State = *p.State
	}
	if p.States != nil {
		b.States = p.States
	}
}

// Ptr returns a pointer to v. Handy for filling patches and states.
func Ptr[T any](v T) *T {
	return &v
}
