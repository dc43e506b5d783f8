package components

import (
	"fmt"
	"strconv"
)

const (
	DefaultSelectCustomID = "select_menu"
	defaultDescription    = " "
)

// Option is one entry of a SelectMenu.
type Option struct {
	Label       string
	Description string
	Emoji       *Emoji
	Default     bool

	index int
}

// NewOption returns an option with the default single-space description.
func NewOption(label string) *Option {
	return &Option{Label: label, Description: defaultDescription}
}

// Index returns the cached position of the option in its menu.
func (o *Option) Index() int {
	return o.index
}

// OptionPatch is a partial update for an Option; only non-nil fields apply.
type OptionPatch struct {
	Label       *string
	Description *string
	Emoji       *Emoji
	Default     *bool
}

func (p OptionPatch) apply(o *Option) {
	if p.Label != nil {
		o.Label = *p.Label
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.Emoji != nil {
		e := *p.Emoji
		o.Emoji = &e
	}
	if p.Default != nil {
		o.Default = *p.Default
	}
}

// SelectMenu is an ordered list of options plus menu-level constraints.
// Selections come back as option indexes, resolved against the options held
// at dispatch time: mutating the menu between render and a user's choice
// resolves that choice against the new order.
type SelectMenu struct {
	Placeholder string
	Disabled    bool
	MinValues   int
	MaxValues   int
	CustomID    string

	options []*Option
}

// NewSelectMenu returns a single-choice menu with the default custom id.
func NewSelectMenu(placeholder string, options ...*Option) *SelectMenu {
	m := &SelectMenu{
		Placeholder: placeholder,
		MinValues:   1,
		MaxValues:   1,
		CustomID:    DefaultSelectCustomID,
		options:     append([]*Option(nil), options...),
	}
	m.reindex()
	return m
}

// AddOption appends option.
func (m *SelectMenu) AddOption(option *Option, opts ...MutateOption) *SelectMenu {
	cfg := newMutateConfig(opts)
	if cfg.reindex {
		option.index = len(m.options)
	}
	m.options = append(m.options, option)
	return m
}

// OverwriteOption replaces the option at index.
func (m *SelectMenu) OverwriteOption(option *Option, index int, opts ...MutateOption) *SelectMenu {
	cfg := newMutateConfig(opts)
	m.checkIndex(index)
	m.options[index] = option
	if cfg.reindex {
		option.index = index
	}
	return m
}

// EditOption applies patch to the option at index in place.
func (m *SelectMenu) EditOption(index int, patch OptionPatch) *SelectMenu {
	m.checkIndex(index)
	patch.apply(m.options[index])
	return m
}

// RemoveOption deletes the option at index; later options shift down.
func (m *SelectMenu) RemoveOption(index int, opts ...MutateOption) *SelectMenu {
	cfg := newMutateConfig(opts)
	m.checkIndex(index)
	copy(m.options[index:], m.options[index+1:])
	m.options[len(m.options)-1] = nil
	m.options = m.options[:len(m.options)-1]
	if cfg.reindex {
		for _, o := range m.options[index:] {
			o.index--
		}
	}
	return m
}

// InsertOption places option at index, shifting later options up.
func (m *SelectMenu) InsertOption(option *Option, index int, opts ...MutateOption) *SelectMenu {
	cfg := newMutateConfig(opts)
	if index < 0 || index > len(m.options) {
		panic(fmt.Errorf("%w: insert option at %d", ErrOutOfBounds, index))
	}
	m.options = append(m.options, nil)
	copy(m.options[index+1:], m.options[index:])
	m.options[index] = option
	if cfg.reindex {
		option.index = index
		for _, o := range m.options[index+1:] {
			o.index++
		}
	}
	return m
}

// SwapOptions exchanges the options at i and j.
func (m *SelectMenu) SwapOptions(i, j int, opts ...MutateOption) *SelectMenu {
	m.checkIndex(i)
	m.checkIndex(j)
	one := m.options[i]
	two := m.options[j]
	m.OverwriteOption(one, j, opts...)
	m.OverwriteOption(two, i, opts...)
	return m
}

// DisableAll disables the whole menu.
func (m *SelectMenu) DisableAll() *SelectMenu {
	m.Disabled = true
	return m
}

// Render builds the single Row holding the menu. Option indexes are
// re-stamped and used as option values.
func (m *SelectMenu) Render() []Row {
	m.reindex()
	customID := m.CustomID
	if customID == "" {
		customID = DefaultSelectCustomID
	}
	el := SelectElement{
		CustomID:    customID,
		Placeholder: m.Placeholder,
		MinValues:   m.MinValues,
		MaxValues:   m.MaxValues,
		Disabled:    m.Disabled,
		Options:     make([]SelectOptionElement, 0, len(m.options)),
	}
	for _, o := range m.options {
		desc := o.Description
		if desc == "" {
			desc = defaultDescription
		}
		el.Options = append(el.Options, SelectOptionElement{
			Label:       o.Label,
			Description: desc,
			Emoji:       copyEmoji(o.Emoji),
			Default:     o.Default,
			Value:       strconv.Itoa(o.index),
		})
	}
	return []Row{{Elements: []Element{el}}}
}

// Option returns the option at index and whether it exists.
func (m *SelectMenu) Option(index int) (*Option, bool) {
	if index < 0 || index >= len(m.options) {
		return nil, false
	}
	return m.options[index], true
}

// Options returns a copy of the option list.
func (m *SelectMenu) Options() []*Option {
	return append([]*Option(nil), m.options...)
}

func (m *SelectMenu) Len() int {
	return len(m.options)
}

func (m *SelectMenu) reindex() {
	for i := range m.options {
		m.options[i].index = i
	}
}

func (m *SelectMenu) checkIndex(index int) {
	if _, ok := m.Option(index); !ok {
		panic(fmt.Errorf("%w: option %d", ErrOutOfBounds, index))
	}
}

// ParseOptionValues decodes submitted option values into indexes.
func ParseOptionValues(values []string) ([]int, error) {
	indexes := make([]int, 0, len(values))
	for _, v := range values {
		i, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: option value %q", ErrMalformedCustomID, v)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}
