package main

import (
	"context"
	"fmt"
	"strconv"

	"tungsten/pkg/components"
	"tungsten/pkg/logger"
)

const docsURL = "https://github.com/bwmarrin/discordgo"

// board is the demo message: a counter, a notification toggle, a link, a
// stop button and a colour picker.
type board struct {
	count  int
	colour string

	buttons *components.ButtonGroup
	menu    *components.SelectMenu
}

func newBoard() *board {
	toggle := &components.Button{
		Label: "Notifications",
		State: "off",
		States: map[string]components.ButtonState{
			"off": {Style: components.Ptr(components.StyleSecondary), Emoji: &components.Emoji{Name: "🔕"}},
			"on":  {Label: components.Ptr("Notifications on"), Style: components.Ptr(components.StyleSuccess), Emoji: &components.Emoji{Name: "🔔"}},
		},
	}

	b := &board{colour: "none"}
	b.buttons = components.NewButtonGroup(
		[]*components.Button{
			components.NewButton("-", components.StyleDanger),
			components.NewButton("0", components.StyleSecondary),
			components.NewButton("+", components.StyleSuccess),
		},
		[]*components.Button{
			toggle,
			components.NewLinkButton("Docs", docsURL),
			components.NewButton("Stop", components.StyleDanger),
		},
	)
	b.menu = components.NewSelectMenu("Pick a colour",
		&components.Option{Label: "Red", Description: "warm", Emoji: &components.Emoji{Name: "🔴"}},
		&components.Option{Label: "Green", Description: "calm", Emoji: &components.Emoji{Name: "🟢"}},
		&components.Option{Label: "Blue", Description: "cool", Emoji: &components.Emoji{Name: "🔵"}},
	)
	return b
}

func (b *board) content() string {
	return fmt.Sprintf("Count: %d | Colour: %s", b.count, b.colour)
}

func (b *board) hooks() components.Hooks {
	return components.Hooks{
		OnButton: b.onButton,
		OnSelect: b.onSelect,
	}
}

func (b *board) onButton(ctx context.Context, s *components.Session, button *components.Button, x, y int, it *components.Interaction) error {
	logger.InfoCF("demo", "Button pressed", map[string]interface{}{
		logger.FieldUserID:   it.UserID,
		logger.FieldCustomID: it.CustomID,
		"label":              button.Label,
	})

	switch {
	case y == 0 && x == 0:
		b.count--
	case y == 0 && x == 1:
		b.count = 0
	case y == 0 && x == 2:
		b.count++
	case y == 1 && x == 0:
		next := "on"
		if button.State == "on" {
			next = "off"
		}
		b.buttons.Edit(x, y, components.ButtonPatch{State: &next})
	case y == 1 && x == 2:
		s.DisableComponents()
		return s.EditMessage(ctx, b.content()+" | stopped", s.Build())
	}

	b.buttons.Edit(1, 0, components.ButtonPatch{Label: components.Ptr(strconv.Itoa(b.count))})
	return s.EditMessage(ctx, b.content(), s.Build())
}

func (b *board) onSelect(ctx context.Context, s *components.Session, options []*components.Option, indexes []int, it *components.Interaction) error {
	if len(options) == 0 {
		return nil
	}
	b.colour = options[0].Label
	for i := 0; i < b.menu.Len(); i++ {
		b.menu.EditOption(i, components.OptionPatch{Default: components.Ptr(i == indexes[0])})
	}
	logger.InfoCF("demo", "Colour picked", map[string]interface{}{
		logger.FieldUserID: it.UserID,
		"colour":           b.colour,
	})
	return s.EditMessage(ctx, b.content(), s.Build())
}

// sessionStatus is what the status endpoint reports for a running session.
func sessionStatus(s *components.Session) func() interface{} {
	return func() interface{} {
		msg := s.Message()
		return map[string]interface{}{
			"message_id": msg.ID,
			"channel_id": msg.ChannelID,
			"content":    msg.Content,
			"clicks":     s.Clicks(),
			"disabled":   s.Disabled(),
		}
	}
}
