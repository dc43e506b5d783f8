package discord

import (
	"github.com/bwmarrin/discordgo"

	"tungsten/pkg/components"
)

var buttonStyles = map[components.ButtonStyle]discordgo.ButtonStyle{
	components.StylePrimary:   discordgo.PrimaryButton,
	components.StyleSecondary: discordgo.SecondaryButton,
	components.StyleSuccess:   discordgo.SuccessButton,
	components.StyleDanger:    discordgo.DangerButton,
	components.StyleLink:      discordgo.LinkButton,
}

// RenderRows converts rendered rows into Discord action rows.
func RenderRows(rows []components.Row) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		items := make([]discordgo.MessageComponent, 0, len(row.Elements))
		for _, el := range row.Elements {
			switch e := el.(type) {
			case components.ButtonElement:
				items = append(items, renderButton(e))
			case components.SelectElement:
				items = append(items, renderSelect(e))
			}
		}
		if len(items) == 0 {
			continue
		}
		out = append(out, discordgo.ActionsRow{Components: items})
	}
	return out
}

func renderButton(e components.ButtonElement) discordgo.Button {
	style, ok := buttonStyles[e.Style]
	if !ok {
		style = discordgo.SecondaryButton
	}
	b := discordgo.Button{
		Label:    e.Label,
		Style:    style,
		Disabled: e.Disabled,
		Emoji:    renderEmoji(e.Emoji),
	}
	if e.Link {
		b.Style = discordgo.LinkButton
		b.URL = e.URL
	} else {
		b.CustomID = e.CustomID
	}
	return b
}

func renderSelect(e components.SelectElement) discordgo.SelectMenu {
	minValues := e.MinValues
	opts := make([]discordgo.SelectMenuOption, 0, len(e.Options))
	for _, o := range e.Options {
		opts = append(opts, discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
			Emoji:       renderEmoji(o.Emoji),
			Default:     o.Default,
		})
	}
	return discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    e.CustomID,
		Placeholder: e.Placeholder,
		MinValues:   &minValues,
		MaxValues:   e.MaxValues,
		Options:     opts,
		Disabled:    e.Disabled,
	}
}

func renderEmoji(e *components.Emoji) *discordgo.ComponentEmoji {
	if e == nil {
		return nil
	}
	return &discordgo.ComponentEmoji{Name: e.Name, ID: e.ID, Animated: e.Animated}
}

// ToInteraction normalizes a component interaction. ok is false for
// anything that is not a message component event.
func ToInteraction(i *discordgo.Interaction) (*components.Interaction, bool) {
	if i == nil || i.Type != discordgo.InteractionMessageComponent {
		return nil, false
	}
	data := i.MessageComponentData()

	it := &components.Interaction{
		ID:        i.ID,
		ChannelID: i.ChannelID,
		CustomID:  data.CustomID,
		Values:    data.Values,
		Raw:       i,
	}
	if i.Message != nil {
		it.MessageID = i.Message.ID
		if it.ChannelID == "" {
			it.ChannelID = i.Message.ChannelID
		}
	}
	if i.Member != nil && i.Member.User != nil {
		it.UserID = i.Member.User.ID
	} else if i.User != nil {
		it.UserID = i.User.ID
	}

	switch data.ComponentType {
	case discordgo.ButtonComponent:
		it.Kind = components.InteractionButton
	case discordgo.SelectMenuComponent:
		it.Kind = components.InteractionSelect
	default:
		it.Kind = components.InteractionUnknown
	}
	return it, true
}

func fromMessage(m *discordgo.Message) components.Message {
	if m == nil {
		return components.Message{}
	}
	return components.Message{ID: m.ID, ChannelID: m.ChannelID, Content: m.Content}
}
