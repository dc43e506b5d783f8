package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"tungsten/pkg/components"
)

// inertCallback marks buttons Telegram cannot disable. Presses are answered
// silently and never reach a session.
const inertCallback = "-"

const optionSeparator = ":"

// RenderKeyboard converts rendered rows into an inline keyboard. Each select
// option becomes its own button row.
func RenderKeyboard(rows []components.Row) *telego.InlineKeyboardMarkup {
	keyboard := make([][]telego.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		var buttons []telego.InlineKeyboardButton
		for _, el := range row.Elements {
			switch e := el.(type) {
			case components.ButtonElement:
				buttons = append(buttons, renderButton(e))
			case components.SelectElement:
				keyboard = append(keyboard, renderSelect(e)...)
			}
		}
		if len(buttons) > 0 {
			keyboard = append(keyboard, tu.InlineKeyboardRow(buttons...))
		}
	}
	return tu.InlineKeyboard(keyboard...)
}

func renderButton(e components.ButtonElement) telego.InlineKeyboardButton {
	b := tu.InlineKeyboardButton(withEmoji(e.Emoji, e.Label))
	switch {
	case e.Link:
		return b.WithURL(e.URL)
	case e.Disabled:
		return b.WithCallbackData(inertCallback)
	default:
		return b.WithCallbackData(e.CustomID)
	}
}

func renderSelect(e components.SelectElement) [][]telego.InlineKeyboardButton {
	rows := make([][]telego.InlineKeyboardButton, 0, len(e.Options))
	for _, o := range e.Options {
		label := withEmoji(o.Emoji, o.Label)
		if o.Default {
			label = "✓ " + label
		}
		data := e.CustomID + optionSeparator + o.Value
		if e.Disabled {
			data = inertCallback
		}
		rows = append(rows, tu.InlineKeyboardRow(tu.InlineKeyboardButton(label).WithCallbackData(data)))
	}
	return rows
}

func withEmoji(e *components.Emoji, label string) string {
	if e == nil || e.Name == "" {
		return label
	}
	if label == "" {
		return e.Name
	}
	return e.Name + " " + label
}

// ToInteraction normalizes a callback query. ok is false for inert presses
// and queries without an attached message.
func ToInteraction(q *telego.CallbackQuery) (*components.Interaction, bool) {
	if q == nil || q.Message == nil || q.Data == "" || q.Data == inertCallback {
		return nil, false
	}

	it := &components.Interaction{
		ID:        q.ID,
		Kind:      components.InteractionButton,
		ChannelID: strconv.FormatInt(q.Message.GetChat().ID, 10),
		MessageID: strconv.Itoa(q.Message.GetMessageID()),
		UserID:    strconv.FormatInt(q.From.ID, 10),
		CustomID:  q.Data,
		Raw:       q,
	}
	if i := strings.LastIndex(q.Data, optionSeparator); i >= 0 {
		it.Kind = components.InteractionSelect
		it.CustomID = q.Data[:i]
		it.Values = []string{q.Data[i+len(optionSeparator):]}
	}
	return it, true
}

func fromMessage(m *telego.Message) components.Message {
	if m == nil {
		return components.Message{}
	}
	return components.Message{
		ID:        strconv.Itoa(m.MessageID),
		ChannelID: strconv.FormatInt(m.Chat.ID, 10),
		Content:   m.Text,
	}
}

func parseChatID(chatIDStr string) (int64, error) {
	id, err := strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chat ID %q: %w", chatIDStr, err)
	}
	return id, nil
}
