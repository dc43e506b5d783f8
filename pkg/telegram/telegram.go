// Package telegram runs component sessions on Telegram inline keyboards
// through telego.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	"github.com/mymmrac/telego/telegoapi"
	tu "github.com/mymmrac/telego/telegoutil"
	"golang.org/x/time/rate"

	"tungsten/pkg/bus"
	"tungsten/pkg/components"
	"tungsten/pkg/config"
	"tungsten/pkg/lifecycle"
	"tungsten/pkg/logger"
)

const (
	telegramAPICallTimeout = 15 * time.Second
	telegramRestartDelay   = 5 * time.Second
)

// api is the slice of *telego.Bot the transport calls.
type api interface {
	AnswerCallbackQuery(ctx context.Context, params *telego.AnswerCallbackQueryParams) error
	EditMessageText(ctx context.Context, params *telego.EditMessageTextParams) (*telego.Message, error)
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
}

// Transport implements components.Transport for Telegram. Callback queries
// received by long polling are published to the hub sessions wait on.
type Transport struct {
	bot     *telego.Bot
	api     api
	hub     *bus.Hub
	limiter *rate.Limiter
	runner  *lifecycle.LoopRunner
}

var _ components.Transport = (*Transport)(nil)

func New(cfg config.TelegramConfig, hub *bus.Hub, editsPerSecond float64) (*Transport, error) {
	bot, err := telego.NewBot(cfg.Token, telego.WithDefaultLogger(false, false))
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	t := newTransport(bot, hub, editsPerSecond)
	t.bot = bot
	return t, nil
}

func newTransport(a api, hub *bus.Hub, editsPerSecond float64) *Transport {
	if editsPerSecond <= 0 {
		editsPerSecond = 5
	}
	return &Transport{
		api:     a,
		hub:     hub,
		limiter: rate.NewLimiter(rate.Limit(editsPerSecond), 1),
		runner:  lifecycle.NewLoopRunner(),
	}
}

// Start begins long polling. Calling it while running is a no-op.
func (t *Transport) Start(ctx context.Context) error {
	if t.runner.Running() {
		return nil
	}
	if t.bot == nil {
		return fmt.Errorf("telegram bot not configured")
	}
	logger.InfoC("telegram", "Starting Telegram bot (polling mode)")

	botInfo, err := t.bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.InfoCF("telegram", "Telegram bot connected", map[string]interface{}{
		"username": botInfo.Username,
	})

	errCh := make(chan error, 1)
	t.runner.Start(ctx, func(runCtx context.Context) {
		updates, err := t.bot.UpdatesViaLongPolling(runCtx, nil)
		errCh <- err
		if err != nil {
			return
		}
		t.poll(runCtx, updates)
	})
	if err := <-errCh; err != nil {
		t.runner.Stop()
		return fmt.Errorf("failed to start updates polling: %w", err)
	}
	return nil
}

// Stop ends long polling and waits for the poll loop to exit.
func (t *Transport) Stop(ctx context.Context) error {
	if t.runner.Stop() {
		logger.InfoC("telegram", "Telegram bot stopped")
	}
	return nil
}

func (t *Transport) poll(runCtx context.Context, updates <-chan telego.Update) {
	for {
		select {
		case <-runCtx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				logger.WarnC("telegram", "Updates channel closed unexpectedly, attempting to restart polling...")
				select {
				case <-runCtx.Done():
					return
				case <-time.After(telegramRestartDelay):
				}
				restarted, err := t.bot.UpdatesViaLongPolling(runCtx, nil)
				if err != nil {
					logger.ErrorCF("telegram", "Failed to restart updates polling", map[string]interface{}{
						logger.FieldError: err.Error(),
					})
					continue
				}
				updates = restarted
				logger.InfoC("telegram", "Updates polling restarted successfully")
				continue
			}
			if update.CallbackQuery != nil {
				t.handleCallback(runCtx, update.CallbackQuery)
			}
		}
	}
}

func (t *Transport) handleCallback(ctx context.Context, q *telego.CallbackQuery) {
	it, ok := ToInteraction(q)
	if ok && t.hub.Publish(it) > 0 {
		logger.DebugCF("telegram", "Telegram callback delivered", map[string]interface{}{
			logger.FieldInteractionID: it.ID,
			logger.FieldChatID:        it.ChannelID,
			logger.FieldMessageID:     it.MessageID,
			logger.FieldCustomID:      it.CustomID,
		})
		return
	}

	// Nobody will answer this one; stop the client's loading indicator.
	apiCtx, cancel := context.WithTimeout(ctx, telegramAPICallTimeout)
	defer cancel()
	if err := t.api.AnswerCallbackQuery(apiCtx, &telego.AnswerCallbackQueryParams{CallbackQueryID: q.ID}); err != nil {
		logger.WarnCF("telegram", "Failed to answer stray callback", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
	}
}

func (t *Transport) WaitFor(ctx context.Context, match func(*components.Interaction) bool, timeout time.Duration) (*components.Interaction, error) {
	return t.hub.WaitFor(ctx, match, timeout)
}

func (t *Transport) Acknowledge(ctx context.Context, it *components.Interaction) error {
	return t.answer(ctx, it, "", false)
}

// RespondEphemeral shows content as an alert to the pressing user only.
func (t *Transport) RespondEphemeral(ctx context.Context, it *components.Interaction, content string) error {
	return t.answer(ctx, it, content, true)
}

func (t *Transport) answer(ctx context.Context, it *components.Interaction, text string, alert bool) error {
	q, err := rawCallback(it)
	if err != nil {
		return err
	}
	apiCtx, cancel := context.WithTimeout(ctx, telegramAPICallTimeout)
	defer cancel()
	return t.api.AnswerCallbackQuery(apiCtx, &telego.AnswerCallbackQueryParams{
		CallbackQueryID: q.ID,
		Text:            text,
		ShowAlert:       alert,
	})
}

func (t *Transport) EditMessage(ctx context.Context, msg components.Message, content string, rows []components.Row) (components.Message, error) {
	chatID, err := parseChatID(msg.ChannelID)
	if err != nil {
		return msg, err
	}
	messageID, err := strconv.Atoi(msg.ID)
	if err != nil {
		return msg, fmt.Errorf("invalid message ID %q: %w", msg.ID, err)
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return msg, err
	}

	apiCtx, cancel := context.WithTimeout(ctx, telegramAPICallTimeout)
	defer cancel()
	edited, err := t.api.EditMessageText(apiCtx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(chatID),
		MessageID:   messageID,
		Text:        content,
		ReplyMarkup: RenderKeyboard(rows),
	})
	if isNotModified(err) {
		logger.DebugCF("telegram", "Telegram edit left message unchanged", map[string]interface{}{
			logger.FieldChatID:    msg.ChannelID,
			logger.FieldMessageID: msg.ID,
		})
		msg.Content = content
		return msg, nil
	}
	if err != nil {
		logger.WarnCF("telegram", "Telegram message edit failed", map[string]interface{}{
			logger.FieldChatID:    msg.ChannelID,
			logger.FieldMessageID: msg.ID,
			logger.FieldError:     err.Error(),
		})
		return msg, err
	}
	if edited == nil {
		msg.Content = content
		return msg, nil
	}
	return fromMessage(edited), nil
}

// Send posts a new message carrying rows and returns its handle for Session.Run.
func (t *Transport) Send(ctx context.Context, chatID, content string, rows []components.Row) (components.Message, error) {
	id, err := parseChatID(chatID)
	if err != nil {
		return components.Message{}, err
	}
	apiCtx, cancel := context.WithTimeout(ctx, telegramAPICallTimeout)
	defer cancel()

	sent, err := t.api.SendMessage(apiCtx, tu.Message(tu.ID(id), content).WithReplyMarkup(RenderKeyboard(rows)))
	if err != nil {
		return components.Message{}, fmt.Errorf("send telegram message: %w", err)
	}
	logger.DebugCF("telegram", "Telegram message sent", map[string]interface{}{
		logger.FieldChatID:    chatID,
		logger.FieldMessageID: sent.MessageID,
	})
	return fromMessage(sent), nil
}

// isNotModified reports Telegram's rejection of an edit that changes nothing.
func isNotModified(err error) bool {
	var apiErr *telegoapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Description, "message is not modified")
}

func rawCallback(it *components.Interaction) (*telego.CallbackQuery, error) {
	if it == nil {
		return nil, fmt.Errorf("%w: nil interaction", components.ErrUnsupportedInteraction)
	}
	q, ok := it.Raw.(*telego.CallbackQuery)
	if !ok || q == nil {
		return nil, fmt.Errorf("%w: interaction %s did not come from telegram", components.ErrUnsupportedInteraction, it.ID)
	}
	return q, nil
}
