// Package discord runs component sessions on Discord through discordgo.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"tungsten/pkg/bus"
	"tungsten/pkg/components"
	"tungsten/pkg/config"
	"tungsten/pkg/logger"
)

const discordAPICallTimeout = 15 * time.Second

// api is the slice of *discordgo.Session the transport calls.
type api interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Transport implements components.Transport for Discord. Interactions are
// received on the gateway and published to the hub sessions wait on.
type Transport struct {
	session *discordgo.Session
	api     api
	hub     *bus.Hub
	limiter *rate.Limiter

	mu            sync.Mutex
	running       bool
	removeHandler func()
}

var _ components.Transport = (*Transport)(nil)

func New(cfg config.DiscordConfig, hub *bus.Hub, editsPerSecond float64) (*Transport, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	t := newTransport(session, hub, editsPerSecond)
	t.session = session
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
	}
}

// Start opens the gateway connection and begins publishing interactions.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return nil
	}
	if t.session == nil {
		return fmt.Errorf("discord session not configured")
	}
	logger.InfoC("discord", "Starting Discord gateway")

	t.removeHandler = t.session.AddHandler(func(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
		t.handleInteraction(ic.Interaction)
	})
	if err := t.session.Open(); err != nil {
		t.removeHandler()
		t.removeHandler = nil
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	t.running = true

	if u := t.session.State.User; u != nil {
		logger.InfoCF("discord", "Discord bot connected", map[string]interface{}{
			"username": u.Username,
		})
	}
	return nil
}

func (t *Transport) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return nil
	}
	logger.InfoC("discord", "Stopping Discord gateway")
	t.running = false
	if t.removeHandler != nil {
		t.removeHandler()
		t.removeHandler = nil
	}
	return t.session.Close()
}

func (t *Transport) handleInteraction(raw *discordgo.Interaction) {
	it, ok := ToInteraction(raw)
	if !ok {
		return
	}
	n := t.hub.Publish(it)
	logger.DebugCF("discord", "Discord interaction received", map[string]interface{}{
		logger.FieldInteractionID: it.ID,
		logger.FieldMessageID:     it.MessageID,
		logger.FieldUserID:        it.UserID,
		logger.FieldCustomID:      it.CustomID,
		"waiters":                 n,
	})
}

func (t *Transport) WaitFor(ctx context.Context, match func(*components.Interaction) bool, timeout time.Duration) (*components.Interaction, error) {
	return t.hub.WaitFor(ctx, match, timeout)
}

// Acknowledge defers the update so Discord does not report a failed interaction.
func (t *Transport) Acknowledge(ctx context.Context, it *components.Interaction) error {
	raw, err := rawInteraction(it)
	if err != nil {
		return err
	}
	apiCtx, cancel := context.WithTimeout(ctx, discordAPICallTimeout)
	defer cancel()
	return t.api.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, discordgo.WithContext(apiCtx))
}

func (t *Transport) RespondEphemeral(ctx context.Context, it *components.Interaction, content string) error {
	raw, err := rawInteraction(it)
	if err != nil {
		return err
	}
	apiCtx, cancel := context.WithTimeout(ctx, discordAPICallTimeout)
	defer cancel()
	return t.api.InteractionRespond(raw, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(apiCtx))
}

func (t *Transport) EditMessage(ctx context.Context, msg components.Message, content string, rows []components.Row) (components.Message, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return msg, err
	}
	apiCtx, cancel := context.WithTimeout(ctx, discordAPICallTimeout)
	defer cancel()

	rendered := RenderRows(rows)
	edited, err := t.api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         msg.ID,
		Channel:    msg.ChannelID,
		Content:    &content,
		Components: &rendered,
	}, discordgo.WithContext(apiCtx))
	if err != nil {
		logger.WarnCF("discord", "Discord message edit failed", map[string]interface{}{
			logger.FieldMessageID: msg.ID,
			logger.FieldChannelID: msg.ChannelID,
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
func (t *Transport) Send(ctx context.Context, channelID, content string, rows []components.Row) (components.Message, error) {
	apiCtx, cancel := context.WithTimeout(ctx, discordAPICallTimeout)
	defer cancel()

	sent, err := t.api.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Components: RenderRows(rows),
	}, discordgo.WithContext(apiCtx))
	if err != nil {
		return components.Message{}, fmt.Errorf("send discord message: %w", err)
	}
	logger.DebugCF("discord", "Discord message sent", map[string]interface{}{
		logger.FieldChannelID: channelID,
		logger.FieldMessageID: sent.ID,
	})
	return fromMessage(sent), nil
}

func rawInteraction(it *components.Interaction) (*discordgo.Interaction, error) {
	if it == nil {
		return nil, fmt.Errorf("%w: nil interaction", components.ErrUnsupportedInteraction)
	}
	raw, ok := it.Raw.(*discordgo.Interaction)
	if !ok || raw == nil {
		return nil, fmt.Errorf("%w: interaction %s did not come from discord", components.ErrUnsupportedInteraction, it.ID)
	}
	return raw, nil
}
