package channels

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tungsten/pkg/bus"
	"tungsten/pkg/components"
	"tungsten/pkg/config"
	"tungsten/pkg/discord"
	"tungsten/pkg/logger"
	"tungsten/pkg/telegram"
)

// Channel is a chat platform sessions can run on.
type Channel interface {
	components.Transport
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	// Send posts a new message with rows to target (a channel or chat ID).
	Send(ctx context.Context, target, content string, rows []components.Row) (components.Message, error)
}

// Manager owns the enabled channels. Every channel publishes its
// interactions into the same hub.
type Manager struct {
	channels map[string]Channel
	running  map[string]bool
	hub      *bus.Hub
	config   *config.Config
	mu       sync.RWMutex
}

func NewManager(cfg *config.Config, hub *bus.Hub) (*Manager, error) {
	m := &Manager{
		channels: make(map[string]Channel),
		running:  make(map[string]bool),
		hub:      hub,
		config:   cfg,
	}

	if err := m.initChannels(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) initChannels() error {
	logger.InfoC("channels", "Initializing channel manager")
	rate := m.config.Components.EditsPerSecond

	if m.config.Channels.Discord.Enabled {
		ch, err := discord.New(m.config.Channels.Discord, m.hub, rate)
		if err != nil {
			return fmt.Errorf("init discord channel: %w", err)
		}
		m.channels["discord"] = ch
	}
	if m.config.Channels.Telegram.Enabled {
		ch, err := telegram.New(m.config.Channels.Telegram, m.hub, rate)
		if err != nil {
			return fmt.Errorf("init telegram channel: %w", err)
		}
		m.channels["telegram"] = ch
	}

	logger.InfoCF("channels", "Channel initialization completed", map[string]interface{}{
		"enabled_channels": len(m.channels),
	})
	return nil
}

// StartAll starts every registered channel and fails on the first error.
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.channels) == 0 {
		logger.WarnC("channels", "No channels enabled")
		return nil
	}

	for _, name := range m.sortedNamesLocked() {
		if m.running[name] {
			continue
		}
		logger.InfoCF("channels", "Starting channel", map[string]interface{}{
			logger.FieldChannel: name,
		})
		if err := m.channels[name].Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", name, err)
		}
		m.running[name] = true
	}
	return nil
}

// StopAll stops every running channel, logging failures.
func (m *Manager) StopAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, name := range m.sortedNamesLocked() {
		if !m.running[name] {
			continue
		}
		logger.InfoCF("channels", "Stopping channel", map[string]interface{}{
			logger.FieldChannel: name,
		})
		if err := m.channels[name].Stop(ctx); err != nil {
			logger.ErrorCF("channels", "Error stopping channel", map[string]interface{}{
				logger.FieldChannel: name,
				logger.FieldError:   err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
		m.running[name] = false
	}
	return firstErr
}

func (m *Manager) GetChannel(name string) (Channel, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	channel, ok := m.channels[name]
	return channel, ok
}

func (m *Manager) GetStatus() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := make(map[string]interface{}, len(m.channels))
	for name := range m.channels {
		status[name] = map[string]interface{}{"running": m.running[name]}
	}
	return status
}

func (m *Manager) GetEnabledChannels() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedNamesLocked()
}

func (m *Manager) RegisterChannel(name string, channel Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.channels[name] = channel
}

func (m *Manager) sortedNamesLocked() []string {
	names := make([]string, 0, len(m.channels))
	for name := range m.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
