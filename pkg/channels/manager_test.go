package channels

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"tungsten/pkg/bus"
	"tungsten/pkg/components"
	"tungsten/pkg/config"
)

type stubChannel struct {
	starts, stops int
	startErr      error
}

func (c *stubChannel) WaitFor(context.Context, func(*components.Interaction) bool, time.Duration) (*components.Interaction, error) {
	return nil, components.ErrTimeout
}
func (c *stubChannel) Acknowledge(context.Context, *components.Interaction) error { return nil }
func (c *stubChannel) RespondEphemeral(context.Context, *components.Interaction, string) error {
	return nil
}
func (c *stubChannel) EditMessage(_ context.Context, msg components.Message, _ string, _ []components.Row) (components.Message, error) {
	return msg, nil
}
func (c *stubChannel) Start(context.Context) error { c.starts++; return c.startErr }
func (c *stubChannel) Stop(context.Context) error  { c.stops++; return nil }
func (c *stubChannel) Send(_ context.Context, target, content string, _ []components.Row) (components.Message, error) {
	return components.Message{ID: "1", ChannelID: target, Content: content}, nil
}

func TestManagerWithNothingEnabled(t *testing.T) {
	t.Parallel()

	m, err := NewManager(config.DefaultConfig(), bus.NewHub())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if len(m.GetEnabledChannels()) != 0 {
		t.Fatalf("no channel should be enabled by default")
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("start with no channels: %v", err)
	}
}

func TestManagerStartStop(t *testing.T) {
	t.Parallel()

	m, err := NewManager(config.DefaultConfig(), bus.NewHub())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	a, b := &stubChannel{}, &stubChannel{}
	m.RegisterChannel("b", b)
	m.RegisterChannel("a", a)

	if got := m.GetEnabledChannels(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected channels %v", got)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.StartAll(context.Background()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if a.starts != 1 || b.starts != 1 {
		t.Fatalf("channels started more than once: %d %d", a.starts, b.starts)
	}
	status := m.GetStatus()["a"].(map[string]interface{})
	if status["running"] != true {
		t.Fatalf("status does not report running: %+v", status)
	}

	if err := m.StopAll(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if a.stops != 1 || b.stops != 1 {
		t.Fatalf("channels not stopped")
	}
	if ch, ok := m.GetChannel("a"); !ok || ch != Channel(a) {
		t.Fatalf("lookup failed")
	}
}

func TestManagerStartFailure(t *testing.T) {
	t.Parallel()

	m, err := NewManager(config.DefaultConfig(), bus.NewHub())
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	boom := errors.New("gateway refused")
	m.RegisterChannel("bad", &stubChannel{startErr: boom})
	if err := m.StartAll(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
}
