package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"tungsten/pkg/components"
)

type replayTransport struct {
	queue []*components.Interaction
	edits []string
	last  []components.Row
}

func (r *replayTransport) WaitFor(_ context.Context, match func(*components.Interaction) bool, _ time.Duration) (*components.Interaction, error) {
	for len(r.queue) > 0 {
		it := r.queue[0]
		r.queue = r.queue[1:]
		if match(it) {
			return it, nil
		}
	}
	return nil, components.ErrTimeout
}

func (r *replayTransport) Acknowledge(context.Context, *components.Interaction) error { return nil }

func (r *replayTransport) RespondEphemeral(context.Context, *components.Interaction, string) error {
	return nil
}

func (r *replayTransport) EditMessage(_ context.Context, msg components.Message, content string, rows []components.Row) (components.Message, error) {
	r.edits = append(r.edits, content)
	r.last = rows
	msg.Content = content
	return msg, nil
}

func press(customID string) *components.Interaction {
	return &components.Interaction{ID: customID, Kind: components.InteractionButton, MessageID: "m", UserID: "u", CustomID: customID}
}

func TestBoardCounterToggleAndColour(t *testing.T) {
	t.Parallel()

	b := newBoard()
	tr := &replayTransport{queue: []*components.Interaction{
		press("2,0"),
		press("2,0"),
		press("0,0"),
		press("0,1"),
		{ID: "sel", Kind: components.InteractionSelect, MessageID: "m", UserID: "u", Values: []string{"2"}},
		press("2,1"),
	}}
	s, err := components.NewSession(tr, components.Options{Buttons: b.buttons, Menu: b.menu, Hooks: b.hooks()})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if err := s.Run(context.Background(), components.Message{ID: "m", Content: b.content()}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if b.count != 1 || b.colour != "Blue" {
		t.Fatalf("unexpected board state count=%d colour=%s", b.count, b.colour)
	}
	if got, _ := b.buttons.Button(1, 0); got.Label != "1" {
		t.Fatalf("counter label not updated: %q", got.Label)
	}
	if toggle, _ := b.buttons.Button(0, 1); toggle.State != "on" {
		t.Fatalf("toggle state %q", toggle.State)
	}
	if opt, _ := b.menu.Option(2); !opt.Default {
		t.Fatalf("picked option not marked default")
	}

	final := tr.edits[len(tr.edits)-1]
	if !strings.HasSuffix(final, "stopped") || !s.Disabled() {
		t.Fatalf("stop button did not end the session: %q", final)
	}
	for _, row := range tr.last {
		for _, el := range row.Elements {
			switch e := el.(type) {
			case components.ButtonElement:
				if !e.Link && !e.Disabled {
					t.Fatalf("button left enabled after stop: %+v", e)
				}
			case components.SelectElement:
				if !e.Disabled {
					t.Fatalf("menu left enabled after stop")
				}
			}
		}
	}
}

func TestSessionStatusReportsClicks(t *testing.T) {
	t.Parallel()

	b := newBoard()
	tr := &replayTransport{queue: []*components.Interaction{press("2,0")}}
	s, err := components.NewSession(tr, components.Options{
		Buttons:    b.buttons,
		ClickLimit: 1,
		Hooks:      b.hooks(),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Run(context.Background(), components.Message{ID: "m"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	status := sessionStatus(s)().(map[string]interface{})
	if status["clicks"] != 1 || status["disabled"] != true {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestNormalizeCLIArgs(t *testing.T) {
	t.Parallel()

	args := []string{"tungsten", "--debug", "demo", "--config", "/tmp/c.json", "discord", "--config=/x", "123"}
	got := normalizeCLIArgs(args)
	want := []string{"tungsten", "demo", "discord", "123"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("got %v want %v", got, want)
	}
	if p := detectConfigPathFromArgs(args); p != "/tmp/c.json" {
		t.Fatalf("config path %q", p)
	}
}
