package components

import "testing"

func TestResolveWithoutStates(t *testing.T) {
	t.Parallel()

	b := NewButton("plain", StyleDanger)
	if label, ok := b.ResolvedLabel(); !ok || label != "plain" {
		t.Fatalf("label: %q %v", label, ok)
	}
	if style, ok := b.ResolvedStyle(); !ok || style != StyleDanger {
		t.Fatalf("style: %v %v", style, ok)
	}
	if _, ok := b.ResolvedEmoji(); ok {
		t.Fatalf("emoji should be absent")
	}
}

func TestResolveFallsBackPerField(t *testing.T) {
	t.Parallel()

	b := &Button{
		Label: "off",
		Style: StyleSecondary,
		Emoji: &Emoji{Name: "⚪"},
		State: "on",
		States: map[string]ButtonState{
			"on":  {Style: Ptr(StyleSuccess), Emoji: &Emoji{Name: "🟢"}},
			"off": {},
		},
	}

	if label, _ := b.ResolvedLabel(); label != "off" {
		t.Fatalf("label should fall back to direct value, got %q", label)
	}
	if style, _ := b.ResolvedStyle(); style != StyleSuccess {
		t.Fatalf("style should come from state, got %v", style)
	}
	if emoji, _ := b.ResolvedEmoji(); emoji == nil || emoji.Name != "🟢" {
		t.Fatalf("emoji should come from state, got %+v", emoji)
	}

	b.State = "off"
	if style, _ := b.ResolvedStyle(); style != StyleSecondary {
		t.Fatalf("empty state should fall back, got %v", style)
	}

	b.State = "missing"
	if emoji, _ := b.ResolvedEmoji(); emoji == nil || emoji.Name != "⚪" {
		t.Fatalf("unknown state should fall back, got %+v", emoji)
	}
}

func TestResolveAbsentEverywhere(t *testing.T) {
	t.Parallel()

	b := &Button{States: map[string]ButtonState{"": {}}}
	if _, ok := b.ResolvedLabel(); ok {
		t.Fatalf("label should be absent")
	}
	if _, ok := b.ResolvedStyle(); ok {
		t.Fatalf("style should be absent")
	}
}

func TestStatesDriveRenderedAppearance(t *testing.T) {
	t.Parallel()

	b := &Button{
		Label: "Toggle",
		State: "off",
		States: map[string]ButtonState{
			"off": {Style: Ptr(StyleSecondary)},
			"on":  {Label: Ptr("Toggled"), Style: Ptr(StyleSuccess)},
		},
	}
	g := NewButtonGroup([]*Button{b})

	el := g.Render()[0].Elements[0].(ButtonElement)
	if el.Label != "Toggle" || el.Style != StyleSecondary {
		t.Fatalf("off appearance: %+v", el)
	}

	g.Edit(0, 0, ButtonPatch{State: Ptr("on")})
	el = g.Render()[0].Elements[0].(ButtonElement)
	if el.Label != "Toggled" || el.Style != StyleSuccess {
		t.Fatalf("on appearance: %+v", el)
	}
}
