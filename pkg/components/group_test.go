package components

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func mustPanicWith(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %v", want)
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, want) {
			t.Fatalf("expected panic with %v, got %v", want, r)
		}
	}()
	fn()
}

func assertCoordinatesConsistent(t *testing.T, g *ButtonGroup) {
	t.Helper()
	for y, row := range g.Rows() {
		if len(row) > MaxRowButtons {
			t.Fatalf("row %d has %d buttons", y, len(row))
		}
		for x, b := range row {
			bx, by := b.Coordinates()
			if bx != x || by != y {
				t.Fatalf("button %q at (%d,%d) caches (%d,%d)", b.Label, x, y, bx, by)
			}
		}
	}
}

func TestAddFillsRowsInOrder(t *testing.T) {
	t.Parallel()

	g := NewButtonGroup()
	buttons := make([]*Button, 6)
	for i := range buttons {
		buttons[i] = NewButton(fmt.Sprintf("B%d", i), StylePrimary)
		g.Add(buttons[i])
	}

	for i := 0; i < 5; i++ {
		x, y := buttons[i].Coordinates()
		if x != i || y != 0 {
			t.Fatalf("button %d at (%d,%d), want (%d,0)", i, x, y, i)
		}
	}
	if x, y := buttons[5].Coordinates(); x != 0 || y != 1 {
		t.Fatalf("sixth button at (%d,%d), want (0,1)", x, y)
	}
	if g.RowLen(0) != 5 || g.RowLen(1) != 1 {
		t.Fatalf("unexpected row lengths %d/%d", g.RowLen(0), g.RowLen(1))
	}
}

func TestAddInRow(t *testing.T) {
	t.Parallel()

	g := NewButtonGroup()
	b := NewButton("A", StylePrimary)
	g.Add(b, InRow(3))
	if x, y := b.Coordinates(); x != 0 || y != 3 {
		t.Fatalf("button at (%d,%d), want (0,3)", x, y)
	}

	for i := 0; i < 4; i++ {
		g.Add(NewButton("fill", StylePrimary), InRow(3))
	}
	mustPanicWith(t, ErrRowFull, func() { g.Add(NewButton("X", StylePrimary), InRow(3)) })
	mustPanicWith(t, ErrOutOfBounds, func() { g.Add(NewButton("X", StylePrimary), InRow(5)) })
}

func TestAddFailsWhenGroupFull(t *testing.T) {
	t.Parallel()

	g := NewButtonGroup()
	for i := 0; i < MaxRows*MaxRowButtons; i++ {
		g.Add(NewButton("x", StyleSecondary))
	}
	if g.HasRoom() {
		t.Fatalf("full group reports room")
	}
	mustPanicWith(t, ErrGroupFull, func() { g.Add(NewButton("overflow", StyleSecondary)) })
	if g.Len() != 25 {
		t.Fatalf("group size changed after failed add: %d", g.Len())
	}
}

func TestRemoveShiftsCoordinates(t *testing.T) {
	t.Parallel()

	a, b, c := NewButton("A", StylePrimary), NewButton("B", StylePrimary), NewButton("C", StylePrimary)
	g := NewButtonGroup([]*Button{a, b, c})
	g.Remove(0, 0)

	if got, _ := g.Button(0, 0); got != b {
		t.Fatalf("expected B at (0,0)")
	}
	assertCoordinatesConsistent(t, g)
	mustPanicWith(t, ErrOutOfBounds, func() { g.Remove(4, 0) })
}

func TestInsertShiftsCoordinates(t *testing.T) {
	t.Parallel()

	a, b := NewButton("A", StylePrimary), NewButton("B", StylePrimary)
	g := NewButtonGroup([]*Button{a, b})
	n := NewButton("N", StyleDanger)
	g.Insert(n, 1, 0)

	row := g.Rows()[0]
	if !reflect.DeepEqual(row, []*Button{a, n, b}) {
		t.Fatalf("unexpected row order")
	}
	assertCoordinatesConsistent(t, g)

	g.Insert(NewButton("D", StylePrimary), 3, 0).Insert(NewButton("E", StylePrimary), 0, 0)
	mustPanicWith(t, ErrRowFull, func() { g.Insert(NewButton("F", StylePrimary), 0, 0) })
	mustPanicWith(t, ErrOutOfBounds, func() { g.Insert(NewButton("G", StylePrimary), 2, 1) })
	assertCoordinatesConsistent(t, g)
}

func TestSwapAndOverwrite(t *testing.T) {
	t.Parallel()

	a, b := NewButton("A", StylePrimary), NewButton("B", StylePrimary)
	g := NewButtonGroup([]*Button{a}, []*Button{NewButton("x", StylePrimary), b})
	g.Swap(0, 0, 1, 1)

	if got, _ := g.Button(1, 1); got != a {
		t.Fatalf("A not moved to (1,1)")
	}
	if got, _ := g.Button(0, 0); got != b {
		t.Fatalf("B not moved to (0,0)")
	}
	assertCoordinatesConsistent(t, g)

	c := NewButton("C", StyleSuccess)
	g.Overwrite(c, 0, 1)
	if x, y := c.Coordinates(); x != 0 || y != 1 {
		t.Fatalf("overwrite did not stamp coordinates: (%d,%d)", x, y)
	}
	mustPanicWith(t, ErrOutOfBounds, func() { g.Overwrite(c, 3, 3) })
}

func TestKeepPositionsLeavesCoordinates(t *testing.T) {
	t.Parallel()

	a, b := NewButton("A", StylePrimary), NewButton("B", StylePrimary)
	g := NewButtonGroup([]*Button{a, b})
	g.Remove(0, 0, KeepPositions())
	if x, _ := b.Coordinates(); x != 1 {
		t.Fatalf("KeepPositions should leave stale x=1, got %d", x)
	}

	g.Render()
	if x, _ := b.Coordinates(); x != 0 {
		t.Fatalf("render should re-stamp coordinates, got x=%d", x)
	}
}

func TestInsertKeepPositionsStampsInsertedButton(t *testing.T) {
	t.Parallel()

	a, b := NewButton("A", StylePrimary), NewButton("B", StylePrimary)
	g := NewButtonGroup([]*Button{a, b})
	c := NewButton("C", StyleSuccess)
	g.Insert(c, 1, 0, KeepPositions())

	if x, y := c.Coordinates(); x != 1 || y != 0 {
		t.Fatalf("inserted button not stamped: (%d,%d)", x, y)
	}
	if x, _ := b.Coordinates(); x != 1 {
		t.Fatalf("KeepPositions should leave B at stale x=1, got %d", x)
	}
}

func TestMutationSequenceKeepsCoordinates(t *testing.T) {
	t.Parallel()

	g := NewButtonGroup()
	for i := 0; i < 12; i++ {
		g.Add(NewButton(fmt.Sprintf("%d", i), StylePrimary))
	}
	g.Remove(2, 0).
		Insert(NewButton("ins", StyleSuccess), 0, 2).
		Swap(0, 0, 1, 2).
		Remove(4, 1).
		Overwrite(NewButton("ow", StyleDanger), 1, 1).
		Add(NewButton("tail", StylePrimary)).
		Insert(NewButton("mid", StylePrimary), 2, 1)
	assertCoordinatesConsistent(t, g)
}

func TestEditAppliesPatch(t *testing.T) {
	t.Parallel()

	b := NewButton("old", StylePrimary)
	g := NewButtonGroup([]*Button{b})
	g.Edit(0, 0, ButtonPatch{Label: Ptr("new"), Disabled: Ptr(true), Emoji: &Emoji{Name: "🔥"}})

	if b.Label != "new" || !b.Disabled || b.Emoji == nil || b.Emoji.Name != "🔥" {
		t.Fatalf("patch not applied: %+v", b)
	}
	if b.Style != StylePrimary {
		t.Fatalf("unpatched style changed: %v", b.Style)
	}
	mustPanicWith(t, ErrOutOfBounds, func() { g.Edit(1, 0, ButtonPatch{}) })
}

func TestRenderButtons(t *testing.T) {
	t.Parallel()

	link := NewLinkButton("Docs", "https://example.com/docs")
	link.Style = StyleDanger
	g := NewButtonGroup(
		[]*Button{NewButton("A", StyleSuccess), link},
		nil,
		[]*Button{{Label: "plain", Disabled: true}},
	)

	rows := g.Render()
	if len(rows) != 2 {
		t.Fatalf("expected empty row to be omitted, got %d rows", len(rows))
	}

	first := rows[0].Elements[0].(ButtonElement)
	if first.Kind() != KindInteractive || first.CustomID != "0,0" || first.Style != StyleSuccess || first.Label != "A" {
		t.Fatalf("unexpected interactive element: %+v", first)
	}
	second := rows[0].Elements[1].(ButtonElement)
	if second.Kind() != KindLink || second.Style != StyleLink || second.URL != link.URL || second.CustomID != "" {
		t.Fatalf("unexpected link element: %+v", second)
	}
	third := rows[1].Elements[0].(ButtonElement)
	if third.CustomID != "0,2" || !third.Disabled || third.Style != StyleSecondary {
		t.Fatalf("unexpected default-styled element: %+v", third)
	}

	if got := g.LinkMapping()[link.URL]; got != (Coordinates{X: 1, Y: 0}) {
		t.Fatalf("unexpected link mapping: %+v", got)
	}
	if again := g.Render(); !reflect.DeepEqual(rows, again) {
		t.Fatalf("render is not idempotent")
	}
}

func TestDisableAllButtons(t *testing.T) {
	t.Parallel()

	g := NewButtonGroup([]*Button{NewButton("A", StylePrimary)}, []*Button{NewButton("B", StylePrimary)})
	g.DisableAll()
	for _, row := range g.Render() {
		for _, el := range row.Elements {
			if !el.(ButtonElement).Disabled {
				t.Fatalf("element not disabled: %+v", el)
			}
		}
	}
}

func TestParseButtonID(t *testing.T) {
	t.Parallel()

	x, y, err := ParseButtonID("3,4")
	if err != nil || x != 3 || y != 4 {
		t.Fatalf("parse 3,4: %d %d %v", x, y, err)
	}
	for _, bad := range []string{"", "3", "a,b", "1,2,3", "select_menu"} {
		if _, _, err := ParseButtonID(bad); !errors.Is(err, ErrMalformedCustomID) {
			t.Fatalf("expected malformed error for %q, got %v", bad, err)
		}
	}
}
