package components

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxRows       = 5
	MaxRowButtons = 5
)

// Coordinates is an (x, y) cell of a ButtonGroup.
type Coordinates struct {
	X int
	Y int
}

// ButtonGroup holds a 5x5 grid of buttons. Structural misuse (full rows,
// positions that do not exist) panics with a wrapped sentinel error.
type ButtonGroup struct {
	rows        [MaxRows][]*Button
	linkMapping map[string]Coordinates
}

// NewButtonGroup builds a group from up to five rows. Coordinates are stamped
// on every button.
func NewButtonGroup(rows ...[]*Button) *ButtonGroup {
	if len(rows) > MaxRows {
		panic(fmt.Errorf("%w: %d rows given, max %d", ErrOutOfBounds, len(rows), MaxRows))
	}
	g := &ButtonGroup{linkMapping: make(map[string]Coordinates)}
	for y, row := range rows {
		if len(row) > MaxRowButtons {
			panic(fmt.Errorf("%w: row %d has %d buttons", ErrRowFull, y, len(row)))
		}
		g.rows[y] = append([]*Button(nil), row...)
		for x, b := range g.rows[y] {
			b.SetCoordinates(x, y)
		}
	}
	return g
}

// Add appends button to the first row with room, or to the row picked with InRow.
func (g *ButtonGroup) Add(button *Button, opts ...MutateOption) *ButtonGroup {
	cfg := newMutateConfig(opts)

	y := -1
	if cfg.hasRow {
		g.checkRow(cfg.row)
		if len(g.rows[cfg.row]) >= MaxRowButtons {
			panic(fmt.Errorf("%w: row %d", ErrRowFull, cfg.row))
		}
		y = cfg.row
	} else {
		for i := range g.rows {
			if len(g.rows[i]) < MaxRowButtons {
				y = i
				break
			}
		}
		if y < 0 {
			panic(ErrGroupFull)
		}
	}

	if cfg.reindex {
		button.SetCoordinates(len(g.rows[y]), y)
	}
	g.rows[y] = append(g.rows[y], button)
	return g
}

// Overwrite replaces the button at (x, y).
func (g *ButtonGroup) Overwrite(button *Button, x, y int, opts ...MutateOption) *ButtonGroup {
	cfg := newMutateConfig(opts)
	g.checkCell(x, y)
	g.rows[y][x] = button
	if cfg.reindex {
		button.SetCoordinates(x, y)
	}
	return g
}

// Edit applies patch to the button at (x, y) in place.
func (g *ButtonGroup) Edit(x, y int, patch ButtonPatch) *ButtonGroup {
	g.checkCell(x, y)
	patch.apply(g.rows[y][x])
	return g
}

// Remove deletes the button at (x, y); later buttons of the row shift left.
func (g *ButtonGroup) Remove(x, y int, opts ...MutateOption) *ButtonGroup {
	cfg := newMutateConfig(opts)
	g.checkCell(x, y)

	row := g.rows[y]
	copy(row[x:], row[x+1:])
	row[len(row)-1] = nil
	g.rows[y] = row[:len(row)-1]

	if cfg.reindex {
		for _, b := range g.rows[y] {
			if b.x > x {
				b.x--
			}
		}
	}
	return g
}

// Insert places button at position x of row y, shifting later buttons right.
// The inserted button is always stamped; KeepPositions only skips the shift.
func (g *ButtonGroup) Insert(button *Button, x, y int, opts ...MutateOption) *ButtonGroup {
	cfg := newMutateConfig(opts)
	g.checkRow(y)
	if len(g.rows[y]) >= MaxRowButtons {
		panic(fmt.Errorf("%w: row %d", ErrRowFull, y))
	}
	if x < 0 || x > len(g.rows[y]) {
		panic(fmt.Errorf("%w: insert at (%d,%d)", ErrOutOfBounds, x, y))
	}

	row := append(g.rows[y], nil)
	copy(row[x+1:], row[x:])
	row[x] = button
	g.rows[y] = row
	button.SetCoordinates(x, y)

	if cfg.reindex {
		for _, b := range row[x+1:] {
			b.x++
		}
	}
	return g
}

// Swap exchanges the buttons at (x, y) and (x2, y2).
func (g *ButtonGroup) Swap(x, y, x2, y2 int, opts ...MutateOption) *ButtonGroup {
	g.checkCell(x, y)
	g.checkCell(x2, y2)
	one := g.rows[y][x]
	two := g.rows[y2][x2]
	g.Overwrite(one, x2, y2, opts...)
	g.Overwrite(two, x, y, opts...)
	return g
}

// DisableAll disables every button of the group.
func (g *ButtonGroup) DisableAll() *ButtonGroup {
	for _, row := range g.rows {
		for _, b := range row {
			b.Disabled = true
		}
	}
	return g
}

// Render builds one Row per non-empty row. Interactive buttons get "x,y"
// custom ids and have their coordinates re-stamped; link buttons are recorded
// in the link mapping.
func (g *ButtonGroup) Render() []Row {
	if g.linkMapping == nil {
		g.linkMapping = make(map[string]Coordinates)
	}
	rendered := make([]Row, 0, MaxRows)
	for y, row := range g.rows {
		if len(row) == 0 {
			continue
		}
		elements := make([]Element, 0, len(row))
		for x, b := range row {
			label, _ := b.ResolvedLabel()
			emoji, _ := b.ResolvedEmoji()
			el := ButtonElement{
				Label:    label,
				Emoji:    copyEmoji(emoji),
				Disabled: b.Disabled,
			}
			if b.IsLink() {
				el.Link = true
				el.Style = StyleLink
				el.URL = b.URL
				g.linkMapping[b.URL] = Coordinates{X: x, Y: y}
			} else {
				b.SetCoordinates(x, y)
				style, ok := b.ResolvedStyle()
				if !ok || style == StyleLink {
					style = StyleSecondary
				}
				el.Style = style
				el.CustomID = FormatButtonID(x, y)
			}
			elements = append(elements, el)
		}
		rendered = append(rendered, Row{Elements: elements})
	}
	return rendered
}

// Button returns the button at (x, y) and whether it exists.
func (g *ButtonGroup) Button(x, y int) (*Button, bool) {
	if y < 0 || y >= MaxRows || x < 0 || x >= len(g.rows[y]) {
		return nil, false
	}
	return g.rows[y][x], true
}

// Rows returns a copy of the grid.
func (g *ButtonGroup) Rows() [][]*Button {
	out := make([][]*Button, MaxRows)
	for y, row := range g.rows {
		out[y] = append([]*Button(nil), row...)
	}
	return out
}

func (g *ButtonGroup) RowLen(y int) int {
	g.checkRow(y)
	return len(g.rows[y])
}

// Len returns the total number of buttons.
func (g *ButtonGroup) Len() int {
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// HasRoom reports whether Add without InRow would succeed.
func (g *ButtonGroup) HasRoom() bool {
	return g.Len() < MaxRows*MaxRowButtons
}

// LastRowUsed reports whether the fifth row holds any button.
func (g *ButtonGroup) LastRowUsed() bool {
	return len(g.rows[MaxRows-1]) > 0
}

// LinkMapping returns the URL -> position map filled by the last Render.
func (g *ButtonGroup) LinkMapping() map[string]Coordinates {
	out := make(map[string]Coordinates, len(g.linkMapping))
	for k, v := range g.linkMapping {
		out[k] = v
	}
	return out
}

func (g *ButtonGroup) checkRow(y int) {
	if y < 0 || y >= MaxRows {
		panic(fmt.Errorf("%w: row %d", ErrOutOfBounds, y))
	}
}

func (g *ButtonGroup) checkCell(x, y int) {
	if _, ok := g.Button(x, y); !ok {
		panic(fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y))
	}
}

// FormatButtonID encodes a grid position as a button custom id.
func FormatButtonID(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

// ParseButtonID decodes an "x,y" custom id.
func ParseButtonID(id string) (int, int, error) {
	xs, ys, found := strings.Cut(id, ",")
	if !found {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCustomID, id)
	}
	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCustomID, id)
	}
	return x, y, nil
}

func copyEmoji(e *Emoji) *Emoji {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}
