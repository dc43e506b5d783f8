package components

// ElementKind tags a rendered element.
type ElementKind string

const (
	KindInteractive ElementKind = "interactive"
	KindLink        ElementKind = "link"
	KindSelect      ElementKind = "select"
)

// Element is one rendered entry of a Row.
type Element interface {
	Kind() ElementKind
}

// Row is one rendered action row: up to five buttons or a single select menu.
type Row struct {
	Elements []Element
}

// ButtonElement is a rendered button. CustomID is "x,y" for interactive
// buttons; URL is set for link buttons.
type ButtonElement struct {
	Link     bool
	Label    string
	Style    ButtonStyle
	Emoji    *Emoji
	Disabled bool
	CustomID string
	URL      string
}

func (e ButtonElement) Kind() ElementKind {
	if e.Link {
		return KindLink
	}
	return KindInteractive
}

// SelectElement is a rendered select menu.
type SelectElement struct {
	CustomID    string
	Placeholder string
	MinValues   int
	MaxValues   int
	Disabled    bool
	Options     []SelectOptionElement
}

func (SelectElement) Kind() ElementKind {
	return KindSelect
}

// SelectOptionElement is a rendered option. Value is the option's index.
type SelectOptionElement struct {
	Label       string
	Description string
	Emoji       *Emoji
	Default     bool
	Value       string
}
