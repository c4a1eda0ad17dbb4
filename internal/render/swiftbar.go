package render

import (
	"strings"
)

// Protocol tokens.
const (
	Separator      = "---"
	FrameSeparator = "~~~"
	submenuPrefix  = "--"
)

// Param is one key=value pair after the "|" on a menu line.
type Param struct {
	Key   string
	Value string
}

// Item is a single menu line.
type Item struct {
	Text   string
	Depth  int
	Params []Param
	sep    bool
}

// Set appends a parameter and returns the item for chaining.
func (it *Item) Set(key, value string) *Item {
	it.Params = append(it.Params, Param{Key: key, Value: value})
	return it
}

// Color sets the text colour (#rrggbb or a named colour).
func (it *Item) Color(c string) *Item {
	return it.Set("color", c)
}

// Image attaches a base64 PNG. Empty data is ignored.
func (it *Item) Image(b64 string) *Item {
	if b64 == "" {
		return it
	}
	return it.Set("image", b64)
}

// Action runs exe with a single subcommand when clicked and refreshes the plugin.
func (it *Item) Action(exe, subcommand string) *Item {
	return it.Set("bash", exe).
		Set("param1", subcommand).
		Set("terminal", "false").
		Set("refresh", "true")
}

// String renders the item as one protocol line.
func (it *Item) String() string {
	if it.sep {
		return strings.Repeat(submenuPrefix, it.Depth) + Separator
	}

	var sb strings.Builder
	sb.WriteString(strings.Repeat(submenuPrefix, it.Depth))
	sb.WriteString(sanitize(it.Text))
	if len(it.Params) > 0 {
		if it.Text != "" {
			sb.WriteString(" ")
		}
		sb.WriteString("|")
		for _, p := range it.Params {
			sb.WriteString(" ")
			sb.WriteString(p.Key)
			sb.WriteString("=")
			sb.WriteString(quoteValue(p.Value))
		}
	}
	return sb.String()
}

// Menu accumulates items in display order.
type Menu struct {
	items []*Item
}

// Add appends a top-level item.
func (m *Menu) Add(text string) *Item {
	return m.AddAt(0, text)
}

// AddAt appends an item nested depth submenus deep.
func (m *Menu) AddAt(depth int, text string) *Item {
	it := &Item{Text: text, Depth: depth}
	m.items = append(m.items, it)
	return it
}

// Sep appends a top-level separator.
func (m *Menu) Sep() {
	m.items = append(m.items, &Item{sep: true})
}

// Items returns the accumulated items.
func (m *Menu) Items() []*Item {
	return m.items
}

// String renders the menu, one item per line, newline-terminated.
func (m *Menu) String() string {
	var sb strings.Builder
	for _, it := range m.items {
		sb.WriteString(it.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Frame prefixes a rendered menu with the streaming frame separator.
func Frame(menu string) string {
	return FrameSeparator + "\n" + menu
}

var textReplacer = strings.NewReplacer("|", "│", "\r\n", " ", "\n", " ", "\r", " ")

// sanitize keeps text on one line and out of the parameter section.
func sanitize(s string) string {
	return textReplacer.Replace(s)
}

// quoteValue wraps values containing spaces in double quotes.
func quoteValue(v string) string {
	v = textReplacer.Replace(v)
	if strings.ContainsAny(v, " \t") {
		return `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return v
}
