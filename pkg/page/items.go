package page

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Kind discriminates the page item union. Every serialized item carries it
// so no variant can be silently dropped at render or encode time.
type Kind string

const (
	KindCallable  Kind = "function"
	KindLink      Kind = "link"
	KindText      Kind = "text"
	KindSeparator Kind = "separator"
)

// Item is one entry in a page's ordered item list. Callable entries mirror
// the contract's live interface; link, text and separator items are
// synthetic and exist only in the page document.
type Item interface {
	ItemKind() Kind
	ItemID() string
	ItemName() string
	IsSelected() bool
	SetSelected(bool)
	Rename(string)
}

// Param is a named, typed parameter of a callable entry.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Mutability values mirror the raw interface description.
const (
	MutabilityView       = "view"
	MutabilityPure       = "pure"
	MutabilityNonpayable = "nonpayable"
	MutabilityPayable    = "payable"
)

// CallableItem is a callable contract entry point. Its ID is reproducible
// from the source interface so re-scanning the same contract yields the
// same ids; Selector fingerprints the canonical signature independent of
// any display renaming.
type CallableItem struct {
	Kind       Kind   `json:"kind"`
	ID         string `json:"id"`
	Selector   string `json:"selector"`
	Name       string `json:"name"`
	Inputs     []Param `json:"inputs"`
	Outputs    []Param `json:"outputs"`
	Mutability string  `json:"stateMutability"`
	Selected   bool    `json:"selected"`
}

func (c *CallableItem) ItemKind() Kind      { return KindCallable }
func (c *CallableItem) ItemID() string      { return c.ID }
func (c *CallableItem) ItemName() string    { return c.Name }
func (c *CallableItem) IsSelected() bool    { return c.Selected }
func (c *CallableItem) SetSelected(v bool)  { c.Selected = v }

// Rename changes the display name only. The selector stays untouched so
// the underlying call still targets the original entry point.
func (c *CallableItem) Rename(name string) {
	if name == "" {
		return
	}
	c.Name = name
}

// StateChanging reports whether invoking this entry requires a signed
// transaction rather than a free read.
func (c *CallableItem) StateChanging() bool {
	return c.Mutability == MutabilityNonpayable || c.Mutability == MutabilityPayable
}

func (c *CallableItem) Payable() bool { return c.Mutability == MutabilityPayable }

// AutoInvokeOnOpen reports whether opening this entry should fire the call
// immediately, without an explicit submit. Only zero-argument free reads
// qualify; anything taking input or changing state waits for a submit.
func (c *CallableItem) AutoInvokeOnOpen() bool {
	return !c.StateChanging() && len(c.Inputs) == 0
}

// LinkItem is a synthetic item pointing at an external URL.
type LinkItem struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Selected bool   `json:"selected"`
}

func (l *LinkItem) ItemKind() Kind     { return KindLink }
func (l *LinkItem) ItemID() string     { return l.ID }
func (l *LinkItem) ItemName() string   { return l.Name }
func (l *LinkItem) IsSelected() bool   { return l.Selected }
func (l *LinkItem) SetSelected(v bool) { l.Selected = v }
func (l *LinkItem) Rename(name string) {
	if name != "" {
		l.Name = name
	}
}

// TextStyle values accepted for text items.
var textStyles = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"normal": true,
}

// TextItem is a synthetic block of freeform text.
type TextItem struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Content  string `json:"content"`
	Style    string `json:"style"`
	Selected bool   `json:"selected"`
}

func (t *TextItem) ItemKind() Kind     { return KindText }
func (t *TextItem) ItemID() string     { return t.ID }
func (t *TextItem) ItemName() string   { return t.Name }
func (t *TextItem) IsSelected() bool   { return t.Selected }
func (t *TextItem) SetSelected(v bool) { t.Selected = v }
func (t *TextItem) Rename(string)      {} // text items have a fixed name

// SeparatorItem is a synthetic horizontal rule.
type SeparatorItem struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	LineStyle string `json:"lineStyle"`
	Color     string `json:"color"`
	WidthPx   int    `json:"widthPx"`
	Selected  bool   `json:"selected"`
}

func (s *SeparatorItem) ItemKind() Kind     { return KindSeparator }
func (s *SeparatorItem) ItemID() string     { return s.ID }
func (s *SeparatorItem) ItemName() string   { return s.Name }
func (s *SeparatorItem) IsSelected() bool   { return s.Selected }
func (s *SeparatorItem) SetSelected(v bool) { s.Selected = v }
func (s *SeparatorItem) Rename(string)      {}

// randomSuffix returns n characters of a dash-stripped uuid, used to keep
// synthetic item ids globally unique.
func randomSuffix(n int) string {
	s := strings.ReplaceAll(uuid.NewString(), "-", "")
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}

// ItemList marshals the heterogeneous item union and restores the concrete
// types on the way back in, keyed by the kind discriminant. Items without
// a kind are treated as callable entries.
type ItemList []Item

func (il *ItemList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		var probe struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return err
		}
		var item Item
		switch probe.Kind {
		case KindLink:
			item = &LinkItem{}
		case KindText:
			item = &TextItem{}
		case KindSeparator:
			item = &SeparatorItem{}
		case KindCallable, "":
			item = &CallableItem{}
		default:
			return errors.Newf("unknown page item kind %q", probe.Kind)
		}
		if err := json.Unmarshal(r, item); err != nil {
			return err
		}
		items = append(items, item)
	}
	*il = items
	return nil
}
