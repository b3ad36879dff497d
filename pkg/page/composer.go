package page

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Composer holds the ordered, heterogeneous item list a page author works
// on. Callable items always reflect the live contract interface and can
// only be deselected, never removed; synthetic items come and go freely.
type Composer struct {
	items []Item
}

// NewComposer starts an authoring session from the normalized interface.
func NewComposer(callables []*CallableItem) *Composer {
	items := make([]Item, 0, len(callables))
	for _, c := range callables {
		items = append(items, c)
	}
	return &Composer{items: items}
}

// Items returns the current list in order.
func (c *Composer) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Composer) find(id string) (int, Item) {
	for i, item := range c.items {
		if item.ItemID() == id {
			return i, item
		}
	}
	return -1, nil
}

// ToggleSelected flips the selection of a single item.
func (c *Composer) ToggleSelected(id string) error {
	_, item := c.find(id)
	if item == nil {
		return errors.Newf("no item with id %q", id)
	}
	item.SetSelected(!item.IsSelected())
	return nil
}

// ToggleSelectAll selects every item, unless everything is already
// selected in which case it deselects everything.
func (c *Composer) ToggleSelectAll() {
	all := true
	for _, item := range c.items {
		if !item.IsSelected() {
			all = false
			break
		}
	}
	for _, item := range c.items {
		item.SetSelected(!all)
	}
}

// AddLink prepends a new link item. Synthetic items always land at the
// head of the list, newest first.
func (c *Composer) AddLink(name, url string) *LinkItem {
	link := &LinkItem{
		Kind:     KindLink,
		ID:       fmt.Sprintf("link(%s) (%s)", url, randomSuffix(4)),
		Name:     name,
		URL:      url,
		Selected: true,
	}
	c.prepend(link)
	return link
}

// AddText prepends a new text item. Invalid styles fall back to normal.
func (c *Composer) AddText(content, style string) *TextItem {
	if !textStyles[style] {
		style = "normal"
	}
	text := &TextItem{
		Kind:     KindText,
		ID:       fmt.Sprintf("text (%s)", randomSuffix(4)),
		Name:     "Text",
		Content:  content,
		Style:    style,
		Selected: true,
	}
	c.prepend(text)
	return text
}

// AddSeparator prepends a new separator item.
func (c *Composer) AddSeparator(lineStyle, color string, widthPx int) *SeparatorItem {
	sep := &SeparatorItem{
		Kind:      KindSeparator,
		ID:        fmt.Sprintf("separator (%s)", randomSuffix(4)),
		Name:      "Separator",
		LineStyle: lineStyle,
		Color:     color,
		WidthPx:   widthPx,
		Selected:  true,
	}
	c.prepend(sep)
	return sep
}

func (c *Composer) prepend(item Item) {
	c.items = append([]Item{item}, c.items...)
}

// Remove deletes a synthetic item. Callable items cannot be removed, only
// deselected, since they mirror the contract's interface.
func (c *Composer) Remove(id string) error {
	i, item := c.find(id)
	if item == nil {
		return errors.Newf("no item with id %q", id)
	}
	if item.ItemKind() == KindCallable {
		return errors.Newf("callable item %q cannot be removed, deselect it instead", id)
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Rename changes an item's display name. For callable items this is
// cosmetic only; the selector keeps targeting the original entry point.
func (c *Composer) Rename(id, newName string) error {
	_, item := c.find(id)
	if item == nil {
		return errors.Newf("no item with id %q", id)
	}
	item.Rename(newName)
	return nil
}

// Move splices the item at src out of the list and reinserts it at dst.
// Ids are never renumbered.
func (c *Composer) Move(src, dst int) error {
	if src < 0 || src >= len(c.items) || dst < 0 || dst >= len(c.items) {
		return errors.Newf("move out of range: %d -> %d with %d items", src, dst, len(c.items))
	}
	item := c.items[src]
	rest := append(c.items[:src], c.items[src+1:]...)
	c.items = append(rest[:dst], append([]Item{item}, rest[dst:]...)...)
	return nil
}

// PublishSnapshot returns the selected items in their current order. This
// is what gets serialized into the page document.
func (c *Composer) PublishSnapshot() ItemList {
	selected := make(ItemList, 0, len(c.items))
	for _, item := range c.items {
		if item.IsSelected() {
			selected = append(selected, item)
		}
	}
	return selected
}
