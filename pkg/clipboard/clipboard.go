package clipboard

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/pagecast/pagecast/pkg/codec"
	"github.com/pagecast/pagecast/pkg/page"
)

// DefaultCapacity matches the bounded list size the product has always
// shipped with.
const DefaultCapacity = 10

// Item is one cached call output offered as a candidate input for later
// calls of matching type.
type Item struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Clipboard is a capped, type-indexed cache of prior call results, scoped
// to one page identifier. Insertion order is recency: duplicates move to
// the back on re-write and capacity eviction removes from the front.
type Clipboard struct {
	mu       sync.Mutex
	pageID   string
	capacity int
	store    Store
	items    []Item
	log      zerolog.Logger
}

// New loads the clipboard for a page identifier from the injected store.
// A missing namespace starts empty; it is not an error.
func New(pageID string, capacity int, store Store, log zerolog.Logger) (*Clipboard, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	items, err := store.Load(pageID)
	if err != nil {
		return nil, err
	}
	return &Clipboard{
		pageID:   pageID,
		capacity: capacity,
		store:    store,
		items:    items,
		log:      log.With().Str("component", "clipboard").Str("pageId", pageID).Logger(),
	}, nil
}

// Record appends a value, moving an existing (name, value) pair to the
// most-recent position instead of growing the list, and evicting the
// oldest entry when capacity is exceeded.
func (c *Clipboard) Record(typ, name, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.items {
		if existing.Name == name && existing.Value == value {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.items = append(c.items, Item{Type: typ, Name: name, Value: value})
	if len(c.items) > c.capacity {
		c.items = c.items[1:]
	}

	if err := c.store.Save(c.pageID, c.items); err != nil {
		c.log.Warn().Err(err).Msg("Failed to persist clipboard")
	}
}

// RecordResult caches a call result when, and only when, the call
// produced exactly one output value. Multi-output results are never
// decomposed into candidates.
func (c *Clipboard) RecordResult(item *page.CallableItem, values []any) {
	if len(item.Outputs) != 1 || len(values) != 1 {
		return
	}
	c.Record(item.Outputs[0].Type, item.Name, codec.Format(values[0]))
}

// SuggestionsFor filters the current contents by exact type equality.
// Order follows the list, most recently written last.
func (c *Clipboard) SuggestionsFor(typ string) []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Item
	for _, item := range c.items {
		if item.Type == typ {
			out = append(out, item)
		}
	}
	return out
}

// Items returns everything currently cached, in recency order.
func (c *Clipboard) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}
