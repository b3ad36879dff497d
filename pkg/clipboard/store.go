package clipboard

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
)

// Store persists clipboard contents per page identifier. Namespaces never
// leak into each other: one page's clipboard is invisible to every other
// page.
type Store interface {
	Load(pageID string) ([]Item, error)
	Save(pageID string, items []Item) error
}

// FileStore keeps one JSON file per page identifier under a directory.
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore builds a store rooted at dir on the given filesystem.
func NewFileStore(fs afero.Fs, dir string) *FileStore {
	return &FileStore{fs: fs, dir: dir}
}

func (s *FileStore) path(pageID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("clipboard-%s.json", pageID))
}

func (s *FileStore) Load(pageID string) ([]Item, error) {
	data, err := afero.ReadFile(s.fs, s.path(pageID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading clipboard file")
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "decoding clipboard file")
	}
	return items, nil
}

func (s *FileStore) Save(pageID string, items []Item) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "creating clipboard directory")
	}
	data, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encoding clipboard")
	}
	return afero.WriteFile(s.fs, s.path(pageID), data, 0o644)
}

// MemStore is an in-memory store for tests and ephemeral sessions.
type MemStore struct {
	mu    sync.Mutex
	pages map[string][]Item
}

func NewMemStore() *MemStore {
	return &MemStore{pages: make(map[string][]Item)}
}

func (s *MemStore) Load(pageID string) ([]Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.pages[pageID]))
	copy(items, s.pages[pageID])
	return items, nil
}

func (s *MemStore) Save(pageID string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := make([]Item, len(items))
	copy(saved, items)
	s.pages[pageID] = saved
	return nil
}
