// Package library keeps the registry of known playlists, so they can be played by name.
package library

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/plplayer/plplayer/filesystem"
	"github.com/plplayer/plplayer/playlist"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/exp/slices"
)

// ErrNotFound is returned when a playlist is not registered.
var ErrNotFound = errors.New("playlist not in library")

// Entry is a registered playlist.
type Entry struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	AddedAt time.Time `json:"added_at"`
	// Renamed is set once the user chose the name; re-adding the playlist then keeps it.
	Renamed bool `json:"renamed,omitempty"`
}

func (e Entry) String() string {
	return e.Name
}

// Library is a registry of playlists persisted as a JSON document.
type Library struct {
	path   string
	cacher *gache.Cache[map[string]*Entry]
	now    func() time.Time
}

// New opens the registry stored at path.
func New(path string) *Library {
	return &Library{
		path: path,
		cacher: gache.New[map[string]*Entry](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
		now: time.Now,
	}
}

func (l *Library) entries() (map[string]*Entry, error) {
	cached, expired, err := l.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Path returns the location of the registry document.
func (l *Library) Path() string {
	return l.path
}

// Add registers the playlist. Re-adding refreshes the name from the handle unless the user renamed it.
func (l *Library) Add(h playlist.Handle) (Entry, error) {
	entries, err := l.entries()
	if err != nil {
		return Entry{}, err
	}

	path, err := filepath.Abs(h.Path)
	if err != nil {
		return Entry{}, fmt.Errorf("resolve %s: %w", h.Path, err)
	}

	entry, ok := entries[path]
	if !ok {
		entry = &Entry{Path: path, AddedAt: l.now()}
		entries[path] = entry
	}
	if !entry.Renamed {
		entry.Name = lo.Ternary(h.Name != "", h.Name, filepath.Base(path))
	}

	return *entry, l.cacher.Set(entries)
}

// Rename gives the registered playlist at path a user-chosen name.
func (l *Library) Rename(path, name string) (Entry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Entry{}, errors.New("playlist name must not be empty")
	}

	entries, err := l.entries()
	if err != nil {
		return Entry{}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return Entry{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	entry, ok := entries[abs]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	entry.Name = name
	entry.Renamed = true

	return *entry, l.cacher.Set(entries)
}

// Lookup returns the entry registered at exactly path.
func (l *Library) Lookup(path string) mo.Option[Entry] {
	entries, err := l.entries()
	if err != nil {
		return mo.None[Entry]()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return mo.None[Entry]()
	}

	entry, ok := entries[abs]
	if !ok {
		return mo.None[Entry]()
	}
	return mo.Some(*entry)
}

// Remove unregisters the playlist at path. The playlist file itself is left alone.
func (l *Library) Remove(path string) error {
	entries, err := l.entries()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	if _, ok := entries[abs]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	delete(entries, abs)
	return l.cacher.Set(entries)
}

// List returns all entries ordered by name, then path.
func (l *Library) List() ([]Entry, error) {
	entries, err := l.entries()
	if err != nil {
		return nil, err
	}

	list := lo.Map(lo.Values(entries), func(e *Entry, _ int) Entry { return *e })
	slices.SortFunc(list, func(a, b Entry) int {
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	return list, nil
}

// Find resolves a query to an entry: an exact path, then an exact name (ignoring case),
// then the best fuzzy name match.
func (l *Library) Find(query string) mo.Option[Entry] {
	list, err := l.List()
	if err != nil || len(list) == 0 {
		return mo.None[Entry]()
	}

	if abs, err := filepath.Abs(query); err == nil {
		if entry, ok := lo.Find(list, func(e Entry) bool { return e.Path == abs }); ok {
			return mo.Some(entry)
		}
	}

	if entry, ok := lo.Find(list, func(e Entry) bool { return strings.EqualFold(e.Name, query) }); ok {
		return mo.Some(entry)
	}

	names := lo.Map(list, func(e Entry, _ int) string { return e.Name })
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return mo.None[Entry]()
	}

	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		return a.Distance - b.Distance
	})
	return mo.Some(list[ranks[0].OriginalIndex])
}

// Closest returns the entry whose name is nearest to query by edit distance, for "did you mean" hints.
func (l *Library) Closest(query string) mo.Option[Entry] {
	list, err := l.List()
	if err != nil || len(list) == 0 {
		return mo.None[Entry]()
	}

	query = strings.ToLower(query)
	return mo.Some(lo.MinBy(list, func(a, b Entry) bool {
		return levenshtein.Distance(query, strings.ToLower(a.Name)) < levenshtein.Distance(query, strings.ToLower(b.Name))
	}))
}
