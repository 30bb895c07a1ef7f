package writer

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Snapshot is the resume state of a playlist at one instant. It is a value: callers get copies,
// and Equal decides whether two snapshots would persist the same document.
type Snapshot struct {
	Path     string
	Index    int
	Position float64
	Finished []string
}

// NewSnapshot returns a snapshot owning a sorted, de-duplicated copy of finished.
func NewSnapshot(path string, index int, position float64, finished []string) Snapshot {
	sorted := lo.Uniq(finished)
	if sorted == nil {
		sorted = make([]string, 0)
	}
	slices.Sort(sorted)

	return Snapshot{
		Path:     path,
		Index:    index,
		Position: position,
		Finished: sorted,
	}
}

// Equal reports whether both snapshots describe the same resume state.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Path == other.Path &&
		s.Index == other.Index &&
		s.Position == other.Position &&
		slices.Equal(s.Finished, other.Finished)
}

// IsZero reports whether the snapshot refers to no playlist.
func (s Snapshot) IsZero() bool {
	return s.Path == ""
}
