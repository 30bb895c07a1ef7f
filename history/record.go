package history

import (
	"fmt"
	"math"

	"github.com/plplayer/plplayer/util"
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Record is the resume state persisted beside a playlist.
type Record struct {
	DisplayName string   `json:"display_name,omitempty" jsonschema:"description=Human readable playlist name."`
	TrackIndex  int      `json:"track_index" jsonschema:"description=Zero-based index of the track to resume."`
	Position    float64  `json:"position" jsonschema:"description=Resume position inside the track in seconds."`
	Finished    []string `json:"finished" jsonschema:"description=Sorted locators of tracks played to completion or skipped."`
}

// Default is the record used when no usable history exists.
func Default() Record {
	return Record{Finished: make([]string, 0)}
}

// Clamp fits the record to a playlist of n tracks. The index lands in [0, n-1] (0 for an empty
// playlist), unusable positions become 0 and the finished set is normalised.
func (r Record) Clamp(n int) Record {
	switch {
	case n <= 0:
		r.TrackIndex = 0
	case r.TrackIndex < 0:
		r.TrackIndex = 0
	case r.TrackIndex >= n:
		r.TrackIndex = n - 1
	}

	if math.IsNaN(r.Position) || math.IsInf(r.Position, 0) || r.Position < 0 {
		r.Position = 0
	}

	r.Finished = NormalizeFinished(r.Finished)
	return r
}

// IsFinished reports whether the locator is in the finished set.
func (r Record) IsFinished(locator string) bool {
	_, found := slices.BinarySearch(r.Finished, locator)
	return found
}

// String summarises the record for CLI output.
func (r Record) String() string {
	summary := fmt.Sprintf("track %d at %s, %d finished", r.TrackIndex+1, util.FormatSeconds(r.Position), len(r.Finished))
	if r.DisplayName == "" {
		return summary
	}
	return r.DisplayName + ": " + summary
}

// NormalizeFinished returns a sorted, de-duplicated, non-nil copy of finished with empty entries dropped.
func NormalizeFinished(finished []string) []string {
	out := lo.Uniq(lo.Compact(finished))
	if out == nil {
		out = make([]string, 0)
	}
	slices.Sort(out)
	return out
}
