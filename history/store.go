// Package history persists per-playlist resume state in a JSON document stored beside the playlist.
//
// Every write goes through a temp file that is synced and then renamed over the primary document,
// with the previous generation kept as a backup for recovery.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/plplayer/plplayer/constant"
	"github.com/plplayer/plplayer/log"
	"github.com/plplayer/plplayer/playlist"
	"github.com/spf13/afero"
)

var (
	// ErrCommit is returned when a new generation could not be installed. The primary document is left as it was.
	ErrCommit = errors.New("history commit failed")

	// ErrCorrupt is returned by Read when the document exists but is not a valid history object.
	ErrCorrupt = errors.New("history document is corrupt")
)

const (
	keyDisplayName = "display_name"
	keyTrackIndex  = "track_index"
	keyPosition    = "position"
	keyFinished    = "finished"
)

// Paths locates the documents that belong to one playlist.
type Paths struct {
	Primary string
	Backup  string
}

// Store reads and writes history documents. All mutations are serialised, so writes issued
// from different goroutines for the same playlist never interleave.
type Store struct {
	fs           afero.Fs
	suffix       string
	backupSuffix string
	mu           sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithSuffix sets the suffix appended to the playlist path to name the primary document.
func WithSuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" {
			s.suffix = suffix
		}
	}
}

// WithBackupSuffix sets the suffix appended to the primary document to name the backup.
func WithBackupSuffix(suffix string) Option {
	return func(s *Store) {
		if suffix != "" {
			s.backupSuffix = suffix
		}
	}
}

// NewStore returns a store operating on fs.
func NewStore(fs afero.Fs, opts ...Option) *Store {
	s := &Store{
		fs:           fs,
		suffix:       constant.HistorySuffix,
		backupSuffix: constant.HistoryBackupSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Paths returns the primary and backup document paths for a playlist.
func (s *Store) Paths(playlistPath string) Paths {
	primary := playlistPath + s.suffix
	return Paths{
		Primary: primary,
		Backup:  primary + s.backupSuffix,
	}
}

// Load returns the resume state for h, clamped to its track list. It never fails: a corrupt primary
// is recovered from the backup (and repaired), and without a usable document the defaults are returned.
func (s *Store) Load(h playlist.Handle) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.Paths(h.Path)

	primary, err := s.readDocument(paths.Primary)
	if err == nil {
		return primary.record.Clamp(len(h.Tracks))
	}
	primaryMissing := errors.Is(err, os.ErrNotExist)
	if !primaryMissing {
		log.Warnf("history %s unusable: %s", paths.Primary, err)
	}

	backup, err := s.readDocument(paths.Backup)
	if err != nil {
		if !primaryMissing || !errors.Is(err, os.ErrNotExist) {
			log.Warnf("history backup %s unusable, starting over: %s", paths.Backup, err)
		}
		return Default().Clamp(len(h.Tracks))
	}

	log.Warnf("recovered history for %s from backup", h.Path)
	if err := s.commit(paths, backup.raw); err != nil {
		log.Errorf("repair history %s: %s", paths.Primary, err)
	}

	return backup.record.Clamp(len(h.Tracks))
}

// Read returns the stored record for the playlist without recovery or clamping.
// A missing document yields an error matching os.ErrNotExist, an invalid one ErrCorrupt.
func (s *Store) Read(playlistPath string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument(s.Paths(playlistPath).Primary)
	if err != nil {
		return Record{}, err
	}
	return doc.record, nil
}

// Save merges the resume fields into the stored document, keeping every other field,
// and installs the result atomically.
func (s *Store) Save(playlistPath string, index int, position float64, finished []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if math.IsNaN(position) || math.IsInf(position, 0) {
		return fmt.Errorf("%w: position %v is not a finite number", ErrCommit, position)
	}

	paths := s.Paths(playlistPath)
	fields := s.currentFields(paths)

	if err := setField(fields, keyTrackIndex, index); err != nil {
		return err
	}
	if err := setField(fields, keyPosition, position); err != nil {
		return err
	}
	if err := setField(fields, keyFinished, NormalizeFinished(finished)); err != nil {
		return err
	}

	return s.write(paths, fields)
}

// EnsureName stores name as the display name unless it is already stored.
func (s *Store) EnsureName(playlistPath, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.Paths(playlistPath)
	fields := s.currentFields(paths)

	if raw, ok := fields[keyDisplayName]; ok {
		var current string
		if json.Unmarshal(raw, &current) == nil && current == name {
			return nil
		}
	}

	if err := setField(fields, keyDisplayName, name); err != nil {
		return err
	}

	return s.write(paths, fields)
}

// Reset removes both the primary document and its backup.
func (s *Store) Reset(playlistPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.Paths(playlistPath)
	for _, path := range []string{paths.Primary, paths.Backup} {
		if err := s.fs.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

// document is a parsed history file together with the bytes it was parsed from.
type document struct {
	raw    []byte
	fields map[string]json.RawMessage
	record Record
}

func (s *Store) readDocument(path string) (document, error) {
	raw, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return document{}, err
	}
	return parse(raw)
}

func parse(raw []byte) (document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return document{}, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	if fields == nil {
		return document{}, fmt.Errorf("%w: not an object", ErrCorrupt)
	}

	record := Default()
	if err := json.Unmarshal(raw, &record); err != nil {
		return document{}, fmt.Errorf("%w: %s", ErrCorrupt, err)
	}
	record.Finished = NormalizeFinished(record.Finished)

	return document{raw: raw, fields: fields, record: record}, nil
}

// currentFields returns the fields of the newest usable generation, or an empty set.
func (s *Store) currentFields(paths Paths) map[string]json.RawMessage {
	for _, path := range []string{paths.Primary, paths.Backup} {
		if doc, err := s.readDocument(path); err == nil {
			return doc.fields
		}
	}
	return make(map[string]json.RawMessage)
}

func setField(fields map[string]json.RawMessage, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %s", ErrCommit, key, err)
	}
	fields[key] = raw
	return nil
}

// encode renders fields with sorted keys, two-space indentation and a trailing newline,
// so equal contents always produce identical bytes.
func encode(fields map[string]json.RawMessage) ([]byte, error) {
	data, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *Store) write(paths Paths, fields map[string]json.RawMessage) error {
	data, err := encode(fields)
	if err != nil {
		return fmt.Errorf("%w: encode: %s", ErrCommit, err)
	}
	return s.commit(paths, data)
}

// commit installs data as the new primary generation: temp file, sync, backup of the
// previous primary, rename. Nothing but the rename touches the primary.
func (s *Store) commit(paths Paths, data []byte) (err error) {
	dir, base := filepath.Split(paths.Primary)
	if dir == "" {
		dir = "."
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %s", ErrCommit, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = s.fs.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: write temp file: %s", ErrCommit, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync temp file: %s", ErrCommit, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %s", ErrCommit, err)
	}

	if err = s.backup(paths); err != nil {
		return fmt.Errorf("%w: backup: %s", ErrCommit, err)
	}

	if err = s.fs.Rename(tmpName, paths.Primary); err != nil {
		return fmt.Errorf("%w: rename: %s", ErrCommit, err)
	}

	return nil
}

// backup copies the current primary to the backup path. A missing or corrupt primary is not
// copied, so a good backup is never replaced by garbage.
func (s *Store) backup(paths Paths) error {
	raw, err := afero.ReadFile(s.fs, paths.Primary)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := parse(raw); err != nil {
		log.Warnf("not backing up corrupt history %s", paths.Primary)
		return nil
	}

	if existing, err := afero.ReadFile(s.fs, paths.Backup); err == nil && bytes.Equal(existing, raw) {
		return nil
	}

	return afero.WriteFile(s.fs, paths.Backup, raw, 0644)
}
