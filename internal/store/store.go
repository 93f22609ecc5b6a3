// Package store is a JSON-file-backed collection of levels and their
// best known solutions, standing in for the level database the solver
// core excludes: the solver never imports this package, it only ever
// consumes a level.Map.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ShenMian/sokoban-go/internal/action"
)

// Kind selects which of a level's two best-known solutions to read or
// update: the one with fewest moves, or the one with fewest pushes.
type Kind int

const (
	ByMoves Kind = iota
	ByPushes
)

// solution is the JSON-serializable form of a stored Actions sequence.
type solution struct {
	LURD   string `json:"lurd"`
	Moves  int    `json:"moves"`
	Pushes int    `json:"pushes"`
}

// entry is one stored level: its XSB text plus the best solution found
// so far under each of the two cost metrics.
type entry struct {
	XSB        string    `json:"xsb"`
	BestMoves  *solution `json:"best_moves,omitempty"`
	BestPushes *solution `json:"best_pushes,omitempty"`
}

// Store is a collection of level entries keyed by the normalized hash
// of the level, backed by a single JSON file on disk.
type Store struct {
	path    string
	entries map[string]*entry
}

// Open loads the store at path, or starts an empty one if the file
// does not yet exist.
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]*entry)}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("store: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("store: parsing %s: %w", path, err)
	}
	return s, nil
}

// key formats a normalized hash as the store's string map key.
func key(levelHash uint64) string {
	return strconv.FormatUint(levelHash, 16)
}

// PutLevel records xsb as the text for levelHash, leaving any existing
// solutions for it untouched.
func (s *Store) PutLevel(levelHash uint64, xsb string) {
	k := key(levelHash)
	e, ok := s.entries[k]
	if !ok {
		e = &entry{}
		s.entries[k] = e
	}
	e.XSB = xsb
}

// Level returns the stored XSB text for levelHash, or "" if absent.
func (s *Store) Level(levelHash uint64) (string, bool) {
	e, ok := s.entries[key(levelHash)]
	if !ok {
		return "", false
	}
	return e.XSB, true
}

// Put records solution as the candidate best-known solution for
// levelHash under kind, replacing the one stored there only if
// solution actually improves on it.
func (s *Store) Put(levelHash uint64, sol action.Actions, kind Kind) error {
	k := key(levelHash)
	e, ok := s.entries[k]
	if !ok {
		return fmt.Errorf("store: no level recorded for hash %s; call PutLevel first", k)
	}

	candidate := &solution{LURD: sol.LURD(), Moves: sol.Moves(), Pushes: sol.Pushes()}
	switch kind {
	case ByMoves:
		if e.BestMoves == nil || candidate.Moves < e.BestMoves.Moves {
			e.BestMoves = candidate
		}
	case ByPushes:
		if e.BestPushes == nil || candidate.Pushes < e.BestPushes.Pushes {
			e.BestPushes = candidate
		}
	default:
		return fmt.Errorf("store: invalid kind %d", kind)
	}
	return nil
}

// Best returns the best-known solution for levelHash under kind, and
// whether one is stored at all.
func (s *Store) Best(levelHash uint64, kind Kind) (action.Actions, bool) {
	e, ok := s.entries[key(levelHash)]
	if !ok {
		return action.Actions{}, false
	}

	var sol *solution
	switch kind {
	case ByMoves:
		sol = e.BestMoves
	case ByPushes:
		sol = e.BestPushes
	}
	if sol == nil {
		return action.Actions{}, false
	}

	acts, err := action.ParseLURD(sol.LURD)
	if err != nil {
		return action.Actions{}, false
	}
	return acts, true
}

// Save writes the store back to its file path as indented JSON.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("store: creating %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshaling: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("store: writing %s: %w", s.path, err)
	}
	return nil
}
