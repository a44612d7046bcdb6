package state

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// DocState represents the recorded state of a single org document
type DocState struct {
	MTime  int64  `json:"mtime"`
	Hash   string `json:"hash"`
	GDocID string `json:"gdoc_id"`
}

// State tracks every synced document, keyed by org file path
type State struct {
	Docs map[string]*DocState `json:"docs"`
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Docs: make(map[string]*DocState),
	}
}

// Load reads state from the state file
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewState(), nil
		}
		return nil, err
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}

	if state.Docs == nil {
		state.Docs = make(map[string]*DocState)
	}

	return &state, nil
}

// Save writes state to the state file
func (s *State) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}

// ComputeHash computes SHA256 hash of a file
func ComputeHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// HasChanged checks if a document has changed since the last recorded sync.
// Uses hybrid mtime + hash approach
func (s *State) HasChanged(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	mtime := info.ModTime().Unix()

	docState, exists := s.Docs[path]
	if !exists {
		// Never synced
		return true, nil
	}

	// Fast path: check mtime first
	if mtime == docState.MTime {
		return false, nil
	}

	// mtime changed, compute hash to check for actual content changes
	hash, err := ComputeHash(path)
	if err != nil {
		return false, err
	}

	return hash != docState.Hash, nil
}

// Update records the current snapshot of a document
func (s *State) Update(path string, gdocID string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	hash, err := ComputeHash(path)
	if err != nil {
		return err
	}

	s.Docs[path] = &DocState{
		MTime:  info.ModTime().Unix(),
		Hash:   hash,
		GDocID: gdocID,
	}

	return nil
}

// GetMTime returns the recorded modification time for a document
func (s *State) GetMTime(path string) time.Time {
	if docState, exists := s.Docs[path]; exists {
		return time.Unix(docState.MTime, 0)
	}
	return time.Time{}
}
