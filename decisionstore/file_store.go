// Package decisionstore provides file-based persistence for evaluated capability outcomes.
package decisionstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"
)

// Decisions maps capability names to their evaluated answer.
type Decisions map[string]bool

// Record stores the answer for name.
func (d Decisions) Record(name string, allowed bool) {
	d[name] = allowed
}

// Names returns the recorded names in sorted order.
func (d Decisions) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// decisionsFile is the on-disk layout.
type decisionsFile struct {
	Decisions []decisionEntry `yaml:"decisions"`
}

type decisionEntry struct {
	Name    string `yaml:"name"`
	Allowed bool   `yaml:"allowed"`
}

// DefaultFileName is the decisions file name inside the state directory.
const DefaultFileName = "decisions.yaml"

// DefaultPath picks the decisions file location. CAPMARK_HOME wins, then
// $XDG_STATE_HOME/capmark, then ~/.capmark.
func DefaultPath() string {
	if dir := os.Getenv("CAPMARK_HOME"); dir != "" {
		return filepath.Join(dir, DefaultFileName)
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "capmark", DefaultFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".capmark", DefaultFileName)
}

// FileStore persists Decisions as YAML.
type FileStore struct {
	path     string
	dirMode  os.FileMode
	fileMode os.FileMode
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithPath overrides DefaultPath. An empty path is ignored.
func WithPath(path string) Option {
	return func(s *FileStore) {
		if path != "" {
			s.path = path
		}
	}
}

// WithModes sets the directory and file modes used by Save.
func WithModes(dir, file os.FileMode) Option {
	return func(s *FileStore) {
		s.dirMode, s.fileMode = dir, file
	}
}

// NewFileStore creates a FileStore. Decisions are private to the user by default.
func NewFileStore(opts ...Option) *FileStore {
	s := &FileStore{
		path:     DefaultPath(),
		dirMode:  0o700,
		fileMode: 0o600,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads all recorded decisions. A missing file yields an empty set.
func (s *FileStore) Load() (Decisions, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return Decisions{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read decision store: %w", err)
	}

	var f decisionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse decision store: %w", err)
	}

	out := make(Decisions, len(f.Decisions))
	for _, e := range f.Decisions {
		out[e.Name] = e.Allowed
	}
	return out, nil
}

// Save persists decisions, replacing the file contents. Entries are written in name order.
func (s *FileStore) Save(d Decisions) error {
	f := decisionsFile{Decisions: make([]decisionEntry, 0, len(d))}
	for _, name := range d.Names() {
		f.Decisions = append(f.Decisions, decisionEntry{Name: name, Allowed: d[name]})
	}

	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal decisions: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, s.dirMode); err != nil {
		return fmt.Errorf("failed to create decision store directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, s.fileMode); err != nil {
		return fmt.Errorf("failed to write decision store: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the backing store.
func (s *FileStore) ConfigPath() string {
	return s.path
}
