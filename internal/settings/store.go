// Package settings persists engine presets as JSON documents on disk.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/halwen/patchbay/internal/config"
	"github.com/halwen/patchbay/internal/engine"
)

// ErrPresetNotFound is returned when no stored preset matches the name.
var ErrPresetNotFound = errors.New("preset not found")

const presetExt = ".json"

// Store keeps presets under a single directory, one document per preset.
type Store struct {
	logger *zap.Logger
	dir    string
	mu     sync.Mutex
}

// NewStore creates the presets directory if needed and returns the store.
func NewStore(logger *zap.Logger, cfg *config.Config) (*Store, error) {
	dir := cfg.Storage.PresetsDir
	if dir == "" {
		dir = "presets"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create presets directory: %w", err)
	}

	return &Store{logger: logger, dir: dir}, nil
}

// Save writes the preset under its name, replacing any previous document.
// The write goes through a temp file and rename so a crash cannot leave a
// torn document behind.
func (s *Store) Save(p engine.Preset) error {
	data, err := engine.EncodePreset(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(p.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preset %q: %w", p.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write preset %q: %w", p.Name, err)
	}
	s.logger.Debug("preset saved", zap.String("name", p.Name), zap.String("path", path))

	return nil
}

// Load reads a stored preset back. The document is validated before it is
// returned, so a corrupt file cannot reach an engine.
func (s *Store) Load(name string) (engine.Preset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return engine.Preset{}, fmt.Errorf("preset %q: %w", name, ErrPresetNotFound)
	}
	if err != nil {
		return engine.Preset{}, fmt.Errorf("read preset %q: %w", name, err)
	}

	p, err := engine.DecodePreset(data)
	if err != nil {
		return engine.Preset{}, fmt.Errorf("preset %q: %w", name, err)
	}

	return p, nil
}

// List returns the stored preset names in sorted order.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), presetExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), presetExt))
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes a stored preset.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("preset %q: %w", name, ErrPresetNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete preset %q: %w", name, err)
	}

	return nil
}

// Exists reports whether a preset document is stored under the name.
func (s *Store) Exists(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path(name))

	return err == nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, sanitizeName(name)+presetExt)
}

// sanitizeName maps a preset name to a safe file stem. Path separators and
// control characters collapse to underscores; an empty result becomes
// "preset".
func sanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == filepath.Separator:
			return '_'
		case r < 0x20 || r == 0x7f:
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(name))

	if mapped == "" || mapped == "." || mapped == ".." {
		return "preset"
	}

	return mapped
}
