// Package levels provides the built-in Ghost Maze maps and loading of map
// files from disk. This package depends on engine but engine does not depend
// on levels.
package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/engine"
	"github.com/vovakirdan/ghostmaze/internal/games/ghostmaze/levels/formats"
)

//go:embed maps/*.yaml
var builtinFS embed.FS

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("level not found")

// Level represents a complete level definition.
type Level struct {
	ID          string
	Name        string
	Description string
	Order       int
	Lines       []string
	FilePath    string // empty for built-in levels
}

// Layout parses the level's map.
func (l Level) Layout() (*engine.Layout, error) {
	layout, err := engine.ParseLayout(l.Lines)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", l.ID, err)
	}
	return layout, nil
}

// Builtin returns the embedded levels in play order.
func Builtin() ([]Level, error) {
	entries, err := fs.ReadDir(builtinFS, "maps")
	if err != nil {
		return nil, fmt.Errorf("reading built-in levels: %w", err)
	}

	var levels []Level
	for _, e := range entries {
		name := path.Join("maps", e.Name())
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		parsed, err := formats.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		levels = append(levels, fromParsed(parsed, ""))
	}

	sortLevels(levels)
	return levels, nil
}

// BuiltinByID returns one embedded level.
func BuiltinByID(id string) (Level, error) {
	levels, err := Builtin()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Files that fail to parse are skipped.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := filepath.WalkDir(l.Root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsLevelFile(p) {
			return nil
		}

		level, err := LoadFile(p)
		if err != nil {
			return nil
		}
		levels = append(levels, level)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sortLevels(levels)
	return levels, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// ListIDs returns all level IDs in play order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// LoadFile loads a single level file. YAML files carry metadata; any other
// supported extension is a bare map.
func LoadFile(p string) (Level, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return Level{}, fmt.Errorf("reading file %s: %w", p, err)
	}

	var parsed formats.Level
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		parsed, err = formats.ParseYAML(data)
	default:
		parsed, err = formats.ParseText(p, data)
	}
	if err != nil {
		return Level{}, fmt.Errorf("parsing file %s: %w", p, err)
	}
	return fromParsed(parsed, p), nil
}

// IsLevelFile reports whether the path has a supported level extension.
func IsLevelFile(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func fromParsed(p formats.Level, filePath string) Level {
	return Level{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Order:       p.Order,
		Lines:       p.Lines,
		FilePath:    filePath,
	}
}

func sortLevels(levels []Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Order != levels[j].Order {
			return levels[i].Order < levels[j].Order
		}
		return levels[i].ID < levels[j].ID
	})
}
