// Package formats provides the level file parsers.
package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Order       int    `yaml:"order,omitempty"`
	Map         string `yaml:"map"`
}

// Level is a parsed level file. Lines holds the raw map rows; the engine
// validates them.
type Level struct {
	ID          string
	Name        string
	Description string
	Order       int
	Lines       []string
}

// ErrNoMap is returned for a level file without map rows.
var ErrNoMap = errors.New("level has no map")

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, errors.New("level has no id")
	}

	lines := splitLines(yl.Map)
	if len(lines) == 0 {
		return Level{}, fmt.Errorf("%s: %w", yl.ID, ErrNoMap)
	}

	name := yl.Name
	if name == "" {
		name = yl.ID
	}
	return Level{
		ID:          yl.ID,
		Name:        name,
		Description: yl.Description,
		Order:       yl.Order,
		Lines:       lines,
	}, nil
}

// ParseText parses a bare map file. The level is named after the file.
func ParseText(path string, data []byte) (Level, error) {
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	lines := splitLines(string(data))
	if len(lines) == 0 {
		return Level{}, fmt.Errorf("%s: %w", id, ErrNoMap)
	}
	return Level{ID: id, Name: id, Lines: lines}, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".txt", ".map"}
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimRight(s, "\n ")
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
