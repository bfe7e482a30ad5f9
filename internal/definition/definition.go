// Package definition loads the declarative Epic -> Feature -> Item hierarchy
// that drives provisioning and title-based teardown.
package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	boarderrors "boardkit.dev/boardkit/internal/errors"
)

// Hierarchy is the parsed definition: an ordered list of epics.
// It is read-only once loaded.
type Hierarchy struct {
	Epics []Epic `yaml:"epics"`
}

// Epic is a top-level node
type Epic struct {
	Title    string    `yaml:"title"`
	Features []Feature `yaml:"features,omitempty"`
}

// Feature is a child of an Epic
type Feature struct {
	Title string `yaml:"title"`
	Items []Item `yaml:"items,omitempty"`
}

// Item is a Product Backlog Item, the leaf level
type Item struct {
	Title string `yaml:"title"`
}

// document mirrors Hierarchy but keeps a pointer so a missing epics key can be detected
type document struct {
	Epics *[]Epic `yaml:"epics"`
}

// Load reads and validates the definition at path.
// A missing file yields ErrDefinitionNotFound; malformed content yields ErrDefinitionParse.
func Load(path string) (Hierarchy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Hierarchy{}, boarderrors.NewDefinitionNotFoundError(path, err)
		}
		return Hierarchy{}, fmt.Errorf("failed to read definition %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes and validates a definition. source is used in error messages.
func Parse(data []byte, source string) (Hierarchy, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Hierarchy{}, boarderrors.NewDefinitionParseError(source, errors.New("document is empty"))
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Hierarchy{}, boarderrors.NewDefinitionParseError(source, err)
	}
	if doc.Epics == nil {
		return Hierarchy{}, boarderrors.NewDefinitionParseError(source, errors.New("missing top-level 'epics' key"))
	}

	h := Hierarchy{Epics: *doc.Epics}
	if err := h.Validate(); err != nil {
		return Hierarchy{}, boarderrors.NewDefinitionParseError(source, err)
	}
	return h, nil
}

// Validate checks that every node carries a non-empty title
func (h Hierarchy) Validate() error {
	for i, epic := range h.Epics {
		if strings.TrimSpace(epic.Title) == "" {
			return fmt.Errorf("epics[%d]: title is required", i)
		}
		for j, feature := range epic.Features {
			if strings.TrimSpace(feature.Title) == "" {
				return fmt.Errorf("epics[%d].features[%d]: title is required", i, j)
			}
			for k, item := range feature.Items {
				if strings.TrimSpace(item.Title) == "" {
					return fmt.Errorf("epics[%d].features[%d].items[%d]: title is required", i, j, k)
				}
			}
		}
	}
	return nil
}

// Counts returns the number of epics, features and items in the definition
func (h Hierarchy) Counts() (epics, features, items int) {
	epics = len(h.Epics)
	for _, epic := range h.Epics {
		features += len(epic.Features)
		for _, feature := range epic.Features {
			items += len(feature.Items)
		}
	}
	return epics, features, items
}

// Total returns the number of nodes in the definition
func (h Hierarchy) Total() int {
	e, f, i := h.Counts()
	return e + f + i
}
