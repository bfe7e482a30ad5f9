// Package workitem defines the work item vocabulary shared by the engines,
// the backends and the manifest stores.
package workitem

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	boarderrors "boardkit.dev/boardkit/internal/errors"
)

// Type is one of the three hierarchical work item types.
// The zero value is not a valid type.
type Type int

const (
	// Epic is the root of the hierarchy
	Epic Type = iota + 1
	// Feature is the child of an Epic
	Feature
	// ProductBacklogItem is the child of a Feature
	ProductBacklogItem
)

// Types lists every valid type, parent before child
var Types = []Type{Epic, Feature, ProductBacklogItem}

// String returns the backend name of the type
func (t Type) String() string {
	switch t {
	case Epic:
		return "Epic"
	case Feature:
		return "Feature"
	case ProductBacklogItem:
		return "Product Backlog Item"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Label returns the short name used in log lines
func (t Type) Label() string {
	if t == ProductBacklogItem {
		return "Item"
	}
	return t.String()
}

// Valid reports whether t is one of the three known types
func (t Type) Valid() bool {
	return t >= Epic && t <= ProductBacklogItem
}

// Parent returns the type one level up, or false for Epic
func (t Type) Parent() (Type, bool) {
	switch t {
	case Feature:
		return Epic, true
	case ProductBacklogItem:
		return Feature, true
	default:
		return 0, false
	}
}

// Depth returns 0 for Epic, 1 for Feature and 2 for Product Backlog Item
func (t Type) Depth() int {
	return int(t) - 1
}

// ParseType converts a backend type name into a Type.
// Matching is exact; "Item" is accepted as shorthand for Product Backlog Item.
func ParseType(s string) (Type, error) {
	switch strings.TrimSpace(s) {
	case "Epic":
		return Epic, nil
	case "Feature":
		return Feature, nil
	case "Product Backlog Item", "Item":
		return ProductBacklogItem, nil
	default:
		return 0, fmt.Errorf("%w: %q", boarderrors.ErrUnknownWorkItemType, s)
	}
}

// MarshalYAML writes the backend name
func (t Type) MarshalYAML() (interface{}, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", boarderrors.ErrUnknownWorkItemType, int(t))
	}
	return t.String(), nil
}

// UnmarshalYAML reads a backend name
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ParseType(node.Value)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ID is an opaque backend identifier
type ID string

// OptionalID is an ID that may be absent, as it is when creation failed.
type OptionalID struct {
	id ID
	ok bool
}

// Some wraps a present id. An empty id is treated as absent.
func Some(id ID) OptionalID {
	if id == "" {
		return OptionalID{}
	}
	return OptionalID{id: id, ok: true}
}

// None returns an absent id
func None() OptionalID {
	return OptionalID{}
}

// Get returns the id and whether it is present
func (o OptionalID) Get() (ID, bool) {
	return o.id, o.ok
}

// IsSome reports whether the id is present
func (o OptionalID) IsSome() bool {
	return o.ok
}

// String returns the id or "None"
func (o OptionalID) String() string {
	if !o.ok {
		return "None"
	}
	return string(o.id)
}

// MarshalYAML writes null for an absent id
func (o OptionalID) MarshalYAML() (interface{}, error) {
	if !o.ok {
		return nil, nil
	}
	return string(o.id), nil
}

// UnmarshalYAML accepts a string or numeric scalar
func (o *OptionalID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("work item id must be a scalar, got %v at line %d", node.Tag, node.Line)
	}
	if node.ShortTag() == "!!null" {
		*o = None()
		return nil
	}
	*o = Some(ID(strings.TrimSpace(node.Value)))
	return nil
}
