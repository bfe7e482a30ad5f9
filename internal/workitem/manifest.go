package workitem

import (
	"time"

	"github.com/google/uuid"
)

// Record is one node outcome of a provisioning run
type Record struct {
	Type  Type       `yaml:"type"`
	ID    OptionalID `yaml:"id"`
	Title string     `yaml:"title"`
}

// Manifest is the ordered list of records from the most recent provisioning run.
// Insertion order is creation order: parent before children, siblings in definition order.
type Manifest struct {
	RunID      string    `yaml:"run_id,omitempty"`
	CreatedAt  time.Time `yaml:"created_at,omitempty"`
	Definition string    `yaml:"definition,omitempty"`
	Items      []Record  `yaml:"created_items"`
}

// NewManifest starts an empty manifest for a run over the given definition path
func NewManifest(definition string) Manifest {
	return Manifest{
		RunID:      newRunID(),
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		Definition: definition,
		Items:      []Record{},
	}
}

// newRunID generates a UUID v7 run identifier.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// Append adds a record at the end of the manifest
func (m *Manifest) Append(r Record) {
	m.Items = append(m.Items, r)
}

// Len returns the number of records
func (m Manifest) Len() int {
	return len(m.Items)
}

// Empty reports whether the manifest has no records
func (m Manifest) Empty() bool {
	return len(m.Items) == 0
}

// Reversed returns the records last-created first
func (m Manifest) Reversed() []Record {
	out := make([]Record, len(m.Items))
	for i, r := range m.Items {
		out[len(m.Items)-1-i] = r
	}
	return out
}

// Counts returns how many records have a present id and how many do not
func (m Manifest) Counts() (created, failed int) {
	for _, r := range m.Items {
		if r.ID.IsSome() {
			created++
		} else {
			failed++
		}
	}
	return created, failed
}

// Clone returns a copy whose Items slice does not alias m
func (m Manifest) Clone() Manifest {
	clone := m
	clone.Items = append([]Record(nil), m.Items...)
	return clone
}
