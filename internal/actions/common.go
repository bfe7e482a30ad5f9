package actions

import (
	"fmt"

	"boardkit.dev/boardkit/internal/definition"
	"boardkit.dev/boardkit/internal/runtime"
)

// LoadDefinition reads and validates the definition at path, logging which file is used
func LoadDefinition(ctx *runtime.Context, path string) (definition.Hierarchy, error) {
	def, err := definition.Load(path)
	if err != nil {
		return definition.Hierarchy{}, err
	}
	epics, features, items := def.Counts()
	ctx.Splog.Debug("Loaded %s: %s, %s, %s", path,
		Count(epics, "epic"), Count(features, "feature"), Count(items, "item"))
	return def, nil
}

// Count formats n with a singular or plural noun
func Count(n int, noun string) string {
	return fmt.Sprintf("%d %s", n, Pluralize(noun, n))
}

// Pluralize appends "s" to word unless count is 1
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
