// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
)

// CompileSchema compiles an embedded schema and returns its root definition.
// A failure here is a programming error in the embedded schema, not a user error.
func CompileSchema(ctx *cue.Context, src, definition string) (cue.Value, error) {
	schema := ctx.CompileString(src)
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema has no %s definition: %w", definition, err)
	}
	return def, nil
}

// Unify unifies data with the schema definition and validates the result.
// concrete requires every field to have a concrete value.
func Unify(def, data cue.Value, concrete bool, filePath string) (cue.Value, error) {
	unified := def.Unify(data)
	if err := unified.Validate(cue.Concrete(concrete)); err != nil {
		return cue.Value{}, FormatError(err, filePath)
	}
	return unified, nil
}
