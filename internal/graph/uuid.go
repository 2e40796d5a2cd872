/**
 * Copyright (c) 2024, The Plexus Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package graph

import (
	"regexp"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
)

// uuidPattern matches the canonical 8-4-4-4-12 hexadecimal grouping,
// case-insensitive. Values are passed through verbatim; no normalization such
// as lower-casing is performed.
var uuidPattern = regexp.MustCompile(
	`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// coerceUUID applies the format contract shared by all three coercion paths:
// result serialization, variable input and argument literal input.
func coerceUUID(value interface{}) (interface{}, error) {
	s, ok := value.(string)
	if !ok || !uuidPattern.MatchString(s) {
		return nil, graphql.NewError("Invalid UUID format", graphql.ErrKindCoercion)
	}
	return s, nil
}

// newUUIDType defines the UUID scalar. A fresh definition is created per
// schema build.
func newUUIDType() *graphql.ScalarConfig {
	return &graphql.ScalarConfig{
		Name:          "UUID",
		Description:   "A custom scalar type representing a UUID.",
		ResultCoercer: graphql.ScalarResultCoercerFunc(coerceUUID),
		InputCoercer: graphql.ScalarInputCoercerFuncs{
			CoerceVariableValueFunc: coerceUUID,
			CoerceLiteralValueFunc: func(value ast.Value) (interface{}, error) {
				if value, ok := value.(ast.StringValue); ok {
					return coerceUUID(value.Value())
				}
				return nil, graphql.NewError("Invalid UUID format", graphql.ErrKindCoercion)
			},
		},
	}
}
