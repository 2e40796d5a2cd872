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
	"fmt"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
)

// MaxDepth is the maximum allowed nesting of selection sets in one
// operation. Documents exceeding it are rejected before execution so no
// resolver, and in particular no mutation, ever runs for them.
const MaxDepth = 5

// CheckDepth measures the selection nesting of every operation in document
// and reports an error for each one deeper than maxDepth. Fragment spreads
// contribute the depth of the named fragment's selections at the spread
// point; unknown fragments and spread cycles contribute nothing here since
// the standard validation rules already reject them.
func CheckDepth(document ast.Document, maxDepth int) graphql.Errors {
	fragments := map[string]*ast.FragmentDefinition{}
	for _, definition := range document.Definitions {
		if fragment, ok := definition.(*ast.FragmentDefinition); ok {
			fragments[fragment.Name.Value()] = fragment
		}
	}

	errs := graphql.NoErrors()
	for _, definition := range document.Definitions {
		operation, ok := definition.(*ast.OperationDefinition)
		if !ok {
			continue
		}

		depth := selectionDepth(operation.SelectionSet, fragments, map[string]bool{})
		if depth <= maxDepth {
			continue
		}

		message := fmt.Sprintf("Operation exceeds maximum depth of %d.", maxDepth)
		if name, ok := operationName(operation); ok {
			message = fmt.Sprintf("Operation %q exceeds maximum depth of %d.",
				name, maxDepth)
		}
		errs.Emplace(message,
			graphql.ErrKindValidation,
			graphql.ErrorLocationOfASTNode(operation))
	}
	return errs
}

// operationName returns the name of operation and whether one was given. An
// anonymous operation's Name node carries no token.
func operationName(operation *ast.OperationDefinition) (string, bool) {
	if operation.Name.Token == nil {
		return "", false
	}
	return operation.Name.Value(), true
}

// selectionDepth returns the nesting depth of selectionSet. A field counts
// one level plus the depth of its own selections; inline fragments and
// fragment spreads are transparent.
func selectionDepth(selectionSet ast.SelectionSet, fragments map[string]*ast.FragmentDefinition, visited map[string]bool) int {
	maxDepth := 0
	for _, selection := range selectionSet {
		var depth int
		switch selection := selection.(type) {
		case *ast.Field:
			depth = 1 + selectionDepth(selection.SelectionSet, fragments, visited)

		case *ast.InlineFragment:
			depth = selectionDepth(selection.SelectionSet, fragments, visited)

		case *ast.FragmentSpread:
			name := selection.Name.Value()
			fragment := fragments[name]
			if fragment == nil || visited[name] {
				continue
			}
			visited[name] = true
			depth = selectionDepth(fragment.SelectionSet, fragments, visited)
			delete(visited, name)
		}

		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}
