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

// Package graph assembles the GraphQL schema over a storage.Store and runs
// requests against it: parse, validate (standard rules plus the depth
// limit), then execute. Validation always completes before any resolver
// runs.
package graph

import (
	"context"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/executor"
	"github.com/botobag/artemis/graphql/parser"
	"github.com/botobag/artemis/graphql/token"
	"github.com/botobag/artemis/graphql/validator"

	// Load the standard validation rules.
	_ "github.com/botobag/artemis/graphql/validator/rules"

	"github.com/plexusapp/plexus/internal/storage"
)

// NewSchema assembles the executable schema over store. The store handle is
// captured by the resolver closures; no other state is shared across
// requests.
func NewSchema(store storage.Store) (graphql.Schema, error) {
	types := newSchemaTypes(store)

	query, err := graphql.NewObject(types.queryType())
	if err != nil {
		return nil, err
	}
	mutation, err := graphql.NewObject(types.mutationType())
	if err != nil {
		return nil, err
	}

	return graphql.NewSchema(&graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

// Request is one GraphQL request against a schema.
type Request struct {
	Schema        graphql.Schema
	Query         string
	OperationName string
	Variables     map[string]interface{}
}

// Execute runs request to completion and returns the response envelope. On a
// syntax or validation failure, including a depth violation, the result
// carries only errors and execution is skipped entirely.
func Execute(ctx context.Context, request Request) executor.ExecutionResult {
	document, err := parser.Parse(token.NewSourceFromBytes([]byte(request.Query)))
	if err != nil {
		errs := graphql.NoErrors()
		if e, ok := err.(*graphql.Error); ok {
			errs.Append(e)
		} else {
			errs.Emplace(err.Error(), graphql.ErrKindSyntax)
		}
		return executor.ExecutionResult{Errors: errs}
	}

	errs := validator.Validate(request.Schema, document)
	errs.AppendErrors(CheckDepth(document, MaxDepth))
	if errs.HaveOccurred() {
		return executor.ExecutionResult{Errors: errs}
	}

	operation, errs := executor.Prepare(request.Schema, document,
		executor.OperationName(request.OperationName))
	if errs.HaveOccurred() {
		return executor.ExecutionResult{Errors: errs}
	}

	result := operation.Execute(ctx, executor.VariableValues(request.Variables))
	return *result
}
