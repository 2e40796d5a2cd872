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

package graph_test

import (
	"context"
	"fmt"

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/executor"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plexusapp/plexus/internal/graph"
	"github.com/plexusapp/plexus/internal/storage"
)

var _ = Describe("UUID scalar", func() {
	var (
		ctx    context.Context
		store  *storage.BadgerStore
		schema graphql.Schema
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		store, err = storage.Open(storage.Options{InMemory: true})
		Expect(err).ShouldNot(HaveOccurred())

		schema, err = graph.NewSchema(store)
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).Should(Succeed())
	})

	execute := func(query string, variables map[string]interface{}) executor.ExecutionResult {
		return graph.Execute(ctx, graph.Request{
			Schema:    schema,
			Query:     query,
			Variables: variables,
		})
	}

	It("accepts a well-formed id given as an argument literal", func() {
		result := execute(`{ user(id: "4b22d062-9e68-4c7c-b47a-3dbfd0e9cd7e") { id } }`, nil)
		Expect(result).Should(MatchResultInJSON(`{"data": {"user": null}}`))
	})

	It("accepts upper-case hex digits without normalizing them", func() {
		result := execute(`{ user(id: "4B22D062-9E68-4C7C-B47A-3DBFD0E9CD7E") { id } }`, nil)
		Expect(result).Should(MatchResultInJSON(`{"data": {"user": null}}`))
	})

	It("rejects malformed argument literals", func() {
		malformed := []string{
			// wrong grouping
			"4b22d0629e68-4c7c-b47a-3dbfd0e9cd7e",
			// wrong length
			"4b22d062-9e68-4c7c-b47a-3dbfd0e9cd7",
			// non-hex characters
			"4b22d062-9e68-4c7c-b47a-3dbfd0e9cdzz",
			"not-a-uuid",
		}
		for _, literal := range malformed {
			env := decodeResult(execute(fmt.Sprintf(`{ user(id: %q) { id } }`, literal), nil))
			Expect(env.Errors).ShouldNot(BeEmpty(), "literal %q", literal)
			Expect(env.Data).Should(BeNil(), "literal %q", literal)
		}
	})

	It("rejects a non-string argument literal", func() {
		env := decodeResult(execute(`{ user(id: 42) { id } }`, nil))
		Expect(env.Errors).ShouldNot(BeEmpty())
		Expect(env.Data).Should(BeNil())
	})

	It("rejects a malformed id given through a variable", func() {
		env := decodeResult(execute(`query($id: UUID!) { user(id: $id) { id } }`,
			map[string]interface{}{"id": "not-a-uuid"}))
		Expect(env.Errors).ShouldNot(BeEmpty())
	})

	It("rejects a non-string value given through a variable", func() {
		env := decodeResult(execute(`query($id: UUID!) { user(id: $id) { id } }`,
			map[string]interface{}{"id": 42}))
		Expect(env.Errors).ShouldNot(BeEmpty())
	})

	It("serializes generated ids in canonical form and round-trips them", func() {
		env := decodeResult(execute(
			`mutation { createUser(dto: {name: "alice", balance: 1}) { id } }`, nil))
		Expect(env.Errors).Should(BeEmpty())

		id := env.Data["createUser"].(map[string]interface{})["id"].(string)
		Expect(id).Should(MatchRegexp(
			`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`))

		result := execute(fmt.Sprintf(`{ user(id: %q) { id } }`, id), nil)
		Expect(result).Should(MatchResultInJSON(fmt.Sprintf(`{"data": {"user": {"id": %q}}}`, id)))
	})
})
