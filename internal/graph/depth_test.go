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

	"github.com/botobag/artemis/graphql"
	"github.com/botobag/artemis/graphql/ast"
	"github.com/botobag/artemis/graphql/parser"
	"github.com/botobag/artemis/graphql/token"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plexusapp/plexus/internal/graph"
	"github.com/plexusapp/plexus/internal/storage"
)

func parseDocument(query string) ast.Document {
	document, err := parser.Parse(token.NewSourceFromBytes([]byte(query)))
	Expect(err).ShouldNot(HaveOccurred())
	return document
}

var _ = Describe("CheckDepth", func() {
	It("accepts a selection nested up to the limit", func() {
		errs := graph.CheckDepth(parseDocument(`{
			users {
				userSubscribedTo {
					profile {
						memberType {
							id
						}
					}
				}
			}
		}`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeFalse())
	})

	It("rejects a selection nested past the limit", func() {
		errs := graph.CheckDepth(parseDocument(`{
			users {
				userSubscribedTo {
					subscribedToUser {
						profile {
							memberType {
								id
							}
						}
					}
				}
			}
		}`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeTrue())
	})

	It("names the offending operation", func() {
		errs := graph.CheckDepth(parseDocument(`query Deep {
			a { b { c { d { e { f } } } } }
		}`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeTrue())
		Expect(errs.Errors[0].Message).Should(Equal(`Operation "Deep" exceeds maximum depth of 5.`))
	})

	It("reports an anonymous operation without a name", func() {
		errs := graph.CheckDepth(parseDocument(`{
			a { b { c { d { e { f } } } } }
		}`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeTrue())
		Expect(errs.Errors[0].Message).Should(Equal("Operation exceeds maximum depth of 5."))
	})

	It("counts fragment spreads at the spread point", func() {
		errs := graph.CheckDepth(parseDocument(`
			{ a { b { ...rest } } }
			fragment rest on User { c { d { e { f } } } }
		`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeTrue())
	})

	It("is transparent to inline fragments", func() {
		errs := graph.CheckDepth(parseDocument(`{
			a { ... on User { b { c { d { e } } } } }
		}`), graph.MaxDepth)
		Expect(errs.HaveOccurred()).Should(BeFalse())
	})

	It("checks every operation in the document", func() {
		errs := graph.CheckDepth(parseDocument(`
			query Shallow { a }
			query Deep { a { b { c { d { e { f } } } } } }
		`), graph.MaxDepth)
		Expect(len(errs.Errors)).Should(Equal(1))
	})
})

var _ = Describe("request guard", func() {
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

	It("returns only errors for a query nested past the limit", func() {
		result := graph.Execute(ctx, graph.Request{
			Schema: schema,
			Query: `{
				users {
					userSubscribedTo {
						subscribedToUser {
							userSubscribedTo {
								posts {
									id
								}
							}
						}
					}
				}
			}`,
		})

		env := decodeResult(result)
		Expect(env.Errors).ShouldNot(BeEmpty())
		Expect(env.Data).Should(BeNil())
	})

	It("skips a too-deeply nested mutation without applying it", func() {
		result := graph.Execute(ctx, graph.Request{
			Schema: schema,
			Query: `mutation {
				createUser(dto: {name: "alice", balance: 1}) {
					userSubscribedTo {
						subscribedToUser {
							userSubscribedTo {
								profile {
									id
								}
							}
						}
					}
				}
			}`,
		})
		Expect(decodeResult(result).Errors).ShouldNot(BeEmpty())

		users, err := store.Users(ctx)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(users).Should(BeEmpty())
	})

	It("reports unknown fields through the standard validation rules", func() {
		result := graph.Execute(ctx, graph.Request{
			Schema: schema,
			Query:  `{ nonsense }`,
		})

		env := decodeResult(result)
		Expect(env.Errors).ShouldNot(BeEmpty())
		Expect(env.Data).Should(BeNil())
	})

	It("reports a syntax error without executing", func() {
		result := graph.Execute(ctx, graph.Request{
			Schema: schema,
			Query:  `{ users `,
		})

		env := decodeResult(result)
		Expect(env.Errors).ShouldNot(BeEmpty())
		Expect(env.Data).Should(BeNil())
	})
})
