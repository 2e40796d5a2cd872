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

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/plexusapp/plexus/internal/server"
	"github.com/plexusapp/plexus/internal/storage"
)

var _ = Describe("Handler", func() {
	var (
		store   *storage.BadgerStore
		handler *server.Handler
	)

	BeforeEach(func() {
		var err error
		store, err = storage.Open(storage.Options{InMemory: true})
		Expect(err).ShouldNot(HaveOccurred())

		handler, err = server.NewHandler(store, nil)
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(store.Close()).Should(Succeed())
	})

	post := func(body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	postGraphQL := func(query string, variables map[string]interface{}) *httptest.ResponseRecorder {
		body, err := json.Marshal(map[string]interface{}{
			"query":     query,
			"variables": variables,
		})
		Expect(err).ShouldNot(HaveOccurred())
		return post(string(body))
	}

	It("serves a query with status 200", func() {
		recorder := postGraphQL(`{ users { id } }`, nil)

		Expect(recorder.Code).Should(Equal(http.StatusOK))
		Expect(recorder.Header().Get("Content-Type")).Should(HavePrefix("application/json"))
		Expect(recorder.Body.String()).Should(MatchJSON(`{"data": {"users": []}}`))
	})

	It("runs a mutation and reads the result back", func() {
		recorder := postGraphQL(
			`mutation($dto: CreateUserInput!) { createUser(dto: $dto) { name balance } }`,
			map[string]interface{}{
				"dto": map[string]interface{}{"name": "alice", "balance": 10},
			})

		Expect(recorder.Code).Should(Equal(http.StatusOK))
		Expect(recorder.Body.String()).Should(MatchJSON(`{
			"data": { "createUser": {"name": "alice", "balance": 10} }
		}`))
	})

	It("keeps status 200 for GraphQL-level errors", func() {
		recorder := postGraphQL(`{ nonsense }`, nil)

		Expect(recorder.Code).Should(Equal(http.StatusOK))

		var envelope struct {
			Data   map[string]interface{}   `json:"data"`
			Errors []map[string]interface{} `json:"errors"`
		}
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).Should(Succeed())
		Expect(envelope.Errors).ShouldNot(BeEmpty())
		Expect(envelope.Data).Should(BeNil())
	})

	It("rejects a query nested past the depth limit before execution", func() {
		recorder := postGraphQL(`{
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
		}`, nil)

		Expect(recorder.Code).Should(Equal(http.StatusOK))

		var envelope struct {
			Data   map[string]interface{}   `json:"data"`
			Errors []map[string]interface{} `json:"errors"`
		}
		Expect(json.Unmarshal(recorder.Body.Bytes(), &envelope)).Should(Succeed())
		Expect(envelope.Errors).ShouldNot(BeEmpty())
		Expect(envelope.Data).Should(BeNil())
	})

	It("rejects a malformed body with status 400", func() {
		recorder := post(`{"query": `)
		Expect(recorder.Code).Should(Equal(http.StatusBadRequest))
	})

	It("rejects non-POST methods with status 405", func() {
		request := httptest.NewRequest(http.MethodGet, "/graphql", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		Expect(recorder.Code).Should(Equal(http.StatusMethodNotAllowed))
		Expect(recorder.Header().Get("Allow")).Should(Equal(http.MethodPost))
	})
})
