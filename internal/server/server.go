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

// Package server exposes the GraphQL endpoint over HTTP. The transport is a
// single POST route; GraphQL-level failures are reported in the response
// envelope with status 200.
package server

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/botobag/artemis/graphql"
	jsoniter "github.com/json-iterator/go"

	"github.com/plexusapp/plexus/internal/graph"
	"github.com/plexusapp/plexus/internal/storage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxBodySize caps the request body read when parsing a GraphQL request.
const maxBodySize = 10 * 1024 * 1024

// request is the JSON body of a GraphQL POST request.
type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves GraphQL requests against one schema.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

var _ http.Handler = (*Handler)(nil)

// NewHandler assembles the schema over store and returns a handler serving
// it. logger may be nil to disable request logging.
func NewHandler(store storage.Store, logger *slog.Logger) (*Handler, error) {
	schema, err := graph.NewSchema(store)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{schema: schema, logger: logger}, nil
}

// ServeHTTP implements http.Handler.
func (handler *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}

	started := time.Now()
	result := graph.Execute(r.Context(), graph.Request{
		Schema:        handler.schema,
		Query:         req.Query,
		OperationName: req.OperationName,
		Variables:     req.Variables,
	})

	handler.logger.Info("graphql request",
		"operation", req.OperationName,
		"errors", len(result.Errors.Errors),
		"duration", time.Since(started))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := result.MarshalJSONTo(w); err != nil {
		handler.logger.Error("writing response", "error", err)
	}
}
