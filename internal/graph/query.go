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
	"context"

	"github.com/botobag/artemis/graphql"

	"github.com/plexusapp/plexus/internal/model"
)

// queryType defines the root query type: a list-all and a get-by-id field
// per entity. Singular lookups return null on a miss.
func (types *schemaTypes) queryType() *graphql.ObjectConfig {
	store := types.store

	return &graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"memberTypes": {
				Type: graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.memberType))),
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					return store.MemberTypes(ctx)
				}),
			},
			"memberType": {
				Type: types.memberType,
				Args: graphql.ArgumentConfigMap{
					"id": {Type: graphql.NonNullOf(types.memberTypeID)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					return orNull(store.MemberType(ctx, model.MemberTypeID(id)))
				}),
			},

			"users": {
				Type: graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.user))),
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					return store.Users(ctx)
				}),
			},
			"user": {
				Type: types.user,
				Args: graphql.ArgumentConfigMap{
					"id": {Type: graphql.NonNullOf(types.uuid)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					return orNull(store.User(ctx, id))
				}),
			},

			"posts": {
				Type: graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.post))),
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					return store.Posts(ctx)
				}),
			},
			"post": {
				Type: types.post,
				Args: graphql.ArgumentConfigMap{
					"id": {Type: graphql.NonNullOf(types.uuid)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					return orNull(store.Post(ctx, id))
				}),
			},

			"profiles": {
				Type: graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.profile))),
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					return store.Profiles(ctx)
				}),
			},
			"profile": {
				Type: types.profile,
				Args: graphql.ArgumentConfigMap{
					"id": {Type: graphql.NonNullOf(types.uuid)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					return orNull(store.Profile(ctx, id))
				}),
			},
		},
	}
}
