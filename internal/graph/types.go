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
	"errors"

	"github.com/botobag/artemis/graphql"

	"github.com/plexusapp/plexus/internal/model"
	"github.com/plexusapp/plexus/internal/storage"
)

// schemaTypes holds the type definitions of one schema build. Definitions are
// plain configs; sharing the config pointer between fields is what lets the
// type system resolve the self-referential User type and the cross references
// between Query and Mutation to one created type.
type schemaTypes struct {
	store storage.Store

	uuid         *graphql.ScalarConfig
	memberTypeID *graphql.EnumConfig
	memberType   *graphql.ObjectConfig
	post         *graphql.ObjectConfig
	profile      *graphql.ObjectConfig
	user         *graphql.ObjectConfig
}

// orNull maps a missed lookup to a null field result. Absence is data, not a
// fault; any other storage failure is a field error.
func orNull(record interface{}, err error) (interface{}, error) {
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

func newSchemaTypes(store storage.Store) *schemaTypes {
	types := &schemaTypes{store: store}

	types.uuid = newUUIDType()

	types.memberTypeID = &graphql.EnumConfig{
		Name: "MemberTypeId",
		Values: graphql.EnumValueDefinitionMap{
			"BASIC":    graphql.EnumValueDefinition{Value: "BASIC"},
			"BUSINESS": graphql.EnumValueDefinition{Value: "BUSINESS"},
		},
	}

	types.memberType = &graphql.ObjectConfig{
		Name: "MemberType",
		Fields: graphql.Fields{
			"id":                 {Type: graphql.NonNullOf(types.memberTypeID)},
			"discount":           {Type: graphql.NonNullOfType(graphql.Float())},
			"postsLimitPerMonth": {Type: graphql.NonNullOfType(graphql.Int())},
		},
	}

	types.post = &graphql.ObjectConfig{
		Name: "Post",
		Fields: graphql.Fields{
			"id":      {Type: graphql.NonNullOf(types.uuid)},
			"title":   {Type: graphql.NonNullOfType(graphql.String())},
			"content": {Type: graphql.NonNullOfType(graphql.String())},
		},
	}

	types.profile = &graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"id":          {Type: graphql.NonNullOf(types.uuid)},
			"isMale":      {Type: graphql.NonNullOfType(graphql.Boolean())},
			"yearOfBirth": {Type: graphql.NonNullOfType(graphql.Int())},
			"memberType": {
				Type: graphql.NonNullOf(types.memberType),
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					profile := source.(model.Profile)
					return orNull(store.MemberType(ctx, profile.MemberTypeID))
				}),
			},
		},
	}

	// User references itself through the follow edges. The config is
	// allocated first and its field set attached afterwards so the fields can
	// name the config being defined.
	types.user = &graphql.ObjectConfig{Name: "User"}
	types.user.Fields = graphql.Fields{
		"id":      {Type: graphql.NonNullOf(types.uuid)},
		"name":    {Type: graphql.NonNullOfType(graphql.String())},
		"balance": {Type: graphql.NonNullOfType(graphql.Float())},
		"profile": {
			Type: types.profile,
			Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
				user := source.(model.User)
				return orNull(store.ProfileByUser(ctx, user.ID))
			}),
		},
		"posts": {
			Type: graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.post))),
			Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
				user := source.(model.User)
				return store.PostsByAuthor(ctx, user.ID)
			}),
		},
		"userSubscribedTo": {
			Description: "Users this user follows.",
			Type:        graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.user))),
			Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
				user := source.(model.User)
				authorIDs, err := store.Following(ctx, user.ID)
				if err != nil {
					return nil, err
				}
				return types.resolveUsers(ctx, authorIDs)
			}),
		},
		"subscribedToUser": {
			Description: "Users following this user.",
			Type:        graphql.NonNullOf(graphql.ListOf(graphql.NonNullOf(types.user))),
			Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
				user := source.(model.User)
				subscriberIDs, err := store.Followers(ctx, user.ID)
				if err != nil {
					return nil, err
				}
				return types.resolveUsers(ctx, subscriberIDs)
			}),
		},
	}

	return types
}

// resolveUsers loads one user per id. A dangling edge yields a null list item
// which the non-null item type turns into a field error.
func (types *schemaTypes) resolveUsers(ctx context.Context, ids []string) ([]interface{}, error) {
	users := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		user, err := types.store.User(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			users = append(users, nil)
			continue
		}
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
