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
	"github.com/plexusapp/plexus/internal/storage"
)

// Fixed confirmation strings returned by the write operations. Delete and
// subscription mutations confirm with a string rather than the affected
// entity. Unsubscribing replies "Subscribed" as well; clients depend on the
// literal value.
const (
	msgUserDeleted    = "User deleted"
	msgPostDeleted    = "Post deleted"
	msgProfileDeleted = "Profile deleted"
	msgSubscribed     = "Subscribed"
)

// mutationType defines the root mutation type: create, change and delete per
// entity plus the follow edge edits. Change mutations are partial; only the
// fields present in dto are written.
func (types *schemaTypes) mutationType() *graphql.ObjectConfig {
	store := types.store

	createUserInput := &graphql.InputObjectConfig{
		Name: "CreateUserInput",
		Fields: graphql.InputFields{
			"name":    {Type: graphql.NonNullOfType(graphql.String())},
			"balance": {Type: graphql.NonNullOfType(graphql.Float())},
		},
	}
	changeUserInput := &graphql.InputObjectConfig{
		Name: "ChangeUserInput",
		Fields: graphql.InputFields{
			"name":    {Type: graphql.T(graphql.String())},
			"balance": {Type: graphql.T(graphql.Float())},
		},
	}

	createProfileInput := &graphql.InputObjectConfig{
		Name: "CreateProfileInput",
		Fields: graphql.InputFields{
			"isMale":       {Type: graphql.NonNullOfType(graphql.Boolean())},
			"yearOfBirth":  {Type: graphql.NonNullOfType(graphql.Int())},
			"memberTypeId": {Type: graphql.NonNullOf(types.memberTypeID)},
			"userId":       {Type: graphql.NonNullOf(types.uuid)},
		},
	}
	changeProfileInput := &graphql.InputObjectConfig{
		Name: "ChangeProfileInput",
		Fields: graphql.InputFields{
			"isMale":       {Type: graphql.T(graphql.Boolean())},
			"yearOfBirth":  {Type: graphql.T(graphql.Int())},
			"memberTypeId": {Type: types.memberTypeID},
		},
	}

	createPostInput := &graphql.InputObjectConfig{
		Name: "CreatePostInput",
		Fields: graphql.InputFields{
			"title":    {Type: graphql.NonNullOfType(graphql.String())},
			"content":  {Type: graphql.NonNullOfType(graphql.String())},
			"authorId": {Type: graphql.NonNullOf(types.uuid)},
		},
	}
	changePostInput := &graphql.InputObjectConfig{
		Name: "ChangePostInput",
		Fields: graphql.InputFields{
			"title":   {Type: graphql.T(graphql.String())},
			"content": {Type: graphql.T(graphql.String())},
		},
	}

	uuidArg := graphql.ArgumentConfigMap{
		"id": {Type: graphql.NonNullOf(types.uuid)},
	}
	edgeArgs := graphql.ArgumentConfigMap{
		"userId":   {Type: graphql.NonNullOf(types.uuid)},
		"authorId": {Type: graphql.NonNullOf(types.uuid)},
	}

	return &graphql.ObjectConfig{
		Name: "Mutations",
		Fields: graphql.Fields{
			"createUser": {
				Type: graphql.NonNullOf(types.user),
				Args: graphql.ArgumentConfigMap{
					"dto": {Type: graphql.NonNullOf(createUserInput)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					dto := info.Args().Get("dto").(map[string]interface{})
					return store.CreateUser(ctx, storage.NewUser{
						Name:    dto["name"].(string),
						Balance: dto["balance"].(float64),
					})
				}),
			},

			// The dto argument is nullable here, unlike the other create
			// mutations. Kept for wire compatibility; a missing dto is
			// rejected at resolution time instead.
			"createProfile": {
				Type: graphql.NonNullOf(types.profile),
				Args: graphql.ArgumentConfigMap{
					"dto": {Type: createProfileInput},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					dto, ok := info.Args().Get("dto").(map[string]interface{})
					if !ok {
						return nil, graphql.NewError("dto is required")
					}
					return store.CreateProfile(ctx, storage.NewProfile{
						IsMale:       dto["isMale"].(bool),
						YearOfBirth:  dto["yearOfBirth"].(int),
						UserID:       dto["userId"].(string),
						MemberTypeID: model.MemberTypeID(dto["memberTypeId"].(string)),
					})
				}),
			},

			"createPost": {
				Type: graphql.NonNullOf(types.post),
				Args: graphql.ArgumentConfigMap{
					"dto": {Type: graphql.NonNullOf(createPostInput)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					dto := info.Args().Get("dto").(map[string]interface{})
					return store.CreatePost(ctx, storage.NewPost{
						Title:    dto["title"].(string),
						Content:  dto["content"].(string),
						AuthorID: dto["authorId"].(string),
					})
				}),
			},

			"changeUser": {
				Type: graphql.NonNullOf(types.user),
				Args: graphql.ArgumentConfigMap{
					"id":  {Type: graphql.NonNullOf(types.uuid)},
					"dto": {Type: graphql.NonNullOf(changeUserInput)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					dto := info.Args().Get("dto").(map[string]interface{})

					var patch storage.UserPatch
					if name, ok := dto["name"].(string); ok {
						patch.Name = &name
					}
					if balance, ok := dto["balance"].(float64); ok {
						patch.Balance = &balance
					}
					return store.UpdateUser(ctx, id, patch)
				}),
			},

			"changeProfile": {
				Type: graphql.NonNullOf(types.profile),
				Args: graphql.ArgumentConfigMap{
					"id":  {Type: graphql.NonNullOf(types.uuid)},
					"dto": {Type: graphql.NonNullOf(changeProfileInput)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					dto := info.Args().Get("dto").(map[string]interface{})

					var patch storage.ProfilePatch
					if isMale, ok := dto["isMale"].(bool); ok {
						patch.IsMale = &isMale
					}
					if yearOfBirth, ok := dto["yearOfBirth"].(int); ok {
						patch.YearOfBirth = &yearOfBirth
					}
					if memberTypeID, ok := dto["memberTypeId"].(string); ok {
						id := model.MemberTypeID(memberTypeID)
						patch.MemberTypeID = &id
					}
					return store.UpdateProfile(ctx, id, patch)
				}),
			},

			"changePost": {
				Type: graphql.NonNullOf(types.post),
				Args: graphql.ArgumentConfigMap{
					"id":  {Type: graphql.NonNullOf(types.uuid)},
					"dto": {Type: graphql.NonNullOf(changePostInput)},
				},
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					id := info.Args().Get("id").(string)
					dto := info.Args().Get("dto").(map[string]interface{})

					var patch storage.PostPatch
					if title, ok := dto["title"].(string); ok {
						patch.Title = &title
					}
					if content, ok := dto["content"].(string); ok {
						patch.Content = &content
					}
					return store.UpdatePost(ctx, id, patch)
				}),
			},

			"deleteUser": {
				Type: graphql.NonNullOfType(graphql.String()),
				Args: uuidArg,
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					if err := store.DeleteUser(ctx, info.Args().Get("id").(string)); err != nil {
						return nil, err
					}
					return msgUserDeleted, nil
				}),
			},

			"deletePost": {
				Type: graphql.NonNullOfType(graphql.String()),
				Args: uuidArg,
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					if err := store.DeletePost(ctx, info.Args().Get("id").(string)); err != nil {
						return nil, err
					}
					return msgPostDeleted, nil
				}),
			},

			"deleteProfile": {
				Type: graphql.NonNullOfType(graphql.String()),
				Args: uuidArg,
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					if err := store.DeleteProfile(ctx, info.Args().Get("id").(string)); err != nil {
						return nil, err
					}
					return msgProfileDeleted, nil
				}),
			},

			"subscribeTo": {
				Type: graphql.NonNullOfType(graphql.String()),
				Args: edgeArgs,
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					userID := info.Args().Get("userId").(string)
					authorID := info.Args().Get("authorId").(string)
					if err := store.Subscribe(ctx, userID, authorID); err != nil {
						return nil, err
					}
					return msgSubscribed, nil
				}),
			},

			"unsubscribeFrom": {
				Type: graphql.NonNullOfType(graphql.String()),
				Args: edgeArgs,
				Resolver: graphql.FieldResolverFunc(func(ctx context.Context, source interface{}, info graphql.ResolveInfo) (interface{}, error) {
					userID := info.Args().Get("userId").(string)
					authorID := info.Args().Get("authorId").(string)
					if err := store.Unsubscribe(ctx, userID, authorID); err != nil {
						return nil, err
					}
					return msgSubscribed, nil
				}),
			},
		},
	}
}
