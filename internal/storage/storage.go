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

// Package storage provides the data-access layer behind the GraphQL
// resolvers. Store is a narrow interface so a batching or caching layer can
// be inserted later without touching resolver logic; the only implementation
// is backed by Badger.
package storage

import (
	"context"
	"errors"

	"github.com/plexusapp/plexus/internal/model"
)

// Sentinel errors returned by Store implementations. Callers compare with
// errors.Is; implementations may wrap these with additional context.
var (
	// ErrNotFound reports that no record matched the given key.
	ErrNotFound = errors.New("storage: record not found")

	// ErrConflict reports a uniqueness violation, such as inserting a
	// duplicate follow edge or a second profile for one user.
	ErrConflict = errors.New("storage: unique constraint violation")

	// ErrReferenceNotFound reports that a record referenced by a foreign key
	// does not exist, such as creating a post for an unknown author.
	ErrReferenceNotFound = errors.New("storage: referenced record not found")
)

// NewUser carries the caller-supplied attributes of a user to be created.
type NewUser struct {
	Name    string
	Balance float64
}

// NewProfile carries the caller-supplied attributes of a profile to be
// created. UserID and MemberTypeID must reference existing records.
type NewProfile struct {
	IsMale       bool
	YearOfBirth  int
	UserID       string
	MemberTypeID model.MemberTypeID
}

// NewPost carries the caller-supplied attributes of a post to be created.
// AuthorID must reference an existing user.
type NewPost struct {
	Title    string
	Content  string
	AuthorID string
}

// UserPatch is a partial update of a user. Nil fields are left untouched.
type UserPatch struct {
	Name    *string
	Balance *float64
}

// ProfilePatch is a partial update of a profile. Nil fields are left
// untouched. UserID is deliberately absent: a profile cannot be reassigned to
// another user.
type ProfilePatch struct {
	IsMale       *bool
	YearOfBirth  *int
	MemberTypeID *model.MemberTypeID
}

// PostPatch is a partial update of a post. Nil fields are left untouched.
// AuthorID is deliberately absent: a post cannot change its author.
type PostPatch struct {
	Title   *string
	Content *string
}

// Store is the data-access capability consumed by the resolver graph. Every
// singular lookup returns ErrNotFound when no record matches rather than a
// nil record; list operations return empty slices, never nil errors for
// emptiness.
type Store interface {
	// Users returns all users.
	Users(ctx context.Context) ([]model.User, error)
	// User returns the user with the given id.
	User(ctx context.Context, id string) (model.User, error)
	// CreateUser inserts a user with a freshly generated id.
	CreateUser(ctx context.Context, data NewUser) (model.User, error)
	// UpdateUser applies patch to the user with the given id and returns the
	// updated record.
	UpdateUser(ctx context.Context, id string, patch UserPatch) (model.User, error)
	// DeleteUser removes the user with the given id.
	DeleteUser(ctx context.Context, id string) error

	// Posts returns all posts.
	Posts(ctx context.Context) ([]model.Post, error)
	// Post returns the post with the given id.
	Post(ctx context.Context, id string) (model.Post, error)
	// PostsByAuthor returns all posts owned by the given user.
	PostsByAuthor(ctx context.Context, authorID string) ([]model.Post, error)
	// CreatePost inserts a post with a freshly generated id. The author must
	// exist.
	CreatePost(ctx context.Context, data NewPost) (model.Post, error)
	// UpdatePost applies patch to the post with the given id and returns the
	// updated record.
	UpdatePost(ctx context.Context, id string, patch PostPatch) (model.Post, error)
	// DeletePost removes the post with the given id.
	DeletePost(ctx context.Context, id string) error

	// Profiles returns all profiles.
	Profiles(ctx context.Context) ([]model.Profile, error)
	// Profile returns the profile with the given id.
	Profile(ctx context.Context, id string) (model.Profile, error)
	// ProfileByUser returns the profile owned by the given user.
	ProfileByUser(ctx context.Context, userID string) (model.Profile, error)
	// CreateProfile inserts a profile with a freshly generated id. The user
	// and member type must exist and the user must not already have a
	// profile.
	CreateProfile(ctx context.Context, data NewProfile) (model.Profile, error)
	// UpdateProfile applies patch to the profile with the given id and
	// returns the updated record.
	UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (model.Profile, error)
	// DeleteProfile removes the profile with the given id.
	DeleteProfile(ctx context.Context, id string) error

	// MemberTypes returns all membership tiers.
	MemberTypes(ctx context.Context) ([]model.MemberType, error)
	// MemberType returns the tier with the given id.
	MemberType(ctx context.Context, id model.MemberTypeID) (model.MemberType, error)

	// Subscribe inserts the follow edge (subscriberID, authorID). Both users
	// must exist; a duplicate edge returns ErrConflict.
	Subscribe(ctx context.Context, subscriberID, authorID string) error
	// Unsubscribe removes the follow edge (subscriberID, authorID).
	Unsubscribe(ctx context.Context, subscriberID, authorID string) error
	// Following returns the author ids of all users the given user follows.
	Following(ctx context.Context, subscriberID string) ([]string, error)
	// Followers returns the subscriber ids of all users following the given
	// user.
	Followers(ctx context.Context, authorID string) ([]string, error)

	// Close releases the resources held by the store.
	Close() error
}
