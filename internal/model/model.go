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

// Package model defines the entities exposed by the Plexus API: users, their
// optional profiles, the posts they author, the membership tiers referenced by
// profiles and the follow edges between users.
package model

// MemberTypeID identifies a membership tier. The set of tiers is fixed;
// adding one requires a schema redeploy since the tier attributes (discount,
// posts limit) are static reference data.
type MemberTypeID string

// The two membership tiers.
const (
	MemberTypeBasic    MemberTypeID = "BASIC"
	MemberTypeBusiness MemberTypeID = "BUSINESS"
)

// MemberType is a membership tier. MemberType records are read-only reference
// data seeded into the store; no API operation mutates them.
type MemberType struct {
	ID                 MemberTypeID `json:"id" graphql:"id"`
	Discount           float64      `json:"discount" graphql:"discount"`
	PostsLimitPerMonth int          `json:"postsLimitPerMonth" graphql:"postsLimitPerMonth"`
}

// User is an account holder. A user has at most one Profile, any number of
// Posts, and participates in a many-to-many self-relation through follow
// edges (users following users).
type User struct {
	ID      string  `json:"id" graphql:"id"`
	Name    string  `json:"name" graphql:"name"`
	Balance float64 `json:"balance" graphql:"balance"`
}

// Profile holds the personal details of a user. UserID is unique across
// profiles so each user has at most one, and it is immutable once the profile
// exists.
type Profile struct {
	ID           string       `json:"id" graphql:"id"`
	IsMale       bool         `json:"isMale" graphql:"isMale"`
	YearOfBirth  int          `json:"yearOfBirth" graphql:"yearOfBirth"`
	UserID       string       `json:"userId" graphql:"userId"`
	MemberTypeID MemberTypeID `json:"memberTypeId" graphql:"memberTypeId"`
}

// Post is a piece of content owned by a user via AuthorID. AuthorID is
// immutable once the post exists.
type Post struct {
	ID       string `json:"id" graphql:"id"`
	Title    string `json:"title" graphql:"title"`
	Content  string `json:"content" graphql:"content"`
	AuthorID string `json:"authorId" graphql:"authorId"`
}
