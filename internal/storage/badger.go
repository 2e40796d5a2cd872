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

package storage

import (
	"bytes"
	"context"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/plexusapp/plexus/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key layout. Records are JSON values under a per-entity prefix; indexes are
// value-less keys whose payload is encoded in the key itself.
//
//	user/<id>                     user record
//	post/<id>                     post record
//	post_author/<authorID>/<id>   index of posts by owner
//	profile/<id>                  profile record
//	profile_user/<userID>         unique index, value is the profile id
//	member/<id>                   member type record
//	sub/<subscriberID>/<authorID> follow edge
//	sub_rev/<authorID>/<subscriberID> reverse index of follow edges
const (
	prefixUser        = "user/"
	prefixPost        = "post/"
	prefixPostAuthor  = "post_author/"
	prefixProfile     = "profile/"
	prefixProfileUser = "profile_user/"
	prefixMemberType  = "member/"
	prefixSub         = "sub/"
	prefixSubRev      = "sub_rev/"
)

// seedMemberTypes is the fixed reference data written on first open.
var seedMemberTypes = []model.MemberType{
	{ID: model.MemberTypeBasic, Discount: 1.5, PostsLimitPerMonth: 20},
	{ID: model.MemberTypeBusiness, Discount: 5, PostsLimitPerMonth: 100},
}

// BadgerStore implements Store on top of a Badger key-value database.
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// Options configures Open.
type Options struct {
	// Dir is the directory holding the database files. Ignored when InMemory
	// is set.
	Dir string

	// InMemory keeps all data in memory. Used by tests.
	InMemory bool
}

// Open opens the database at opts.Dir, creating it if absent, and seeds the
// member type reference data.
func Open(opts Options) (*BadgerStore, error) {
	badgerOpts := badger.DefaultOptions(opts.Dir).WithLogger(nil)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger database")
	}

	store := &BadgerStore{db: db}
	if err := store.seed(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close implements Store.
func (store *BadgerStore) Close() error {
	return errors.Wrap(store.db.Close(), "closing badger database")
}

func (store *BadgerStore) seed() error {
	err := store.db.Update(func(txn *badger.Txn) error {
		for _, memberType := range seedMemberTypes {
			key := []byte(prefixMemberType + string(memberType.ID))
			if _, err := txn.Get(key); err == nil {
				continue
			} else if err != badger.ErrKeyNotFound {
				return err
			}
			value, err := json.Marshal(&memberType)
			if err != nil {
				return err
			}
			if err := txn.Set(key, value); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "seeding member types")
}

// getJSON loads the value at key into record. Returns ErrNotFound when the
// key is absent.
func getJSON(txn *badger.Txn, key string, record interface{}) error {
	item, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	} else if err != nil {
		return errors.Wrapf(err, "reading %q", key)
	}
	return item.Value(func(value []byte) error {
		return errors.Wrapf(json.Unmarshal(value, record), "decoding %q", key)
	})
}

func setJSON(txn *badger.Txn, key string, record interface{}) error {
	value, err := json.Marshal(record)
	if err != nil {
		return errors.Wrapf(err, "encoding %q", key)
	}
	return errors.Wrapf(txn.Set([]byte(key), value), "writing %q", key)
}

func exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "reading %q", key)
	}
	return true, nil
}

// scanJSON decodes every value under prefix, appending decoded records via
// collect which receives the raw value bytes.
func scanJSON(txn *badger.Txn, prefix string, collect func(value []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		if err := it.Item().Value(collect); err != nil {
			return errors.Wrapf(err, "scanning %q", prefix)
		}
	}
	return nil
}

// scanKeySuffixes collects the trailing component of every key under prefix.
// Used for index keys which carry their payload in the key.
func scanKeySuffixes(txn *badger.Txn, prefix string) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var suffixes []string
	for it.Rewind(); it.Valid(); it.Next() {
		key := it.Item().Key()
		suffixes = append(suffixes, string(bytes.TrimPrefix(key, []byte(prefix))))
	}
	return suffixes, nil
}

//
// Users
//

// Users implements Store.
func (store *BadgerStore) Users(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := store.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, prefixUser, func(value []byte) error {
			var user model.User
			if err := json.Unmarshal(value, &user); err != nil {
				return err
			}
			users = append(users, user)
			return nil
		})
	})
	return users, err
}

// User implements Store.
func (store *BadgerStore) User(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixUser+id, &user)
	})
	return user, err
}

// CreateUser implements Store.
func (store *BadgerStore) CreateUser(ctx context.Context, data NewUser) (model.User, error) {
	user := model.User{
		ID:      uuid.NewString(),
		Name:    data.Name,
		Balance: data.Balance,
	}
	err := store.db.Update(func(txn *badger.Txn) error {
		return setJSON(txn, prefixUser+user.ID, &user)
	})
	return user, err
}

// UpdateUser implements Store.
func (store *BadgerStore) UpdateUser(ctx context.Context, id string, patch UserPatch) (model.User, error) {
	var user model.User
	err := store.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, prefixUser+id, &user); err != nil {
			return err
		}
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		if patch.Balance != nil {
			user.Balance = *patch.Balance
		}
		return setJSON(txn, prefixUser+id, &user)
	})
	return user, err
}

// DeleteUser implements Store. Posts, the profile and follow edges of the
// user are left in place; dangling references surface as field errors when
// traversed.
func (store *BadgerStore) DeleteUser(ctx context.Context, id string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		key := prefixUser + id
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		return errors.Wrapf(txn.Delete([]byte(key)), "deleting %q", key)
	})
}

//
// Posts
//

// Posts implements Store.
func (store *BadgerStore) Posts(ctx context.Context) ([]model.Post, error) {
	posts := []model.Post{}
	err := store.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, prefixPost, func(value []byte) error {
			var post model.Post
			if err := json.Unmarshal(value, &post); err != nil {
				return err
			}
			posts = append(posts, post)
			return nil
		})
	})
	return posts, err
}

// Post implements Store.
func (store *BadgerStore) Post(ctx context.Context, id string) (model.Post, error) {
	var post model.Post
	err := store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixPost+id, &post)
	})
	return post, err
}

// PostsByAuthor implements Store.
func (store *BadgerStore) PostsByAuthor(ctx context.Context, authorID string) ([]model.Post, error) {
	posts := []model.Post{}
	err := store.db.View(func(txn *badger.Txn) error {
		postIDs, err := scanKeySuffixes(txn, prefixPostAuthor+authorID+"/")
		if err != nil {
			return err
		}
		for _, postID := range postIDs {
			var post model.Post
			if err := getJSON(txn, prefixPost+postID, &post); err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return nil
	})
	return posts, err
}

// CreatePost implements Store.
func (store *BadgerStore) CreatePost(ctx context.Context, data NewPost) (model.Post, error) {
	post := model.Post{
		ID:       uuid.NewString(),
		Title:    data.Title,
		Content:  data.Content,
		AuthorID: data.AuthorID,
	}
	err := store.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, prefixUser+data.AuthorID)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrap(ErrReferenceNotFound, "author")
		}
		if err := setJSON(txn, prefixPost+post.ID, &post); err != nil {
			return err
		}
		indexKey := prefixPostAuthor + post.AuthorID + "/" + post.ID
		return errors.Wrapf(txn.Set([]byte(indexKey), nil), "writing %q", indexKey)
	})
	return post, err
}

// UpdatePost implements Store.
func (store *BadgerStore) UpdatePost(ctx context.Context, id string, patch PostPatch) (model.Post, error) {
	var post model.Post
	err := store.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, prefixPost+id, &post); err != nil {
			return err
		}
		if patch.Title != nil {
			post.Title = *patch.Title
		}
		if patch.Content != nil {
			post.Content = *patch.Content
		}
		return setJSON(txn, prefixPost+id, &post)
	})
	return post, err
}

// DeletePost implements Store.
func (store *BadgerStore) DeletePost(ctx context.Context, id string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		var post model.Post
		if err := getJSON(txn, prefixPost+id, &post); err != nil {
			return err
		}
		if err := txn.Delete([]byte(prefixPost + id)); err != nil {
			return errors.Wrapf(err, "deleting post %q", id)
		}
		indexKey := prefixPostAuthor + post.AuthorID + "/" + id
		return errors.Wrapf(txn.Delete([]byte(indexKey)), "deleting %q", indexKey)
	})
}

//
// Profiles
//

// Profiles implements Store.
func (store *BadgerStore) Profiles(ctx context.Context) ([]model.Profile, error) {
	profiles := []model.Profile{}
	err := store.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, prefixProfile, func(value []byte) error {
			var profile model.Profile
			if err := json.Unmarshal(value, &profile); err != nil {
				return err
			}
			profiles = append(profiles, profile)
			return nil
		})
	})
	return profiles, err
}

// Profile implements Store.
func (store *BadgerStore) Profile(ctx context.Context, id string) (model.Profile, error) {
	var profile model.Profile
	err := store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixProfile+id, &profile)
	})
	return profile, err
}

// ProfileByUser implements Store.
func (store *BadgerStore) ProfileByUser(ctx context.Context, userID string) (model.Profile, error) {
	var profile model.Profile
	err := store.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixProfileUser + userID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return errors.Wrapf(err, "reading profile index for user %q", userID)
		}
		var profileID string
		if err := item.Value(func(value []byte) error {
			profileID = string(value)
			return nil
		}); err != nil {
			return err
		}
		return getJSON(txn, prefixProfile+profileID, &profile)
	})
	return profile, err
}

// CreateProfile implements Store.
func (store *BadgerStore) CreateProfile(ctx context.Context, data NewProfile) (model.Profile, error) {
	profile := model.Profile{
		ID:           uuid.NewString(),
		IsMale:       data.IsMale,
		YearOfBirth:  data.YearOfBirth,
		UserID:       data.UserID,
		MemberTypeID: data.MemberTypeID,
	}
	err := store.db.Update(func(txn *badger.Txn) error {
		found, err := exists(txn, prefixUser+data.UserID)
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrap(ErrReferenceNotFound, "user")
		}
		found, err = exists(txn, prefixMemberType+string(data.MemberTypeID))
		if err != nil {
			return err
		}
		if !found {
			return errors.Wrap(ErrReferenceNotFound, "member type")
		}

		indexKey := prefixProfileUser + data.UserID
		found, err = exists(txn, indexKey)
		if err != nil {
			return err
		}
		if found {
			return errors.Wrap(ErrConflict, "user already has a profile")
		}

		if err := setJSON(txn, prefixProfile+profile.ID, &profile); err != nil {
			return err
		}
		return errors.Wrapf(txn.Set([]byte(indexKey), []byte(profile.ID)), "writing %q", indexKey)
	})
	return profile, err
}

// UpdateProfile implements Store.
func (store *BadgerStore) UpdateProfile(ctx context.Context, id string, patch ProfilePatch) (model.Profile, error) {
	var profile model.Profile
	err := store.db.Update(func(txn *badger.Txn) error {
		if err := getJSON(txn, prefixProfile+id, &profile); err != nil {
			return err
		}
		if patch.IsMale != nil {
			profile.IsMale = *patch.IsMale
		}
		if patch.YearOfBirth != nil {
			profile.YearOfBirth = *patch.YearOfBirth
		}
		if patch.MemberTypeID != nil {
			found, err := exists(txn, prefixMemberType+string(*patch.MemberTypeID))
			if err != nil {
				return err
			}
			if !found {
				return errors.Wrap(ErrReferenceNotFound, "member type")
			}
			profile.MemberTypeID = *patch.MemberTypeID
		}
		return setJSON(txn, prefixProfile+id, &profile)
	})
	return profile, err
}

// DeleteProfile implements Store.
func (store *BadgerStore) DeleteProfile(ctx context.Context, id string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		var profile model.Profile
		if err := getJSON(txn, prefixProfile+id, &profile); err != nil {
			return err
		}
		if err := txn.Delete([]byte(prefixProfile + id)); err != nil {
			return errors.Wrapf(err, "deleting profile %q", id)
		}
		indexKey := prefixProfileUser + profile.UserID
		return errors.Wrapf(txn.Delete([]byte(indexKey)), "deleting %q", indexKey)
	})
}

//
// Member types
//

// MemberTypes implements Store.
func (store *BadgerStore) MemberTypes(ctx context.Context) ([]model.MemberType, error) {
	memberTypes := []model.MemberType{}
	err := store.db.View(func(txn *badger.Txn) error {
		return scanJSON(txn, prefixMemberType, func(value []byte) error {
			var memberType model.MemberType
			if err := json.Unmarshal(value, &memberType); err != nil {
				return err
			}
			memberTypes = append(memberTypes, memberType)
			return nil
		})
	})
	return memberTypes, err
}

// MemberType implements Store.
func (store *BadgerStore) MemberType(ctx context.Context, id model.MemberTypeID) (model.MemberType, error) {
	var memberType model.MemberType
	err := store.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, prefixMemberType+string(id), &memberType)
	})
	return memberType, err
}

//
// Follow edges
//

func subKey(subscriberID, authorID string) string {
	return prefixSub + subscriberID + "/" + authorID
}

func subRevKey(subscriberID, authorID string) string {
	return prefixSubRev + authorID + "/" + subscriberID
}

// Subscribe implements Store.
func (store *BadgerStore) Subscribe(ctx context.Context, subscriberID, authorID string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		for _, userID := range []string{subscriberID, authorID} {
			found, err := exists(txn, prefixUser+userID)
			if err != nil {
				return err
			}
			if !found {
				return errors.Wrap(ErrReferenceNotFound, "user")
			}
		}

		key := subKey(subscriberID, authorID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if found {
			return errors.Wrap(ErrConflict, "already subscribed")
		}

		if err := txn.Set([]byte(key), nil); err != nil {
			return errors.Wrapf(err, "writing %q", key)
		}
		revKey := subRevKey(subscriberID, authorID)
		return errors.Wrapf(txn.Set([]byte(revKey), nil), "writing %q", revKey)
	})
}

// Unsubscribe implements Store.
func (store *BadgerStore) Unsubscribe(ctx context.Context, subscriberID, authorID string) error {
	return store.db.Update(func(txn *badger.Txn) error {
		key := subKey(subscriberID, authorID)
		found, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if err := txn.Delete([]byte(key)); err != nil {
			return errors.Wrapf(err, "deleting %q", key)
		}
		revKey := subRevKey(subscriberID, authorID)
		return errors.Wrapf(txn.Delete([]byte(revKey)), "deleting %q", revKey)
	})
}

// Following implements Store.
func (store *BadgerStore) Following(ctx context.Context, subscriberID string) ([]string, error) {
	var authorIDs []string
	err := store.db.View(func(txn *badger.Txn) error {
		var err error
		authorIDs, err = scanKeySuffixes(txn, prefixSub+subscriberID+"/")
		return err
	})
	return authorIDs, err
}

// Followers implements Store.
func (store *BadgerStore) Followers(ctx context.Context, authorID string) ([]string, error) {
	var subscriberIDs []string
	err := store.db.View(func(txn *badger.Txn) error {
		var err error
		subscriberIDs, err = scanKeySuffixes(txn, prefixSubRev+authorID+"/")
		return err
	})
	return subscriberIDs, err
}
