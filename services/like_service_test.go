package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLikeStore struct {
	likes map[string][]string

	addErr    error
	removeErr error
	fetchErr  error

	fetchCalls int
}

func (f *fakeLikeStore) AddLike(ctx context.Context, userID, postID string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.likes[userID] = append(f.likes[userID], postID)
	return nil
}

func (f *fakeLikeStore) RemoveLike(ctx context.Context, userID, postID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	remaining := f.likes[userID][:0]
	for _, id := range f.likes[userID] {
		if id != postID {
			remaining = append(remaining, id)
		}
	}
	f.likes[userID] = remaining
	return nil
}

func (f *fakeLikeStore) FetchUserLikes(ctx context.Context, userID string) ([]string, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.likes[userID], nil
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: make(map[string][]string)}
}

func TestLikeService_LikesLoadsOnceAndCaches(t *testing.T) {
	store := newFakeLikeStore()
	store.likes["u1"] = []string{"p1", "p2"}
	ls := NewLikeService(store)

	ids, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)

	_, err = ls.Likes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCalls, "second read served from cache")

	assert.True(t, ls.IsLiked("u1", "p1"))
	assert.False(t, ls.IsLiked("u1", "p9"))
	assert.False(t, ls.IsLiked("unknown", "p1"), "unloaded user reads as unliked")
}

func TestLikeService_ToggleLikeSuccess(t *testing.T) {
	store := newFakeLikeStore()
	ls := NewLikeService(store)

	liked, err := ls.Toggle(context.Background(), "u1", "p1", false)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []string{"p1"}, store.likes["u1"])

	// Success invalidates the mirror; the next read refetches server truth.
	fetchesBefore := store.fetchCalls
	ids, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, fetchesBefore+1, store.fetchCalls)
	assert.Equal(t, []string{"p1"}, ids)
}

func TestLikeService_ToggleUnlikeSuccess(t *testing.T) {
	store := newFakeLikeStore()
	store.likes["u1"] = []string{"p1"}
	ls := NewLikeService(store)

	_, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)

	liked, err := ls.Toggle(context.Background(), "u1", "p1", true)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, store.likes["u1"])
}

func TestLikeService_ToggleRollsBackOnFailure(t *testing.T) {
	store := newFakeLikeStore()
	store.likes["u1"] = []string{"p1"}
	ls := NewLikeService(store)

	_, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)

	store.addErr = errors.New("network down")
	liked, err := ls.Toggle(context.Background(), "u1", "p2", false)

	require.Error(t, err)
	assert.False(t, liked, "failed toggle reports the pre-toggle state")
	assert.False(t, ls.IsLiked("u1", "p2"), "optimistic like rolled back")
	assert.True(t, ls.IsLiked("u1", "p1"), "unrelated likes survive the rollback")
}

func TestLikeService_UnlikeRollsBackOnFailure(t *testing.T) {
	store := newFakeLikeStore()
	store.likes["u1"] = []string{"p1"}
	ls := NewLikeService(store)

	_, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)

	store.removeErr = errors.New("network down")
	liked, err := ls.Toggle(context.Background(), "u1", "p1", true)

	require.Error(t, err)
	assert.True(t, liked)
	assert.True(t, ls.IsLiked("u1", "p1"), "optimistic removal rolled back")
}

func TestLikeService_FailedToggleOnUnloadedMirrorRefetches(t *testing.T) {
	store := newFakeLikeStore()
	store.likes["u1"] = []string{"p1", "p2"}
	ls := NewLikeService(store)

	// First touch for this user is a toggle that fails; nothing was loaded.
	store.addErr = errors.New("network down")
	liked, err := ls.Toggle(context.Background(), "u1", "p3", false)
	require.Error(t, err)
	assert.False(t, liked)

	// The rollback must not leave an empty set behind as truth; the next
	// read loads the server state.
	store.addErr = nil
	ids, err := ls.Likes(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, store.fetchCalls)
	assert.ElementsMatch(t, []string{"p1", "p2"}, ids)
	assert.True(t, ls.IsLiked("u1", "p1"))
}

func TestLikeService_LikesPropagatesFetchError(t *testing.T) {
	store := newFakeLikeStore()
	store.fetchErr = errors.New("db down")
	ls := NewLikeService(store)

	_, err := ls.Likes(context.Background(), "u1")
	assert.Error(t, err)
}
