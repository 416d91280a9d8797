package services

import (
	"context"
	"sync"
)

// LikeStore is the remote side of the like toggle.
type LikeStore interface {
	AddLike(ctx context.Context, userID, postID string) error
	RemoveLike(ctx context.Context, userID, postID string) error
	FetchUserLikes(ctx context.Context, userID string) ([]string, error)
}

// LikeService keeps an optimistic in-memory mirror of each user's liked post
// ids. The mirror may diverge from the store while a toggle is in flight but
// always reconciles once the call settles: rollback on failure, invalidation
// (refetch on next read) on success.
type LikeService struct {
	store LikeStore

	mu    sync.Mutex
	cache map[string]map[string]struct{}
}

func NewLikeService(store LikeStore) *LikeService {
	return &LikeService{
		store: store,
		cache: make(map[string]map[string]struct{}),
	}
}

// Likes returns the post ids the user has liked, loading the set from the
// store when no cached copy exists.
func (ls *LikeService) Likes(ctx context.Context, userID string) ([]string, error) {
	ls.mu.Lock()
	cached, ok := ls.cache[userID]
	ls.mu.Unlock()

	if !ok {
		ids, err := ls.store.FetchUserLikes(ctx, userID)
		if err != nil {
			return nil, err
		}

		cached = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			cached[id] = struct{}{}
		}

		ls.mu.Lock()
		ls.cache[userID] = cached
		ls.mu.Unlock()
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	ids := make([]string, 0, len(cached))
	for id := range cached {
		ids = append(ids, id)
	}
	return ids, nil
}

// IsLiked reports cached membership without touching the store.
func (ls *LikeService) IsLiked(userID, postID string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	set, ok := ls.cache[userID]
	if !ok {
		return false
	}
	_, liked := set[postID]
	return liked
}

// Toggle flips the like state for a post. The cached set is updated before
// the store call; on failure it is restored to the pre-toggle snapshot and
// the old state is returned with the error. On success the cached set is
// dropped so the next read reflects server truth.
func (ls *LikeService) Toggle(ctx context.Context, userID, postID string, currentlyLiked bool) (bool, error) {
	snapshot, loaded := ls.snapshotSet(userID)

	ls.mu.Lock()
	set, ok := ls.cache[userID]
	if !ok {
		set = make(map[string]struct{})
		ls.cache[userID] = set
	}
	if currentlyLiked {
		delete(set, postID)
	} else {
		set[postID] = struct{}{}
	}
	ls.mu.Unlock()

	var err error
	if currentlyLiked {
		err = ls.store.RemoveLike(ctx, userID, postID)
	} else {
		err = ls.store.AddLike(ctx, userID, postID)
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err != nil {
		if loaded {
			ls.cache[userID] = snapshot
		} else {
			// The set was never loaded; restoring an empty entry would pin it
			// as truth, so restore "absent" and let the next read refetch.
			delete(ls.cache, userID)
		}
		return currentlyLiked, err
	}

	// Invalidate so the next Likes call refetches server truth.
	delete(ls.cache, userID)
	return !currentlyLiked, nil
}

// snapshotSet copies the user's cached set and reports whether an entry
// existed at all, so a failed toggle can tell "restore this set" apart from
// "restore absent".
func (ls *LikeService) snapshotSet(userID string) (map[string]struct{}, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	set, ok := ls.cache[userID]
	snapshot := make(map[string]struct{}, len(set))
	for id := range set {
		snapshot[id] = struct{}{}
	}
	return snapshot, ok
}
