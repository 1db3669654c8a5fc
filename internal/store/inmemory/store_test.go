// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/parlor/internal/store"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	s := New()

	// Deterministic monotonic clock so ordering assertions are stable.
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick time.Duration
	s.clock = func() time.Time {
		tick += time.Second
		return base.Add(tick)
	}
	return s, context.Background()
}

func mustCreateUser(t *testing.T, s *Store, ctx context.Context, username string) int64 {
	t.Helper()
	u, err := s.CreateUser(ctx, store.CreateUserParams{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", username, err)
	}
	return u.ID
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	s, ctx := newTestStore(t)
	mustCreateUser(t, s, ctx, "alice")

	_, err := s.CreateUser(ctx, store.CreateUserParams{
		Username: "alice", Email: "other@example.com", PasswordHash: "h",
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate username: got %v, want ErrDuplicate", err)
	}

	_, err = s.CreateUser(ctx, store.CreateUserParams{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "h",
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate email: got %v, want ErrDuplicate", err)
	}
}

func TestUserLookups(t *testing.T) {
	s, ctx := newTestStore(t)
	id := mustCreateUser(t, s, ctx, "bob")

	if _, err := s.UserByID(ctx, id); err != nil {
		t.Errorf("UserByID: %v", err)
	}
	if _, err := s.UserByUsername(ctx, "bob"); err != nil {
		t.Errorf("UserByUsername: %v", err)
	}
	if _, err := s.UserByEmail(ctx, "bob@example.com"); err != nil {
		t.Errorf("UserByEmail: %v", err)
	}
	if _, err := s.UserByID(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user: got %v, want ErrNotFound", err)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	s, ctx := newTestStore(t)
	id := mustCreateUser(t, s, ctx, "carol")

	bio := "first bio"
	if _, err := s.UpdateProfile(ctx, id, store.UpdateProfileParams{Bio: &bio}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	// A second update touching only is_private must keep the bio.
	private := true
	u, err := s.UpdateProfile(ctx, id, store.UpdateProfileParams{IsPrivate: &private})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if u.Bio != "first bio" {
		t.Errorf("partial update clobbered bio: %q", u.Bio)
	}
	if !u.IsPrivate {
		t.Error("is_private not applied")
	}
}

func TestToggleFollowRoundTrip(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	bob := mustCreateUser(t, s, ctx, "bob")

	following, err := s.ToggleFollow(ctx, alice, bob)
	if err != nil || !following {
		t.Fatalf("first toggle: following=%v err=%v", following, err)
	}
	if ok, _ := s.IsFollowing(ctx, alice, bob); !ok {
		t.Error("edge missing after follow")
	}
	// Direction matters.
	if ok, _ := s.IsFollowing(ctx, bob, alice); ok {
		t.Error("reverse edge should not exist")
	}

	following, err = s.ToggleFollow(ctx, alice, bob)
	if err != nil || following {
		t.Fatalf("second toggle: following=%v err=%v", following, err)
	}
	if ok, _ := s.IsFollowing(ctx, alice, bob); ok {
		t.Error("edge present after unfollow")
	}
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")

	if _, err := s.ToggleFollow(ctx, alice, alice); !errors.Is(err, store.ErrSelfAction) {
		t.Errorf("self-follow: got %v, want ErrSelfAction", err)
	}
}

func TestFollowCounts(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	bob := mustCreateUser(t, s, ctx, "bob")
	carol := mustCreateUser(t, s, ctx, "carol")

	s.ToggleFollow(ctx, bob, alice)
	s.ToggleFollow(ctx, carol, alice)
	s.ToggleFollow(ctx, alice, bob)

	followers, following, err := s.FollowCounts(ctx, alice)
	if err != nil {
		t.Fatalf("FollowCounts: %v", err)
	}
	if followers != 2 || following != 1 {
		t.Errorf("counts = (%d, %d), want (2, 1)", followers, following)
	}
}

func TestFeedOrderingAndPaging(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")

	for _, content := range []string{"one", "two", "three"} {
		if _, err := s.CreatePost(ctx, alice, content, ""); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
	}

	feed, err := s.GlobalFeed(ctx, 2, 0)
	if err != nil {
		t.Fatalf("GlobalFeed: %v", err)
	}
	if len(feed) != 2 || feed[0].Content != "three" || feed[1].Content != "two" {
		t.Errorf("feed page 1 wrong: %+v", feed)
	}

	feed, _ = s.GlobalFeed(ctx, 2, 2)
	if len(feed) != 1 || feed[0].Content != "one" {
		t.Errorf("feed page 2 wrong: %+v", feed)
	}
}

func TestPostsByUserMediaFilter(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")

	s.CreatePost(ctx, alice, "plain", "")
	s.CreatePost(ctx, alice, "with image", "/uploads/a.jpg")

	posts, err := s.PostsByUser(ctx, alice, store.PostFilter{MediaOnly: true, Limit: 10})
	if err != nil {
		t.Fatalf("PostsByUser: %v", err)
	}
	if len(posts) != 1 || posts[0].ImageURL != "/uploads/a.jpg" {
		t.Errorf("media filter wrong: %+v", posts)
	}
}

func TestToggleLikeAndCounts(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	bob := mustCreateUser(t, s, ctx, "bob")

	p, _ := s.CreatePost(ctx, alice, "likeable", "")

	liked, count, err := s.ToggleLike(ctx, bob, p.ID)
	if err != nil || !liked || count != 1 {
		t.Fatalf("like: liked=%v count=%d err=%v", liked, count, err)
	}

	// The same count must appear on every read path.
	single, _ := s.PostByID(ctx, p.ID)
	if single.LikeCount != 1 {
		t.Errorf("PostByID like_count = %d", single.LikeCount)
	}
	feed, _ := s.GlobalFeed(ctx, 10, 0)
	if feed[0].LikeCount != 1 {
		t.Errorf("feed like_count = %d", feed[0].LikeCount)
	}

	liked, count, _ = s.ToggleLike(ctx, bob, p.ID)
	if liked || count != 0 {
		t.Errorf("unlike: liked=%v count=%d", liked, count)
	}

	if _, _, err := s.ToggleLike(ctx, bob, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("like missing post: got %v, want ErrNotFound", err)
	}
}

func TestPostsLikedByOrder(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	bob := mustCreateUser(t, s, ctx, "bob")

	p1, _ := s.CreatePost(ctx, alice, "first", "")
	p2, _ := s.CreatePost(ctx, alice, "second", "")

	s.ToggleLike(ctx, bob, p1.ID)
	s.ToggleLike(ctx, bob, p2.ID)

	liked, err := s.PostsLikedBy(ctx, bob, 10, 0)
	if err != nil {
		t.Fatalf("PostsLikedBy: %v", err)
	}
	if len(liked) != 2 || liked[0].ID != p2.ID {
		t.Errorf("liked order wrong: %+v", liked)
	}
}

func TestCommentsOldestFirst(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	p, _ := s.CreatePost(ctx, alice, "post", "")

	s.CreateComment(ctx, p.ID, alice, "first")
	s.CreateComment(ctx, p.ID, alice, "second")

	comments, err := s.CommentsForPost(ctx, p.ID)
	if err != nil {
		t.Fatalf("CommentsForPost: %v", err)
	}
	if len(comments) != 2 || comments[0].Content != "first" {
		t.Errorf("comment order wrong: %+v", comments)
	}

	if _, err := s.CreateComment(ctx, 999, alice, "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("comment on missing post: got %v, want ErrNotFound", err)
	}
}

func TestMessagesThreadAndConversations(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")
	bob := mustCreateUser(t, s, ctx, "bob")
	carol := mustCreateUser(t, s, ctx, "carol")

	s.CreateMessage(ctx, alice, bob, "hi bob")
	s.CreateMessage(ctx, bob, alice, "hi alice")
	s.CreateMessage(ctx, alice, carol, "hi carol")

	thread, err := s.Thread(ctx, alice, bob)
	if err != nil {
		t.Fatalf("Thread: %v", err)
	}
	if len(thread) != 2 || thread[0].Content != "hi bob" || thread[1].Content != "hi alice" {
		t.Errorf("thread wrong: %+v", thread)
	}

	conversations, err := s.Conversations(ctx, alice)
	if err != nil {
		t.Fatalf("Conversations: %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("conversation count = %d, want 2", len(conversations))
	}
	// Newest conversation first: carol was messaged last.
	if conversations[0].Username != "carol" {
		t.Errorf("conversation order wrong: %+v", conversations)
	}
	if conversations[1].LastMessage != "hi alice" {
		t.Errorf("last message wrong: %+v", conversations[1])
	}
}

func TestCreateMessageRejectsSelf(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")

	if _, err := s.CreateMessage(ctx, alice, alice, "me"); !errors.Is(err, store.ErrSelfAction) {
		t.Errorf("self-message: got %v, want ErrSelfAction", err)
	}
}

func TestCreateMessageMissingRecipient(t *testing.T) {
	s, ctx := newTestStore(t)
	alice := mustCreateUser(t, s, ctx, "alice")

	if _, err := s.CreateMessage(ctx, alice, 999, "hello"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing recipient: got %v, want ErrNotFound", err)
	}
}

func TestSearchUsers(t *testing.T) {
	s, ctx := newTestStore(t)
	mustCreateUser(t, s, ctx, "alice")
	id := mustCreateUser(t, s, ctx, "alison")
	mustCreateUser(t, s, ctx, "bob")

	full := "Ali Son"
	s.UpdateProfile(ctx, id, store.UpdateProfileParams{FullName: &full})

	results, err := s.SearchUsers(ctx, "ali", 10)
	if err != nil {
		t.Fatalf("SearchUsers: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("search results = %+v, want alice and alison", results)
	}

	results, _ = s.SearchUsers(ctx, "ali", 1)
	if len(results) != 1 {
		t.Errorf("limit not applied: %+v", results)
	}
}
