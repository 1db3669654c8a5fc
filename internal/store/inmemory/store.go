// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package inmemory implements store.Store with mutex-guarded maps. It
// backs handler and authorizer tests so they run without PostgreSQL,
// and mirrors the postgres implementation's semantics exactly
// (toggle edges, sentinel errors, ordering).
package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/parlor/internal/models"
	"github.com/tomtom215/parlor/internal/store"
)

type followEdge struct {
	followerID int64
	followedID int64
}

type likeEdge struct {
	userID int64
	postID int64
}

type post struct {
	id        int64
	userID    int64
	content   string
	imageURL  string
	createdAt time.Time
}

type comment struct {
	id        int64
	postID    int64
	userID    int64
	content   string
	createdAt time.Time
}

type message struct {
	id          int64
	senderID    int64
	recipientID int64
	content     string
	createdAt   time.Time
}

var _ store.Store = (*Store)(nil)

// Store is the in-memory store.Store implementation.
type Store struct {
	mu sync.RWMutex

	users    map[int64]*models.User
	follows  map[followEdge]time.Time
	posts    map[int64]*post
	comments map[int64]*comment
	likes    map[likeEdge]time.Time
	messages map[int64]*message

	nextUserID    int64
	nextPostID    int64
	nextCommentID int64
	nextMessageID int64

	clock func() time.Time
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[int64]*models.User),
		follows:  make(map[followEdge]time.Time),
		posts:    make(map[int64]*post),
		comments: make(map[int64]*comment),
		likes:    make(map[likeEdge]time.Time),
		messages: make(map[int64]*message),
		clock:    time.Now,
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

// CreateUser registers an account, enforcing username and email
// uniqueness.
func (s *Store) CreateUser(_ context.Context, p store.CreateUserParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == p.Username || u.Email == p.Email {
			return nil, store.ErrDuplicate
		}
	}

	s.nextUserID++
	u := &models.User{
		ID:           s.nextUserID,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		CreatedAt:    s.clock(),
	}
	s.users[u.ID] = u
	return cloneUser(u), nil
}

// UserByID fetches a user by id.
func (s *Store) UserByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneUser(u), nil
}

// UserByUsername fetches a user by username.
func (s *Store) UserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

// UserByEmail fetches a user by email.
func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrNotFound
}

// UpdateProfile applies a partial update.
func (s *Store) UpdateProfile(_ context.Context, userID int64, p store.UpdateProfileParams) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&u.FullName, p.FullName)
	apply(&u.Bio, p.Bio)
	apply(&u.ProfilePicture, p.ProfilePicture)
	apply(&u.CoverPhoto, p.CoverPhoto)
	apply(&u.Location, p.Location)
	apply(&u.Website, p.Website)
	apply(&u.Occupation, p.Occupation)
	apply(&u.Interests, p.Interests)
	apply(&u.Pronouns, p.Pronouns)
	if p.IsPrivate != nil {
		u.IsPrivate = *p.IsPrivate
	}
	return cloneUser(u), nil
}

// SearchUsers matches username or full name, case-insensitively.
func (s *Store) SearchUsers(_ context.Context, query string, limit int) ([]models.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	results := make([]models.UserSummary, 0)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			results = append(results, models.UserSummary{
				ID:             u.ID,
				Username:       u.Username,
				FullName:       u.FullName,
				ProfilePicture: u.ProfilePicture,
				IsPrivate:      u.IsPrivate,
			})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Username < results[j].Username
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// FollowCounts returns (followers, following).
func (s *Store) FollowCounts(_ context.Context, userID int64) (int64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var followers, following int64
	for edge := range s.follows {
		if edge.followedID == userID {
			followers++
		}
		if edge.followerID == userID {
			following++
		}
	}
	return followers, following, nil
}

// IsFollowing reports whether the edge exists.
func (s *Store) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.follows[followEdge{followerID, followedID}]
	return ok, nil
}

// ToggleFollow flips the edge and reports whether it now exists.
func (s *Store) ToggleFollow(_ context.Context, followerID, followedID int64) (bool, error) {
	if followerID == followedID {
		return false, store.ErrSelfAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	edge := followEdge{followerID, followedID}
	if _, ok := s.follows[edge]; ok {
		delete(s.follows, edge)
		return false, nil
	}
	s.follows[edge] = s.clock()
	return true, nil
}

func (s *Store) buildPost(p *post) models.Post {
	author := s.users[p.userID]
	var likeCount, commentCount int64
	for edge := range s.likes {
		if edge.postID == p.id {
			likeCount++
		}
	}
	for _, c := range s.comments {
		if c.postID == p.id {
			commentCount++
		}
	}
	return models.Post{
		ID:             p.id,
		UserID:         p.userID,
		Username:       author.Username,
		ProfilePicture: author.ProfilePicture,
		Content:        p.content,
		ImageURL:       p.imageURL,
		LikeCount:      likeCount,
		CommentCount:   commentCount,
		CreatedAt:      p.createdAt,
		AuthorPrivate:  author.IsPrivate,
	}
}

// CreatePost inserts a post.
func (s *Store) CreatePost(_ context.Context, userID int64, content, imageURL string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return nil, store.ErrNotFound
	}

	s.nextPostID++
	p := &post{
		id:        s.nextPostID,
		userID:    userID,
		content:   content,
		imageURL:  imageURL,
		createdAt: s.clock(),
	}
	s.posts[p.id] = p
	built := s.buildPost(p)
	return &built, nil
}

// PostByID fetches a single post.
func (s *Store) PostByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	built := s.buildPost(p)
	return &built, nil
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func page(posts []models.Post, limit, offset int) []models.Post {
	if offset >= len(posts) {
		return []models.Post{}
	}
	posts = posts[offset:]
	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts
}

// GlobalFeed returns all posts, newest first.
func (s *Store) GlobalFeed(_ context.Context, limit, offset int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		posts = append(posts, s.buildPost(p))
	}
	sortPostsNewestFirst(posts)
	return page(posts, limit, offset), nil
}

// PostsByUser returns one author's posts, newest first.
func (s *Store) PostsByUser(_ context.Context, userID int64, f store.PostFilter) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]models.Post, 0)
	for _, p := range s.posts {
		if p.userID != userID {
			continue
		}
		if f.MediaOnly && p.imageURL == "" {
			continue
		}
		posts = append(posts, s.buildPost(p))
	}
	sortPostsNewestFirst(posts)
	return page(posts, f.Limit, f.Offset), nil
}

// PostsLikedBy returns posts the user liked, most recently liked first.
func (s *Store) PostsLikedBy(_ context.Context, userID int64, limit, offset int) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type likedPost struct {
		post    models.Post
		likedAt time.Time
	}
	liked := make([]likedPost, 0)
	for edge, at := range s.likes {
		if edge.userID != userID {
			continue
		}
		if p, ok := s.posts[edge.postID]; ok {
			liked = append(liked, likedPost{post: s.buildPost(p), likedAt: at})
		}
	}
	sort.Slice(liked, func(i, j int) bool {
		return liked[i].likedAt.After(liked[j].likedAt)
	})

	posts := make([]models.Post, 0, len(liked))
	for _, lp := range liked {
		posts = append(posts, lp.post)
	}
	return page(posts, limit, offset), nil
}

// CreateComment inserts a comment on an existing post.
func (s *Store) CreateComment(_ context.Context, postID, userID int64, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return nil, store.ErrNotFound
	}
	author, ok := s.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}

	s.nextCommentID++
	c := &comment{
		id:        s.nextCommentID,
		postID:    postID,
		userID:    userID,
		content:   content,
		createdAt: s.clock(),
	}
	s.comments[c.id] = c
	return &models.Comment{
		ID:             c.id,
		PostID:         c.postID,
		UserID:         c.userID,
		Username:       author.Username,
		ProfilePicture: author.ProfilePicture,
		Content:        c.content,
		CreatedAt:      c.createdAt,
	}, nil
}

// CommentsForPost returns comments oldest first.
func (s *Store) CommentsForPost(_ context.Context, postID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comments := make([]models.Comment, 0)
	for _, c := range s.comments {
		if c.postID != postID {
			continue
		}
		author := s.users[c.userID]
		comments = append(comments, models.Comment{
			ID:             c.id,
			PostID:         c.postID,
			UserID:         c.userID,
			Username:       author.Username,
			ProfilePicture: author.ProfilePicture,
			Content:        c.content,
			CreatedAt:      c.createdAt,
		})
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

// ToggleLike flips the like and returns (liked, new like count).
func (s *Store) ToggleLike(_ context.Context, userID, postID int64) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[postID]; !ok {
		return false, 0, store.ErrNotFound
	}

	edge := likeEdge{userID, postID}
	liked := false
	if _, ok := s.likes[edge]; ok {
		delete(s.likes, edge)
	} else {
		s.likes[edge] = s.clock()
		liked = true
	}

	var count int64
	for e := range s.likes {
		if e.postID == postID {
			count++
		}
	}
	return liked, count, nil
}

// HasLiked reports whether the user liked the post.
func (s *Store) HasLiked(_ context.Context, userID, postID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.likes[likeEdge{userID, postID}]
	return ok, nil
}

// CreateMessage inserts a direct message.
func (s *Store) CreateMessage(_ context.Context, senderID, recipientID int64, content string) (*models.Message, error) {
	if senderID == recipientID {
		return nil, store.ErrSelfAction
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sender, ok := s.users[senderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	if _, ok := s.users[recipientID]; !ok {
		return nil, store.ErrNotFound
	}

	s.nextMessageID++
	m := &message{
		id:          s.nextMessageID,
		senderID:    senderID,
		recipientID: recipientID,
		content:     content,
		createdAt:   s.clock(),
	}
	s.messages[m.id] = m
	return &models.Message{
		ID:             m.id,
		SenderID:       m.senderID,
		RecipientID:    m.recipientID,
		SenderUsername: sender.Username,
		Content:        m.content,
		CreatedAt:      m.createdAt,
	}, nil
}

// Conversations returns distinct counterparts with the latest message,
// newest conversation first.
func (s *Store) Conversations(_ context.Context, userID int64) ([]models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	latest := make(map[int64]*message)
	for _, m := range s.messages {
		var other int64
		switch {
		case m.senderID == userID:
			other = m.recipientID
		case m.recipientID == userID:
			other = m.senderID
		default:
			continue
		}
		if cur, ok := latest[other]; !ok || m.createdAt.After(cur.createdAt) ||
			(m.createdAt.Equal(cur.createdAt) && m.id > cur.id) {
			latest[other] = m
		}
	}

	conversations := make([]models.Conversation, 0, len(latest))
	for other, m := range latest {
		u := s.users[other]
		conversations = append(conversations, models.Conversation{
			UserID:         other,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
			LastMessage:    m.content,
			LastMessageAt:  m.createdAt,
		})
	}
	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].LastMessageAt.After(conversations[j].LastMessageAt)
	})
	return conversations, nil
}

// Thread returns the full history between two users, oldest first.
func (s *Store) Thread(_ context.Context, userID, otherID int64) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.Message, 0)
	for _, m := range s.messages {
		if (m.senderID == userID && m.recipientID == otherID) ||
			(m.senderID == otherID && m.recipientID == userID) {
			sender := s.users[m.senderID]
			messages = append(messages, models.Message{
				ID:             m.id,
				SenderID:       m.senderID,
				RecipientID:    m.recipientID,
				SenderUsername: sender.Username,
				Content:        m.content,
				CreatedAt:      m.createdAt,
			})
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})
	return messages, nil
}
