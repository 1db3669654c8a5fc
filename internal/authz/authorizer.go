// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

// Package authz implements the visibility rules around private accounts.
//
// Public accounts are visible to everyone, including anonymous visitors.
// Private accounts are visible only to themselves and their followers.
// The same rule gates interactions (comments, likes, direct messages),
// except that interacting always requires an authenticated viewer.
package authz

import (
	"context"
	"fmt"
)

// FollowChecker is the single lookup the authorizer needs. The store
// satisfies it.
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, followedID int64) (bool, error)
}

// Viewer identifies the requesting principal. A nil *Viewer means
// anonymous.
type Viewer struct {
	ID int64
}

// Authorizer decides content visibility. It holds no state beyond the
// follow lookup and is safe for concurrent use.
type Authorizer struct {
	follows FollowChecker
}

// New creates an Authorizer backed by the given follow lookup.
func New(follows FollowChecker) *Authorizer {
	return &Authorizer{follows: follows}
}

// CanView reports whether viewer may see content owned by ownerID.
// Owners always see their own content. Private owners are visible only
// to their followers; anonymous viewers are denied.
func (a *Authorizer) CanView(ctx context.Context, viewer *Viewer, ownerID int64, ownerPrivate bool) (bool, error) {
	if !ownerPrivate {
		return true, nil
	}
	if viewer == nil {
		return false, nil
	}
	if viewer.ID == ownerID {
		return true, nil
	}

	following, err := a.follows.IsFollowing(ctx, viewer.ID, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return following, nil
}

// CanInteract reports whether viewer may comment on, like, or message
// content owned by ownerID. Interaction always requires authentication;
// beyond that the rule is identical to CanView.
func (a *Authorizer) CanInteract(ctx context.Context, viewer *Viewer, ownerID int64, ownerPrivate bool) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	return a.CanView(ctx, viewer, ownerID, ownerPrivate)
}
