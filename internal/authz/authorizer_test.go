// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package authz

import (
	"context"
	"errors"
	"testing"
)

type fakeFollows struct {
	edges map[[2]int64]bool
	err   error
}

func (f *fakeFollows) IsFollowing(_ context.Context, followerID, followedID int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.edges[[2]int64{followerID, followedID}], nil
}

func TestCanView(t *testing.T) {
	follows := &fakeFollows{edges: map[[2]int64]bool{
		{2, 1}: true, // user 2 follows user 1
	}}
	a := New(follows)
	ctx := context.Background()

	tests := []struct {
		name         string
		viewer       *Viewer
		ownerID      int64
		ownerPrivate bool
		want         bool
	}{
		{"public owner, anonymous viewer", nil, 1, false, true},
		{"public owner, any viewer", &Viewer{ID: 9}, 1, false, true},
		{"private owner, anonymous viewer", nil, 1, true, false},
		{"private owner, owner themselves", &Viewer{ID: 1}, 1, true, true},
		{"private owner, follower", &Viewer{ID: 2}, 1, true, true},
		{"private owner, non-follower", &Viewer{ID: 3}, 1, true, false},
		{"private owner, reverse edge only", &Viewer{ID: 1}, 2, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.CanView(ctx, tt.viewer, tt.ownerID, tt.ownerPrivate)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanView = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanViewGrantedAfterFollow(t *testing.T) {
	follows := &fakeFollows{edges: map[[2]int64]bool{}}
	a := New(follows)
	ctx := context.Background()
	viewer := &Viewer{ID: 5}

	ok, err := a.CanView(ctx, viewer, 1, true)
	if err != nil || ok {
		t.Fatalf("pre-follow: ok=%v err=%v, want deny", ok, err)
	}

	follows.edges[[2]int64{5, 1}] = true

	ok, err = a.CanView(ctx, viewer, 1, true)
	if err != nil || !ok {
		t.Fatalf("post-follow: ok=%v err=%v, want allow", ok, err)
	}
}

func TestCanInteractRequiresAuthentication(t *testing.T) {
	a := New(&fakeFollows{edges: map[[2]int64]bool{}})
	ctx := context.Background()

	// Even public content cannot be interacted with anonymously.
	ok, err := a.CanInteract(ctx, nil, 1, false)
	if err != nil {
		t.Fatalf("CanInteract: %v", err)
	}
	if ok {
		t.Error("anonymous interaction allowed")
	}

	ok, err = a.CanInteract(ctx, &Viewer{ID: 2}, 1, false)
	if err != nil || !ok {
		t.Errorf("authenticated interaction with public owner denied: ok=%v err=%v", ok, err)
	}

	ok, err = a.CanInteract(ctx, &Viewer{ID: 2}, 1, true)
	if err != nil || ok {
		t.Errorf("non-follower interaction with private owner allowed: ok=%v err=%v", ok, err)
	}
}

func TestCanViewPropagatesLookupError(t *testing.T) {
	wantErr := errors.New("lookup failed")
	a := New(&fakeFollows{err: wantErr})

	_, err := a.CanView(context.Background(), &Viewer{ID: 2}, 1, true)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected wrapped lookup error, got %v", err)
	}
}
