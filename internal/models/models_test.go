// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestPublicProfileStripsEmail(t *testing.T) {
	user := &User{ID: 7, Username: "alice", Email: "alice@example.com", Bio: "hi"}

	public := user.PublicProfile(3, 5)
	if public.Email != "" {
		t.Errorf("public profile kept email %q", public.Email)
	}
	if public.FollowerCount != 3 || public.FollowingCount != 5 {
		t.Errorf("counts = %d/%d, want 3/5", public.FollowerCount, public.FollowingCount)
	}

	own := user.OwnProfile(3, 5)
	if own.Email != "alice@example.com" {
		t.Errorf("own profile email = %q", own.Email)
	}
}

func TestUserSerializationHidesSecrets(t *testing.T) {
	user := User{ID: 1, Username: "alice", PasswordHash: "$2a$12$secret"}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password hash leaked: %s", data)
	}

	// Empty email is omitted entirely rather than serialized blank.
	if strings.Contains(string(data), "email") {
		t.Errorf("empty email serialized: %s", data)
	}
}
