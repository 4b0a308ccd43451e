package github

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/socialmap/httpcache"
	"github.com/codeGROOVE-dev/socialmap/profile"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com/torvalds", true},
		{"http://github.com/octocat/", true},
		{"github.com/octocat?tab=repositories", true},
		{"https://github.com/torvalds/linux", false},
		{"https://github.com/features", false},
		{"https://github.com/orgs", false},
		{"https://github.com/", false},
		{"https://gitlab.com/someone", false},
		{"https://example.com/github.com-fan", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := Match(tt.url); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"torvalds", "torvalds"},
		{"@torvalds", "torvalds"},
		{"https://github.com/torvalds", "torvalds"},
		{"http://www.github.com/octocat", "octocat"},
		{"https://github.com/octocat?tab=stars", "octocat"},
		{"https://example.com/nothing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractUsername(tt.input); got != tt.want {
				t.Errorf("extractUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseUser(t *testing.T) {
	data := []byte(`{
		"login": "octocat",
		"name": "The Octocat",
		"bio": "A mysterious cephalopod",
		"location": "San Francisco",
		"blog": "octocat.dev",
		"company": "@github",
		"public_repos": 8,
		"followers": 9999,
		"following": 9,
		"avatar_url": "https://avatars.githubusercontent.com/u/583231",
		"created_at": "2011-01-25T18:44:36Z"
	}`)

	p, err := parseUser(data)
	if err != nil {
		t.Fatalf("parseUser: %v", err)
	}

	if p.Platform != profile.GitHub {
		t.Errorf("Platform = %q, want %q", p.Platform, profile.GitHub)
	}
	if p.ID != "octocat" || p.Username != "octocat" {
		t.Errorf("ID/Username = %q/%q, want octocat", p.ID, p.Username)
	}
	if p.Name != "The Octocat" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Website != "https://octocat.dev" {
		t.Errorf("Website = %q, want scheme prepended", p.Website)
	}
	if p.Industry != "github" {
		t.Errorf("Industry = %q, want company without @", p.Industry)
	}
	if p.Followers != 9999 || p.Following != 9 || p.Posts != 8 {
		t.Errorf("counts = %d/%d/%d", p.Followers, p.Following, p.Posts)
	}
	want := time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC)
	if !p.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, want)
	}
}

func TestParseUserEmptyLogin(t *testing.T) {
	_, err := parseUser([]byte(`{"message": "Not Found"}`))
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestParseFollowers(t *testing.T) {
	data := []byte(`[
		{"login": "alice", "id": 1},
		{"login": "bob", "id": 2},
		{"login": "", "id": 3}
	]`)

	cs, err := parseFollowers(data, "octocat")
	if err != nil {
		t.Fatalf("parseFollowers: %v", err)
	}
	if cs.Platform != profile.GitHub || cs.ProfileID != "octocat" {
		t.Errorf("set identity = %q/%q", cs.Platform, cs.ProfileID)
	}
	if len(cs.Connections) != 2 {
		t.Fatalf("len(Connections) = %d, want 2 (empty login skipped)", len(cs.Connections))
	}
	if cs.Connections[0].ID != "alice" || cs.Connections[1].ID != "bob" {
		t.Errorf("connections = %+v", cs.Connections)
	}
}

func TestParseFollowersEmpty(t *testing.T) {
	cs, err := parseFollowers([]byte(`[]`), "loner")
	if err != nil {
		t.Fatalf("parseFollowers: %v", err)
	}
	if len(cs.Connections) != 0 || cs.Total != 0 {
		t.Errorf("want empty set, got %+v", cs)
	}
}

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, profile.ErrProfileNotFound},
		{"forbidden is rate limit", http.StatusForbidden, profile.ErrRateLimited},
		{"too many requests", http.StatusTooManyRequests, profile.ErrRateLimited},
		{"unauthorized", http.StatusUnauthorized, profile.ErrAuthRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &httpcache.HTTPError{URL: "https://api.github.com/users/x", StatusCode: tt.status}
			if got := mapHTTPError(in); !errors.Is(got, tt.want) {
				t.Errorf("mapHTTPError(%d) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}

	plain := errors.New("dial tcp: timeout")
	if got := mapHTTPError(plain); !errors.Is(got, plain) {
		t.Errorf("non-HTTP error should pass through, got %v", got)
	}
}
