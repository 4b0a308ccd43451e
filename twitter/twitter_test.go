package twitter

import (
	"context"
	"errors"
	"testing"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://twitter.com/jack", true},
		{"https://x.com/jack", true},
		{"http://www.twitter.com/jack/", true},
		{"https://x.com/jack?lang=en", true},
		{"https://twitter.com/jack/status/20", false},
		{"https://x.com/home", false},
		{"https://x.com/i/flow/login", false},
		{"https://x.com/", false},
		{"https://example.com/jack", false},
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
		{"jack", "jack"},
		{"@jack", "jack"},
		{"https://twitter.com/jack", "jack"},
		{"https://x.com/jack?lang=en", "jack"},
		{"http://www.x.com/jack", "jack"},
		{"https://example.com/jack", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := extractUsername(tt.input); got != tt.want {
				t.Errorf("extractUsername(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseUserResponse(t *testing.T) {
	data := []byte(`{
		"data": {
			"user": {
				"result": {
					"rest_id": "12",
					"core": {"name": "jack", "screen_name": "jack"},
					"location": {"location": "California"},
					"is_blue_verified": true,
					"legacy": {
						"description": "#bitcoin",
						"followers_count": 6500000,
						"friends_count": 4000,
						"statuses_count": 29000,
						"favourites_count": 35000,
						"verified": false,
						"created_at": "Tue Mar 21 20:50:14 +0000 2006",
						"profile_image_url_https": "https://pbs.twimg.com/profile_images/abc_normal.jpg",
						"entities": {"url": {"urls": [{"expanded_url": "https://block.xyz"}]}}
					}
				}
			}
		}
	}`)

	p, err := parseUserResponse(data)
	if err != nil {
		t.Fatalf("parseUserResponse: %v", err)
	}

	if p.Platform != profile.Twitter {
		t.Errorf("Platform = %q", p.Platform)
	}
	if p.ID != "12" || p.Username != "jack" || p.Name != "jack" {
		t.Errorf("identity = %q/%q/%q", p.ID, p.Username, p.Name)
	}
	if p.Location != "California" || p.Bio != "#bitcoin" {
		t.Errorf("Location/Bio = %q/%q", p.Location, p.Bio)
	}
	if p.Followers != 6500000 || p.Following != 4000 || p.Posts != 29000 || p.Likes != 35000 {
		t.Errorf("counts = %d/%d/%d/%d", p.Followers, p.Following, p.Posts, p.Likes)
	}
	if !p.Verified {
		t.Error("blue verification should count as verified")
	}
	if p.Website != "https://block.xyz" {
		t.Errorf("Website = %q", p.Website)
	}
	if p.ImageURL != "https://pbs.twimg.com/profile_images/abc_400x400.jpg" {
		t.Errorf("ImageURL = %q, want full-size variant", p.ImageURL)
	}
	if p.CreatedAt.IsZero() || p.CreatedAt.Year() != 2006 {
		t.Errorf("CreatedAt = %v", p.CreatedAt)
	}
}

func TestParseUserResponseMissing(t *testing.T) {
	_, err := parseUserResponse([]byte(`{"data": {"user": {}}}`))
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestParseFollowersResponse(t *testing.T) {
	data := []byte(`{
		"data": {
			"user": {
				"result": {
					"timeline": {
						"timeline": {
							"instructions": [
								{"type": "TimelineClearCache"},
								{
									"type": "TimelineAddEntries",
									"entries": [
										{"content": {"itemContent": {"user_results": {"result": {
											"rest_id": "100",
											"core": {"name": "Alice", "screen_name": "alice"},
											"legacy": {"followers_count": 500, "verified": true}
										}}}}},
										{"content": {"itemContent": {"user_results": {"result": {
											"rest_id": "200",
											"core": {"name": "Bob", "screen_name": "bob"},
											"legacy": {"followers_count": 7}
										}}}}},
										{"content": {}}
									]
								}
							]
						}
					}
				}
			}
		}
	}`)

	cs, err := parseFollowersResponse(data, "12", 10)
	if err != nil {
		t.Fatalf("parseFollowersResponse: %v", err)
	}
	if cs.Platform != profile.Twitter || cs.ProfileID != "12" {
		t.Errorf("set identity = %q/%q", cs.Platform, cs.ProfileID)
	}
	if len(cs.Connections) != 2 || cs.Total != 2 {
		t.Fatalf("got %d connections (total %d), want 2", len(cs.Connections), cs.Total)
	}
	if cs.Connections[0].ID != "100" || cs.Connections[0].Name != "Alice" || !cs.Connections[0].Verified {
		t.Errorf("first connection = %+v", cs.Connections[0])
	}
	if cs.Connections[1].Followers != 7 {
		t.Errorf("second connection = %+v", cs.Connections[1])
	}
}

func TestParseFollowersResponseCap(t *testing.T) {
	data := []byte(`{
		"data": {"user": {"result": {"timeline": {"timeline": {"instructions": [
			{"type": "TimelineAddEntries", "entries": [
				{"content": {"itemContent": {"user_results": {"result": {"rest_id": "1", "core": {"name": "a"}, "legacy": {}}}}}},
				{"content": {"itemContent": {"user_results": {"result": {"rest_id": "2", "core": {"name": "b"}, "legacy": {}}}}}},
				{"content": {"itemContent": {"user_results": {"result": {"rest_id": "3", "core": {"name": "c"}, "legacy": {}}}}}}
			]}
		]}}}}}
	}`)

	cs, err := parseFollowersResponse(data, "12", 2)
	if err != nil {
		t.Fatalf("parseFollowersResponse: %v", err)
	}
	if len(cs.Connections) != 2 {
		t.Errorf("got %d connections, want cap of 2", len(cs.Connections))
	}
}

func TestConnectionsRequireAuth(t *testing.T) {
	client, err := New(context.Background(), WithNoBrowserCookies())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if client.hasAuth {
		t.Skip("ambient session cookies present")
	}
	_, err = client.Connections(context.Background(), "12", 10)
	if !errors.Is(err, profile.ErrAuthRequired) {
		t.Errorf("err = %v, want ErrAuthRequired", err)
	}
}
