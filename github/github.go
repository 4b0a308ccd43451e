// Package github implements the GitHub platform adapter using the public
// REST API. Followers stand in for connections; no authentication is needed.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/socialmap/httpcache"
	"github.com/codeGROOVE-dev/socialmap/profile"
)

const platform = profile.GitHub

const apiBase = "https://api.github.com"

// Match returns true if the URL is a GitHub profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	if !strings.Contains(lower, "github.com/") {
		return false
	}
	idx := strings.Index(lower, "github.com/")
	path := lower[idx+len("github.com/"):]
	path = strings.TrimSuffix(path, "/")
	if qIdx := strings.Index(path, "?"); qIdx >= 0 {
		path = path[:qIdx]
	}
	// Must be just username (no slashes)
	if strings.Contains(path, "/") {
		return false
	}
	nonProfiles := map[string]bool{
		"features": true, "security": true, "enterprise": true, "team": true,
		"marketplace": true, "sponsors": true, "topics": true, "trending": true,
		"orgs": true, "login": true, "join": true, "pricing": true, "about": true,
		"explore": true, "new": true, "settings": true, "notifications": true,
		"issues": true, "pulls": true, "search": true, "apps": true,
	}
	return path != "" && !nonProfiles[path]
}

// Client handles GitHub requests. It implements profile.Adapter.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cache  httpcache.Cacher
	logger *slog.Logger
}

// WithHTTPCache sets the HTTP response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// New creates a GitHub client.
func New(_ context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		httpClient: &http.Client{Timeout: 3 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}, nil
}

// Profile retrieves a GitHub profile. The identifier is a username or a
// profile URL.
func (c *Client) Profile(ctx context.Context, identifier string) (*profile.Profile, error) {
	username := extractUsername(identifier)
	if username == "" {
		return nil, fmt.Errorf("could not extract username from: %s", identifier)
	}

	c.logger.InfoContext(ctx, "fetching github profile", "username", username)

	body, err := c.get(ctx, apiBase+"/users/"+username)
	if err != nil {
		return nil, err
	}
	return parseUser(body)
}

// Connections retrieves a user's followers as a connection set. A user with
// zero followers yields an empty set, not an error.
func (c *Client) Connections(ctx context.Context, profileID string, maxResults int) (*profile.ConnectionSet, error) {
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 100 {
		maxResults = 100 // API page size ceiling
	}

	c.logger.InfoContext(ctx, "fetching github followers", "username", profileID, "max", maxResults)

	url := fmt.Sprintf("%s/users/%s/followers?per_page=%d", apiBase, profileID, maxResults)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseFollowers(body, profileID)
}

// Status probes the API root.
func (c *Client) Status(ctx context.Context) profile.Status {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase, http.NoBody)
	if err != nil {
		return profile.Status{State: "error", Detail: err.Error()}
	}
	setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return profile.Status{State: "error", Detail: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if resp.StatusCode != http.StatusOK {
		return profile.Status{State: "error", Detail: fmt.Sprintf("HTTP %d from API root", resp.StatusCode)}
	}
	return profile.Status{State: "connected"}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	setHeaders(req)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, mapHTTPError(err)
	}
	return body, nil
}

func setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "socialmap/1.0")
}

// mapHTTPError translates HTTP failures into the shared error taxonomy.
// GitHub reports rate limiting as 403 as well as 429.
func mapHTTPError(err error) error {
	var httpErr *httpcache.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	switch httpErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", profile.ErrProfileNotFound, httpErr.URL)
	case http.StatusForbidden, http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", profile.ErrRateLimited, httpErr.URL)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", profile.ErrAuthRequired, httpErr.URL)
	default:
		return err
	}
}

func parseUser(data []byte) (*profile.Profile, error) {
	//nolint:govet // fieldalignment: intentional layout for readability
	var ghUser struct {
		Login       string `json:"login"`
		Name        string `json:"name"`
		Bio         string `json:"bio"`
		Location    string `json:"location"`
		Blog        string `json:"blog"`
		Company     string `json:"company"`
		PublicRepos int    `json:"public_repos"`
		Followers   int    `json:"followers"`
		Following   int    `json:"following"`
		AvatarURL   string `json:"avatar_url"`
		CreatedAt   string `json:"created_at"`
	}

	if err := json.Unmarshal(data, &ghUser); err != nil {
		return nil, err
	}
	if ghUser.Login == "" {
		return nil, fmt.Errorf("%w: empty login in API response", profile.ErrProfileNotFound)
	}

	p := &profile.Profile{
		Platform:  platform,
		ID:        ghUser.Login,
		Username:  ghUser.Login,
		Name:      ghUser.Name,
		Bio:       ghUser.Bio,
		Location:  ghUser.Location,
		ImageURL:  ghUser.AvatarURL,
		Followers: ghUser.Followers,
		Following: ghUser.Following,
		Posts:     ghUser.PublicRepos, // public repos stand in for posts
	}

	if ghUser.Blog != "" {
		website := ghUser.Blog
		if !strings.HasPrefix(website, "http") {
			website = "https://" + website
		}
		p.Website = website
	}
	if ghUser.Company != "" {
		p.Industry = strings.TrimPrefix(ghUser.Company, "@")
	}
	if t, err := time.Parse(time.RFC3339, ghUser.CreatedAt); err == nil {
		p.CreatedAt = t
	}

	return p, nil
}

func parseFollowers(data []byte, profileID string) (*profile.ConnectionSet, error) {
	var followers []struct {
		Login string `json:"login"`
		ID    int    `json:"id"`
	}
	if err := json.Unmarshal(data, &followers); err != nil {
		return nil, fmt.Errorf("parse followers for %s: %w", profileID, err)
	}

	cs := &profile.ConnectionSet{
		Platform:  platform,
		ProfileID: profileID,
		Total:     len(followers),
	}
	for _, f := range followers {
		if f.Login == "" {
			continue
		}
		cs.Connections = append(cs.Connections, profile.Connection{
			ID:   f.Login,
			Name: f.Login,
		})
	}
	return cs, nil
}

func extractUsername(s string) string {
	if !strings.Contains(s, "/") {
		return strings.TrimPrefix(s, "@")
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")

	re := regexp.MustCompile(`github\.com/([^/?]+)`)
	if matches := re.FindStringSubmatch(s); len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// Ensure Client implements the adapter contract.
var _ profile.Adapter = (*Client)(nil)
