// Package twitter implements the Twitter/X platform adapter using the web
// GraphQL API. Profile lookups work with the public web bearer token alone;
// follower listings require session cookies.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/socialmap/auth"
	"github.com/codeGROOVE-dev/socialmap/httpcache"
	"github.com/codeGROOVE-dev/socialmap/profile"
)

const platform = profile.Twitter

// Public web-app bearer token, shared by every unauthenticated web session.
const bearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

const (
	userByScreenNameURL = "https://x.com/i/api/graphql/G3KGOASz96M-Qu0nwmGXNg/UserByScreenName"
	followersURL        = "https://x.com/i/api/graphql/rRXFSG5vR6drKr5M37YOTw/Followers"
)

// createdAtLayout is the legacy timestamp format the GraphQL API still emits.
const createdAtLayout = "Mon Jan 02 15:04:05 -0700 2006"

// Match returns true if the URL is a Twitter/X profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	for _, host := range []string{"twitter.com/", "x.com/"} {
		idx := strings.Index(lower, host)
		if idx < 0 {
			continue
		}
		path := strings.TrimSuffix(lower[idx+len(host):], "/")
		if qIdx := strings.Index(path, "?"); qIdx >= 0 {
			path = path[:qIdx]
		}
		if path == "" || strings.Contains(path, "/") {
			continue
		}
		nonProfiles := map[string]bool{
			"home": true, "explore": true, "search": true, "settings": true,
			"notifications": true, "messages": true, "login": true, "signup": true,
			"i": true, "hashtag": true, "intent": true, "share": true, "tos": true,
			"privacy": true, "about": true, "download": true,
		}
		if !nonProfiles[path] {
			return true
		}
	}
	return false
}

// Client handles Twitter requests. It implements profile.Adapter.
type Client struct {
	httpClient *http.Client
	cache      httpcache.Cacher
	logger     *slog.Logger
	csrfToken  string
	hasAuth    bool
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies          map[string]string
	cache            httpcache.Cacher
	logger           *slog.Logger
	noBrowserCookies bool
}

// WithCookies sets session cookies (auth_token and ct0) directly.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithHTTPCache sets the HTTP response cache.
func WithHTTPCache(cache httpcache.Cacher) Option {
	return func(c *config) { c.cache = cache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithNoBrowserCookies disables reading cookies from browser profiles.
func WithNoBrowserCookies() Option {
	return func(c *config) { c.noBrowserCookies = true }
}

// New creates a Twitter client. Cookies are resolved from explicit options,
// then environment variables, then browser cookie stores. A client without
// cookies can still fetch public profiles.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &config{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}

	sources := []auth.Source{auth.NewStaticSource(cfg.cookies), auth.EnvSource{}}
	if !cfg.noBrowserCookies {
		sources = append(sources, auth.NewBrowserSource(cfg.logger))
	}
	cookies, err := auth.ChainSources(ctx, platform, sources...)
	if err != nil {
		return nil, fmt.Errorf("resolve twitter cookies: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cfg.cache,
		logger:     cfg.logger,
	}

	if len(cookies) > 0 {
		jar, err := auth.NewCookieJar("x.com", cookies)
		if err != nil {
			return nil, err
		}
		client.httpClient.Jar = jar
		client.csrfToken = cookies["ct0"]
		client.hasAuth = cookies["auth_token"] != ""
		cfg.logger.DebugContext(ctx, "twitter session cookies loaded", "count", len(cookies))
	}

	return client, nil
}

// Profile retrieves a Twitter profile. The identifier is a handle (with or
// without the @) or a profile URL.
func (c *Client) Profile(ctx context.Context, identifier string) (*profile.Profile, error) {
	username := extractUsername(identifier)
	if username == "" {
		return nil, fmt.Errorf("could not extract username from: %s", identifier)
	}

	c.logger.InfoContext(ctx, "fetching twitter profile", "username", username)

	variables := map[string]any{
		"screen_name":              username,
		"withSafetyModeUserFields": true,
	}
	body, err := c.graphQL(ctx, userByScreenNameURL, variables)
	if err != nil {
		return nil, err
	}
	return parseUserResponse(body)
}

// Connections retrieves a user's followers. Requires session cookies; the
// profileID is the numeric rest_id from a prior Profile call.
func (c *Client) Connections(ctx context.Context, profileID string, maxResults int) (*profile.ConnectionSet, error) {
	if !c.hasAuth {
		return nil, fmt.Errorf("%w: follower listing needs an auth_token cookie", profile.ErrAuthRequired)
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 100 {
		maxResults = 100
	}

	c.logger.InfoContext(ctx, "fetching twitter followers", "user_id", profileID, "max", maxResults)

	variables := map[string]any{
		"userId":                 profileID,
		"count":                  maxResults,
		"includePromotedContent": false,
	}
	body, err := c.graphQL(ctx, followersURL, variables)
	if err != nil {
		return nil, err
	}
	return parseFollowersResponse(body, profileID, maxResults)
}

// Status reports whether the client holds a usable session.
func (c *Client) Status(_ context.Context) profile.Status {
	if c.hasAuth {
		return profile.Status{State: "connected"}
	}
	return profile.Status{State: "connected", Detail: "no session cookies; profile lookups only"}
}

func (c *Client) graphQL(ctx context.Context, endpoint string, variables map[string]any) ([]byte, error) {
	varsJSON, err := json.Marshal(variables)
	if err != nil {
		return nil, err
	}
	featuresJSON, err := json.Marshal(graphQLFeatures())
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("variables", string(varsJSON))
	params.Set("features", string(featuresJSON))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	body, err := httpcache.FetchURL(ctx, c.cache, c.httpClient, req, c.logger)
	if err != nil {
		return nil, mapHTTPError(err)
	}
	return body, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", httpcache.UserAgent)
	if c.hasAuth {
		req.Header.Set("X-Twitter-Auth-Type", "OAuth2Session")
	}
	if c.csrfToken != "" {
		req.Header.Set("X-Csrf-Token", c.csrfToken)
	}
}

// graphQLFeatures returns the feature flags the GraphQL endpoints insist on
// receiving. Missing flags produce 400 responses.
func graphQLFeatures() map[string]bool {
	return map[string]bool{
		"hidden_profile_likes_enabled":                                      true,
		"hidden_profile_subscriptions_enabled":                              true,
		"responsive_web_graphql_exclude_directive_enabled":                  true,
		"verified_phone_label_enabled":                                      false,
		"subscriptions_verification_info_is_identity_verified_enabled":      true,
		"subscriptions_verification_info_verified_since_enabled":            true,
		"highlights_tweets_tab_ui_enabled":                                  true,
		"responsive_web_twitter_article_notes_tab_enabled":                  true,
		"creator_subscriptions_tweet_preview_api_enabled":                   true,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled": false,
		"responsive_web_graphql_timeline_navigation_enabled":                true,
	}
}

func mapHTTPError(err error) error {
	var httpErr *httpcache.HTTPError
	if !errors.As(err, &httpErr) {
		return err
	}
	switch httpErr.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", profile.ErrProfileNotFound, httpErr.URL)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", profile.ErrRateLimited, httpErr.URL)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", profile.ErrAuthRequired, httpErr.URL)
	default:
		return err
	}
}

//nolint:govet // fieldalignment: mirrors the wire format
type userResult struct {
	RestID string `json:"rest_id"`
	Core   struct {
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
	} `json:"core"`
	Location struct {
		Location string `json:"location"`
	} `json:"location"`
	IsBlueVerified bool `json:"is_blue_verified"`
	Legacy         struct {
		Description     string `json:"description"`
		FollowersCount  int    `json:"followers_count"`
		FriendsCount    int    `json:"friends_count"`
		StatusesCount   int    `json:"statuses_count"`
		FavouritesCount int    `json:"favourites_count"`
		Verified        bool   `json:"verified"`
		CreatedAt       string `json:"created_at"`
		ProfileImageURL string `json:"profile_image_url_https"`
		Entities        struct {
			URL struct {
				URLs []struct {
					ExpandedURL string `json:"expanded_url"`
				} `json:"urls"`
			} `json:"url"`
		} `json:"entities"`
	} `json:"legacy"`
}

func parseUserResponse(data []byte) (*profile.Profile, error) {
	var response struct {
		Data struct {
			User struct {
				Result userResult `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}

	user := response.Data.User.Result
	if user.RestID == "" {
		return nil, fmt.Errorf("%w: empty user in GraphQL response", profile.ErrProfileNotFound)
	}

	p := &profile.Profile{
		Platform:  platform,
		ID:        user.RestID,
		Username:  user.Core.ScreenName,
		Name:      user.Core.Name,
		Bio:       user.Legacy.Description,
		Location:  user.Location.Location,
		ImageURL:  strings.Replace(user.Legacy.ProfileImageURL, "_normal", "_400x400", 1),
		Followers: user.Legacy.FollowersCount,
		Following: user.Legacy.FriendsCount,
		Posts:     user.Legacy.StatusesCount,
		Likes:     user.Legacy.FavouritesCount,
		Verified:  user.Legacy.Verified || user.IsBlueVerified,
	}
	if urls := user.Legacy.Entities.URL.URLs; len(urls) > 0 {
		p.Website = urls[0].ExpandedURL
	}
	if t, err := time.Parse(createdAtLayout, user.Legacy.CreatedAt); err == nil {
		p.CreatedAt = t
	}
	return p, nil
}

func parseFollowersResponse(data []byte, profileID string, maxResults int) (*profile.ConnectionSet, error) {
	var response struct {
		Data struct {
			User struct {
				Result struct {
					Timeline struct {
						Timeline struct {
							Instructions []struct {
								Type    string `json:"type"`
								Entries []struct {
									Content struct {
										ItemContent struct {
											UserResults struct {
												Result userResult `json:"result"`
											} `json:"user_results"`
										} `json:"itemContent"`
									} `json:"content"`
								} `json:"entries"`
							} `json:"instructions"`
						} `json:"timeline"`
					} `json:"timeline"`
				} `json:"result"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse followers for %s: %w", profileID, err)
	}

	cs := &profile.ConnectionSet{
		Platform:  platform,
		ProfileID: profileID,
	}
	for _, instruction := range response.Data.User.Result.Timeline.Timeline.Instructions {
		if instruction.Type != "TimelineAddEntries" {
			continue
		}
		for _, entry := range instruction.Entries {
			user := entry.Content.ItemContent.UserResults.Result
			if user.RestID == "" {
				continue // cursors and other non-user entries
			}
			if len(cs.Connections) >= maxResults {
				break
			}
			cs.Connections = append(cs.Connections, profile.Connection{
				ID:        user.RestID,
				Name:      user.Core.Name,
				Followers: user.Legacy.FollowersCount,
				Verified:  user.Legacy.Verified || user.IsBlueVerified,
			})
		}
	}
	cs.Total = len(cs.Connections)
	return cs, nil
}

func extractUsername(s string) string {
	if !strings.Contains(s, "/") {
		return strings.TrimPrefix(s, "@")
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")

	re := regexp.MustCompile(`(?:twitter\.com|x\.com)/([^/?]+)`)
	if matches := re.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimPrefix(matches[1], "@")
	}
	return ""
}

var _ profile.Adapter = (*Client)(nil)
