// Package linkedin implements the LinkedIn platform adapter. Profile data is
// mined from the HTML-encoded JSON LinkedIn embeds in <code> blocks of the
// profile page; connection listings use the voyager API. Both require
// authenticated session cookies.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
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

const platform = profile.LinkedIn

const voyagerConnectionsURL = "https://www.linkedin.com/voyager/api/relationships/connections"

// Match returns true if the URL is a LinkedIn profile URL.
func Match(urlStr string) bool {
	lower := strings.ToLower(urlStr)
	return strings.Contains(lower, "linkedin.com/in/")
}

// Client handles LinkedIn requests. It implements profile.Adapter.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	csrfToken  string
	hasAuth    bool
}

// Option configures a Client.
type Option func(*config)

type config struct {
	cookies          map[string]string
	logger           *slog.Logger
	noBrowserCookies bool
}

// WithCookies sets session cookies (li_at, JSESSIONID, lidc) directly.
func WithCookies(cookies map[string]string) Option {
	return func(c *config) { c.cookies = cookies }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithNoBrowserCookies disables reading cookies from browser profiles.
func WithNoBrowserCookies() Option {
	return func(c *config) { c.noBrowserCookies = true }
}

// New creates a LinkedIn client. Cookies are resolved from explicit options,
// then environment variables, then browser cookie stores.
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
		return nil, fmt.Errorf("resolve linkedin cookies: %w", err)
	}
	if len(cookies) == 0 {
		envVars := auth.EnvVarsForPlatform(platform)
		return nil, fmt.Errorf("%w: set %v or use WithCookies", profile.ErrNoCookies, envVars)
	}

	jar, err := auth.NewCookieJar("linkedin.com", cookies)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient: &http.Client{Jar: jar, Timeout: 30 * time.Second},
		logger:     cfg.logger,
		// Voyager wants the JSESSIONID value, minus its quoting, as csrf token.
		csrfToken: strings.Trim(cookies["JSESSIONID"], `"`),
		hasAuth:   cookies["li_at"] != "",
	}
	cfg.logger.DebugContext(ctx, "linkedin session cookies loaded", "count", len(cookies))

	return client, nil
}

// Profile retrieves a LinkedIn profile. The identifier is a public identifier
// slug or a full profile URL.
func (c *Client) Profile(ctx context.Context, identifier string) (*profile.Profile, error) {
	if !c.hasAuth {
		return nil, fmt.Errorf("%w: linkedin needs an li_at session cookie", profile.ErrAuthRequired)
	}

	profileURL := identifier
	if !strings.HasPrefix(profileURL, "http") {
		profileURL = "https://www.linkedin.com/in/" + strings.Trim(identifier, "/")
	}

	c.logger.InfoContext(ctx, "fetching linkedin profile", "url", profileURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, http.NoBody)
	if err != nil {
		return nil, err
	}
	setPageHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if err := checkStatus(resp.StatusCode, profileURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response failed: %w", err)
	}

	p, err := parsePage(body, profileURL)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "linkedin profile fetched", "name", p.Name, "id", p.ID)
	return p, nil
}

// Connections retrieves first-degree connections via the voyager API.
func (c *Client) Connections(ctx context.Context, profileID string, maxResults int) (*profile.ConnectionSet, error) {
	if !c.hasAuth {
		return nil, fmt.Errorf("%w: linkedin needs an li_at session cookie", profile.ErrAuthRequired)
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > 100 {
		maxResults = 100
	}

	c.logger.InfoContext(ctx, "fetching linkedin connections", "profile", profileID, "max", maxResults)

	params := url.Values{}
	params.Set("start", "0")
	params.Set("count", fmt.Sprint(maxResults))
	params.Set("sortType", "RECENTLY_ADDED")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, voyagerConnectionsURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.linkedin.normalized+json+2.1")
	req.Header.Set("Csrf-Token", c.csrfToken)
	req.Header.Set("X-Restli-Protocol-Version", "2.0.0")
	req.Header.Set("User-Agent", httpcache.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // intentional

	if err := checkStatus(resp.StatusCode, voyagerConnectionsURL); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response failed: %w", err)
	}
	return parseConnections(body, profileID)
}

// Status reports whether the client holds a usable session.
func (c *Client) Status(_ context.Context) profile.Status {
	if c.hasAuth {
		return profile.Status{State: "connected"}
	}
	return profile.Status{State: "error", Detail: "no li_at session cookie"}
}

func setPageHeaders(req *http.Request) {
	req.Header.Set("User-Agent", httpcache.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", profile.ErrProfileNotFound, url)
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", profile.ErrRateLimited, url)
	case code == http.StatusUnauthorized || code == http.StatusForbidden || code == 999:
		// 999 is LinkedIn's bot-detection status
		return fmt.Errorf("%w: HTTP %d from %s", profile.ErrAuthRequired, code, url)
	default:
		return fmt.Errorf("unexpected status code %d from %s", code, url)
	}
}

// parsePage extracts profile data from the HTML-encoded JSON LinkedIn embeds
// in <code> blocks. The page carries data for many profiles (viewer, suggested
// people); the target is located by its publicIdentifier.
func parsePage(body []byte, profileURL string) (*profile.Profile, error) {
	content := string(body)
	target := publicIdentifierFromURL(profileURL)

	var section string
	var fallback string
	for _, code := range extractCodeBlocks(content) {
		if !strings.Contains(code, `"publicIdentifier":`) {
			continue
		}
		if target != "" && strings.Contains(code, fmt.Sprintf(`"publicIdentifier":%q`, target)) {
			section = extractProfileSection(code, target)
			break
		}
		if fallback == "" {
			fallback = code
		}
	}
	if section == "" {
		section = fallback
	}

	p := &profile.Profile{Platform: platform, ID: target}

	if section != "" {
		first := unescapeJSON(extractJSONField(section, "firstName"))
		last := unescapeJSON(extractJSONField(section, "lastName"))
		p.Name = strings.TrimSpace(first + " " + last)
		p.Bio = unescapeJSON(extractJSONField(section, "headline"))
		p.Location = unescapeJSON(extractJSONField(section, "geoLocationName"))
		p.Industry = unescapeJSON(extractJSONField(section, "industryName"))
		if p.Industry == "" {
			p.Industry = unescapeJSON(extractJSONField(section, "companyName"))
		}
		if p.ID == "" {
			p.ID = extractJSONField(section, "publicIdentifier")
		}
		p.Username = p.ID
		p.Followers = extractJSONInt(section, "followerCount")
		p.Following = extractJSONInt(section, "connectionCount")
	}

	// Meta tags as fallback when the embedded JSON is absent
	if p.Name == "" {
		p.Name = extractMetaContent(content, `property="og:title"`)
	}
	if p.Bio == "" {
		p.Bio = extractMetaContent(content, `property="og:description"`)
	}
	if img := extractMetaContent(content, `property="og:image"`); img != "" {
		p.ImageURL = img
	}

	if p.Name == "" {
		return nil, fmt.Errorf("%w: no profile data in page", profile.ErrProfileNotFound)
	}
	return p, nil
}

func parseConnections(data []byte, profileID string) (*profile.ConnectionSet, error) {
	//nolint:govet // fieldalignment: mirrors the wire format
	var response struct {
		Elements []struct {
			MiniProfile struct {
				PublicIdentifier string `json:"publicIdentifier"`
				FirstName        string `json:"firstName"`
				LastName         string `json:"lastName"`
				Occupation       string `json:"occupation"`
			} `json:"miniProfile"`
		} `json:"elements"`
		Paging struct {
			Total int `json:"total"`
		} `json:"paging"`
	}
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("parse connections for %s: %w", profileID, err)
	}

	cs := &profile.ConnectionSet{
		Platform:  platform,
		ProfileID: profileID,
		Total:     response.Paging.Total,
	}
	for _, el := range response.Elements {
		mp := el.MiniProfile
		if mp.PublicIdentifier == "" {
			continue
		}
		cs.Connections = append(cs.Connections, profile.Connection{
			ID:       mp.PublicIdentifier,
			Name:     strings.TrimSpace(mp.FirstName + " " + mp.LastName),
			Industry: mp.Occupation,
		})
	}
	if cs.Total == 0 {
		cs.Total = len(cs.Connections)
	}
	return cs, nil
}

func extractCodeBlocks(s string) []string {
	re := regexp.MustCompile(`(?s)<code[^>]*>(.*?)</code>`)
	matches := re.FindAllStringSubmatch(s, -1)

	var blocks []string
	for _, m := range matches {
		if len(m) > 1 {
			blocks = append(blocks, html.UnescapeString(m[1]))
		}
	}
	return blocks
}

func extractJSONField(s, field string) string {
	re := regexp.MustCompile(fmt.Sprintf(`%q:"([^"]*)"`, field))
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return ""
}

func extractJSONInt(s, field string) int {
	re := regexp.MustCompile(fmt.Sprintf(`%q:(\d+)`, field))
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		var n int
		if _, err := fmt.Sscanf(m[1], "%d", &n); err == nil {
			return n
		}
	}
	return 0
}

func extractMetaContent(content, property string) string {
	idx := strings.Index(content, property)
	if idx == -1 {
		return ""
	}
	contentIdx := strings.Index(content[idx:], `content="`)
	if contentIdx == -1 {
		return ""
	}
	start := idx + contentIdx + len(`content="`)
	end := strings.Index(content[start:], `"`)
	if end == -1 {
		return ""
	}
	return unescapeJSON(content[start : start+end])
}

func unescapeJSON(s string) string {
	var unescaped string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &unescaped); err != nil {
		return s
	}
	return unescaped
}

// publicIdentifierFromURL extracts the vanity slug from a profile URL.
func publicIdentifierFromURL(s string) string {
	re := regexp.MustCompile(`/in/([^/?]+)`)
	if m := re.FindStringSubmatch(s); len(m) > 1 {
		slug := m[1]
		if strings.Contains(slug, "%") {
			if decoded, err := url.QueryUnescape(slug); err == nil {
				return decoded
			}
		}
		return slug
	}
	return ""
}

// extractProfileSection narrows a code block to a window around the target
// publicIdentifier so fields from unrelated profiles on the page are skipped.
func extractProfileSection(s, id string) string {
	search := fmt.Sprintf(`"publicIdentifier":%q`, id)
	idx := strings.Index(s, search)
	if idx == -1 {
		return s
	}
	start := max(0, idx-5000)
	end := min(len(s), idx+5000)
	return s[start:end]
}

var _ profile.Adapter = (*Client)(nil)
