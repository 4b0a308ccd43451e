// Package socialmap builds social network graphs and scores profiles across
// platforms.
//
// Basic usage:
//
//	analyzer, err := socialmap.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := analyzer.AnalyzeProfile(ctx, "github", "torvalds")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Scores.Influence)
//
// For platforms requiring authentication (LinkedIn, Twitter), pass cookies
// to the platform clients and register them:
//
//	li, _ := linkedin.New(ctx, linkedin.WithCookies(map[string]string{"li_at": "..."}))
//	analyzer, _ := socialmap.New(ctx, socialmap.WithAdapter(profile.LinkedIn, li))
package socialmap

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/codeGROOVE-dev/socialmap/cache"
	"github.com/codeGROOVE-dev/socialmap/github"
	"github.com/codeGROOVE-dev/socialmap/httpcache"
	"github.com/codeGROOVE-dev/socialmap/linkedin"
	"github.com/codeGROOVE-dev/socialmap/netmap"
	"github.com/codeGROOVE-dev/socialmap/profile"
	"github.com/codeGROOVE-dev/socialmap/score"
	"github.com/codeGROOVE-dev/socialmap/twitter"
	"golang.org/x/sync/errgroup"
)

type (
	// Profile re-exports profile.Profile for convenience.
	Profile = profile.Profile
	// ConnectionSet re-exports profile.ConnectionSet for convenience.
	ConnectionSet = profile.ConnectionSet
)

// Re-export common errors.
var (
	ErrAuthRequired        = profile.ErrAuthRequired
	ErrNoCookies           = profile.ErrNoCookies
	ErrProfileNotFound     = profile.ErrProfileNotFound
	ErrRateLimited         = profile.ErrRateLimited
	ErrUnsupportedPlatform = profile.ErrUnsupportedPlatform
)

// connectionFetchCap bounds how many connections an analysis pulls in.
const connectionFetchCap = 100

// generatedBy tags every result envelope with its producer.
const generatedBy = "socialmap"

// AnalysisResult is the envelope returned by AnalyzeProfile.
type AnalysisResult struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Profile     *profile.Profile       `json:"profile"`
	Connections *profile.ConnectionSet `json:"connections,omitempty"`
	Scores      score.Bundle           `json:"scores"`
	GeneratedBy string                 `json:"generated_by"`
}

// CrossPlatformResult is the envelope returned by CrossPlatformConnections.
type CrossPlatformResult struct {
	GeneratedAt         time.Time              `json:"generated_at"`
	Twitter             *profile.Profile       `json:"twitter"`
	LinkedIn            *profile.Profile       `json:"linkedin"`
	TwitterConnections  *profile.ConnectionSet `json:"twitter_connections,omitempty"`
	LinkedInConnections *profile.ConnectionSet `json:"linkedin_connections,omitempty"`
	Consistency         int                    `json:"consistency_score"`
	Tips                []string               `json:"optimization_tips,omitempty"`
	GeneratedBy         string                 `json:"generated_by"`
}

// Analyzer coordinates platform adapters, scoring, and the result cache.
type Analyzer struct {
	adapters map[profile.Platform]profile.Adapter
	cache    *cache.Cache
	builder  *netmap.Builder
	logger   *slog.Logger
}

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	adapters map[profile.Platform]profile.Adapter
	cache    *cache.Cache
	logger   *slog.Logger
	ttl      time.Duration
}

// WithAdapter registers (or replaces) the adapter for a platform.
func WithAdapter(platform profile.Platform, adapter profile.Adapter) Option {
	return func(c *config) { c.adapters[platform] = adapter }
}

// WithCache sets the result cache.
func WithCache(resultCache *cache.Cache) Option {
	return func(c *config) { c.cache = resultCache }
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithTTL sets the result cache TTL. Ignored when WithCache is also given.
func WithTTL(ttl time.Duration) Option {
	return func(c *config) { c.ttl = ttl }
}

// New creates an Analyzer. Platforms without a registered adapter get a
// default client; defaults that cannot initialize are logged and skipped.
func New(ctx context.Context, opts ...Option) (*Analyzer, error) {
	cfg := &config{
		adapters: make(map[profile.Platform]profile.Adapter),
		logger:   slog.Default(),
		ttl:      cache.DefaultTTL,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.cache == nil {
		cfg.cache = cache.New(cache.WithTTL(cfg.ttl))
	}

	a := &Analyzer{
		adapters: cfg.adapters,
		cache:    cfg.cache,
		builder:  netmap.NewBuilder(netmap.WithLogger(cfg.logger)),
		logger:   cfg.logger,
	}

	// The disk-backed cache is only needed by default adapters. Embedders
	// that register all their own adapters never touch the filesystem.
	var httpCache httpcache.Cacher
	ensureHTTPCache := func() httpcache.Cacher {
		if httpCache != nil {
			return httpCache
		}
		hc, err := httpcache.New(cfg.ttl)
		if err != nil {
			cfg.logger.WarnContext(ctx, "persistent http cache unavailable", "error", err)
			hc = httpcache.NewNull()
		}
		httpCache = hc
		return httpCache
	}

	if _, ok := a.adapters[profile.GitHub]; !ok {
		gh, err := github.New(ctx, github.WithHTTPCache(ensureHTTPCache()), github.WithLogger(cfg.logger))
		if err != nil {
			cfg.logger.WarnContext(ctx, "github adapter unavailable", "error", err)
		} else {
			a.adapters[profile.GitHub] = gh
		}
	}
	if _, ok := a.adapters[profile.Twitter]; !ok {
		tw, err := twitter.New(ctx, twitter.WithHTTPCache(ensureHTTPCache()), twitter.WithLogger(cfg.logger))
		if err != nil {
			cfg.logger.WarnContext(ctx, "twitter adapter unavailable", "error", err)
		} else {
			a.adapters[profile.Twitter] = tw
		}
	}
	if _, ok := a.adapters[profile.LinkedIn]; !ok {
		li, err := linkedin.New(ctx, linkedin.WithLogger(cfg.logger))
		if err != nil {
			cfg.logger.WarnContext(ctx, "linkedin adapter unavailable", "error", err)
		} else {
			a.adapters[profile.LinkedIn] = li
		}
	}

	return a, nil
}

// adapter resolves a platform name, failing before any network traffic when
// the platform is unknown or has no registered adapter.
func (a *Analyzer) adapter(platformName string) (profile.Platform, profile.Adapter, error) {
	platform, err := profile.ParsePlatform(platformName)
	if err != nil {
		return "", nil, err
	}
	adapter, ok := a.adapters[platform]
	if !ok {
		return "", nil, fmt.Errorf("%w: no adapter registered for %s", profile.ErrUnsupportedPlatform, platform)
	}
	return platform, adapter, nil
}

// AnalyzeProfile fetches a profile and its connections, scores them, and
// caches the result. Upstream failures from either fetch propagate to the
// caller unchanged; only traversal inside NetworkMap tolerates partial
// failure.
func (a *Analyzer) AnalyzeProfile(ctx context.Context, platformName, identifier string) (*AnalysisResult, error) {
	platform, adapter, err := a.adapter(platformName)
	if err != nil {
		return nil, err
	}

	key := cache.Key("analysis", string(platform), identifier)
	if cached, ok := a.cache.Get(key); ok {
		a.logger.DebugContext(ctx, "analysis cache hit", "key", key)
		if result, ok := cached.(*AnalysisResult); ok {
			return result, nil
		}
	}

	p, err := adapter.Profile(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("fetch %s profile %q: %w", platform, identifier, err)
	}

	cs, err := adapter.Connections(ctx, p.ID, connectionFetchCap)
	if err != nil {
		return nil, fmt.Errorf("fetch %s connections for %q: %w", platform, p.ID, err)
	}

	result := &AnalysisResult{
		GeneratedAt: time.Now().UTC(),
		Profile:     p,
		Connections: cs,
		Scores:      score.Analyze(p, cs),
		GeneratedBy: generatedBy,
	}
	a.cache.Set(key, result)
	return result, nil
}

// CrossPlatformConnections fetches a Twitter and a LinkedIn profile in
// parallel and compares them. Either fetch failing fails the whole call.
func (a *Analyzer) CrossPlatformConnections(ctx context.Context, twitterID, linkedinID string) (*CrossPlatformResult, error) {
	_, twAdapter, err := a.adapter(string(profile.Twitter))
	if err != nil {
		return nil, err
	}
	_, liAdapter, err := a.adapter(string(profile.LinkedIn))
	if err != nil {
		return nil, err
	}

	key := cache.Key("crossplatform", twitterID, linkedinID)
	if cached, ok := a.cache.Get(key); ok {
		a.logger.DebugContext(ctx, "crossplatform cache hit", "key", key)
		if result, ok := cached.(*CrossPlatformResult); ok {
			return result, nil
		}
	}

	var (
		twProfile, liProfile *profile.Profile
		twConns, liConns     *profile.ConnectionSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := twAdapter.Profile(gctx, twitterID)
		if err != nil {
			return fmt.Errorf("fetch twitter profile %q: %w", twitterID, err)
		}
		twProfile = p
		cs, err := twAdapter.Connections(gctx, p.ID, connectionFetchCap)
		if err != nil {
			return fmt.Errorf("fetch twitter connections for %q: %w", twitterID, err)
		}
		twConns = cs
		return nil
	})
	g.Go(func() error {
		p, err := liAdapter.Profile(gctx, linkedinID)
		if err != nil {
			return fmt.Errorf("fetch linkedin profile %q: %w", linkedinID, err)
		}
		liProfile = p
		cs, err := liAdapter.Connections(gctx, p.ID, connectionFetchCap)
		if err != nil {
			return fmt.Errorf("fetch linkedin connections for %q: %w", linkedinID, err)
		}
		liConns = cs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CrossPlatformResult{
		GeneratedAt:         time.Now().UTC(),
		Twitter:             twProfile,
		LinkedIn:            liProfile,
		TwitterConnections:  twConns,
		LinkedInConnections: liConns,
		Consistency:         score.Consistency(twProfile, liProfile),
		Tips:                score.OptimizationTips(twProfile, liProfile),
		GeneratedBy:         generatedBy,
	}
	a.cache.Set(key, result)
	return result, nil
}

// NetworkMap builds a connection graph around a seed profile via breadth
// first traversal, bounded by depth and maxNodes.
func (a *Analyzer) NetworkMap(ctx context.Context, platformName, identifier string, depth, maxNodes int) (*netmap.NetworkMap, error) {
	platform, adapter, err := a.adapter(platformName)
	if err != nil {
		return nil, err
	}

	key := cache.Key("netmap", string(platform), identifier, strconv.Itoa(depth), strconv.Itoa(maxNodes))
	if cached, ok := a.cache.Get(key); ok {
		a.logger.DebugContext(ctx, "netmap cache hit", "key", key)
		if nm, ok := cached.(*netmap.NetworkMap); ok {
			return nm, nil
		}
	}

	nm, err := a.builder.Build(ctx, adapter, platform, identifier, depth, maxNodes)
	if err != nil {
		return nil, err
	}
	a.cache.Set(key, nm)
	return nm, nil
}

// ClearCache drops every cached result.
func (a *Analyzer) ClearCache() {
	a.cache.Clear()
}

// CacheStats reports result cache usage.
func (a *Analyzer) CacheStats() cache.Stats {
	return a.cache.Stats()
}

// ServiceStatus reports the health of every registered adapter.
func (a *Analyzer) ServiceStatus(ctx context.Context) map[profile.Platform]profile.Status {
	statuses := make(map[profile.Platform]profile.Status, len(a.adapters))
	for platform, adapter := range a.adapters {
		statuses[platform] = adapter.Status(ctx)
	}
	return statuses
}
