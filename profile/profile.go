// Package profile defines the common types shared by all platform adapters:
// the normalized Profile record, connection sets, the Platform enum, and the
// error taxonomy surfaced to callers.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common errors returned by platform adapters and the analyzer.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrRateLimited         = errors.New("rate limited")
	ErrAuthRequired        = errors.New("authentication required")
	ErrNoCookies           = errors.New("no cookies available")
)

// Platform identifies a supported social platform.
type Platform string

// Supported platforms.
const (
	Twitter  Platform = "twitter"
	LinkedIn Platform = "linkedin"
	GitHub   Platform = "github"
)

// ParsePlatform converts a platform string to a Platform value.
// Unsupported values fail with ErrUnsupportedPlatform before any network call.
func ParsePlatform(s string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(s))) {
	case Twitter:
		return Twitter, nil
	case LinkedIn:
		return LinkedIn, nil
	case GitHub:
		return GitHub, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: twitter, linkedin, github)", ErrUnsupportedPlatform, s)
	}
}

// String returns the platform name.
func (p Platform) String() string { return string(p) }

// Profile represents a normalized account record for one platform.
// Profiles are immutable once fetched; they are re-fetched and replaced,
// never mutated in place.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Profile struct {
	// Identity
	Platform Platform // Platform this profile was fetched from
	ID       string   // Platform-scoped opaque identifier
	Username string   // Handle/username (without @ prefix)
	Name     string   // Display name

	// Descriptive fields (all optional, zero value means absent)
	Bio      string // Bio / headline / summary text
	Location string // Geographic location
	Industry string // Industry (LinkedIn-style, optional)
	Website  string // External URL
	ImageURL string // Profile image URL

	// Count-like fields
	Followers int // Followers (Twitter/GitHub) or connections (LinkedIn)
	Following int
	Posts     int // Tweets / posts / public repos
	Likes     int // Cumulative likes received, where the platform reports it

	Verified  bool
	CreatedAt time.Time // Account creation time; zero when the platform omits it
}

// Connection is a lightweight partial profile used inside connection sets.
type Connection struct {
	ID        string
	Name      string
	Followers int
	Industry  string // Optional; only LinkedIn populates this
	Verified  bool
}

// ConnectionSet holds a profile's relations for one platform as fetched at
// one point in time. Total may exceed len(Connections) when the platform
// truncates pagination.
type ConnectionSet struct {
	Platform    Platform
	ProfileID   string
	Connections []Connection
	Total       int
}

// Status reports adapter health.
type Status struct {
	State  string // "connected" or "error"
	Detail string
}

// Adapter is the narrow per-platform fetch contract the analyzer depends on.
// Implementations must return an empty ConnectionSet (not an error) when a
// profile simply has zero connections.
type Adapter interface {
	Profile(ctx context.Context, identifier string) (*Profile, error)
	Connections(ctx context.Context, profileID string, maxResults int) (*ConnectionSet, error)
	Status(ctx context.Context) Status
}
