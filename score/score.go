// Package score computes heuristic profile metrics. All scoring functions
// are pure and deterministic over a Profile (and optionally a ConnectionSet),
// return integers clamped to [0, 100], and treat missing optional fields as
// absent rather than failing.
//
// The individual point values are a tunable policy, not load-bearing
// invariants. The one property that must hold when recalibrating: a more
// complete profile never scores lower than a less complete one, all else
// equal.
package score

import (
	"math"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

// Bundle is the scoring output attached to an analyzed profile.
// LinkedIn-specific fields are zero for other platforms.
type Bundle struct {
	ProfileStrength int `json:"profile_strength"`
	Engagement      int `json:"engagement"`
	Reach           int `json:"network_reach"`
	Influence       int `json:"influence"`

	NetworkValue      int `json:"network_value,omitempty"`
	IndustryInfluence int `json:"industry_influence,omitempty"`
	CareerTrajectory  int `json:"career_trajectory,omitempty"`

	Recommendations []string `json:"recommendations,omitempty"`
}

// Analyze computes the full scoring bundle for a profile and its connections.
func Analyze(p *profile.Profile, cs *profile.ConnectionSet) Bundle {
	b := Bundle{
		ProfileStrength: ProfileStrength(p),
		Engagement:      Engagement(p),
		Reach:           Reach(p, cs),
		Recommendations: Recommendations(p, cs),
	}
	b.Influence = Influence(b.ProfileStrength, b.Engagement, b.Reach)

	if p.Platform == profile.LinkedIn {
		b.NetworkValue = NetworkValue(p, cs)
		b.IndustryInfluence = IndustryInfluence(p, cs)
		b.CareerTrajectory = CareerTrajectory(p)
	}
	return b
}

// Point tables. Each count-like contribution is capped individually before
// summation and the final sum is clamped to 100.
const (
	bioPoints      = 15
	locationPoints = 10
	industryPoints = 10
	imagePoints    = 10
	verifiedPoints = 15
	websitePoints  = 10

	followerPointsCap  = 20 // 1 point per 100 followers
	postPointsCap      = 10 // 1 point per 25 posts
	followingPointsCap = 5  // flat, any nonzero following
)

// ProfileStrength scores profile completeness: flat points for each optional
// field present plus capped contributions from the count-like fields.
func ProfileStrength(p *profile.Profile) int {
	if p == nil {
		return 0
	}

	var s int
	if p.Bio != "" {
		s += bioPoints
	}
	if p.Location != "" {
		s += locationPoints
	}
	if p.Industry != "" {
		s += industryPoints
	}
	if p.ImageURL != "" {
		s += imagePoints
	}
	if p.Verified {
		s += verifiedPoints
	}
	if p.Website != "" {
		s += websitePoints
	}

	s += capped(p.Followers/100, followerPointsCap)
	s += capped(p.Posts/25, postPointsCap)
	if p.Following > 0 {
		s += followingPointsCap
	}

	return clamp(s)
}

// Engagement scores posting and audience interaction, Twitter-style:
// follower-to-following ratio tier, post frequency over account age,
// a verification bonus, and a likes-per-post tier.
func Engagement(p *profile.Profile) int {
	if p == nil {
		return 0
	}

	var s int

	// Follower/following ratio tiers.
	ratio := float64(p.Followers) / float64(max(p.Following, 1))
	switch {
	case ratio > 10:
		s += 30
	case ratio > 1:
		s += 20
	default:
		s += 10
	}

	// Post frequency, normalized by account age in days (floor 1 day).
	// Platforms that omit the creation timestamp contribute nothing here.
	if !p.CreatedAt.IsZero() {
		ageDays := max(int(time.Since(p.CreatedAt).Hours()/24), 1)
		perDay := float64(p.Posts) / float64(ageDays)
		switch {
		case perDay >= 1:
			s += 25
		case perDay >= 0.3:
			s += 15
		case perDay > 0:
			s += 5
		}
	}

	if p.Verified {
		s += 15
	}

	// Likes per post tiers.
	if p.Likes > 0 {
		perPost := float64(p.Likes) / float64(max(p.Posts, 1))
		switch {
		case perPost >= 10:
			s += 30
		case perPost >= 2:
			s += 20
		default:
			s += 10
		}
	}

	return clamp(s)
}

// Reach scores how far a profile's network extends: direct connection count,
// the average influence of those connections, and a per-verified-connection
// bonus.
func Reach(p *profile.Profile, cs *profile.ConnectionSet) int {
	if p == nil {
		return 0
	}

	var s int

	total := 0
	if cs != nil {
		total = max(cs.Total, len(cs.Connections))
	}
	s += capped(total/20, 40)

	if cs != nil && len(cs.Connections) > 0 {
		var sum, verified int
		for _, c := range cs.Connections {
			sum += c.Followers
			if c.Verified {
				verified++
			}
		}
		avg := sum / len(cs.Connections)
		switch {
		case avg >= 10000:
			s += 30
		case avg >= 1000:
			s += 20
		case avg >= 100:
			s += 10
		case avg > 0:
			s += 5
		}
		s += capped(verified*5, 20)
	}

	return clamp(s)
}

// Influence blends the three base scores:
// profile strength 30%, engagement 40%, reach 30%.
func Influence(strength, engagement, reach int) int {
	v := 0.3*float64(strength) + 0.4*float64(engagement) + 0.3*float64(reach)
	return clamp(int(math.Round(v)))
}

// seniorityKeywords are matched case-insensitively as substrings against
// headline text. Order matters only for readability; matches are counted.
var seniorityKeywords = []string{
	"chief", "cto", "ceo", "coo", "founder", "co-founder",
	"vp", "vice president", "head of", "director",
	"principal", "staff", "lead", "senior", "manager",
}

// NetworkValue scores a LinkedIn-style professional network: connection
// count tiers, industry diversity among connections, and the share of
// senior-looking connections.
func NetworkValue(p *profile.Profile, cs *profile.ConnectionSet) int {
	if p == nil {
		return 0
	}

	var s int

	total := 0
	if cs != nil {
		total = max(cs.Total, len(cs.Connections))
	}
	switch {
	case total >= 500:
		s += 40
	case total >= 100:
		s += 30
	case total >= 50:
		s += 20
	case total > 0:
		s += 10
	}

	s += capped(industryCount(cs)*6, 30)

	if cs != nil && len(cs.Connections) > 0 {
		var verified int
		for _, c := range cs.Connections {
			if c.Verified {
				verified++
			}
		}
		s += capped(verified*5, 15)
	}

	if p.Industry != "" {
		s += 10
	}

	return clamp(s)
}

// IndustryInfluence scores standing within an industry: seniority keywords
// in the headline, industry diversity of the connection set, and follower
// tiers.
func IndustryInfluence(p *profile.Profile, cs *profile.ConnectionSet) int {
	if p == nil {
		return 0
	}

	var s int
	s += capped(seniorityMatches(p.Bio)*15, 45)

	if p.Industry != "" {
		s += 10
	}
	s += capped(industryCount(cs)*5, 15)

	switch {
	case p.Followers >= 500:
		s += 30
	case p.Followers >= 100:
		s += 20
	case p.Followers > 0:
		s += 10
	}

	return clamp(s)
}

// CareerTrajectory scores seniority and momentum from the profile alone.
func CareerTrajectory(p *profile.Profile) int {
	if p == nil {
		return 0
	}

	var s int

	switch m := seniorityMatches(p.Bio); {
	case m >= 2:
		s += 40
	case m == 1:
		s += 30
	case p.Bio != "":
		s += 15
	}

	if !p.CreatedAt.IsZero() {
		years := int(time.Since(p.CreatedAt).Hours() / (24 * 365))
		s += capped(years*5, 25)
	}

	s += capped(p.Posts/10, 15)

	if p.Verified {
		s += 15
	}

	return clamp(s)
}

func seniorityMatches(headline string) int {
	if headline == "" {
		return 0
	}
	lower := strings.ToLower(headline)
	var n int
	for _, kw := range seniorityKeywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

func industryCount(cs *profile.ConnectionSet) int {
	if cs == nil {
		return 0
	}
	seen := make(map[string]bool)
	for _, c := range cs.Connections {
		if c.Industry != "" {
			seen[strings.ToLower(c.Industry)] = true
		}
	}
	return len(seen)
}

func capped(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
