package score

import (
	"github.com/codeGROOVE-dev/socialmap/profile"
)

// Recommendations returns human-readable suggestions for specific profile
// deficiencies. Rules fire in declaration order, so the output order is
// deterministic.
func Recommendations(p *profile.Profile, cs *profile.ConnectionSet) []string {
	if p == nil {
		return nil
	}

	var recs []string

	if p.Bio == "" {
		recs = append(recs, "Add a bio to tell visitors who you are")
	}
	if p.ImageURL == "" {
		recs = append(recs, "Upload a profile photo; profiles with photos get more engagement")
	}
	if p.Location == "" {
		recs = append(recs, "Set a location to show up in regional searches")
	}
	if p.Website == "" {
		recs = append(recs, "Link an external website or portfolio")
	}
	if p.Platform == profile.LinkedIn && p.Industry == "" {
		recs = append(recs, "Set your industry so recruiters and peers can find you")
	}

	total := 0
	if cs != nil {
		total = max(cs.Total, len(cs.Connections))
	}
	switch p.Platform {
	case profile.LinkedIn:
		if total < 50 {
			recs = append(recs, "Grow your network past 50 connections to improve visibility")
		}
	case profile.Twitter, profile.GitHub:
		if p.Followers < 100 {
			recs = append(recs, "Engage with others in your field to grow your audience")
		}
	}

	if p.Posts == 0 {
		recs = append(recs, "Start posting; an empty feed limits discovery")
	} else if !p.CreatedAt.IsZero() {
		if Engagement(p) < 40 {
			recs = append(recs, "Post more regularly to improve engagement")
		}
	}

	return recs
}

// OptimizationTips returns growth-oriented suggestions for cross-platform
// presence, in deterministic rule order.
func OptimizationTips(twitter, linkedin *profile.Profile) []string {
	var tips []string

	if twitter != nil && linkedin != nil {
		if !namesEqual(twitter.Name, linkedin.Name) {
			tips = append(tips, "Use the same display name on both platforms for recognizability")
		}
		if twitter.Bio == "" || linkedin.Bio == "" {
			tips = append(tips, "Keep a bio on every platform, even a short one")
		}
		if twitter.Website == "" && linkedin.Website == "" {
			tips = append(tips, "Cross-link your profiles through a shared website")
		}
		if Consistency(twitter, linkedin) < 50 {
			tips = append(tips, "Align names, locations, and photos so your profiles read as one person")
		}
	}

	return tips
}
