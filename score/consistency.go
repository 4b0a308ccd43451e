package score

import (
	"strings"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

// Consistency point table. Name and location carry the most weight; the
// presence checks give flat partial credit without deep comparison.
const (
	nameExactPoints    = 25
	nameFuzzyPoints    = 15
	locExactPoints     = 20
	locOverlapPoints   = 10
	usernamePoints     = 15
	bothImagesPoints   = 10
	bothBiosPoints     = 10
	bothWebsitesPoints = 10
)

// Consistency compares two profiles of the same person on different
// platforms and scores how consistent they look, clamped to [0, 100].
func Consistency(a, b *profile.Profile) int {
	if a == nil || b == nil {
		return 0
	}

	var s int

	switch {
	case namesEqual(a.Name, b.Name):
		s += nameExactPoints
	case namesSimilar(a.Name, b.Name):
		s += nameFuzzyPoints
	}

	switch {
	case locationsEqual(a.Location, b.Location):
		s += locExactPoints
	case locationsOverlap(a.Location, b.Location):
		s += locOverlapPoints
	}

	if a.Username != "" && normalize(a.Username) == normalize(b.Username) {
		s += usernamePoints
	}
	if a.ImageURL != "" && b.ImageURL != "" {
		s += bothImagesPoints
	}
	if a.Bio != "" && b.Bio != "" {
		s += bothBiosPoints
	}
	if a.Website != "" && b.Website != "" {
		s += bothWebsitesPoints
	}

	return clamp(s)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func namesEqual(a, b string) bool {
	return a != "" && normalize(a) == normalize(b)
}

// namesSimilar gives partial credit when either name contains the other's
// first token ("Jane Doe" vs "Jane M. Doe", "Jane" vs "Jane Doe").
func namesSimilar(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return false
	}
	fa := strings.Fields(na)
	fb := strings.Fields(nb)
	if len(fa) == 0 || len(fb) == 0 {
		return false
	}
	return strings.Contains(nb, fa[0]) || strings.Contains(na, fb[0])
}

func locationsEqual(a, b string) bool {
	return a != "" && normalize(a) == normalize(b)
}

// locationsOverlap gives partial credit for a shared word
// ("Berlin, Germany" vs "Berlin").
func locationsOverlap(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == "" || nb == "" {
		return false
	}
	sep := func(r rune) bool { return r == ',' || r == ' ' }
	wordsB := make(map[string]bool)
	for _, w := range strings.FieldsFunc(nb, sep) {
		if len(w) >= 2 {
			wordsB[w] = true
		}
	}
	for _, w := range strings.FieldsFunc(na, sep) {
		if len(w) >= 2 && wordsB[w] {
			return true
		}
	}
	return false
}
