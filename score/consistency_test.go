package score

import (
	"testing"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

func TestConsistency(t *testing.T) {
	tests := []struct {
		name    string
		a       *profile.Profile
		b       *profile.Profile
		wantMin int
		wantMax int
	}{
		{
			name:    "identical name and location",
			a:       &profile.Profile{Name: "Jane Doe", Location: "Berlin, Germany"},
			b:       &profile.Profile{Name: "jane doe", Location: "berlin, germany"},
			wantMin: 45, // 25 name + 20 location, before any bonus fields
			wantMax: 100,
		},
		{
			name:    "fuzzy name via first token",
			a:       &profile.Profile{Name: "Jane Doe"},
			b:       &profile.Profile{Name: "Jane M. Doe"},
			wantMin: 15,
			wantMax: 25,
		},
		{
			name:    "location word overlap only",
			a:       &profile.Profile{Name: "A", Location: "Berlin, Germany"},
			b:       &profile.Profile{Name: "B", Location: "Berlin"},
			wantMin: 10,
			wantMax: 20,
		},
		{
			name:    "nothing in common",
			a:       &profile.Profile{Name: "Jane Doe", Location: "Berlin"},
			b:       &profile.Profile{Name: "Max Power", Location: "Lisbon"},
			wantMin: 0,
			wantMax: 0,
		},
		{
			name:    "empty profiles",
			a:       &profile.Profile{},
			b:       &profile.Profile{},
			wantMin: 0,
			wantMax: 0,
		},
		{
			name: "everything matches",
			a: &profile.Profile{
				Username: "jdoe", Name: "Jane Doe", Location: "Berlin",
				Bio: "engineer", ImageURL: "https://a/img", Website: "https://jane.dev",
			},
			b: &profile.Profile{
				Username: "JDoe", Name: "Jane Doe", Location: "Berlin",
				Bio: "builder", ImageURL: "https://b/img", Website: "https://jane.dev",
			},
			wantMin: 90,
			wantMax: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Consistency(tt.a, tt.b)
			if got < tt.wantMin || got > tt.wantMax {
				t.Errorf("Consistency = %d, want between %d and %d", got, tt.wantMin, tt.wantMax)
			}
			// Symmetry: argument order must not matter.
			if rev := Consistency(tt.b, tt.a); rev != got {
				t.Errorf("Consistency not symmetric: %d vs %d", got, rev)
			}
		})
	}

	if got := Consistency(nil, &profile.Profile{}); got != 0 {
		t.Errorf("Consistency(nil, ...) = %d, want 0", got)
	}
}

func TestOptimizationTips(t *testing.T) {
	tw := &profile.Profile{Platform: profile.Twitter, Name: "Jane Doe", Bio: "eng"}
	li := &profile.Profile{Platform: profile.LinkedIn, Name: "J. Doe", Bio: "eng"}

	tips := OptimizationTips(tw, li)
	if len(tips) == 0 {
		t.Fatal("mismatched profiles produced no tips")
	}

	if tips2 := OptimizationTips(tw, li); len(tips2) != len(tips) {
		t.Errorf("tips not deterministic: %d vs %d", len(tips), len(tips2))
	}

	if got := OptimizationTips(nil, li); got != nil {
		t.Errorf("OptimizationTips with nil profile = %v, want nil", got)
	}
}
