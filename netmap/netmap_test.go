package netmap

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/codeGROOVE-dev/socialmap/profile"
	"github.com/google/go-cmp/cmp"
)

// fakeAdapter serves a synthetic in-memory graph.
type fakeAdapter struct {
	profiles    map[string]*profile.Profile
	connections map[string][]profile.Connection
	failFor     map[string]bool // Connections fails for these ids
	fetches     int
}

func (f *fakeAdapter) Profile(_ context.Context, identifier string) (*profile.Profile, error) {
	p, ok := f.profiles[identifier]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeAdapter) Connections(_ context.Context, profileID string, maxResults int) (*profile.ConnectionSet, error) {
	f.fetches++
	if f.failFor[profileID] {
		return nil, errors.New("upstream exploded")
	}
	conns := f.connections[profileID]
	if len(conns) > maxResults {
		conns = conns[:maxResults]
	}
	return &profile.ConnectionSet{
		Platform:    profile.Twitter,
		ProfileID:   profileID,
		Connections: conns,
		Total:       len(f.connections[profileID]),
	}, nil
}

func (f *fakeAdapter) Status(context.Context) profile.Status {
	return profile.Status{State: "connected"}
}

// chain builds u1 -> u2 -> u3 -> ... -> uN.
func chainAdapter(n int) *fakeAdapter {
	f := &fakeAdapter{
		profiles:    make(map[string]*profile.Profile),
		connections: make(map[string][]profile.Connection),
		failFor:     make(map[string]bool),
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("u%d", i)
		f.profiles[id] = &profile.Profile{Platform: profile.Twitter, ID: id, Username: id, Name: "User " + id}
		if i < n {
			next := fmt.Sprintf("u%d", i+1)
			f.connections[id] = []profile.Connection{{ID: next, Name: "User " + next, Followers: i * 100}}
		}
	}
	return f
}

// fullyConnected builds a clique of n profiles.
func fullyConnected(n int) *fakeAdapter {
	f := &fakeAdapter{
		profiles:    make(map[string]*profile.Profile),
		connections: make(map[string][]profile.Connection),
		failFor:     make(map[string]bool),
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("u%d", i)
		f.profiles[id] = &profile.Profile{Platform: profile.Twitter, ID: id, Username: id}
		for j := 1; j <= n; j++ {
			if i == j {
				continue
			}
			other := fmt.Sprintf("u%d", j)
			f.connections[id] = append(f.connections[id], profile.Connection{ID: other, Name: other})
		}
	}
	return f
}

func TestBuildBounds(t *testing.T) {
	tests := []struct {
		name     string
		adapter  *fakeAdapter
		depth    int
		maxNodes int
	}{
		{"chain shallow", chainAdapter(10), 1, 5},
		{"chain deep", chainAdapter(10), 5, 5},
		{"clique small cap", fullyConnected(8), 3, 4},
		{"clique generous cap", fullyConnected(5), 10, 100},
		{"zero depth", chainAdapter(3), 0, 10},
	}

	b := NewBuilder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := b.Build(context.Background(), tt.adapter, profile.Twitter, "u1", tt.depth, tt.maxNodes)
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if len(m.Nodes) > tt.maxNodes {
				t.Errorf("node count %d exceeds maxNodes %d", len(m.Nodes), tt.maxNodes)
			}

			seen := make(map[string]bool)
			for _, n := range m.Nodes {
				if seen[n.ID] {
					t.Errorf("duplicate node id %q", n.ID)
				}
				seen[n.ID] = true
			}

			// The center node is always present.
			if m.Center.ID != "u1" {
				t.Errorf("center = %q, want u1", m.Center.ID)
			}
			if !seen["u1"] {
				t.Error("center node missing from node list")
			}

			if m.Meta.NodeCount != len(m.Nodes) || m.Meta.EdgeCount != len(m.Edges) {
				t.Errorf("meta counts %d/%d do not match %d nodes and %d edges",
					m.Meta.NodeCount, m.Meta.EdgeCount, len(m.Nodes), len(m.Edges))
			}
		})
	}
}

func TestBuildIsolatedSeed(t *testing.T) {
	f := &fakeAdapter{
		profiles: map[string]*profile.Profile{
			"u1": {Platform: profile.Twitter, ID: "u1", Followers: 0},
		},
		connections: map[string][]profile.Connection{},
		failFor:     map[string]bool{},
	}

	m, err := NewBuilder().Build(context.Background(), f, profile.Twitter, "u1", 2, 10)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(m.Nodes) != 1 {
		t.Errorf("node count = %d, want exactly 1 (the center)", len(m.Nodes))
	}
	if len(m.Edges) != 0 {
		t.Errorf("edge count = %d, want 0", len(m.Edges))
	}
}

// At depth 0 the seed is still expanded once: its one-hop edges and leaf
// nodes are emitted, only further expansion is blocked.
func TestBuildDepthZeroEmitsBoundaryEdges(t *testing.T) {
	f := chainAdapter(3)

	m, err := NewBuilder().Build(context.Background(), f, profile.Twitter, "u1", 0, 10)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantEdges := []Edge{
		{Source: "u1", Target: "u2", Type: "follows", Platform: profile.Twitter},
	}
	if diff := cmp.Diff(wantEdges, m.Edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if len(m.Nodes) != 2 {
		t.Errorf("node count = %d, want 2 (center plus leaf)", len(m.Nodes))
	}
	// u2 must not have been expanded.
	for _, e := range m.Edges {
		if e.Source == "u2" {
			t.Error("depth-0 build expanded a non-seed node")
		}
	}
}

func TestBuildPartialFailure(t *testing.T) {
	f := fullyConnected(4)
	f.failFor["u2"] = true

	m, err := NewBuilder().Build(context.Background(), f, profile.Twitter, "u1", 3, 10)
	if err != nil {
		t.Fatalf("partial expansion failure surfaced to caller: %v", err)
	}

	// u2 is emitted as a node but contributes no edges.
	var hasU2 bool
	for _, n := range m.Nodes {
		if n.ID == "u2" {
			hasU2 = true
		}
	}
	if !hasU2 {
		t.Error("node with failed expansion missing from map")
	}
	for _, e := range m.Edges {
		if e.Source == "u2" {
			t.Errorf("failed node emitted edge %v", e)
		}
	}
	if len(m.Nodes) != 4 || len(m.Edges) == 0 {
		t.Errorf("map degraded too far: %d nodes, %d edges", len(m.Nodes), len(m.Edges))
	}
}

// Termination on a clique: expansions are bounded by maxNodes even though
// every node links to every other.
func TestBuildCliqueTerminates(t *testing.T) {
	f := fullyConnected(30)

	m, err := NewBuilder().Build(context.Background(), f, profile.Twitter, "u1", 10, 12)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(m.Nodes) > 12 {
		t.Errorf("node count = %d, want <= 12", len(m.Nodes))
	}
	// Each expansion costs one connections fetch; expansions are bounded by
	// the emitted node count.
	if f.fetches > 12 {
		t.Errorf("connections fetches = %d, want <= 12", f.fetches)
	}
}

func TestBuildSeedNotFound(t *testing.T) {
	f := chainAdapter(2)

	_, err := NewBuilder().Build(context.Background(), f, profile.Twitter, "ghost", 2, 10)
	if !errors.Is(err, profile.ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestNodeSize(t *testing.T) {
	tests := []struct {
		followers int
		wantMin   int
		wantMax   int
	}{
		{0, 10, 10},
		{-5, 10, 10},
		{10, 10, 20},
		{1000, 30, 40},
		{100000, 50, 50},
		{10000000, 50, 50},
	}

	for _, tt := range tests {
		got := nodeSize(tt.followers)
		if got < tt.wantMin || got > tt.wantMax {
			t.Errorf("nodeSize(%d) = %d, want between %d and %d", tt.followers, got, tt.wantMin, tt.wantMax)
		}
	}

	prev := 0
	for _, f := range []int{0, 1, 10, 100, 1000, 10000, 100000} {
		size := nodeSize(f)
		if size < prev {
			t.Errorf("nodeSize not monotone at %d followers: %d < %d", f, size, prev)
		}
		prev = size
	}
}

func TestPlatformColor(t *testing.T) {
	if got := platformColor(profile.Twitter); got != "#1DA1F2" {
		t.Errorf("twitter color = %q", got)
	}
	if got := platformColor(profile.Platform("mastodon")); got != defaultColor {
		t.Errorf("unknown platform color = %q, want gray default", got)
	}
}

func TestRelationType(t *testing.T) {
	if got := relationType(profile.LinkedIn); got != "connection" {
		t.Errorf("linkedin relation = %q, want connection", got)
	}
	if got := relationType(profile.GitHub); got != "follows" {
		t.Errorf("github relation = %q, want follows", got)
	}
}
