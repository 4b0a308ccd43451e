// Package netmap builds bounded network graphs from a seed profile via
// breadth-first traversal of platform connections.
package netmap

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/codeGROOVE-dev/socialmap/profile"
)

// ConnectionFetchLimit caps how many connections are requested per node
// expansion, independent of the overall maxNodes bound.
const ConnectionFetchLimit = 20

// Node size bounds for the log scale over follower counts.
const (
	minNodeSize = 10
	maxNodeSize = 50
)

// platformColors maps platforms to their brand color for rendering.
var platformColors = map[profile.Platform]string{
	profile.Twitter:  "#1DA1F2",
	profile.LinkedIn: "#0077B5",
	profile.GitHub:   "#24292E",
}

// defaultColor is used for platforms without a color entry.
const defaultColor = "#9AA0A6"

// Node is the visualization-ready projection of a profile.
type Node struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Username string           `json:"username,omitempty"`
	Platform profile.Platform `json:"platform"`
	Size     int              `json:"size"`
	Color    string           `json:"color"`
	Verified bool             `json:"verified,omitempty"`
}

// Edge is a directed relation between two nodes.
type Edge struct {
	Source   string           `json:"source"`
	Target   string           `json:"target"`
	Type     string           `json:"type"` // "follows" or "connection"
	Platform profile.Platform `json:"platform"`
}

// Meta describes how a map was generated.
type Meta struct {
	Platform    profile.Platform `json:"platform"`
	Depth       int              `json:"depth"`
	MaxNodes    int              `json:"max_nodes"`
	GeneratedAt time.Time        `json:"generated_at"`
	NodeCount   int              `json:"node_count"`
	EdgeCount   int              `json:"edge_count"`
}

// NetworkMap is a bounded graph rooted at a seed profile. The center node
// is always present in Nodes, whether or not traversal reaches it via edges.
type NetworkMap struct {
	Center Node   `json:"center"`
	Nodes  []Node `json:"nodes"`
	Edges  []Edge `json:"edges"`
	Meta   Meta   `json:"meta"`
}

// Builder runs bounded breadth-first traversals through a platform adapter.
// Expansion is sequential, one connections fetch per dequeued node, so the
// queue and seen-set bookkeeping stay deterministic.
type Builder struct {
	logger     *slog.Logger
	fetchLimit int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithFetchLimit overrides the per-node connection fetch cap.
func WithFetchLimit(limit int) Option {
	return func(b *Builder) {
		if limit > 0 {
			b.fetchLimit = limit
		}
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger:     slog.Default(),
		fetchLimit: ConnectionFetchLimit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type queueEntry struct {
	node  Node
	depth int
}

// Build expands the seed identifier into a depth- and size-bounded graph.
//
// The seed is always expanded once, even at depth 0: its one-hop edges and
// leaf nodes are emitted, and the depth bound gates only whether children
// are enqueued for further expansion. This boundary behavior is fixed, not
// an accident of the loop.
//
// A failed connections fetch for a single node is logged and contributes
// zero edges; it never aborts the build. A failed seed fetch does.
func (b *Builder) Build(ctx context.Context, adapter profile.Adapter, platform profile.Platform, seedIdentifier string, depth, maxNodes int) (*NetworkMap, error) {
	if depth < 0 {
		depth = 0
	}
	if maxNodes < 1 {
		maxNodes = 1
	}

	seed, err := adapter.Profile(ctx, seedIdentifier)
	if err != nil {
		return nil, fmt.Errorf("fetch seed profile %q: %w", seedIdentifier, err)
	}

	center := nodeFromProfile(seed)
	relation := relationType(platform)

	var (
		nodes []Node
		edges []Edge
		seen  = make(map[string]bool)
		queue = []queueEntry{{node: center, depth: 0}}
	)

	for len(queue) > 0 && len(nodes) < maxNodes {
		entry := queue[0]
		queue = queue[1:]

		if seen[entry.node.ID] {
			continue
		}
		seen[entry.node.ID] = true
		nodes = append(nodes, entry.node)

		cs, err := adapter.Connections(ctx, entry.node.ID, b.fetchLimit)
		if err != nil || cs == nil {
			b.logger.WarnContext(ctx, "connection fetch failed during traversal, skipping expansion",
				"platform", platform, "node", entry.node.ID, "depth", entry.depth, "error", err)
			continue
		}

		for _, conn := range cs.Connections {
			edges = append(edges, Edge{
				Source:   entry.node.ID,
				Target:   conn.ID,
				Type:     relation,
				Platform: platform,
			})

			if seen[conn.ID] {
				continue
			}
			child := nodeFromConnection(platform, conn)
			if entry.depth+1 < depth {
				queue = append(queue, queueEntry{node: child, depth: entry.depth + 1})
			} else if len(nodes) < maxNodes {
				// Leaf: emit without further expansion.
				seen[conn.ID] = true
				nodes = append(nodes, child)
			}
		}
	}

	m := &NetworkMap{
		Center: center,
		Nodes:  nodes,
		Edges:  edges,
		Meta: Meta{
			Platform:    platform,
			Depth:       depth,
			MaxNodes:    maxNodes,
			GeneratedAt: time.Now().UTC(),
			NodeCount:   len(nodes),
			EdgeCount:   len(edges),
		},
	}

	b.logger.InfoContext(ctx, "network map built",
		"platform", platform, "seed", seedIdentifier,
		"depth", depth, "max_nodes", maxNodes,
		"nodes", len(nodes), "edges", len(edges))

	return m, nil
}

func nodeFromProfile(p *profile.Profile) Node {
	name := p.Name
	if name == "" {
		name = p.Username
	}
	return Node{
		ID:       p.ID,
		Name:     name,
		Username: p.Username,
		Platform: p.Platform,
		Size:     nodeSize(p.Followers),
		Color:    platformColor(p.Platform),
		Verified: p.Verified,
	}
}

func nodeFromConnection(platform profile.Platform, c profile.Connection) Node {
	return Node{
		ID:       c.ID,
		Name:     c.Name,
		Platform: platform,
		Size:     nodeSize(c.Followers),
		Color:    platformColor(platform),
		Verified: c.Verified,
	}
}

// nodeSize maps a follower count onto [minNodeSize, maxNodeSize] with a
// log10 scale, so a 100k-follower account caps out rather than dwarfing
// everything else.
func nodeSize(followers int) int {
	if followers < 0 {
		followers = 0
	}
	size := minNodeSize + int(math.Round(8*math.Log10(float64(followers+1))))
	if size < minNodeSize {
		return minNodeSize
	}
	if size > maxNodeSize {
		return maxNodeSize
	}
	return size
}

func platformColor(p profile.Platform) string {
	if c, ok := platformColors[p]; ok {
		return c
	}
	return defaultColor
}

func relationType(p profile.Platform) string {
	if p == profile.LinkedIn {
		return "connection"
	}
	return "follows"
}
