package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/exepack/pkg/resolver"
)

// GraphResolver answers dependency queries from a static graph.
// Graph keys are base names; values are the absolute source paths of the
// direct dependencies.
type GraphResolver struct {
	Graph map[string][]string
	// Errors forces a failure for the given base names
	Errors map[string]error

	mu      sync.Mutex
	queries []string
}

// NewGraphResolver creates a resolver for graph
func NewGraphResolver(graph map[string][]string) *GraphResolver {
	return &GraphResolver{Graph: graph, Errors: map[string]error{}}
}

// Resolve implements resolver.Resolver
func (g *GraphResolver) Resolve(ctx context.Context, path string) ([]resolver.Dependency, error) {
	g.mu.Lock()
	g.queries = append(g.queries, path)
	g.mu.Unlock()

	name := filepath.Base(path)
	if err, ok := g.Errors[name]; ok {
		return nil, err
	}

	var deps []resolver.Dependency
	for _, p := range g.Graph[name] {
		if !filepath.IsAbs(p) {
			return nil, fmt.Errorf("graph entry %q for %s is not absolute", p, name)
		}
		deps = append(deps, resolver.Dependency{Name: filepath.Base(p), Path: p})
	}
	return deps, nil
}

// Queries returns every path queried so far, in order
func (g *GraphResolver) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

// QueryCount returns how many times a path with the given base name was queried
func (g *GraphResolver) QueryCount(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, q := range g.queries {
		if filepath.Base(q) == name {
			n++
		}
	}
	return n
}
