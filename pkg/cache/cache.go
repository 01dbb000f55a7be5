// Package cache provides caching for graph builds, layouts, and rendered
// artifacts.
//
// Three backends are available: FileCache for CLI usage, RedisCache for the
// serve mode, and NullCache to disable caching entirely. Keys are generated
// through the Keyer interface so that callers never concatenate key strings
// by hand.
package cache

import (
	"context"
	"time"
)

// Default TTLs per cached stage. Graphs expire faster than layouts and
// artifacts because upstream inputs change more often than the geometry
// derived from a fixed graph.
const (
	TTLGraph    = 1 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GraphKeyOpts are the build parameters that affect the produced graph.
type GraphKeyOpts struct {
	Style string
}

// LayoutKeyOpts are the layout parameters that affect node placement.
type LayoutKeyOpts struct {
	MedianPasses   int
	TransposeIters int
	NodeDist       float64
	LayerDist      float64
	RelaxIters     int
}

// ArtifactKeyOpts are the render parameters that affect emitted output.
type ArtifactKeyOpts struct {
	Format    string
	GraphName string
	Style     string
}

// Keyer generates cache keys for the three pipeline stages.
type Keyer interface {
	// GraphKey generates a key for a built graph.
	GraphKey(source, input string, opts GraphKeyOpts) string

	// LayoutKey generates a key for a computed layout.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey generates a key for a built graph.
func (k *DefaultKeyer) GraphKey(source, input string, opts GraphKeyOpts) string {
	return hashKey("graph", source, input, opts)
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
