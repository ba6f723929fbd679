// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about analysis runs and graph builds.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAnalysisHooks(&myAnalysisHooks{})
//	    observability.SetGraphHooks(&myGraphHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnFileStart(ctx, path)
//	// ... check the file ...
//	observability.Analysis().OnFileComplete(ctx, path, offenses, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from check runs.
type AnalysisHooks interface {
	// Run events
	OnRunStart(ctx context.Context, runID, root string, files int)
	OnRunComplete(ctx context.Context, runID string, offenses int, duration time.Duration, err error)

	// Per-file events
	OnFileStart(ctx context.Context, path string)
	OnFileComplete(ctx context.Context, path string, offenses int, duration time.Duration, err error)
}

// =============================================================================
// Graph Hooks
// =============================================================================

// GraphHooks receives events from dependency graph builds.
type GraphHooks interface {
	// OnBuildStart records the beginning of a graph build.
	OnBuildStart(ctx context.Context, root string)

	// OnModuleVisited records one module's parse outcome during the build.
	OnModuleVisited(ctx context.Context, path string, parsed bool)

	// OnBuildComplete records the finished build with its final size.
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnRunStart(context.Context, string, string, int)                   {}
func (NoopAnalysisHooks) OnRunComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopAnalysisHooks) OnFileStart(context.Context, string)                               {}
func (NoopAnalysisHooks) OnFileComplete(context.Context, string, int, time.Duration, error) {}

// NoopGraphHooks is a no-op implementation of GraphHooks.
type NoopGraphHooks struct{}

func (NoopGraphHooks) OnBuildStart(context.Context, string)                            {}
func (NoopGraphHooks) OnModuleVisited(context.Context, string, bool)                   {}
func (NoopGraphHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks AnalysisHooks = NoopAnalysisHooks{}
	graphHooks    GraphHooks    = NoopGraphHooks{}
	hooksMu       sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetGraphHooks registers custom graph hooks.
// This should be called once at application startup before any builds.
func SetGraphHooks(h GraphHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Graph returns the registered graph hooks.
func Graph() GraphHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	graphHooks = NoopGraphHooks{}
}
