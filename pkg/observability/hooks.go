// Package observability provides hooks for metrics and tracing of pipeline
// runs.
//
// The package uses a simple hooks pattern: a hook interface, a no-op default
// and a registry that main can fill at startup. Library code never imports a
// metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// The pipeline calls them around each stage:
//
//	observability.Pipeline().OnOpenStart(ctx, path)
//	// ... map the image, locate the region map ...
//	observability.Pipeline().OnOpenComplete(ctx, path, areas, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the dump pipeline.
type PipelineHooks interface {
	// Open events: mapping the image and locating its region map.
	OnOpenStart(ctx context.Context, path string)
	OnOpenComplete(ctx context.Context, path string, areas int, duration time.Duration, err error)

	// Build events: resolving the area tree.
	OnBuildStart(ctx context.Context, areas int)
	OnBuildComplete(ctx context.Context, nodes, conflicts int, duration time.Duration, err error)

	// Render events: printing a listing.
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnOpenStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnOpenComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, time.Duration, error)     {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
