// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about diagram rebuilds, model transactions,
// and rendering.
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
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetDiagramHooks(&myDiagramHooks{})
//	    // ... run application
//	}
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Diagram Hooks
// =============================================================================

// DiagramHooks receives events from diagram rebuild and binding refresh.
type DiagramHooks interface {
	// OnRebuild records a full or partial rebuild of the visual tree.
	OnRebuild(ctx context.Context, templateID string, partCount int, duration time.Duration)

	// OnBindingRefresh records one binding refresh pass over a part.
	OnBindingRefresh(ctx context.Context, applied int)

	// OnLayout records a layout oracle invocation.
	OnLayout(ctx context.Context, nodeCount, linkCount int, duration time.Duration)
}

// =============================================================================
// Model Hooks
// =============================================================================

// ModelHooks receives events from the graph model's undo manager.
type ModelHooks interface {
	// OnTransactionCommit records a committed transaction and its edit count.
	OnTransactionCommit(ctx context.Context, name string, edits int)

	// OnUndo records an undo of a committed transaction.
	OnUndo(ctx context.Context, name string)

	// OnRedo records a redo of an undone transaction.
	OnRedo(ctx context.Context, name string)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from rendering operations.
type RenderHooks interface {
	// OnRenderStart records the beginning of a render in the given format.
	OnRenderStart(ctx context.Context, format string)

	// OnRenderComplete records a finished render with output size.
	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDiagramHooks is a no-op implementation of DiagramHooks.
type NoopDiagramHooks struct{}

func (NoopDiagramHooks) OnRebuild(context.Context, string, int, time.Duration) {}
func (NoopDiagramHooks) OnBindingRefresh(context.Context, int) {}
func (NoopDiagramHooks) OnLayout(context.Context, int, int, time.Duration) {}

// NoopModelHooks is a no-op implementation of ModelHooks.
type NoopModelHooks struct{}

func (NoopModelHooks) OnTransactionCommit(context.Context, string, int) {}
func (NoopModelHooks) OnUndo(context.Context, string) {}
func (NoopModelHooks) OnRedo(context.Context, string) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRenderStart(context.Context, string) {}
func (NoopRenderHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	diagramHooks DiagramHooks = NoopDiagramHooks{}
	modelHooks   ModelHooks   = NoopModelHooks{}
	renderHooks  RenderHooks  = NoopRenderHooks{}
	hooksMu      sync.RWMutex
)

// SetDiagramHooks registers custom diagram hooks.
// This should be called once at application startup.
func SetDiagramHooks(h DiagramHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		diagramHooks = h
	}
}

// SetModelHooks registers custom model hooks.
// This should be called once at application startup.
func SetModelHooks(h ModelHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		modelHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
// This should be called once at application startup.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Diagram returns the registered diagram hooks.
func Diagram() DiagramHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return diagramHooks
}

// Model returns the registered model hooks.
func Model() ModelHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return modelHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	diagramHooks = NoopDiagramHooks{}
	modelHooks = NoopModelHooks{}
	renderHooks = NoopRenderHooks{}
}
