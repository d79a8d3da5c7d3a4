// Package observability provides hooks for metrics and event reporting.
//
// The option serializer, the tree renderer and the preview API emit events
// through the hook interfaces below. Nothing is recorded unless the host
// program registers an implementation; the defaults are no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSerializerHooks(&mySerializerHooks{})
//	    observability.SetRenderHooks(&myRenderHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := f.process(universe)
//	observability.Serializer().OnProcess(universe, len(f.serialized), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Serializer Hooks
// =============================================================================

// SerializerHooks receives events from the option-set serializer.
type SerializerHooks interface {
	// OnProcess records one top-level Process call. optionCount is the
	// number of serialized top-level options and zero on failure.
	OnProcess(universe int, optionCount int, duration time.Duration, err error)

	// OnDecode records a wire-to-form conversion.
	OnDecode(optionCount int, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from the tree renderer.
type RenderHooks interface {
	// OnBuild records the construction of a tree over a new value.
	OnBuild(nodeCount int, duration time.Duration)

	// OnPageApplied records a completed page change.
	OnPageApplied(page int)

	// OnLoadMore records a recursion placeholder being expanded.
	OnLoadMore(level int)

	// OnSecretRevealed records an explicit reveal; allowed is false when the
	// request was refused.
	OnSecretRevealed(key string, allowed bool)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the preview API server.
type HTTPHooks interface {
	// OnResponse records a served request.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSerializerHooks is a no-op implementation of SerializerHooks.
type NoopSerializerHooks struct{}

func (NoopSerializerHooks) OnProcess(int, int, time.Duration, error) {}
func (NoopSerializerHooks) OnDecode(int, error)                      {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnBuild(int, time.Duration)    {}
func (NoopRenderHooks) OnPageApplied(int)             {}
func (NoopRenderHooks) OnLoadMore(int)                {}
func (NoopRenderHooks) OnSecretRevealed(string, bool) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	serializerHooks SerializerHooks = NoopSerializerHooks{}
	renderHooks     RenderHooks     = NoopRenderHooks{}
	httpHooks       HTTPHooks       = NoopHTTPHooks{}
	hooksMu         sync.RWMutex
)

// SetSerializerHooks registers custom serializer hooks.
// This should be called once at application startup.
func SetSerializerHooks(h SerializerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serializerHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Serializer returns the registered serializer hooks.
func Serializer() SerializerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serializerHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	serializerHooks = NoopSerializerHooks{}
	renderHooks = NoopRenderHooks{}
	httpHooks = NoopHTTPHooks{}
}
