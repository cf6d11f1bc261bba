// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about dataset provisioning and coefficient lookups.
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
//	    observability.SetFetchHooks(&myFetchHooks{})
//	    observability.SetLookupHooks(&myLookupHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Fetch().OnDownloadStart(ctx, url)
//	// ... download ...
//	observability.Fetch().OnDownloadComplete(ctx, url, size, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Fetch Hooks
// =============================================================================

// FetchHooks receives events from dataset provisioning.
type FetchHooks interface {
	// OnCacheHit records that the local dataset file was already present
	// and no download was attempted.
	OnCacheHit(ctx context.Context, path string)

	// OnDownloadStart records the beginning of a dataset download.
	OnDownloadStart(ctx context.Context, url string)

	// OnDownloadComplete records the end of a dataset download.
	OnDownloadComplete(ctx context.Context, url string, size int64, duration time.Duration, err error)
}

// =============================================================================
// Lookup Hooks
// =============================================================================

// LookupHooks receives events from coefficient lookups.
type LookupHooks interface {
	// OnLookupStart records an incoming coefficient query.
	OnLookupStart(ctx context.Context, teff float64)

	// OnLookupComplete records the result of a coefficient query.
	OnLookupComplete(ctx context.Context, teff float64, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopFetchHooks is a no-op implementation of FetchHooks.
type NoopFetchHooks struct{}

func (NoopFetchHooks) OnCacheHit(context.Context, string)      {}
func (NoopFetchHooks) OnDownloadStart(context.Context, string) {}
func (NoopFetchHooks) OnDownloadComplete(context.Context, string, int64, time.Duration, error) {
}

// NoopLookupHooks is a no-op implementation of LookupHooks.
type NoopLookupHooks struct{}

func (NoopLookupHooks) OnLookupStart(context.Context, float64)                          {}
func (NoopLookupHooks) OnLookupComplete(context.Context, float64, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	fetchHooks  FetchHooks  = NoopFetchHooks{}
	lookupHooks LookupHooks = NoopLookupHooks{}
	hooksMu     sync.RWMutex
)

// SetFetchHooks registers custom fetch hooks.
// This should be called once at application startup before any provisioning.
func SetFetchHooks(h FetchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		fetchHooks = h
	}
}

// SetLookupHooks registers custom lookup hooks.
// This should be called once at application startup before any lookups.
func SetLookupHooks(h LookupHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		lookupHooks = h
	}
}

// Fetch returns the registered fetch hooks.
func Fetch() FetchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return fetchHooks
}

// Lookup returns the registered lookup hooks.
func Lookup() LookupHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return lookupHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	fetchHooks = NoopFetchHooks{}
	lookupHooks = NoopLookupHooks{}
}
