package inject

import (
	"context"
	"reflect"
	"sync"
)

// Context is the injection scope for a call chain. It carries access to the
// owning client's registry, optionally caches callback results, and
// optionally layers type overrides over the client's bindings.
//
// A parameter of type Context on any resolved function receives the context
// of the current call chain, which allows nested calls to share one scope.
//
// A context must never mutate the client's registry.
type Context interface {
	// Client returns the client this context is bound to.
	Client() *Client

	// ResolveType looks up the binding for a type key visible to this
	// context. Override layers take precedence over the client registry.
	ResolveType(key reflect.Type) (any, bool)

	// CachedResult returns the stored result of a previously resolved
	// callback. Non-caching contexts always report a miss.
	CachedResult(cb *Callback) (any, bool)

	// CacheResult stores a callback result under the callback's handle.
	// This is a no-op for non-caching contexts.
	CacheResult(cb *Callback, value any)
}

// BasicContext is a Context without callback result caching. Every
// resolution that needs a callback invokes it.
type BasicContext struct {
	client *Client
}

// NewBasicContext creates a non-caching injection context bound to client.
func NewBasicContext(client *Client) *BasicContext {
	return &BasicContext{client: client}
}

func (c *BasicContext) Client() *Client {
	return c.client
}

func (c *BasicContext) ResolveType(key reflect.Type) (any, bool) {
	return c.client.findTypeDependency(key)
}

func (c *BasicContext) CachedResult(_ *Callback) (any, bool) {
	return nil, false
}

func (c *BasicContext) CacheResult(_ *Callback, _ any) {
}

// CallWithDI resolves and invokes fn synchronously within this context.
func (c *BasicContext) CallWithDI(fn any, args ...any) (any, error) {
	return c.client.CallWithContextDI(c, fn, args...)
}

// CallWithAsyncDI resolves and invokes fn within this context on the async
// path.
func (c *BasicContext) CallWithAsyncDI(ctx context.Context, fn any, args ...any) (any, error) {
	return c.client.CallWithContextAsyncDI(ctx, c, fn, args...)
}

// CachingContext is a Context that caches callback results for the lifetime
// of the context. A callback resolved more than once within the same
// context, including from nested resolutions, only runs once.
//
// The cache is safe for concurrent use. If two goroutines race on the first
// resolution of the same callback, the callback may run more than once and
// the first stored result wins.
type CachingContext struct {
	client  *Client
	mu      sync.Mutex
	results map[*Callback]any
}

// NewCachingContext creates a caching injection context bound to client.
func NewCachingContext(client *Client) *CachingContext {
	return &CachingContext{
		client:  client,
		results: make(map[*Callback]any),
	}
}

func (c *CachingContext) Client() *Client {
	return c.client
}

func (c *CachingContext) ResolveType(key reflect.Type) (any, bool) {
	return c.client.findTypeDependency(key)
}

func (c *CachingContext) CachedResult(cb *Callback) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.results[cb]
	return value, ok
}

func (c *CachingContext) CacheResult(cb *Callback, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.results[cb]; !ok {
		c.results[cb] = value
	}
}

// CallWithDI resolves and invokes fn synchronously within this context,
// preserving cached callback results across calls.
func (c *CachingContext) CallWithDI(fn any, args ...any) (any, error) {
	return c.client.CallWithContextDI(c, fn, args...)
}

// CallWithAsyncDI resolves and invokes fn within this context on the async
// path, preserving cached callback results across calls.
func (c *CachingContext) CallWithAsyncDI(ctx context.Context, fn any, args ...any) (any, error) {
	return c.client.CallWithContextAsyncDI(ctx, c, fn, args...)
}

// OverridingContext wraps another context and shadows its type lookups with
// additional bindings. The wrapped context and the client registry are
// never mutated; callback result caching passes through to the wrapped
// context.
type OverridingContext struct {
	wrapped   Context
	overrides map[reflect.Type]any
}

// NewOverridingContext creates an overriding context wrapping an existing
// context.
func NewOverridingContext(wrapped Context) *OverridingContext {
	return &OverridingContext{
		wrapped:   wrapped,
		overrides: make(map[reflect.Type]any),
	}
}

// NewOverridingContextFromClient creates an overriding context wrapping a
// fresh context made by the client's context factory.
func NewOverridingContextFromClient(client *Client) *OverridingContext {
	return NewOverridingContext(client.MakeContext())
}

func (c *OverridingContext) Client() *Client {
	return c.wrapped.Client()
}

// SetTypeDependency adds a context-specific type binding that shadows the
// wrapped context's bindings. It returns the context to allow chaining.
func (c *OverridingContext) SetTypeDependency(key reflect.Type, value any) *OverridingContext {
	c.overrides[key] = value
	return c
}

// SetOverride adds a context-specific binding for the type T.
func SetOverride[T any](c *OverridingContext, value T) *OverridingContext {
	return c.SetTypeDependency(Key[T](), value)
}

func (c *OverridingContext) ResolveType(key reflect.Type) (any, bool) {
	if value, ok := c.overrides[key]; ok {
		return value, true
	}
	if key.Kind() == reflect.Interface {
		for bound, value := range c.overrides {
			if canAssign(bound, key) {
				return value, true
			}
		}
	}
	return c.wrapped.ResolveType(key)
}

func (c *OverridingContext) CachedResult(cb *Callback) (any, bool) {
	return c.wrapped.CachedResult(cb)
}

func (c *OverridingContext) CacheResult(cb *Callback, value any) {
	c.wrapped.CacheResult(cb, value)
}

// CallWithDI resolves and invokes fn synchronously within this context.
func (c *OverridingContext) CallWithDI(fn any, args ...any) (any, error) {
	return c.Client().CallWithContextDI(c, fn, args...)
}

// CallWithAsyncDI resolves and invokes fn within this context on the async
// path.
func (c *OverridingContext) CallWithAsyncDI(ctx context.Context, fn any, args ...any) (any, error) {
	return c.Client().CallWithContextAsyncDI(ctx, c, fn, args...)
}
