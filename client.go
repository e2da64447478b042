package inject

import (
	"context"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// Client is the standard dependency injection client. It owns the registry
// of type bindings, callback bindings and callback overrides, and exposes
// the call-with-DI entry points.
//
// Registration calls are expected to happen during application setup, not
// concurrently with in-flight resolutions. Concurrent reads during
// resolutions are safe.
//
// A client registers itself as a *Client type dependency so resolved
// functions can take the client as a parameter.
type Client struct {
	typeDeps    map[reflect.Type]any
	providers   map[reflect.Type]*Callback
	overrides   map[*Callback]*Callback
	makeContext func(*Client) Context
	logger      zerolog.Logger
}

// ClientOption is a functional option for configuring a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for resolution debug events. The default
// logger discards everything.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMakeContext sets the factory used to construct the injection context
// for each top-level call. The default factory makes a fresh CachingContext
// per call.
func WithMakeContext(factory func(*Client) Context) ClientOption {
	return func(c *Client) {
		c.makeContext = factory
	}
}

// NewClient creates a dependency injection client.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		typeDeps:  make(map[reflect.Type]any),
		providers: make(map[reflect.Type]*Callback),
		overrides: make(map[*Callback]*Callback),
		logger:    zerolog.Nop(),
	}
	c.makeContext = func(client *Client) Context {
		return NewCachingContext(client)
	}
	for _, option := range options {
		option(c)
	}
	c.typeDeps[reflect.TypeOf(c)] = c
	return c
}

// SetTypeDependency binds value as the implementation for the type key.
// Rebinding an existing key replaces the previous value. It returns the
// client to allow chained configuration calls.
func (c *Client) SetTypeDependency(key reflect.Type, value any) *Client {
	c.typeDeps[key] = value
	return c
}

// Set binds value as the implementation for the type T on the client. Use
// this over Client.SetTypeDependency when registering against an interface
// type.
func Set[T any](c *Client, value T) *Client {
	return c.SetTypeDependency(Key[T](), value)
}

// GetTypeDependency returns the value bound directly to the type key.
func (c *Client) GetTypeDependency(key reflect.Type) (any, bool) {
	value, ok := c.typeDeps[key]
	return value, ok
}

// RemoveTypeDependency removes the binding for the type key.
func (c *Client) RemoveTypeDependency(key reflect.Type) *Client {
	delete(c.typeDeps, key)
	return c
}

// SetCallbackDependency binds a callback as the producer for the type key.
// The callback runs whenever a resolution needs the type and no direct
// value satisfies it.
func (c *Client) SetCallbackDependency(key reflect.Type, cb *Callback) *Client {
	c.providers[key] = cb
	return c
}

// Provide wraps fn in a new callback handle, binds it as the producer for
// the type T, and returns the handle for later override registration.
//
// This panics if fn is not a function or cannot produce a value assignable
// to T.
func Provide[T any](c *Client, fn any) *Callback {
	key := Key[T]()
	fnType := reflect.TypeOf(fn)
	if fnType == nil || fnType.Kind() != reflect.Func {
		panic(fmt.Sprintf("callback dependency for %v must be a function, got %v", key, fnType))
	}
	produces := false
	for i := 0; i < fnType.NumOut(); i++ {
		if out := fnType.Out(i); !out.AssignableTo(errorType) && out.AssignableTo(key) {
			produces = true
			break
		}
	}
	if !produces {
		panic(fmt.Sprintf("callback dependency %v cannot produce a value assignable to %v", fnType, key))
	}

	cb := NewCallback(fn)
	c.SetCallbackDependency(key, cb)
	return cb
}

// SetCallbackOverride substitutes override for original wherever a
// resolution would invoke original. Result caching still keys on the
// original handle's identity. Rebinding replaces any previous override. It
// returns the client to allow chained configuration calls.
func (c *Client) SetCallbackOverride(original, override *Callback) *Client {
	c.overrides[original] = override
	return c
}

// GetCallbackOverride returns the override registered for cb, or nil.
func (c *Client) GetCallbackOverride(cb *Callback) *Callback {
	return c.overrides[cb]
}

// RemoveCallbackOverride removes the override registered for cb.
func (c *Client) RemoveCallbackOverride(cb *Callback) *Client {
	delete(c.overrides, cb)
	return c
}

// SetMakeContext sets the factory used to make injection contexts for this
// client's top-level calls. It returns the client to allow chained
// configuration calls.
func (c *Client) SetMakeContext(factory func(*Client) Context) *Client {
	c.makeContext = factory
	return c
}

// MakeContext constructs a new injection context using the configured
// factory.
func (c *Client) MakeContext() Context {
	return c.makeContext(c)
}

// CallWithDI resolves fn's parameters and invokes it synchronously. Explicit
// arguments fill parameters in declaration order and always take precedence
// over injected values; remaining parameters are resolved from the
// registry. The first non-error result of fn is returned; an error result
// propagates unchanged.
//
// If fn or any callback in its dependency chain takes a context.Context
// this fails with SyncOnlyError before invoking it.
func (c *Client) CallWithDI(fn any, args ...any) (any, error) {
	return c.CallWithContextDI(c.MakeContext(), fn, args...)
}

// CallWithAsyncDI behaves like CallWithDI on the async resolution path: ctx
// is threaded through to fn and to every callback in the chain that takes a
// context.Context, so cancellation of ctx is inherited by the whole
// resolution.
func (c *Client) CallWithAsyncDI(ctx context.Context, fn any, args ...any) (any, error) {
	return c.CallWithContextAsyncDI(ctx, c.MakeContext(), fn, args...)
}

// CallWithContextDI is CallWithDI with a caller-supplied injection context,
// allowing cache entries and overrides to persist across multiple calls.
func (c *Client) CallWithContextDI(ictx Context, fn any, args ...any) (any, error) {
	r := &resolver{client: c, ictx: ictx}
	return r.call(fn, args)
}

// CallWithContextAsyncDI is CallWithAsyncDI with a caller-supplied
// injection context.
func (c *Client) CallWithContextAsyncDI(ctx context.Context, ictx Context, fn any, args ...any) (any, error) {
	r := &resolver{client: c, ctx: ctx, ictx: ictx, async: true}
	return r.call(fn, args)
}

// Call behaves like Client.CallWithDI but returns the result as T.
func Call[T any](c *Client, fn any, args ...any) (T, error) {
	return typedResult[T](c.CallWithDI(fn, args...))
}

// CallAsync behaves like Client.CallWithAsyncDI but returns the result as T.
func CallAsync[T any](c *Client, ctx context.Context, fn any, args ...any) (T, error) {
	return typedResult[T](c.CallWithAsyncDI(ctx, fn, args...))
}

func typedResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, &ConfigurationError{
			Message: fmt.Sprintf("call result %T is not assignable to %v", result, Key[T]()),
		}
	}
	return typed, nil
}

// findTypeDependency looks up the direct value binding for key, falling
// back to an assignability scan when key is an interface so a registered
// concrete implementation can satisfy it.
func (c *Client) findTypeDependency(key reflect.Type) (any, bool) {
	if value, ok := c.typeDeps[key]; ok {
		return value, true
	}
	if key.Kind() == reflect.Interface {
		for bound, value := range c.typeDeps {
			if canAssign(bound, key) {
				return value, true
			}
		}
	}
	return nil, false
}

// findCallbackDependency looks up the callback binding for key, with the
// same interface assignability fallback as findTypeDependency.
func (c *Client) findCallbackDependency(key reflect.Type) (*Callback, bool) {
	if cb, ok := c.providers[key]; ok {
		return cb, true
	}
	if key.Kind() == reflect.Interface {
		for bound, cb := range c.providers {
			if canAssign(bound, key) {
				return cb, true
			}
		}
	}
	return nil, false
}
