package inject

import (
	"context"
)

type scopeKeyType int

const scopeKey scopeKeyType = 0

// Scope binds a client to the context so call sites further down the chain
// can retrieve it without the client being threaded through explicitly.
// The binding is plain context carriage with no mutable global state: it
// lives exactly as long as the returned context.
func Scope(ctx context.Context, client *Client) context.Context {
	return context.WithValue(ctx, scopeKey, client)
}

// ScopedClient returns the client bound to the context, if any.
func ScopedClient(ctx context.Context) (*Client, bool) {
	client, ok := ctx.Value(scopeKey).(*Client)
	return client, ok
}

// MustScopedClient returns the client bound to the context and panics if
// there is none.
func MustScopedClient(ctx context.Context) *Client {
	client, ok := ScopedClient(ctx)
	if !ok {
		panic("no injection client bound to context")
	}
	return client
}

// CallScoped resolves and invokes fn using the context's bound client on
// the async path. It panics if no client is bound to the context.
func CallScoped(ctx context.Context, fn any, args ...any) (any, error) {
	return MustScopedClient(ctx).CallWithAsyncDI(ctx, fn, args...)
}

// ScopedCall behaves like CallScoped but returns the result as T.
func ScopedCall[T any](ctx context.Context, fn any, args ...any) (T, error) {
	return typedResult[T](CallScoped(ctx, fn, args...))
}
