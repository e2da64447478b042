package inject

import (
	"context"
	"fmt"
	"reflect"
)

// AutoInject produces a wrapper bound to this client that performs the same
// resolution as Client.CallWithDI whenever it is invoked, without the
// caller naming the client each time.
func (c *Client) AutoInject(fn any) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		return c.CallWithDI(fn, args...)
	}
}

// AutoInjectAsync produces a wrapper bound to this client that performs the
// same resolution as Client.CallWithAsyncDI whenever it is invoked.
func (c *Client) AutoInjectAsync(fn any) func(ctx context.Context, args ...any) (any, error) {
	return func(ctx context.Context, args ...any) (any, error) {
		return c.CallWithAsyncDI(ctx, fn, args...)
	}
}

// AutoInjectAs builds a typed wrapper function of type F around fn, bound
// to the client. Parameters of F are passed through as explicit arguments;
// a context.Context parameter on F switches the wrapper onto the async
// resolution path. The wrapped function's result is returned through F's
// non-error result, and resolution failures through F's error result.
//
// Example:
//
//	type UserLookup func(ctx context.Context, id string) (*User, error)
//
//	func findUser(ctx context.Context, db *Database, id string) (*User, error) {
//	    // implementation
//	}
//
//	lookup := inject.AutoInjectAs[UserLookup](client, findUser)
//	user, err := lookup(ctx, "user123")
//
// This panics if F is not a function type. If F has no error result, a
// resolution failure panics at invocation time.
func AutoInjectAs[F any](c *Client, fn any) F {
	targetType := reflect.TypeOf((*F)(nil)).Elem()
	if targetType.Kind() != reflect.Func {
		panic(fmt.Sprintf("AutoInjectAs target type must be a function, got %v", targetType))
	}

	valueIndex := -1
	errIndex := -1
	for i := 0; i < targetType.NumOut(); i++ {
		if targetType.Out(i) == errorType {
			errIndex = i
		} else if valueIndex < 0 {
			valueIndex = i
		}
	}

	wrapper := reflect.MakeFunc(targetType, func(args []reflect.Value) []reflect.Value {
		var ctx context.Context
		callArgs := make([]any, 0, len(args))
		for _, arg := range args {
			if arg.Type() == contextType {
				ctx = arg.Interface().(context.Context)
				continue
			}
			callArgs = append(callArgs, arg.Interface())
		}

		var result any
		var err error
		if ctx != nil {
			result, err = c.CallWithAsyncDI(ctx, fn, callArgs...)
		} else {
			result, err = c.CallWithDI(fn, callArgs...)
		}

		out := make([]reflect.Value, targetType.NumOut())
		for i := range out {
			out[i] = reflect.Zero(targetType.Out(i))
		}
		if err != nil {
			if errIndex < 0 {
				panic(fmt.Sprintf("resolution failed calling auto-injected %v: %v", targetType, err))
			}
			errVal := reflect.New(errorType).Elem()
			errVal.Set(reflect.ValueOf(err))
			out[errIndex] = errVal
			return out
		}
		if valueIndex >= 0 && result != nil {
			value := reflect.New(targetType.Out(valueIndex)).Elem()
			value.Set(reflect.ValueOf(result))
			out[valueIndex] = value
		}
		return out
	})

	return wrapper.Interface().(F)
}
