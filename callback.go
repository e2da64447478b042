package inject

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Callback is the registration-time handle for a dependency-producing
// function. The identity of the handle, not of the wrapped function, is
// what override registration and per-context result caching key on: two
// handles wrapping the same function are distinct dependencies.
//
// A callback's own parameters are resolved through the dependency registry
// recursively when the callback runs. A callback that takes a
// context.Context is asynchronous and can only run on the async resolution
// path.
type Callback struct {
	id   string
	fn   any
	name string

	planOnce sync.Once
	plan     *resolutionPlan
	planErr  error
}

// NewCallback wraps fn in a new callback handle. The function's signature
// is not validated here; an invalid function surfaces a SignatureError on
// the first resolution that needs it.
func NewCallback(fn any) *Callback {
	name := "<nil>"
	if fn != nil {
		if v := reflect.ValueOf(fn); v.Kind() == reflect.Func {
			if f := runtime.FuncForPC(v.Pointer()); f != nil {
				name = f.Name()
			}
		}
	}
	return &Callback{
		id:   uuid.NewString(),
		fn:   fn,
		name: name,
	}
}

// ID returns the identifier assigned to this handle at creation. It shows
// up in debug logs and Status output to tell otherwise identical callbacks
// apart.
func (c *Callback) ID() string {
	return c.id
}

func (c *Callback) String() string {
	return c.name + " " + formatCallbackDebug(c.fn)
}

// resolvePlan returns the callback's plan, computing it once on first use.
func (c *Callback) resolvePlan() (*resolutionPlan, error) {
	c.planOnce.Do(func() {
		c.plan, c.planErr = planFor(c.fn)
	})
	return c.plan, c.planErr
}

// Key returns the registry key for the type T. This works for both concrete
// and interface types.
func Key[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
