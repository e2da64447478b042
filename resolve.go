package inject

import (
	"context"
	"fmt"
	"reflect"

	"github.com/gburgyan/go-timing"
)

type TimingMode int

const (
	// TimingDisable will disable timing for all resolutions.
	TimingDisable TimingMode = iota

	// TimingCallbacks will start a timing context for each callback that is
	// invoked on the async path. This is useful to see where the time of a
	// resolution is being spent.
	TimingCallbacks
)

var EnableTiming = TimingDisable

// resolver carries the state of a single resolution: the owning client, the
// injection context, the Go context when running on the async path, and the
// set of callbacks currently being resolved on this call stack for cycle
// detection.
//
// Resolution is a single-pass recursive descent: dependencies are resolved
// in encounter order, one at a time, with no concurrent fan-out, so a later
// dependency can rely on cache entries populated by an earlier one.
type resolver struct {
	client   *Client
	ctx      context.Context
	ictx     Context
	async    bool
	inFlight map[*Callback]bool
}

// call builds or reuses the plan for fn, resolves its parameters and
// invokes it.
func (r *resolver) call(fn any, args []any) (any, error) {
	plan, err := planFor(fn)
	if err != nil {
		return nil, err
	}
	return r.invoke(plan, fn, args)
}

func (r *resolver) invoke(plan *resolutionPlan, fn any, args []any) (any, error) {
	if plan.needsCtx && !r.async {
		return nil, &SyncOnlyError{ReferencedType: plan.fnType}
	}

	in := make([]reflect.Value, 0, len(plan.params))
	queue := args

	for _, p := range plan.params {
		switch p.kind {
		case paramContext:
			in = append(in, reflect.ValueOf(r.ctx))

		case paramInjectionContext:
			in = append(in, reflect.ValueOf(r.ictx))

		case paramVariadic:
			elem := p.typ.Elem()
			for len(queue) > 0 {
				if !assignableArg(queue[0], elem) {
					return nil, &ConfigurationError{
						Message: fmt.Sprintf("argument %T is not assignable to variadic parameter %v of %v", queue[0], elem, plan.fnType),
					}
				}
				in = append(in, argValue(queue[0], elem))
				queue = queue[1:]
			}

		case paramDependency:
			// Explicit caller arguments always win over injection.
			if len(queue) > 0 && assignableArg(queue[0], p.typ) {
				in = append(in, argValue(queue[0], p.typ))
				queue = queue[1:]
				continue
			}
			value, err := r.resolveDependency(p.typ)
			if err != nil {
				return nil, err
			}
			in = append(in, argValue(value, p.typ))
		}
	}

	if len(queue) > 0 {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("%d surplus arguments calling %v", len(queue), plan.fnType),
		}
	}

	out := reflect.ValueOf(fn).Call(in)
	return resultsFrom(plan, out)
}

// resolveDependency produces the value for a typed parameter slot: the
// context's type bindings first (override layer, then client registry),
// then a registered callback producer, otherwise a missing dependency
// failure naming the type.
func (r *resolver) resolveDependency(key reflect.Type) (any, error) {
	if value, ok := r.ictx.ResolveType(key); ok {
		return value, nil
	}
	if cb, ok := r.client.findCallbackDependency(key); ok {
		return r.resolveCallback(cb)
	}
	return nil, &MissingDependencyError{
		ReferencedType: key,
		Status:         r.client.Status(),
	}
}

// resolveCallback resolves a callback dependency: cache lookup first, then
// override substitution, then a recursive resolution of the chosen
// callback's own parameters before invoking it.
//
// The cache is keyed by the original handle even when an override ran, so
// later lookups through the original keep hitting. Failed resolutions are
// never cached.
func (r *resolver) resolveCallback(cb *Callback) (any, error) {
	if value, ok := r.ictx.CachedResult(cb); ok {
		r.client.logger.Debug().Str("callback", cb.id).Msg("callback cache hit")
		return value, nil
	}

	actual := cb
	if override := r.client.GetCallbackOverride(cb); override != nil {
		r.client.logger.Debug().Str("callback", cb.id).Str("override", override.id).Msg("callback override substituted")
		actual = override
	}

	if r.inFlight == nil {
		r.inFlight = make(map[*Callback]bool)
	}
	if r.inFlight[cb] {
		return nil, &CycleError{
			Callback: cb,
			Status:   r.client.Status(),
		}
	}
	r.inFlight[cb] = true
	defer delete(r.inFlight, cb)

	plan, err := actual.resolvePlan()
	if err != nil {
		return nil, err
	}

	ctx := r.ctx
	if r.async && EnableTiming == TimingCallbacks {
		tCtx, complete := timing.Start(r.ctx, actual.name)
		defer complete()
		ctx = tCtx
	}

	r.client.logger.Debug().Str("callback", actual.id).Str("function", actual.name).Msg("invoking callback dependency")

	child := &resolver{
		client:   r.client,
		ctx:      ctx,
		ictx:     r.ictx,
		async:    r.async,
		inFlight: r.inFlight,
	}
	value, err := child.invoke(plan, actual.fn, nil)
	if err != nil {
		return nil, err
	}

	r.ictx.CacheResult(cb, value)
	return value, nil
}

// assignableArg reports whether an explicit argument can fill a parameter
// of type t. An untyped nil matches any nilable parameter type.
func assignableArg(arg any, t reflect.Type) bool {
	if arg == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
			return true
		}
		return false
	}
	return reflect.TypeOf(arg).AssignableTo(t)
}

// argValue converts an argument to a reflect.Value suitable for a parameter
// of type t.
func argValue(arg any, t reflect.Type) reflect.Value {
	if arg == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(arg)
}

// resultsFrom maps a call's return values onto the (value, error) contract:
// a non-nil error result propagates unchanged, otherwise the single
// non-error result is the value.
func resultsFrom(plan *resolutionPlan, out []reflect.Value) (any, error) {
	if plan.errIndex >= 0 {
		errVal := out[plan.errIndex]
		isNil := false
		switch errVal.Kind() {
		case reflect.Interface, reflect.Pointer:
			isNil = errVal.IsNil()
		}
		if !isNil {
			return nil, errVal.Interface().(error)
		}
	}
	if plan.valueIndex >= 0 {
		return out[plan.valueIndex].Interface(), nil
	}
	return nil, nil
}
