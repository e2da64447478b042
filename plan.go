package inject

import (
	"reflect"
	"sync"
)

type paramKind int

const (
	// paramDependency is a typed slot filled by an explicit caller argument
	// or, failing that, by the dependency registry.
	paramDependency paramKind = iota

	// paramContext is a context.Context parameter. It is filled with the
	// call's context and forces the function onto the async resolution path.
	paramContext

	// paramInjectionContext is an inject.Context parameter. It receives the
	// injection context of the current call chain.
	paramInjectionContext

	// paramVariadic is a variadic tail. It is pass-through only: leftover
	// caller arguments flow into it and it is never injected.
	paramVariadic
)

type planParam struct {
	kind paramKind
	typ  reflect.Type
}

// resolutionPlan is the precomputed classification of a function's
// parameters and results. Plans derive entirely from the function's type,
// so they are memoized per signature and reused across calls.
type resolutionPlan struct {
	fnType   reflect.Type
	params   []planParam
	needsCtx bool

	// valueIndex is the index of the single non-error result, or -1.
	valueIndex int
	// errIndex is the index of the error result, or -1.
	errIndex int
}

type planResult struct {
	plan *resolutionPlan
	err  error
}

var planCache sync.Map // map[reflect.Type]*planResult

// planFor returns the resolution plan for fn, building and memoizing it on
// first use. Invalid targets report a SignatureError here rather than at
// registration time.
func planFor(fn any) (*resolutionPlan, error) {
	if fn == nil {
		return nil, &SignatureError{Message: "injection target must be a function, got nil"}
	}
	fnType := reflect.TypeOf(fn)
	if fnType.Kind() != reflect.Func {
		return nil, &SignatureError{Message: "injection target must be a function", ReferencedType: fnType}
	}
	if cached, ok := planCache.Load(fnType); ok {
		pr := cached.(*planResult)
		return pr.plan, pr.err
	}

	plan, err := analyzeSignature(fnType)
	actual, _ := planCache.LoadOrStore(fnType, &planResult{plan: plan, err: err})
	pr := actual.(*planResult)
	return pr.plan, pr.err
}

// analyzeSignature walks the parameter list once, in declaration order, and
// classifies each parameter. The resulting ordering is stable so repeated
// resolutions are deterministic.
func analyzeSignature(fnType reflect.Type) (*resolutionPlan, error) {
	plan := &resolutionPlan{
		fnType:     fnType,
		valueIndex: -1,
		errIndex:   -1,
	}

	for i := 0; i < fnType.NumIn(); i++ {
		in := fnType.In(i)
		p := planParam{kind: paramDependency, typ: in}
		switch {
		case fnType.IsVariadic() && i == fnType.NumIn()-1:
			p.kind = paramVariadic
		case in == contextType:
			p.kind = paramContext
			plan.needsCtx = true
		case in == injectionCtxType:
			p.kind = paramInjectionContext
		}
		plan.params = append(plan.params, p)
	}

	for i := 0; i < fnType.NumOut(); i++ {
		out := fnType.Out(i)
		if out.AssignableTo(errorType) {
			if plan.errIndex >= 0 {
				return nil, &SignatureError{Message: "multiple error results on an injection target not permitted", ReferencedType: fnType}
			}
			plan.errIndex = i
			continue
		}
		if plan.valueIndex >= 0 {
			return nil, &SignatureError{Message: "at most one non-error result permitted on an injection target", ReferencedType: fnType}
		}
		plan.valueIndex = i
	}

	return plan, nil
}
