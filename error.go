package inject

import (
	"fmt"
	"reflect"
)

// MissingDependencyError is returned when a requested dependency type has no
// binding in the effective registry, which is the context's override layer
// plus the client's type and callback registries.
type MissingDependencyError struct {
	ReferencedType reflect.Type
	Status         string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("no dependency bound for type: %v", e.ReferencedType)
}

// SyncOnlyError is returned when a synchronous resolution encounters a
// function that takes a context.Context. Such functions can only be invoked
// through the async entry points where a context is available.
type SyncOnlyError struct {
	ReferencedType reflect.Type
}

func (e *SyncOnlyError) Error() string {
	return fmt.Sprintf("function requires a context.Context and can only be resolved asynchronously: %v", e.ReferencedType)
}

// SignatureError is returned when a resolution plan cannot be built for a
// callable. This surfaces lazily on the first resolution attempt rather
// than at registration time.
type SignatureError struct {
	Message        string
	ReferencedType reflect.Type
}

func (e *SignatureError) Error() string {
	if e.ReferencedType == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.ReferencedType)
}

// ConfigurationError is returned when the caller-supplied arguments or
// registrations cannot be reconciled with the target function.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// CycleError is returned when a callback's dependency chain reaches the
// same callback again within a single resolution.
type CycleError struct {
	Callback *Callback
	Status   string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cyclic dependency resolving callback: %v", e.Callback)
}
