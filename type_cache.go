package inject

import (
	"context"
	"reflect"
	"sync"
)

var (
	errorType        = reflect.TypeOf((*error)(nil)).Elem()
	contextType      = reflect.TypeOf((*context.Context)(nil)).Elem()
	injectionCtxType = reflect.TypeOf((*Context)(nil)).Elem()
)

// interfaceCache caches which concrete types satisfy which interfaces so
// repeated registry lookups against interface keys avoid redundant
// reflection work.
type interfaceCache struct {
	mu    sync.RWMutex
	cache map[interfaceCacheKey]bool
}

type interfaceCacheKey struct {
	concrete reflect.Type
	iface    reflect.Type
}

var globalInterfaceCache = &interfaceCache{
	cache: make(map[interfaceCacheKey]bool),
}

// canAssign checks if a concrete type can be assigned to an interface type,
// with caching.
func canAssign(concrete, iface reflect.Type) bool {
	if iface.Kind() != reflect.Interface {
		return concrete == iface
	}

	key := interfaceCacheKey{concrete: concrete, iface: iface}

	// Fast path: check cache
	globalInterfaceCache.mu.RLock()
	if result, ok := globalInterfaceCache.cache[key]; ok {
		globalInterfaceCache.mu.RUnlock()
		return result
	}
	globalInterfaceCache.mu.RUnlock()

	// Slow path: compute and cache
	result := concrete.AssignableTo(iface)

	globalInterfaceCache.mu.Lock()
	globalInterfaceCache.cache[key] = result
	globalInterfaceCache.mu.Unlock()

	return result
}
