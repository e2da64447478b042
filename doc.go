// Package inject provides a dependency injection client that resolves a
// function's parameters from a registry of typed implementations and
// dependency-producing callbacks at call time. Parameters can be satisfied
// by explicit caller arguments, by values registered on the client, or by
// callbacks whose own parameters are resolved recursively through the same
// engine.
//
// The Client object has comprehensive documentation about how it works.
//
// There are also scope helper functions that bind a client to a
// context.Context to make call sites more concise.
package inject
