package runtime

import (
	"sort"
)

// Environment provides lexical scoping for Ham runtime values. Closures hold
// on to the environment they were created in; the garbage collector frees a
// scope once no closure or active call refers to it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Resolve finds the innermost scope that binds name.
func (e *Environment) Resolve(name string) (*Environment, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			return scope, true
		}
	}
	return nil, false
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	scope, ok := e.Resolve(name)
	if !ok {
		return nil, false
	}
	return scope.values[name], true
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) bool {
	scope, ok := e.Resolve(name)
	if !ok {
		return false
	}
	scope.values[name] = value
	return true
}

// Pointer refers to the binding name resolves to.
func (e *Environment) Pointer(name string) (*PointerValue, bool) {
	scope, ok := e.Resolve(name)
	if !ok {
		return nil, false
	}
	return &PointerValue{Scope: scope, Name: name}, true
}

// Keys returns the bindings of this scope only, sorted.
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
