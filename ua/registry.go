package ua

import "sync"

// Constructor produces a fresh, zero-valued Payload for a registered
// ExtensionObject type id.
type Constructor func() Payload

// Registry is a NodeId → Constructor map for ExtensionObject bodies
// (spec.md §4.2). It is read-mostly: registration is expected at process
// initialization, and later registration is permitted but serialized
// through the embedded mutex (spec.md §5, "register before first send").
//
// Unlike the original source's process-wide singleton, Registry is an
// explicitly constructed value threaded through the stack's root object
// (spec.md §9) — callers own as many registries as they need, and a
// package-level default is opt-in via DefaultRegistry.
type Registry struct {
	mu    sync.RWMutex
	ctors map[NodeId]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[NodeId]Constructor)}
}

// Register adds typeId → ctor. It fails with ErrDuplicateType if typeId
// is already registered.
func (r *Registry) Register(typeId NodeId, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.ctors[typeId]; exists {
		return Wrap(KindConfiguration, ErrDuplicateType)
	}
	r.ctors[typeId] = ctor
	return nil
}

// Deregister removes typeId, if present.
func (r *Registry) Deregister(typeId NodeId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ctors, typeId)
}

// construct resolves typeId and, if found, invokes its Constructor.
func (r *Registry) construct(typeId NodeId) (Payload, bool) {
	r.mu.RLock()
	ctor, ok := r.ctors[typeId]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Construct exposes construct publicly for callers that need to build a
// Payload outside of ExtensionObject decoding (e.g. preparing a request
// body before it is wrapped).
func (r *Registry) Construct(typeId NodeId) (Payload, bool) { return r.construct(typeId) }

// defaultRegistry is an optional, opt-in package-level instance for CLI
// glue and simple programs that do not want to thread a Registry through
// their own call graph (spec.md §9).
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level default Registry.
func DefaultRegistry() *Registry { return defaultRegistry }
