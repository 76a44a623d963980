package core

import "sync"

// Managed identifies an application object built through a Registry. It is
// satisfied by embedding Handle; the unexported methods keep outside
// packages from forging managed instances without one.
type Managed interface {
	// InstanceKey returns the derived composite key the instance is stored
	// under, or "" before the registry has bound it.
	InstanceKey() string

	// SessionStore returns the store the instance is bound to.
	SessionStore() Store

	bind(key string, store Store)
	cacheView(name string, view any)
	cachedView(name string) (any, bool)
}

// Handle carries the derived identity of a managed instance: its instance
// key, the store it lives in and the per-instance cache of field views.
// Embed it in any struct that should participate in session state:
//
//	type Counter struct {
//	    statebind.Handle
//	    Count *statebind.Field[int] `state:"count"`
//	}
//
// The registry stamps the handle exactly once during Obtain; it is never
// mutated afterward. The zero Handle is unbound.
type Handle struct {
	mu    sync.RWMutex
	key   string
	store Store
	views map[string]any
}

// InstanceKey returns the composite key the instance is stored under, or
// "" for an unbound handle.
func (h *Handle) InstanceKey() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.key
}

// SessionStore returns the store the instance is bound to, or nil for an
// unbound handle.
func (h *Handle) SessionStore() Store {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.store
}

// Bound reports whether the handle has been stamped by a registry.
func (h *Handle) Bound() bool {
	return h.InstanceKey() != ""
}

func (h *Handle) bind(key string, store Store) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = key
	h.store = store
	h.views = make(map[string]any)
}

// cacheView records the freshest view for a field name. Plain cached reads
// through Field.View answer from here without consulting the store.
func (h *Handle) cacheView(name string, view any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.views == nil {
		h.views = make(map[string]any)
	}
	h.views[name] = view
}

func (h *Handle) cachedView(name string) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	view, ok := h.views[name]
	return view, ok
}
