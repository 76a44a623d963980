package core

import "fmt"

// Field is a typed accessor pair bound to one named field of a managed
// instance. Declare fields as pointer members of the struct; the registry
// populates them during Obtain:
//
//	type Counter struct {
//	    statebind.Handle
//	    Count *statebind.Field[int] `state:"count"`
//	}
//
// Every Get round-trips through the injected store; the raw value lives
// there, the instance only caches the latest view. The zero Field is
// unbound and unusable.
type Field[T any] struct {
	name  string
	owner Managed
}

// bindTo is invoked by the registry's registration step.
func (f *Field[T]) bindTo(name string, owner Managed) {
	f.name = name
	f.owner = owner
}

// Name returns the field name the accessor is bound to.
func (f *Field[T]) Name() string {
	if f == nil {
		return ""
	}
	return f.name
}

// Key returns the derived field key without touching the store, or "" for
// an unbound accessor.
func (f *Field[T]) Key() string {
	if f == nil || f.owner == nil {
		return ""
	}
	return FieldKey(f.owner.InstanceKey(), f.name)
}

// Get validates the field key, queries the store and returns a fresh view
// over the stored value. A field that was never written yields an absent
// view, not an error. The view is cached on the owning instance for
// subsequent View calls.
func (f *Field[T]) Get() (*Value[T], error) {
	store, key, err := f.target()
	if err != nil {
		return nil, err
	}

	raw, ok := store.Get(key)
	if !ok {
		view := AbsentValue[T](key)
		f.owner.cacheView(f.name, view)
		return view, nil
	}
	val, ok := raw.(T)
	if !ok {
		return nil, fmt.Errorf("stored value for key %q is %T, not %T", key, raw, val)
	}

	view := newValue(key, val, true)
	f.owner.cacheView(f.name, view)
	return view, nil
}

// Set stores the raw value under the field key and rebuilds the cached
// view. The view itself is never persisted.
func (f *Field[T]) Set(val T) (*Value[T], error) {
	store, key, err := f.target()
	if err != nil {
		return nil, err
	}

	store.Set(key, val)
	view := newValue(key, val, true)
	f.owner.cacheView(f.name, view)
	return view, nil
}

// View returns the view cached by the most recent Get or Set on this
// instance without consulting the store. It reports false when no view has
// been cached yet; use Get for a store-validated read.
func (f *Field[T]) View() (*Value[T], bool) {
	if f == nil || f.owner == nil {
		return nil, false
	}
	cached, ok := f.owner.cachedView(f.name)
	if !ok {
		return nil, false
	}
	view, ok := cached.(*Value[T])
	return view, ok
}

func (f *Field[T]) target() (Store, string, error) {
	if f == nil {
		return nil, "", ErrUnbound
	}
	if f.owner == nil || !f.ownerBound() {
		return nil, "", fmt.Errorf("%w: field %q", ErrUnbound, f.name)
	}
	store := f.owner.SessionStore()
	key := FieldKey(f.owner.InstanceKey(), f.name)
	if err := store.ValidateKey(key); err != nil {
		return nil, "", err
	}
	return store, key, nil
}

func (f *Field[T]) ownerBound() bool {
	return f.owner.InstanceKey() != "" && f.owner.SessionStore() != nil
}
