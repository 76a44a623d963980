package core

import (
	"fmt"
	"reflect"

	"github.com/statebind/statebind/internal/util"
	"github.com/statebind/statebind/logging"
)

// fieldBinder is implemented by *Field[T]; the registration step uses it
// to bind accessors without knowing their element type.
type fieldBinder interface {
	bindTo(name string, owner Managed)
}

// boundField is the introspection face of a bound accessor.
type boundField interface {
	Name() string
	Key() string
}

// FieldInfo describes one bound field accessor of a managed instance.
type FieldInfo struct {
	Name string
	Key  string
}

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives debug diagnostics for binds and cache hits.
	// Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry builds and deduplicates managed instances against a single
// injected session store. One registry per store; one store per user
// session.
type Registry struct {
	store  Store
	logger logging.Logger
}

// NewRegistry creates a registry over the given store.
func NewRegistry(store Store, optFns ...func(*RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Registry{store: store, logger: opts.Logger}
}

// Store returns the injected session store.
func (r *Registry) Store() Store { return r.store }

// Obtain returns the instance stored under the key derived from T and id,
// or constructs a new one: it allocates a *T, stamps its handle with the
// derived instance key, binds every Field member, runs init (when
// non-nil), stores the instance and returns it.
//
// When an instance already exists under the key it is returned unchanged
// and init is silently discarded; reruns of a render cycle therefore see
// the same object they built the first time. T must be a struct type
// embedding Handle. An empty id fails with ErrMissingInstanceID before
// anything is touched.
func Obtain[T any](r *Registry, id string, init func(*T)) (*T, error) {
	if r == nil || r.store == nil {
		return nil, fmt.Errorf("statebind: registry has no store")
	}
	if id == "" {
		return nil, ErrMissingInstanceID
	}

	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("statebind: %s is not a struct type", t)
	}
	key := InstanceKey(t, id)
	if err := r.store.ValidateKey(key); err != nil {
		return nil, err
	}
	log := logging.WithScope(r.logger, "instance_key", key)

	if raw, ok := r.store.Get(key); ok {
		inst, ok := raw.(*T)
		if !ok {
			return nil, fmt.Errorf("stored instance for key %q is %T, not %T", key, raw, (*T)(nil))
		}
		if init != nil {
			log.Debug("instance cache hit, initializer discarded")
		}
		return inst, nil
	}

	inst := new(T)
	managed, ok := any(inst).(Managed)
	if !ok {
		return nil, fmt.Errorf("statebind: %s does not embed statebind.Handle", t)
	}
	managed.bind(key, r.store)
	bindFields(inst, managed)
	if init != nil {
		init(inst)
	}
	r.store.Set(key, inst)
	log.Debug("instance bound and stored")
	return inst, nil
}

// bindFields is the registration step: it enumerates the struct's Field
// members and binds each accessor to its resolved name. Members that are
// not Field pointers are left untouched and never go through the store.
func bindFields(inst any, owner Managed) {
	rv := reflect.ValueOf(inst).Elem()
	for _, sf := range util.BindableFields(rv.Type()) {
		if sf.Type.Kind() != reflect.Pointer {
			continue
		}
		fv := rv.FieldByIndex(sf.Index)
		if !fv.CanSet() {
			continue
		}
		accessor := reflect.New(sf.Type.Elem())
		binder, ok := accessor.Interface().(fieldBinder)
		if !ok {
			continue
		}
		binder.bindTo(util.FieldName(sf), owner)
		fv.Set(accessor)
	}
}

// Fields enumerates the bound field accessors of a managed instance,
// enabling introspection without reading any field. Instances not built
// through a registry yield no fields.
func Fields(inst any) []FieldInfo {
	rv := reflect.ValueOf(inst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return nil
	}

	var infos []FieldInfo
	for _, sf := range util.BindableFields(rv.Type()) {
		if sf.Type.Kind() != reflect.Pointer {
			continue
		}
		fv := rv.FieldByIndex(sf.Index)
		if fv.IsNil() {
			continue
		}
		if bf, ok := fv.Interface().(boundField); ok {
			infos = append(infos, FieldInfo{Name: bf.Name(), Key: bf.Key()})
		}
	}
	return infos
}
