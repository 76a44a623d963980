package core

import (
	"fmt"
	"reflect"
	"strings"
)

// protectedViewFields are the view's own fields; writes addressed at them
// through SetAttr are rejected with a ProtectedFieldError.
var protectedViewFields = map[string]bool{
	"key":     true,
	"value":   true,
	"present": true,
}

// Value is an ephemeral view pairing a field's current value with the key
// it is stored under. Views are rebuilt on every Field.Get and Field.Set
// and hold no state of their own: the store owns the canonical value.
//
// The delegated capabilities of the wrapped value are explicit, enumerated
// methods (Equal, Len, Index, SetIndex, Each, Call, Attr, SetAttr) instead
// of dynamic fallback. Key is read-only for the lifetime of the view.
type Value[T any] struct {
	key     string
	val     T
	present bool
}

func newValue[T any](key string, val T, present bool) *Value[T] {
	return &Value[T]{key: key, val: val, present: present}
}

// AbsentValue builds a view over the absent sentinel for key. Reading a
// field that was never written yields one of these, not an error.
func AbsentValue[T any](key string) *Value[T] {
	var zero T
	return newValue(key, zero, false)
}

// Key returns the field key the value is stored under.
func (v *Value[T]) Key() string { return v.key }

// Get returns the underlying value. Absent views yield the zero value of T.
func (v *Value[T]) Get() T { return v.val }

// Present reports whether the field existed in the store when the view was
// built. An absent view is the analogue of a nil sentinel.
func (v *Value[T]) Present() bool { return v.present }

// Equal compares the underlying value against other. A *Value operand is
// unwrapped first so two views over equal values compare equal; an absent
// view compares equal only to nil or another absent view.
func (v *Value[T]) Equal(other any) bool {
	if o, ok := other.(*Value[T]); ok {
		if !v.present || !o.present {
			return v.present == o.present
		}
		other = o.val
	}
	if !v.present {
		return other == nil
	}
	return reflect.DeepEqual(v.val, other)
}

// Len reports the length of the underlying string, slice, array, map or
// channel.
func (v *Value[T]) Len() (int, error) {
	rv := reflect.ValueOf(v.val)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rv.Len(), nil
	default:
		return 0, fmt.Errorf("value of type %T has no length", v.val)
	}
}

// Index forwards indexing to the underlying slice, array, string or map.
// Sequence kinds take an int index; maps take any value assignable to
// their key type and yield (nil, nil) for missing keys.
func (v *Value[T]) Index(i any) (any, error) {
	rv := reflect.ValueOf(v.val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n, err := sequenceIndex(i, rv.Len(), v.val)
		if err != nil {
			return nil, err
		}
		return rv.Index(n).Interface(), nil
	case reflect.String:
		s := rv.String()
		n, err := sequenceIndex(i, len(s), v.val)
		if err != nil {
			return nil, err
		}
		return s[n], nil
	case reflect.Map:
		kv := reflect.ValueOf(i)
		if !kv.IsValid() || !kv.Type().AssignableTo(rv.Type().Key()) {
			return nil, fmt.Errorf("key of type %T cannot index value of type %T", i, v.val)
		}
		elem := rv.MapIndex(kv)
		if !elem.IsValid() {
			return nil, nil
		}
		return elem.Interface(), nil
	default:
		return nil, fmt.Errorf("value of type %T is not indexable", v.val)
	}
}

// SetIndex forwards item assignment to the underlying slice or map. The
// assignment mutates the stored value in place; slices share their backing
// array with the store, maps are reference types.
func (v *Value[T]) SetIndex(i, elem any) error {
	rv := reflect.ValueOf(v.val)
	switch rv.Kind() {
	case reflect.Slice:
		n, err := sequenceIndex(i, rv.Len(), v.val)
		if err != nil {
			return err
		}
		ev, err := coerce(elem, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.Index(n).Set(ev)
		return nil
	case reflect.Map:
		kv, err := coerce(i, rv.Type().Key())
		if err != nil {
			return err
		}
		ev, err := coerce(elem, rv.Type().Elem())
		if err != nil {
			return err
		}
		rv.SetMapIndex(kv, ev)
		return nil
	default:
		return fmt.Errorf("value of type %T does not support item assignment", v.val)
	}
}

// Each iterates the underlying value, calling fn per element until fn
// returns false. Slices and arrays yield elements, strings yield runes and
// maps yield keys.
func (v *Value[T]) Each(fn func(elem any) bool) error {
	rv := reflect.ValueOf(v.val)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !fn(rv.Index(i).Interface()) {
				return nil
			}
		}
		return nil
	case reflect.String:
		for _, r := range rv.String() {
			if !fn(r) {
				return nil
			}
		}
		return nil
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if !fn(iter.Key().Interface()) {
				return nil
			}
		}
		return nil
	default:
		return fmt.Errorf("value of type %T is not iterable", v.val)
	}
}

// Call invokes the underlying value when it is a function, converting
// arguments where possible and boxing the results.
func (v *Value[T]) Call(args ...any) ([]any, error) {
	rv := reflect.ValueOf(v.val)
	if rv.Kind() != reflect.Func {
		return nil, fmt.Errorf("value of type %T is not callable", v.val)
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		if len(args) < ft.NumIn()-1 {
			return nil, fmt.Errorf("call of %T needs at least %d arguments, got %d", v.val, ft.NumIn()-1, len(args))
		}
	} else if len(args) != ft.NumIn() {
		return nil, fmt.Errorf("call of %T needs %d arguments, got %d", v.val, ft.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var want reflect.Type
		if ft.IsVariadic() && i >= ft.NumIn()-1 {
			want = ft.In(ft.NumIn() - 1).Elem()
		} else {
			want = ft.In(i)
		}
		av, err := coerce(arg, want)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = av
	}

	out := rv.Call(in)
	results := make([]any, len(out))
	for i, o := range out {
		results[i] = o.Interface()
	}
	return results, nil
}

// Attr reads an exported field of the wrapped struct (or pointed-to
// struct) by name. The view's own fields (key, value, present) are
// answered from the view itself and shadow wrapped fields of the same
// name.
func (v *Value[T]) Attr(name string) (any, error) {
	switch strings.ToLower(name) {
	case "key":
		return v.key, nil
	case "value":
		return v.val, nil
	case "present":
		return v.present, nil
	}

	rv := reflect.ValueOf(v.val)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("cannot read attribute %q of nil %T", name, v.val)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("value of type %T has no attribute %q", v.val, name)
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return nil, fmt.Errorf("value of type %T has no attribute %q", v.val, name)
	}
	return rv.FieldByIndex(sf.Index).Interface(), nil
}

// SetAttr forwards an attribute write to the wrapped value. Writes aimed
// at the view's own fields fail with a ProtectedFieldError; everything
// else requires the wrapped value to be a pointer to a struct so the write
// reaches the stored object rather than a copy of it.
func (v *Value[T]) SetAttr(name string, attr any) error {
	if protectedViewFields[strings.ToLower(name)] {
		return &ProtectedFieldError{Name: name}
	}

	rv := reflect.ValueOf(v.val)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cannot set attribute %q: value of type %T is not a pointer to a struct", name, v.val)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("cannot set attribute %q: value of type %T is not a pointer to a struct", name, v.val)
	}
	sf, ok := rv.Type().FieldByName(name)
	if !ok || !sf.IsExported() {
		return fmt.Errorf("value of type %T has no settable attribute %q", v.val, name)
	}
	av, err := coerce(attr, sf.Type)
	if err != nil {
		return err
	}
	rv.FieldByIndex(sf.Index).Set(av)
	return nil
}

// String formats the underlying value; absent views render as "<absent>".
func (v *Value[T]) String() string {
	if !v.present {
		return "<absent>"
	}
	return fmt.Sprintf("%v", v.val)
}

func sequenceIndex(i any, length int, val any) (int, error) {
	n, ok := i.(int)
	if !ok {
		return 0, fmt.Errorf("index into value of type %T must be an int, got %T", val, i)
	}
	if n < 0 || n >= length {
		return 0, fmt.Errorf("index %d out of range for value of type %T with length %d", n, val, length)
	}
	return n, nil
}

// coerce adapts an arbitrary value to the wanted reflect type, converting
// where the types allow it.
func coerce(val any, want reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(val)
	if !rv.IsValid() {
		switch want.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
			return reflect.Zero(want), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot use nil as %s", want)
		}
	}
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(want) {
		return rv.Convert(want), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use value of type %T as %s", val, want)
}
