// Package util contains small reflection and string helpers shared by the
// core binding mechanism. They are intentionally minimal and avoid adding
// third-party dependencies. Not intended for use outside this module.
package util

import (
	"reflect"
	"strings"
)

// FieldName resolves the session name of a struct field: the `state` tag
// when present, otherwise the Go field name as written.
func FieldName(sf reflect.StructField) string {
	if tag, ok := sf.Tag.Lookup("state"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return sf.Name
}

// BindableFields returns the exported, non-embedded fields of a struct type
// in declaration order, skipping fields tagged `state:"-"`.
func BindableFields(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		if sf.Tag.Get("state") == "-" {
			continue
		}
		fields = append(fields, sf)
	}
	return fields
}

// SanitizeSegment maps a key segment onto the [A-Za-z0-9_-] alphabet so
// derived keys stay printable and free of separator characters. Anything
// else becomes an underscore.
func SanitizeSegment(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
