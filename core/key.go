package core

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/statebind/statebind/internal/util"
)

// ReservedPrefix marks keys owned by the host framework's internals. User
// keys must not start with it.
const ReservedPrefix = "$$"

// InstanceKey derives the composite session key for an instance of type t
// with the caller-supplied id: "{module}_{TypeName}_{id}". The module
// segment is the final element of t's package import path; both derived
// segments are sanitized, the id is taken verbatim and vetted by the
// store's validity rule instead.
func InstanceKey(t reflect.Type, id string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	module := util.SanitizeSegment(packageName(t))
	name := util.SanitizeSegment(t.Name())
	return module + "_" + name + "_" + id
}

// FieldKey derives the session key addressing one field of a managed
// instance: "{instance_key}.{field_name}".
func FieldKey(instanceKey, fieldName string) string {
	return instanceKey + "." + fieldName
}

func packageName(t reflect.Type) string {
	path := t.PkgPath()
	if path == "" {
		// predeclared or unnamed types
		return "main"
	}
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// ValidateKey applies the default key-validity rule: keys must be
// non-empty, contain no control characters, not consist solely of
// whitespace and not start with the reserved internal prefix. Store
// implementations layer their own policies on top of this rule.
func ValidateKey(key string) error {
	if key == "" {
		return &InvalidKeyError{Key: key, Reason: "key must not be empty"}
	}
	if strings.HasPrefix(key, ReservedPrefix) {
		return &InvalidKeyError{Key: key, Reason: "keys starting with " + ReservedPrefix + " are reserved for internal use"}
	}
	blank := true
	for _, r := range key {
		if unicode.IsControl(r) {
			return &InvalidKeyError{Key: key, Reason: "key must not contain control characters"}
		}
		if !unicode.IsSpace(r) {
			blank = false
		}
	}
	if blank {
		return &InvalidKeyError{Key: key, Reason: "key must not be blank"}
	}
	return nil
}
