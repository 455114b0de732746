package chart

import "reflect"

// Valid reports whether data carries anything worth rendering.
//
// It fails closed: nil, an empty slice or map, and a collection whose every
// element is falsy (zero, empty string, nil) are all invalid. Pointers and
// interfaces are followed. A struct is valid when any field is non-zero and a
// scalar when it is non-zero.
func Valid(data any) bool {
	rv, ok := deref(reflect.ValueOf(data))
	if !ok {
		return false
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			if truthy(rv.Index(i)) {
				return true
			}
		}

		return false
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if truthy(iter.Value()) {
				return true
			}
		}

		return false
	default:
		return truthy(rv)
	}
}

// truthy mirrors the loose notion of a "present" value: anything but the
// zero value, with NaN counted as absent.
func truthy(rv reflect.Value) bool {
	rv, ok := deref(rv)
	if !ok {
		return false
	}

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f := rv.Float()

		return f != 0 && f == f
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	default:
		return !rv.IsZero()
	}
}

func deref(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}

		rv = rv.Elem()
	}

	return rv, rv.IsValid()
}
