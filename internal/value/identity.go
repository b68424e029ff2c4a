package value

import "reflect"

// sameSlicePointer reports whether two []any slices share the same
// backing array start, used for reference-identity comparisons.
func sameSlicePointer(a, b []any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// sameMapPointer reports whether two map[string]any values are the same
// underlying map.
func sameMapPointer(a, b map[string]any) bool {
	va := reflect.ValueOf(a)
	vb := reflect.ValueOf(b)
	if va.IsNil() || vb.IsNil() {
		return va.IsNil() && vb.IsNil()
	}
	return va.Pointer() == vb.Pointer()
}
