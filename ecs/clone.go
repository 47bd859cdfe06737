package ecs

import "reflect"

// deepClone copies component data so callers can never alias store-owned
// structures. It is cycle-safe: an identity map from source container to its
// clone is kept per call, so shared or cyclic substructures are cloned once
// and reused rather than recursed into forever.
func deepClone(record map[string]any) map[string]any {
	if record == nil {
		return nil
	}
	seen := map[uintptr]any{}
	return cloneValue(reflect.ValueOf(record), seen).(map[string]any)
}

func cloneValue(v reflect.Value, seen map[uintptr]any) any {
	if !v.IsValid() {
		return nil
	}

	// Unwrap interface values so the identity map keys on the concrete
	// container underneath.
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		return cloneValue(v.Elem(), seen)
	}

	switch v.Kind() {
	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		if clone, ok := seen[v.Pointer()]; ok {
			return clone
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		// Register the clone before descending: a map reachable from one of
		// its own values must resolve to the clone under construction.
		seen[v.Pointer()] = out.Interface()
		iter := v.MapRange()
		for iter.Next() {
			cloned := cloneValue(iter.Value(), seen)
			out.SetMapIndex(iter.Key(), coerce(cloned, v.Type().Elem()))
		}
		return out.Interface()

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if clone, ok := seen[v.Pointer()]; ok {
			return clone
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		seen[v.Pointer()] = out.Interface()
		for i := 0; i < v.Len(); i++ {
			cloned := cloneValue(v.Index(i), seen)
			out.Index(i).Set(coerce(cloned, v.Type().Elem()))
		}
		return out.Interface()

	case reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		if clone, ok := seen[v.Pointer()]; ok {
			return clone
		}
		out := reflect.New(v.Type().Elem())
		seen[v.Pointer()] = out.Interface()
		cloned := cloneValue(v.Elem(), seen)
		out.Elem().Set(coerce(cloned, v.Type().Elem()))
		return out.Interface()

	default:
		// Scalars, strings, structs by value: Go copies these on assignment.
		return v.Interface()
	}
}

// coerce wraps a cloned value back into the reflect.Value expected by the
// destination element type (handles interface element types and nils).
func coerce(val any, t reflect.Type) reflect.Value {
	if val == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(val)
	if rv.Type() != t && t.Kind() == reflect.Interface {
		return rv.Convert(t)
	}
	return rv
}
