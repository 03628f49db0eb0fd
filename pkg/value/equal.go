// Package value implements structural equality over generic structured data:
// the trees produced by decoding JSON into any (maps, sequences and scalars).
//
// Mappings compare by key set and per-key value regardless of key order,
// sequences compare element-wise in order, and numbers compare numerically
// across their Go representations. A nil map and nil are the same value, but
// nil and an empty map are not.
package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

var (
	// ErrCyclic is returned when a value contains itself.
	ErrCyclic = errors.New("cyclic structure")
	// ErrUnsupported is returned for kinds that have no structured-data meaning.
	ErrUnsupported = errors.New("unsupported value kind")
)

// Equal reports whether a and b are structurally equal.
func Equal(a, b any) (bool, error) {
	return EqualIgnoring(a, b)
}

// EqualIgnoring reports whether a and b are structurally equal once every
// mapping entry found at one of the given dotted paths is skipped. Path
// segments are mapping keys; elements of a sequence live under "<path>[]",
// so "groups[].filePath" names the filePath key of every element of groups.
func EqualIgnoring(a, b any, paths ...string) (bool, error) {
	c := &comparer{
		ignore: make(map[string]bool, len(paths)),
		seenA:  make(map[visit]bool),
		seenB:  make(map[visit]bool),
	}
	for _, p := range paths {
		c.ignore[p] = true
	}
	return c.equal(reflect.ValueOf(a), reflect.ValueOf(b), "")
}

type visit struct {
	ptr  uintptr
	kind reflect.Kind
	len  int
}

type comparer struct {
	ignore map[string]bool
	seenA  map[visit]bool
	seenB  map[visit]bool
}

func (c *comparer) equal(a, b reflect.Value, path string) (bool, error) {
	a = unwrap(a)
	b = unwrap(b)

	aNil, bNil := isNil(a), isNil(b)
	if aNil || bNil {
		if err := c.checkSupported(a, b, path); err != nil {
			return false, err
		}
		return aNil && bNil, nil
	}

	if an, ok := number(a); ok {
		bn, ok := number(b)
		if !ok {
			return false, c.checkSupported(a, b, path)
		}
		return an == bn || (math.IsNaN(an) && math.IsNaN(bn)), nil
	}

	switch a.Kind() {
	case reflect.Bool:
		if b.Kind() != reflect.Bool {
			return false, c.checkSupported(a, b, path)
		}
		return a.Bool() == b.Bool(), nil
	case reflect.String:
		if b.Kind() != reflect.String || isNumber(b) {
			return false, c.checkSupported(a, b, path)
		}
		return a.String() == b.String(), nil
	case reflect.Slice, reflect.Array:
		if b.Kind() != reflect.Slice && b.Kind() != reflect.Array {
			return false, c.checkSupported(a, b, path)
		}
		return c.equalSequence(a, b, path)
	case reflect.Map:
		if b.Kind() != reflect.Map {
			return false, c.checkSupported(a, b, path)
		}
		return c.equalMapping(a, b, path)
	case reflect.Ptr:
		if b.Kind() != reflect.Ptr {
			return false, c.checkSupported(a, b, path)
		}
		leave, err := c.enter(a, b, path)
		if err != nil {
			return false, err
		}
		defer leave()
		return c.equal(a.Elem(), b.Elem(), path)
	default:
		return false, fmt.Errorf("%s: %w: %s", displayPath(path), ErrUnsupported, a.Kind())
	}
}

func (c *comparer) equalSequence(a, b reflect.Value, path string) (bool, error) {
	leave, err := c.enter(a, b, path)
	if err != nil {
		return false, err
	}
	defer leave()

	if a.Len() != b.Len() {
		return false, nil
	}
	elemPath := path + "[]"
	for i := 0; i < a.Len(); i++ {
		eq, err := c.equal(a.Index(i), b.Index(i), elemPath)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (c *comparer) equalMapping(a, b reflect.Value, path string) (bool, error) {
	if a.Type().Key().Kind() != reflect.String || b.Type().Key().Kind() != reflect.String {
		return false, fmt.Errorf("%s: %w: non-string mapping key", displayPath(path), ErrUnsupported)
	}
	leave, err := c.enter(a, b, path)
	if err != nil {
		return false, err
	}
	defer leave()

	aKeys := c.keys(a, path)
	bKeys := c.keys(b, path)
	if len(aKeys) != len(bKeys) {
		return false, nil
	}
	for key, av := range aKeys {
		bv, ok := bKeys[key]
		if !ok {
			return false, nil
		}
		eq, err := c.equal(av, bv, join(path, key))
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

func (c *comparer) keys(m reflect.Value, path string) map[string]reflect.Value {
	out := make(map[string]reflect.Value, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if c.ignore[join(path, key)] {
			continue
		}
		out[key] = iter.Value()
	}
	return out
}

// enter records a and b as being on the current path and fails when either
// was already there.
func (c *comparer) enter(a, b reflect.Value, path string) (func(), error) {
	va, trackA := key(a)
	vb, trackB := key(b)
	if (trackA && c.seenA[va]) || (trackB && c.seenB[vb]) {
		return nil, fmt.Errorf("%s: %w", displayPath(path), ErrCyclic)
	}
	if trackA {
		c.seenA[va] = true
	}
	if trackB {
		c.seenB[vb] = true
	}
	return func() {
		if trackA {
			delete(c.seenA, va)
		}
		if trackB {
			delete(c.seenB, vb)
		}
	}, nil
}

// checkSupported turns a kind mismatch into an error when one side holds a
// kind that could never be equal to anything.
func (c *comparer) checkSupported(a, b reflect.Value, path string) error {
	for _, v := range []reflect.Value{a, b} {
		if !v.IsValid() {
			continue
		}
		switch v.Kind() {
		case reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128, reflect.Struct:
			return fmt.Errorf("%s: %w: %s", displayPath(path), ErrUnsupported, v.Kind())
		}
	}
	return nil
}

func key(v reflect.Value) (visit, bool) {
	switch v.Kind() {
	case reflect.Map, reflect.Ptr:
		return visit{ptr: v.Pointer(), kind: v.Kind()}, true
	case reflect.Slice:
		if v.Len() == 0 {
			return visit{}, false
		}
		return visit{ptr: v.Pointer(), kind: v.Kind(), len: v.Len()}, true
	}
	return visit{}, false
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}

var jsonNumberType = reflect.TypeOf(json.Number(""))

func isNumber(v reflect.Value) bool {
	_, ok := number(v)
	return ok
}

func number(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		return v.Float(), true
	case reflect.String:
		if v.Type() != jsonNumberType {
			return 0, false
		}
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return strings.TrimPrefix(path, ".")
}
