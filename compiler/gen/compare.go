package gen

import (
	"bytes"
	"cmp"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/attrs"
)

// Equal reports whether two instances are equal: both belong to the
// same class, or to compatible classes, and every equality field
// compares equal in schema order. Classes without synthesized equality
// compare by identity.
func (i *Instance) Equal(o *Instance) bool {
	if i == o {
		return true
	}
	if i == nil || o == nil {
		return false
	}
	c := i.class
	if !c.cfg.Eq || !o.class.cfg.Eq || !c.compatible(o.class) {
		return false
	}
	for n, a := range c.eqFields {
		x, y := a.get(i), o.class.eqFields[n].get(o)
		if key := a.field.EqKey; key != nil {
			x, y = key(x), key(y)
		}
		if !valuesEqual(x, y) {
			return false
		}
	}
	return true
}

// valuesEqual compares field values. Nested instances use their own
// equality; sequences and string-keyed maps compare element-wise,
// regardless of their Go container type.
func valuesEqual(x, y any) bool {
	switch x := x.(type) {
	case *Instance:
		y, ok := y.(*Instance)
		return ok && x.Equal(y)
	case attrs.Set:
		y, ok := y.(attrs.Set)
		return ok && setsEqual(x, y)
	case time.Time:
		y, ok := y.(time.Time)
		return ok && x.Equal(y)
	case []byte:
		y, ok := y.([]byte)
		return ok && bytes.Equal(x, y)
	case uuid.UUID:
		y, ok := y.(uuid.UUID)
		return ok && x == y
	}
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if !vx.IsValid() || !vy.IsValid() {
		return vx.IsValid() == vy.IsValid()
	}
	switch kx, ky := vx.Kind(), vy.Kind(); {
	case isSeq(kx) && isSeq(ky):
		if vx.Len() != vy.Len() {
			return false
		}
		for n := range vx.Len() {
			if !valuesEqual(vx.Index(n).Interface(), vy.Index(n).Interface()) {
				return false
			}
		}
		return true
	case kx == reflect.Map && ky == reflect.Map && vx.Type().Key().Kind() == reflect.String && vy.Type().Key().Kind() == reflect.String:
		if vx.Len() != vy.Len() {
			return false
		}
		iter := vx.MapRange()
		for iter.Next() {
			ov := vy.MapIndex(iter.Key().Convert(vy.Type().Key()))
			if !ov.IsValid() || !valuesEqual(iter.Value().Interface(), ov.Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(x, y)
}

// setsEqual compares sets by membership. Nested instances are keyed by
// pointer in a set, so they are paired with an equal partner instead.
func setsEqual(x, y attrs.Set) bool {
	if len(x) != len(y) {
		return false
	}
	var xs, ys []*Instance
	for it := range x {
		if inst, ok := it.(*Instance); ok {
			xs = append(xs, inst)
		} else if !y.Has(it) {
			return false
		}
	}
	for it := range y {
		if inst, ok := it.(*Instance); ok {
			ys = append(ys, inst)
		}
	}
	if len(xs) != len(ys) {
		return false
	}
	used := make([]bool, len(ys))
next:
	for _, a := range xs {
		for n, b := range ys {
			if !used[n] && a.Equal(b) {
				used[n] = true
				continue next
			}
		}
		return false
	}
	return true
}

func isSeq(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array
}

// Compare compares two instances lexicographically over their ordering
// fields. It returns an error wrapping ErrNotOrderable if the class
// does not synthesize ordering, if the instances are of unrelated
// classes, or if two field values cannot be ordered.
func (i *Instance) Compare(o *Instance) (int, error) {
	if i == nil {
		return 0, fmt.Errorf("%w: cannot compare nil with %s", attrs.ErrNotOrderable, className(o))
	}
	c := i.class
	if !c.cfg.Order {
		return 0, fmt.Errorf("%w: class %s does not define ordering", attrs.ErrNotOrderable, c.name)
	}
	if o == nil || !c.compatible(o.class) {
		return 0, fmt.Errorf("%w: cannot compare %s with %s", attrs.ErrNotOrderable, c.name, className(o))
	}
	for _, a := range c.ordFields {
		b, ok := o.class.byName[a.field.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %s has no field %s", attrs.ErrNotOrderable, o.class.name, a.field.Name)
		}
		r, err := compareValues(a.get(i), b.get(o))
		if err != nil {
			return 0, fmt.Errorf("field %s.%s: %w", c.name, a.field.Name, err)
		}
		if r != 0 {
			return r, nil
		}
	}
	return 0, nil
}

// Less reports whether i orders before o.
func (i *Instance) Less(o *Instance) (bool, error) {
	r, err := i.Compare(o)
	return r < 0, err
}

func className(i *Instance) string {
	if i == nil {
		return "nil"
	}
	return i.class.name
}

func compareValues(x, y any) (int, error) {
	switch x := x.(type) {
	case *Instance:
		if y, ok := y.(*Instance); ok && x != nil {
			return x.Compare(y)
		}
	case string:
		if y, ok := y.(string); ok {
			return cmp.Compare(x, y), nil
		}
	case bool:
		if y, ok := y.(bool); ok {
			return cmp.Compare(b2i(x), b2i(y)), nil
		}
	case time.Time:
		if y, ok := y.(time.Time); ok {
			return x.Compare(y), nil
		}
	case []byte:
		if y, ok := y.([]byte); ok {
			return bytes.Compare(x, y), nil
		}
	case uuid.UUID:
		if y, ok := y.(uuid.UUID); ok {
			return bytes.Compare(x[:], y[:]), nil
		}
	}
	vx, vy := reflect.ValueOf(x), reflect.ValueOf(y)
	if vx.IsValid() && vy.IsValid() {
		kx, ky := vx.Kind(), vy.Kind()
		switch {
		case isInt(kx) && isInt(ky):
			return cmp.Compare(vx.Int(), vy.Int()), nil
		case isUint(kx) && isUint(ky):
			return cmp.Compare(vx.Uint(), vy.Uint()), nil
		case isNumber(kx) && isNumber(ky):
			return cmp.Compare(toFloat(vx), toFloat(vy)), nil
		case isSeq(kx) && isSeq(ky):
			for n := range min(vx.Len(), vy.Len()) {
				r, err := compareValues(vx.Index(n).Interface(), vy.Index(n).Interface())
				if err != nil || r != 0 {
					return r, err
				}
			}
			return cmp.Compare(vx.Len(), vy.Len()), nil
		}
	}
	return 0, fmt.Errorf("%w: %T and %T", attrs.ErrNotOrderable, x, y)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isNumber(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || k == reflect.Float32 || k == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v.Kind()):
		return float64(v.Int())
	case isUint(v.Kind()):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}
