package gen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/load"
	"github.com/syssam/attrs/schema/field"
)

// plainStep converts one serialized field to its plain form.
type plainStep struct {
	name  string
	alias string
	get   func(*Instance) any
	conv  func(any, *plainConfig) (any, error)
}

func newPlainStep(c *Class, a *accessor) plainStep {
	f := a.field
	s := plainStep{name: f.Name, alias: f.ArgName(), get: a.get}
	if fn := f.Serializer; fn != nil {
		s.conv = func(v any, _ *plainConfig) (any, error) {
			pv, err := fn(v)
			if err != nil {
				return nil, &attrs.SerializationError{Class: c.name, Field: f.Name, Value: v, Message: "serializer failed", Cause: err}
			}
			return pv, nil
		}
		return s
	}
	s.conv = func(v any, cfg *plainConfig) (any, error) {
		pv, err := toPlain(v, cfg)
		var se *attrs.SerializationError
		if errors.As(err, &se) && se.Class == "" {
			se.Class, se.Field = c.name, f.Name
		}
		return pv, err
	}
	return s
}

// ToPlain converts the instance to a map of plain values, keyed by
// alias (or name, with ByName). See Class.ToPlain.
func (i *Instance) ToPlain(opts ...PlainOption) (map[string]any, error) {
	return i.class.toPlain(i, newPlainConfig(opts))
}

// ToPlain converts an instance of the class to nested maps, slices and
// scalars. Nested instances are converted recursively; slices, arrays
// and sets become []any and string-keyed maps become map[string]any.
// Booleans, numbers, strings, []byte, time.Time and uuid.UUID are kept
// as is. Values of other types are passed through, or rejected with a
// SerializationError in Strict mode.
func (c *Class) ToPlain(i *Instance, opts ...PlainOption) (map[string]any, error) {
	return c.toPlain(i, newPlainConfig(opts))
}

func (c *Class) toPlain(i *Instance, cfg *plainConfig) (map[string]any, error) {
	if i == nil || i.class != c {
		return nil, attrs.NewSerializationError(c.name, "", i, "not an instance of the class")
	}
	m := make(map[string]any, len(c.plainSteps))
	for _, s := range c.plainSteps {
		v, err := s.conv(s.get(i), cfg)
		if err != nil {
			return nil, err
		}
		key := s.alias
		if cfg.byName {
			key = s.name
		}
		m[key] = v
	}
	return m, nil
}

func toPlain(v any, cfg *plainConfig) (any, error) {
	switch v := v.(type) {
	case nil, bool, string, []byte, time.Time, uuid.UUID,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case *Instance:
		if v == nil {
			return nil, nil
		}
		return v.class.toPlain(v, cfg)
	case attrs.Set:
		items := v.Items()
		out := make([]any, len(items))
		for n, it := range items {
			pv, err := toPlain(it, cfg)
			if err != nil {
				return nil, err
			}
			out[n] = pv
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	switch k := rv.Kind(); {
	case isSeq(k):
		out := make([]any, rv.Len())
		for n := range rv.Len() {
			pv, err := toPlain(rv.Index(n).Interface(), cfg)
			if err != nil {
				return nil, err
			}
			out[n] = pv
		}
		return out, nil
	case k == reflect.Map && rv.Type().Key().Kind() == reflect.String:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			pv, err := toPlain(iter.Value().Interface(), cfg)
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = pv
		}
		return out, nil
	case cfg.strict:
		return nil, attrs.NewSerializationError("", "", v, "unsupported type")
	}
	return v, nil
}

// FromPlain constructs an instance from its plain form. Each initializer
// field is read by alias (or name, with ByName), decoded according to
// its declared type and passed to the initializer, which applies
// defaults, converters and validators. Keys naming no serialized field
// are ignored, or rejected with RejectUnknown.
func (c *Class) FromPlain(m map[string]any, opts ...PlainOption) (*Instance, error) {
	return c.fromPlain(m, newPlainConfig(opts))
}

func (c *Class) fromPlain(m map[string]any, cfg *plainConfig) (*Instance, error) {
	kw := make(attrs.Kwargs, len(m))
	known := make(map[string]struct{}, len(c.fields))
	for _, a := range c.fields {
		f := a.field
		key := f.ArgName()
		if cfg.byName {
			key = f.Name
		}
		if f.Serialize {
			known[key] = struct{}{}
		}
		if !f.Init {
			continue
		}
		v, ok := m[key]
		if !ok {
			continue
		}
		dv, err := c.decodeField(f, v, cfg)
		if err != nil {
			return nil, err
		}
		kw[f.ArgName()] = dv
	}
	if cfg.rejectUnknown {
		keys := make([]string, 0, len(m))
		for k := range m {
			if _, ok := known[k]; !ok {
				keys = append(keys, k)
			}
		}
		if len(keys) > 0 {
			slices.Sort(keys)
			return nil, attrs.NewConstructionError(c.name, keys[0], "got an unexpected key")
		}
	}
	return c.Init(nil, kw)
}

func (c *Class) decodeField(f *load.Field, v any, cfg *plainConfig) (any, error) {
	if fn := f.Deserializer; fn != nil {
		dv, err := fn(v)
		if err != nil {
			return nil, &attrs.SerializationError{Class: c.name, Field: f.Name, Value: v, Message: "deserializer failed", Cause: err}
		}
		return dv, nil
	}
	d := &decoder{class: c, field: f, cfg: cfg}
	return d.decode(f.Info, v)
}

// decoder decodes the plain value of one field.
type decoder struct {
	class *Class
	field *load.Field
	cfg   *plainConfig
}

func (d *decoder) errorf(v any, format string, args ...any) error {
	return attrs.NewSerializationError(d.class.name, d.field.Name, v, fmt.Sprintf(format, args...))
}

func (d *decoder) decode(info *field.TypeInfo, v any) (any, error) {
	if v == nil || info == nil {
		return v, nil
	}
	switch info.Type {
	case field.TypeAny:
		return v, nil
	case field.TypeBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case field.TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case field.TypeInt, field.TypeInt64, field.TypeUint, field.TypeFloat:
		return d.number(info, v)
	case field.TypeBytes:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			raw, err := base64.StdEncoding.DecodeString(b)
			if err != nil {
				return nil, &attrs.SerializationError{Class: d.class.name, Field: d.field.Name, Value: v, Message: "invalid base64", Cause: err}
			}
			return raw, nil
		}
	case field.TypeTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			pt, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, &attrs.SerializationError{Class: d.class.name, Field: d.field.Name, Value: v, Message: "invalid time", Cause: err}
			}
			return pt, nil
		}
	case field.TypeUUID:
		var (
			id  uuid.UUID
			err error
		)
		switch u := v.(type) {
		case uuid.UUID:
			return u, nil
		case [16]byte:
			return uuid.UUID(u), nil
		case []byte:
			if len(u) == 16 {
				id, err = uuid.FromBytes(u)
			} else {
				id, err = uuid.ParseBytes(u)
			}
		case string:
			id, err = uuid.Parse(u)
		default:
			return nil, d.errorf(v, "cannot decode into %s", info)
		}
		if err != nil {
			return nil, &attrs.SerializationError{Class: d.class.name, Field: d.field.Name, Value: v, Message: "invalid uuid", Cause: err}
		}
		return id, nil
	case field.TypeSlice:
		return d.slice(info, v)
	case field.TypeSet:
		if s, ok := v.(attrs.Set); ok {
			return s, nil
		}
		rv := reflect.ValueOf(v)
		if !isSeq(rv.Kind()) {
			break
		}
		s := make(attrs.Set, rv.Len())
		for n := range rv.Len() {
			it, err := d.decode(info.Elem, rv.Index(n).Interface())
			if err != nil {
				return nil, err
			}
			if it != nil && !reflect.TypeOf(it).Comparable() {
				return nil, d.errorf(it, "set item is not comparable")
			}
			s.Add(it)
		}
		return s, nil
	case field.TypeMap:
		return d.mapOf(info, v)
	case field.TypeNested:
		return d.nested(v)
	}
	return nil, d.errorf(v, "cannot decode into %s", info)
}

// number converts any numeric kind to the Go type of info. Floats are
// accepted for integer types only when integral, as JSON decodes every
// number to float64.
func (d *decoder) number(info *field.TypeInfo, v any) (any, error) {
	rv := reflect.ValueOf(v)
	k := rv.Kind()
	if !isNumber(k) {
		return nil, d.errorf(v, "cannot decode into %s", info)
	}
	if info.Type == field.TypeFloat {
		return toFloat(rv), nil
	}
	if k == reflect.Float32 || k == reflect.Float64 {
		return d.integral(info, v, rv.Float())
	}
	switch info.Type {
	case field.TypeUint:
		if isInt(k) {
			if rv.Int() < 0 {
				return nil, d.errorf(v, "cannot decode negative number into %s", info)
			}
			if uint64(rv.Int()) > math.MaxUint {
				return nil, d.errorf(v, "number overflows %s", info)
			}
			return uint(rv.Int()), nil
		}
		if rv.Uint() > math.MaxUint {
			return nil, d.errorf(v, "number overflows %s", info)
		}
		return uint(rv.Uint()), nil
	case field.TypeInt64:
		if isUint(k) {
			if rv.Uint() > math.MaxInt64 {
				return nil, d.errorf(v, "number overflows %s", info)
			}
			return int64(rv.Uint()), nil
		}
		return rv.Int(), nil
	default:
		if isUint(k) {
			if rv.Uint() > math.MaxInt {
				return nil, d.errorf(v, "number overflows %s", info)
			}
			return int(rv.Uint()), nil
		}
		if rv.Int() < math.MinInt || rv.Int() > math.MaxInt {
			return nil, d.errorf(v, "number overflows %s", info)
		}
		return int(rv.Int()), nil
	}
}

// Exclusive upper bounds of the integer types, exact as float64.
const (
	intLimit   = -float64(math.MinInt)
	int64Limit = -float64(math.MinInt64)
	uintLimit  = 2 * intLimit
)

// integral narrows a floating-point plain value, as produced by JSON
// decoding, to an integer field type.
func (d *decoder) integral(info *field.TypeInfo, v any, f float64) (any, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, d.errorf(v, "cannot decode non-integral number into %s", info)
	}
	switch info.Type {
	case field.TypeUint:
		if f < 0 {
			return nil, d.errorf(v, "cannot decode negative number into %s", info)
		}
		if f >= uintLimit {
			return nil, d.errorf(v, "number overflows %s", info)
		}
		return uint(f), nil
	case field.TypeInt64:
		if f < -int64Limit || f >= int64Limit {
			return nil, d.errorf(v, "number overflows %s", info)
		}
		return int64(f), nil
	default:
		if f < -intLimit || f >= intLimit {
			return nil, d.errorf(v, "number overflows %s", info)
		}
		return int(f), nil
	}
}

// slice decodes a sequence into a slice of the element Go type, or
// into []any for elements without a fixed Go type.
func (d *decoder) slice(info *field.TypeInfo, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !isSeq(rv.Kind()) {
		return nil, d.errorf(v, "cannot decode into %s", info)
	}
	typ := reflect.TypeOf([]any(nil))
	if et := info.Elem.GoType(); et != nil {
		typ = reflect.SliceOf(et)
	}
	out := reflect.MakeSlice(typ, rv.Len(), rv.Len())
	for n := range rv.Len() {
		ev, err := d.decode(info.Elem, rv.Index(n).Interface())
		if err != nil {
			return nil, err
		}
		if ev != nil {
			out.Index(n).Set(reflect.ValueOf(ev))
		}
	}
	return out.Interface(), nil
}

// mapOf decodes a string-keyed mapping. Keys of map[any]any values,
// as produced by some decoders, must all be strings.
func (d *decoder) mapOf(info *field.TypeInfo, v any) (any, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, d.errorf(v, "cannot decode into %s", info)
	}
	typ := reflect.TypeOf(map[string]any(nil))
	if et := info.Elem.GoType(); et != nil {
		typ = reflect.MapOf(reflect.TypeOf(""), et)
	}
	out := reflect.MakeMapWithSize(typ, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k, ok := iter.Key().Interface().(string)
		if !ok {
			if iter.Key().Kind() != reflect.String {
				return nil, d.errorf(v, "map key %v is not a string", iter.Key().Interface())
			}
			k = iter.Key().String()
		}
		ev, err := d.decode(info.Elem, iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		val := reflect.Zero(typ.Elem())
		if ev != nil {
			val = reflect.ValueOf(ev)
		}
		out.SetMapIndex(reflect.ValueOf(k), val)
	}
	return out.Interface(), nil
}

// nested decodes a nested instance, resolving the referenced class
// through the registry on first use.
func (d *decoder) nested(v any) (any, error) {
	target, err := d.field.Resolve(d.class.registry.lookup)
	if err != nil {
		return nil, err
	}
	tc := target.(*Class)
	switch x := v.(type) {
	case *Instance:
		if x == nil {
			return nil, nil
		}
		if x.class.IsSubclass(tc) {
			return x, nil
		}
	case map[string]any:
		return tc.fromPlain(x, d.cfg)
	default:
		if reflect.ValueOf(v).Kind() == reflect.Map {
			m, err := d.mapOf(field.MapOf(field.Of(field.TypeAny)), v)
			if err != nil {
				return nil, err
			}
			return tc.fromPlain(m.(map[string]any), d.cfg)
		}
	}
	return nil, d.errorf(v, "cannot decode into %s", tc.name)
}
