package gen

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/syssam/attrs"
)

// Value tags, written before each hashed value so that values of
// different kinds never produce the same byte stream.
const (
	tagNil byte = iota
	tagBool
	tagInt
	tagUint
	tagFloat
	tagString
	tagBytes
	tagTime
	tagUUID
	tagInstance
	tagSeq
	tagSet
	tagMap
	tagOther
)

// Hash returns the hash of the instance: a digest of the class identity
// followed by every hash field in schema order. Values equal according
// to Equal hash alike. Instances of classes compiled with equality but
// without freezing are unhashable unless the class enables hashing.
func (i *Instance) Hash() (uint64, error) {
	c := i.class
	if !c.hashable {
		return 0, fmt.Errorf("%w: %s", attrs.ErrUnhashable, c.name)
	}
	h := hasher{d: xxhash.New()}
	if !c.cfg.Eq {
		// Identity equality, identity hash.
		h.string(c.name)
		h.uint(uint64(reflect.ValueOf(i).Pointer()))
		return h.d.Sum64(), nil
	}
	if c.group != "" {
		h.string(c.group)
	} else {
		h.string(c.name)
		h.uint(c.id)
	}
	for _, a := range c.hashFields {
		v := a.get(i)
		if key := a.field.EqKey; key != nil {
			v = key(v)
		}
		if err := h.value(v); err != nil {
			return 0, fmt.Errorf("field %s.%s: %w", c.name, a.field.Name, err)
		}
	}
	return h.d.Sum64(), nil
}

type hasher struct {
	d    *xxhash.Digest
	buf  [8]byte
	seen map[uintptr]bool // pointers on the current path
}

func (h *hasher) tag(t byte) { h.d.Write([]byte{t}) }

func (h *hasher) uint(u uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], u)
	h.d.Write(h.buf[:])
}

func (h *hasher) string(s string) {
	h.uint(uint64(len(s)))
	h.d.WriteString(s)
}

// value writes v to the digest. It mirrors valuesEqual: containers are
// hashed element-wise whatever their Go type, and sets and maps are
// combined order-independently.
func (h *hasher) value(v any) error {
	switch v := v.(type) {
	case nil:
		h.tag(tagNil)
		return nil
	case *Instance:
		if v == nil {
			h.tag(tagNil)
			return nil
		}
		sum, err := v.Hash()
		if err != nil {
			return err
		}
		h.tag(tagInstance)
		h.uint(sum)
		return nil
	case string:
		h.tag(tagString)
		h.string(v)
		return nil
	case []byte:
		h.tag(tagBytes)
		h.string(string(v))
		return nil
	case bool:
		h.tag(tagBool)
		h.uint(uint64(b2i(v)))
		return nil
	case time.Time:
		h.tag(tagTime)
		h.uint(uint64(v.Unix()))
		h.uint(uint64(v.Nanosecond()))
		return nil
	case uuid.UUID:
		h.tag(tagUUID)
		h.d.Write(v[:])
		return nil
	case attrs.Set:
		h.tag(tagSet)
		var sum uint64
		for it := range v {
			e := h.sub()
			if err := e.value(it); err != nil {
				return err
			}
			sum += e.d.Sum64()
		}
		h.uint(uint64(len(v)))
		h.uint(sum)
		return nil
	}
	return h.reflected(reflect.ValueOf(v))
}

// reflected hashes values without a dedicated case. Structs, pointers
// and maps with non-string keys follow reflect.DeepEqual: pointers are
// followed and structs are hashed field by field.
func (h *hasher) reflected(rv reflect.Value) error {
	if !rv.IsValid() {
		h.tag(tagNil)
		return nil
	}
	switch k := rv.Kind(); {
	case isInt(k):
		h.tag(tagInt)
		h.uint(uint64(rv.Int()))
	case isUint(k):
		h.tag(tagUint)
		h.uint(rv.Uint())
	case k == reflect.Float32 || k == reflect.Float64:
		f := rv.Float()
		if f == 0 {
			f = 0 // -0 == +0
		}
		h.tag(tagFloat)
		h.uint(math.Float64bits(f))
	case k == reflect.Bool:
		h.tag(tagBool)
		h.uint(uint64(b2i(rv.Bool())))
	case k == reflect.String:
		h.tag(tagString)
		h.string(rv.String())
	case isSeq(k):
		h.tag(tagSeq)
		h.uint(uint64(rv.Len()))
		for n := range rv.Len() {
			if err := h.elem(rv.Index(n)); err != nil {
				return err
			}
		}
	case k == reflect.Map:
		h.tag(tagMap)
		var sum uint64
		iter := rv.MapRange()
		for iter.Next() {
			e := h.sub()
			if key := iter.Key(); key.Kind() == reflect.String {
				e.string(key.String())
			} else if err := e.elem(key); err != nil {
				return err
			}
			if err := e.elem(iter.Value()); err != nil {
				return err
			}
			sum += e.d.Sum64()
		}
		h.uint(uint64(rv.Len()))
		h.uint(sum)
	case k == reflect.Pointer || k == reflect.Interface:
		if rv.IsNil() {
			h.tag(tagNil)
			return nil
		}
		if k == reflect.Pointer {
			p := rv.Pointer()
			if h.seen[p] {
				// Cycle: the value is already being hashed.
				h.tag(tagOther)
				return nil
			}
			if h.seen == nil {
				h.seen = make(map[uintptr]bool)
			}
			h.seen[p] = true
			defer delete(h.seen, p)
		}
		return h.elem(rv.Elem())
	case k == reflect.Struct:
		h.tag(tagOther)
		h.string(rv.Type().String())
		for n := range rv.NumField() {
			if err := h.elem(rv.Field(n)); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: value of type %s", attrs.ErrUnhashable, rv.Type())
	}
	return nil
}

// elem hashes a value reached by reflection. Values read through
// unexported struct fields cannot be converted back to interfaces and
// stay on the reflection path.
func (h *hasher) elem(rv reflect.Value) error {
	if rv.IsValid() && rv.CanInterface() {
		return h.value(rv.Interface())
	}
	return h.reflected(rv)
}

// sub returns a fresh digest sharing the cycle guard of h.
func (h *hasher) sub() *hasher {
	return &hasher{d: xxhash.New(), seen: h.seen}
}
