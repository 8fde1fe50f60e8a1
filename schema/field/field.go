package field

import (
	"errors"
	"fmt"
	"reflect"
)

type (
	// Converter transforms an incoming value before it is stored.
	Converter func(any) (any, error)

	// Validator checks a converted value. A non-nil error rejects it.
	Validator func(any) error

	// Factory returns a fresh default value on each call.
	Factory func() any

	// Descriptor for field declarations. It is the value object handed
	// to the schema resolver; builders only ever append to it.
	Descriptor struct {
		Name         string
		Info         *TypeInfo
		Alias        string
		Default      any
		HasDefault   bool
		Factory      Factory
		Converter    Converter
		Validators   []Validator
		KwOnly       bool
		NoInit       bool
		NoRepr       bool
		ReprFunc     func(any) string
		NoEq         bool
		EqKey        func(any) any
		NoOrder      bool
		Hash         *bool
		Frozen       bool
		NoSerialize  bool
		Serializer   func(any) (any, error)
		Deserializer func(any) (any, error)
		Comment      string
		Err          error
	}

	// Builder is the fluent builder of a field Descriptor.
	Builder struct {
		desc *Descriptor
	}
)

// Any returns a new Field with a value of any type.
func Any(name string) *Builder { return newBuilder(name, Of(TypeAny)) }

// Bool returns a new Field with type bool.
func Bool(name string) *Builder { return newBuilder(name, Of(TypeBool)) }

// Int returns a new Field with type int.
func Int(name string) *Builder { return newBuilder(name, Of(TypeInt)) }

// Int64 returns a new Field with type int64.
func Int64(name string) *Builder { return newBuilder(name, Of(TypeInt64)) }

// Uint returns a new Field with type uint.
func Uint(name string) *Builder { return newBuilder(name, Of(TypeUint)) }

// Float returns a new Field with type float64.
func Float(name string) *Builder { return newBuilder(name, Of(TypeFloat)) }

// String returns a new Field with type string.
func String(name string) *Builder { return newBuilder(name, Of(TypeString)) }

// Bytes returns a new Field with type []byte.
func Bytes(name string) *Builder { return newBuilder(name, Of(TypeBytes)) }

// Time returns a new Field with type time.Time.
func Time(name string) *Builder { return newBuilder(name, Of(TypeTime)) }

// UUID returns a new Field with type uuid.UUID.
func UUID(name string) *Builder { return newBuilder(name, Of(TypeUUID)) }

// Slice returns a new Field holding an ordered sequence of elem.
//
//	field.Slice("tags", field.Of(field.TypeString))
//	field.Slice("children", field.Ref("Node"))
func Slice(name string, elem *TypeInfo) *Builder {
	return newBuilder(name, SliceOf(elem))
}

// Set returns a new Field holding an attrs.Set of elem.
func Set(name string, elem *TypeInfo) *Builder {
	return newBuilder(name, &TypeInfo{Type: TypeSet, Elem: elem})
}

// Map returns a new Field holding a string-keyed map of elem.
func Map(name string, elem *TypeInfo) *Builder {
	return newBuilder(name, MapOf(elem))
}

// Nested returns a new Field holding an instance of the named class.
// The class does not need to be compiled when the field is declared.
//
//	field.Nested("parent", "Node")
func Nested(name, class string) *Builder {
	return newBuilder(name, Ref(class))
}

// Other returns a new Field with the given type info.
func Other(name string, info *TypeInfo) *Builder {
	return newBuilder(name, info)
}

func newBuilder(name string, info *TypeInfo) *Builder {
	b := &Builder{desc: &Descriptor{Name: name, Info: info}}
	if name == "" {
		b.desc.Err = errors.New("field name cannot be empty")
	} else if err := info.validate(); err != nil {
		b.desc.Err = err
	}
	return b
}

// Default sets a literal default value. Mutable values (slices, maps,
// sets and pointers to mutable instances) would be shared between
// instances and are rejected; use DefaultFunc for them.
func (b *Builder) Default(v any) *Builder {
	if isMutable(v) {
		b.desc.err(fmt.Errorf("mutable default %T is not allowed, use DefaultFunc", v))
		return b
	}
	b.desc.Default = v
	b.desc.HasDefault = true
	b.desc.Factory = nil
	return b
}

// DefaultFunc sets a factory called once per instance to produce
// the default value.
//
//	field.Slice("tags", field.Of(field.TypeString)).
//		DefaultFunc(func() any { return []string{} })
func (b *Builder) DefaultFunc(fn func() any) *Builder {
	if fn == nil {
		b.desc.err(errors.New("default factory cannot be nil"))
		return b
	}
	b.desc.Factory = fn
	b.desc.Default = nil
	b.desc.HasDefault = false
	return b
}

// Alias sets the external name used by the initializer keywords and
// by serialization.
func (b *Builder) Alias(name string) *Builder {
	if name == "" {
		b.desc.err(errors.New("alias cannot be empty"))
		return b
	}
	b.desc.Alias = name
	return b
}

// Convert sets the converter applied to incoming values before validation.
func (b *Builder) Convert(fn func(any) (any, error)) *Builder {
	b.desc.Converter = fn
	return b
}

// Validate adds validators for this field. They run in order after
// the converter, and the first error rejects the value.
func (b *Builder) Validate(fns ...func(any) error) *Builder {
	for _, fn := range fns {
		b.desc.Validators = append(b.desc.Validators, fn)
	}
	return b
}

// KwOnly requires the field to be passed by keyword.
func (b *Builder) KwOnly() *Builder {
	b.desc.KwOnly = true
	return b
}

// NoInit excludes the field from the initializer. The field must have
// a default.
func (b *Builder) NoInit() *Builder {
	b.desc.NoInit = true
	return b
}

// NoRepr excludes the field from the representation.
func (b *Builder) NoRepr() *Builder {
	b.desc.NoRepr = true
	return b
}

// ReprFunc sets the function rendering the field in the representation.
func (b *Builder) ReprFunc(fn func(any) string) *Builder {
	b.desc.ReprFunc = fn
	return b
}

// NoEq excludes the field from equality, and by default from hashing.
func (b *Builder) NoEq() *Builder {
	b.desc.NoEq = true
	return b
}

// EqBy compares the field by key(value) instead of the value itself.
// The key is also used for hashing.
func (b *Builder) EqBy(key func(any) any) *Builder {
	b.desc.EqKey = key
	return b
}

// NoOrder excludes the field from ordering comparisons.
func (b *Builder) NoOrder() *Builder {
	b.desc.NoOrder = true
	return b
}

// NoHash excludes the field from the hash.
func (b *Builder) NoHash() *Builder {
	h := false
	b.desc.Hash = &h
	return b
}

// Frozen rejects writes to the field after construction, even on
// mutable classes.
func (b *Builder) Frozen() *Builder {
	b.desc.Frozen = true
	return b
}

// NoSerialize excludes the field from the plain form.
func (b *Builder) NoSerialize() *Builder {
	b.desc.NoSerialize = true
	return b
}

// SerializeWith sets the function producing the plain form of the field.
func (b *Builder) SerializeWith(fn func(any) (any, error)) *Builder {
	b.desc.Serializer = fn
	return b
}

// DeserializeWith sets the function decoding the plain form of the field.
func (b *Builder) DeserializeWith(fn func(any) (any, error)) *Builder {
	b.desc.Deserializer = fn
	return b
}

// Comment sets the comment of the field.
func (b *Builder) Comment(c string) *Builder {
	b.desc.Comment = c
	return b
}

// Descriptor implements the attrs.Field interface by returning its descriptor.
func (b *Builder) Descriptor() *Descriptor {
	return b.desc
}

// HasHash reports whether the field takes part in hashing. Unless set
// explicitly, it follows equality.
func (d *Descriptor) HasHash() bool {
	if d.Hash != nil {
		return *d.Hash && !d.NoEq
	}
	return !d.NoEq
}

// err appends err to the descriptor error.
func (d *Descriptor) err(err error) {
	d.Err = errors.Join(d.Err, err)
}

// freezer is implemented by compiled instances.
type freezer interface {
	IsFrozen() bool
}

// isMutable reports whether a default literal would be shared mutable
// state between instances.
func isMutable(v any) bool {
	if v == nil {
		return false
	}
	if f, ok := v.(freezer); ok {
		return !f.IsFrozen()
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Chan:
		return true
	default:
		return false
	}
}
