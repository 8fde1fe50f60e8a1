package field

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

// A Type represents a field type.
type Type uint8

// List of field types.
const (
	TypeAny Type = iota
	TypeBool
	TypeInt
	TypeInt64
	TypeUint
	TypeFloat
	TypeString
	TypeBytes
	TypeTime
	TypeUUID
	TypeSlice
	TypeSet
	TypeMap
	TypeNested
	endTypes
)

var typeNames = [...]string{
	TypeAny:    "any",
	TypeBool:   "bool",
	TypeInt:    "int",
	TypeInt64:  "int64",
	TypeUint:   "uint",
	TypeFloat:  "float64",
	TypeString: "string",
	TypeBytes:  "[]byte",
	TypeTime:   "time.Time",
	TypeUUID:   "uuid.UUID",
	TypeSlice:  "slice",
	TypeSet:    "set",
	TypeMap:    "map",
	TypeNested: "nested",
}

// String returns the string representation of a type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports if the given type is known.
func (t Type) Valid() bool { return t < endTypes }

// Numeric reports if the given type is a numeric type.
func (t Type) Numeric() bool {
	return t == TypeInt || t == TypeInt64 || t == TypeUint || t == TypeFloat
}

// Container reports if the given type holds other values.
func (t Type) Container() bool {
	return t == TypeSlice || t == TypeSet || t == TypeMap
}

// TypeInfo holds the type information of a field. Containers carry the
// element type in Elem; nested fields carry the referenced class name in
// Ref, which may name a class that is not compiled yet.
type TypeInfo struct {
	Type Type      `json:"type"`
	Elem *TypeInfo `json:"elem,omitempty"`
	Ref  string    `json:"ref,omitempty"`
}

// Of returns the TypeInfo of a scalar type.
func Of(t Type) *TypeInfo { return &TypeInfo{Type: t} }

// Ref returns the TypeInfo of a nested class reference.
func Ref(class string) *TypeInfo { return &TypeInfo{Type: TypeNested, Ref: class} }

// SliceOf returns the TypeInfo of a slice of elem.
func SliceOf(elem *TypeInfo) *TypeInfo { return &TypeInfo{Type: TypeSlice, Elem: elem} }

// MapOf returns the TypeInfo of a string-keyed map of elem.
func MapOf(elem *TypeInfo) *TypeInfo { return &TypeInfo{Type: TypeMap, Elem: elem} }

// String returns the type expression, e.g. "[]int" or "map[string]Node".
func (ti *TypeInfo) String() string {
	if ti == nil {
		return "any"
	}
	switch ti.Type {
	case TypeNested:
		return ti.Ref
	case TypeSlice:
		return "[]" + ti.Elem.String()
	case TypeSet:
		return "set[" + ti.Elem.String() + "]"
	case TypeMap:
		return "map[string]" + ti.Elem.String()
	default:
		return ti.Type.String()
	}
}

// Refs returns the class names referenced by the type, in depth-first order.
func (ti *TypeInfo) Refs() []string {
	if ti == nil {
		return nil
	}
	if ti.Type == TypeNested {
		return []string{ti.Ref}
	}
	return ti.Elem.Refs()
}

// GoType returns the reflect.Type used to store scalar values of this type,
// or nil for types without a fixed Go representation.
func (ti *TypeInfo) GoType() reflect.Type {
	if ti == nil {
		return nil
	}
	switch ti.Type {
	case TypeBool:
		return reflect.TypeOf(false)
	case TypeInt:
		return reflect.TypeOf(0)
	case TypeInt64:
		return reflect.TypeOf(int64(0))
	case TypeUint:
		return reflect.TypeOf(uint(0))
	case TypeFloat:
		return reflect.TypeOf(float64(0))
	case TypeString:
		return reflect.TypeOf("")
	case TypeBytes:
		return reflect.TypeOf([]byte(nil))
	case TypeTime:
		return reflect.TypeOf(time.Time{})
	case TypeUUID:
		return reflect.TypeOf(uuid.UUID{})
	default:
		return nil
	}
}

func (ti *TypeInfo) validate() error {
	if ti == nil {
		return fmt.Errorf("missing type info")
	}
	if !ti.Type.Valid() {
		return fmt.Errorf("invalid type %s", ti.Type)
	}
	switch {
	case ti.Type == TypeNested && ti.Ref == "":
		return fmt.Errorf("nested type without class reference")
	case ti.Type.Container() && ti.Elem == nil:
		return fmt.Errorf("%s type without element type", ti.Type)
	case ti.Type.Container():
		return ti.Elem.validate()
	}
	return nil
}
