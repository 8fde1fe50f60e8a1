package attrs

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/syssam/attrs/schema/field"
)

type (
	// Interface for all record class declarations.
	//
	// A declaration is usually an empty struct embedding Schema:
	//
	//	type Person struct {
	//		attrs.Schema
	//	}
	//
	//	func (Person) Fields() []attrs.Field {
	//		return []attrs.Field{
	//			field.String("name"),
	//			field.Int("age").Default(0),
	//		}
	//	}
	Interface interface {
		// Fields returns the fields declared directly on the class,
		// in declaration order.
		Fields() []Field
		// Bases returns the direct base classes, leftmost first.
		Bases() []Interface
		// Config returns the class-level flags.
		Config() Config
	}

	// Field is the interface for record fields. See package
	// schema/field for the builders.
	Field interface {
		Descriptor() *field.Descriptor
	}

	// Namer may be implemented by a declaration to override the class
	// name, which otherwise is the name of its Go type.
	Namer interface {
		ClassName() string
	}

	// Schema is the default implementation of Interface.
	// It should be embedded in all class declarations.
	Schema struct{}
)

// Fields of the class.
func (Schema) Fields() []Field { return nil }

// Bases of the class.
func (Schema) Bases() []Interface { return nil }

// Config of the class.
func (Schema) Config() Config { return DefaultConfig() }

// Schema must implement Interface.
var _ Interface = (*Schema)(nil)

// HashMode selects whether a hash method is synthesized.
type HashMode uint8

const (
	// HashAuto synthesizes a hash when the class is frozen, or when
	// equality is not synthesized at all.
	HashAuto HashMode = iota
	// HashOn always synthesizes a hash.
	HashOn
	// HashOff never synthesizes a hash.
	HashOff
)

// String implements fmt.Stringer.
func (m HashMode) String() string {
	switch m {
	case HashAuto:
		return "auto"
	case HashOn:
		return "on"
	case HashOff:
		return "off"
	default:
		return fmt.Sprintf("HashMode(%d)", uint8(m))
	}
}

// AliasStyle derives aliases for fields declared without one.
type AliasStyle uint8

const (
	// AliasNone keeps the field name as external name.
	AliasNone AliasStyle = iota
	// AliasCamel uses lowerCamelCase ("created_at" -> "createdAt").
	AliasCamel
	// AliasPascal uses UpperCamelCase ("created_at" -> "CreatedAt").
	AliasPascal
)

// Config holds the class-level flags of a declaration.
type Config struct {
	// Frozen rejects any attribute write after construction.
	Frozen bool `json:"frozen,omitempty"`
	// Slots stores field values in fixed slots and rejects
	// attributes that are not declared fields.
	Slots bool `json:"slots,omitempty"`
	// Eq synthesizes equality.
	Eq bool `json:"eq,omitempty"`
	// Order synthesizes ordering comparisons. Requires Eq.
	Order bool `json:"order,omitempty"`
	// Hash selects hash synthesis.
	Hash HashMode `json:"hash,omitempty"`
	// Repr synthesizes the String representation.
	Repr bool `json:"repr,omitempty"`
	// KwOnly makes every field declared on the class keyword-only.
	KwOnly bool `json:"kw_only,omitempty"`
	// Alias derives aliases for fields declared on the class.
	Alias AliasStyle `json:"alias,omitempty"`
}

// DefaultConfig returns the configuration used by Schema: frozen, slotted,
// with equality, ordering and representation.
func DefaultConfig() Config {
	return Config{
		Frozen: true,
		Slots:  true,
		Eq:     true,
		Order:  true,
		Repr:   true,
	}
}

// Mutable returns DefaultConfig without the frozen flag.
func Mutable() Config {
	c := DefaultConfig()
	c.Frozen = false
	return c
}

// KeywordOnly returns DefaultConfig with all fields keyword-only.
func KeywordOnly() Config {
	c := DefaultConfig()
	c.KwOnly = true
	return c
}

// Hashable reports whether a class with this configuration gets a
// synthesized hash.
func (c Config) Hashable() bool {
	switch c.Hash {
	case HashOn:
		return true
	case HashOff:
		return false
	default:
		return !c.Eq || c.Frozen
	}
}

// Kwargs holds keyword arguments of an initializer call, keyed by
// the field alias (or name when the field has no alias).
type Kwargs map[string]any

// Set is an unordered collection of comparable values.
type Set map[any]struct{}

// NewSet returns a set holding the given items.
func NewSet(items ...any) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

// Add inserts v into the set.
func (s Set) Add(v any) { s[v] = struct{}{} }

// Has reports whether v is in the set.
func (s Set) Has(v any) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of items.
func (s Set) Len() int { return len(s) }

// Items returns the items in a deterministic order (by their
// formatted value).
func (s Set) Items() []any {
	items := make([]any, 0, len(s))
	for it := range s {
		items = append(items, it)
	}
	slices.SortFunc(items, func(a, b any) int {
		return cmp.Compare(fmt.Sprintf("%T:%v", a, a), fmt.Sprintf("%T:%v", b, b))
	})
	return items
}
