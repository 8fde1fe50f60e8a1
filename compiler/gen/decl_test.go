package gen_test

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/gen"
	"github.com/syssam/attrs/schema/field"
)

func newRegistry(t *testing.T) *gen.Registry {
	t.Helper()
	r, err := gen.NewRegistry(gen.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	return r
}

// Pair has a required and a defaulted field.
type Pair struct{ attrs.Schema }

func (Pair) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("a"),
		field.Int("b").Default(0),
	}
}

// BadDefault shares a mutable literal.
type BadDefault struct{ attrs.Schema }

func (BadDefault) Fields() []attrs.Field {
	return []attrs.Field{
		field.Slice("items", field.Of(field.TypeInt)).Default([]int{}),
	}
}

// Bag builds a fresh map per instance.
type Bag struct{ attrs.Schema }

func (Bag) Fields() []attrs.Field {
	return []attrs.Field{
		field.Map("counts", field.Of(field.TypeInt)).
			DefaultFunc(func() any { return map[string]int{} }),
	}
}

func (Bag) Config() attrs.Config { return attrs.Mutable() }

// Frozen is a frozen single-field class.
type Frozen struct{ attrs.Schema }

func (Frozen) Fields() []attrs.Field {
	return []attrs.Field{field.Int("x")}
}

// Inner and Outer exercise nested instances. Outer refers to Inner
// by name and is compiled first.
type (
	Inner struct{ attrs.Schema }
	Outer struct{ attrs.Schema }
)

func (Inner) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("v"),
		field.Slice("tags", field.Of(field.TypeString)).
			DefaultFunc(func() any { return []string{} }),
	}
}

func (Outer) Fields() []attrs.Field {
	return []attrs.Field{
		field.String("name"),
		field.Nested("inner", "Inner"),
		field.Slice("children", field.Ref("Inner")).
			DefaultFunc(func() any { return []*gen.Instance{} }),
	}
}

// A, B, C and D form a diamond: D(B, C), B(A), C(A).
type (
	A struct{ attrs.Schema }
	B struct{ attrs.Schema }
	C struct{ attrs.Schema }
	D struct{ attrs.Schema }
)

func (A) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("x").Default(10),
		field.Int("y").Default(0),
	}
}

func (B) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("z").Default(1),
		field.Int("x").Default(50),
	}
}

func (B) Bases() []attrs.Interface { return []attrs.Interface{A{}} }

func (C) Fields() []attrs.Field {
	return []attrs.Field{field.Int("w").Default(2)}
}

func (C) Bases() []attrs.Interface { return []attrs.Interface{A{}} }

func (D) Fields() []attrs.Field {
	return []attrs.Field{field.Int("v").Default(3)}
}

func (D) Bases() []attrs.Interface { return []attrs.Interface{B{}, C{}} }

var errNegative = errors.New("must not be negative")

func nonNegative(v any) error {
	if v.(int) < 0 {
		return errNegative
	}
	return nil
}

// Account is a mutable, dynamic class with conversions and validation.
type Account struct{ attrs.Schema }

func (Account) Fields() []attrs.Field {
	return []attrs.Field{
		field.String("owner_name").
			Alias("ownerName").
			Convert(func(v any) (any, error) { return strings.TrimSpace(v.(string)), nil }),
		field.Int("balance").
			Default(0).
			Validate(nonNegative),
		field.String("number").
			Default("").
			Frozen(),
		field.String("password").
			Default("").
			KwOnly().
			NoRepr().
			NoEq().
			NoSerialize(),
	}
}

func (Account) Config() attrs.Config {
	return attrs.Config{Eq: true, Repr: true}
}

// Loop inherits from itself.
type Loop struct{ attrs.Schema }

func (Loop) Bases() []attrs.Interface { return []attrs.Interface{Loop{}} }

// Dup and Dup2 claim the same class name.
type (
	Dup  struct{ attrs.Schema }
	Dup2 struct{ attrs.Schema }
)

func (Dup) ClassName() string  { return "Dup" }
func (Dup2) ClassName() string { return "Dup" }
