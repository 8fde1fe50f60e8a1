// Package mixin provides base declarations for common fields.
//
// Each mixin is a frozen class declaration. Only frozen classes may list
// a mixin in Bases:
//
//	type User struct{ attrs.Schema }
//
//	func (User) Bases() []attrs.Interface {
//		return []attrs.Interface{mixin.ID{}, mixin.Time{}}
//	}
//
//	func (User) Fields() []attrs.Field {
//		return []attrs.Field{field.String("name")}
//	}
//
// Mutable classes splice the mixin fields into their own instead:
//
//	func (Note) Fields() []attrs.Field {
//		return append([]attrs.Field{field.String("text")}, mixin.Time{}.Fields()...)
//	}
//
// Mixin fields are keyword-only, so subclasses may still declare
// required positional fields.
package mixin

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/gen"
	"github.com/syssam/attrs/schema/field"
)

// Now is the clock of the time mixins.
var Now = time.Now

// CreateTime adds a created_at field set at construction.
type CreateTime struct{ attrs.Schema }

// Fields of the create time mixin.
func (CreateTime) Fields() []attrs.Field {
	return []attrs.Field{
		field.Time("created_at").
			DefaultFunc(func() any { return Now() }).
			KwOnly().
			Frozen(),
	}
}

// UpdateTime adds an updated_at field. Evolve keeps the previous value
// unless updated_at is passed in the changes.
type UpdateTime struct{ attrs.Schema }

// Fields of the update time mixin.
func (UpdateTime) Fields() []attrs.Field {
	return []attrs.Field{
		field.Time("updated_at").
			DefaultFunc(func() any { return Now() }).
			KwOnly(),
	}
}

// Time composes CreateTime and UpdateTime.
type Time struct{ attrs.Schema }

// Fields of the time mixin.
func (Time) Fields() []attrs.Field {
	return append(
		CreateTime{}.Fields(),
		UpdateTime{}.Fields()...,
	)
}

// ID adds a random UUID identifier, generated per instance.
type ID struct{ attrs.Schema }

// Fields of the ID mixin.
func (ID) Fields() []attrs.Field {
	return []attrs.Field{
		field.UUID("id").
			DefaultFunc(func() any { return uuid.New() }).
			KwOnly().
			Frozen(),
	}
}

// Touch returns a copy of inst with updated_at set to Now.
func Touch(inst *gen.Instance) (*gen.Instance, error) {
	return inst.Evolve(attrs.Kwargs{"updated_at": Now()})
}
