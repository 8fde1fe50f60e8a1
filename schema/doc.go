// Package schema groups the building blocks of class declarations.
//
// A class is declared by a Go type embedding attrs.Schema, whose
// methods return the fields, the base classes and the class flags:
//
//	type Version struct{ attrs.Schema }
//
//	func (Version) Fields() []attrs.Field {
//		return []attrs.Field{
//			field.Int("major"),
//			field.Int("minor").Default(0),
//			field.String("label").Default("").NoOrder(),
//		}
//	}
//
//	func (Version) Config() attrs.Config {
//		cfg := attrs.DefaultConfig()
//		cfg.KwOnly = false
//		return cfg
//	}
//
// # Field Types
//
// The field package provides a builder per value type:
//
//	field.Bool("ok")
//	field.Int("count")
//	field.Int64("offset")
//	field.Uint("size")
//	field.Float("ratio")
//	field.String("name")
//	field.Bytes("payload")
//	field.Time("created_at")
//	field.UUID("id")
//	field.Slice("tags", field.Of(field.TypeString))
//	field.Set("roles", field.Of(field.TypeString))
//	field.Map("labels", field.Of(field.TypeString))
//	field.Nested("parent", "Node")
//	field.Any("extra")
//
// # Field Options
//
// Builders are chained to set defaults, hooks and participation flags:
//
//	field.String("email").
//		Convert(normalize).
//		Validate(notEmpty)
//	field.Slice("items", field.Of(field.TypeInt)).
//		DefaultFunc(func() any { return []int{} })
//	field.String("token").Default("").NoRepr().NoEq().NoSerialize()
//	field.Int("revision").Default(0).NoInit()
//
// Ready-made base classes live in contrib/mixin.
package schema
