// Package field provides fluent builders for declaring record class fields.
//
// # Field Types
//
//	field.Bool("active")
//	field.Int("age")
//	field.Int64("big_number")
//	field.Float("price")
//	field.String("name")
//	field.Bytes("payload")
//	field.Time("created_at")
//	field.UUID("id")
//	field.Any("extra")
//
//	// Containers
//	field.Slice("tags", field.Of(field.TypeString))
//	field.Set("labels", field.Of(field.TypeString))
//	field.Map("scores", field.Of(field.TypeInt))
//
//	// Nested classes, possibly not compiled yet
//	field.Nested("parent", "Node")
//	field.Slice("children", field.Ref("Node"))
//
// # Defaults
//
// Literal defaults must be immutable. Containers need a factory, called
// once per instance, so instances never share the same value:
//
//	field.Int("retries").Default(3)
//	field.Slice("tags", field.Of(field.TypeString)).
//	    DefaultFunc(func() any { return []string{} })
//
// # Conversion and Validation
//
// Incoming values are converted first, then validated, both on
// construction and on later writes:
//
//	field.String("email").
//	    Convert(func(v any) (any, error) { return strings.ToLower(v.(string)), nil }).
//	    Validate(func(v any) error { ... })
//
// # Flags
//
//	field.String("first_name").
//	    Alias("firstName"). // external name in the initializer and plain form
//	    KwOnly().           // must be passed by keyword
//	    NoRepr().           // hidden from String()
//	    NoEq().             // ignored by Equal and Hash
//	    NoOrder().          // ignored by Compare
//	    NoHash().           // ignored by Hash
//	    Frozen().           // cannot be written after construction
//	    NoSerialize()       // omitted from the plain form
//
// Builder errors are not returned immediately; they are recorded on the
// Descriptor and reported when the class is compiled.
package field
