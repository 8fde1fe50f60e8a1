package load

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/schema/field"
)

// Schema represents the resolved, ordered field list of one class.
// It is immutable once returned by Resolve; the forward references held
// by its fields are the only state assigned later.
type Schema struct {
	Name   string       `json:"name,omitempty"`
	Config attrs.Config `json:"config"`
	// MRO holds the class linearisation, the class itself first.
	MRO    []string `json:"mro,omitempty"`
	Fields []*Field `json:"fields,omitempty"`
	index  map[string]int
}

// Position describes the declaration position of a field.
type Position struct {
	Index     int    `json:"index"`               // Index in the owner's field list.
	Owner     string `json:"owner,omitempty"`     // Class that declared the field.
	Inherited bool   `json:"inherited,omitempty"` // Field comes from a base class.
}

// Field represents a resolved field declaration.
type Field struct {
	Name         string                 `json:"name,omitempty"`
	Alias        string                 `json:"alias,omitempty"`
	Info         *field.TypeInfo        `json:"type,omitempty"`
	Default      any                    `json:"-"`
	DefaultValue any                    `json:"default_value,omitempty"`
	HasDefault   bool                   `json:"default,omitempty"`
	Factory      field.Factory          `json:"-"`
	Converter    field.Converter        `json:"-"`
	Validators   []field.Validator      `json:"-"`
	KwOnly       bool                   `json:"kw_only,omitempty"`
	Init         bool                   `json:"init,omitempty"`
	Repr         bool                   `json:"repr,omitempty"`
	ReprFunc     func(any) string       `json:"-"`
	Eq           bool                   `json:"eq,omitempty"`
	EqKey        func(any) any          `json:"-"`
	Order        bool                   `json:"order,omitempty"`
	Hash         bool                   `json:"hash,omitempty"`
	Frozen       bool                   `json:"frozen,omitempty"`
	Serialize    bool                   `json:"serialize,omitempty"`
	Serializer   func(any) (any, error) `json:"-"`
	Deserializer func(any) (any, error) `json:"-"`
	Comment      string                 `json:"comment,omitempty"`
	Position     *Position              `json:"position,omitempty"`
	// Ref holds the class referenced by a nested type, if any.
	Ref *Ref `json:"-"`
}

// NewField creates a resolved field from a field descriptor declared
// on the owner class.
func NewField(owner string, fd *field.Descriptor) (*Field, error) {
	if fd.Err != nil {
		return nil, attrs.NewSchemaConflictError(owner, fd.Name, "invalid field", fd.Err)
	}
	f := &Field{
		Name:         fd.Name,
		Alias:        fd.Alias,
		Info:         fd.Info,
		Default:      fd.Default,
		HasDefault:   fd.HasDefault,
		Factory:      fd.Factory,
		Converter:    fd.Converter,
		Validators:   fd.Validators,
		KwOnly:       fd.KwOnly,
		Init:         !fd.NoInit,
		Repr:         !fd.NoRepr,
		ReprFunc:     fd.ReprFunc,
		Eq:           !fd.NoEq,
		EqKey:        fd.EqKey,
		Order:        !fd.NoOrder,
		Hash:         fd.HasHash(),
		Frozen:       fd.Frozen,
		Serialize:    !fd.NoSerialize,
		Serializer:   fd.Serializer,
		Deserializer: fd.Deserializer,
		Comment:      fd.Comment,
	}
	if !f.Init && !f.HasDefault && f.Factory == nil {
		return nil, attrs.NewSchemaConflictError(owner, fd.Name, "field excluded from the initializer must have a default", nil)
	}
	// Keep the default in the introspection output only if it can be
	// encoded. For example, not a time.Location pointer.
	if f.HasDefault {
		if _, err := json.Marshal(f.Default); err == nil {
			f.DefaultValue = f.Default
		}
	}
	if refs := f.Info.Refs(); len(refs) > 0 {
		f.Ref = NewRef(refs[0])
	}
	return f, nil
}

// ArgName returns the external name of the field: its alias, or its
// name when no alias was declared.
func (f *Field) ArgName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// Required reports whether the field must be given to the initializer.
func (f *Field) Required() bool {
	return f.Init && !f.HasDefault && f.Factory == nil
}

// Positional reports whether the field can be passed positionally.
func (f *Field) Positional() bool {
	return f.Init && !f.KwOnly
}

// Inherited reports whether the field was declared on a base class.
func (f *Field) Inherited() bool {
	return f.Position != nil && f.Position.Inherited
}

// Equal reports whether two fields hold the same metadata. Functions
// are compared by identity. It is meant for tooling, never for
// instance comparison.
func (f *Field) Equal(o *Field) bool {
	if f == nil || o == nil {
		return f == o
	}
	if f.Name != o.Name || f.Alias != o.Alias || f.Info.String() != o.Info.String() ||
		f.HasDefault != o.HasDefault || f.KwOnly != o.KwOnly || f.Init != o.Init ||
		f.Repr != o.Repr || f.Eq != o.Eq || f.Order != o.Order || f.Hash != o.Hash ||
		f.Frozen != o.Frozen || f.Serialize != o.Serialize || f.Comment != o.Comment {
		return false
	}
	if f.HasDefault && !reflect.DeepEqual(f.Default, o.Default) {
		return false
	}
	if len(f.Validators) != len(o.Validators) {
		return false
	}
	for i := range f.Validators {
		if !sameFunc(f.Validators[i], o.Validators[i]) {
			return false
		}
	}
	return sameFunc(f.Factory, o.Factory) &&
		sameFunc(f.Converter, o.Converter) &&
		sameFunc(f.ReprFunc, o.ReprFunc) &&
		sameFunc(f.EqKey, o.EqKey) &&
		sameFunc(f.Serializer, o.Serializer) &&
		sameFunc(f.Deserializer, o.Deserializer)
}

// inherit returns a copy of the field marked as inherited. The forward
// reference is shared with the declaring class.
func (f *Field) inherit() *Field {
	c := *f
	pos := *f.Position
	pos.Inherited = true
	c.Position = &pos
	return &c
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.Fields[i], true
}

// FieldIndex returns the position of the named field, or -1.
func (s *Schema) FieldIndex(name string) int {
	if i, ok := s.index[name]; ok {
		return i
	}
	return -1
}

// Names returns the field names in schema order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// InitFields returns the fields accepted by the initializer, in order.
func (s *Schema) InitFields() []*Field {
	var fs []*Field
	for _, f := range s.Fields {
		if f.Init {
			fs = append(fs, f)
		}
	}
	return fs
}

// Own returns the fields declared directly on the class.
func (s *Schema) Own() []*Field {
	var fs []*Field
	for _, f := range s.Fields {
		if !f.Inherited() {
			fs = append(fs, f)
		}
	}
	return fs
}

// Refs returns the fields holding a forward reference.
func (s *Schema) Refs() []*Field {
	var fs []*Field
	for _, f := range s.Fields {
		if f.Ref != nil {
			fs = append(fs, f)
		}
	}
	return fs
}

// MarshalSchema encodes the schema into JSON, for adapters and tooling.
func MarshalSchema(s *Schema) ([]byte, error) {
	return json.Marshal(s)
}

// Declaration is a class declaration read from an attrs.Interface.
type Declaration struct {
	Name   string
	Type   reflect.Type
	Config attrs.Config
	Fields []*field.Descriptor
	Bases  []attrs.Interface
}

// Load reads a class declaration. Panics raised by the declaration
// methods are reported as errors.
func Load(decl attrs.Interface) (*Declaration, error) {
	if decl == nil {
		return nil, attrs.NewSchemaConflictError("", "", "nil declaration", nil)
	}
	d := &Declaration{Type: indirect(reflect.TypeOf(decl))}
	d.Name = d.Type.Name()
	if n, ok := decl.(attrs.Namer); ok {
		d.Name = n.ClassName()
	}
	if d.Name == "" {
		return nil, attrs.NewSchemaConflictError("", "", fmt.Sprintf("declaration %s has no class name", d.Type), nil)
	}
	fields, err := safeFields(decl)
	if err != nil {
		return nil, attrs.NewSchemaConflictError(d.Name, "", "", err)
	}
	for _, f := range fields {
		if f == nil {
			return nil, attrs.NewSchemaConflictError(d.Name, "", "nil field", nil)
		}
		d.Fields = append(d.Fields, f.Descriptor())
	}
	if d.Bases, err = safeBases(decl); err != nil {
		return nil, attrs.NewSchemaConflictError(d.Name, "", "", err)
	}
	if d.Config, err = safeConfig(decl); err != nil {
		return nil, attrs.NewSchemaConflictError(d.Name, "", "", err)
	}
	return d, nil
}

// safeFields wraps the Fields method with recover to ensure no panics in loading.
func safeFields(decl attrs.Interface) (fields []attrs.Field, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Fields panics: %v", decl, v)
			fields = nil
		}
	}()
	return decl.Fields(), nil
}

// safeBases wraps the Bases method with recover to ensure no panics in loading.
func safeBases(decl attrs.Interface) (bases []attrs.Interface, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Bases panics: %v", decl, v)
			bases = nil
		}
	}()
	return decl.Bases(), nil
}

// safeConfig wraps the Config method with recover to ensure no panics in loading.
func safeConfig(decl attrs.Interface) (cfg attrs.Config, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%T.Config panics: %v", decl, v)
		}
	}()
	return decl.Config(), nil
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func sameFunc(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || va.IsNil() {
		return !vb.IsValid() || vb.IsNil()
	}
	if !vb.IsValid() || vb.IsNil() {
		return false
	}
	return va.Pointer() == vb.Pointer()
}
