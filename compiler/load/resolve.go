package load

import (
	"fmt"

	"github.com/go-openapi/inflect"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/schema/field"
)

// Resolve merges the fields declared on a class with the schemas of its
// ancestors into a single ordered Schema.
//
// Ancestors must be ordered from the most-base class to the most-derived
// one (the reversed linearisation without the class itself). The fields
// each ancestor declares are inserted in that order; a redeclared name
// keeps the position of its first occurrence and takes the metadata of
// the redeclaration. Fields of the class itself come last, replacing or
// appending in the same manner.
func Resolve(name string, cfg attrs.Config, own []*field.Descriptor, ancestors []*Schema) (*Schema, error) {
	if cfg.Order && !cfg.Eq {
		return nil, attrs.NewSchemaConflictError(name, "", "ordering requires equality", nil)
	}
	s := &Schema{
		Name:   name,
		Config: cfg,
		MRO:    []string{name},
		index:  make(map[string]int),
	}
	for i := len(ancestors) - 1; i >= 0; i-- {
		s.MRO = append(s.MRO, ancestors[i].Name)
	}
	for _, base := range ancestors {
		if err := checkBase(name, cfg, base); err != nil {
			return nil, err
		}
		for _, f := range base.Own() {
			s.put(f.inherit())
		}
	}
	fields, err := ownFields(name, cfg, own)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		s.put(f)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

func checkBase(name string, cfg attrs.Config, base *Schema) error {
	switch {
	case cfg.Slots && !base.Config.Slots:
		return attrs.NewSchemaConflictError(name, "", fmt.Sprintf("slotted class cannot inherit from %s with dynamic attribute storage", base.Name), nil)
	case cfg.Frozen != base.Config.Frozen && cfg.Frozen:
		return attrs.NewSchemaConflictError(name, "", fmt.Sprintf("frozen class cannot inherit from non-frozen %s", base.Name), nil)
	case cfg.Frozen != base.Config.Frozen:
		return attrs.NewSchemaConflictError(name, "", fmt.Sprintf("non-frozen class cannot inherit from frozen %s", base.Name), nil)
	}
	return nil
}

// ownFields creates the fields declared directly on the class.
func ownFields(name string, cfg attrs.Config, own []*field.Descriptor) ([]*Field, error) {
	var (
		seen   = make(map[string]struct{}, len(own))
		fields = make([]*Field, 0, len(own))
	)
	for i, fd := range own {
		if fd == nil {
			return nil, attrs.NewSchemaConflictError(name, "", "nil field descriptor", nil)
		}
		if _, ok := seen[fd.Name]; ok {
			return nil, attrs.NewSchemaConflictError(name, fd.Name, "field declared more than once", nil)
		}
		seen[fd.Name] = struct{}{}
		f, err := NewField(name, fd)
		if err != nil {
			return nil, err
		}
		f.KwOnly = f.KwOnly || cfg.KwOnly
		if f.Alias == "" {
			f.Alias = alias(cfg.Alias, f.Name)
		}
		f.Position = &Position{Index: i, Owner: name}
		fields = append(fields, f)
	}
	return fields, nil
}

// alias derives the external name of a field from the class alias style.
func alias(style attrs.AliasStyle, name string) string {
	var a string
	switch style {
	case attrs.AliasCamel:
		a = inflect.CamelizeDownFirst(name)
	case attrs.AliasPascal:
		a = inflect.Camelize(name)
	}
	if a == name {
		return ""
	}
	return a
}

// put replaces the field with the same name, keeping its position,
// or appends it.
func (s *Schema) put(f *Field) {
	if i, ok := s.index[f.Name]; ok {
		s.Fields[i] = f
		return
	}
	s.index[f.Name] = len(s.Fields)
	s.Fields = append(s.Fields, f)
}

// check validates the merged field list.
func (s *Schema) check() error {
	var (
		args     = make(map[string]string, len(s.Fields))
		defaults string
	)
	for _, f := range s.Fields {
		if !f.Init {
			continue
		}
		if other, ok := args[f.ArgName()]; ok {
			return attrs.NewSchemaConflictError(s.Name, f.Name, fmt.Sprintf("initializer name %q already used by field %q", f.ArgName(), other), nil)
		}
		args[f.ArgName()] = f.Name
		if f.KwOnly {
			continue
		}
		switch {
		case !f.Required():
			if defaults == "" {
				defaults = f.Name
			}
		case defaults != "":
			return attrs.NewSchemaConflictError(s.Name, f.Name, fmt.Sprintf("field without a default cannot follow field %q with a default", defaults), nil)
		}
	}
	return nil
}
