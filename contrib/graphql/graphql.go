package graphql

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"

	"github.com/syssam/attrs/compiler/load"
	"github.com/syssam/attrs/schema/field"
)

// SkipMode selects the parts of the document that are not generated.
type SkipMode int

const (
	// SkipInputs omits the input types.
	SkipInputs SkipMode = 1 << iota
	// SkipDescriptions omits field descriptions taken from comments.
	SkipDescriptions
)

// Is checks if the mode has the given flag.
func (m SkipMode) Is(flag SkipMode) bool {
	return m&flag != 0
}

// InputSuffix is appended to class names to form input type names.
const InputSuffix = "Input"

var builtin = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// Option configures a Generator.
type Option func(*Generator)

// WithSkip sets the skip mode of the generator.
func WithSkip(mode SkipMode) Option {
	return func(g *Generator) { g.skip |= mode }
}

// WithScalar maps a field type to the given scalar name.
func WithScalar(t field.Type, name string) Option {
	return func(g *Generator) { g.scalars[t] = name }
}

// Generator builds GraphQL documents from class schemas.
type Generator struct {
	skip    SkipMode
	scalars map[field.Type]string
}

// NewGenerator returns a generator with the default scalar mapping.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		scalars: map[field.Type]string{
			field.TypeAny:    "Any",
			field.TypeBool:   "Boolean",
			field.TypeInt:    "Int",
			field.TypeInt64:  "Int",
			field.TypeUint:   "Int",
			field.TypeFloat:  "Float",
			field.TypeString: "String",
			field.TypeBytes:  "Bytes",
			field.TypeTime:   "Time",
			field.TypeUUID:   "UUID",
			field.TypeMap:    "Map",
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SDL renders the schemas with the default generator.
func SDL(schemas ...*load.Schema) (string, error) {
	return NewGenerator().SDL(schemas...)
}

// SDL renders the schemas as a validated GraphQL schema definition.
func (g *Generator) SDL(schemas ...*load.Schema) (string, error) {
	doc, err := g.Document(schemas...)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	formatter.NewFormatter(&buf, formatter.WithIndent("  ")).FormatSchemaDocument(doc)
	sdl := buf.String()
	if _, err := gqlparser.LoadSchema(&ast.Source{Name: "attrs.graphql", Input: sdl}); err != nil {
		return "", fmt.Errorf("graphql: invalid schema: %w", err)
	}
	return sdl, nil
}

// Document builds the schema document. Object and input types follow
// the order of the given schemas, after the custom scalar declarations.
func (g *Generator) Document(schemas ...*load.Schema) (*ast.SchemaDocument, error) {
	var (
		doc     = &ast.SchemaDocument{}
		seen    = make(map[string]bool, len(schemas))
		scalars = make(map[string]bool)
		defs    ast.DefinitionList
	)
	for _, s := range schemas {
		if s == nil {
			return nil, fmt.Errorf("graphql: nil schema")
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("graphql: class %s given more than once", s.Name)
		}
		seen[s.Name] = true
		obj, err := g.object(s, scalars)
		if err != nil {
			return nil, err
		}
		defs = append(defs, obj)
		if in := g.input(s, scalars); in != nil {
			defs = append(defs, in)
		}
	}
	names := make([]string, 0, len(scalars))
	for name := range scalars {
		if !builtin[name] {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: name})
	}
	doc.Definitions = append(doc.Definitions, defs...)
	return doc, nil
}

func (g *Generator) object(s *load.Schema, scalars map[string]bool) (*ast.Definition, error) {
	def := &ast.Definition{Kind: ast.Object, Name: s.Name}
	for _, f := range s.Fields {
		if !f.Serialize {
			continue
		}
		nullable := f.Info.Type == field.TypeAny || (f.HasDefault && f.Default == nil)
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.ArgName(),
			Description: g.description(f),
			Type:        g.typeOf(f.Info, !nullable, false, scalars),
		})
	}
	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("graphql: class %s has no serialized fields", s.Name)
	}
	return def, nil
}

// input returns nil for classes without initializer arguments.
func (g *Generator) input(s *load.Schema, scalars map[string]bool) *ast.Definition {
	fields := s.InitFields()
	if len(fields) == 0 || g.skip.Is(SkipInputs) {
		return nil
	}
	def := &ast.Definition{Kind: ast.InputObject, Name: s.Name + InputSuffix}
	for _, f := range fields {
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        f.ArgName(),
			Description: g.description(f),
			Type:        g.typeOf(f.Info, f.Required() && f.Info.Type != field.TypeAny, true, scalars),
		})
	}
	return def
}

func (g *Generator) description(f *load.Field) string {
	if g.skip.Is(SkipDescriptions) {
		return ""
	}
	return f.Comment
}

func (g *Generator) typeOf(info *field.TypeInfo, nonNull, input bool, scalars map[string]bool) *ast.Type {
	var t *ast.Type
	switch info.Type {
	case field.TypeNested:
		name := info.Ref
		if input {
			name += InputSuffix
		}
		t = ast.NamedType(name, nil)
	case field.TypeSlice, field.TypeSet:
		elem := info.Elem
		if elem == nil {
			elem = field.Of(field.TypeAny)
		}
		t = ast.ListType(g.typeOf(elem, elem.Type != field.TypeAny, input, scalars), nil)
	default:
		name := g.scalars[info.Type]
		scalars[name] = true
		t = ast.NamedType(name, nil)
	}
	t.NonNull = nonNull
	return t
}
