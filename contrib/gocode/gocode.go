// Package gocode generates Go struct declarations mirroring the plain
// form of compiled classes.
//
// Every class becomes a struct whose exported fields carry json tags
// with the external field names, so the structs decode the output of
// codec.JSON:
//
//	src, err := gocode.Generate("model", point.Schema(), line.Schema())
package gocode

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/syssam/attrs/compiler/load"
	"github.com/syssam/attrs/schema/field"
)

// Header is the comment written at the top of generated files.
const Header = "Code generated by attrs. DO NOT EDIT."

var acronyms = map[string]bool{
	"API":  true,
	"HTTP": true,
	"ID":   true,
	"JSON": true,
	"URL":  true,
	"UUID": true,
}

// Generate returns the formatted source of package pkg declaring one
// struct per schema.
func Generate(pkg string, schemas ...*load.Schema) ([]byte, error) {
	f, err := File(pkg, schemas...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gocode: render %s: %w", pkg, err)
	}
	return buf.Bytes(), nil
}

// File builds the jennifer file of the generated package.
func File(pkg string, schemas ...*load.Schema) (*jen.File, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("gocode: invalid package name %q", pkg)
	}
	names := make(map[string]bool, len(schemas))
	for _, s := range schemas {
		if s == nil {
			return nil, errors.New("gocode: nil schema")
		}
		if names[s.Name] {
			return nil, fmt.Errorf("gocode: class %s given more than once", s.Name)
		}
		names[s.Name] = true
	}
	f := newFile(pkg)
	for _, s := range schemas {
		if err := genStruct(f, s, names); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func newFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Header)
	return f
}

func genStruct(f *jen.File, s *load.Schema, names map[string]bool) error {
	if !token.IsIdentifier(s.Name) || !token.IsExported(s.Name) {
		return fmt.Errorf("gocode: class name %q is not an exported identifier", s.Name)
	}
	var (
		fields []jen.Code
		seen   = make(map[string]string)
	)
	for _, fd := range s.Fields {
		if !fd.Serialize {
			continue
		}
		id := GoName(fd.Name)
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("gocode: fields %s.%s and %s.%s map to %s", s.Name, prev, s.Name, fd.Name, id)
		}
		seen[id] = fd.Name
		typ, err := goType(fd.Info, names)
		if err != nil {
			return fmt.Errorf("gocode: field %s.%s: %w", s.Name, fd.Name, err)
		}
		if fd.Comment != "" {
			fields = append(fields, jen.Comment(fd.Comment))
		}
		fields = append(fields, jen.Id(id).Add(typ).Tag(map[string]string{"json": fd.ArgName()}))
	}
	f.Commentf("%s is the plain form of class %s.", s.Name, s.Name)
	f.Type().Id(s.Name).Struct(fields...)
	f.Line()
	f.Comment("ClassName returns the name of the class.")
	f.Func().Params(jen.Id(s.Name)).Id("ClassName").Params().String().Block(
		jen.Return(jen.Lit(s.Name)),
	)
	return nil
}

func goType(info *field.TypeInfo, names map[string]bool) (*jen.Statement, error) {
	switch info.Type {
	case field.TypeAny:
		return jen.Any(), nil
	case field.TypeBool:
		return jen.Bool(), nil
	case field.TypeInt:
		return jen.Int(), nil
	case field.TypeInt64:
		return jen.Int64(), nil
	case field.TypeUint:
		return jen.Uint(), nil
	case field.TypeFloat:
		return jen.Float64(), nil
	case field.TypeString:
		return jen.String(), nil
	case field.TypeBytes:
		return jen.Index().Byte(), nil
	case field.TypeTime:
		return jen.Qual("time", "Time"), nil
	case field.TypeUUID:
		return jen.Qual("github.com/google/uuid", "UUID"), nil
	case field.TypeSlice, field.TypeSet:
		elem, err := elemType(info, names)
		if err != nil {
			return nil, err
		}
		return jen.Index().Add(elem), nil
	case field.TypeMap:
		elem, err := elemType(info, names)
		if err != nil {
			return nil, err
		}
		return jen.Map(jen.String()).Add(elem), nil
	case field.TypeNested:
		if !names[info.Ref] {
			return nil, fmt.Errorf("class %s is not generated", info.Ref)
		}
		return jen.Op("*").Id(info.Ref), nil
	}
	return nil, fmt.Errorf("unsupported type %s", info.Type)
}

func elemType(info *field.TypeInfo, names map[string]bool) (*jen.Statement, error) {
	if info.Elem == nil {
		return jen.Any(), nil
	}
	return goType(info.Elem, names)
}

// GoName returns the exported Go identifier of a field name:
// "owner_id" becomes "OwnerID".
func GoName(name string) string {
	var (
		b     strings.Builder
		title = cases.Title(language.English, cases.NoLower)
	)
	for _, part := range strings.Split(name, "_") {
		switch {
		case part == "":
		case acronyms[strings.ToUpper(part)]:
			b.WriteString(strings.ToUpper(part))
		default:
			b.WriteString(title.String(part))
		}
	}
	if b.Len() == 0 || !token.IsExported(b.String()) {
		return "X" + b.String()
	}
	return b.String()
}
