package gocode_test

import (
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/gen"
	"github.com/syssam/attrs/compiler/load"
	"github.com/syssam/attrs/contrib/gocode"
	"github.com/syssam/attrs/schema/field"
)

type (
	Point struct{ attrs.Schema }
	Shape struct{ attrs.Schema }
	Clash struct{ attrs.Schema }
)

func (Point) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("x").Comment("Horizontal position."),
		field.Int("y").Default(0),
	}
}

func (Shape) Fields() []attrs.Field {
	return []attrs.Field{
		field.Nested("origin", "Point"),
		field.UUID("shape_id").Alias("shapeId"),
		field.Time("drawn_at"),
		field.Bytes("blob"),
		field.Slice("points", field.Ref("Point")).
			DefaultFunc(func() any { return []*gen.Instance{} }),
		field.Set("tags", field.Of(field.TypeString)).
			DefaultFunc(func() any { return attrs.NewSet() }),
		field.Map("meta", field.Of(field.TypeInt64)).
			DefaultFunc(func() any { return map[string]int64{} }),
		field.Any("extra").Default(nil),
		field.Uint("count").Default(uint(0)),
		field.Float("scale").Default(1.0),
		field.Bool("visible").Default(true),
		field.String("secret").Default("").NoSerialize(),
	}
}

func (Clash) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("user_id"),
		field.Int("userID"),
	}
}

func compile(t *testing.T, decls ...attrs.Interface) []*load.Schema {
	t.Helper()
	r, err := gen.NewRegistry(gen.WithLogger(slog.New(slog.DiscardHandler)))
	require.NoError(t, err)
	schemas := make([]*load.Schema, len(decls))
	for i, d := range decls {
		schemas[i] = r.MustCompile(d).Schema()
	}
	return schemas
}

// structFields parses src and returns, per struct, its field types and
// tags by field name.
func structFields(t *testing.T, src []byte) map[string]map[string][2]string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))
	out := make(map[string]map[string][2]string)
	ast.Inspect(f, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			return true
		}
		fields := make(map[string][2]string)
		for _, fd := range st.Fields.List {
			var typ strings.Builder
			require.NoError(t, format.Node(&typ, fset, fd.Type))
			fields[fd.Names[0].Name] = [2]string{typ.String(), fd.Tag.Value}
		}
		out[ts.Name.Name] = fields
		return false
	})
	return out
}

func TestGenerate(t *testing.T) {
	src, err := gocode.Generate("model", compile(t, Point{}, Shape{})...)
	require.NoError(t, err)
	code := string(src)
	assert.True(t, strings.HasPrefix(code, "// "+gocode.Header))
	assert.Contains(t, code, "package model")
	assert.Contains(t, code, "// Horizontal position.")
	assert.Contains(t, code, `func (Point) ClassName() string`)

	structs := structFields(t, src)
	require.Contains(t, structs, "Point")
	assert.Equal(t, [2]string{"int", "`json:\"x\"`"}, structs["Point"]["X"])
	assert.Equal(t, [2]string{"int", "`json:\"y\"`"}, structs["Point"]["Y"])

	shape := structs["Shape"]
	want := map[string][2]string{
		"Origin":  {"*Point", "`json:\"origin\"`"},
		"ShapeID": {"uuid.UUID", "`json:\"shapeId\"`"},
		"DrawnAt": {"time.Time", "`json:\"drawn_at\"`"},
		"Blob":    {"[]byte", "`json:\"blob\"`"},
		"Points":  {"[]*Point", "`json:\"points\"`"},
		"Tags":    {"[]string", "`json:\"tags\"`"},
		"Meta":    {"map[string]int64", "`json:\"meta\"`"},
		"Extra":   {"any", "`json:\"extra\"`"},
		"Count":   {"uint", "`json:\"count\"`"},
		"Scale":   {"float64", "`json:\"scale\"`"},
		"Visible": {"bool", "`json:\"visible\"`"},
	}
	assert.Equal(t, want, shape)
	assert.Contains(t, code, `"github.com/google/uuid"`)
	assert.Contains(t, code, `"time"`)
}

func TestGenerateErrors(t *testing.T) {
	_, err := gocode.Generate("model", compile(t, Shape{})...)
	assert.ErrorContains(t, err, "class Point is not generated")

	_, err = gocode.Generate("bad-name", compile(t, Point{})...)
	assert.ErrorContains(t, err, "invalid package name")

	schemas := compile(t, Point{})
	_, err = gocode.Generate("model", schemas[0], schemas[0])
	assert.ErrorContains(t, err, "more than once")

	_, err = gocode.Generate("model", compile(t, Clash{})...)
	assert.ErrorContains(t, err, "map to UserID")

	_, err = gocode.Generate("model", (*load.Schema)(nil))
	assert.Error(t, err)
}

func TestGoName(t *testing.T) {
	tests := map[string]string{
		"x":          "X",
		"owner_name": "OwnerName",
		"owner_id":   "OwnerID",
		"api_url":    "APIURL",
		"createdAt":  "CreatedAt",
		"_private":   "Private",
	}
	for in, want := range tests {
		assert.Equal(t, want, gocode.GoName(in), in)
	}
}
