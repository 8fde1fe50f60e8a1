package gen_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/gen"
	"github.com/syssam/attrs/schema/field"
)

// Version orders by its numeric parts, then by label.
type Version struct{ attrs.Schema }

func (Version) Fields() []attrs.Field {
	return []attrs.Field{
		field.Int("major"),
		field.Int("minor").Default(0),
		field.String("label").Default(""),
		field.String("note").Default("").NoEq().NoOrder(),
	}
}

// Tag compares its name case-insensitively.
type Tag struct{ attrs.Schema }

func (Tag) Fields() []attrs.Field {
	return []attrs.Field{
		field.String("name").EqBy(func(v any) any { return strings.ToLower(v.(string)) }),
	}
}

// Mixed holds values of many kinds.
type Mixed struct{ attrs.Schema }

func (Mixed) Fields() []attrs.Field {
	return []attrs.Field{
		field.Time("at"),
		field.UUID("id"),
		field.Bytes("raw"),
		field.Set("labels", field.Of(field.TypeString)),
		field.Map("scores", field.Of(field.TypeInt)),
		field.Float("ratio").Default(0.0),
		field.Any("extra").Default(nil),
	}
}

// Point2D and Point2DAlt are declared compatible.
type (
	Point2D    struct{ attrs.Schema }
	Point2DAlt struct{ attrs.Schema }
)

func (Point2D) Fields() []attrs.Field {
	return []attrs.Field{field.Int("x"), field.Int("y")}
}

func (Point2DAlt) Fields() []attrs.Field {
	return []attrs.Field{field.Int("x"), field.Int("y")}
}

// Grove holds a set of nested instances.
type Grove struct{ attrs.Schema }

func (Grove) Fields() []attrs.Field {
	return []attrs.Field{field.Set("leaves", field.Ref("Leaf"))}
}

// Point2DLoose leaves y out of its hash.
type Point2DLoose struct{ attrs.Schema }

func (Point2DLoose) Fields() []attrs.Field {
	return []attrs.Field{field.Int("x"), field.Int("y").NoHash()}
}

// Values stored in Any fields.
type (
	boxed  struct{ P *int }
	signed struct{ F float64 }
	unexported struct {
		n    int
		tags []string
	}
)

// Counter is mutable and opts into hashing.
type Counter struct{ attrs.Schema }

func (Counter) Fields() []attrs.Field { return []attrs.Field{field.Int("n")} }

func (Counter) Config() attrs.Config {
	c := attrs.Mutable()
	c.Hash = attrs.HashOn
	return c
}

// Identity has no synthesized equality.
type Identity struct{ attrs.Schema }

func (Identity) Fields() []attrs.Field { return []attrs.Field{field.Int("n")} }

func (Identity) Config() attrs.Config {
	return attrs.Config{Frozen: true, Slots: true, Repr: true}
}

func TestEqualIgnoresNoEqFields(t *testing.T) {
	t.Parallel()
	c := newRegistry(t).MustCompile(Version{})
	a := c.MustNew(1, 2, "rc", "first")
	b := c.MustNew(1, 2, "rc", "second")
	assert.True(t, a.Equal(b))
	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
	assert.False(t, a.Equal(c.MustNew(1, 3, "rc")))
	assert.False(t, a.Equal(nil))
}

func TestEqBy(t *testing.T) {
	t.Parallel()
	c := newRegistry(t).MustCompile(Tag{})
	a, b := c.MustNew("Go"), c.MustNew("GO")
	assert.True(t, a.Equal(b))
	ha, _ := a.Hash()
	hb, _ := b.Hash()
	assert.Equal(t, ha, hb)
	assert.Equal(t, `Tag(name="Go")`, a.String())
}

func TestEqualAcrossClasses(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	p := r.MustCompile(Point2D{}).MustNew(1, 2)
	alt := r.MustCompile(Point2DAlt{}).MustNew(1, 2)
	assert.False(t, p.Equal(alt), "distinct classes are not equal")

	r = newRegistry(t)
	p = r.MustCompile(Point2D{}, gen.WithCompatible("point")).MustNew(1, 2)
	alt = r.MustCompile(Point2DAlt{}, gen.WithCompatible("point")).MustNew(1, 2)
	assert.True(t, p.Equal(alt))
	assert.True(t, alt.Equal(p))
	hp, err := p.Hash()
	require.NoError(t, err)
	ha, err := alt.Hash()
	require.NoError(t, err)
	assert.Equal(t, hp, ha)
}

func TestHashability(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)

	bag := r.MustCompile(Bag{})
	assert.False(t, bag.Hashable())
	_, err := bag.MustNew().Hash()
	assert.ErrorIs(t, err, attrs.ErrUnhashable)

	counter := r.MustCompile(Counter{})
	assert.True(t, counter.Hashable())
	h1, err := counter.MustNew(1).Hash()
	require.NoError(t, err)
	h2, err := counter.MustNew(1).Hash()
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	id := r.MustCompile(Identity{})
	x, y := id.MustNew(1), id.MustNew(1)
	assert.False(t, x.Equal(y))
	assert.True(t, x.Equal(x))
	hx1, err := x.Hash()
	require.NoError(t, err)
	hx2, _ := x.Hash()
	assert.Equal(t, hx1, hx2)
}

func TestHashEqualCoherence(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	c := r.MustCompile(Mixed{})
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	mk := func(at time.Time, scores any, extra any) *gen.Instance {
		i, err := c.NewKw(attrs.Kwargs{
			"at":     at,
			"id":     id,
			"raw":    []byte("raw"),
			"labels": attrs.NewSet("b", "a"),
			"scores": scores,
			"ratio":  -0.0,
			"extra":  extra,
		})
		require.NoError(t, err)
		return i
	}
	pairs := []struct {
		name string
		x, y *gen.Instance
	}{
		{"same", mk(at, map[string]int{"a": 1, "b": 2}, nil), mk(at, map[string]int{"b": 2, "a": 1}, nil)},
		{"time zones", mk(at, map[string]int{}, nil), mk(at.In(time.FixedZone("X", 3600)), map[string]int{}, nil)},
		{"container types", mk(at, map[string]any{"a": 1}, []any{1, 2}), mk(at, map[string]int{"a": 1}, []int{1, 2})},
	}
	one, another := 1, 1
	structs := []struct {
		name string
		x, y any
	}{
		{"struct pointers", boxed{&one}, boxed{&another}},
		{"struct signed zero", signed{0}, signed{math.Copysign(0, -1)}},
		{"unexported fields", unexported{1, []string{"a"}}, unexported{1, []string{"a"}}},
		{"struct pointer", &signed{2}, &signed{2}},
	}
	for _, tt := range structs {
		pairs = append(pairs, struct {
			name string
			x, y *gen.Instance
		}{tt.name, mk(at, map[string]int{}, tt.x), mk(at, map[string]int{}, tt.y)})
	}

	leaf := r.MustCompile(Leaf{})
	grove := r.MustCompile(Grove{})
	pairs = append(pairs, struct {
		name string
		x, y *gen.Instance
	}{
		"set of instances",
		grove.MustNew(attrs.NewSet(leaf.MustNew("a"), leaf.MustNew("b"))),
		grove.MustNew(attrs.NewSet(leaf.MustNew("b"), leaf.MustNew("a"))),
	})

	gr := newRegistry(t)
	pairs = append(pairs, struct {
		name string
		x, y *gen.Instance
	}{
		"group",
		gr.MustCompile(Point2D{}, gen.WithCompatible("point")).MustNew(1, 2),
		gr.MustCompile(Point2DAlt{}, gen.WithCompatible("point")).MustNew(1, 2),
	})

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, tt.x.Equal(tt.y))
			require.True(t, tt.y.Equal(tt.x))
			hx, err := tt.x.Hash()
			require.NoError(t, err)
			hy, err := tt.y.Hash()
			require.NoError(t, err)
			assert.Equal(t, hx, hy)
		})
	}

	x := mk(at, map[string]int{"a": 1}, nil)
	y := mk(at, map[string]int{"a": 2}, nil)
	assert.False(t, x.Equal(y))
	hx, _ := x.Hash()
	hy, _ := y.Hash()
	assert.NotEqual(t, hx, hy)

	_, err := mk(at, map[string]int{}, func() {}).Hash()
	assert.ErrorIs(t, err, attrs.ErrUnhashable)
}

func TestSetOfInstances(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	leaf := r.MustCompile(Leaf{})
	grove := r.MustCompile(Grove{})
	a, b := leaf.MustNew("a"), leaf.MustNew("b")

	x := grove.MustNew(attrs.NewSet(a, b))
	assert.True(t, x.Equal(grove.MustNew(attrs.NewSet(leaf.MustNew("a"), leaf.MustNew("b")))))
	assert.False(t, x.Equal(grove.MustNew(attrs.NewSet(a, leaf.MustNew("c")))))
	assert.False(t, x.Equal(grove.MustNew(attrs.NewSet(a))))
	// Two equal leaves are distinct items; each needs its own partner.
	twice := grove.MustNew(attrs.NewSet(a, leaf.MustNew("a")))
	assert.False(t, twice.Equal(x))
	assert.False(t, x.Equal(twice))
}

func TestGroupRequiresSameHashFields(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	p := r.MustCompile(Point2D{}, gen.WithCompatible("point")).MustNew(1, 2)
	loose := r.MustCompile(Point2DLoose{}, gen.WithCompatible("point")).MustNew(1, 2)
	assert.False(t, p.Equal(loose))
	assert.False(t, loose.Equal(p))
	_, err := p.Compare(loose)
	assert.ErrorIs(t, err, attrs.ErrNotOrderable)
}

func TestHashNested(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	outer := r.MustCompile(Outer{})
	inner := r.MustCompile(Inner{})
	a := outer.MustNew("o", inner.MustNew(1))
	b := outer.MustNew("o", inner.MustNew(1))
	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)

	// A nested mutable instance makes the parent unhashable.
	bag := r.MustCompile(Bag{})
	c, err := outer.NewKw(attrs.Kwargs{"name": "o", "inner": bag.MustNew()})
	require.NoError(t, err)
	_, err = c.Hash()
	assert.ErrorIs(t, err, attrs.ErrUnhashable)
}

func TestCompare(t *testing.T) {
	t.Parallel()
	c := newRegistry(t).MustCompile(Version{})
	tests := []struct {
		x, y *gen.Instance
		want int
	}{
		{c.MustNew(1, 2), c.MustNew(1, 3), -1},
		{c.MustNew(2, 0), c.MustNew(1, 9), 1},
		{c.MustNew(1, 2, "a"), c.MustNew(1, 2, "b"), -1},
		{c.MustNew(1, 2, "a", "x"), c.MustNew(1, 2, "a", "y"), 0},
	}
	for _, tt := range tests {
		got, err := tt.x.Compare(tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.x, tt.y)
		less, err := tt.x.Less(tt.y)
		require.NoError(t, err)
		assert.Equal(t, tt.want < 0, less)
	}

	other := newRegistry(t).MustCompile(Version{}).MustNew(1)
	_, err := c.MustNew(1).Compare(other)
	assert.ErrorIs(t, err, attrs.ErrNotOrderable, "classes of distinct registries are distinct")

	acc := newRegistry(t).MustCompile(Account{})
	a := acc.MustNew("a")
	_, err = a.Compare(a)
	assert.ErrorIs(t, err, attrs.ErrNotOrderable)

	var none *gen.Instance
	_, err = none.Compare(c.MustNew(1))
	assert.ErrorIs(t, err, attrs.ErrNotOrderable)
}

func TestCompareValues(t *testing.T) {
	t.Parallel()
	c := newRegistry(t).MustCompile(Mixed{})
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mk := func(at time.Time, extra any) *gen.Instance {
		i, err := c.NewKw(attrs.Kwargs{
			"at": at, "id": uuid.Nil, "raw": []byte{1}, "labels": attrs.NewSet(),
			"scores": map[string]int{}, "extra": extra,
		})
		require.NoError(t, err)
		return i
	}
	r, err := mk(at, nil).Compare(mk(at.Add(time.Second), nil))
	require.NoError(t, err)
	assert.Equal(t, -1, r)

	// Sets and maps are not orderable.
	_, err = mk(at, nil).Compare(mk(at, nil))
	assert.ErrorIs(t, err, attrs.ErrNotOrderable)
}

func TestCompareNested(t *testing.T) {
	t.Parallel()
	r := newRegistry(t)
	outer := r.MustCompile(Outer{})
	inner := r.MustCompile(Inner{})
	a := outer.MustNew("o", inner.MustNew(1))
	b := outer.MustNew("o", inner.MustNew(2))
	got, err := a.Compare(b)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(outer.MustNew("o", inner.MustNew(1))))
}
