package gen

import (
	"reflect"
	"slices"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/load"
)

// Class is a compiled class: the resolved schema together with the
// method tables built from it. A Class is immutable and safe for
// concurrent use.
type Class struct {
	id       uint64
	name     string
	typ      reflect.Type
	schema   *load.Schema
	cfg      attrs.Config
	registry *Registry
	preInit  []func(*Instance) error
	postInit []func(*Instance) error
	group    string
	hashable bool

	fields     []*accessor          // schema order
	byName     map[string]*accessor // field name
	byArg      map[string]*accessor // initializer keyword (alias or name)
	positional []*accessor
	eqFields   []*accessor
	eqNames    []string
	keyNames   []string // eq fields with an equality key
	ordFields  []*accessor
	hashFields []*accessor
	hashNames  []string
	reprFields []*accessor
	plainSteps []plainStep
}

func newClass(r *Registry, id uint64, typ reflect.Type, s *load.Schema, cc *ClassConfig) *Class {
	c := &Class{
		id:       id,
		name:     s.Name,
		typ:      typ,
		schema:   s,
		cfg:      s.Config,
		registry: r,
		preInit:  slices.Clip(cc.PreInit),
		postInit: slices.Clip(cc.PostInit),
		group:    cc.Group,
		hashable: s.Config.Hashable(),
		byName:   make(map[string]*accessor, len(s.Fields)),
		byArg:    make(map[string]*accessor, len(s.Fields)),
	}
	for i, f := range s.Fields {
		a := newAccessor(c.name, i, f, s.Config.Slots)
		c.fields = append(c.fields, a)
		c.byName[f.Name] = a
		if f.Init {
			c.byArg[f.ArgName()] = a
		}
		if f.Positional() {
			c.positional = append(c.positional, a)
		}
		if f.Eq {
			c.eqFields = append(c.eqFields, a)
			c.eqNames = append(c.eqNames, f.Name)
			if f.EqKey != nil {
				c.keyNames = append(c.keyNames, f.Name)
			}
		}
		if f.Order {
			c.ordFields = append(c.ordFields, a)
		}
		if f.Hash {
			c.hashFields = append(c.hashFields, a)
			c.hashNames = append(c.hashNames, f.Name)
		}
		if f.Repr {
			c.reprFields = append(c.reprFields, a)
		}
		if f.Serialize {
			c.plainSteps = append(c.plainSteps, newPlainStep(c, a))
		}
	}
	return c
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Schema returns the resolved schema of the class, for introspection.
func (c *Class) Schema() *load.Schema { return c.schema }

// Config returns the class-level flags.
func (c *Class) Config() attrs.Config { return c.cfg }

// Type returns the Go type of the class declaration.
func (c *Class) Type() reflect.Type { return c.typ }

// Hashable reports whether instances of the class can be hashed.
func (c *Class) Hashable() bool { return c.hashable }

// IsSubclass reports whether c is base or inherits from it.
func (c *Class) IsSubclass(base *Class) bool {
	if c == base {
		return true
	}
	// Names are unique within a registry.
	return c.registry == base.registry && slices.Contains(c.schema.MRO, base.name)
}

// compatible reports whether instances of c and o may compare equal.
// Classes of one group must agree on their equality and hash fields, so
// that equal instances hash alike.
func (c *Class) compatible(o *Class) bool {
	if c == o {
		return true
	}
	return c.group != "" && c.group == o.group &&
		c.hashable == o.hashable &&
		slices.Equal(c.eqNames, o.eqNames) &&
		slices.Equal(c.keyNames, o.keyNames) &&
		slices.Equal(c.hashNames, o.hashNames)
}

// alloc returns an empty, unsealed instance.
func (c *Class) alloc() *Instance {
	i := &Instance{class: c}
	if c.cfg.Slots {
		i.slots = make([]any, len(c.fields))
	} else {
		i.dict = make(map[string]any, len(c.fields))
	}
	return i
}
