package gen

import (
	"fmt"
	"slices"

	"github.com/syssam/attrs"
)

// Init constructs an instance. Positional arguments bind to the
// positional initializer fields in schema order; keywords bind by
// alias, or by name for fields without an alias.
//
// Argument binding errors are reported as ConstructionErrors before any
// field is assigned. Fields are then assigned in schema order from the
// argument, the default or the factory, through the field converter and
// validators; the first failure aborts construction with a
// ValidationError. Post-init hooks run last.
func (c *Class) Init(args []any, kw attrs.Kwargs) (*Instance, error) {
	if len(args) > len(c.positional) {
		return nil, attrs.NewConstructionError(c.name, "",
			fmt.Sprintf("takes %d positional arguments but %d were given", len(c.positional), len(args)))
	}
	var (
		vals  = make([]any, len(c.fields))
		given = make([]bool, len(c.fields))
	)
	for n, v := range args {
		a := c.positional[n]
		vals[a.index], given[a.index] = v, true
	}
	if len(kw) > 0 {
		keys := make([]string, 0, len(kw))
		for k := range kw {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			a, ok := c.byArg[k]
			switch {
			case !ok:
				return nil, attrs.NewConstructionError(c.name, k, "got an unexpected keyword argument")
			case given[a.index]:
				return nil, attrs.NewConstructionError(c.name, k, "got multiple values for argument")
			}
			vals[a.index], given[a.index] = kw[k], true
		}
	}
	for _, a := range c.fields {
		if !given[a.index] && a.field.Required() {
			return nil, attrs.NewConstructionError(c.name, a.field.ArgName(), "missing required argument")
		}
	}
	inst := c.alloc()
	for _, hook := range c.preInit {
		if err := hook(inst); err != nil {
			return nil, err
		}
	}
	for _, a := range c.fields {
		v := vals[a.index]
		if !given[a.index] {
			switch f := a.field; {
			case f.Factory != nil:
				v = f.Factory()
			case f.HasDefault:
				v = f.Default
			}
		}
		if err := a.set(inst, v); err != nil {
			return nil, err
		}
	}
	for _, hook := range c.postInit {
		if err := hook(inst); err != nil {
			return nil, err
		}
	}
	inst.sealed = true
	return inst, nil
}

// New constructs an instance from positional arguments.
func (c *Class) New(args ...any) (*Instance, error) {
	return c.Init(args, nil)
}

// NewKw constructs an instance from keyword arguments.
func (c *Class) NewKw(kw attrs.Kwargs) (*Instance, error) {
	return c.Init(nil, kw)
}

// MustNew is like New but panics on error.
func (c *Class) MustNew(args ...any) *Instance {
	i, err := c.Init(args, nil)
	if err != nil {
		panic(err)
	}
	return i
}
