package gen

import (
	"fmt"
	"maps"
	"slices"

	"github.com/syssam/attrs"
)

// Instance is an instance of a compiled class. Field values live in
// fixed slots for slotted classes, or in a per-instance map that also
// accepts extra attributes otherwise.
//
// Instances of frozen classes are safe to share once constructed.
// Concurrent writes to a mutable instance must be synchronized by the
// caller.
type Instance struct {
	class  *Class
	slots  []any
	dict   map[string]any
	sealed bool
}

// Class returns the class of the instance.
func (i *Instance) Class() *Class { return i.class }

// IsFrozen reports whether the instance rejects writes.
func (i *Instance) IsFrozen() bool { return i.class.cfg.Frozen }

// Get returns the value of the named attribute.
func (i *Instance) Get(name string) (any, error) {
	if a, ok := i.class.byName[name]; ok {
		return a.get(i), nil
	}
	if i.dict != nil {
		if v, ok := i.dict[name]; ok {
			return v, nil
		}
	}
	return nil, attrs.NewAttributeError(i.class.name, name)
}

// MustGet is like Get but panics if the attribute does not exist.
func (i *Instance) MustGet(name string) any {
	v, err := i.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// Set assigns the named attribute, applying the field converter and
// validators. Writes to frozen instances and frozen fields fail with
// an ImmutabilityError once the instance is constructed; a failed
// write leaves the instance unchanged.
func (i *Instance) Set(name string, v any) error {
	c := i.class
	a, ok := c.byName[name]
	switch {
	case i.sealed && (c.cfg.Frozen || ok && a.field.Frozen):
		return attrs.NewImmutabilityError(c.name, name)
	case ok:
		return a.set(i, v)
	case i.dict == nil:
		return attrs.NewAttributeError(c.name, name)
	}
	i.dict[name] = v
	return nil
}

// Extra returns the names of the attributes that are not fields,
// sorted. Slotted instances never have any.
func (i *Instance) Extra() []string {
	var names []string
	for name := range i.dict {
		if _, ok := i.class.byName[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Evolve returns a new instance with the given initializer arguments
// replaced. Fields excluded from the initializer are reset to their
// defaults.
func (i *Instance) Evolve(changes attrs.Kwargs) (*Instance, error) {
	c := i.class
	kw := make(attrs.Kwargs, len(c.byArg)+len(changes))
	for arg, a := range c.byArg {
		kw[arg] = a.get(i)
	}
	maps.Copy(kw, changes)
	return c.Init(nil, kw)
}

// Value returns the named field of the instance as a T. A nil value
// yields the zero T.
func Value[T any](i *Instance, name string) (T, error) {
	var zero T
	v, err := i.Get(name)
	if err != nil || v == nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("attrs: attribute %s.%s holds %T, not %T", i.class.name, name, v, zero)
	}
	return t, nil
}
