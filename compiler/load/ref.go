package load

import (
	"errors"
	"sync/atomic"

	"github.com/syssam/attrs"
)

// errUnresolved is returned by Ref.Resolve when the lookup fails.
var errUnresolved = errors.New("load: unresolved reference")

// Ref is a reference to a class by name that may not exist yet. It is
// resolved at most once: the first successful resolution is cached and
// returned by every later call, whichever goroutine performed it.
type Ref struct {
	Name   string
	target atomic.Pointer[resolved]
}

type resolved struct{ v any }

// NewRef returns an unresolved reference to the named class.
func NewRef(name string) *Ref {
	return &Ref{Name: name}
}

// Resolved returns the cached target, if any.
func (r *Ref) Resolved() (any, bool) {
	if t := r.target.Load(); t != nil {
		return t.v, true
	}
	return nil, false
}

// Resolve returns the target of the reference, looking it up by name
// on the first call. Concurrent callers all observe the same target.
func (r *Ref) Resolve(lookup func(string) (any, bool)) (any, error) {
	if t := r.target.Load(); t != nil {
		return t.v, nil
	}
	v, ok := lookup(r.Name)
	if !ok {
		return nil, errUnresolved
	}
	r.target.CompareAndSwap(nil, &resolved{v: v})
	return r.target.Load().v, nil
}

// Resolve resolves the forward reference of the field, if it holds one.
func (f *Field) Resolve(lookup func(string) (any, bool)) (any, error) {
	if f.Ref == nil {
		return nil, nil
	}
	v, err := f.Ref.Resolve(lookup)
	if err != nil {
		owner := ""
		if f.Position != nil {
			owner = f.Position.Owner
		}
		return nil, attrs.NewForwardRefError(owner, f.Name, f.Ref.Name)
	}
	return v, nil
}
