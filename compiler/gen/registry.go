package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/load"
)

// Registry compiles class declarations and holds the namespace used to
// resolve forward references between them.
//
// Compilation is serialized; lookups and reference resolution may run
// concurrently with it.
type Registry struct {
	mu      sync.RWMutex
	log     *slog.Logger
	classes map[string]*Class
	order   []*Class
	nextID  uint64
}

// NewRegistry creates a new registry with the given options.
func NewRegistry(opts ...Option) (*Registry, error) {
	c := &Config{Logger: slog.Default()}
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return &Registry{
		log:     c.Logger,
		classes: make(map[string]*Class),
	}, nil
}

// Default is the registry used by the package-level Compile.
var Default = MustNewRegistry()

// MustNewRegistry is like NewRegistry but panics on error.
func MustNewRegistry(opts ...Option) *Registry {
	r, err := NewRegistry(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// Compile compiles decl in the default registry.
func Compile(decl attrs.Interface, opts ...ClassOption) (*Class, error) {
	return Default.Compile(decl, opts...)
}

// MustCompile is like Compile but panics on error. It is meant for
// package-level class variables.
func MustCompile(decl attrs.Interface, opts ...ClassOption) *Class {
	c, err := Default.Compile(decl, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Compile compiles a class declaration, its bases first, and registers
// it by name. Compiling an already registered declaration returns the
// registered class and ignores the options.
func (r *Registry) Compile(decl attrs.Interface, opts ...ClassOption) (*Class, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.compile(decl, opts, make(map[string]bool))
}

// MustCompile is like Compile but panics on error.
func (r *Registry) MustCompile(decl attrs.Interface, opts ...ClassOption) *Class {
	c, err := r.Compile(decl, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func (r *Registry) compile(decl attrs.Interface, opts []ClassOption, visiting map[string]bool) (*Class, error) {
	d, err := load.Load(decl)
	if err != nil {
		return nil, err
	}
	if c, ok := r.classes[d.Name]; ok {
		if c.typ != d.Type {
			return nil, attrs.NewSchemaConflictError(d.Name, "", fmt.Sprintf("class name already registered by %s", c.typ), nil)
		}
		return c, nil
	}
	if visiting[d.Name] {
		return nil, attrs.NewSchemaConflictError(d.Name, "", "inheritance cycle", nil)
	}
	visiting[d.Name] = true
	defer delete(visiting, d.Name)

	var (
		bases = make([]string, 0, len(d.Bases))
		mros  = make(map[string][]string, len(d.Bases))
	)
	for _, b := range d.Bases {
		bc, err := r.compile(b, nil, visiting)
		if err != nil {
			return nil, err
		}
		bases = append(bases, bc.name)
		mros[bc.name] = bc.schema.MRO
	}
	mro, err := load.Linearize(d.Name, bases, mros)
	if err != nil {
		return nil, err
	}
	ancestors := make([]*load.Schema, 0, len(mro)-1)
	for i := len(mro) - 1; i > 0; i-- {
		ancestors = append(ancestors, r.classes[mro[i]].schema)
	}
	s, err := load.Resolve(d.Name, d.Config, d.Fields, ancestors)
	if err != nil {
		return nil, err
	}
	cc := &ClassConfig{}
	for _, opt := range opts {
		if err := opt(cc); err != nil {
			return nil, err
		}
	}
	// Hooks are looked up along the linearisation, like methods.
	for _, name := range mro[1:] {
		base := r.classes[name]
		if len(cc.PreInit) == 0 && len(base.preInit) > 0 {
			cc.PreInit = base.preInit
		}
		if len(cc.PostInit) == 0 && len(base.postInit) > 0 {
			cc.PostInit = base.postInit
		}
	}
	r.nextID++
	c := newClass(r, r.nextID, d.Type, s, cc)
	r.classes[c.name] = c
	r.order = append(r.order, c)
	r.log.Debug("attrs: class compiled", "class", c.name, "fields", len(s.Fields), "mro", s.MRO)
	r.resolvePending()
	return c, nil
}

// resolvePending attempts to resolve every pending forward reference.
// Unresolvable references are left for later. Callers must hold the lock.
func (r *Registry) resolvePending() {
	for _, c := range r.order {
		for _, f := range c.schema.Refs() {
			if _, ok := f.Ref.Resolved(); ok {
				continue
			}
			if _, err := f.Resolve(r.lookupLocked); err == nil {
				r.log.Debug("attrs: reference resolved", "class", c.name, "field", f.Name, "ref", f.Ref.Name)
			}
		}
	}
}

func (r *Registry) lookupLocked(name string) (any, bool) {
	c, ok := r.classes[name]
	return c, ok
}

func (r *Registry) lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookupLocked(name)
}

// Lookup returns the class registered under the given name.
func (r *Registry) Lookup(name string) (*Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns the registered classes in compilation order.
func (r *Registry) Classes() []*Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Class(nil), r.order...)
}

// Finalize resolves every forward reference of the registered classes.
// All failures are reported, joined, as ForwardRefErrors.
func (r *Registry) Finalize(ctx context.Context) error {
	classes := r.Classes()
	var (
		mu   sync.Mutex
		errs []error
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, c := range classes {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for _, f := range c.schema.Refs() {
				if _, err := f.Resolve(r.lookup); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	r.log.Debug("attrs: registry finalized", "classes", len(classes), "errors", len(errs))
	return errors.Join(errs...)
}
