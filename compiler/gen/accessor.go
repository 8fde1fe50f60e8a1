package gen

import (
	"github.com/syssam/attrs"
	"github.com/syssam/attrs/compiler/load"
)

// accessor is the write and read path of one field, built once per
// class. The initializer and Instance.Set both store through set.
type accessor struct {
	field *load.Field
	index int
	// get reads the stored value.
	get func(*Instance) any
	// put stores a value without checks.
	put func(*Instance, any)
	// check runs the converter and validators. Nil when the field
	// has neither.
	check func(any) (any, error)
}

func newAccessor(class string, index int, f *load.Field, slots bool) *accessor {
	a := &accessor{field: f, index: index}
	if slots {
		a.get = func(i *Instance) any { return i.slots[index] }
		a.put = func(i *Instance, v any) { i.slots[index] = v }
	} else {
		name := f.Name
		a.get = func(i *Instance) any { return i.dict[name] }
		a.put = func(i *Instance, v any) { i.dict[name] = v }
	}
	conv, validators := f.Converter, f.Validators
	if conv == nil && len(validators) == 0 {
		return a
	}
	a.check = func(v any) (any, error) {
		if conv != nil {
			cv, err := conv(v)
			if err != nil {
				return nil, attrs.NewValidationError(class, f.Name, v, err)
			}
			v = cv
		}
		for _, fn := range validators {
			if err := fn(v); err != nil {
				return nil, attrs.NewValidationError(class, f.Name, v, err)
			}
		}
		return v, nil
	}
	return a
}

// set converts, validates and stores v. The stored value is left
// unchanged on failure.
func (a *accessor) set(i *Instance, v any) error {
	if a.check != nil {
		cv, err := a.check(v)
		if err != nil {
			return err
		}
		v = cv
	}
	a.put(i, v)
	return nil
}
