package gen

import (
	"errors"
	"log/slog"
)

// Config holds the registry configuration.
type Config struct {
	// Logger receives debug records about compilation and reference
	// resolution. Defaults to slog.Default().
	Logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Config) error

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ClassConfig holds the per-class options given to Registry.Compile.
type ClassConfig struct {
	// PreInit hooks run in order on the empty instance, before any
	// field is assigned.
	PreInit []func(*Instance) error
	// PostInit hooks run in order after all fields are assigned.
	PostInit []func(*Instance) error
	// Group is the equality group of the class. See WithCompatible.
	Group string
}

// ClassOption configures a compiled class.
type ClassOption func(*ClassConfig) error

// WithPreInit adds a hook called on the empty instance before the
// initializer assigns any field. Fields read by the hook are nil.
// A class without hooks inherits those of its nearest base.
func WithPreInit(fn func(*Instance) error) ClassOption {
	return func(c *ClassConfig) error {
		if fn == nil {
			return NewConfigError("PreInit", nil, "hook cannot be nil")
		}
		c.PreInit = append(c.PreInit, fn)
		return nil
	}
}

// WithPostInit adds a hook called after the initializer assigned every
// field and before the instance is sealed. Hooks may still set frozen
// fields. A class without hooks inherits those of its nearest base.
func WithPostInit(fn func(*Instance) error) ClassOption {
	return func(c *ClassConfig) error {
		if fn == nil {
			return NewConfigError("PostInit", nil, "hook cannot be nil")
		}
		c.PostInit = append(c.PostInit, fn)
		return nil
	}
}

// WithCompatible puts the class in an equality group. Instances of
// classes sharing a group, and declaring the same equality fields,
// compare equal to each other and hash alike.
func WithCompatible(group string) ClassOption {
	return func(c *ClassConfig) error {
		if group == "" {
			return NewConfigError("Compatible", nil, "group cannot be empty")
		}
		c.Group = group
		return nil
	}
}

// PlainOption configures conversion from and to the plain form.
type PlainOption func(*plainConfig)

type plainConfig struct {
	byName        bool
	strict        bool
	rejectUnknown bool
}

// ByName keys the plain form by field names instead of aliases.
func ByName() PlainOption {
	return func(c *plainConfig) { c.byName = true }
}

// Strict fails the conversion to the plain form on values of types
// that have no plain representation, instead of passing them through.
func Strict() PlainOption {
	return func(c *plainConfig) { c.strict = true }
}

// RejectUnknown fails FromPlain on keys that name no field.
func RejectUnknown() PlainOption {
	return func(c *plainConfig) { c.rejectUnknown = true }
}

func newPlainConfig(opts []PlainOption) *plainConfig {
	c := &plainConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
