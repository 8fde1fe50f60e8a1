package attrs

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors. Every typed error below matches one of them
// with errors.Is.
var (
	// ErrSchemaConflict is returned when a class declaration cannot be
	// compiled: conflicting flags, bad field order, mutable defaults.
	ErrSchemaConflict = errors.New("attrs: schema conflict")

	// ErrForwardRef is returned when a type reference cannot be resolved.
	ErrForwardRef = errors.New("attrs: unresolved forward reference")

	// ErrValidation is returned when a converter or validator rejects a value.
	ErrValidation = errors.New("attrs: validation failed")

	// ErrConstruction is returned when initializer arguments do not
	// match the class signature.
	ErrConstruction = errors.New("attrs: invalid construction")

	// ErrImmutable is returned on writes to a frozen instance or field.
	ErrImmutable = errors.New("attrs: instance is immutable")

	// ErrSerialization is returned when a value cannot be converted to
	// or from its plain form.
	ErrSerialization = errors.New("attrs: serialization failed")

	// ErrAttribute is returned when accessing an attribute the instance
	// does not have.
	ErrAttribute = errors.New("attrs: no such attribute")

	// ErrUnhashable is returned by Hash on classes without a synthesized hash.
	ErrUnhashable = errors.New("attrs: unhashable instance")

	// ErrNotOrderable is returned by Compare when ordering is not
	// synthesized or the values cannot be ordered.
	ErrNotOrderable = errors.New("attrs: values are not orderable")
)

// SchemaConflictError represents an irreconcilable class declaration.
type SchemaConflictError struct {
	Class   string // Class name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error returns the error string.
func (e *SchemaConflictError) Error() string {
	var b strings.Builder
	b.WriteString("attrs: schema conflict")
	if e.Class != "" {
		b.WriteString(" on class ")
		b.WriteString(e.Class)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaConflictError) Unwrap() error { return e.Cause }

// Is reports whether the target is ErrSchemaConflict.
func (e *SchemaConflictError) Is(target error) bool { return target == ErrSchemaConflict }

// NewSchemaConflictError returns a new SchemaConflictError.
func NewSchemaConflictError(class, field, message string, cause error) *SchemaConflictError {
	return &SchemaConflictError{Class: class, Field: field, Message: message, Cause: cause}
}

// IsSchemaConflict returns true if the error is a SchemaConflictError.
func IsSchemaConflict(err error) bool {
	var e *SchemaConflictError
	return errors.As(err, &e)
}

// ForwardRefError represents a type reference that could not be resolved.
type ForwardRefError struct {
	Class string // Class holding the reference
	Field string // Field holding the reference
	Ref   string // Referenced class name
}

// Error returns the error string.
func (e *ForwardRefError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("attrs: unable to resolve reference %q for %s.%s", e.Ref, e.Class, e.Field)
	}
	return fmt.Sprintf("attrs: unable to resolve reference %q", e.Ref)
}

// Is reports whether the target is ErrForwardRef.
func (e *ForwardRefError) Is(target error) bool { return target == ErrForwardRef }

// NewForwardRefError returns a new ForwardRefError.
func NewForwardRefError(class, field, ref string) *ForwardRefError {
	return &ForwardRefError{Class: class, Field: field, Ref: ref}
}

// IsForwardRef returns true if the error is a ForwardRefError.
func IsForwardRef(err error) bool {
	var e *ForwardRefError
	return errors.As(err, &e)
}

// ValidationError represents a value rejected by a field converter or validator.
type ValidationError struct {
	Class string // Class name
	Field string // Field name
	Value any    // Offending value
	Err   error  // Underlying validation error
}

// Error returns the error string.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("attrs: validator failed for field %s.%s (value: %v): %v", e.Class, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error { return e.Err }

// Is reports whether the target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError returns a new ValidationError.
func NewValidationError(class, field string, value any, err error) *ValidationError {
	return &ValidationError{Class: class, Field: field, Value: value, Err: err}
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// ConstructionError represents initializer arguments that do not match
// the class signature. Field holds the first offending field or keyword.
type ConstructionError struct {
	Class   string
	Field   string
	Message string
}

// Error returns the error string.
func (e *ConstructionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("attrs: %s(): %s %q", e.Class, e.Message, e.Field)
	}
	return fmt.Sprintf("attrs: %s(): %s", e.Class, e.Message)
}

// Is reports whether the target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool { return target == ErrConstruction }

// NewConstructionError returns a new ConstructionError.
func NewConstructionError(class, field, message string) *ConstructionError {
	return &ConstructionError{Class: class, Field: field, Message: message}
}

// IsConstructionError returns true if the error is a ConstructionError.
func IsConstructionError(err error) bool {
	var e *ConstructionError
	return errors.As(err, &e)
}

// ImmutabilityError represents a write to a frozen instance or field.
type ImmutabilityError struct {
	Class string
	Field string
}

// Error returns the error string.
func (e *ImmutabilityError) Error() string {
	return fmt.Sprintf("attrs: class %s is frozen, attribute %q cannot be set", e.Class, e.Field)
}

// Is reports whether the target is ErrImmutable.
func (e *ImmutabilityError) Is(target error) bool { return target == ErrImmutable }

// NewImmutabilityError returns a new ImmutabilityError.
func NewImmutabilityError(class, field string) *ImmutabilityError {
	return &ImmutabilityError{Class: class, Field: field}
}

// IsImmutabilityError returns true if the error is an ImmutabilityError.
func IsImmutabilityError(err error) bool {
	var e *ImmutabilityError
	return errors.As(err, &e)
}

// SerializationError represents a value that cannot be converted to or
// from its plain form.
type SerializationError struct {
	Class   string
	Field   string
	Value   any
	Message string
	Cause   error
}

// Error returns the error string.
func (e *SerializationError) Error() string {
	var b strings.Builder
	b.WriteString("attrs: serialization error")
	if e.Class != "" {
		b.WriteString(" on class ")
		b.WriteString(e.Class)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " (%T)", e.Value)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SerializationError) Unwrap() error { return e.Cause }

// Is reports whether the target is ErrSerialization.
func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// NewSerializationError returns a new SerializationError.
func NewSerializationError(class, field string, value any, message string) *SerializationError {
	return &SerializationError{Class: class, Field: field, Value: value, Message: message}
}

// IsSerializationError returns true if the error is a SerializationError.
func IsSerializationError(err error) bool {
	var e *SerializationError
	return errors.As(err, &e)
}

// AttributeError represents access to an attribute the instance does not have.
type AttributeError struct {
	Class string
	Name  string
}

// Error returns the error string.
func (e *AttributeError) Error() string {
	return fmt.Sprintf("attrs: %s has no attribute %q", e.Class, e.Name)
}

// Is reports whether the target is ErrAttribute.
func (e *AttributeError) Is(target error) bool { return target == ErrAttribute }

// NewAttributeError returns a new AttributeError.
func NewAttributeError(class, name string) *AttributeError {
	return &AttributeError{Class: class, Name: name}
}

// IsAttributeError returns true if the error is an AttributeError.
func IsAttributeError(err error) bool {
	var e *AttributeError
	return errors.As(err, &e)
}
