package spec

import "errors"

// Loader and registry errors.
var (
	// ErrMalformed is returned for documents missing required structure,
	// non-integer ids or versions, or unknown field types.
	ErrMalformed = errors.New("malformed spec")

	// ErrDuplicate is returned when a name or id collides inside a registry.
	ErrDuplicate = errors.New("duplicate identity")

	// ErrNotFound is returned for registry lookup misses, including overlay
	// and response references to undeclared entities.
	ErrNotFound = errors.New("not found")
)

// Argument canonicalization errors, raised to the immediate caller of a
// descriptor and never affecting the published model.
var (
	// ErrTooManyArguments is returned when positional plus named values
	// exceed the method's field count.
	ErrTooManyArguments = errors.New("too many arguments")

	// ErrUnknownArgument is returned for a named value matching no field.
	ErrUnknownArgument = errors.New("unexpected keyword argument")

	// ErrMultipleValues is returned for a named value whose field was
	// already filled positionally.
	ErrMultipleValues = errors.New("multiple values for argument")
)
