package spec

import (
	"fmt"
	"maps"
)

// Handler consumes canonical invocations produced by a Descriptor. It is the
// generic dispatch hook a protocol runtime implements; the descriptor itself
// carries no behavior beyond argument canonicalization.
type Handler interface {
	Invoke(d *Descriptor, args []any, content any) (any, error)
}

// Descriptor is the static invocation contract of one method: parameter
// order, per-field defaults, and argument canonicalization. It replaces any
// need to synthesize callable definitions per method.
type Descriptor struct {
	method *Method
	params []*Field
}

// NewDescriptor derives the invocation contract for a method. Every field
// type must belong to the closed default table; an unknown type fails with
// ErrMalformed.
func NewDescriptor(m *Method) (*Descriptor, error) {
	params := m.Fields.Items()
	for _, f := range params {
		if _, err := defaultValue(f.Type); err != nil {
			return nil, fmt.Errorf("method %s field %q: %w", m.QualifiedName(), f.Name, err)
		}
	}
	return &Descriptor{method: m, params: params}, nil
}

// Method returns the described method.
func (d *Descriptor) Method() *Method { return d.method }

// Params returns the parameters in canonical order.
func (d *Descriptor) Params() []*Field {
	out := make([]*Field, len(d.params))
	copy(out, d.params)
	return out
}

// HasContent reports whether invocations carry a trailing content payload.
func (d *Descriptor) HasContent() bool { return d.method.Content }

// Default returns a fresh default value for the parameter at position i.
func (d *Descriptor) Default(i int) any {
	v, _ := defaultValue(d.params[i].Type)
	return v
}

// Arguments canonicalizes a mixed positional/named call into the method's
// declared parameter order. Each field takes its positional value when the
// index is covered, else its named value, else its type default. Leftover
// named values fail with ErrMultipleValues when they collide with a
// positionally filled field, ErrUnknownArgument otherwise.
func (d *Descriptor) Arguments(positional []any, named map[string]any) ([]any, error) {
	maxArgs := len(d.params)
	nargs := len(positional) + len(named)
	if nargs > maxArgs {
		return nil, fmt.Errorf("%w: %s takes at most %d arguments (%d given)",
			ErrTooManyArguments, d.method.Name, maxArgs, nargs)
	}

	remaining := maps.Clone(named)
	result := make([]any, 0, maxArgs)
	for i, f := range d.params {
		switch {
		case i < len(positional):
			result = append(result, positional[i])
		default:
			if v, ok := remaining[f.Name]; ok {
				delete(remaining, f.Name)
				result = append(result, v)
				continue
			}
			def, err := defaultValue(f.Type)
			if err != nil {
				return nil, fmt.Errorf("method %s field %q: %w", d.method.QualifiedName(), f.Name, err)
			}
			result = append(result, def)
		}
	}

	for key := range remaining {
		if d.method.Fields.Has(key) {
			return nil, fmt.Errorf("%w: %s got multiple values for %q",
				ErrMultipleValues, d.method.Name, key)
		}
		return nil, fmt.Errorf("%w: %s got %q", ErrUnknownArgument, d.method.Name, key)
	}
	return result, nil
}

// Call canonicalizes the arguments and dispatches to the handler as
// h.Invoke(descriptor, args, content). Methods without content reject a
// non-nil content; methods with content take it as given, nil included.
func (d *Descriptor) Call(h Handler, positional []any, named map[string]any, content any) (any, error) {
	args, err := d.Arguments(positional, named)
	if err != nil {
		return nil, err
	}
	if !d.HasContent() && content != nil {
		return nil, fmt.Errorf("%w: %s does not carry content", ErrUnknownArgument, d.method.Name)
	}
	return h.Invoke(d, args, content)
}

// DocString returns the method's rendered documentation.
func (d *Descriptor) DocString() string {
	return d.method.DocString()
}

// defaultValue returns a fresh default for a resolved field type. The table
// is a closed enumeration of the primitive wire types.
func defaultValue(typ string) (any, error) {
	switch typ {
	case "bit":
		return false, nil
	case "shortstr", "longstr":
		return "", nil
	case "table":
		return map[string]any{}, nil
	case "octet", "short", "long", "longlong", "timestamp":
		return 0, nil
	case "content":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: no default for field type %q", ErrMalformed, typ)
	}
}
