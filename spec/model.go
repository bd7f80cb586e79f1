// Package spec compiles protocol specification documents into a read-only
// object model: constants, classes, methods and fields, plus per-method
// invocation descriptors. The model is built once by a Loader and is safe
// for unsynchronized concurrent reads afterwards.
package spec

import (
	"fmt"
	"strings"
)

// Spec is the parsed protocol definition for one major.minor version.
type Spec struct {
	// Major and Minor are the protocol version read from the root element.
	Major int
	Minor int

	// File identifies the primary source document.
	File string

	// Label is the derived module label, e.g. "amqp91".
	Label string

	// Version is the derived aggregate version label, e.g. "9-1".
	Version string

	// Constants holds the protocol constants from all documents.
	Constants *Registry[*Constant]

	// Classes holds the protocol classes from the primary document.
	Classes *Registry[*Class]

	// methods maps underscore-joined "class_method" labels to methods. It is
	// fully populated by finalize and never written afterwards, so lookups
	// need no locking.
	methods map[string]*Method
}

func newSpec(major, minor int, file string) *Spec {
	return &Spec{
		Major:     major,
		Minor:     minor,
		File:      file,
		Constants: NewRegistry[*Constant](),
		Classes:   NewRegistry[*Class](),
	}
}

// finalize derives the stable identifiers consumed downstream and builds the
// complete label index, leaving the spec read-only.
func (s *Spec) finalize() {
	s.Label = fmt.Sprintf("amqp%d%d", s.Major, s.Minor)
	s.Version = fmt.Sprintf("%d-%d", s.Major, s.Minor)
	s.methods = make(map[string]*Method)
	for _, cls := range s.Classes.Items() {
		for _, m := range cls.Methods.Items() {
			s.methods[cls.Name+"_"+m.Name] = m
		}
	}
}

// Method resolves a dotted "class.method" name.
func (s *Spec) Method(name string) (*Method, error) {
	parts := strings.Split(name, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: method name %q is not class.method", ErrMalformed, name)
	}
	cls, err := s.Classes.ByName(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	return cls.Methods.ByName(strings.TrimSpace(parts[1]))
}

// MethodByLabel resolves an underscore-joined "class_method" label against
// the index built during load.
func (s *Spec) MethodByLabel(label string) (*Method, error) {
	if m, ok := s.methods[label]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("%w: method label %q", ErrNotFound, label)
}

// Constant is a named protocol constant, optionally tied to a class.
type Constant struct {
	// Name is the normalized constant name.
	Name string

	// ID is the constant's numeric value.
	ID int

	// Class is the owning-class label, empty when unowned.
	Class string

	// Docs holds the documentation blocks.
	Docs []string
}

// EntryName implements Entry.
func (c *Constant) EntryName() string { return c.Name }

// EntryID implements Entry.
func (c *Constant) EntryID() int { return c.ID }

// Class is a named group of related methods.
type Class struct {
	// Spec is the owning spec.
	Spec *Spec

	// Name is the normalized class name.
	Name string

	// ID is the class index.
	ID int

	// Handler is the handler label from the declaration.
	Handler string

	// Fields holds class-level attributes, if the class declares any.
	Fields *Registry[*Field]

	// Methods holds the class's methods.
	Methods *Registry[*Method]

	// Docs holds the documentation blocks.
	Docs []string
}

// EntryName implements Entry.
func (c *Class) EntryName() string { return c.Name }

// EntryID implements Entry.
func (c *Class) EntryID() int { return c.ID }

// Method is one operation within a class: an ordered field list plus an
// optional content payload.
type Method struct {
	// Class is the owning class.
	Class *Class

	// Name is the normalized method name.
	Name string

	// ID is the method index.
	ID int

	// Content reports whether the method carries a content payload.
	Content bool

	// Synchronous reports whether the method expects a synchronous reply.
	Synchronous bool

	// Responses are the resolved reply methods within the same class.
	Responses []*Method

	// IsResponse is true when some sibling method names this one as a reply.
	IsResponse bool

	// Fields are the method parameters in declaration order.
	Fields *Registry[*Field]

	// Description is the free text of the method element.
	Description string

	// Docs holds the documentation blocks.
	Docs []string
}

// EntryName implements Entry.
func (m *Method) EntryName() string { return m.Name }

// EntryID implements Entry.
func (m *Method) EntryID() int { return m.ID }

// QualifiedName returns the dotted "class.method" name.
func (m *Method) QualifiedName() string {
	return m.Class.Name + "." + m.Name
}

// Field is a named, typed parameter of a method or a class-level attribute.
type Field struct {
	// Name is the normalized field name.
	Name string

	// ID is the declared index: the field's position among its parent
	// element's children.
	ID int

	// Type is the field type with domain aliases resolved away.
	Type string

	// Docs holds the documentation blocks.
	Docs []string
}

// EntryName implements Entry.
func (f *Field) EntryName() string { return f.Name }

// EntryID implements Entry.
func (f *Field) EntryID() int { return f.ID }

// Normalize rewrites a declared name into identifier form: spaces and
// hyphens become underscores. Keyword remapping is not needed under
// data-driven dispatch.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ReplaceAll(name, "-", "_")
}
