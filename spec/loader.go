package spec

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wireproto/amqspec/xmltree"
)

// Document is one spec source: a name for error messages plus raw content.
type Document struct {
	Name    string
	Content []byte
}

// Loader compiles specification documents into a Spec. The load runs once,
// synchronously; on any failure the partially built model is discarded and
// never published.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load compiles the primary spec file plus zero or more errata files.
func Load(primary string, errata ...string) (*Spec, error) {
	return NewLoader(nil).Load(primary, errata...)
}

// Load reads the given files and compiles them.
func (l *Loader) Load(primary string, errata ...string) (*Spec, error) {
	docs := make([]Document, 0, 1+len(errata))
	for _, path := range append([]string{primary}, errata...) {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read spec document: %w", err)
		}
		docs = append(docs, Document{Name: path, Content: content})
	}
	return l.LoadDocuments(docs[0], docs[1:]...)
}

// LoadDocuments compiles in-memory documents. The primary document declares
// every class and method identity; errata documents may only amend entities
// the primary declared.
func (l *Loader) LoadDocuments(primary Document, errata ...Document) (*Spec, error) {
	roots := make([]*xmltree.Node, 0, 1+len(errata))
	for _, doc := range append([]Document{primary}, errata...) {
		tree, err := xmltree.ParseBytes(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, doc.Name, err)
		}
		root, err := tree.Child("amqp")
		if err != nil {
			return nil, fmt.Errorf("%w: %s has no amqp element", ErrMalformed, doc.Name)
		}
		roots = append(roots, root)
	}

	major, err := roots[0].Int("major")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: major version: %v", ErrMalformed, primary.Name, err)
	}
	minor, err := roots[0].Int("minor")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: minor version: %v", ErrMalformed, primary.Name, err)
	}
	s := newSpec(major, minor, primary.Name)

	for i, root := range roots {
		isPrimary := i == 0
		if err := l.loadDocument(s, root, isPrimary); err != nil {
			return nil, err
		}
	}

	s.finalize()
	l.logger.Debug("spec loaded",
		slog.String("file", s.File),
		slog.String("label", s.Label),
		slog.Int("classes", s.Classes.Len()),
		slog.Int("constants", s.Constants.Len()))
	return s, nil
}

func (l *Loader) loadDocument(s *Spec, root *xmltree.Node, isPrimary bool) error {
	if err := l.loadConstants(s, root); err != nil {
		return err
	}

	// Domains are typedefs, scoped to the current document.
	domains := make(map[string]string)
	for _, nd := range root.ChildNodes("domain") {
		name, err := nd.Attr("name")
		if err != nil {
			return fmt.Errorf("%w: domain: %v", ErrMalformed, err)
		}
		typ, err := nd.Attr("type")
		if err != nil {
			return fmt.Errorf("%w: domain %q: %v", ErrMalformed, name, err)
		}
		domains[name] = typ
	}

	for _, cnd := range root.ChildNodes("class") {
		if err := l.loadClass(s, cnd, domains, isPrimary); err != nil {
			return err
		}
	}
	return nil
}

func (l *Loader) loadConstants(s *Spec, root *xmltree.Node) error {
	for _, nd := range root.ChildNodes("constant") {
		name, err := nd.Attr("name")
		if err != nil {
			return fmt.Errorf("%w: constant: %v", ErrMalformed, err)
		}
		value, err := nd.Int("value")
		if err != nil {
			return fmt.Errorf("%w: constant %q: %v", ErrMalformed, name, err)
		}
		klass, _ := nd.HasAttr("class")
		c := &Constant{Name: Normalize(name), ID: value, Class: klass, Docs: docsOf(nd)}
		if err := s.Constants.Add(c); err != nil {
			return fmt.Errorf("constant %q: %w", c.Name, err)
		}
	}
	return nil
}

func (l *Loader) loadClass(s *Spec, cnd *xmltree.Node, domains map[string]string, isPrimary bool) error {
	rawName, err := cnd.Attr("name")
	if err != nil {
		return fmt.Errorf("%w: class: %v", ErrMalformed, err)
	}
	cname := Normalize(rawName)

	var klass *Class
	if isPrimary {
		id, err := cnd.Int("index")
		if err != nil {
			return fmt.Errorf("%w: class %q: %v", ErrMalformed, cname, err)
		}
		handler, err := cnd.Attr("handler")
		if err != nil {
			return fmt.Errorf("%w: class %q: %v", ErrMalformed, cname, err)
		}
		klass = &Class{
			Spec:    s,
			Name:    cname,
			ID:      id,
			Handler: handler,
			Fields:  NewRegistry[*Field](),
			Methods: NewRegistry[*Method](),
			Docs:    docsOf(cnd),
		}
		if err := s.Classes.Add(klass); err != nil {
			return fmt.Errorf("class %q: %w", cname, err)
		}
	} else {
		klass, err = s.Classes.ByName(cname)
		if err != nil {
			return fmt.Errorf("errata class %q: %w", cname, err)
		}
	}

	if err := loadFields(cnd, klass.Fields, domains); err != nil {
		return fmt.Errorf("class %q: %w", cname, err)
	}

	// Two-phase: declare every method of this document first, resolve
	// response references after.
	var added []*Method
	responses := make(map[*Method][]string)
	for _, mnd := range cnd.ChildNodes("method") {
		rawName, err := mnd.Attr("name")
		if err != nil {
			return fmt.Errorf("%w: class %q method: %v", ErrMalformed, cname, err)
		}
		mname := Normalize(rawName)

		var meth *Method
		if isPrimary {
			id, err := mnd.Int("index")
			if err != nil {
				return fmt.Errorf("%w: method %s.%s: %v", ErrMalformed, cname, mname, err)
			}
			var raw []string
			for _, rnd := range mnd.ChildNodes("response") {
				rname, err := rnd.Attr("name")
				if err != nil {
					return fmt.Errorf("%w: method %s.%s response: %v", ErrMalformed, cname, mname, err)
				}
				raw = append(raw, Normalize(rname))
			}
			content, err := mnd.Bool("content", false)
			if err != nil {
				return fmt.Errorf("%w: method %s.%s: %v", ErrMalformed, cname, mname, err)
			}
			synchronous, err := mnd.Bool("synchronous", false)
			if err != nil {
				return fmt.Errorf("%w: method %s.%s: %v", ErrMalformed, cname, mname, err)
			}
			meth = &Method{
				Class:       klass,
				Name:        mname,
				ID:          id,
				Content:     content,
				Synchronous: synchronous,
				Fields:      NewRegistry[*Field](),
				Description: mnd.Text,
				Docs:        docsOf(mnd),
			}
			if err := klass.Methods.Add(meth); err != nil {
				return fmt.Errorf("method %s.%s: %w", cname, mname, err)
			}
			added = append(added, meth)
			responses[meth] = raw
		} else {
			meth, err = klass.Methods.ByName(mname)
			if err != nil {
				return fmt.Errorf("errata method %s.%s: %w", cname, mname, err)
			}
		}

		if err := loadFields(mnd, meth.Fields, domains); err != nil {
			return fmt.Errorf("method %s.%s: %w", cname, mname, err)
		}
	}

	for _, m := range added {
		for _, rname := range responses[m] {
			resp, err := klass.Methods.ByName(rname)
			if err != nil {
				return fmt.Errorf("response %q of method %s: %w", rname, m.QualifiedName(), err)
			}
			m.Responses = append(m.Responses, resp)
			resp.IsResponse = true
		}
	}
	return nil
}

// loadFields loads the field declarations of a class or method element. Each
// field's declared type is resolved through the document's domain map to a
// fixed point, and its id is its position among the parent's children.
func loadFields(nd *xmltree.Node, reg *Registry[*Field], domains map[string]string) error {
	for _, fnd := range nd.ChildNodes("field") {
		rawName, err := fnd.Attr("name")
		if err != nil {
			return fmt.Errorf("%w: field: %v", ErrMalformed, err)
		}
		typ, ok := fnd.HasAttr("domain")
		if !ok {
			typ, err = fnd.Attr("type")
			if err != nil {
				return fmt.Errorf("%w: field %q has neither domain nor type", ErrMalformed, rawName)
			}
		}
		for domains[typ] != "" && domains[typ] != typ {
			typ = domains[typ]
		}
		f := &Field{Name: Normalize(rawName), ID: fnd.Index(), Type: typ, Docs: docsOf(fnd)}
		if err := reg.Add(f); err != nil {
			return fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return nil
}

// docsOf collects the text of an element's doc children.
func docsOf(nd *xmltree.Node) []string {
	var docs []string
	for _, d := range nd.ChildNodes("doc") {
		docs = append(docs, d.Text)
	}
	return docs
}
