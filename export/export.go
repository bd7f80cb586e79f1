// Package export renders a compiled spec into flat, cycle-free documents
// for downstream runtimes.
package export

import (
	"time"

	"github.com/google/uuid"
	"github.com/wireproto/amqspec/spec"
)

// Document is the serializable form of a compiled spec. Method responses are
// carried by name rather than by reference so the document is a tree.
type Document struct {
	// CompileID identifies this compile run.
	CompileID string `json:"compile_id" yaml:"compile_id"`

	// GeneratedAt is when the document was built.
	GeneratedAt time.Time `json:"generated_at" yaml:"generated_at"`

	// Source is the primary spec file.
	Source string `json:"source" yaml:"source"`

	// Label is the derived module label, e.g. "amqp91".
	Label string `json:"label" yaml:"label"`

	// Version is the aggregate protocol version label, e.g. "9-1".
	Version string `json:"version" yaml:"version"`

	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`

	Constants []Constant `json:"constants" yaml:"constants"`
	Classes   []Class    `json:"classes" yaml:"classes"`
}

// Constant mirrors spec.Constant.
type Constant struct {
	Name  string   `json:"name" yaml:"name"`
	ID    int      `json:"id" yaml:"id"`
	Class string   `json:"class,omitempty" yaml:"class,omitempty"`
	Docs  []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// Class mirrors spec.Class.
type Class struct {
	Name    string   `json:"name" yaml:"name"`
	ID      int      `json:"id" yaml:"id"`
	Handler string   `json:"handler" yaml:"handler"`
	Fields  []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods []Method `json:"methods" yaml:"methods"`
	Docs    []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// Method mirrors spec.Method with responses flattened to names.
type Method struct {
	Name        string   `json:"name" yaml:"name"`
	ID          int      `json:"id" yaml:"id"`
	Content     bool     `json:"content" yaml:"content"`
	Synchronous bool     `json:"synchronous" yaml:"synchronous"`
	Responses   []string `json:"responses,omitempty" yaml:"responses,omitempty"`
	IsResponse  bool     `json:"is_response" yaml:"is_response"`
	Fields      []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Docs        []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// Field mirrors spec.Field.
type Field struct {
	Name string   `json:"name" yaml:"name"`
	ID   int      `json:"id" yaml:"id"`
	Type string   `json:"type" yaml:"type"`
	Docs []string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// Build converts a compiled spec into a document, stamping a fresh compile
// id and timestamp.
func Build(s *spec.Spec) *Document {
	doc := &Document{
		CompileID:   uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Source:      s.File,
		Label:       s.Label,
		Version:     s.Version,
		Major:       s.Major,
		Minor:       s.Minor,
	}

	for _, c := range s.Constants.Items() {
		doc.Constants = append(doc.Constants, Constant{
			Name:  c.Name,
			ID:    c.ID,
			Class: c.Class,
			Docs:  c.Docs,
		})
	}

	for _, cls := range s.Classes.Items() {
		out := Class{
			Name:    cls.Name,
			ID:      cls.ID,
			Handler: cls.Handler,
			Fields:  convertFields(cls.Fields),
			Docs:    cls.Docs,
		}
		for _, m := range cls.Methods.Items() {
			meth := Method{
				Name:        m.Name,
				ID:          m.ID,
				Content:     m.Content,
				Synchronous: m.Synchronous,
				IsResponse:  m.IsResponse,
				Fields:      convertFields(m.Fields),
				Description: m.Description,
				Docs:        m.Docs,
			}
			for _, r := range m.Responses {
				meth.Responses = append(meth.Responses, r.Name)
			}
			out.Methods = append(out.Methods, meth)
		}
		doc.Classes = append(doc.Classes, out)
	}
	return doc
}

func convertFields(reg *spec.Registry[*spec.Field]) []Field {
	var out []Field
	for _, f := range reg.Items() {
		out = append(out, Field{Name: f.Name, ID: f.ID, Type: f.Type, Docs: f.Docs})
	}
	return out
}
