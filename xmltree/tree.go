// Package xmltree builds a generic document tree from a streaming XML parse.
// It has no knowledge of any particular document schema; consumers navigate
// the tree with probe accessors (HasAttr, HasChild) or required accessors
// (Attr, Child) that fail with ErrNotFound.
package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Common tree errors.
var (
	// ErrNotFound is returned when a required attribute or child is absent.
	ErrNotFound = errors.New("not found")

	// ErrMalformed is returned for documents that cannot be parsed into a tree.
	ErrMalformed = errors.New("malformed document")
)

// Node is one element of a parsed document. A Node owns its children; the
// Parent link is non-owning and only used for position and path queries.
type Node struct {
	// Name is the element tag name.
	Name string

	// Attrs holds the element attributes.
	Attrs map[string]string

	// Text is the accumulated character data of the element.
	Text string

	// Parent is the enclosing element, nil for the synthetic root.
	Parent *Node

	// Children are the child elements in document order.
	Children []*Node
}

// Parse reads an XML document and returns a synthetic root node named "root"
// whose children are the document's top-level elements. The tree is built
// depth-first as parse events arrive, with no backtracking.
func Parse(r io.Reader) (*Node, error) {
	root := &Node{Name: "root"}
	cur := root

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			child := &Node{Name: t.Name.Local, Attrs: attrs, Parent: cur}
			cur.Children = append(cur.Children, child)
			cur = child
		case xml.EndElement:
			cur = cur.Parent
		case xml.CharData:
			cur.Text += string(t)
		}
	}

	if len(root.Children) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	return root, nil
}

// ParseBytes parses an in-memory document.
func ParseBytes(content []byte) (*Node, error) {
	return Parse(bytes.NewReader(content))
}

// ParseFile parses the document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// HasAttr probes for an attribute, returning its value and presence.
func (n *Node) HasAttr(key string) (string, bool) {
	v, ok := n.Attrs[key]
	return v, ok
}

// Attr returns a required attribute value, failing with ErrNotFound when the
// attribute is absent.
func (n *Node) Attr(key string) (string, error) {
	v, ok := n.Attrs[key]
	if !ok {
		return "", fmt.Errorf("%w: attribute %q on <%s>", ErrNotFound, key, n.Name)
	}
	return v, nil
}

// Int returns a required integer attribute. A missing attribute fails with
// ErrNotFound; a non-integer value fails with ErrMalformed.
func (n *Node) Int(key string) (int, error) {
	v, err := n.Attr(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%w: attribute %q on <%s> is not an integer: %q", ErrMalformed, key, n.Name, v)
	}
	return i, nil
}

// Bool interprets an attribute as a coerced boolean: "0" is false and any
// other integer is true. An absent attribute yields def; non-integer text
// fails with ErrMalformed.
func (n *Node) Bool(key string, def bool) (bool, error) {
	v, ok := n.Attrs[key]
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return false, fmt.Errorf("%w: attribute %q on <%s> is not a boolean: %q", ErrMalformed, key, n.Name, v)
	}
	return i != 0, nil
}

// HasChild reports whether a direct child with the given name exists.
func (n *Node) HasChild(name string) bool {
	for _, c := range n.Children {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Child returns the first direct child with the given name, failing with
// ErrNotFound when none exists.
func (n *Node) Child(name string) (*Node, error) {
	for _, c := range n.Children {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: child <%s> of <%s>", ErrNotFound, name, n.Name)
}

// ChildNodes returns all direct children with the given name in document
// order. The result is empty when none exist.
func (n *Node) ChildNodes(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildAt returns the child at the given position.
func (n *Node) ChildAt(i int) (*Node, error) {
	if i < 0 || i >= len(n.Children) {
		return nil, fmt.Errorf("%w: child %d of <%s> (%d children)", ErrNotFound, i, n.Name, len(n.Children))
	}
	return n.Children[i], nil
}

// Index returns the node's position among its parent's children, 0 for the
// root.
func (n *Node) Index() int {
	if n.Parent == nil {
		return 0
	}
	for i, c := range n.Parent.Children {
		if c == n {
			return i
		}
	}
	return 0
}

// Path returns the slash-joined tag names from the root down to this node.
func (n *Node) Path() string {
	if n.Parent == nil {
		return "/" + n.Name
	}
	return n.Parent.Path() + "/" + n.Name
}
