package xmltree

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Printer renders a tree as indented XML for debugging. Traversal state lives
// here, not on the nodes; the tree itself is never touched.
type Printer struct {
	// Indent is the per-level indent string. Defaults to one tab.
	Indent string
}

// Print writes an indented rendering of the subtree rooted at n.
func (p *Printer) Print(w io.Writer, n *Node) error {
	indent := p.Indent
	if indent == "" {
		indent = "\t"
	}
	return p.print(w, n, indent, 0)
}

func (p *Printer) print(w io.Writer, n *Node, indent string, depth int) error {
	pad := strings.Repeat(indent, depth)

	var attrs strings.Builder
	// Sorted for stable output
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&attrs, " %s=%q", k, n.Attrs[k])
	}

	text := strings.TrimSpace(n.Text)
	if len(n.Children) == 0 {
		if text == "" {
			_, err := fmt.Fprintf(w, "%s<%s%s/>\n", pad, n.Name, attrs.String())
			return err
		}
		_, err := fmt.Fprintf(w, "%s<%s%s>%s</%s>\n", pad, n.Name, attrs.String(), text, n.Name)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s<%s%s>", pad, n.Name, attrs.String()); err != nil {
		return err
	}
	if text != "" {
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := p.print(w, c, indent, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s</%s>\n", pad, n.Name)
	return err
}
