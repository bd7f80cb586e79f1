package spec

import "strings"

// fillWidth is the wrap column for rendered documentation.
const fillWidth = 70

// DocString renders the method documentation: wrapped description and doc
// blocks, per-field documentation with the field name as a heading, and the
// list of valid responses.
func (m *Method) DocString() string {
	blocks := make([]string, 0, 1+len(m.Docs))
	blocks = append(blocks, fill(m.Description, 2, ""))
	for _, d := range m.Docs {
		blocks = append(blocks, fill(d, 2, ""))
	}
	s := strings.Join(blocks, "\n\n")

	for _, f := range m.Fields.Items() {
		if len(f.Docs) == 0 {
			continue
		}
		fieldBlocks := []string{fill(f.Docs[0], 4, f.Name)}
		for _, d := range f.Docs[1:] {
			fieldBlocks = append(fieldBlocks, fill(d, 4, ""))
		}
		s += "\n\n" + strings.Join(fieldBlocks, "\n\n")
	}

	if len(m.Responses) > 0 {
		s += "\n\nValid responses: "
		for _, r := range m.Responses {
			s += r.Name + " "
		}
	}
	return s
}

// fill collapses whitespace and greedily wraps text at fillWidth columns
// with a hanging indent. A heading is rendered on the first line at a
// shallower margin with a "name -- " prefix.
func fill(text string, indent int, heading string) string {
	words := strings.Fields(text)
	sub := strings.Repeat(" ", indent)
	init := sub
	if heading != "" {
		init = strings.Repeat(" ", indent-2) + heading + " -- "
	}
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	line := init + words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > fillWidth {
			b.WriteString(line)
			b.WriteByte('\n')
			line = sub + w
			continue
		}
		line += " " + w
	}
	b.WriteString(line)
	return b.String()
}
