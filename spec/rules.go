package spec

import "github.com/wireproto/amqspec/xmltree"

// Rule is a conformance rule extracted from a spec document. Rules appear
// either as rule elements or as doc elements named "rule".
type Rule struct {
	// Text is the rule body.
	Text string

	// Implement is the implementation requirement label, empty when absent.
	Implement string

	// Tests lists the associated test identifiers.
	Tests []string

	// Path locates the rule element within the document tree.
	Path string
}

// FindRules walks the tree rooted at node and collects every rule.
func FindRules(node *xmltree.Node) []Rule {
	var rules []Rule
	findRules(node, &rules)
	return rules
}

func findRules(node *xmltree.Node, rules *[]Rule) {
	if node.Name == "rule" {
		implement, _ := node.HasAttr("implement")
		var tests []string
		for _, ch := range node.ChildNodes("test") {
			tests = append(tests, ch.Text)
		}
		*rules = append(*rules, Rule{
			Text:      node.Text,
			Implement: implement,
			Tests:     tests,
			Path:      node.Path(),
		})
	}
	if node.Name == "doc" {
		if name, _ := node.HasAttr("name"); name == "rule" {
			var tests []string
			if test, ok := node.HasAttr("test"); ok {
				tests = append(tests, test)
			}
			*rules = append(*rules, Rule{Text: node.Text, Tests: tests, Path: node.Path()})
		}
	}
	for _, child := range node.Children {
		findRules(child, rules)
	}
}
