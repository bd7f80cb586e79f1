package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/spec"
)

func newDescribeCmd() *cobra.Command {
	var specFile string
	var errata []string

	cmd := &cobra.Command{
		Use:   "describe <class.method>",
		Short: "Print the invocation contract and documentation of a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := compileFromFlags(specFile, errata)
			if err != nil {
				return err
			}

			m, err := s.Method(args[0])
			if err != nil {
				return fmt.Errorf("method %q: %w", args[0], err)
			}
			d, err := spec.NewDescriptor(m)
			if err != nil {
				return err
			}

			fmt.Printf("%s (id %d)\n", m.QualifiedName(), m.ID)
			var params []string
			for i, f := range d.Params() {
				params = append(params, fmt.Sprintf("%s %s = %v", f.Name, f.Type, d.Default(i)))
			}
			if d.HasContent() {
				params = append(params, "content")
			}
			fmt.Printf("  parameters: (%s)\n", strings.Join(params, ", "))
			fmt.Printf("  synchronous: %v, content: %v, response: %v\n\n", m.Synchronous, m.Content, m.IsResponse)
			fmt.Println(d.DocString())
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	return cmd
}

// compileFromFlags compiles from --spec/--errata flags, falling back to
// configuration when the flags are empty.
func compileFromFlags(specFile string, errata []string) (*spec.Spec, error) {
	primary, resolved, err := resolveDocumentsWithFlags(specFile, errata)
	if err != nil {
		return nil, err
	}
	return compileFromArgs(append([]string{primary}, resolved...))
}
