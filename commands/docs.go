package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/xmltree"
)

func newDocsCmd() *cobra.Command {
	var specFile string
	var errata []string
	var showTree bool

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Print the documentation of every method",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showTree {
				primary, _, err := resolveDocumentsWithFlags(specFile, errata)
				if err != nil {
					return err
				}
				root, err := xmltree.ParseFile(primary)
				if err != nil {
					return err
				}
				p := &xmltree.Printer{}
				return p.Print(os.Stdout, root)
			}

			s, err := compileFromFlags(specFile, errata)
			if err != nil {
				return err
			}
			for _, cls := range s.Classes.Items() {
				for _, m := range cls.Methods.Items() {
					fmt.Printf("%s\n%s\n\n", m.QualifiedName(), m.DocString())
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the raw document tree instead")
	return cmd
}

// resolveDocumentsWithFlags picks the primary and errata documents from
// flags, falling back to config for whichever the flags leave unset.
// Explicit --errata values win over configured ones even when the primary
// comes from config.
func resolveDocumentsWithFlags(specFile string, errata []string) (string, []string, error) {
	if specFile != "" {
		return specFile, errata, nil
	}
	primary, cfgErrata, err := resolveDocuments(nil)
	if err != nil {
		return "", nil, err
	}
	if len(errata) > 0 {
		return primary, errata, nil
	}
	return primary, cfgErrata, nil
}
