package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/export"
)

func newExportCmd() *cobra.Command {
	var specFile string
	var errata []string
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the compiled spec as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Output.Format
			}
			if output == "" {
				output = cfg.Output.Path
			}

			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			s, err := compileFromFlags(specFile, errata)
			if err != nil {
				return err
			}

			doc := export.Build(s)
			data, err := doc.Encode(f)
			if err != nil {
				return fmt.Errorf("encode spec: %w", err)
			}

			if output == "" {
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			slog.Info("exported spec",
				slog.String("path", output),
				slog.String("format", format),
				slog.String("compile_id", doc.CompileID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format: json or yaml (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}
