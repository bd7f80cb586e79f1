package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/export"
)

func newPublishCmd() *cobra.Command {
	var specFile string
	var errata []string
	var url string
	var subject string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish the compiled spec to NATS",
		Long: `Publish compiles the spec and pushes the exported JSON document to a
NATS subject, where runtime consumers pick up the metadata model.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if url == "" {
				url = cfg.NATS.URL
			}
			if subject == "" {
				subject = cfg.NATS.Subject
			}

			s, err := compileFromFlags(specFile, errata)
			if err != nil {
				return err
			}
			doc := export.Build(s)
			data, err := doc.Encode(export.FormatJSON)
			if err != nil {
				return fmt.Errorf("encode spec: %w", err)
			}

			nc, err := nats.Connect(url,
				nats.Name("amqspec"),
				nats.Timeout(5*time.Second),
			)
			if err != nil {
				return fmt.Errorf("connect to NATS %s: %w", url, err)
			}
			defer nc.Close()

			if err := nc.Publish(subject, data); err != nil {
				return fmt.Errorf("publish to %s: %w", subject, err)
			}
			if err := nc.Flush(); err != nil {
				return fmt.Errorf("flush: %w", err)
			}

			slog.Info("published spec",
				slog.String("subject", subject),
				slog.String("label", s.Label),
				slog.String("compile_id", doc.CompileID),
				slog.Int("bytes", len(data)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&specFile, "spec", "s", "", "Primary spec document (default: from config)")
	cmd.Flags().StringArrayVar(&errata, "errata", nil, "Errata documents")
	cmd.Flags().StringVar(&url, "url", "", "NATS server URL (default: from config)")
	cmd.Flags().StringVar(&subject, "subject", "", "Publish subject (default: from config)")
	return cmd
}
