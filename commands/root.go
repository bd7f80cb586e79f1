// Package commands wires the amqspec CLI: compiling spec documents,
// describing methods, exporting, watching, serving and publishing the
// compiled model.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wireproto/amqspec/config"
)

// NewRootCmd builds the amqspec root command.
func NewRootCmd(version, buildTime string) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "amqspec",
		Short: "Protocol spec metadata compiler",
		Long: `Amqspec compiles AMQP protocol specification documents (a primary
spec plus optional errata) into a read-only metadata model: constants,
classes, methods and fields, with per-method invocation descriptors.

The compiled model can be inspected, exported as JSON or YAML, served
over HTTP, or published to NATS for runtime consumers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newCompileCmd())
	cmd.AddCommand(newDescribeCmd())
	cmd.AddCommand(newDocsCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("amqspec version %s (build: %s)\n", version, buildTime)
		},
	})

	return cmd
}

// configureLogging installs the process-wide slog handler.
func configureLogging(logLevel string) {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// loadConfig loads the layered configuration.
func loadConfig() (*config.Config, error) {
	return config.NewLoader(slog.Default()).Load()
}
