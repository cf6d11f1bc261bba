// Package cli implements the limbdark command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/kstellar/limbdark/pkg/buildinfo"
	"github.com/kstellar/limbdark/pkg/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "limbdark",
		Short:        "Limbdark looks up quadratic limb-darkening coefficients",
		Long:         `Limbdark retrieves quadratic limb-darkening coefficients for a star from the Claret & Bloemen (2011) grid, downloading the reference dataset once and answering all queries from the local copy.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.coeffsCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// resolveConfig builds the effective config from defaults plus CLI flags.
func (c *CLI) resolveConfig(dataRoot, datasetURL string) (config.Config, error) {
	cfg, err := config.Default()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.WithRoot(dataRoot)
	if datasetURL != "" {
		cfg.DatasetURL = datasetURL
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
