package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kstellar/limbdark/pkg/claret"
	"github.com/kstellar/limbdark/pkg/provision"
)

// fetchOpts holds the command-line flags for the fetch command.
type fetchOpts struct {
	dataRoot   string
	datasetURL string
	refresh    bool
}

// fetchCommand creates the fetch command for explicit dataset provisioning.
func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the coefficient dataset",
		Long: `Download the Claret & Bloemen (2011) coefficient dataset into the local
data root. If the file is already present nothing is downloaded unless
--refresh is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.dataRoot, "data-root", "", "local directory for the dataset (default: LIMBDARK_ROOT or ~/.limbdark)")
	cmd.Flags().StringVar(&opts.datasetURL, "dataset-url", "", "override the dataset download URL")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "overwrite an existing local dataset")

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, opts fetchOpts) error {
	cfg, err := c.resolveConfig(opts.dataRoot, opts.datasetURL)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	path, err := provision.New(cfg, provision.WithLogger(c.Logger)).Ensure(ctx, opts.refresh)
	if err != nil {
		return err
	}
	prog.done("Dataset ready")

	n, err := claret.NewStore(path).Count(ctx)
	if err != nil {
		return err
	}

	printSuccess("Dataset ready with %d grid points", n)
	printDetail("Path: %s", path)
	return nil
}
