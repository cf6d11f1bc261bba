package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local dataset cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var dataRoot string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the cached dataset file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(dataRoot, "")
			if err != nil {
				return err
			}

			path := cfg.DatasetPath()
			err = os.Remove(path)
			if os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}
			if err != nil {
				return err
			}

			printSuccess("Removed cached dataset")
			printDetail("Path: %s", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataRoot, "data-root", "", "local directory for the dataset (default: LIMBDARK_ROOT or ~/.limbdark)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	var dataRoot string

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the dataset file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.resolveConfig(dataRoot, "")
			if err != nil {
				return err
			}
			fmt.Println(cfg.DatasetPath())
			return nil
		},
	}

	cmd.Flags().StringVar(&dataRoot, "data-root", "", "local directory for the dataset (default: LIMBDARK_ROOT or ~/.limbdark)")
	return cmd
}
