package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kstellar/limbdark/pkg/errors"
	"github.com/kstellar/limbdark/pkg/limbdark"
	"github.com/kstellar/limbdark/pkg/provision"
)

// coeffsOpts holds the command-line flags for the coeffs command.
type coeffsOpts struct {
	logg       float64 // surface gravity, used only when the flag is set
	feh        float64 // metallicity, used only when the flag is set
	dataRoot   string  // override for the data root directory
	datasetURL string  // override for the dataset URL
	refresh    bool    // force a fresh dataset download
}

// coeffsCommand creates the coeffs lookup command.
func (c *CLI) coeffsCommand() *cobra.Command {
	opts := coeffsOpts{}

	cmd := &cobra.Command{
		Use:   "coeffs <teff>",
		Short: "Look up quadratic limb-darkening coefficients",
		Long: `Look up the quadratic limb-darkening coefficients (mu1, mu2) for a star.

The effective temperature is required. Surface gravity and metallicity are
optional; an omitted dimension is ignored by the nearest-neighbor match.

Examples:
  limbdark coeffs 5800 --logg 4.4 --feh 0.0
  limbdark coeffs 6100 --logg 4.0
  limbdark coeffs 5778`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			teff, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidQuery, "invalid teff %q", args[0])
			}

			var logg, feh *float64
			if cmd.Flags().Changed("logg") {
				logg = &opts.logg
			}
			if cmd.Flags().Changed("feh") {
				feh = &opts.feh
			}

			return c.runCoeffs(cmd.Context(), teff, logg, feh, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.logg, "logg", 0, "log10 surface gravity [cm/s^2]")
	cmd.Flags().Float64Var(&opts.feh, "feh", 0, "metallicity [Fe/H]")
	cmd.Flags().StringVar(&opts.dataRoot, "data-root", "", "local directory for the dataset (default: LIMBDARK_ROOT or ~/.limbdark)")
	cmd.Flags().StringVar(&opts.datasetURL, "dataset-url", "", "override the dataset download URL")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-download the dataset before the lookup")

	return cmd
}

func (c *CLI) runCoeffs(ctx context.Context, teff float64, logg, feh *float64, opts coeffsOpts) error {
	cfg, err := c.resolveConfig(opts.dataRoot, opts.datasetURL)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	a, err := limbdark.NewAdaptor(ctx, cfg, opts.refresh, provision.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	coeffs, err := a.GetCoeffs(withLogger(ctx, c.Logger), teff, logg, feh)
	if err != nil {
		return err
	}
	prog.done("Matched grid point for " + describeQuery(teff, logg, feh))

	printKeyValue("mu1", StyleNumber.Render(strconv.FormatFloat(coeffs.Mu1, 'g', -1, 64)))
	printKeyValue("mu2", StyleNumber.Render(strconv.FormatFloat(coeffs.Mu2, 'g', -1, 64)))
	return nil
}

// describeQuery formats the optional dimensions for logging.
func describeQuery(teff float64, logg, feh *float64) string {
	s := fmt.Sprintf("teff=%g", teff)
	if logg != nil {
		s += fmt.Sprintf(" logg=%g", *logg)
	}
	if feh != nil {
		s += fmt.Sprintf(" feh=%g", *feh)
	}
	return s
}
