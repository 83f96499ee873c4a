package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/colorparity/internal/corpus"
	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/tolerance"
)

func newValidateCmd(opts *GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check input files without running the engines",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "corpus <file>",
		Short: "Validate a corpus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := corpus.Load(args[0])
			if err != nil {
				return errors.Validation(err, "invalid corpus")
			}
			out.ValidationSuccess("%s: corpus %s with %d cases is valid", args[0], c.Version, len(c.Cases))
			if oldest, newest := c.CaseVersions(); oldest != newest {
				out.Info("  case versions: %s to %s", oldest, newest)
			}
			for _, w := range c.CheckAnchors() {
				out.Warning("%s", w)
			}
			if tags := c.Tags(); len(tags) > 0 {
				out.Section("Tags")
				out.List(tags)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "tolerances <file>",
		Short: "Validate a tolerance file (JSON or YAML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := tolerance.Load(args[0])
			if err != nil {
				return errors.Validation(err, "invalid tolerances")
			}
			for _, w := range warnings {
				out.Warning("%s", w)
			}
			out.ValidationSuccess("%s: tolerances %s are valid", args[0], orUnversioned(cfg.Version))
			return nil
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Validate the run configuration (file, environment and flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, warnings, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				out.Warning("%s", w)
			}
			out.ValidationSuccess("configuration is valid (run %s, artifacts %s)", cfg.RunID, cfg.Artifacts)
			return nil
		},
	}
	addRunFlags(configCmd.Flags())
	cmd.AddCommand(configCmd)

	return cmd
}

func orUnversioned(v string) string {
	if v == "" {
		return "(unversioned)"
	}
	return v
}
