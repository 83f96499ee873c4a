package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/report"
)

// newSummaryCmd re-prints the summary of a finished run from its report.json.
func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <report.json>",
		Short: "Print the summary of a previous run",
		Long: `Reads a report.json written by "colorparity run" and prints the same
summary the run printed. Exits 1 when the recorded run missed its gate.`,
		Example: "  colorparity summary artifacts/run-1a2b3c4d/report.json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := report.ReadReport(args[0])
			if err != nil {
				return errors.Validation(err, "unreadable report")
			}
			out.RunReport(rep, args[0])
			if !rep.WithinPassGate || !rep.WithinDuration {
				return errGateFailed
			}
			return nil
		},
	}
}
