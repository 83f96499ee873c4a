// Package cli provides the command-line interface for colorparity.
package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/colorparity/internal/errors"
	"github.com/AndreyAkinshin/colorparity/internal/output"
)

// Version is set at build time.
var Version = "dev"

// out is the shared output writer for CLI commands.
var out = output.New()

// errGateFailed signals a completed run that missed its pass gate or
// duration limit. The summary has already been printed.
var errGateFailed = stderrors.New("run gate not met")

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	Quiet      bool
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	return exitCode(root.Execute())
}

// exitCode maps a command error to a process exit code. Errors that are not
// ParityErrors come from cobra itself (unknown command, bad flag, wrong
// argument count) and are reported as usage errors.
func exitCode(err error) int {
	if err == nil {
		return errors.ExitSuccess
	}
	if err == errGateFailed {
		return errors.ExitRuntimeError
	}
	out.ErrorPrefix("%v", err)
	var pe *errors.ParityError
	if !stderrors.As(err, &pe) {
		return errors.ExitConfigError
	}
	return errors.GetExitCode(err)
}

func newRootCmd() *cobra.Command {
	opts := &GlobalOptions{}

	root := &cobra.Command{
		Use:           "colorparity",
		Short:         "Compare two color engine builds sample by sample against a shared corpus",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			out.SetQuiet(opts.Quiet)
		},
	}
	root.SetVersionTemplate("colorparity {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "path to colorparity.yaml (default: ./colorparity.yaml if present)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.LogFormat, "log-format", "", "log format: console or json")
	pf.BoolVarP(&opts.Quiet, "quiet", "q", false, "minimal output")

	root.AddCommand(
		newRunCmd(opts),
		newValidateCmd(opts),
		newSummaryCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "colorparity %s\n", Version)
		},
	}
}
