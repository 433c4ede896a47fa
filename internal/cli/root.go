package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the smoracle CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

// Execute runs the CLI with os.Args and returns the process exit code.
// Command errors are reported on stderr in the selected format.
func Execute() int {
	opts := &RootOptions{}
	cmd := newRootCommand(opts)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	code := GetExitCode(err)
	if code == ExitCommandError {
		f := &OutputFormatter{Format: opts.Format, Writer: cmd.ErrOrStderr(), Verbose: opts.Verbose}
		var details any
		var exitErr *ExitError
		if errors.As(err, &exitErr) && exitErr.Err != nil {
			details = exitErr.Err.Error()
		}
		_ = f.Error(CodeInvalidArgs, err.Error(), details)
		return code
	}

	fmt.Fprintln(cmd.ErrOrStderr(), err)
	return code
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smoracle",
		Short: "Correctness oracle for stable-matching solvers",
		Long: `smoracle generates random hiring markets and checks that solvers
return complete, stable matchings and follow the sequential offer
protocol when they report a trace.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// newLogger builds the structured logger for a command. Logs go to w,
// normally stderr, so they never mix with JSON output.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
