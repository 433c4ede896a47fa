package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/smoracle/internal/casefile"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Filter string // case filter (glob pattern)
}

// CaseResult holds the result of a single case file.
type CaseResult struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Pass     bool   `json:"pass"`
	Error    string `json:"error,omitempty"`
}

// CheckResult holds the overall check result.
type CheckResult struct {
	Cases  []CaseResult `json:"cases"`
	Passed int          `json:"passed"`
	Failed int          `json:"failed"`
	Total  int          `json:"total"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <cases-dir>",
		Short: "Validate recorded case files",
		Long: `Check recorded solver outputs against the oracles.

Every .yaml or .yml file under the directory is a case: an instance, the
hires (and in trace mode the protocol events) a solver produced, and the
expected outcome, either "pass" or a violation kind. A case passes when
the oracle's verdict matches its expectation.

Exit codes:
  0 - All cases passed
  1 - One or more cases failed or could not be loaded
  2 - Command error (invalid paths, etc.)

Examples:
  smoracle check ./cases
  smoracle check ./cases --filter "trace-*"
  smoracle check ./cases --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter cases by glob pattern")

	return cmd
}

func runCheck(opts *CheckOptions, casesDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(casesDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("cases directory not found: %s", casesDir))
	}

	files, err := casefile.FindFiles(casesDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find cases", err)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	f := newFormatter(cmd, opts.RootOptions)

	result := CheckResult{
		Cases: make([]CaseResult, 0, len(files)),
		Total: len(files),
	}
	for _, file := range files {
		cr := checkFile(file)
		logger.Debug("case checked", "path", file, "pass", cr.Pass, "actual", cr.Actual)
		if !f.JSON() {
			writeCaseText(cmd.OutOrStdout(), cr)
		}

		result.Cases = append(result.Cases, cr)
		if cr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if f.JSON() {
		var err error
		if result.Failed > 0 {
			err = f.Report(result, CodeCaseFailed, fmt.Sprintf("%d case(s) failed", result.Failed))
		} else {
			err = f.Success(result)
		}
		if err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		if result.Total == 0 {
			fmt.Fprintln(w, "No cases found.")
			return nil
		}
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Check Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d case(s) failed", result.Failed))
	}
	return nil
}

// checkFile loads and checks one case. A load error fails the case.
func checkFile(path string) CaseResult {
	c, err := casefile.Load(path)
	if err != nil {
		return CaseResult{
			Name:  path,
			Path:  path,
			Error: fmt.Sprintf("failed to load case: %v", err),
		}
	}

	res := casefile.Check(c)
	return CaseResult{
		Name:     res.Name,
		Path:     res.Path,
		Expected: res.Expected,
		Actual:   res.Actual,
		Pass:     res.Pass,
		Error:    res.Message(),
	}
}

func writeCaseText(w io.Writer, cr CaseResult) {
	if cr.Pass {
		fmt.Fprintf(w, "✓ %s (%s)\n", cr.Name, cr.Expected)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", cr.Name)
	fmt.Fprintf(w, "  %s\n", cr.Error)
}
