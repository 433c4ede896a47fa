package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/smoracle/internal/canon"
	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	Size int
	Seed uint64
}

// GenerateResult is one generated instance. The YAML form pastes directly
// into a case file.
type GenerateResult struct {
	Size        int         `json:"size" yaml:"-"`
	Seed        uint64      `json:"seed" yaml:"-"`
	Fingerprint string      `json:"fingerprint" yaml:"-"`
	Companies   market.Side `json:"companies" yaml:"companies,flow"`
	Candidates  market.Side `json:"candidates" yaml:"candidates,flow"`
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print a random market instance",
		Long: `Generate one random instance: a uniformly random preference
permutation for every company and every candidate.

The same --seed always prints the same instance.

Examples:
  smoracle generate --size 4 --seed 7
  smoracle generate --size 20 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Size, "size", oracle.DefaultSize, "number of companies and of candidates")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", oracle.DefaultSeed, "random seed")

	return cmd
}

func runGenerate(opts *GenerateOptions, cmd *cobra.Command) error {
	if opts.Size < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("size must be non-negative, got %d", opts.Size))
	}

	inst := market.NewGenerator(opts.Seed).Instance(opts.Size)
	result := GenerateResult{
		Size:        opts.Size,
		Seed:        opts.Seed,
		Fingerprint: canon.InstanceFingerprint(inst),
		Companies:   inst.Companies,
		Candidates:  inst.Candidates,
	}

	f := newFormatter(cmd, opts.RootOptions)
	if f.JSON() {
		return f.Success(result)
	}

	data, err := yaml.Marshal(result)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode instance", err)
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# size=%d seed=%d instance=%s\n", opts.Size, opts.Seed, canon.Short(result.Fingerprint))
	_, err = w.Write(data)
	return err
}
