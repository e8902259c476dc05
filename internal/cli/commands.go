package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCommand builds the inputweaver command tree. probe is called with
// the canonical invocation of the probe subcommand.
func NewRootCommand(probe func(ctx context.Context, inv ProbeInvocation) error) *cobra.Command {
	root := &cobra.Command{
		Use:           "inputweaver",
		Short:         "Discover the ambient inputs a command depends on",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return invalidInvocationf("a command is required (see %s --help)", cmd.CommandPath())
		},
	}
	root.SetFlagErrorFunc(flagError)
	root.AddCommand(newProbeCommand(func(cmd *cobra.Command, inv ProbeInvocation) error {
		return probe(cmd.Context(), inv)
	}))
	return root
}

func newProbeCommand(run func(cmd *cobra.Command, inv ProbeInvocation) error) *cobra.Command {
	flags := &probeFlags{}
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Run a task with access tracking and print its trace and fingerprint",
		Long: `Runs the task's command with environment, property, file and process
access tracking enabled. Prints the canonical access trace, its hash and the
task fingerprint as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 0 {
				return invalidInvocationf("unexpected positional arguments: %q", args)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := flags.invocation()
			if err != nil {
				return err
			}
			return run(cmd, inv)
		},
	}
	flags.register(cmd)
	cmd.SetFlagErrorFunc(flagError)
	return cmd
}

func flagError(_ *cobra.Command, err error) error {
	return invalidInvocationf("%v", err)
}
