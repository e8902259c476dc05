package cli

import (
	"context"
	"io"
)

// Run is the CLI entrypoint for main and black-box tests. args excludes
// argv[0].
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) (CLIResult, error) {
	res := CLIResult{ExitCode: ExitSuccess}
	executed := false

	root := NewRootCommand(func(ctx context.Context, inv ProbeInvocation) error {
		executed = true
		var err error
		res, err = Execute(ctx, inv, stdout, stderr)
		return err
	})
	if args == nil {
		// Cobra falls back to os.Args for nil.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if !executed {
			// Cobra's own usage errors carry no exit code.
			res.ExitCode = ExitCode(err)
			if res.ExitCode == ExitInternalError {
				res.ExitCode = ExitInvalidInvocation
			}
		}
		return res, err
	}
	return res, nil
}
