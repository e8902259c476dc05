package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"inputweaver/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	result, err := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		var invErr *cli.InvocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(os.Stderr, invErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	os.Exit(result.ExitCode)
}
