package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/exepack/cmd/exepack"
	"github.com/arthur-debert/exepack/pkg/errors"
	"github.com/arthur-debert/exepack/pkg/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := exepack.NewRootCmd()
	cmd, err := rootCmd.ExecuteContextC(ctx)
	if err != nil {
		// Print the error in red
		fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Wrong invocations get the usage of the command that failed
		if cmd != nil && errors.IsErrorCode(err, errors.ErrUsage) {
			fmt.Fprintln(os.Stderr)
			cmd.SetOut(os.Stderr)
			_ = cmd.Usage()
		}

		stop()
		os.Exit(1)
	}
}
