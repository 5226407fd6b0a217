package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"nsfgstats/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		stop()
		os.Exit(1)
	}
}

// errorLine prefixes application errors with their code.
func errorLine(err error) string {
	if errors.IsAppError(err) {
		return fmt.Sprintf("[%s] %v", errors.GetCode(err), err)
	}
	return err.Error()
}
