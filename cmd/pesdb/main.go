package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
)

const interruptMessage = "Ctrl-C pressed, exiting now..."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	c.Close()
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on w and maps it to the process exit status. An
// interrupt is a clean stop, not a failure.
func exitCode(err error, w io.Writer) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, crawler.ErrInterrupted), errors.Is(err, context.Canceled):
		fmt.Fprintln(w, interruptMessage)
		return 0
	default:
		fmt.Fprintf(w, "pesdb: %v\n", err)
		return 1
	}
}
