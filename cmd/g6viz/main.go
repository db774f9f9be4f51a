package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/g6viz/internal/cli"
	"github.com/matzehuels/g6viz/pkg/errors"
)

// Exit statuses follow sysexits(3) where one applies.
const (
	exitFailure     = 1
	exitDataErr     = 65  // malformed graph6, selector or style
	exitNoInput     = 66  // input or style file missing
	exitInterrupted = 130 // shell convention for SIGINT
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}
	code := exitCode(err)
	if code != exitInterrupted {
		fmt.Fprintln(os.Stderr, "g6viz:", errors.UserMessage(err))
	}
	os.Exit(code)
}

func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return exitInterrupted
	case stderrors.Is(err, fs.ErrNotExist):
		return exitNoInput
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidGraph6, errors.ErrCodeInvalidVertex,
		errors.ErrCodeInvalidSelector, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle,
		errors.ErrCodeUnknownVertex, errors.ErrCodeUnknownEdge:
		return exitDataErr
	}
	return exitFailure
}
