package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"slotter/internal/build"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "slotter:", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps an empty scan to exit status 1, so scripts can distinguish
// "nothing to distribute" from configuration or I/O failures.
func exitCode(err error) int {
	if errors.Is(err, build.ErrNoImages) {
		return 1
	}
	return 2
}
