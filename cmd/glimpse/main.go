package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	err := newRootCommand().Execute()
	if err == nil {
		return
	}
	// An interrupted capture session is a normal shutdown, not a failure
	// worth printing.
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "glimpse:", err)
	}
	os.Exit(1)
}
