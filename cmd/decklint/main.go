package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/decklint/decklint/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, cli.ErrFindingsDetected) {
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
