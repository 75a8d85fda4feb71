package main

import (
	"context"
	"fmt"
	"os"

	"worktime/internal/cli"

	"github.com/mattn/go-isatty"
)

func main() {
	app := &cli.App{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	if err := cli.NewRootCmd(app).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
