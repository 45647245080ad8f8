package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/dumpfmap/internal/cli"
	"github.com/matzehuels/dumpfmap/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := run(ctx)
	if err != nil && !errors.Reported(err) && errors.ExitCode(err) != 130 {
		fmt.Fprintf(os.Stderr, "dumpfmap: %v\n", err)
	}
	os.Exit(errors.ExitCode(err))
}

func run(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
