// Command dhcpdash previews DHCP option sets and server configuration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/dhcpdash/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit status. The log level
// comes from DHCPDASH_LOG_LEVEL unless --verbose is given.
func run(ctx context.Context) int {
	level, err := cli.ParseLogLevel(os.Getenv(cli.LogLevelEnv))
	if err != nil {
		cli.PrintError(os.Stderr, err)
		return cli.ExitCode(err)
	}

	c := cli.New(os.Stderr, level)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if cli.ExitCode(err) != cli.ExitInterrupted {
			cli.PrintError(os.Stderr, err)
		}
		return cli.ExitCode(err)
	}
	return 0
}
