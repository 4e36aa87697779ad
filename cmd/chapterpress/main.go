// Command chapterpress serves the PDF form, or renders a request file
// directly to a PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/opd-ai/chapterpress/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// ErrUsage reports an unknown command or missing arguments.
var ErrUsage = errors.New("usage error")

const usage = `Usage: chapterpress <command> [flags]

Commands:
  serve    run the web form
  render   render a YAML request file to a PDF
  version  print the version

Run "chapterpress <command> --help" for the flags of a command.
`

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS value, in which case
	// the runtime default stays in effect.
	_, _ = maxprocs.Set(maxprocs.Logger(logging.Info.Printf))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	stop()
	os.Exit(exitCodeFor(err))
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, usage)
		return fmt.Errorf("%w: no command given", ErrUsage)
	}

	var err error
	switch args[0] {
	case "serve":
		err = runServe(ctx, args[1:])
	case "render":
		err = runRender(args[1:], stdout)
	case "version":
		fmt.Fprintln(stdout, "chapterpress", Version)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return err
}

// flagError marks a flag parse failure as a usage error; --help passes through.
func flagError(err error) error {
	if errors.Is(err, pflag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
