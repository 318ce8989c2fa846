// Command churn scores Telco customer records with a pre-trained churn classifier.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/app"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

// Exit codes.
const (
	exitOK       = 0
	exitInternal = 1
	exitUser     = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, &cli{})
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, c *cli) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	if code == exitUser && pipeline.IsUserError(err) {
		fmt.Fprintln(stderr, app.UserMessage(err))
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return code
}

// usageError marks a mistake in the command line or its input files.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	var ue *usageError
	if errors.As(err, &ue) || pipeline.IsUserError(err) {
		return exitUser
	}
	return exitInternal
}
