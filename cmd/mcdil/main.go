package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/McDic/MCDIL/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own diagnostics; only surface errors that
		// carry no exit-code wrapper, such as flag parse failures.
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCommandError)
	}
}
