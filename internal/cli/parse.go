package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/McDic/MCDIL/internal/mcerr"
	"github.com/McDic/MCDIL/internal/parser"
)

// NewParseCommand creates the parse command, which prints the raw parse
// tree of one source file without building the component graph.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parse <file>",
		Short:         "Parse an MCDIL source file and print its parse tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runParse(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(mcerr.CodeSourceFetchFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "reading source file", err)
	}

	tree, err := parser.Parse(path, string(data))
	if err != nil {
		return outputCompileError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"tree": parser.Pretty(tree)})
	}
	fmt.Fprint(formatter.Writer, parser.Pretty(tree))
	return nil
}
