package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/McDic/MCDIL/internal/cache"
	"github.com/McDic/MCDIL/internal/compiler"
	"github.com/McDic/MCDIL/internal/mcerr"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	CacheDB string
}

// CompileStats summarizes one compilation for human-readable output.
type CompileStats struct {
	Components int `json:"components"`
	Sources    int `json:"sources"`
}

// CompileResult is the JSON payload of a successful compile.
type CompileResult struct {
	Root  interface{}  `json:"root"`
	Stats CompileStats `json:"stats"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile an MCDIL source file into its component graph",
		Long: `Compile an MCDIL source file and print the resulting component graph.

Imports are resolved recursively through the shared source cache. With
--cache-db, fetched sources are persisted and reused across runs as long as
their content hashes still match.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runCompile(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CacheDB, "cache-db", "", "persistent source cache database path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		_ = formatter.Error(mcerr.CodeSourceFetchFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	// Config may set the output format; an explicit --format flag wins.
	if cfg.Format != "" {
		if flag := cmd.Flag("format"); flag == nil || !flag.Changed {
			formatter.Format = cfg.Format
		}
	}
	if path == "" {
		path = cfg.Root
	}
	if path == "" {
		message := "no source file given and no root configured"
		_ = formatter.Error(mcerr.CodeSourceFetchFailed, message, nil)
		return NewExitError(ExitCommandError, message)
	}
	cacheDB := opts.CacheDB
	if cacheDB == "" {
		cacheDB = cfg.CacheDB
	}

	var compilerOpts []compiler.Option
	var store *cache.Store
	if cacheDB != "" {
		store, err = cache.Open(cacheDB)
		if err != nil {
			_ = formatter.Error(mcerr.CodeSourceFetchFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening source cache", err)
		}
		defer store.Close()

		codes, loadErr := store.Load()
		if loadErr != nil {
			_ = formatter.Error(mcerr.CodeCacheMismatch, loadErr.Error(), nil)
			return WrapExitError(ExitCommandError, "loading source cache", loadErr)
		}
		formatter.VerboseLog("Loaded %d cached source(s) from %s", codes.Len(), cacheDB)
		compilerOpts = append(compilerOpts, compiler.WithCodes(codes))
	}

	comp := compiler.New(compilerOpts...)
	formatter.VerboseLog("Compiling %s", path)
	root, err := comp.Compile(path, "")
	if err != nil {
		return outputCompileError(formatter, err)
	}

	if store != nil {
		if saveErr := store.Save(comp.Codes()); saveErr != nil {
			_ = formatter.Error(mcerr.CodeSourceFetchFailed, saveErr.Error(), nil)
			return WrapExitError(ExitCommandError, "saving source cache", saveErr)
		}
		formatter.VerboseLog("Persisted %d source(s) to %s", comp.Codes().Len(), cacheDB)
	}

	graph := comp.Graph()
	stats := CompileStats{Components: graph.Len(), Sources: comp.Codes().Len()}
	if formatter.Format == "json" {
		return formatter.Success(CompileResult{Root: graph.Snapshot(root), Stats: stats})
	}
	fmt.Fprintf(formatter.Writer, "✓ Compiled %d component(s) from %d source(s)\n\n",
		stats.Components, stats.Sources)
	fmt.Fprint(formatter.Writer, graph.Dump(root))
	return nil
}

// outputCompileError reports a compilation failure with its stable code and
// source location when available.
func outputCompileError(formatter *OutputFormatter, err error) error {
	code := mcerr.CodeOf(err)
	if code == "" {
		code = "E000"
	}

	if formatter.Format == "json" {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitFailure, "compilation failed", err)
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	var ce mcerr.Compilation
	if errors.As(err, &ce) && ce.Location() != nil {
		fmt.Fprintf(formatter.Writer, "%s\n", ce.Location())
	}
	fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, err.Error())
	return WrapExitError(ExitFailure, "compilation failed", err)
}
