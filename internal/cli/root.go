// Package cli provides the command-line interface for abortif.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	abortifinternal "github.com/blyxyas/abort-if/internal/abortif"
	"github.com/blyxyas/abort-if/internal/cli/config"
)

var cfgFile string

// NewRootCmd creates and returns the root command. version is stamped
// at build time.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "abortif [flags] [packages]",
		Short: "Generate build-gated variants for guard-annotated functions",
		Long: `abortif rewrites functions annotated with //abortif: directives into
pairs of declarations gated by complementary //go:build predicates. One
keeps the original behavior and is compiled while the guard condition is
false; the other aborts and is compiled while the condition is true.

Directive files must carry "//go:build abortif" so that only generated
code reaches normal builds. Run abortif over the packages containing
them, commit the generated files, and build as usual.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	rootCmd.SetVersionTemplate("abortif {{.Version}}\n")

	rootCmd.Flags().String("abort", config.DefaultAbort, "abort mode of met variants (hard|soft)")
	rootCmd.Flags().String("handler", abortifinternal.DefaultHandler, `soft abort handler ("Name" or "import/path.Name")`)
	rootCmd.Flags().Bool("keep-going", false, "keep the original statements after the abort step")
	rootCmd.Flags().StringP("out", "o", config.DefaultOut, "merged output file name")
	rootCmd.Flags().StringP("tags", "b", "", "comma-separated extra build tags")
	rootCmd.Flags().BoolP("tests", "t", false, "include test files")
	rootCmd.Flags().StringP("color", "c", config.DefaultColor, "colorize diagnostics (auto|always|never)")
	rootCmd.Flags().BoolP("verbose", "v", false, "debug logging to stderr")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: .abortif.yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("abort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{abortifinternal.AbortHard, abortifinternal.AbortSoft}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("color", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "always", "never"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	logger := slog.New(slog.DiscardHandler)
	if cfg.Verbose {
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	patterns := args
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	opts := abortifinternal.Options{
		Abort:     cfg.Abort,
		Handler:   cfg.Handler,
		KeepGoing: cfg.KeepGoing,
		Out:       cfg.Out,
		Tags:      cfg.Tags,
		Tests:     cfg.Tests,
		Logger:    logger,
	}

	outs, err := abortifinternal.Main(cmd.Context(), wd, os.Environ(), opts, patterns)
	if err != nil {
		message := err.Error()
		if useColor(cfg.Color) {
			message = colorize(message)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), message)
		return fmt.Errorf("generation failed")
	}

	for out, code := range outs {
		if err := os.WriteFile(out, code, 0o644); err != nil {
			return err
		}

		if relOut, err := filepath.Rel(wd, out); err == nil {
			out = relOut
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Generated:", out)
	}
	return nil
}

// Execute runs the root command.
func Execute(version string) error {
	rootCmd := NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
