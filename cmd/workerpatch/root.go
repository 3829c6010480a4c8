package main

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/workerpatch/pkg/config"
	"github.com/walteh/workerpatch/pkg/log"
	"github.com/walteh/workerpatch/pkg/patch"
	"github.com/walteh/workerpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// Handler holds the parsed command line of a single patch run
type Handler struct {
	input     string
	output    string
	rulesFile string
	strict    bool
	debug     bool
	quiet     bool
}

// NewCommand creates the workerpatch root command
func NewCommand() *cobra.Command {
	h := &Handler{}

	cmd := &cobra.Command{
		Use:   "workerpatch <jsFile> <outFile>",
		Short: "Patch an Emscripten WASM loader so it can boot inside a web worker",
		Long: `workerpatch rewrites a generated WASM loader script so it can be loaded
inline by a web worker. It:
1. Guards every if(_scriptDir) against _scriptDir being undeclared
2. Constructs pthread workers with { eval: true }
3. Applies any extra rules from --rules

The input file is never modified.`,
		Version:       GetVersionInfo().Short(),
		Args:          exactPaths,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			h.input, h.output = args[0], args[1]
			return h.Run(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate(FormatVersion())

	cmd.Flags().StringVarP(&h.rulesFile, "rules", "r", "", "extra rule file (.yaml, .yml, .json or .hcl)")
	cmd.Flags().BoolVar(&h.strict, "strict", false, "fail when a rule matches nothing and was not already applied")
	cmd.Flags().BoolVarP(&h.debug, "debug", "d", false, "enable debug logging")
	cmd.Flags().BoolVarP(&h.quiet, "quiet", "q", false, "only report errors")

	return cmd
}

// exactPaths requires the input and output paths, before any file is touched
func exactPaths(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return errors.WithStack(&patch.ArgumentError{Got: len(args)})
	}
	return nil
}

// setupLogging configures zerolog based on flags. quiet wins over debug.
func setupLogging(w io.Writer, debug, quiet bool) zerolog.Logger {
	level := zerolog.WarnLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case debug:
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

// Run patches the input script into the output path
func (h *Handler) Run(ctx context.Context, stderr io.Writer) error {
	logger := setupLogging(stderr, h.debug, h.quiet)
	ctx = logger.WithContext(ctx)

	consoleOut, consoleLevel := stderr, zerolog.Disabled
	if h.debug {
		consoleLevel = zerolog.DebugLevel
	}
	if h.quiet {
		consoleOut, consoleLevel = io.Discard, zerolog.Disabled
	}
	console := log.New(consoleOut, consoleLevel)
	ctx = log.NewContext(ctx, console)

	console.Header("patching worker loader")

	opts := patch.Options{Strict: h.strict}
	if h.rulesFile != "" {
		cfg, err := config.Load(ctx, h.rulesFile)
		if err != nil {
			return errors.Errorf("loading rules: %w", err)
		}
		opts.Rules = cfg.ReplacementRules()
		opts.Strict = opts.Strict || cfg.Strict
		console.Infof("loaded %s from %s", cfg.String(), h.rulesFile)
	}

	p, err := patch.NewPatcher(opts)
	if err != nil {
		return err
	}

	result, err := p.Patch(ctx, h.input, h.output)
	if result != nil {
		console.LogPatch(ctx, newPatchOperation(h.input, h.output, result))
	}
	if err != nil {
		return err
	}

	console.Successf("patched %s (%d replacements)", h.output, result.ReplacementCount)
	return nil
}

func newPatchOperation(input, output string, result *text.ReplacementResult) log.PatchOperation {
	op := log.PatchOperation{Input: input, Output: output}
	for _, r := range result.Rules {
		op.Rules = append(op.Rules, log.RuleOperation{
			Name:           r.Name,
			Replacements:   r.ReplacementCount,
			AlreadyApplied: r.AlreadyApplied,
			Skipped:        r.Skipped,
		})
	}
	return op
}
