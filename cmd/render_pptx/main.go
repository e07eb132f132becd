// Command render_pptx generates a deck from a slide plan and a template deck.
//
//	render_pptx <slides_plan.json> <template.pptx> <output.pptx>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/deckgen"
	"github.com/VantageDataChat/deckgen/internal/cli"
	"github.com/VantageDataChat/deckgen/internal/config"
)

func main() {
	os.Exit(cli.Run(newRootCmd(), os.Stderr, 1))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render_pptx <slides_plan.json> <template.pptx> <output.pptx>",
		Short:   "Generate a PowerPoint deck from a slide plan and a template deck",
		Args:    cli.Args(cobra.ExactArgs(3)),
		Version: deckgen.Version,
		RunE:    run,
	}
	config.RegisterCommon(cmd.Flags())
	config.RegisterRender(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	planPath, templatePath, outputPath := args[0], args[1], args[2]

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return &cli.ExitError{Code: 1, Err: fmt.Errorf("invalid configuration: %w", err)}
	}
	log := cli.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if cfg.ConfigFile != "" {
		log.Debug("loaded config file", "path", cfg.ConfigFile)
	}
	if cfg.EnvFile != "" {
		log.Debug("loaded environment file", "path", cfg.EnvFile)
	}

	plan, err := deckgen.LoadPlan(planPath)
	if err != nil {
		return &cli.ExitError{Code: 1, Err: err}
	}

	asm := &deckgen.Assembler{Logger: log, TempDir: cfg.TempDir}
	if cfg.CheckFit {
		asm.Fit = deckgen.NewFitChecker(deckgen.NewFontCache(cfg.FontDirs...))
	}

	res, err := asm.Generate(plan, templatePath, outputPath)
	if errors.Is(err, deckgen.ErrTemplateNotFound) {
		return &cli.ExitError{Code: 1, Err: err}
	}
	if err != nil {
		log.Error("error generating PowerPoint", "error", err)
		return &cli.ExitError{Code: 1}
	}

	cli.RenderResult(cmd.OutOrStdout(), cli.NewStyles(cfg.NoColor), res)
	return nil
}
