// Command verify_colors checks that every text run of a deck is white and
// rewrites the runs that are not.
//
//	verify_colors <input.pptx> [output.pptx]
//
// Without an output path the input is overwritten. The exit status is 0 when
// nothing needed correcting, 1 when runs were corrected and 2 on errors.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/deckgen"
	"github.com/VantageDataChat/deckgen/internal/cli"
	"github.com/VantageDataChat/deckgen/internal/config"
)

const (
	exitCorrected = 1
	exitFatal     = 2
)

func main() {
	os.Exit(cli.Run(newRootCmd(), os.Stderr, exitFatal))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "verify_colors <input.pptx> [output.pptx]",
		Short:   "Verify and fix text colors in a PowerPoint deck",
		Long:    "Verify that all text in a deck is white and fix the runs that are not.\nIf output.pptx is not specified, the input file is overwritten.",
		Args:    cli.Args(cobra.RangeArgs(1, 2)),
		Version: deckgen.Version,
		RunE:    run,
	}
	config.RegisterCommon(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := in
	if len(args) == 2 {
		out = args[1]
	}

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return &cli.ExitError{Code: exitFatal, Err: fmt.Errorf("invalid configuration: %w", err)}
	}
	log := cli.NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	if _, err := os.Stat(in); err != nil {
		return &cli.ExitError{Code: exitFatal, Err: fmt.Errorf("file not found: %s", in)}
	}

	log.Info("color verification start", "input", in)
	rep, err := deckgen.VerifyColors(in, out)
	if err != nil {
		return &cli.ExitError{Code: exitFatal, Err: err}
	}
	for _, is := range rep.Issues {
		log.Debug("fixed run", "slide", is.Slide, "shape", is.Shape, "paragraph", is.Paragraph,
			"run", is.Run, "old", is.OldColor, "new", is.NewColor)
	}

	cli.RenderColorReport(cmd.OutOrStdout(), cli.NewStyles(cfg.NoColor), rep, out)
	if rep.Corrected() > 0 {
		return &cli.ExitError{Code: exitCorrected}
	}
	return nil
}
