// Command tune_plan reports slide plan entries whose content their template
// will not show well.
//
//	tune_plan <slides_plan.json>
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/VantageDataChat/deckgen"
	"github.com/VantageDataChat/deckgen/internal/cli"
	"github.com/VantageDataChat/deckgen/internal/config"
)

func main() {
	os.Exit(cli.Run(newRootCmd(), os.Stderr, 2))
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tune_plan <slides_plan.json>",
		Short:   "Check a slide plan against template constraints",
		Args:    cli.Args(cobra.ExactArgs(1)),
		Version: deckgen.Version,
		RunE:    run,
	}
	config.RegisterCommon(cmd.Flags())
	config.RegisterTune(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	plan, err := deckgen.LoadPlan(args[0])
	if err != nil {
		return err
	}

	rep := deckgen.TunePlan(plan.Entries())
	cli.RenderTuneReport(cmd.OutOrStdout(), cli.NewStyles(cfg.NoColor), rep)
	if cfg.Strict && rep.Warn > 0 {
		return &cli.ExitError{Code: 1}
	}
	return nil
}
