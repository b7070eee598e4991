package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var noColor bool
	root := &cobra.Command{
		Use:   "threecs",
		Short: "Score people on Culture, Competence and Commitment",
		Long: `threecs scores people on Culture (1-10), Competence (1-5) and Commitment (1-3),
derives a 1-100 rating and letter grade, classifies a coaching archetype and
prints the guidance a manager should act on. "serve" runs the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if noColor {
				color.NoColor = true
			}
		},
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	root.AddCommand(newServeCommand())
	root.AddCommand(newScoreCommand())
	root.AddCommand(newMatrixCommand())
	root.AddCommand(newLabelsCommand())
	root.AddCommand(newReportCommand())
	return root
}
