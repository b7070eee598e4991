package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"threecs/internal/app"
	"threecs/internal/guidance"
	"threecs/internal/platform/config"
	"threecs/internal/platform/logger"
	"threecs/internal/report"
	"threecs/internal/scoring"
	"threecs/pkg/email"
)

type scoreFlags struct {
	culture, competence, commitment int
}

func (f *scoreFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.culture, "culture", 0, "Culture score (1-10)")
	cmd.Flags().IntVar(&f.competence, "competence", 0, "Competence score (1-5)")
	cmd.Flags().IntVar(&f.commitment, "commitment", 0, "Commitment score (1-3)")
	for _, name := range []string{"culture", "competence", "commitment"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

func (f *scoreFlags) evaluate() (scoring.ScoreResult, guidance.Record, error) {
	in := scoring.Inputs(f.culture, f.competence, f.commitment)
	if !in.InRange() {
		return scoring.ScoreResult{}, guidance.Record{}, fmt.Errorf(
			"scores out of range: culture %d-%d, competence %d-%d, commitment %d-%d",
			scoring.MinCulture, scoring.MaxCulture,
			scoring.MinCompetence, scoring.MaxCompetence,
			scoring.MinCommitment, scoring.MaxCommitment)
	}
	score, _ := scoring.ComputeScore(in)
	return score, guidance.Generate(f.culture, f.competence, f.commitment, score.Grade), nil
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Run the HTTP API. Configuration is read from the environment (ADDR, DATABASE_URL, REDIS_URL, RESEND_API_KEY, GCS_BUCKET, ...).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			if addr != "" {
				cfg.Addr = addr
			}
			return app.Serve(cmd.Context(), cfg, logger.New(cfg.LogLevel))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides ADDR")
	return cmd
}

func newScoreCommand() *cobra.Command {
	var (
		flags  scoreFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "score",
		Short:   "Score one person and print their guidance",
		Example: "  threecs score --culture 7 --competence 4 --commitment 3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			score, record, err := flags.evaluate()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					scoring.ScoreResult
					Guidance guidance.Record `json:"guidance"`
				}{score, record})
			}
			printScore(out, score, record)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	return cmd
}

func printScore(w io.Writer, score scoring.ScoreResult, record guidance.Record) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %d / 100\n", bold("Rating:   "), score.FinalRating)
	fmt.Fprintf(w, "%s %s (%s)\n", bold("Grade:    "), gradeColor(score.Grade), record.Label)
	fmt.Fprintf(w, "%s %s (%s)\n", bold("Archetype:"), record.Key.Title(), record.Key)
	fmt.Fprintf(w, "%s %s\n\n", bold("Strength: "), record.Strength)
	fmt.Fprintf(w, "%s\n%s\n\n", bold("Summary"), record.Summary)
	fmt.Fprintln(w, record.Detail)
}

func gradeColor(g scoring.Grade) string {
	var c *color.Color
	switch g {
	case scoring.GradeAPlus, scoring.GradeA:
		c = color.New(color.FgGreen, color.Bold)
	case scoring.GradeB:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgRed, color.Bold)
	}
	return c.Sprint(string(g))
}

func newMatrixCommand() *cobra.Command {
	var distributionOnly bool
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print every score combination with its grade and archetype",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printMatrix(cmd.OutOrStdout(), !distributionOnly)
			return nil
		},
	}
	cmd.Flags().BoolVar(&distributionOnly, "distribution", false, "Only print archetype and grade counts")
	return cmd
}

func printMatrix(w io.Writer, rows bool) {
	archetypes := make(map[guidance.Archetype]int, len(guidance.Archetypes))
	grades := make(map[scoring.Grade]int, len(scoring.Grades))
	total := 0

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if rows {
		fmt.Fprintln(tw, "CULTURE\tCOMPETENCE\tCOMMITMENT\tRATING\tGRADE\tARCHETYPE")
	}
	for c := scoring.MinCulture; c <= scoring.MaxCulture; c++ {
		for k := scoring.MinCompetence; k <= scoring.MaxCompetence; k++ {
			for m := scoring.MinCommitment; m <= scoring.MaxCommitment; m++ {
				score, _ := scoring.ComputeScore(scoring.Inputs(c, k, m))
				archetype := guidance.DetectArchetype(c, k, m)
				archetypes[archetype]++
				grades[score.Grade]++
				total++
				if rows {
					fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%s\t%s\n", c, k, m, score.FinalRating, score.Grade, archetype)
				}
			}
		}
	}
	if rows {
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "ARCHETYPE\tCOUNT\n")
	for _, a := range guidance.Archetypes {
		fmt.Fprintf(tw, "%s\t%d\n", a, archetypes[a])
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "GRADE\tCOUNT\n")
	for _, g := range scoring.Grades {
		fmt.Fprintf(tw, "%s\t%d\n", g, grades[g])
	}
	fmt.Fprintf(tw, "TOTAL\t%d\n", total)
	_ = tw.Flush()
}

func newLabelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "Print the helper text shown for each score",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			bold := color.New(color.Bold).SprintFunc()
			dimensions := []struct {
				name  string
				label func(int) string
				max   int
			}{
				{"Culture", guidance.CultureLabel, scoring.MaxCulture},
				{"Competence", guidance.CompetenceLabel, scoring.MaxCompetence},
				{"Commitment", guidance.CommitmentLabel, scoring.MaxCommitment},
			}
			for _, d := range dimensions {
				fmt.Fprintln(w, bold(d.name))
				for v := 1; v <= d.max; v++ {
					fmt.Fprintf(w, "  %2d  %s\n", v, d.label(v))
				}
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, bold("Grades"))
			for _, g := range scoring.Grades {
				fmt.Fprintf(w, "  %-2s  %s\n", g, guidance.GradeLabel(g))
			}
			return nil
		},
	}
}

func newReportCommand() *cobra.Command {
	var (
		flags    scoreFlags
		name     string
		assessor string
		logoPath string
		out      string
	)
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Render one person's PDF report to a file",
		Example: `  threecs report --name "Ada Lovelace" --culture 9 --competence 5 --commitment 3`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			score, record, err := flags.evaluate()
			if err != nil {
				return err
			}

			var opts []report.Option
			if logoPath != "" {
				data, imageType, err := report.LoadLogo(logoPath)
				if err != nil {
					return err
				}
				opts = append(opts, report.WithLogo(data, imageType))
			}
			pdf, err := report.New(opts...).Render(report.Input{
				PersonName:    name,
				Culture:       flags.culture,
				Competence:    flags.competence,
				Commitment:    flags.commitment,
				FinalRating:   score.FinalRating,
				Grade:         score.Grade,
				Guidance:      record,
				AssessorEmail: assessor,
				GeneratedAt:   time.Now().UTC(),
			})
			if err != nil {
				return err
			}

			if out == "" {
				out = email.AttachmentFilename(name)
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(pdf))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Person name")
	cmd.Flags().StringVar(&assessor, "assessor", "", "Assessor email shown in the header")
	cmd.Flags().StringVar(&logoPath, "logo", "", "PNG or JPEG logo for the header")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path (default 3Cs_Assessment_<name>.pdf)")
	return cmd
}
