package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
	"psyscore/internal/scoring"
	"psyscore/internal/service"
)

type engineFlags struct {
	normsPath string
	seed      int64
	jitter    float64
	verbose   bool
}

func newRootCmd() *cobra.Command {
	flags := &engineFlags{}
	root := &cobra.Command{
		Use:           "psyscore",
		Short:         "Score Likert personality questionnaires offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.normsPath, "norms", "", "YAML norms file (defaults to built-in table)")
	root.PersistentFlags().Int64Var(&flags.seed, "seed", 0, "seed for deterministic score variability")
	root.PersistentFlags().Float64Var(&flags.jitter, "jitter", 0, "variability amplitude in score points (0 disables)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log engine diagnostics to stderr")

	root.AddCommand(scoreCmd(flags), normsCmd(flags), questionnaireCmd(), takeCmd(flags))
	return root
}

func (f *engineFlags) table() (*norms.Table, error) {
	if f.normsPath == "" {
		return norms.Default(), nil
	}
	return norms.Load(f.normsPath)
}

func (f *engineFlags) engine() (*scoring.Engine, error) {
	table, err := f.table()
	if err != nil {
		return nil, err
	}
	opts := []scoring.Option{}
	if f.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
		opts = append(opts, scoring.WithLogger(logger))
	}
	if f.jitter > 0 {
		opts = append(opts, scoring.WithVariability(scoring.NewSeededVariability(uint64(f.seed), f.jitter)))
	}
	return scoring.New(table, opts...), nil
}

func scoreCmd(flags *engineFlags) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON request ({\"meta\":{...},\"responses\":[...]}) from a file or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := flags.engine()
			if err != nil {
				return err
			}
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var req domain.ScoreRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("decode request: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), engine.Score(req.Responses, req.Meta))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "request file, - for stdin")
	return cmd
}

func normsCmd(flags *engineFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "norms",
		Short: "Print the active norms table as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := flags.table()
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(table.Document()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func questionnaireCmd() *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "questionnaire",
		Short: "Print the item bank for a tier as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := service.NewQuestionnaireService().Questionnaire(domain.ParseTier(tier))
			return writeJSON(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().StringVar(&tier, "tier", string(domain.TierStandard), "basic, standard or comprehensive")
	return cmd
}

func takeCmd(flags *engineFlags) *cobra.Command {
	var tier string
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Answer the questionnaire interactively and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := flags.engine()
			if err != nil {
				return err
			}
			t := domain.ParseTier(tier)
			questionnaire := service.NewQuestionnaireService()
			answers := runQuestionnaire(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr(), questionnaire.Questionnaire(t))
			result := engine.Score(questionnaire.BuildResponses(answers), domain.SessionMeta{Tier: string(t)})
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&tier, "tier", string(domain.TierStandard), "basic, standard or comprehensive")
	return cmd
}

// runQuestionnaire pregunta item por item; una linea vacia o invalida deja el item sin responder.
func runQuestionnaire(reader *bufio.Reader, out io.Writer, items []domain.QuestionItem) []domain.Answer {
	fmt.Fprintf(out, "\n--- CUESTIONARIO (%d preguntas) ---\n", len(items))
	fmt.Fprintln(out, "Responde de 1 (muy en desacuerdo) a 5 (muy de acuerdo). Enter para omitir.")

	answers := make([]domain.Answer, 0, len(items))
	for i, it := range items {
		fmt.Fprintf(out, "\n[%d/%d] %s: ", i+1, len(items), it.Text)
		line, err := reader.ReadString('\n')
		value, ok := parseLikert(line)
		if ok {
			answers = append(answers, domain.Answer{QuestionID: it.ID, Value: domain.Score(value)})
		}
		if err != nil {
			break
		}
	}
	return answers
}

func parseLikert(line string) (float64, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || v < 1 || v > 5 {
		return 0, false
	}
	return float64(v), true
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
