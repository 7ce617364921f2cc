package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/choices"
	"github.com/abhisek/drillz/internal/engine"
	"github.com/abhisek/drillz/internal/mastery"
	"github.com/abhisek/drillz/internal/model"
	"github.com/abhisek/drillz/internal/selector"
	"github.com/abhisek/drillz/internal/ui/components"
	"github.com/abhisek/drillz/internal/ui/theme"
)

// categoryAll rotates through every category with questions.
const categoryAll = "all"

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start a practice session",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		count, _ := cmd.Flags().GetInt("count")
		if count < 1 {
			return fmt.Errorf("--count must be at least 1")
		}

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		e, err := rt.engine(ctx)
		if err != nil {
			return err
		}

		cats, err := practiceCategories(e, category)
		if err != nil {
			return err
		}

		e.StartSession()
		asker := teaAnswerer{in: cmd.InOrStdin(), out: cmd.OutOrStdout()}
		sum, err := practice(ctx, e, asker, cmd.OutOrStdout(), practiceOptions{
			Categories:   cats,
			Count:        count,
			MistakeDelay: rt.cfg.Engine.MistakeDelayMinutes,
			Now:          time.Now,
		})
		if saveErr := rt.save(ctx, e); saveErr != nil {
			return errors.Join(err, saveErr)
		}
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), e, sum)
		return nil
	},
}

func init() {
	practiceCmd.Flags().StringP("category", "c", categoryAll, "Category to practice (AR, MK, WK, PC, MIXED or all)")
	practiceCmd.Flags().IntP("count", "n", 10, "Number of questions")
}

// practiceCategories resolves the --category flag. "all" rotates through
// every known category that has questions.
func practiceCategories(e *engine.Engine, category string) ([]string, error) {
	if strings.EqualFold(category, categoryAll) {
		var out []string
		for _, c := range model.Categories() {
			if len(e.Model().QuestionsByCategory(c)) > 0 {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			return nil, model.ErrNoQuestionsAvailable
		}
		return out, nil
	}
	c := strings.ToUpper(category)
	if !slices.Contains(model.Categories(), c) {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	return []string{c}, nil
}

type practiceOptions struct {
	Categories   []string
	Count        int
	MistakeDelay int
	Now          func() time.Time
}

type practiceSummary struct {
	Asked    int
	Correct  int
	Reviews  int
	Mastered []string
}

// practice runs the question loop until Count questions are answered or
// the learner quits.
func practice(ctx context.Context, e *engine.Engine, ask answerer, out io.Writer, opts practiceOptions) (practiceSummary, error) {
	var sum practiceSummary
	exclude := make(map[int]bool)
	lastAnswer := choices.NoAvoid

	for i := 0; i < opts.Count; i++ {
		cat := opts.Categories[i%len(opts.Categories)]
		pick, err := e.Next(selector.Request{Category: cat, Exclude: exclude})
		if err != nil {
			return sum, err
		}
		// Keep the correct letter from repeating question to question.
		q, err := e.Present(pick.QuestionID, lastAnswer)
		if err != nil {
			return sum, err
		}
		correctIdx := slices.Index(q.Choices, q.Answer)
		isRecall := e.NeedsRecall(q.ID)
		header := questionHeader(i+1, opts.Count, q, pick, isRecall)

		start := opts.Now()
		mc, answered, err := ask.Ask(ctx, header, components.NewMultiChoice(q.Text, q.Choices, correctIdx))
		if err != nil {
			return sum, err
		}
		if !answered {
			break
		}
		elapsed := opts.Now().Sub(start)

		res, err := e.ProcessAttempt(ctx, engine.Attempt{
			QuestionID: q.ID,
			Correct:    mc.IsCorrect(),
			TimeMs:     int(elapsed.Milliseconds()),
			IsRecall:   isRecall,
		})
		if err != nil {
			return sum, err
		}

		sum.Asked++
		if pick.Source == selector.SourceReview {
			sum.Reviews++
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, header)
		fmt.Fprint(out, mc.View())
		if mc.IsCorrect() {
			sum.Correct++
			fmt.Fprintln(out, theme.Correct.Render("Correct!"))
		} else {
			fmt.Fprintln(out, theme.Incorrect.Render("Not quite."))
		}
		if msg := signalMessage(res, opts.MistakeDelay); msg != "" {
			fmt.Fprintln(out, theme.Hint.Render(msg))
		}

		exclude[q.ID] = true
		lastAnswer = correctIdx
	}
	sum.Mastered = e.Mastered()
	return sum, nil
}

func questionHeader(n, total int, q model.Question, pick selector.Pick, isRecall bool) string {
	parts := []string{
		theme.Label.Render(fmt.Sprintf("Question %d/%d", n, total)),
		theme.Subtitle.Render(q.Category),
		theme.Tier(q.Tier).Render(string(q.Tier)),
	}
	switch {
	case isRecall:
		parts = append(parts, theme.Review.Render("recall check"))
	case pick.Source == selector.SourceReview:
		parts = append(parts, theme.Review.Render(string(pick.Review.Reason)+" review"))
	}
	return strings.Join(parts, "  ")
}

// signalMessage explains what the mastery cycle and review queue did.
func signalMessage(res *engine.AttemptResult, mistakeDelay int) string {
	switch res.Transition.Signal {
	case mastery.SignalWrong:
		if res.ReviewQueued {
			return fmt.Sprintf("This one comes back for review in %d minutes.", mistakeDelay)
		}
	case mastery.SignalCycleToRecall:
		return "Nice streak. Next time on this topic is a recall check."
	case mastery.SignalRecallCorrect:
		return fmt.Sprintf("Mastered %s for this session.", res.FormulaID)
	}
	if res.ReviewsClosed > 0 {
		return "Review cleared."
	}
	return ""
}

func printSummary(out io.Writer, e *engine.Engine, sum practiceSummary) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, theme.Title.Render("Session complete"))
	if sum.Asked == 0 {
		fmt.Fprintln(out, theme.Subtitle.Render("No questions answered."))
		return
	}
	fmt.Fprintf(out, "Score:    %d/%d\n", sum.Correct, sum.Asked)
	fmt.Fprintln(out, components.NewProgressBar("Accuracy", float64(sum.Correct)/float64(sum.Asked), true, 40).View())
	if sum.Reviews > 0 {
		fmt.Fprintf(out, "Reviews:  %d\n", sum.Reviews)
	}
	if len(sum.Mastered) > 0 {
		fmt.Fprintf(out, "Mastered: %s\n", strings.Join(sum.Mastered, ", "))
	}
	d := e.Dashboard(time.Now())
	fmt.Fprintf(out, "Predicted AFQT: %d\n", d.PredictedScore)
}
