package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/llm"
	"github.com/abhisek/drillz/internal/model"
	"github.com/abhisek/drillz/internal/refine"
)

var refineCmd = &cobra.Command{
	Use:   "refine",
	Short: "Polish question wording and distractors with an LLM",
	Long: "refine sends the question bank to the configured LLM provider in batches. " +
		"Batches that fail or time out keep their original questions. " +
		"Use --out to write the refined bank to a file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		heavy := rt.cfg.Refine.Heavy
		if cmd.Flags().Changed("heavy") {
			heavy, _ = cmd.Flags().GetBool("heavy")
		}
		timeout := rt.cfg.Refine.Timeout
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetDuration("timeout")
		}
		category, _ := cmd.Flags().GetString("category")
		outPath, _ := cmd.Flags().GetString("out")

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, rt.cfg.LLM, rt.store.EventRepo(), rt.log)
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		b, err := rt.bank()
		if err != nil {
			return fmt.Errorf("load question bank: %w", err)
		}

		var selected []model.Question
		for _, q := range b.Snapshot() {
			if category == "" || strings.EqualFold(q.Category, category) {
				selected = append(selected, q)
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("no questions to refine")
		}

		runner := &refine.Runner{Refiner: refine.NewLLMRefiner(provider), Logger: rt.log}
		opts := refine.Options{Timeout: timeout, Heavy: heavy}
		out := cmd.OutOrStdout()

		var refined []model.Question
		degraded := 0
		size := rt.cfg.Refine.BatchSize
		for start := 0; start < len(selected); start += size {
			batch := selected[start:min(start+size, len(selected))]
			began := time.Now()
			res := runner.Run(ctx, batch, opts)
			status := "ok"
			if res.Degraded {
				degraded++
				status = "kept originals: " + res.Err.Error()
			}
			fmt.Fprintf(out, "batch %d-%d (%d questions, %s): %s\n",
				batch[0].ID, batch[len(batch)-1].ID, len(batch), time.Since(began).Round(time.Millisecond), status)
			refined = append(refined, res.Questions...)
		}

		changed := b.Replace(refined)
		fmt.Fprintf(out, "\n%d questions processed, %d batches degraded\n", changed, degraded)

		if outPath == "" {
			fmt.Fprintln(out, "Dry run: pass --out to save the refined bank.")
			return nil
		}
		data, err := b.Marshal()
		if err != nil {
			return fmt.Errorf("encode bank: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("write bank: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", outPath)
		return nil
	},
}

func init() {
	refineCmd.Flags().Bool("heavy", false, "Use the larger token budget and rewrite weak questions thoroughly")
	refineCmd.Flags().Duration("timeout", refine.DefaultTimeout, "Timeout per batch")
	refineCmd.Flags().StringP("category", "c", "", "Only refine this category")
	refineCmd.Flags().StringP("out", "o", "", "Write the refined bank to this file")
}
