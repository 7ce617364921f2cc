package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/content"
	"github.com/abhisek/drillz/internal/model"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Browse and check the question bank",
}

var bankListCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions (optionally filtered by category)",
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		b, err := loadBankFlag(cmd)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-5s  %-6s  %-10s  %-16s  %s\n", "ID", "Cat", "Tier", "Formula", "Text")
		fmt.Fprintln(out, strings.Repeat("─", 100))

		n := 0
		for _, q := range b.Questions {
			if category != "" && !strings.EqualFold(q.Category, category) {
				continue
			}
			tier := string(q.Tier)
			if tier == "" {
				tier = "easy"
			}
			fmt.Fprintf(out, "%-5d  %-6s  %-10s  %-16s  %s\n",
				q.ID, q.Category, tier, truncate(q.FormulaID, 16), truncate(q.Text, 56))
			n++
		}
		fmt.Fprintf(out, "\n%d questions (bank %s)\n", n, b.Version)
		return nil
	},
}

var bankValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a question bank file (default: the configured bank)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			b   *content.Bank
			err error
		)
		if len(args) == 1 {
			b, err = content.LoadFile(args[0])
		} else {
			b, err = loadBankFlag(cmd)
		}
		if err != nil {
			return err
		}

		counts := b.ByCategory()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Bank %s is valid: %d questions\n", b.Version, len(b.Questions))
		cats := model.Categories()
		for c := range counts {
			if !slices.Contains(cats, c) {
				cats = append(cats, c)
			}
		}
		for _, c := range cats {
			fmt.Fprintf(out, "  %-6s %d\n", c, counts[c])
		}
		return nil
	},
}

// loadBankFlag loads the bank named by --bank, or the built-in bank.
func loadBankFlag(cmd *cobra.Command) (*content.Bank, error) {
	if p, _ := cmd.Flags().GetString("bank"); p != "" {
		return content.LoadFile(p)
	}
	return content.Load()
}

func init() {
	bankListCmd.Flags().StringP("category", "c", "", "Only list this category")

	bankCmd.AddCommand(bankListCmd)
	bankCmd.AddCommand(bankValidateCmd)
}
