package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/drillz/internal/engine"
	"github.com/abhisek/drillz/internal/ui/components"
	"github.com/abhisek/drillz/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show readiness by category and the predicted AFQT score",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		rt, err := setup(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		e, err := rt.engine(cmd.Context())
		if err != nil {
			return err
		}

		d := e.Dashboard(time.Now())
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}
		renderDashboard(cmd.OutOrStdout(), d)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the dashboard as JSON")
}

func renderDashboard(out io.Writer, d engine.Dashboard) {
	fmt.Fprintln(out, theme.Title.Render("Readiness"))
	fmt.Fprintln(out)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Category", "Tier", "Attempts", "Accuracy", "Avg Time", "Confidence", "Drill/Topic").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Inherit(theme.Header)
			}
			return s
		})

	for _, c := range d.Categories {
		avg := "-"
		if c.Attempts > 0 {
			avg = fmt.Sprintf("%.1fs", c.AvgTimeMs/1000)
		}
		t.Row(
			c.Category,
			theme.Tier(c.Tier).Render(string(c.Tier)),
			strconv.Itoa(c.Attempts),
			fmt.Sprintf("%.0f%%", c.Accuracy*100),
			avg,
			strconv.Itoa(c.Confidence),
			strconv.Itoa(c.Suggested),
		)
	}
	fmt.Fprintln(out, t.String())
	fmt.Fprintln(out)

	fmt.Fprintln(out, components.NewProgressBar("Predicted AFQT", float64(d.PredictedScore)/99, false, 50).View()+
		"  "+theme.Label.Render(strconv.Itoa(d.PredictedScore)))

	if d.PendingReviews > 0 {
		fmt.Fprintf(out, "Reviews queued: %d (%d due now)\n", d.PendingReviews, d.DueReviews)
	}
}
