package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear statistics and the review queue",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			prompt := fmt.Sprintf("This clears all statistics and pending reviews. Type %q to continue:", confirmWord)
			ok, err := confirm(cmd.Context(), prompt, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
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
		e.Reset()
		if err := rt.save(ctx, e); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Learner data reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
}
