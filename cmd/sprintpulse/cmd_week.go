package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newWeekCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Expand planner weeks and close out the current week",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "open <goal-id> <week>",
			Short: "Expand or collapse a goal's week in the planner",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				week, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("week %q: %w", args[1], err)
				}
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				open, err := store.ToggleWeekAccordion(cmd.Context(), args[0], week)
				if err != nil {
					return err
				}
				state := "collapsed"
				if open {
					state = "expanded"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Week %d %s\n", week, state)
				return nil
			},
		},
		&cobra.Command{
			Use:   "complete",
			Short: "Archive this week's score and move to the next week",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				action, err := store.PrepareCompleteWeek()
				if err != nil {
					return err
				}
				before := store.CurrentWeek()
				if err := a.commit(cmd.Context(), cmd, store, action); err != nil {
					return err
				}
				if store.CurrentWeek() != before {
					s := store.Summary()
					if s.SprintComplete {
						fmt.Fprintln(cmd.OutOrStdout(), styleGood.Render("Sprint complete."))
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), styleGood.Render(fmt.Sprintf("Week %d started.", s.Week)))
					}
				}
				return nil
			},
		},
	)
	return cmd
}
