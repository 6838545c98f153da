package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Add, rename, list and remove goals",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [title...]",
			Short: "Add a goal",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				goal, err := store.AddGoal(cmd.Context())
				if err != nil {
					return err
				}
				if title := strings.Join(args, " "); title != "" {
					if err := store.UpdateGoalTitle(cmd.Context(), goal.ID, title); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), goal.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "title <goal-id> <title...>",
			Short: "Rename a goal",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.UpdateGoalTitle(cmd.Context(), args[0], strings.Join(args[1:], " "))
			},
		},
		&cobra.Command{
			Use:   "rm <goal-id>",
			Short: "Delete a goal and all of its tactics",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				action, err := store.PrepareRemoveGoal(args[0])
				if err != nil {
					return err
				}
				return a.commit(cmd.Context(), cmd, store, action)
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List goals with their tactics for the current week",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				st := store.State()
				if a.asJSON {
					return writeJSON(cmd.OutOrStdout(), st.Goals)
				}
				for _, g := range st.Goals {
					renderGoal(cmd, g, st.CurrentWeek)
				}
				return nil
			},
		},
	)
	return cmd
}
