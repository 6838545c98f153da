package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sprintpulse/internal/core"
	"sprintpulse/internal/reorder"
	"sprintpulse/pkg/domain"
)

func newTacticCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tactic",
		Short: "Manage the weekly tactics of a goal",
	}
	cmd.AddCommand(
		newTacticAddCmd(a),
		&cobra.Command{
			Use:   "title <goal-id> <tactic-id> <title...>",
			Short: "Rename a tactic",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.UpdateTacticTitle(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
			},
		},
		&cobra.Command{
			Use:   "toggle <goal-id> <tactic-id>",
			Short: "Flip a tactic between done and not done",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				if err := store.ToggleTactic(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				s := store.Summary()
				fmt.Fprintln(cmd.OutOrStdout(), labelValue("Score", tierStyle(s.Tier).Render(fmt.Sprintf("%d%%", s.Score))))
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <goal-id> <tactic-id>",
			Short: "Delete a tactic",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.RemoveTactic(cmd.Context(), args[0], args[1])
			},
		},
		newTacticMoveCmd(a),
		newTacticListCmd(a),
	)
	return cmd
}

func newTacticAddCmd(a *app) *cobra.Command {
	var week int
	var recurring bool
	cmd := &cobra.Command{
		Use:   "add <goal-id> [title...]",
		Short: "Add a tactic to a week, or to every week with --recurring",
		Long: `Add a tactic to a goal. Without a title the tactic text is asked for on
stdin. --recurring adds an independent copy to each of the twelve weeks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if week == 0 {
				week = store.CurrentWeek()
			}
			res, err := store.AddTactic(cmd.Context(), core.TacticRequest{
				GoalID:    args[0],
				Week:      week,
				Recurring: recurring,
				Title:     strings.Join(args[1:], " "),
			})
			if err != nil {
				return err
			}
			if res.Pending != nil {
				return a.commit(cmd.Context(), cmd, store, res.Pending)
			}
			for _, t := range res.Created {
				fmt.Fprintln(cmd.OutOrStdout(), t.ID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 0, "Week to add to (default: current week)")
	cmd.Flags().BoolVarP(&recurring, "recurring", "r", false, "Add the tactic to all twelve weeks")
	return cmd
}

func newTacticMoveCmd(a *app) *cobra.Command {
	var toGoal, before string
	var week int
	cmd := &cobra.Command{
		Use:   "mv <goal-id> <tactic-id>",
		Short: "Move a tactic to another week or goal",
		Long: `Move a tactic. By default it stays in its goal and week; --goal and --week
pick the destination and --before places it ahead of another tactic there.
Without --before it goes after the last tactic of the destination week.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			src := reorder.Source{GoalID: args[0], TacticID: args[1], Week: store.CurrentWeek()}
			if goal, err := store.Goal(args[0]); err == nil {
				if t, ok := goal.FindTactic(args[1]); ok {
					src.Week = t.EffectiveWeek()
				}
			}
			dst := reorder.Target{GoalID: toGoal, Week: week, TacticID: before}
			if dst.GoalID == "" {
				dst.GoalID = src.GoalID
			}
			if dst.Week == 0 {
				dst.Week = src.Week
			}
			moved, err := store.MoveTactic(cmd.Context(), src, dst)
			if err != nil {
				return err
			}
			if !moved {
				fmt.Fprintln(cmd.OutOrStdout(), styleMuted.Render("Nothing moved."))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&toGoal, "goal", "g", "", "Destination goal (default: same goal)")
	cmd.Flags().IntVarP(&week, "week", "w", 0, "Destination week (default: the tactic's week)")
	cmd.Flags().StringVarP(&before, "before", "b", "", "Place ahead of this tactic")
	return cmd
}

func newTacticListCmd(a *app) *cobra.Command {
	var week int
	cmd := &cobra.Command{
		Use:   "list [goal-id]",
		Short: "List tactics for a week",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if week == 0 {
				week = store.CurrentWeek()
			}
			goals := store.State().Goals
			if len(args) == 1 {
				goal, err := store.Goal(args[0])
				if err != nil {
					return err
				}
				goals = []domain.Goal{goal}
			}
			if a.asJSON {
				out := map[string][]domain.Tactic{}
				for _, g := range goals {
					out[g.ID] = g.TacticsForWeek(week)
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleH2.Render(fmt.Sprintf("Week %d", week)))
			for _, g := range goals {
				renderGoal(cmd, g, week)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&week, "week", "w", 0, "Week to list (default: current week)")
	return cmd
}
