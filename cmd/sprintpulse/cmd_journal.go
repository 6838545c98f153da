package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sprintpulse/pkg/domain"
)

func newVisionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vision [text...]",
		Short: "Show or replace the 12-week vision",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), store.State().Vision)
				return nil
			}
			return store.UpdateVision(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newMetricCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metric <lag|lead> [value...]",
		Short: "Record this week's lag or lead indicator",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			kind := domain.MetricKind(strings.ToLower(args[0]))
			return store.UpdateMetric(cmd.Context(), kind, strings.Join(args[1:], " "))
		},
	}
}

func newPhaseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "phase [phase]",
		Short: "Show or set this week's emotional phase",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				current := store.Summary().Phase
				for _, p := range domain.Phases() {
					marker := "  "
					if p == current {
						marker = styleGood.Render("> ")
					}
					fmt.Fprintln(cmd.OutOrStdout(), marker+string(p))
				}
				return nil
			}
			for _, p := range domain.Phases() {
				if strings.EqualFold(string(p), args[0]) {
					return store.SetEmotionalPhase(cmd.Context(), p)
				}
			}
			return fmt.Errorf("unknown phase %q", args[0])
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Keep dated health notes for the current week",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <note...>",
			Short: "Add a note to this week's health log",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				log, err := store.AddHealthLog(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				if log.ID != "" {
					fmt.Fprintln(cmd.OutOrStdout(), log.ID)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <log-id>",
			Short: "Delete a health note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.RemoveHealthLog(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List this week's health notes, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				logs := store.HealthLogsForCurrentWeek()
				if a.asJSON {
					return writeJSON(cmd.OutOrStdout(), logs)
				}
				for _, h := range logs {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", styleMuted.Render(h.Date), h.Note, styleMuted.Render(h.ID))
				}
				return nil
			},
		},
	)
	return cmd
}

func newDueCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "due",
		Short: "Track due dates",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add [title...]",
			Short: "Add a due date",
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				due, err := store.AddDueDate(cmd.Context())
				if err != nil {
					return err
				}
				if title := strings.Join(args, " "); title != "" {
					if err := store.UpdateDueDate(cmd.Context(), due.ID, domain.DueDateTitle, title); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), due.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <due-id> <title|type|duration> <value...>",
			Short: "Edit a due date field",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				field := domain.DueDateField(strings.ToLower(args[1]))
				var probe domain.DueDate
				if !probe.Set(field, "") {
					return fmt.Errorf("unknown due date field %q", args[1])
				}
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.UpdateDueDate(cmd.Context(), args[0], field, strings.Join(args[2:], " "))
			},
		},
		&cobra.Command{
			Use:   "rm <due-id>",
			Short: "Delete a due date",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.open(cmd.Context())
				if err != nil {
					return err
				}
				return store.RemoveDueDate(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

var dayNames = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

func newBlockCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "block [<day> <hour>]",
		Short: "Show the model week or cycle one hour's block type",
		Long: `Without arguments, print the model week. With a day (mon..sun or 0..6) and
a wall-clock hour (8..23), cycle that slot through empty, plan, action and
breakout.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return errors.New("expected no arguments or <day> <hour>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				renderModelWeek(cmd, store.State())
				return nil
			}
			slot, err := parseSlot(args[0], args[1])
			if err != nil {
				return err
			}
			block, err := store.ToggleTimeBlock(cmd.Context(), slot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %02d:00 %s\n", dayNames[slot.Day], slot.Hour+domain.GridFirstHour, blockLabel(block))
			return nil
		},
	}
}

func parseSlot(day, hour string) (domain.SlotKey, error) {
	d := -1
	for i, name := range dayNames {
		if strings.EqualFold(day, name) {
			d = i
		}
	}
	if d < 0 {
		n, err := strconv.Atoi(day)
		if err != nil {
			return domain.SlotKey{}, fmt.Errorf("day %q: want mon..sun or 0..6", day)
		}
		d = n
	}
	h, err := strconv.Atoi(hour)
	if err != nil {
		return domain.SlotKey{}, fmt.Errorf("hour %q: %w", hour, err)
	}
	return domain.SlotKey{Day: d, Hour: h - domain.GridFirstHour}, nil
}

func renderModelWeek(cmd *cobra.Command, st domain.AppState) {
	out := cmd.OutOrStdout()
	fmt.Fprint(out, "      ")
	for _, name := range dayNames {
		fmt.Fprintf(out, " %-8s", name)
	}
	fmt.Fprintln(out)
	for h := 0; h < domain.GridHours; h++ {
		fmt.Fprintf(out, "%02d:00 ", h+domain.GridFirstHour)
		for d := 0; d < domain.GridDays; d++ {
			b := st.BlockAt(domain.SlotKey{Day: d, Hour: h})
			label := string(b)
			if b == domain.BlockEmpty {
				label = "."
			}
			fmt.Fprint(out, " "+blockStyle(b).Render(fmt.Sprintf("%-8s", label)))
		}
		fmt.Fprintln(out)
	}
}

func newOnboardCmd(a *app) *cobra.Command {
	var vision, goal string
	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Set the vision and first goal and finish onboarding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.CompleteOnboarding(cmd.Context(), vision, goal); err != nil {
				return err
			}
			renderStatus(cmd, store.Summary(), store.State())
			return nil
		},
	}
	cmd.Flags().StringVar(&vision, "vision", "", "Your 12-week vision")
	cmd.Flags().StringVar(&goal, "goal", "", "Title of the first goal")
	return cmd
}
