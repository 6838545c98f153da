package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sprintpulse/internal/metrics"
	"sprintpulse/pkg/domain"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the dashboard for the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			summary := store.Summary()
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			renderStatus(cmd, summary, store.State())
			return nil
		},
	}
}

func renderStatus(cmd *cobra.Command, s metrics.Summary, st domain.AppState) {
	out := cmd.OutOrStdout()
	week := fmt.Sprintf("Week %d of %d", s.Week, domain.LastWeek)
	if s.SprintComplete {
		week = "Sprint complete"
	}
	header := []string{
		styleTitle.Render("SprintPulse") + "  " + styleMuted.Render(week),
		s.Vision,
	}
	fmt.Fprintln(out, stylePanel.Render(strings.Join(header, "\n")))

	tier := tierStyle(s.Tier)
	fmt.Fprintln(out, labelValue("Score", tier.Render(fmt.Sprintf("%d%%", s.Score))+" "+scoreBar(s.Score, 20)))
	fmt.Fprintln(out, "  "+tier.Render(s.TierMessage))
	fmt.Fprintln(out, labelValue("Tactics", fmt.Sprintf("%d/%d done", s.Completed, s.Tactics)))
	fmt.Fprintln(out, labelValue("Strategic hours", s.StrategicHours))
	phase := string(s.Phase)
	if s.PhaseMessage != "" {
		phase += " " + styleMuted.Render("("+s.PhaseMessage+")")
	}
	fmt.Fprintln(out, labelValue("Phase", phase))
	if s.Lag != "" {
		fmt.Fprintln(out, labelValue("Lag", s.Lag))
	}
	if s.Lead != "" {
		fmt.Fprintln(out, labelValue("Lead", s.Lead))
	}

	if len(st.Goals) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styleH2.Render("Goals"))
		for _, g := range st.Goals {
			renderGoal(cmd, g, s.Week)
		}
	}
	if len(s.HealthLogs) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styleH2.Render("Health log"))
		for _, h := range s.HealthLogs {
			fmt.Fprintf(out, "  %s %s %s\n", styleMuted.Render(h.Date), h.Note, styleMuted.Render(h.ID))
		}
	}
	if len(s.DueDates) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, styleH2.Render("Due dates"))
		for _, d := range s.DueDates {
			fmt.Fprintf(out, "  %s %s %s %s\n", d.Title, styleMuted.Render(d.Type), styleMuted.Render(d.Duration), styleMuted.Render(d.ID))
		}
	}
}

func renderGoal(cmd *cobra.Command, g domain.Goal, week int) {
	out := cmd.OutOrStdout()
	title := g.Title
	if title == "" {
		title = styleMuted.Render("(untitled)")
	}
	fmt.Fprintf(out, "  %s %s\n", title, styleMuted.Render(g.ID))
	for _, t := range g.TacticsForWeek(week) {
		fmt.Fprintf(out, "    %s %s %s\n", checkbox(t.Completed), t.Title, styleMuted.Render(t.ID))
	}
}
