package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sprintpulse/internal/metrics"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the full state as sprintpulse_week<N>.json to the export store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			info, err := store.Export(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			fmt.Fprintln(cmd.OutOrStdout(), labelValue("Exported", info.Key))
			if info.URL != "" {
				fmt.Fprintln(cmd.OutOrStdout(), styleMuted.Render(info.URL))
			}
			return nil
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete all saved data and start over",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			return a.commit(cmd.Context(), cmd, store, store.PrepareReset())
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Chart the scores of completed weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			series := store.Series()
			if a.asJSON {
				return writeJSON(cmd.OutOrStdout(), series)
			}
			if len(series) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), styleMuted.Render("No completed weeks yet."))
				return nil
			}
			for _, p := range series {
				tier := metrics.ScoreTier(p.Score)
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s %s\n", p.Label, scoreBar(p.Score, 25), tierStyle(tier.Name).Render(fmt.Sprintf("%3d%%", p.Score)))
			}
			return nil
		},
	}
}
