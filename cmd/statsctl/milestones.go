package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/config"
	"example.com/trainingstats/internal/domain"
)

func newMilestonesCmd() *cobra.Command {
	var (
		total float64
		table string
		unit  string
	)
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Show milestone progress for a lifetime volume in kilograms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if total < 0 {
				return fmt.Errorf("--total must be >= 0")
			}
			milestones := domain.DefaultMilestones
			if table != "" {
				var err error
				if milestones, err = config.LoadMilestones(table); err != nil {
					return err
				}
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			printMilestones(w, analytics.TrackMilestones(total, milestones), domain.ParseWeightUnit(unit))
			return w.Flush()
		},
	}
	cmd.Flags().Float64Var(&total, "total", 0, "lifetime volume in kilograms")
	cmd.Flags().StringVar(&table, "table", "", "milestone table (TOML)")
	cmd.Flags().StringVar(&unit, "unit", "metric", "weight unit: metric or imperial")
	return cmd
}
