package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"example.com/trainingstats/internal/analytics"
	"example.com/trainingstats/internal/backup"
	"example.com/trainingstats/internal/catalog"
	"example.com/trainingstats/internal/config"
	"example.com/trainingstats/internal/domain"
	"example.com/trainingstats/internal/persistence/memory"
)

const (
	localTenant = "local"
	localUser   = "local"
	topOverload = 5
)

type reportOptions struct {
	file     string
	now      string
	unit     string
	metric   string
	table    string
	catalog  string
	weekday  string
	jsonMode bool
}

func newReportCmd() *cobra.Command {
	var opts reportOptions
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print volume, overload, muscle and milestone reports for a backup export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.file, "file", "", "backup export (JSON)")
	cmd.Flags().StringVar(&opts.now, "now", "", "reference time, RFC3339 (default: current time)")
	cmd.Flags().StringVar(&opts.unit, "unit", "metric", "weight unit: metric or imperial")
	cmd.Flags().StringVar(&opts.metric, "metric", "reps", "volume metric: reps (weight x reps) or weight")
	cmd.Flags().StringVar(&opts.table, "table", "", "milestone table (TOML)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "additional exercise catalog (JSON)")
	cmd.Flags().StringVar(&opts.weekday, "first-weekday", "monday", "first day of the week: monday, sunday or saturday")
	cmd.Flags().BoolVar(&opts.jsonMode, "json", false, "print the dashboard as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runReport(ctx context.Context, out io.Writer, opts reportOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now()
	if opts.now != "" {
		parsed, err := time.Parse(time.RFC3339, opts.now)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = parsed
	}

	export, err := backup.DecodeFile(opts.file)
	if err != nil {
		return err
	}
	exercises := catalog.NewSeeded()
	if opts.catalog != "" {
		if _, err := exercises.LoadFile(opts.catalog); err != nil {
			return err
		}
	}
	repo := memory.NewRepository()
	if _, err := export.Restore(ctx, repo, exercises, localTenant, localUser); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}

	milestones := domain.DefaultMilestones
	if opts.table != "" {
		if milestones, err = config.LoadMilestones(opts.table); err != nil {
			return err
		}
	}

	calendar := analytics.DefaultCalendar()
	calendar.FirstWeekday = config.ParseWeekday(opts.weekday)
	svc := analytics.NewService(repo, exercises,
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithCalendar(calendar),
		analytics.WithMetric(metricFlag(opts.metric)),
		analytics.WithMilestones(milestones),
	)
	dashboard, err := svc.Dashboard(ctx, localTenant, localUser)
	if err != nil {
		return err
	}

	if opts.jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dashboard)
	}
	printDashboard(out, dashboard, domain.ParseWeightUnit(opts.unit))
	return nil
}

func metricFlag(value string) domain.VolumeMetric {
	if value == "weight" {
		return domain.MetricWeightOnly
	}
	return domain.MetricWeightTimesReps
}

func printDashboard(out io.Writer, d analytics.Dashboard, unit domain.WeightUnit) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "VOLUME\tCURRENT\tPREVIOUS\tCHANGE")
	for _, c := range []analytics.Comparison{d.Volume.Week, d.Volume.Month} {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Period, unit.Format(c.Current.Volume), unit.Format(c.Previous.Volume), formatChange(c.Change))
	}

	fmt.Fprintln(w, "\nEXERCISE\tCURRENT MAX\tPREVIOUS MAX\tIMPROVEMENT")
	for _, p := range d.Overload.Top(topOverload) {
		pr := ""
		if p.IsNewPR {
			pr = " PR"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%+.1f%%%s\n", p.Title, unit.Format(p.CurrentMax), unit.Format(p.PreviousMax), p.Improvement, pr)
	}

	fmt.Fprintln(w, "\nMUSCLE GROUP\tSETS\tINTENSITY")
	for _, share := range d.Muscles.Ranking() {
		fmt.Fprintf(w, "%s\t%d\t%.0f%%\n", share.Group, share.Sets, share.Intensity*100)
	}

	fmt.Fprintln(w)
	printMilestones(w, d.Milestones, unit)
}

func printMilestones(w io.Writer, progress analytics.MilestoneProgress, unit domain.WeightUnit) {
	fmt.Fprintf(w, "LIFETIME VOLUME\t%s\n", unit.Format(progress.Total))
	fmt.Fprintf(w, "ACHIEVED\t%d\n", len(progress.Achieved))
	if latest, ok := progress.Latest(); ok {
		fmt.Fprintf(w, "LATEST\t%s %s (%s)\n", latest.Emoji, latest.Name, unit.Format(latest.Weight))
	}
	if progress.Next != nil {
		fmt.Fprintf(w, "NEXT\t%s %s (%s)\n", progress.Next.Emoji, progress.Next.Name, unit.Format(progress.Next.Weight))
	}
	fmt.Fprintf(w, "PROGRESS\t%.1f%%\n", progress.ProgressToNext*100)
}

func formatChange(change *float64) string {
	if change == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *change*100)
}
