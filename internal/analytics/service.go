package analytics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"example.com/trainingstats/internal/domain"
)

// DashboardCache stores computed dashboards per tenant and user.
type DashboardCache interface {
	Get(tenantID, userID string) (*Dashboard, bool)
	Set(tenantID, userID string, dashboard Dashboard) error
}

// VolumeStats pairs the weekly and monthly comparisons.
type VolumeStats struct {
	Week  Comparison `json:"week"`
	Month Comparison `json:"month"`
}

// Dashboard bundles every report computed from one snapshot.
type Dashboard struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Volume      VolumeStats       `json:"volume"`
	Overload    Overload          `json:"overload"`
	Muscles     MuscleVolume      `json:"muscles"`
	Milestones  MilestoneProgress `json:"milestones"`
	Summary     ActivitySummary   `json:"summary"`
}

// Service fetches snapshots from the workout store and runs the reducers over them.
type Service struct {
	workouts    domain.WorkoutQuery
	exercises   domain.ExerciseLookup
	now         func() time.Time
	calendar    Calendar
	metric      domain.VolumeMetric
	milestones  []domain.Milestone
	overload    OverloadOptions
	heatMapDays int
	summaryDays int
	cache       DashboardCache
	logger      logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCalendar sets the calendar used for week and month boundaries.
func WithCalendar(calendar Calendar) Option {
	return func(s *Service) {
		s.calendar = calendar
	}
}

// WithMetric selects the volume metric.
func WithMetric(metric domain.VolumeMetric) Option {
	return func(s *Service) {
		s.metric = metric
	}
}

// WithMilestones replaces the milestone table.
func WithMilestones(table []domain.Milestone) Option {
	return func(s *Service) {
		if len(table) > 0 {
			s.milestones = table
		}
	}
}

// WithOverloadOptions sets the overload windows.
func WithOverloadOptions(opts OverloadOptions) Option {
	return func(s *Service) {
		s.overload = opts
	}
}

// WithCache enables dashboard caching.
func WithCache(cache DashboardCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Service.
func NewService(workouts domain.WorkoutQuery, exercises domain.ExerciseLookup, opts ...Option) *Service {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Service{
		workouts:    workouts,
		exercises:   exercises,
		now:         time.Now,
		calendar:    DefaultCalendar(),
		metric:      domain.MetricWeightTimesReps,
		milestones:  domain.DefaultMilestones,
		heatMapDays: defaultHeatMapDays,
		summaryDays: defaultHeatMapDays,
		logger:      discard,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.overload = s.overload.withDefaults()
	return s
}

// MilestoneTable returns the configured milestone table.
func (s *Service) MilestoneTable() []domain.Milestone {
	return s.milestones
}

func (s *Service) snapshot(ctx context.Context, tenantID, userID string, from, now time.Time) ([]domain.WorkoutRecord, error) {
	records, err := s.workouts.ListFinished(ctx, tenantID, userID, from, &now)
	if err != nil {
		return nil, fmt.Errorf("list finished workouts: %w", err)
	}
	return records, nil
}

// VolumeStats compares this week and month with the previous ones.
func (s *Service) VolumeStats(ctx context.Context, tenantID, userID string) (VolumeStats, error) {
	now := s.now()
	_, previousWeek := s.calendar.CurrentAndPrevious(PeriodWeek, now)
	_, previousMonth := s.calendar.CurrentAndPrevious(PeriodMonth, now)
	from := previousMonth.Start
	if previousWeek.Start.Before(from) {
		from = previousWeek.Start
	}

	records, err := s.snapshot(ctx, tenantID, userID, from, now)
	if err != nil {
		return VolumeStats{}, err
	}
	week, month := ComparePeriods(records, now, s.calendar, s.metric)
	return VolumeStats{Week: week, Month: month}, nil
}

// ProgressiveOverload reports per-exercise progress over the lookback window.
func (s *Service) ProgressiveOverload(ctx context.Context, tenantID, userID string) (Overload, error) {
	now := s.now()
	records, err := s.snapshot(ctx, tenantID, userID, LastDays(now, s.overload.LookbackDays).Start, now)
	if err != nil {
		return nil, err
	}
	return ProgressiveOverload(records, now, s.exercises, s.overload), nil
}

// MuscleHeatMap distributes recent completed sets across muscle groups.
func (s *Service) MuscleHeatMap(ctx context.Context, tenantID, userID string) (MuscleVolume, error) {
	now := s.now()
	window := LastDays(now, s.heatMapDays)
	records, err := s.snapshot(ctx, tenantID, userID, window.Start, now)
	if err != nil {
		return nil, err
	}
	return DistributeMuscleVolume(records, window, s.exercises), nil
}

// Milestones tracks lifetime volume against the milestone table.
func (s *Service) Milestones(ctx context.Context, tenantID, userID string) (MilestoneProgress, error) {
	now := s.now()
	records, err := s.snapshot(ctx, tenantID, userID, time.Time{}, now)
	if err != nil {
		return MilestoneProgress{}, err
	}
	return TrackMilestones(LifetimeVolume(records, s.metric), s.milestones), nil
}

// Summary totals the recent activity window.
func (s *Service) Summary(ctx context.Context, tenantID, userID string) (ActivitySummary, error) {
	now := s.now()
	window := LastDays(now, s.summaryDays)
	records, err := s.snapshot(ctx, tenantID, userID, window.Start, now)
	if err != nil {
		return ActivitySummary{}, err
	}
	return Summarize(records, window, s.metric), nil
}

// Dashboard runs every reducer over a single lifetime snapshot.
func (s *Service) Dashboard(ctx context.Context, tenantID, userID string) (Dashboard, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(tenantID, userID); ok {
			return *cached, nil
		}
	}

	now := s.now()
	records, err := s.snapshot(ctx, tenantID, userID, time.Time{}, now)
	if err != nil {
		return Dashboard{}, err
	}
	dashboard := Compute(records, now, s.exercises, ComputeOptions{
		Calendar:    s.calendar,
		Metric:      s.metric,
		Milestones:  s.milestones,
		Overload:    s.overload,
		HeatMapDays: s.heatMapDays,
		SummaryDays: s.summaryDays,
	})

	if s.cache != nil {
		if err := s.cache.Set(tenantID, userID, dashboard); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"tenant_id": tenantID,
				"user_id":   userID,
			}).Warn("dashboard cache write failed")
		}
	}
	return dashboard, nil
}

// ComputeOptions carries the settings for Compute.
type ComputeOptions struct {
	Calendar    Calendar
	Metric      domain.VolumeMetric
	Milestones  []domain.Milestone
	Overload    OverloadOptions
	HeatMapDays int
	SummaryDays int
}

// Compute builds a Dashboard from an in-memory snapshot.
func Compute(records []domain.WorkoutRecord, now time.Time, lookup domain.ExerciseLookup, opts ComputeOptions) Dashboard {
	if opts.HeatMapDays <= 0 {
		opts.HeatMapDays = defaultHeatMapDays
	}
	if opts.SummaryDays <= 0 {
		opts.SummaryDays = defaultHeatMapDays
	}
	if len(opts.Milestones) == 0 {
		opts.Milestones = domain.DefaultMilestones
	}
	if opts.Calendar.Location == nil {
		opts.Calendar.Location = time.UTC
	}

	week, month := ComparePeriods(records, now, opts.Calendar, opts.Metric)
	return Dashboard{
		GeneratedAt: now,
		Volume:      VolumeStats{Week: week, Month: month},
		Overload:    ProgressiveOverload(records, now, lookup, opts.Overload),
		Muscles:     DistributeMuscleVolume(records, LastDays(now, opts.HeatMapDays), lookup),
		Milestones:  TrackMilestones(LifetimeVolume(records, opts.Metric), opts.Milestones),
		Summary:     Summarize(records, LastDays(now, opts.SummaryDays), opts.Metric),
	}
}
