package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"example.com/trainingstats/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg := Load()
	require.Equal(t, ":8080", cfg.HTTPAddress)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 25, cfg.OutboxBatchSize)
	require.Equal(t, domain.MetricWeightTimesReps, cfg.VolumeMetric)
	require.Equal(t, time.Monday, cfg.FirstWeekday)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("OUTBOX_POLL_INTERVAL", "250ms")
	t.Setenv("VOLUME_METRIC", "weight")
	t.Setenv("FIRST_WEEKDAY", "Sunday")
	t.Setenv("LOG_JSON", "false")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TZ_NAME", "Europe/Berlin")

	cfg := Load()
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	require.Equal(t, domain.MetricWeightOnly, cfg.VolumeMetric)
	require.Equal(t, time.Sunday, cfg.FirstWeekday)
	require.False(t, cfg.LogJSON)
	require.Equal(t, "debug", cfg.LogLevel)

	calendar, err := cfg.Calendar()
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", calendar.Location.String())
	require.Equal(t, time.Sunday, calendar.FirstWeekday)
}

func TestCalendarRejectsUnknownZone(t *testing.T) {
	_, err := Config{TimeZone: "Nowhere/Special"}.Calendar()
	require.Error(t, err)
}

func TestLoadDotEnvKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRAININGSTATS_TEST_A=from-file\nTRAININGSTATS_TEST_B=from-file\n"), 0o600))

	t.Setenv("TRAININGSTATS_TEST_A", "from-env")
	t.Setenv("TRAININGSTATS_TEST_B", "")
	require.NoError(t, os.Unsetenv("TRAININGSTATS_TEST_B"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))
	require.Equal(t, "from-env", os.Getenv("TRAININGSTATS_TEST_A"))
	require.Equal(t, "from-file", os.Getenv("TRAININGSTATS_TEST_B"))
}

func TestParseMilestones(t *testing.T) {
	table, err := ParseMilestones(`
[[milestone]]
name = "Dog"
weight = 100

[[milestone]]
name = "Lion"
weight = 200
emoji = "🦁"

[[milestone]]
name = "Piano"
weight = 500
`)
	require.NoError(t, err)
	require.Len(t, table, 3)
	require.Equal(t, "Lion", table[1].Name)
	require.Equal(t, 500.0, table[2].Weight)

	_, err = ParseMilestones(`
[[milestone]]
name = "Big"
weight = 500

[[milestone]]
name = "Small"
weight = 100
`)
	require.Error(t, err)

	_, err = ParseMilestones(`milestone = "nope"`)
	require.Error(t, err)
}

func TestMilestonesFromFile(t *testing.T) {
	cfg := Config{}
	table, err := cfg.Milestones()
	require.NoError(t, err)
	require.Equal(t, domain.DefaultMilestones, table)

	path := filepath.Join(t.TempDir(), "milestones.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[milestone]]\nname = \"Cat\"\nweight = 5\n"), 0o600))
	cfg.MilestonesFile = path
	table, err = cfg.Milestones()
	require.NoError(t, err)
	require.Equal(t, []domain.Milestone{{Name: "Cat", Weight: 5}}, table)
}
