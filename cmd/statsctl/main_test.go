package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/trainingstats/internal/auth"
)

const exportDoc = `{
  "version": 1,
  "workouts": [
    {"id": "a", "start": "2024-02-20T09:00:00Z", "end": "2024-02-20T10:00:00Z",
     "exercises": [{"exercise_id": "5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a01",
                    "sets": [{"weight": 80, "repetitions": 5, "completed": true}]}]},
    {"id": "b", "start": "2024-03-05T09:00:00Z", "end": "2024-03-05T10:00:00Z",
     "exercises": [{"exercise_id": "5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a01",
                    "sets": [{"weight": 100, "repetitions": 5, "completed": true}]}]},
    {"id": "c", "start": "2024-03-12T09:00:00Z", "end": "2024-03-12T10:00:00Z",
     "exercises": [{"exercise_id": "5a9ebf5f-8ae5-4a0f-9d6b-1f0d1c2e7a01",
                    "sets": [{"weight": 100, "repetitions": 5, "completed": true},
                             {"weight": 100, "repetitions": 5, "completed": true}]}]}
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReportCommand(t *testing.T) {
	path := writeFile(t, "export.json", exportDoc)

	out, err := execute(t, "report", "--file", path, "--now", "2024-03-13T12:00:00Z")
	require.NoError(t, err)
	require.Contains(t, out, "Bench Press")
	require.Contains(t, out, "+25.0% PR")
	require.Contains(t, out, "+100.0%")
	require.Contains(t, out, "1900 kg")
	require.Contains(t, out, "Hippo")
	require.Regexp(t, `chest\s+2\s+100%`, out)
}

func TestReportCommandJSON(t *testing.T) {
	path := writeFile(t, "export.json", exportDoc)

	out, err := execute(t, "report", "--file", path, "--now", "2024-03-13T12:00:00Z", "--metric", "weight", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"generated_at": "2024-03-13T12:00:00Z"`)
	require.Contains(t, out, `"total": 380`)
}

func TestReportCommandErrors(t *testing.T) {
	_, err := execute(t, "report")
	require.Error(t, err)

	path := writeFile(t, "export.json", exportDoc)
	_, err = execute(t, "report", "--file", path, "--now", "yesterday")
	require.ErrorContains(t, err, "invalid --now")

	_, err = execute(t, "report", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestMilestonesCommand(t *testing.T) {
	table := writeFile(t, "milestones.toml", `
[[milestone]]
name = "Dog"
weight = 100

[[milestone]]
name = "Lion"
weight = 200

[[milestone]]
name = "Piano"
weight = 500
`)

	out, err := execute(t, "milestones", "--total", "250", "--table", table)
	require.NoError(t, err)
	require.Regexp(t, `ACHIEVED\s+2`, out)
	require.Contains(t, out, "Piano (500 kg)")
	require.Regexp(t, `PROGRESS\s+16\.7%`, out)

	out, err = execute(t, "milestones", "--total", "1000", "--table", table)
	require.NoError(t, err)
	require.NotContains(t, out, "NEXT")
	require.Regexp(t, `PROGRESS\s+100\.0%`, out)

	_, err = execute(t, "milestones", "--total", "-1")
	require.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("JWT_ISSUER", "cli-issuer")

	out, err := execute(t, "token", "--subject", "alice", "--tenant", "t1", "--scopes", "stats:read", "--ttl", "5m")
	require.NoError(t, err)

	claims, err := auth.Parse(strings.TrimSpace(out), auth.Config{Secret: "cli-secret", Issuer: "cli-issuer"})
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Subject)
	require.True(t, claims.HasScope(auth.ScopeStatsRead))
	require.WithinDuration(t, time.Now().Add(5*time.Minute), claims.ExpiresAt, time.Minute)
}
