package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/scorecards/internal/fixture"
	"github.com/huangsam/scorecards/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type warning struct {
	msg string
	err error
}

func newTestLoader(t *testing.T) (*Loader, *[]warning) {
	t.Helper()
	var warnings []warning
	l := NewLoader(2)
	l.Warn = func(msg string, err error) { warnings = append(warnings, warning{msg, err}) }
	return l, &warnings
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadFixtureCatalog(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteCatalog(dir))

	l, warnings := newTestLoader(t)
	catalog, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, *warnings)

	assert.Equal(t, fixture.CurrentHash, catalog.CurrentHash)
	assert.Equal(t, fixture.Checks(), catalog.Checks)
	assert.Equal(t, fixture.Teams(), catalog.Teams)
	assert.Equal(t, time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), catalog.GeneratedAt)
	assert.Equal(t, fixture.Services(), catalog.Services)
}

func TestLoadNormalizesTeamShapes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteCatalog(dir))

	l, _ := newTestLoader(t)
	catalog, err := l.Load(context.Background(), dir)
	require.NoError(t, err)

	byName := map[string]schema.Service{}
	for _, s := range catalog.Services {
		byName[s.Name] = s
	}
	assert.Equal(t, schema.TeamID("platform"), byName["test-repo-stale"].Team)
	assert.Equal(t, schema.TeamID("platform"), byName["test-repo-perfect"].Team)
	assert.Equal(t, schema.TeamID("frontend"), byName["test-repo-javascript"].Team)
	assert.Equal(t, schema.NoTeam, byName["test-repo-minimal"].Team)
}

func TestLoadFoldsStatusesAndExclusions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RegistryFile), `{
  "checks_hash": "abc",
  "services": [{
    "org": "acme", "repo": "svc", "score": 95, "rank": "gold",
    "team": {"all": ["", "Data"]},
    "check_results": {"readme": "pass", "license": "error", "ci-workflow": "skipped", "zz-custom": "weird"},
    "excluded_checks": [{"check": "codeowners", "reason": "monorepo"}],
    "last_updated": "not-a-time"
  }]
}`)
	writeFile(t, filepath.Join(dir, ChecksFile), `{"checks": [
  {"id": "readme", "name": "README", "category": "documentation", "weight": 10},
  {"id": "license", "name": "License", "category": "documentation", "weight": 5},
  {"id": "ci-workflow", "name": "CI", "category": "ci", "weight": 10},
  {"id": "codeowners", "name": "CODEOWNERS", "category": "ownership", "weight": 5}
]}`)

	l, warnings := newTestLoader(t)
	catalog, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, catalog.Services, 1)

	s := catalog.Services[0]
	assert.Equal(t, "abc", catalog.CurrentHash)
	assert.Equal(t, "svc", s.Name)
	assert.Equal(t, schema.RankPlatinum, s.Rank)
	assert.Equal(t, schema.TeamID("data"), s.Team)
	assert.Equal(t, "Data", s.TeamName)
	assert.True(t, s.LastUpdated.IsZero())
	assert.Nil(t, catalog.Teams)

	var ids []string
	for _, c := range s.Checks {
		ids = append(ids, c.CheckID)
	}
	assert.Equal(t, []string{"readme", "license", "ci-workflow", "codeowners", "zz-custom"}, ids)
	assert.Equal(t, schema.StatusPass, s.Checks[0].Status)
	assert.Equal(t, schema.StatusFail, s.Checks[1].Status)
	assert.Equal(t, schema.StatusFail, s.Checks[2].Status)
	assert.Equal(t, schema.StatusExcluded, s.Checks[3].Status)
	assert.Equal(t, "monorepo", s.Checks[3].ExclusionReason)
	assert.Equal(t, "ownership", s.Checks[3].Category)
	assert.Equal(t, schema.StatusFail, s.Checks[4].Status)
	assert.Empty(t, s.Checks[4].Category)

	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0].msg, "rank mismatch for acme/svc")
}

func TestLoadMergesResultsDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RegistryFile), `{"services": [
  {"org": "acme", "repo": "one", "score": 60, "check_results": {"readme": "fail"}},
  {"org": "acme", "repo": "two", "score": 40}
]}`)
	writeFile(t, filepath.Join(dir, CurrentChecksFile), `{"checks_hash": "h2"}`)
	writeFile(t, filepath.Join(dir, ResultsDir, "acme", "one", ResultsFile), `{
  "checks_hash": "h2",
  "last_updated": "2026-02-01T00:00:00Z",
  "checks": [
    {"check_id": "readme", "name": "README", "category": "documentation", "weight": 10, "status": "pass"},
    {"check_id": "api-spec", "name": "API", "category": "api", "weight": 10, "status": "pass"}
  ]
}`)
	writeFile(t, filepath.Join(dir, ResultsDir, "acme", "two", ResultsFile), `{not json`)

	l, warnings := newTestLoader(t)
	catalog, err := l.Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, catalog.Services, 2)

	one := catalog.Services[0]
	assert.Equal(t, "h2", one.ChecksHash)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), one.LastUpdated)
	assert.True(t, one.HasAPI)
	readme, ok := one.Check("readme")
	require.True(t, ok)
	// check_results from the registry win over the detailed list.
	assert.Equal(t, schema.StatusFail, readme.Status)
	assert.Equal(t, "documentation", readme.Category)

	two := catalog.Services[1]
	assert.Empty(t, two.Checks)
	assert.False(t, two.HasAPI)

	require.Len(t, *warnings, 1)
	assert.Contains(t, (*warnings)[0].msg, "skipping results for acme/two")
}

func TestLoadErrors(t *testing.T) {
	l, _ := newTestLoader(t)

	_, err := l.Load(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, RegistryFile), `{"services": []}`)
	writeFile(t, filepath.Join(dir, ChecksFile), `[`)
	_, err = l.Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestLoadHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteCatalog(dir))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l, _ := newTestLoader(t)
	_, err := l.Load(ctx, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, fixture.WriteCatalog(dir))

	l, _ := newTestLoader(t)
	first, err := l.Fingerprint(dir)
	require.NoError(t, err)
	assert.Contains(t, first, RegistryFile)

	again, err := l.Fingerprint(dir)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	writeFile(t, filepath.Join(dir, ResultsDir, fixture.Org, "test-repo-python", ResultsFile), `{}`)
	changed, err := l.Fingerprint(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	_, err = l.Fingerprint(t.TempDir())
	assert.Error(t, err)
}
