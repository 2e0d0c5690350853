//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseBackend runs every store-backed command against one database backend.
func exerciseBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	catalogDir := writeCatalog(t)
	env := []string{
		"SCORECARDS_CACHE_BACKEND=" + backend,
		"SCORECARDS_CACHE_DB_CONNECT=" + connStr,
		"SCORECARDS_HISTORY_BACKEND=" + backend,
		"SCORECARDS_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runScorecards(t, env, "cache", "clear")
	require.NoError(t, err)

	_, err = runScorecards(t, env, "history", "clear")
	require.NoError(t, err)

	_, err = runScorecards(t, env, "history", "migrate")
	require.NoError(t, err)

	_, err = runScorecards(t, env, "services", catalogDir, "--limit", "5")
	require.NoError(t, err)

	_, err = runScorecards(t, env, "stats", catalogDir)
	require.NoError(t, err)

	out, err := runScorecards(t, env, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Connected: true")

	out, err = runScorecards(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 1")
}

// TestScorecardsWithMySQL tests the scorecards CLI with a MySQL backend.
func TestScorecardsWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "scorecards",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/scorecards?parseTime=true&multiStatements=true", host, port.Port())
	exerciseBackend(t, "mysql", connStr)
}

// TestScorecardsWithPostgres tests the scorecards CLI with a PostgreSQL backend.
func TestScorecardsWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseBackend(t, "postgresql", connStr)
}
