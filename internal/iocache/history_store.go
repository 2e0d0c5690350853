package iocache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/scorecards/internal/contract"
	"github.com/huangsam/scorecards/schema"
)

// Table names for history tracking.
const (
	historyRunsTable     = "scorecards_history_runs"
	historyAdoptionTable = "scorecards_history_adoption"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{historyRunsTable, getCreateHistoryRunsQuery(backend)},
		{historyAdoptionTable, getCreateHistoryAdoptionQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateHistoryRunsQuery returns the CREATE TABLE query for the runs table.
func getCreateHistoryRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(historyRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) PRIMARY KEY,
				recorded_at BIGINT NOT NULL,
				catalog_path TEXT NOT NULL,
				checks_hash VARCHAR(255) NOT NULL,
				total_services INT NOT NULL,
				average_score DOUBLE NOT NULL,
				platinum INT NOT NULL,
				gold INT NOT NULL,
				silver INT NOT NULL,
				bronze INT NOT NULL,
				stale INT NOT NULL,
				installed INT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				recorded_at BIGINT NOT NULL,
				catalog_path TEXT NOT NULL,
				checks_hash TEXT NOT NULL,
				total_services INT NOT NULL,
				average_score DOUBLE PRECISION NOT NULL,
				platinum INT NOT NULL,
				gold INT NOT NULL,
				silver INT NOT NULL,
				bronze INT NOT NULL,
				stale INT NOT NULL,
				installed INT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				recorded_at INTEGER NOT NULL,
				catalog_path TEXT NOT NULL,
				checks_hash TEXT NOT NULL,
				total_services INTEGER NOT NULL,
				average_score REAL NOT NULL,
				platinum INTEGER NOT NULL,
				gold INTEGER NOT NULL,
				silver INTEGER NOT NULL,
				bronze INTEGER NOT NULL,
				stale INTEGER NOT NULL,
				installed INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateHistoryAdoptionQuery returns the CREATE TABLE query for the adoption table.
func getCreateHistoryAdoptionQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(historyAdoptionTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(36) NOT NULL,
				check_id VARCHAR(255) NOT NULL,
				passing INT NOT NULL,
				failing INT NOT NULL,
				excluded INT NOT NULL,
				adoption_rate DOUBLE NOT NULL,
				PRIMARY KEY (run_id, check_id)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				check_id TEXT NOT NULL,
				passing INT NOT NULL,
				failing INT NOT NULL,
				excluded INT NOT NULL,
				adoption_rate DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, check_id)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				check_id TEXT NOT NULL,
				passing INTEGER NOT NULL,
				failing INTEGER NOT NULL,
				excluded INTEGER NOT NULL,
				adoption_rate REAL NOT NULL,
				PRIMARY KEY (run_id, check_id)
			);
		`, quotedTableName)
	}
}

// placeholders returns n parameter placeholders for the backend, starting at $1 for PostgreSQL.
func placeholders(backend schema.DatabaseBackend, n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		if backend == schema.PostgreSQLBackend {
			out += fmt.Sprintf("$%d", i)
		} else {
			out += "?"
		}
	}
	return out
}

// RecordRun stores one snapshot and its adoption rows in a single transaction.
// An empty RunID is replaced with a fresh UUID and a zero RecordedAt with the current time.
func (hs *HistoryStoreImpl) RecordRun(run schema.HistoryRun, adoption []schema.HistoryAdoption) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now()
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	runQuery := fmt.Sprintf(`INSERT INTO %s (run_id, recorded_at, catalog_path, checks_hash, total_services,
		average_score, platinum, gold, silver, bronze, stale, installed) VALUES (%s)`,
		quoteTableName(historyRunsTable, hs.backend), placeholders(hs.backend, 12))
	if _, err := tx.Exec(runQuery,
		run.RunID, run.RecordedAt.Unix(), run.CatalogPath, run.ChecksHash, run.TotalServices,
		run.AverageScore, run.Platinum, run.Gold, run.Silver, run.Bronze, run.Stale, run.Installed,
	); err != nil {
		return fmt.Errorf("failed to insert history run: %w", err)
	}

	adoptionQuery := fmt.Sprintf(`INSERT INTO %s (run_id, check_id, passing, failing, excluded, adoption_rate) VALUES (%s)`,
		quoteTableName(historyAdoptionTable, hs.backend), placeholders(hs.backend, 6))
	for _, a := range adoption {
		if _, err := tx.Exec(adoptionQuery, run.RunID, a.CheckID, a.Passing, a.Failing, a.Excluded, a.AdoptionRate); err != nil {
			return fmt.Errorf("failed to insert adoption for check %s: %w", a.CheckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history run: %w", err)
	}
	return nil
}

// GetAllRuns retrieves all runs from the store, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.HistoryRun, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, recorded_at, catalog_path, checks_hash, total_services, average_score,
		platinum, gold, silver, bronze, stale, installed FROM %s ORDER BY recorded_at, run_id`,
		quoteTableName(historyRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryRun
	for rows.Next() {
		var run schema.HistoryRun
		var recordedAt int64
		if err := rows.Scan(&run.RunID, &recordedAt, &run.CatalogPath, &run.ChecksHash, &run.TotalServices,
			&run.AverageScore, &run.Platinum, &run.Gold, &run.Silver, &run.Bronze, &run.Stale, &run.Installed); err != nil {
			return nil, fmt.Errorf("failed to scan history run: %w", err)
		}
		run.RecordedAt = time.Unix(recordedAt, 0)
		results = append(results, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history runs: %w", err)
	}
	return results, nil
}

// GetAllAdoption retrieves all per-check adoption rows from the store.
func (hs *HistoryStoreImpl) GetAllAdoption() ([]schema.HistoryAdoption, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, check_id, passing, failing, excluded, adoption_rate FROM %s ORDER BY run_id, check_id`,
		quoteTableName(historyAdoptionTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history adoption: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HistoryAdoption
	for rows.Next() {
		var a schema.HistoryAdoption
		if err := rows.Scan(&a.RunID, &a.CheckID, &a.Passing, &a.Failing, &a.Excluded, &a.AdoptionRate); err != nil {
			return nil, fmt.Errorf("failed to scan history adoption: %w", err)
		}
		results = append(results, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history adoption: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(historyRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastTs, oldestTs int64
		lastQuery := fmt.Sprintf("SELECT run_id, recorded_at FROM %s ORDER BY recorded_at DESC, run_id DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &lastTs); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = time.Unix(lastTs, 0)

		oldestQuery := fmt.Sprintf("SELECT MIN(recorded_at) FROM %s", runsTable)
		if err := hs.db.QueryRow(oldestQuery).Scan(&oldestTs); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = time.Unix(oldestTs, 0)
	}

	for _, table := range []string{historyRunsTable, historyAdoptionTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}
