package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/benchgrid/internal/contract"
	"github.com/huangsam/benchgrid/schema"
)

// Table names for render history.
const (
	renderRunsTable     = "benchgrid_render_runs"
	renderSectionsTable = "benchgrid_render_sections"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{renderRunsTable, renderSectionsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		// No-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, err := openSQL(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the render history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		renderRunsTable:     renderRunsDDL(backend),
		renderSectionsTable: renderSectionsDDL(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// renderRunsDDL returns the CREATE TABLE query for benchgrid_render_runs.
func renderRunsDDL(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(renderRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				run_uuid CHAR(36) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				source VARCHAR(1024) NOT NULL,
				grouping_mode VARCHAR(32) NOT NULL,
				scaling_mode VARCHAR(32) NOT NULL,
				row_order VARCHAR(32) NOT NULL,
				report_count INT,
				section_count INT,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				run_uuid TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				source TEXT NOT NULL,
				grouping_mode TEXT NOT NULL,
				scaling_mode TEXT NOT NULL,
				row_order TEXT NOT NULL,
				report_count INT,
				section_count INT,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				run_uuid TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				source TEXT NOT NULL,
				grouping_mode TEXT NOT NULL,
				scaling_mode TEXT NOT NULL,
				row_order TEXT NOT NULL,
				report_count INTEGER,
				section_count INTEGER,
				config_params TEXT
			);
		`, quoted)
	}
}

// renderSectionsDDL returns the CREATE TABLE query for benchgrid_render_sections.
func renderSectionsDDL(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(renderSectionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				section_index INT NOT NULL,
				title VARCHAR(512) NOT NULL,
				row_count INT NOT NULL,
				max_latency DOUBLE NOT NULL,
				max_requests BIGINT NOT NULL,
				show_axis TINYINT NOT NULL,
				PRIMARY KEY (run_id, section_index)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				section_index INT NOT NULL,
				title TEXT NOT NULL,
				row_count INT NOT NULL,
				max_latency DOUBLE PRECISION NOT NULL,
				max_requests BIGINT NOT NULL,
				show_axis SMALLINT NOT NULL,
				PRIMARY KEY (run_id, section_index)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				section_index INTEGER NOT NULL,
				title TEXT NOT NULL,
				row_count INTEGER NOT NULL,
				max_latency REAL NOT NULL,
				max_requests INTEGER NOT NULL,
				show_axis INTEGER NOT NULL,
				PRIMARY KEY (run_id, section_index)
			);
		`, quoted)
	}
}

// params returns n backend-specific bind parameters joined by commas.
func (hs *HistoryStoreImpl) params(n int) string {
	out := ""
	for i := 1; i <= n; i++ {
		if i > 1 {
			out += ", "
		}
		out += placeholder(hs.backend, i)
	}
	return out
}

// BeginRun creates a new render run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, params schema.RunParams) (int64, error) {
	if hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(params.Config)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(renderRunsTable, hs.backend)
	columns := "run_uuid, start_time, source, grouping_mode, scaling_mode, row_order, config_params"
	args := []any{
		uuid.NewString(), formatTime(startTime, hs.backend), params.Source,
		string(params.Grouping), string(params.Scaling), string(params.RowOrder), string(configJSON),
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING run_id`, quoted, columns, hs.params(len(args)))
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quoted, columns, hs.params(len(args)))
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert render run: %w", err)
	}
	return runID, nil
}

// RecordSection stores the summary of one built section.
func (hs *HistoryStoreImpl) RecordSection(runID int64, index int, section schema.Section) error {
	if hs.db == nil {
		return nil
	}

	showAxis := 0
	if section.ShowAxis {
		showAxis = 1
	}

	query := fmt.Sprintf(`INSERT INTO %s (run_id, section_index, title, row_count, max_latency, max_requests, show_axis) VALUES (%s)`,
		quoteTableName(renderSectionsTable, hs.backend), hs.params(7))
	_, err := hs.db.Exec(query, runID, index, section.Title, len(section.Rows),
		section.Scale.MaxLatency, section.Scale.MaxRequests, showAxis)
	if err != nil {
		return fmt.Errorf("failed to insert render section: %w", err)
	}
	return nil
}

// EndRun updates the render run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, reportCount, sectionCount int) error {
	if hs.db == nil {
		return nil
	}

	quoted := quoteTableName(renderRunsTable, hs.backend)

	var raw any
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, placeholder(hs.backend, 1))
	if err := hs.db.QueryRow(query, runID).Scan(&raw); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := scanTime(hs.backend, raw)
	if err != nil {
		return fmt.Errorf("failed to parse start_time: %w", err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, report_count = %s, section_count = %s WHERE run_id = %s`,
		quoted,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3),
		placeholder(hs.backend, 4), placeholder(hs.backend, 5))
	if _, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, reportCount, sectionCount, runID); err != nil {
		return fmt.Errorf("failed to update render run: %w", err)
	}
	return nil
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
	if hs.db == nil {
		return status, nil
	}

	runs := quoteTableName(renderRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRaw, oldestRaw any
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs))
		if err := row.Scan(&status.LastRunID, &lastRaw); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs))
		if err := row.Scan(&oldestRaw); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		var err error
		if status.LastRunTime, err = scanTime(hs.backend, lastRaw); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = scanTime(hs.backend, oldestRaw); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}
	}

	for _, table := range historyTables {
		var count int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(query).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSections = int(status.TableSizes[renderSectionsTable])

	return status, nil
}

// GetAllRuns retrieves all render runs, oldest first.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RenderRunRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, start_time, end_time, run_duration_ms, source,
		grouping_mode, scaling_mode, row_order, report_count, section_count, config_params
		FROM %s ORDER BY run_id`, quoteTableName(renderRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query render runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RenderRunRecord
	for rows.Next() {
		var record schema.RenderRunRecord
		var startRaw, endRaw any
		if err := rows.Scan(&record.RunID, &record.RunUUID, &startRaw, &endRaw, &record.DurationMs, &record.Source,
			&record.Grouping, &record.Scaling, &record.RowOrder, &record.ReportCount, &record.SectionCount,
			&record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan render run: %w", err)
		}

		if record.StartTime, err = scanTime(hs.backend, startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := scanTime(hs.backend, endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			record.EndTime = &endTime
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render runs: %w", err)
	}
	return results, nil
}

// GetAllSections retrieves all recorded sections ordered by run and index.
func (hs *HistoryStoreImpl) GetAllSections() ([]schema.SectionRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, section_index, title, row_count, max_latency, max_requests, show_axis
		FROM %s ORDER BY run_id, section_index`, quoteTableName(renderSectionsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query render sections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SectionRecord
	for rows.Next() {
		var record schema.SectionRecord
		var showAxis int
		if err := rows.Scan(&record.RunID, &record.SectionIndex, &record.Title, &record.RowCount,
			&record.MaxLatency, &record.MaxRequests, &showAxis); err != nil {
			return nil, fmt.Errorf("failed to scan render section: %w", err)
		}
		record.ShowAxis = showAxis != 0
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating render sections: %w", err)
	}
	return results, nil
}
