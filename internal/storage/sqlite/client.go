package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/dengue-kg/backend/internal/storage/models"
	"github.com/dengue-kg/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	_, err = db.Exec("PRAGMA journal_mode = WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS link_runs (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		categories_processed INTEGER NOT NULL,
		categories_failed INTEGER NOT NULL,
		entities_seen INTEGER NOT NULL,
		links_created INTEGER NOT NULL,
		unmatchable INTEGER NOT NULL,
		write_failures INTEGER NOT NULL,
		status TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_link_runs_started ON link_runs(started_at);

	CREATE TABLE IF NOT EXISTS coverage_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		category TEXT NOT NULL,
		total INTEGER NOT NULL,
		linked INTEGER NOT NULL,
		coverage_pct REAL NOT NULL,
		FOREIGN KEY (run_id) REFERENCES link_runs(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_coverage_run ON coverage_snapshots(run_id);
	`

	_, err := c.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func (c *Client) InsertRun(run *models.LinkRun) error {
	_, err := c.db.Exec(`
		INSERT INTO link_runs (
			id, started_at, finished_at, categories_processed,
			categories_failed, entities_seen, links_created, unmatchable,
			write_failures, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
		run.CategoriesProcessed,
		run.CategoriesFailed,
		run.EntitiesSeen,
		run.LinksCreated,
		run.Unmatchable,
		run.WriteFailures,
		run.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert link run: %w", err)
	}

	return nil
}

func (c *Client) InsertCoverageSnapshots(runID string, snapshots []models.CoverageSnapshot) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO coverage_snapshots (run_id, category, total, linked, coverage_pct)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	for _, snap := range snapshots {
		if _, err := stmt.Exec(runID, snap.Category, snap.Total, snap.Linked, snap.CoveragePct); err != nil {
			return fmt.Errorf("failed to insert coverage snapshot: %w", err)
		}
	}

	return tx.Commit()
}

func (c *Client) GetRecentRuns(limit int) ([]models.LinkRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := c.db.Query(`
		SELECT id, started_at, finished_at, categories_processed,
		       categories_failed, entities_seen, links_created, unmatchable,
		       write_failures, status
		FROM link_runs
		ORDER BY started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query link runs: %w", err)
	}
	defer rows.Close()

	var runs []models.LinkRun
	for rows.Next() {
		var run models.LinkRun
		var started, finished int64
		err := rows.Scan(
			&run.ID, &started, &finished, &run.CategoriesProcessed,
			&run.CategoriesFailed, &run.EntitiesSeen, &run.LinksCreated,
			&run.Unmatchable, &run.WriteFailures, &run.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link run: %w", err)
		}
		run.StartedAt = timeFromUnix(started)
		run.FinishedAt = timeFromUnix(finished)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (c *Client) GetCoverageSnapshots(runID string) ([]models.CoverageSnapshot, error) {
	rows, err := c.db.Query(`
		SELECT id, run_id, category, total, linked, coverage_pct
		FROM coverage_snapshots
		WHERE run_id = ?
		ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query coverage snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.CoverageSnapshot
	for rows.Next() {
		var snap models.CoverageSnapshot
		err := rows.Scan(&snap.ID, &snap.RunID, &snap.Category, &snap.Total, &snap.Linked, &snap.CoveragePct)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coverage snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, rows.Err()
}

func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
