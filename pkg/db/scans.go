package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ScanRecord represents one persisted scan.
type ScanRecord struct {
	ScanID      int64
	ScanUUID    string
	CreatedAt   time.Time
	WorldPath   string
	Filters     string
	View        string
	WorkerCount int
	UnitCount   int
	TotalCount  int64
	DurationMS  int64
}

// ScanCount represents one aggregation bucket of a persisted scan.
type ScanCount struct {
	Dimension  string
	SourceKind string
	ItemID     string
	NBT        sql.NullString
	Count      int64
}

// InsertScan inserts a scan record and its count rows in one transaction,
// returning the new scan_id.
func (db *DB) InsertScan(rec ScanRecord, counts []ScanCount) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO scans (scan_uuid, world_path, filters, view, worker_count, unit_count, total_count, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ScanUUID, rec.WorldPath, rec.Filters, rec.View, rec.WorkerCount, rec.UnitCount, rec.TotalCount, rec.DurationMS)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO scan_counts (scan_id, dimension, source_kind, item_id, nbt, count)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare count insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range counts {
		if _, err := stmt.Exec(scanID, c.Dimension, c.SourceKind, c.ItemID, c.NBT, c.Count); err != nil {
			return 0, fmt.Errorf("failed to insert scan count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}
	return scanID, nil
}

// ListScans returns the most recent scans, newest first. limit <= 0 means
// no limit.
func (db *DB) ListScans(limit int) ([]ScanRecord, error) {
	query := `
		SELECT scan_id, scan_uuid, created_at, world_path, filters, view, worker_count, unit_count, total_count, duration_ms
		FROM scans
		ORDER BY created_at DESC, scan_id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scans: %w", err)
	}
	defer rows.Close()

	var scans []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		err := rows.Scan(&rec.ScanID, &rec.ScanUUID, &rec.CreatedAt, &rec.WorldPath, &rec.Filters,
			&rec.View, &rec.WorkerCount, &rec.UnitCount, &rec.TotalCount, &rec.DurationMS)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		scans = append(scans, rec)
	}

	return scans, rows.Err()
}

// GetScan returns one scan by its numeric ID.
func (db *DB) GetScan(scanID int64) (*ScanRecord, error) {
	var rec ScanRecord
	err := db.QueryRow(`
		SELECT scan_id, scan_uuid, created_at, world_path, filters, view, worker_count, unit_count, total_count, duration_ms
		FROM scans
		WHERE scan_id = ?
	`, scanID).Scan(&rec.ScanID, &rec.ScanUUID, &rec.CreatedAt, &rec.WorldPath, &rec.Filters,
		&rec.View, &rec.WorkerCount, &rec.UnitCount, &rec.TotalCount, &rec.DurationMS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan %d not found", scanID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan: %w", err)
	}
	return &rec, nil
}

// GetScanCounts returns the count rows of one scan in a stable order.
func (db *DB) GetScanCounts(scanID int64) ([]ScanCount, error) {
	rows, err := db.Query(`
		SELECT dimension, source_kind, item_id, nbt, count
		FROM scan_counts
		WHERE scan_id = ?
		ORDER BY count DESC, item_id, nbt
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan counts: %w", err)
	}
	defer rows.Close()

	var counts []ScanCount
	for rows.Next() {
		var c ScanCount
		if err := rows.Scan(&c.Dimension, &c.SourceKind, &c.ItemID, &c.NBT, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count row: %w", err)
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}
