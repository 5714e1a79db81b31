package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

// setupTestDB creates a fresh database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	return database
}

func sampleScan() (ScanRecord, []ScanCount) {
	rec := ScanRecord{
		ScanUUID:    "11111111-2222-3333-4444-555555555555",
		WorldPath:   "/srv/worlds/main",
		Filters:     "minecraft:diamond",
		View:        "detailed",
		WorkerCount: 4,
		UnitCount:   12,
		TotalCount:  30,
		DurationMS:  150,
	}
	counts := []ScanCount{
		{Dimension: "overworld", SourceKind: "block_entity", ItemID: "minecraft:diamond", Count: 25},
		{Dimension: "the_nether", SourceKind: "entity", ItemID: "minecraft:diamond",
			NBT: sql.NullString{String: "{damage:3}", Valid: true}, Count: 5},
	}
	return rec, counts
}

func TestInsertScan_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	rec, counts := sampleScan()
	scanID, err := db.InsertScan(rec, counts)
	if err != nil {
		t.Fatalf("InsertScan() error = %v", err)
	}
	if scanID == 0 {
		t.Fatal("InsertScan() returned 0 scan ID")
	}

	got, err := db.GetScan(scanID)
	if err != nil {
		t.Fatalf("GetScan() error = %v", err)
	}
	if got.ScanUUID != rec.ScanUUID {
		t.Errorf("ScanUUID = %q, want %q", got.ScanUUID, rec.ScanUUID)
	}
	if got.WorldPath != rec.WorldPath {
		t.Errorf("WorldPath = %q, want %q", got.WorldPath, rec.WorldPath)
	}
	if got.TotalCount != 30 {
		t.Errorf("TotalCount = %d, want 30", got.TotalCount)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not populated")
	}

	gotCounts, err := db.GetScanCounts(scanID)
	if err != nil {
		t.Fatalf("GetScanCounts() error = %v", err)
	}
	if len(gotCounts) != 2 {
		t.Fatalf("len(counts) = %d, want 2", len(gotCounts))
	}
	// ordered by count descending
	if gotCounts[0].Count != 25 || gotCounts[0].Dimension != "overworld" {
		t.Errorf("counts[0] = %+v", gotCounts[0])
	}
	if !gotCounts[1].NBT.Valid || gotCounts[1].NBT.String != "{damage:3}" {
		t.Errorf("counts[1].NBT = %+v, want {damage:3}", gotCounts[1].NBT)
	}
}

func TestListScans(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	for i := 0; i < 3; i++ {
		rec, counts := sampleScan()
		rec.ScanUUID = rec.ScanUUID[:35] + string(rune('0'+i))
		if _, err := db.InsertScan(rec, counts); err != nil {
			t.Fatalf("InsertScan() error = %v", err)
		}
	}

	scans, err := db.ListScans(0)
	if err != nil {
		t.Fatalf("ListScans() error = %v", err)
	}
	if len(scans) != 3 {
		t.Fatalf("len(scans) = %d, want 3", len(scans))
	}
	// newest first
	if scans[0].ScanID < scans[1].ScanID {
		t.Errorf("scans not newest-first: %d before %d", scans[0].ScanID, scans[1].ScanID)
	}

	limited, err := db.ListScans(2)
	if err != nil {
		t.Fatalf("ListScans(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestGetScan_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetScan(999); err == nil {
		t.Error("GetScan(999) succeeded, want error")
	}
}

func TestOpenAt_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db1, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt() error = %v", err)
	}
	rec, counts := sampleScan()
	if _, err := db1.InsertScan(rec, counts); err != nil {
		t.Fatalf("InsertScan() error = %v", err)
	}
	db1.Close()

	db2, err := OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt() reopen error = %v", err)
	}
	defer db2.Close()

	scans, err := db2.ListScans(0)
	if err != nil {
		t.Fatalf("ListScans() error = %v", err)
	}
	if len(scans) != 1 {
		t.Errorf("len(scans) = %d after reopen, want 1", len(scans))
	}
}
