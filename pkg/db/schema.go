package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Scans: one row per completed world scan
CREATE TABLE IF NOT EXISTS scans (
    scan_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_uuid TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    world_path TEXT NOT NULL,
    filters TEXT,                 -- item filter args as given, space-joined; empty for --all
    view TEXT NOT NULL,           -- detailed, by-id, by-nbt
    worker_count INTEGER NOT NULL,
    unit_count INTEGER NOT NULL,  -- scan units processed
    total_count INTEGER NOT NULL, -- grand total of matched items
    duration_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_scans_world ON scans(world_path);

-- Scan counts: the detailed breakdown of a scan, one row per
-- (dimension, source kind, item id, signature) bucket
CREATE TABLE IF NOT EXISTS scan_counts (
    count_id INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id INTEGER NOT NULL,
    dimension TEXT NOT NULL,
    source_kind TEXT NOT NULL,    -- block_entity, entity, player
    item_id TEXT NOT NULL,
    nbt TEXT,                     -- canonical SNBT; NULL when the item has no components
    count INTEGER NOT NULL,
    FOREIGN KEY (scan_id) REFERENCES scans(scan_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scan_counts_scan ON scan_counts(scan_id);
CREATE INDEX IF NOT EXISTS idx_scan_counts_item ON scan_counts(item_id);
`
