package store

// Schema v1 - the four corpus tables.
// Column names follow the published layout of the ASVspoof2017 database, so
// "group" stays quoted wherever it is used.
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Speakers
CREATE TABLE IF NOT EXISTS client (
  id TEXT PRIMARY KEY,
  gender TEXT NOT NULL DEFAULT 'undefined'
    CHECK (gender IN ('male', 'female', 'undefined')),
  "group" TEXT NOT NULL
    CHECK ("group" IN ('train', 'dev', 'eval'))
);

-- Partition schemes
CREATE TABLE IF NOT EXISTS protocol (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

-- Audio samples, path is relative to the samples directory and has no extension
CREATE TABLE IF NOT EXISTS file (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  client_id TEXT NOT NULL REFERENCES client(id),
  path TEXT UNIQUE NOT NULL,
  "group" TEXT NOT NULL
    CHECK ("group" IN ('train', 'dev', 'eval')),
  purpose TEXT NOT NULL
    CHECK (purpose IN ('genuine', 'spoof')),
  attacktype TEXT NOT NULL DEFAULT 'undefined'
    CHECK (attacktype IN ('undefined', 'unknown', 'spoof')),
  common_phrase TEXT NOT NULL DEFAULT 'undefined',
  environment TEXT NOT NULL DEFAULT 'undefined',
  playback_device TEXT NOT NULL DEFAULT 'undefined',
  recording_device TEXT NOT NULL DEFAULT 'undefined'
);

-- Many-to-many link between protocols and files
CREATE TABLE IF NOT EXISTS protocolfiles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  protocol_id INTEGER NOT NULL REFERENCES protocol(id),
  file_id INTEGER NOT NULL REFERENCES file(id)
);
`

// Schema v2 - link uniqueness and lookup indexes
const schemaV2 = `
-- A file is linked to a protocol at most once, so re-ingestion cannot duplicate links
CREATE UNIQUE INDEX IF NOT EXISTS idx_protocolfiles_pair ON protocolfiles(protocol_id, file_id);
CREATE INDEX IF NOT EXISTS idx_protocolfiles_file_id ON protocolfiles(file_id);

CREATE INDEX IF NOT EXISTS idx_file_client_id ON file(client_id);
CREATE INDEX IF NOT EXISTS idx_file_purpose_attack ON file(purpose, attacktype);
CREATE INDEX IF NOT EXISTS idx_client_group_gender ON client("group", gender);
`
