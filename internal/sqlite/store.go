package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"world-travel-router/internal/database"

	_ "modernc.org/sqlite"
)

const (
	DefaultDBFileName = "data.db"
	schemaVersion     = 2
)

// Store is a SQLite-based data store implementing database.DataStore
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex

	cityRepo          database.CityRepository
	neighborCacheRepo database.NeighborCacheRepository
	journeyRepo       database.JourneyRepository
}

// New creates a new SQLite store at the specified path
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	log.Printf("[SQLITE] Opening database at: %s", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -64000", // 64MB cache
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	store.cityRepo = &cityRepository{store: store}
	store.neighborCacheRepo = &neighborCacheRepository{store: store}
	store.journeyRepo = &journeyRepository{store: store}

	return store, nil
}

// GetDBPath returns the current database file path
func (s *Store) GetDBPath() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		// Table doesn't exist, create everything
		return s.createSchema()
	}

	if version < schemaVersion {
		if err := s.runMigrations(version); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) createSchema() error {
	schema := `
	-- Schema version tracking
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY
	);
	INSERT INTO schema_version (version) VALUES (2);

	-- Active city table, position is the index neighbor lists refer to
	CREATE TABLE IF NOT EXISTS cities (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		lookup_key TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL,
		population INTEGER NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL
	);

	-- Neighbor index headers
	CREATE TABLE IF NOT EXISTS neighbor_indexes (
		fingerprint TEXT PRIMARY KEY,
		city_count INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Ranked neighbor entries
	CREATE TABLE IF NOT EXISTS neighbor_cache (
		fingerprint TEXT NOT NULL,
		city_index INTEGER NOT NULL,
		rank INTEGER NOT NULL,
		neighbor_index INTEGER NOT NULL,
		distance_km REAL NOT NULL,
		PRIMARY KEY (fingerprint, city_index, rank),
		FOREIGN KEY (fingerprint) REFERENCES neighbor_indexes(fingerprint) ON DELETE CASCADE
	);

	-- Journeys
	CREATE TABLE IF NOT EXISTS journeys (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		start_city TEXT NOT NULL,
		start_country TEXT NOT NULL,
		max_days REAL NOT NULL,
		cities_count INTEGER NOT NULL DEFAULT 0,
		total_hours INTEGER NOT NULL DEFAULT 0,
		total_days REAL NOT NULL DEFAULT 0,
		complete INTEGER NOT NULL DEFAULT 0,
		reason TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);

	-- Journey hops
	CREATE TABLE IF NOT EXISTS journey_hops (
		journey_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		from_city TEXT NOT NULL,
		to_city TEXT NOT NULL,
		from_lat REAL NOT NULL,
		from_lng REAL NOT NULL,
		to_lat REAL NOT NULL,
		to_lng REAL NOT NULL,
		rank INTEGER NOT NULL,
		hours INTEGER NOT NULL,
		distance_km REAL NOT NULL,
		PRIMARY KEY (journey_id, seq),
		FOREIGN KEY (journey_id) REFERENCES journeys(id) ON DELETE CASCADE
	);

	-- Indexes for common queries
	CREATE INDEX IF NOT EXISTS idx_cities_name ON cities(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_cities_lookup_key ON cities(lookup_key COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_cities_country ON cities(country COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_journeys_created ON journeys(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	log.Printf("[SQLITE] Schema initialized (version %d)", schemaVersion)
	return nil
}

func (s *Store) runMigrations(fromVersion int) error {
	log.Printf("[SQLITE] Migrating schema from version %d to %d", fromVersion, schemaVersion)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	if fromVersion < 2 {
		// Version 2 keeps the plain city name next to the accented display name
		for _, stmt := range []string{
			`ALTER TABLE cities ADD COLUMN lookup_key TEXT NOT NULL DEFAULT ''`,
			`CREATE INDEX IF NOT EXISTS idx_cities_lookup_key ON cities(lookup_key COLLATE NOCASE)`,
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("failed to migrate to version 2: %w", err)
			}
		}
	}

	if _, err := tx.Exec("UPDATE schema_version SET version = ?", schemaVersion); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	return tx.Commit()
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		// Checkpoint WAL before closing
		s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		return s.db.Close()
	}
	return nil
}

// HealthCheck verifies the database connection
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Repository accessors
func (s *Store) Cities() database.CityRepository                 { return s.cityRepo }
func (s *Store) NeighborCache() database.NeighborCacheRepository { return s.neighborCacheRepo }
func (s *Store) Journeys() database.JourneyRepository            { return s.journeyRepo }
