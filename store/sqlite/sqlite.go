/*
Package sqlite provides a SQLite-backed implementation of registry.Store.

PURPOSE:
  Compiling a zone from its rule history is the expensive operation; the
  encoded descriptor is small and cheap to read back. This store keeps the
  encoded blobs in a single SQLite table so a process can reload its zones
  without recompiling.

SCHEMA:
  zones:
    id          TEXT PRIMARY KEY   zone id, e.g. "America/Los_Angeles"
    data        BLOB               CBOR-encoded descriptor
    updated_at  TIMESTAMP          last write

  Blobs are upserted: a compiled zone is a derived artifact, so rebuilding
  a zone legitimately replaces its previous encoding.

WAL MODE:
  The database is opened with WAL so concurrent readers don't block on the
  occasional writer. A RWMutex additionally serializes writes from this
  process.

USAGE:
  store, err := sqlite.New("./data/zones.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
  reg := registry.New(store)

SEE ALSO:
  - registry: the Store interface and cache-miss path
  - zone/codec.go: the blob format
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meridian/zone-engine/registry"
)

const schema = `
CREATE TABLE IF NOT EXISTS zones (
	id         TEXT PRIMARY KEY,
	data       BLOB NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// Store implements registry.Store on SQLite.
type Store struct {
	mu sync.RWMutex
	db *sql.DB
}

// New opens (creating if necessary) the database at path. Use ":memory:"
// for an ephemeral store.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveZone upserts the encoded zone.
func (s *Store) SaveZone(ctx context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO zones (id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		id, data)
	if err != nil {
		return fmt.Errorf("save zone %s: %w", id, err)
	}
	return nil
}

// LoadZone returns the encoded zone, or registry.ErrZoneNotFound.
func (s *Store) LoadZone(ctx context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM zones WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", registry.ErrZoneNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load zone %s: %w", id, err)
	}
	return data, nil
}

// ListZones returns every persisted zone id in lexical order.
func (s *Store) ListZones(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM zones ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list zones: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
