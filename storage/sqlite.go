package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/feltforge/modelabi/errors"
	"github.com/feltforge/modelabi/felt"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS slots (
	offset INTEGER PRIMARY KEY,
	value  BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS definitions (
	name    TEXT PRIMARY KEY,
	version TEXT NOT NULL,
	schema  BLOB NOT NULL
);`

// SQLite is a durable slot store and definition store backed by a single
// SQLite database. Slot offsets are stored as signed integers, values as
// 32-byte big-endian blobs. Zero writes delete the row, matching the
// read-as-zero convention for absent slots.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and ensures the
// required tables exist. Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Storage(errors.PhaseStorage, err, "open "+path)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Storage(errors.PhaseStorage, err, "create tables")
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// ReadSlot implements modelabi.SlotReader.
func (s *SQLite) ReadSlot(offset uint64) (felt.Felt, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE offset = ?`, int64(offset)).Scan(&blob)
	if err == sql.ErrNoRows {
		return felt.Felt{}, nil
	}
	if err != nil {
		return felt.Felt{}, errors.Storage(errors.PhaseStorage, err, "read slot")
	}
	v, err := felt.FromBytes(blob)
	if err != nil {
		return felt.Felt{}, errors.Wrap(errors.PhaseStorage, errors.KindInvalidData, err, "corrupt slot value")
	}
	return v, nil
}

// WriteSlot implements modelabi.SlotWriter.
func (s *SQLite) WriteSlot(offset uint64, value felt.Felt) error {
	if value.IsZero() {
		if _, err := s.db.Exec(`DELETE FROM slots WHERE offset = ?`, int64(offset)); err != nil {
			return errors.Storage(errors.PhaseStorage, err, "clear slot")
		}
		return nil
	}
	b := value.Bytes()
	_, err := s.db.Exec(`INSERT OR REPLACE INTO slots (offset, value) VALUES (?, ?)`, int64(offset), b[:])
	if err != nil {
		return errors.Storage(errors.PhaseStorage, err, "write slot")
	}
	return nil
}

// Len returns the number of non-zero slots.
func (s *SQLite) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, errors.Storage(errors.PhaseStorage, err, "count slots")
	}
	return n, nil
}

// PutDefinition stores or replaces a definition snapshot.
func (s *SQLite) PutDefinition(name, version string, schema []byte) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO definitions (name, version, schema) VALUES (?, ?, ?)`,
		name, version, schema)
	if err != nil {
		return errors.Storage(errors.PhaseStorage, err, "put definition")
	}
	return nil
}

// GetDefinition returns a stored definition snapshot.
func (s *SQLite) GetDefinition(name string) (string, []byte, error) {
	var version string
	var schema []byte
	err := s.db.QueryRow(`SELECT version, schema FROM definitions WHERE name = ?`, name).Scan(&version, &schema)
	if err == sql.ErrNoRows {
		return "", nil, errors.NotFound(errors.PhaseStorage, "definition", name)
	}
	if err != nil {
		return "", nil, errors.Storage(errors.PhaseStorage, err, "get definition")
	}
	return version, schema, nil
}

// ListDefinitions returns the stored definition names in sorted order.
func (s *SQLite) ListDefinitions() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM definitions ORDER BY name`)
	if err != nil {
		return nil, errors.Storage(errors.PhaseStorage, err, "list definitions")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Storage(errors.PhaseStorage, err, "scan definition name")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
