package sessions

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed recording session as stored in the catalog.
type Record struct {
	ID          int64
	Device      string
	StartedAt   time.Time
	EndedAt     *time.Time
	ButtonPath  string
	StickPath   string
	ButtonCount int
	StickCount  int
}

// Catalog indexes completed recording sessions in a SQLite database so the
// UI can list them without walking the data directory.
type Catalog struct {
	db *sql.DB
}

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		device TEXT NOT NULL,
		startedAt REAL NOT NULL,
		endedAt REAL,
		buttonPath TEXT NOT NULL,
		stickPath TEXT NOT NULL,
		buttonCount INTEGER NOT NULL DEFAULT 0,
		stickCount INTEGER NOT NULL DEFAULT 0
	);
`

// OpenCatalog opens (and if needed creates) the catalog database at path.
func OpenCatalog(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add inserts a completed session and returns its id.
func (c *Catalog) Add(r Record) (int64, error) {
	var endedAt any
	if r.EndedAt != nil {
		endedAt = timeToUnix(*r.EndedAt)
	}

	res, err := c.db.Exec(`
		INSERT INTO sessions (device, startedAt, endedAt, buttonPath, stickPath, buttonCount, stickCount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.Device, timeToUnix(r.StartedAt), endedAt, r.ButtonPath, r.StickPath, r.ButtonCount, r.StickCount)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}

	return id, nil
}

// List returns all catalogued sessions, newest first.
func (c *Catalog) List() ([]Record, error) {
	rows, err := c.db.Query(`
		SELECT id, device, startedAt, endedAt, buttonPath, stickPath, buttonCount, stickCount
		FROM sessions
		ORDER BY startedAt DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var records []Record

	for rows.Next() {
		var (
			r         Record
			startedAt float64
			endedAt   sql.NullFloat64
		)

		if err := rows.Scan(&r.ID, &r.Device, &startedAt, &endedAt,
			&r.ButtonPath, &r.StickPath, &r.ButtonCount, &r.StickCount); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		r.StartedAt = timeFromUnix(startedAt)
		if endedAt.Valid {
			t := timeFromUnix(endedAt.Float64)
			r.EndedAt = &t
		}

		records = append(records, r)
	}

	return records, rows.Err()
}

func timeToUnix(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(ts float64) time.Time {
	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)

	return time.Unix(sec, nsec)
}
