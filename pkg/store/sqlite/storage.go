package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const StatsTableSchema = `
	CREATE TABLE IF NOT EXISTS stat_records (
		id TEXT NOT NULL PRIMARY KEY,
		code TEXT NOT NULL,
		label TEXT NOT NULL,
		taxpayer_count INTEGER,
		headcount REAL,
		pay_fund REAL,
		avg_salary REAL,
		tax_amount REAL,
		weight_percent REAL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const StatsCodeIndex = `CREATE INDEX IF NOT EXISTS stat_records_code_idx ON stat_records (code);`

var bootQueries = []string{
	StatsTableSchema,
	StatsCodeIndex,
}

type Settings struct {
	DbPath string
}

// NewDB opens a pure-Go SQLite database. An in-memory database is private to one connection, so the
// pool is limited to a single connection in that case.
func NewDB(settings Settings) (*sql.DB, error) {
	dsn := settings.DbPath
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("sqlite", dsn+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap schema: %w", err)
		}
	}

	return db, nil
}
