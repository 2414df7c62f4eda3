package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const StatsTableSchema = `
	CREATE TABLE IF NOT EXISTS stat_records (
		id VARCHAR NOT NULL PRIMARY KEY,
		code VARCHAR NOT NULL,
		label VARCHAR NOT NULL,
		taxpayer_count BIGINT,
		headcount DOUBLE,
		pay_fund DOUBLE,
		avg_salary DOUBLE,
		tax_amount DOUBLE,
		weight_percent DOUBLE,
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

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
