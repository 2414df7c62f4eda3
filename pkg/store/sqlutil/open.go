package sqlutil

import (
	"database/sql"
	"fmt"

	"github.com/de-tools/statreport/pkg/store/duckdb"
	"github.com/de-tools/statreport/pkg/store/sqlite"
)

const (
	DriverDuckDB = "duckdb"
	DriverSQLite = "sqlite"
)

type Settings struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// Open connects to the configured embedded database and makes sure the schema exists.
func Open(settings Settings) (*sql.DB, error) {
	switch settings.Driver {
	case "", DriverDuckDB:
		return duckdb.NewDB(duckdb.Settings{DbPath: settings.Path})
	case DriverSQLite:
		return sqlite.NewDB(sqlite.Settings{DbPath: settings.Path})
	default:
		return nil, fmt.Errorf("unsupported store driver %q", settings.Driver)
	}
}
