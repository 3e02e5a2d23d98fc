package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const sourceTable = `
	CREATE TABLE IF NOT EXISTS %s (
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		value DOUBLE,
		covenant VARCHAR,
		specialty VARCHAR,
		practitioner VARCHAR
	);
`

var bootQueries = []string{
	fmt.Sprintf(sourceTable, "revenue"),
	fmt.Sprintf(sourceTable, "direct_cost"),
	fmt.Sprintf(sourceTable, "fixed_cost"),
}

type Settings struct {
	DbPath string
}

// NewDB opens a DuckDB database and makes sure the source tables exist.
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

	db := sql.OpenDB(c)
	return db, nil
}
