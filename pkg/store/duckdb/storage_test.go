package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	sqlstore "github.com/de-tools/profit-atlas/pkg/store/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_SourceTablesLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO revenue (year, month, value, covenant) VALUES (?, ?, ?, ?), (?, ?, ?, ?)`,
		2023, 2, 65000.0, "Amil",
		2023, 1, 50000.0, nil,
	)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO fixed_cost (year, month, value) VALUES (?, ?, ?)`, 2023, 1, 10000.0)
	require.NoError(t, err)

	loader, err := sqlstore.NewLoader(db, sqlstore.DefaultTables(), sqlstore.DefaultSchema())
	require.NoError(t, err)

	data, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Revenue, 2)
	assert.Equal(t, domain.PeriodKey{Year: 2023, Month: 1}, data.Revenue[0].Key)
	assert.Equal(t, "Amil", data.Revenue[1].Attributes[domain.AttributeCovenant])
	assert.Empty(t, data.DirectCost)
	require.Len(t, data.FixedCost, 1)
	assert.Equal(t, 10000.0, data.FixedCost[0].Value)
}
