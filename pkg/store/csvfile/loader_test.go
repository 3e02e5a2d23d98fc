package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/profit-atlas/pkg/models/domain"
	"github.com/de-tools/profit-atlas/pkg/store/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func writeFiles(t *testing.T, contents map[domain.Metric]string) map[domain.Metric]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[domain.Metric]string)
	for metric, content := range contents {
		path := filepath.Join(dir, string(metric)+".csv")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		paths[metric] = path
	}
	return paths
}

func TestLoader_Load(t *testing.T) {
	paths := writeFiles(t, map[domain.Metric]string{
		domain.MetricRevenue:    "ANO;MES;RECEITA;CONVENIO\n2022;1;50000;Unimed\n2022;2;65000;NA\n",
		domain.MetricDirectCost: "ANO;MES;CUSTO_DIRETO\n2022;1;25000\n",
		domain.MetricFixedCost:  "ANO;MES;CUSTO_FIXO\n",
	})

	loader, err := NewLoader(paths, tabular.DefaultSchema(), Options{Delimiter: ';'})
	require.NoError(t, err)

	data, err := loader.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Revenue, 2)
	assert.Equal(t, "Unimed", data.Revenue[0].Attributes[domain.AttributeCovenant])
	assert.Nil(t, data.Revenue[1].Attributes)
	require.Len(t, data.DirectCost, 1)
	assert.Equal(t, 25000.0, data.DirectCost[0].Value)
	assert.Empty(t, data.FixedCost)
}

func TestLoader_Windows1252(t *testing.T) {
	encoded, err := charmap.Windows1252.NewEncoder().String("ANO,MES,RECEITA,CONVENIO\n2022,1,10,Bradesco Saúde\n")
	require.NoError(t, err)

	paths := writeFiles(t, map[domain.Metric]string{
		domain.MetricRevenue:    encoded,
		domain.MetricDirectCost: "ANO,MES,CUSTO_DIRETO\n",
		domain.MetricFixedCost:  "ANO,MES,CUSTO_FIXO\n",
	})

	loader, err := NewLoader(paths, tabular.DefaultSchema(), Options{Encoding: "windows-1252"})
	require.NoError(t, err)

	data, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, data.Revenue, 1)
	assert.Equal(t, "Bradesco Saúde", data.Revenue[0].Attributes[domain.AttributeCovenant])
}

func TestLoader_MissingFile(t *testing.T) {
	paths := writeFiles(t, map[domain.Metric]string{
		domain.MetricRevenue:    "ANO,MES,RECEITA\n",
		domain.MetricDirectCost: "ANO,MES,CUSTO_DIRETO\n",
	})
	paths[domain.MetricFixedCost] = filepath.Join(t.TempDir(), "missing.csv")

	loader, err := NewLoader(paths, tabular.DefaultSchema(), Options{})
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	var loadErr *domain.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, paths[domain.MetricFixedCost], loadErr.Source)
}

func TestNewLoader_Validation(t *testing.T) {
	_, err := NewLoader(map[domain.Metric]string{domain.MetricRevenue: "a.csv"}, tabular.DefaultSchema(), Options{})
	assert.Error(t, err)

	full := map[domain.Metric]string{
		domain.MetricRevenue:    "a.csv",
		domain.MetricDirectCost: "b.csv",
		domain.MetricFixedCost:  "c.csv",
	}
	_, err = NewLoader(full, tabular.DefaultSchema(), Options{Encoding: "ebcdic"})
	assert.Error(t, err)
}
