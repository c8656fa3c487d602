package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournalWritesHeadersAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dPath := filepath.Join(dir, "decisions.csv")
	oPath := filepath.Join(dir, "orders.csv")

	j, err := NewCSV(dPath, oPath)
	require.NoError(t, err)

	dec := DecisionRecord{
		BarTime:    time.Date(2024, 3, 4, 9, 31, 0, 0, time.UTC),
		Instrument: "MNQ",
		VWAP:       18001.75,
		VWAPOK:     true,
		OrderID:    "ord-1",
		Quantity:   2,
	}
	require.NoError(t, j.RecordDecision(dec))

	ord := OrderRecord{
		OrderID:    "ord-1",
		Instrument: "MNQ",
		State:      "FILLED",
		FilledQty:  2,
		AvgPrice:   18000.25,
		Time:       time.Date(2024, 3, 4, 9, 31, 2, 0, time.UTC),
	}
	require.NoError(t, j.RecordOrder(ord))
	require.NoError(t, j.Close())

	dRows := readCSV(t, dPath)
	require.Len(t, dRows, 2)
	assert.Equal(t, []string{"bar_time", "instrument", "vwap", "vwap_ok", "veto_code", "order_id", "quantity"}, dRows[0])
	assert.Equal(t, "2024-03-04T09:31:00Z", dRows[1][0])
	assert.Equal(t, "MNQ", dRows[1][1])
	assert.Equal(t, "true", dRows[1][3])
	assert.Equal(t, "", dRows[1][4])
	assert.Equal(t, "ord-1", dRows[1][5])
	assert.Equal(t, "2", dRows[1][6])

	oRows := readCSV(t, oPath)
	require.Len(t, oRows, 2)
	assert.Equal(t, []string{"order_id", "instrument", "state", "filled_qty", "avg_price", "time"}, oRows[0])
	assert.Equal(t, "ord-1", oRows[1][0])
	assert.Equal(t, "FILLED", oRows[1][2])
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
