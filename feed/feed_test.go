package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSourceStreamsBars(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	data := "time,open,high,low,close,volume\n" +
		"2024-03-04T09:30:00Z,100,101,99,100.5,250\n" +
		"2024-03-04T09:31:00Z,100.5,102,100,101.75,300\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	first := <-src.Bars()
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), first.Time)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 250.0, first.Volume)

	second := <-src.Bars()
	assert.Equal(t, 101.75, second.Close)

	_, open := <-src.Bars()
	assert.False(t, open)
	assert.NoError(t, src.Err())
}

func TestCSVSourceBadRow(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bars.csv")
	data := "time,open,high,low,close,volume\n" +
		"not-a-time,1,2,3,4,5\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	src, err := NewCSVSource(path)
	require.NoError(t, err)
	defer src.Close()

	_, open := <-src.Bars()
	assert.False(t, open)
	assert.Error(t, src.Err())
}

func TestCSVSourceMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewCSVSource(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestAnchorValue(t *testing.T) {
	t.Parallel()

	av := NewAnchorValue()

	_, ok := av.Anchor()
	assert.False(t, ok)

	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	av.Set(at)
	got, ok := av.Anchor()
	assert.True(t, ok)
	assert.True(t, got.Equal(at))

	av.Clear()
	_, ok = av.Anchor()
	assert.False(t, ok)
}

func TestAnchorFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "anchor.txt")
	af := NewAnchorFile(path)

	_, ok := af.Anchor()
	assert.False(t, ok)

	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.WriteFile(path, []byte(at.Format(time.RFC3339)+"\n"), 0644))
	got, ok := af.Anchor()
	assert.True(t, ok)
	assert.True(t, got.Equal(at))

	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))
	_, ok = af.Anchor()
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	_, ok = af.Anchor()
	assert.False(t, ok)
}
