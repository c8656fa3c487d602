package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesAppendOrdering(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	s := NewSeries()

	require.NoError(t, s.Append(Bar{Time: base, Close: 100}))
	require.NoError(t, s.Append(Bar{Time: base.Add(5 * time.Second), Close: 101}))

	// Equal timestamp is rejected.
	err := s.Append(Bar{Time: base.Add(5 * time.Second), Close: 102})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	// Earlier timestamp is rejected.
	err = s.Append(Bar{Time: base, Close: 103})
	assert.ErrorIs(t, err, ErrOutOfOrder)

	assert.Equal(t, 2, s.Len())
}

func TestSeriesIndexing(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	s := NewSeries()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(Bar{Time: base.Add(time.Duration(i) * time.Minute), Close: float64(100 + i)}))
	}

	last, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, 104.0, last.Close)

	b, ok := s.Ago(4)
	require.True(t, ok)
	assert.Equal(t, 100.0, b.Close)

	_, ok = s.Ago(5)
	assert.False(t, ok)

	_, ok = s.Ago(-1)
	assert.False(t, ok)

	assert.Equal(t, 102.0, s.At(2).Close)
}

func TestSeriesFindTime(t *testing.T) {
	base := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
	s := NewSeries()
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Append(Bar{Time: base.Add(time.Duration(i) * time.Minute)}))
	}

	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, 3, s.FindTime(base.Add(3*time.Minute), time.Minute))
	})

	t.Run("within tolerance", func(t *testing.T) {
		assert.Equal(t, 3, s.FindTime(base.Add(3*time.Minute).Add(40*time.Second), 60*time.Second))
	})

	t.Run("outside tolerance", func(t *testing.T) {
		assert.Equal(t, -1, s.FindTime(base.Add(-time.Hour), 60*time.Second))
	})

	t.Run("zero target", func(t *testing.T) {
		assert.Equal(t, -1, s.FindTime(time.Time{}, 60*time.Second))
	})
}

func TestBarHelpers(t *testing.T) {
	b := Bar{Open: 100, High: 106, Low: 97, Close: 103}
	assert.InDelta(t, (106.0+97.0+103.0)/3.0, b.Typical(), 1e-9)
	assert.InDelta(t, 9.0, b.Range(), 1e-9)
}

func TestLookup(t *testing.T) {
	meta, err := Lookup("MNQ")
	require.NoError(t, err)
	assert.Equal(t, 0.25, meta.TickSize)
	assert.InDelta(t, 0.5, meta.TickValue(), 1e-9)

	_, err = Lookup("BOGUS")
	assert.Error(t, err)
}
