package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeriod(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	p, err := NewPeriod(start, end)
	require.NoError(t, err)
	assert.Equal(t, start, p.Start)
	assert.Equal(t, end, p.End)
}

func TestNewPeriod_StartAfterEnd(t *testing.T) {
	start := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewPeriod(start, end)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be after")
}

func TestNewPeriod_SingleDay(t *testing.T) {
	day := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	p, err := NewPeriod(day, day)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Days())
}

func TestLastDays(t *testing.T) {
	today := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)

	p := LastDays(365, today)

	assert.Equal(t, today, p.End)
	assert.Equal(t, time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC), p.Start)
	assert.False(t, p.End.Before(p.Start))
	assert.Equal(t, 365, p.Days())
}

func TestPeriod_Format(t *testing.T) {
	p := Period{
		Start: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 11, 30, 0, 0, 0, 0, time.UTC),
	}

	start, end := p.Format()
	assert.Equal(t, "2026-01-02", start)
	assert.Equal(t, "2026-11-30", end)
}
