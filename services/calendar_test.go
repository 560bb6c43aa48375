package services

import (
	"testing"
	"time"

	"github.com/chessmanager/club-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatchTitle(t *testing.T) {
	assert.Equal(t, "N2 : Lyon Échecs VS Grenoble",
		BuildMatchTitle("N2", "Lyon Échecs", "Grenoble", true))
	assert.Equal(t, "N2 : Grenoble VS Lyon Échecs",
		BuildMatchTitle("N2", "Lyon Échecs", "Grenoble", false))
}

func TestMatchTag(t *testing.T) {
	assert.Equal(t, "N2", MatchTag("n2"))
	assert.Equal(t, "MATCH", MatchTag("  "))
}

func TestEventTag(t *testing.T) {
	assert.Equal(t, "ENTR", EventTag("Entraînement"))
	assert.Equal(t, "AUT", EventTag("Aut"))
}

func TestParseEventStart(t *testing.T) {
	ts, err := ParseEventStart("2026-03-14", "14:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 14, 15, 0, 0, time.UTC), ts)

	_, err = ParseEventStart("14/03/2026", "14:15")
	assert.Error(t, err)
}

func TestQuickEventEnd(t *testing.T) {
	start := time.Date(2026, 3, 14, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, start.Add(2*time.Hour), QuickEventEnd(start))
}

func TestMonthGridOffsets(t *testing.T) {
	// June 2026 starts on a Monday: no leading blanks, 30 cells.
	june := MonthGrid(2026, time.June, nil)
	require.Len(t, june.Days, 30)
	assert.Equal(t, 1, june.Days[0].Day)

	// March 2026 starts on a Sunday: six leading blanks.
	march := MonthGrid(2026, time.March, nil)
	require.Len(t, march.Days, 6+31)
	for i := 0; i < 6; i++ {
		assert.Zero(t, march.Days[i].Day)
	}
	assert.Equal(t, 1, march.Days[6].Day)
	assert.Equal(t, 31, march.Days[len(march.Days)-1].Day)
}

func TestMonthGridAttachesEvents(t *testing.T) {
	events := []models.Event{
		{ID: "a", Title: "Match N2", StartDate: time.Date(2026, 3, 14, 14, 15, 0, 0, time.UTC)},
		{ID: "b", Title: "Blitz", StartDate: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)},
		{ID: "c", Title: "Elsewhere", StartDate: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)},
	}
	grid := MonthGrid(2026, time.March, events)

	// 14 March 2026: offset 6 + day index 13
	cell := grid.Days[6+13]
	require.Equal(t, 14, cell.Day)
	assert.Len(t, cell.Events, 2)

	// the April event is not in the March grid
	total := 0
	for _, d := range grid.Days {
		total += len(d.Events)
	}
	assert.Equal(t, 2, total)
}
