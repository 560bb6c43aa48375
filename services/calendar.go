package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/chessmanager/club-api/models"
)

// Event categories. Matches get an indigo card on the front-end, everything
// else orange, so the tag matters.
const (
	EventMatch = "Match"
	EventOther = "Autre"
)

// ParseEventStart combines the form's date and time fields ("2026-03-14",
// "14:15") into a timestamp.
func ParseEventStart(date, clock string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04", date+"T"+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid event date/time: %w", err)
	}
	return t, nil
}

// BuildMatchTitle composes "COMPETITION : HOME VS AWAY" with the club on the
// correct side of the VS.
func BuildMatchTitle(competition, clubName, opponent string, isHome bool) string {
	home, away := clubName, opponent
	if !isHome {
		home, away = opponent, clubName
	}
	return fmt.Sprintf("%s : %s VS %s", competition, home, away)
}

// MatchTag derives the visibility tag shown in the grid cell: the team tag
// uppercased, or "MATCH" when none was given.
func MatchTag(teamTag string) string {
	tag := strings.ToUpper(strings.TrimSpace(teamTag))
	if tag == "" {
		return "MATCH"
	}
	return tag
}

// EventTag abbreviates a non-match category for the grid cell.
func EventTag(category string) string {
	tag := strings.ToUpper(category)
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return tag
}

// QuickEventEnd gives dashboard quick events a default two-hour slot.
func QuickEventEnd(start time.Time) time.Time {
	return start.Add(2 * time.Hour)
}

// MonthGrid lays out a month as the calendar screen renders it: Monday-first,
// with blank cells before the 1st. A month starting on Sunday gets six
// leading blanks. Events are attached to their day cell by calendar date.
func MonthGrid(year int, month time.Month, events []models.Event) models.CalendarMonth {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	offset := int(first.Weekday()) - 1
	if first.Weekday() == time.Sunday {
		offset = 6
	}

	byDay := make(map[int][]models.Event)
	for _, e := range events {
		if e.StartDate.Year() == year && e.StartDate.Month() == month {
			d := e.StartDate.Day()
			byDay[d] = append(byDay[d], e)
		}
	}

	days := make([]models.CalendarDay, 0, offset+daysInMonth)
	for i := 0; i < offset; i++ {
		days = append(days, models.CalendarDay{Events: []models.Event{}})
	}
	for d := 1; d <= daysInMonth; d++ {
		evs := byDay[d]
		if evs == nil {
			evs = []models.Event{}
		}
		days = append(days, models.CalendarDay{
			Day:    d,
			Date:   fmt.Sprintf("%04d-%02d-%02d", year, int(month), d),
			Events: evs,
		})
	}

	return models.CalendarMonth{Year: year, Month: int(month), Days: days}
}
