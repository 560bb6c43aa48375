package models

import "time"

type Event struct {
	ID            string     `json:"id"`
	ClubID        string     `json:"club_id"`
	Title         string     `json:"title"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Location      string     `json:"location,omitempty"`
	Category      string     `json:"category"`
	VisibilityTag string     `json:"visibility_tag,omitempty"`
	Description   string     `json:"description,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateMatchRequest schedules a team match. The title is composed server
// side from the competition and the home/away orientation.
type CreateMatchRequest struct {
	Competition string `json:"competition" binding:"required"`
	Opponent    string `json:"opponent" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:MM
	IsHome      bool   `json:"is_home"`
	Location    string `json:"location"`
	TeamTag     string `json:"team_tag"`
	Description string `json:"description"`
}

// CreateEventRequest covers everything that is not a match (training,
// tournaments, meetings).
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// CalendarDay is one cell of the month grid. Leading cells before the first
// day of the month have Day == 0.
type CalendarDay struct {
	Day    int     `json:"day"`
	Date   string  `json:"date,omitempty"`
	Events []Event `json:"events"`
}

type CalendarMonth struct {
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Days  []CalendarDay `json:"days"`
}
