package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/models"
	"github.com/chessmanager/club-api/services"
)

type EventHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func fetchEvents(db *sql.DB, clubID string) ([]models.Event, error) {
	rows, err := db.Query(`
		SELECT id, club_id, title, start_date, end_date,
		       COALESCE(location, ''), category, COALESCE(visibility_tag, ''),
		       COALESCE(description, ''), created_at
		FROM events
		WHERE club_id = $1
		ORDER BY start_date ASC
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var endDate sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.ClubID, &e.Title, &e.StartDate, &endDate,
			&e.Location, &e.Category, &e.VisibilityTag,
			&e.Description, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		if endDate.Valid {
			t := endDate.Time
			e.EndDate = &t
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	events, err := fetchEvents(h.DB, club.ID)
	if err != nil {
		log.Printf("Error fetching events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetUpcoming returns the next three events, for the dashboard widget.
func (h *EventHandler) GetUpcoming(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, club_id, title, start_date, end_date,
		       COALESCE(location, ''), category, COALESCE(visibility_tag, ''),
		       COALESCE(description, ''), created_at
		FROM events
		WHERE club_id = $1 AND start_date >= NOW()
		ORDER BY start_date ASC
		LIMIT 3
	`, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var e models.Event
		var endDate sql.NullTime
		if err := rows.Scan(
			&e.ID, &e.ClubID, &e.Title, &e.StartDate, &endDate,
			&e.Location, &e.Category, &e.VisibilityTag,
			&e.Description, &e.CreatedAt,
		); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
			return
		}
		if endDate.Valid {
			t := endDate.Time
			e.EndDate = &t
		}
		events = append(events, e)
	}

	c.JSON(http.StatusOK, events)
}

// GetCalendar renders one month as the grid the calendar screen draws:
// Monday-first cells, blanks before the 1st, events attached to their day.
func (h *EventHandler) GetCalendar(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil || year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month"})
		return
	}

	events, err := fetchEvents(h.DB, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	c.JSON(http.StatusOK, services.MonthGrid(year, time.Month(month), events))
}

// ============================================================================
// CREATION
// ============================================================================

// CreateMatch schedules a team match. The title carries the home/away
// orientation; home matches default their location to the club address.
func (h *EventHandler) CreateMatch(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := services.ParseEventStart(req.Date, req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date or time"})
		return
	}

	location := req.Location
	if location == "" && req.IsHome {
		location = club.Address
	}

	title := services.BuildMatchTitle(req.Competition, club.Name, req.Opponent, req.IsHome)

	event, err := h.insertEvent(club.ID, models.Event{
		Title:         title,
		StartDate:     start,
		Location:      location,
		Category:      services.EventMatch,
		VisibilityTag: services.MatchTag(req.TeamTag),
		Description:   req.Description,
	}, nil)

	if err != nil {
		log.Printf("Error creating match: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create match"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "events", middleware.GetUserEmail(c))

	c.JSON(http.StatusCreated, event)
}

// CreateEvent covers everything else: trainings, tournaments, meetings. Quick
// events get a default two-hour slot.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := services.ParseEventStart(req.Date, req.Time)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date or time"})
		return
	}

	category := req.Category
	if category == "" {
		category = services.EventOther
	}

	end := services.QuickEventEnd(start)

	event, err := h.insertEvent(club.ID, models.Event{
		Title:         req.Title,
		StartDate:     start,
		Location:      req.Location,
		Category:      category,
		VisibilityTag: services.EventTag(category),
		Description:   req.Description,
	}, &end)

	if err != nil {
		log.Printf("Error creating event: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "events", middleware.GetUserEmail(c))

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) insertEvent(clubID string, e models.Event, end *time.Time) (models.Event, error) {
	err := h.DB.QueryRow(`
		INSERT INTO events (club_id, title, start_date, end_date, location, category, visibility_tag, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, clubID, e.Title, e.StartDate, end, e.Location, e.Category, e.VisibilityTag, e.Description).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return models.Event{}, err
	}
	e.ClubID = clubID
	e.EndDate = end
	return e, nil
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	eventID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM events WHERE id = $1 AND club_id = $2
	`, eventID, club.ID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "events", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}
