package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/models"
	"github.com/chessmanager/club-api/services"
)

type ClubHandler struct {
	DB      *sql.DB
	AI      *services.AIService
	Storage *services.StorageService
	WS      *WSHandler
}

// clubForUser loads the caller's club. sql.ErrNoRows means the account has no
// club yet (the front-end shows its "access pending" screen on the 404).
func clubForUser(db *sql.DB, userID string) (*models.Club, error) {
	var club models.Club
	var address, primaryColor, secondaryColor, accentColor sql.NullString
	var borderRadius, fontFamily, customFont, slogan, logoURL sql.NullString

	err := db.QueryRow(`
		SELECT id, name, address, admin_id,
		       price_adulte, price_jeune, price_retraite,
		       primary_color, secondary_color, accent_color,
		       border_radius, font_family, custom_font, slogan, logo_url,
		       created_at, updated_at
		FROM clubs
		WHERE admin_id = $1
	`, userID).Scan(
		&club.ID, &club.Name, &address, &club.AdminID,
		&club.PriceAdulte, &club.PriceJeune, &club.PriceRetraite,
		&primaryColor, &secondaryColor, &accentColor,
		&borderRadius, &fontFamily, &customFont, &slogan, &logoURL,
		&club.CreatedAt, &club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	club.Address = address.String
	club.PrimaryColor = primaryColor.String
	club.SecondaryColor = secondaryColor.String
	club.AccentColor = accentColor.String
	club.BorderRadius = borderRadius.String
	club.FontFamily = fontFamily.String
	club.CustomFont = customFont.String
	club.Slogan = slogan.String
	club.LogoURL = logoURL.String
	return &club, nil
}

// pathID validates the :id path parameter. Malformed UUIDs are rejected here
// with a 404: feeding them to Postgres would surface as a 500 instead.
func pathID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return "", false
	}
	return id, true
}

// requireClub resolves the caller's club or writes the error response itself.
func requireClub(c *gin.Context, db *sql.DB) (*models.Club, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return nil, false
	}

	club, err := clubForUser(db, userID)
	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "No club for this account"})
		return nil, false
	}
	if err != nil {
		log.Printf("Error fetching club: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch club"})
		return nil, false
	}
	return club, true
}

// ============================================================================
// CLUB LIFECYCLE
// ============================================================================

func (h *ClubHandler) GetMyClub(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) CreateClub(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CreateClubRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Un seul club par compte admin (contrainte UNIQUE sur admin_id).
	var clubID string
	err := h.DB.QueryRow(`
		INSERT INTO clubs (name, address, admin_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, req.Name, req.Address, userID).Scan(&clubID)

	if err != nil {
		if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "duplicate") {
			c.JSON(http.StatusConflict, gin.H{"error": "This account already manages a club"})
			return
		}
		log.Printf("Error creating club: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create club"})
		return
	}

	log.Printf("✅ Club %s created by user %s", clubID, userID)

	club, err := clubForUser(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch club"})
		return
	}
	c.JSON(http.StatusCreated, club)
}

// ============================================================================
// THEME & SETTINGS
// Single-field saves: the settings screen persists each change on blur.
// ============================================================================

// themeColumns whitelists the club attributes the PATCH endpoint may touch.
var themeColumns = map[string]string{
	"name":            "name",
	"address":         "address",
	"primary_color":   "primary_color",
	"secondary_color": "secondary_color",
	"accent_color":    "accent_color",
	"border_radius":   "border_radius",
	"font_family":     "font_family",
	"custom_font":     "custom_font",
	"slogan":          "slogan",
	"price_adulte":    "price_adulte",
	"price_jeune":     "price_jeune",
	"price_retraite":  "price_retraite",
}

var priceFields = map[string]bool{
	"price_adulte":   true,
	"price_jeune":    true,
	"price_retraite": true,
}

func (h *ClubHandler) UpdateTheme(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.ThemeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	column, allowed := themeColumns[req.Field]
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Field %q cannot be updated", req.Field)})
		return
	}

	// The column name comes from the whitelist above, never from the request.
	query := fmt.Sprintf(`UPDATE clubs SET %s = $1, updated_at = NOW() WHERE id = $2`, column)

	var err error
	if priceFields[req.Field] {
		_, err = h.DB.Exec(query, services.ParseAmount(req.Value), club.ID)
	} else {
		_, err = h.DB.Exec(query, req.Value, club.ID)
	}

	if err != nil {
		log.Printf("Error updating club %s field %s: %v", club.ID, req.Field, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update club"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "club", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"field": req.Field, "value": req.Value})
}

// GenerateDesign asks the AI collaborator for a theme from a mood prompt and
// applies whichever whitelisted fields came back.
func (h *ClubHandler) GenerateDesign(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.AIDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg, err := h.AI.GenerateDesign(c.Request.Context(), req.Prompt)
	if err != nil {
		log.Printf("❌ AI design generation failed: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Design generation failed"})
		return
	}

	updates := map[string]string{
		"primary_color":   cfg.PrimaryColor,
		"secondary_color": cfg.SecondaryColor,
		"accent_color":    cfg.AccentColor,
		"border_radius":   cfg.BorderRadius,
		"custom_font":     cfg.CustomFont,
		"slogan":          cfg.Slogan,
	}

	for field, value := range updates {
		if value == "" {
			continue
		}
		query := fmt.Sprintf(`UPDATE clubs SET %s = $1, updated_at = NOW() WHERE id = $2`, themeColumns[field])
		if _, err := h.DB.Exec(query, value, club.ID); err != nil {
			log.Printf("⚠️ Failed to apply design field %s: %v", field, err)
		}
	}

	h.WS.BroadcastUpdate(club.ID, "club", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, cfg)
}

// ============================================================================
// LOGO UPLOAD
// ============================================================================

func (h *ClubHandler) UploadLogo(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds 10 MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("%s/logo_%d%s", club.ID, time.Now().UnixMilli(), ext)

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.Storage.Upload(c.Request.Context(), services.BucketLogos, key, data, contentType); err != nil {
		log.Printf("❌ Logo upload failed for club %s: %v", club.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store logo"})
		return
	}

	logoURL := h.Storage.PublicURL(services.BucketLogos, key)

	_, err = h.DB.Exec(`UPDATE clubs SET logo_url = $1, updated_at = NOW() WHERE id = $2`, logoURL, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save logo URL"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "club", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"logo_url": logoURL})
}
