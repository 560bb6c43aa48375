package handlers

import (
	"database/sql"
	"encoding/base64"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/models"
	"github.com/chessmanager/club-api/services"
)

type MemberHandler struct {
	DB     *sql.DB
	Roster *services.RosterService
	AI     *services.AIService
	WS     *WSHandler
}

// fetchMembers loads a club's full roster; filtering and sorting happen in
// memory so every view orders rows identically.
func fetchMembers(db *sql.DB, clubID string) ([]models.Member, error) {
	rows, err := db.Query(`
		SELECT id, club_id, first_name, last_name, elo,
		       COALESCE(license_number, ''), license_status, category,
		       COALESCE(doc_certificat, ''), COALESCE(doc_autorisation, ''),
		       created_at, updated_at
		FROM members
		WHERE club_id = $1
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.ID, &m.ClubID, &m.FirstName, &m.LastName, &m.Elo,
			&m.LicenseNumber, &m.LicenseStatus, &m.Category,
			&m.DocCertificat, &m.DocAutorisation,
			&m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// ============================================================================
// LISTING & STATS
// ============================================================================

func (h *MemberHandler) ListMembers(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	members, err := fetchMembers(h.DB, club.ID)
	if err != nil {
		log.Printf("Error fetching members: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members = services.FilterMembers(members, c.Query("search"), c.Query("status"))
	members = services.SortMembers(members, c.DefaultQuery("sort", "last_name"), c.DefaultQuery("dir", "asc"))

	c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) GetStats(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	members, err := fetchMembers(h.DB, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, services.BuildMemberStats(members))
}

// ============================================================================
// CRUD
// ============================================================================

func (h *MemberHandler) CreateMember(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.LicenseStatus
	if status == "" {
		status = models.LicensePending
	}
	category := req.Category
	if category == "" {
		category = "Adulte"
	}

	var m models.Member
	err := h.DB.QueryRow(`
		INSERT INTO members (club_id, first_name, last_name, elo, license_number, license_status, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, club.ID, req.FirstName, req.LastName, services.ParseElo(req.Elo), req.LicenseNumber, status, category).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)

	if err != nil {
		log.Printf("Error creating member: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	m.ClubID = club.ID
	m.FirstName = req.FirstName
	m.LastName = req.LastName
	m.Elo = services.ParseElo(req.Elo)
	m.LicenseNumber = req.LicenseNumber
	m.LicenseStatus = status
	m.Category = category

	h.WS.BroadcastUpdate(club.ID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusCreated, m)
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	memberID, ok := pathID(c)
	if !ok {
		return
	}

	var req models.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := req.LicenseStatus
	if status == "" {
		status = models.LicensePending
	}
	category := req.Category
	if category == "" {
		category = "Adulte"
	}

	result, err := h.DB.Exec(`
		UPDATE members
		SET first_name = $1, last_name = $2, elo = $3, license_number = $4,
		    license_status = $5, category = $6, updated_at = NOW()
		WHERE id = $7 AND club_id = $8
	`, req.FirstName, req.LastName, services.ParseElo(req.Elo), req.LicenseNumber,
		status, category, memberID, club.ID)

	if err != nil {
		log.Printf("Error updating member: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"id": memberID, "message": "Member updated"})
}

// ToggleLicense advances a member's license status one step in the
// valide -> expire -> en_attente -> valide cycle.
func (h *MemberHandler) ToggleLicense(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	memberID, ok := pathID(c)
	if !ok {
		return
	}

	var current string
	err := h.DB.QueryRow(`
		SELECT license_status FROM members WHERE id = $1 AND club_id = $2
	`, memberID, club.ID).Scan(&current)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	next := services.NextLicenseStatus(current)

	_, err = h.DB.Exec(`
		UPDATE members SET license_status = $1, updated_at = NOW()
		WHERE id = $2 AND club_id = $3
	`, next, memberID, club.ID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"id": memberID, "license_status": next})
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	memberID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM members WHERE id = $1 AND club_id = $2
	`, memberID, club.ID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete member"})
		return
	}

	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

// ============================================================================
// AI ROSTER IMPORT
// Une capture d'écran de la liste fédérale -> extraction -> upsert idempotent.
// ============================================================================

func (h *MemberHandler) ScanRoster(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
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

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/png"
	}

	scanned, err := h.AI.ExtractRoster(c.Request.Context(), base64.StdEncoding.EncodeToString(data), mimeType)
	if err != nil {
		log.Printf("❌ Roster extraction failed for club %s: %v", club.ID, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Could not extract members from this image"})
		return
	}

	batch := services.NormalizeBatch(scanned, club.ID)

	imported, err := h.Roster.Upsert(c.Request.Context(), batch)
	if err != nil {
		log.Printf("❌ Roster import failed after %d rows: %v", imported, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Import failed"})
		return
	}

	log.Printf("✅ Roster scan for club %s: %d extracted, %d imported", club.ID, len(scanned), imported)

	h.WS.BroadcastUpdate(club.ID, "members", middleware.GetUserEmail(c))

	members, err := fetchMembers(h.DB, club.ID)
	if err != nil {
		members = []models.Member{}
	}

	c.JSON(http.StatusOK, models.ScanResult{
		Extracted: len(scanned),
		Imported:  imported,
		Skipped:   len(scanned) - imported,
		Members:   services.SortMembers(members, "last_name", "asc"),
	})
}
