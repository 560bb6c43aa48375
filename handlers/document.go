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

	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/services"
	"github.com/chessmanager/club-api/utils"
)

// maxUploadBytes caps every file upload at 10 MiB.
const maxUploadBytes = 10 << 20

type DocumentHandler struct {
	DB      *sql.DB
	Storage *services.StorageService
	WS      *WSHandler
}

// docColumns maps the document type of the URL to the member column holding
// its storage path.
var docColumns = map[string]string{
	"certificat":   "doc_certificat",
	"autorisation": "doc_autorisation",
}

// memberDocPath reads the stored object key for one member/docType pair,
// checking club ownership on the way.
func (h *DocumentHandler) memberDocPath(c *gin.Context) (clubID, memberID, column, path string, ok bool) {
	club, found := requireClub(c, h.DB)
	if !found {
		return "", "", "", "", false
	}

	memberID, validID := pathID(c)
	if !validID {
		return "", "", "", "", false
	}
	column, allowed := docColumns[c.Param("docType")]
	if !allowed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown document type"})
		return "", "", "", "", false
	}

	var stored sql.NullString
	query := fmt.Sprintf(`SELECT %s FROM members WHERE id = $1 AND club_id = $2`, column)
	err := h.DB.QueryRow(query, memberID, club.ID).Scan(&stored)

	if err == sql.ErrNoRows {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return "", "", "", "", false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return "", "", "", "", false
	}

	return club.ID, memberID, column, stored.String, true
}

// ============================================================================
// UPLOAD
// Les images sont recompressées avant stockage (largeur max 1200, JPEG q70) :
// une photo de certificat prise au téléphone pèse vite plusieurs Mo.
// ============================================================================

func (h *DocumentHandler) Upload(c *gin.Context) {
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	clubID, memberID, column, previous, ok := h.memberDocPath(c)
	if !ok {
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

	contentType := fileHeader.Header.Get("Content-Type")
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))

	if strings.HasPrefix(contentType, "image/") {
		if compressed, err := utils.CompressImage(data); err == nil {
			data = compressed
			contentType = "image/jpeg"
			ext = ".jpg"
		} else {
			log.Printf("⚠️ Image compression failed, storing original: %v", err)
		}
	}
	if ext == "" {
		ext = ".bin"
	}

	key := fmt.Sprintf("%s/%s_%d%s", memberID, c.Param("docType"), time.Now().UnixMilli(), ext)

	if err := h.Storage.Upload(c.Request.Context(), services.BucketDocuments, key, data, contentType); err != nil {
		log.Printf("❌ Document upload failed for member %s: %v", memberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store document"})
		return
	}

	query := fmt.Sprintf(`UPDATE members SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	if _, err := h.DB.Exec(query, key, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document path"})
		return
	}

	// Remplacement : l'ancien objet devient orphelin, on le nettoie.
	if previous != "" && previous != key {
		if err := h.Storage.Delete(c.Request.Context(), services.BucketDocuments, previous); err != nil {
			log.Printf("⚠️ Failed to remove replaced document %s: %v", previous, err)
		}
	}

	h.WS.BroadcastUpdate(clubID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"path": key})
}

// ============================================================================
// DOWNLOAD & DELETE
// ============================================================================

// Download hands out a short-lived presigned URL; the bucket stays private.
func (h *DocumentHandler) Download(c *gin.Context) {
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	_, _, _, path, ok := h.memberDocPath(c)
	if !ok {
		return
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No document of this type"})
		return
	}

	url, err := h.Storage.PresignURL(c.Request.Context(), services.BucketDocuments, path)
	if err != nil {
		log.Printf("❌ Presign failed for %s: %v", path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download link"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	if h.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage not configured"})
		return
	}

	clubID, memberID, column, path, ok := h.memberDocPath(c)
	if !ok {
		return
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No document of this type"})
		return
	}

	if err := h.Storage.Delete(c.Request.Context(), services.BucketDocuments, path); err != nil {
		log.Printf("⚠️ Failed to delete object %s: %v", path, err)
	}

	query := fmt.Sprintf(`UPDATE members SET %s = NULL, updated_at = NOW() WHERE id = $1`, column)
	if _, err := h.DB.Exec(query, memberID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear document path"})
		return
	}

	h.WS.BroadcastUpdate(clubID, "members", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}
