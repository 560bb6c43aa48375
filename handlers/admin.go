// handlers/admin.go
package handlers

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/migration"
)

type AdminHandler struct {
	DB *sql.DB
}

// checkAdminSecret guards the maintenance endpoints. They sit outside the JWT
// group: these are operator calls, not user calls.
func checkAdminSecret(c *gin.Context) bool {
	adminSecret := c.GetHeader("X-Admin-Secret")
	expectedSecret := os.Getenv("ADMIN_SECRET")

	if expectedSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ADMIN_SECRET not configured"})
		return false
	}

	if adminSecret != expectedSecret {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin secret"})
		return false
	}
	return true
}

// NormalizeAllCategories normalise les catégories de tous les clubs
// POST /api/v1/admin/normalize-categories
func (h *AdminHandler) NormalizeAllCategories(c *gin.Context) {
	if !checkAdminSecret(c) {
		return
	}

	result, err := migration.NormalizeMemberCategories(c.Request.Context(), h.DB, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// NormalizeClubCategories normalise les catégories d'un seul club
// POST /api/v1/admin/normalize-categories/:id
func (h *AdminHandler) NormalizeClubCategories(c *gin.Context) {
	if !checkAdminSecret(c) {
		return
	}

	clubID := c.Param("id")
	if clubID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Club ID required"})
		return
	}

	result, err := migration.NormalizeMemberCategories(c.Request.Context(), h.DB, clubID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
