package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/chessmanager/club-api/middleware"
	"github.com/chessmanager/club-api/models"
	"github.com/chessmanager/club-api/services"
	"github.com/chessmanager/club-api/utils"
)

type FinanceHandler struct {
	DB *sql.DB
	WS *WSHandler
}

func fetchSponsors(db *sql.DB, clubID string) ([]models.Sponsor, error) {
	rows, err := db.Query(`
		SELECT id, club_id, name, amount, periodicity, created_at
		FROM sponsors
		WHERE club_id = $1
		ORDER BY created_at DESC
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := []models.Sponsor{}
	for rows.Next() {
		var s models.Sponsor
		if err := rows.Scan(&s.ID, &s.ClubID, &s.Name, &s.Amount, &s.Periodicity, &s.CreatedAt); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func fetchExpenses(db *sql.DB, clubID string) ([]models.Expense, error) {
	rows, err := db.Query(`
		SELECT id, club_id, label, amount, category, periodicity, created_at
		FROM expenses
		WHERE club_id = $1
		ORDER BY created_at DESC
	`, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.ClubID, &e.Label, &e.Amount, &e.Category, &e.Periodicity, &e.CreatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// ============================================================================
// SUMMARY
// Le solde n'est jamais stocké : il est recalculé à chaque requête depuis les
// lignes courantes. Sponsors et dépenses sont chargés en parallèle ; une
// collection qui échoue est loggée et comptée vide, jamais propagée.
// ============================================================================

func (h *FinanceHandler) GetSummary(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	members, err := fetchMembers(h.DB, club.ID)
	if err != nil {
		log.Printf("Error fetching members for summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute summary"})
		return
	}

	var (
		wg       sync.WaitGroup
		sponsors []models.Sponsor
		expenses []models.Expense
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		if sponsors, err = fetchSponsors(h.DB, club.ID); err != nil {
			log.Printf("⚠️ Summary: sponsors fetch failed, counting 0: %v", err)
			sponsors = []models.Sponsor{}
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if expenses, err = fetchExpenses(h.DB, club.ID); err != nil {
			log.Printf("⚠️ Summary: expenses fetch failed, counting 0: %v", err)
			expenses = []models.Expense{}
		}
	}()
	wg.Wait()

	summary := services.BuildFinanceSummary(members, sponsors, expenses, services.PricingFromClub(club))

	c.JSON(http.StatusOK, summary)
}

// ============================================================================
// SPONSORS
// ============================================================================

func (h *FinanceHandler) ListSponsors(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	sponsors, err := fetchSponsors(h.DB, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sponsors"})
		return
	}
	c.JSON(http.StatusOK, sponsors)
}

func (h *FinanceHandler) CreateSponsor(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateSponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodicity := req.Periodicity
	if periodicity == "" {
		periodicity = models.PeriodicityYearly
	}

	var s models.Sponsor
	err := h.DB.QueryRow(`
		INSERT INTO sponsors (club_id, name, amount, periodicity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, club.ID, req.Name, services.ParseAmount(req.Amount), periodicity).Scan(&s.ID, &s.CreatedAt)

	if err != nil {
		log.Printf("Error creating sponsor: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sponsor"})
		return
	}

	s.ClubID = club.ID
	s.Name = req.Name
	s.Amount = services.ParseAmount(req.Amount)
	s.Periodicity = periodicity

	utils.SafeInfo("💰 Sponsor added to club %s: %s€ (%s)", club.ID, utils.MaskAmount(s.Amount), s.Periodicity)

	h.WS.BroadcastUpdate(club.ID, "finance", middleware.GetUserEmail(c))

	c.JSON(http.StatusCreated, s)
}

func (h *FinanceHandler) DeleteSponsor(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	sponsorID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM sponsors WHERE id = $1 AND club_id = $2
	`, sponsorID, club.ID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sponsor"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sponsor not found"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "finance", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"message": "Sponsor deleted"})
}

// ============================================================================
// EXPENSES
// ============================================================================

func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	expenses, err := fetchExpenses(h.DB, club.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := req.Category
	if category == "" {
		category = "Autre / Imprévus"
	}
	periodicity := req.Periodicity
	if periodicity == "" {
		periodicity = models.PeriodicityOneOff
	}

	var e models.Expense
	err := h.DB.QueryRow(`
		INSERT INTO expenses (club_id, label, amount, category, periodicity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, club.ID, req.Label, services.ParseAmount(req.Amount), category, periodicity).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		log.Printf("Error creating expense: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	e.ClubID = club.ID
	e.Label = req.Label
	e.Amount = services.ParseAmount(req.Amount)
	e.Category = category
	e.Periodicity = periodicity

	utils.SafeInfo("💸 Expense added to club %s: %s€ (%s)", club.ID, utils.MaskAmount(e.Amount), e.Category)

	h.WS.BroadcastUpdate(club.ID, "finance", middleware.GetUserEmail(c))

	c.JSON(http.StatusCreated, e)
}

func (h *FinanceHandler) DeleteExpense(c *gin.Context) {
	club, ok := requireClub(c, h.DB)
	if !ok {
		return
	}

	expenseID, ok := pathID(c)
	if !ok {
		return
	}

	result, err := h.DB.Exec(`
		DELETE FROM expenses WHERE id = $1 AND club_id = $2
	`, expenseID, club.ID)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	h.WS.BroadcastUpdate(club.ID, "finance", middleware.GetUserEmail(c))

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// ListExpenseCategories exposes the fixed spending grid for the form select.
func (h *FinanceHandler) ListExpenseCategories(c *gin.Context) {
	c.JSON(http.StatusOK, models.ExpenseCategories)
}
