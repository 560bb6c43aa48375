package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessmanager/club-api/models"
)

const (
	testUserID = "11111111-1111-1111-1111-111111111111"
	testClubID = "22222222-2222-2222-2222-222222222222"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/finance/summary", nil)
	c.Set("user_id", testUserID)
	c.Set("user_email", "tresorier@club.fr")
	return c, rec
}

func expectClubRow(mock sqlmock.Sqlmock, priceAdulte, priceJeune, priceRetraite float64) {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "address", "admin_id",
		"price_adulte", "price_jeune", "price_retraite",
		"primary_color", "secondary_color", "accent_color",
		"border_radius", "font_family", "custom_font", "slogan", "logo_url",
		"created_at", "updated_at",
	}).AddRow(
		testClubID, "Échiquier Test", "1 rue du Roque", testUserID,
		priceAdulte, priceJeune, priceRetraite,
		nil, nil, nil,
		nil, nil, nil, nil, nil,
		now, now,
	)
	mock.ExpectQuery(`SELECT id, name, address, admin_id`).
		WithArgs(testUserID).
		WillReturnRows(rows)
}

func TestGetSummaryComputesNetFromCurrentRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// Sponsors and expenses load concurrently, their order is not fixed.
	mock.MatchExpectationsInOrder(false)

	expectClubRow(mock, 120, 60, 80)

	now := time.Now()
	memberRows := sqlmock.NewRows([]string{
		"id", "club_id", "first_name", "last_name", "elo",
		"license_number", "license_status", "category",
		"doc_certificat", "doc_autorisation", "created_at", "updated_at",
	}).
		AddRow("m1", testClubID, "Alice", "DUPONT", 1500, "", "valide", "Adulte", "", "", now, now).
		AddRow("m2", testClubID, "Basile", "MARTIN", 1100, "", "en_attente", "Jeune", "", "", now, now).
		AddRow("m3", testClubID, "Colette", "BERNARD", 1300, "", "valide", "Retraité", "", "", now, now)
	mock.ExpectQuery(`SELECT id, club_id, first_name, last_name, elo`).
		WithArgs(testClubID).
		WillReturnRows(memberRows)

	sponsorRows := sqlmock.NewRows([]string{"id", "club_id", "name", "amount", "periodicity", "created_at"}).
		AddRow("s1", testClubID, "Boulangerie", 50.0, "mensuel", now).
		AddRow("s2", testClubID, "Mairie", 100.0, "annuel", now)
	mock.ExpectQuery(`SELECT id, club_id, name, amount, periodicity, created_at`).
		WithArgs(testClubID).
		WillReturnRows(sponsorRows)

	expenseRows := sqlmock.NewRows([]string{"id", "club_id", "label", "amount", "category", "periodicity", "created_at"}).
		AddRow("e1", testClubID, "Loyer", 30.0, "Locaux : Loyer & Charges", "mensuel", now).
		AddRow("e2", testClubID, "Pendules", 150.0, "Matériel & Logiciels", "ponctuel", now)
	mock.ExpectQuery(`SELECT id, club_id, label, amount, category, periodicity, created_at`).
		WithArgs(testClubID).
		WillReturnRows(expenseRows)

	c, rec := newTestContext(t)
	h := &FinanceHandler{DB: db}
	h.GetSummary(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.FinanceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

	// Dues: 120 + 60 + 80. Sponsors: 50*12 + 100. Expenses: 30*12 + 150.
	assert.InDelta(t, 260, summary.DuesRevenue, 0.001)
	assert.InDelta(t, 700, summary.SponsorRevenue, 0.001)
	assert.InDelta(t, 510, summary.ExpenseTotal, 0.001)
	assert.InDelta(t, 450, summary.NetBalance, 0.001)
	assert.Equal(t, 1, summary.Counts["adulte"])
	assert.Equal(t, 1, summary.Counts["jeune"])
	assert.Equal(t, 1, summary.Counts["retraite"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSummaryWithoutClubReturns404(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name, address, admin_id`).
		WithArgs(testUserID).
		WillReturnError(sql.ErrNoRows)

	c, rec := newTestContext(t)
	h := &FinanceHandler{DB: db}
	h.GetSummary(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSummaryToleratesSponsorFetchFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.MatchExpectationsInOrder(false)

	expectClubRow(mock, 100, 50, 70)

	now := time.Now()
	memberRows := sqlmock.NewRows([]string{
		"id", "club_id", "first_name", "last_name", "elo",
		"license_number", "license_status", "category",
		"doc_certificat", "doc_autorisation", "created_at", "updated_at",
	}).AddRow("m1", testClubID, "Alice", "DUPONT", 1500, "", "valide", "Adulte", "", "", now, now)
	mock.ExpectQuery(`SELECT id, club_id, first_name, last_name, elo`).
		WithArgs(testClubID).
		WillReturnRows(memberRows)

	mock.ExpectQuery(`SELECT id, club_id, name, amount, periodicity, created_at`).
		WithArgs(testClubID).
		WillReturnError(assert.AnError)

	expenseRows := sqlmock.NewRows([]string{"id", "club_id", "label", "amount", "category", "periodicity", "created_at"}).
		AddRow("e1", testClubID, "Arbitrage", 40.0, "Frais d'Arbitrage", "ponctuel", now)
	mock.ExpectQuery(`SELECT id, club_id, label, amount, category, periodicity, created_at`).
		WithArgs(testClubID).
		WillReturnRows(expenseRows)

	c, rec := newTestContext(t)
	h := &FinanceHandler{DB: db}
	h.GetSummary(c)

	// A failing collection counts as empty, the summary still answers.
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.FinanceSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.InDelta(t, 0, summary.SponsorRevenue, 0.001)
	assert.InDelta(t, 40, summary.ExpenseTotal, 0.001)
	assert.InDelta(t, 60, summary.NetBalance, 0.001)
}
