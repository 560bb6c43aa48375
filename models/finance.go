package models

import "time"

// Periodicity tags. A "mensuel" row counts twelve times in yearly totals;
// "annuel" and "ponctuel" are already yearly/one-off figures.
const (
	PeriodicityMonthly = "mensuel"
	PeriodicityYearly  = "annuel"
	PeriodicityOneOff  = "ponctuel"
)

// Sponsor is a recurring or one-time income outside dues (grants, patronage).
type Sponsor struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	Name        string    `json:"name"`
	Amount      float64   `json:"amount"`
	Periodicity string    `json:"periodicity"`
	CreatedAt   time.Time `json:"created_at"`
}

type Expense struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	Label       string    `json:"label"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Periodicity string    `json:"periodicity"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExpenseCategories is the fixed spending grid the treasury screen groups by.
var ExpenseCategories = []string{
	"FFE : Licences & Affiliations",
	"Rémunérations Entraîneurs",
	"Matériel & Logiciels",
	"Déplacements & Indemnités",
	"Locaux : Loyer & Charges",
	"Communication & Marketing",
	"Événements : Prix & Coupes",
	"Frais d'Arbitrage",
	"Assurances & Banque",
	"Buvette : Achats Stocks",
	"Autre / Imprévus",
}

type CreateSponsorRequest struct {
	Name        string `json:"name" binding:"required"`
	Amount      string `json:"amount" binding:"required"` // form input, coerced to float
	Periodicity string `json:"periodicity"`
}

type CreateExpenseRequest struct {
	Label       string `json:"label" binding:"required"`
	Amount      string `json:"amount" binding:"required"`
	Category    string `json:"category"`
	Periodicity string `json:"periodicity"`
}

// FinanceSummary is the net snapshot recomputed from current rows on every
// request. There is no persisted balance.
type FinanceSummary struct {
	Counts         map[string]int     `json:"counts"`
	DuesRevenue    float64            `json:"dues_revenue"`
	SponsorRevenue float64            `json:"sponsor_revenue"`
	ExpenseTotal   float64            `json:"expense_total"`
	NetBalance     float64            `json:"net_balance"`
	ByCategory     map[string]float64 `json:"expenses_by_category"`
	SponsorCount   int                `json:"sponsor_count"`
	ExpenseCount   int                `json:"expense_count"`
}
