package models

import "time"

// License statuses cycle valide -> expire -> en_attente -> valide.
const (
	LicensePending = "en_attente"
	LicenseValid   = "valide"
	LicenseExpired = "expire"
)

type Member struct {
	ID              string    `json:"id"`
	ClubID          string    `json:"club_id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Elo             int       `json:"elo"`
	LicenseNumber   string    `json:"license_number,omitempty"`
	LicenseStatus   string    `json:"license_status"`
	Category        string    `json:"category"`
	DocCertificat   string    `json:"doc_certificat,omitempty"`
	DocAutorisation string    `json:"doc_autorisation,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateMemberRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Elo           string `json:"elo"` // free text from the form, non-numeric becomes 0
	LicenseNumber string `json:"license_number"`
	LicenseStatus string `json:"license_status"`
	Category      string `json:"category"`
}

// ScannedMember is one row extracted from a roster image by the AI
// collaborator, before normalization.
type ScannedMember struct {
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Elo           any    `json:"elo"` // the model sometimes returns strings
	LicenseNumber string `json:"license_number,omitempty"`
}

type ScanResult struct {
	Extracted int      `json:"extracted"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	Members   []Member `json:"members"`
}

// MemberStats backs the dashboard cards. Category counts come from the same
// categorization function the finance summary uses.
type MemberStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Validated int `json:"validated"`
	Adulte    int `json:"adulte"`
	Jeune     int `json:"jeune"`
	Retraite  int `json:"retraite"`
}
