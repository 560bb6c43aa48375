package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/chessmanager/club-api/models"
)

// ============================================================================
// ROSTER SERVICE
// Normalization and dedup of AI-extracted rows, list sorting/filtering, and
// the idempotent upsert used by the scanner import.
// ============================================================================

type RosterService struct {
	db *sql.DB
}

func NewRosterService(db *sql.DB) *RosterService {
	return &RosterService{db: db}
}

// rosterKey identifies a member within an import batch: uppercased last name
// plus lowercased first name.
func rosterKey(lastName, firstName string) string {
	return strings.ToUpper(strings.TrimSpace(lastName)) + "-" + strings.ToLower(strings.TrimSpace(firstName))
}

// NormalizeBatch turns raw scanner output into rows ready for upsert.
// Last names are uppercased, first names kept as extracted. Duplicate keys
// within the batch are discarded, first occurrence wins (including its elo).
// Rows without a last name are dropped entirely.
func NormalizeBatch(raw []models.ScannedMember, clubID string) []models.Member {
	seen := make(map[string]bool, len(raw))
	out := make([]models.Member, 0, len(raw))

	for _, r := range raw {
		lastName := strings.ToUpper(strings.TrimSpace(r.LastName))
		firstName := strings.TrimSpace(r.FirstName)
		if lastName == "" {
			continue
		}

		key := rosterKey(lastName, firstName)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, models.Member{
			ClubID:        clubID,
			FirstName:     firstName,
			LastName:      lastName,
			Elo:           coerceElo(r.Elo),
			LicenseNumber: strings.TrimSpace(r.LicenseNumber),
			LicenseStatus: models.LicensePending,
			Category:      "Adulte",
		})
	}
	return out
}

// coerceElo accepts whatever the model returned for the rating field. JSON
// numbers arrive as float64, but strings like "1500" or "n/a" happen too.
func coerceElo(v any) int {
	switch e := v.(type) {
	case float64:
		if e < 0 {
			return 0
		}
		return int(e)
	case string:
		return ParseElo(e)
	case int:
		if e < 0 {
			return 0
		}
		return e
	default:
		return 0
	}
}

// Upsert writes a normalized batch against the (first_name, last_name,
// club_id) uniqueness key: re-importing a previously seen member updates the
// existing row instead of creating a second one, so scanner reruns are
// idempotent.
func (s *RosterService) Upsert(ctx context.Context, batch []models.Member) (int, error) {
	query := `
		INSERT INTO members (club_id, first_name, last_name, elo, license_number, license_status, category)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (first_name, last_name, club_id)
		DO UPDATE SET elo = EXCLUDED.elo,
		              license_number = COALESCE(NULLIF(EXCLUDED.license_number, ''), members.license_number),
		              updated_at = NOW()
	`

	count := 0
	for _, m := range batch {
		if _, err := s.db.ExecContext(ctx, query,
			m.ClubID, m.FirstName, m.LastName, m.Elo, m.LicenseNumber, m.LicenseStatus, m.Category); err != nil {
			return count, fmt.Errorf("failed to upsert member %s %s: %w", m.FirstName, m.LastName, err)
		}
		count++
	}
	return count, nil
}

// ============================================================================
// LISTING: FILTER + SORT
// One pure pair shared by the registry and the documents vault so both views
// agree on ordering.
// ============================================================================

// FilterMembers applies the search box (case-insensitive over "first last")
// and the license status quick filter ("tous" or empty keeps everything).
func FilterMembers(members []models.Member, search, status string) []models.Member {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		fullName := strings.ToLower(m.FirstName + " " + m.LastName)
		if search != "" && !strings.Contains(fullName, search) {
			continue
		}
		if status != "" && status != "tous" && m.LicenseStatus != status {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SortMembers orders a copy of the list by any column. Strings compare
// case-insensitively; elo compares numerically with missing values already
// zero. Unknown keys fall back to last_name.
func SortMembers(members []models.Member, key, direction string) []models.Member {
	sorted := make([]models.Member, len(members))
	copy(sorted, members)

	asc := direction != "desc"

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		var less bool
		if key == "elo" {
			if a.Elo == b.Elo {
				return false
			}
			less = a.Elo < b.Elo
		} else {
			va := strings.ToLower(memberField(a, key))
			vb := strings.ToLower(memberField(b, key))
			if va == vb {
				return false
			}
			less = va < vb
		}
		if asc {
			return less
		}
		return !less
	})
	return sorted
}

func memberField(m models.Member, key string) string {
	switch key {
	case "first_name":
		return m.FirstName
	case "license_status":
		return m.LicenseStatus
	case "license_number":
		return m.LicenseNumber
	case "category":
		return m.Category
	default:
		return m.LastName
	}
}

// NextLicenseStatus cycles valide -> expire -> en_attente -> valide.
func NextLicenseStatus(current string) string {
	switch current {
	case models.LicenseValid:
		return models.LicenseExpired
	case models.LicenseExpired:
		return models.LicensePending
	default:
		return models.LicenseValid
	}
}

// BuildMemberStats feeds the dashboard cards from the same categorization the
// finance summary uses, so both screens always agree.
func BuildMemberStats(members []models.Member) models.MemberStats {
	counts := CountByCategory(members)
	stats := models.MemberStats{
		Total:    len(members),
		Adulte:   counts[BucketAdulte],
		Jeune:    counts[BucketJeune],
		Retraite: counts[BucketRetraite],
	}
	for _, m := range members {
		switch m.LicenseStatus {
		case models.LicensePending:
			stats.Pending++
		case models.LicenseValid:
			stats.Validated++
		}
	}
	return stats
}
