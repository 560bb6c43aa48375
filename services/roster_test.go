package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/chessmanager/club-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBatchDedup(t *testing.T) {
	raw := []models.ScannedMember{
		{LastName: "Dupont", FirstName: "Marie", Elo: float64(1820)},
		{LastName: "DUPONT", FirstName: "marie", Elo: float64(1700)}, // same key, discarded
		{LastName: "Martin", FirstName: "Paul", Elo: "1450"},
	}

	batch := NormalizeBatch(raw, "club-1")

	require.Len(t, batch, 2)
	assert.Equal(t, "DUPONT", batch[0].LastName)
	assert.Equal(t, "Marie", batch[0].FirstName)
	assert.Equal(t, 1820, batch[0].Elo, "first occurrence keeps its elo")
	assert.Equal(t, 1450, batch[1].Elo)
}

// Running the normalization twice over the same batch yields the same rows.
func TestNormalizeBatchIdempotent(t *testing.T) {
	raw := []models.ScannedMember{
		{LastName: "Durand", FirstName: "Luc", Elo: float64(1600)},
		{LastName: "durand", FirstName: "LUC"},
	}
	first := NormalizeBatch(raw, "club-1")
	second := NormalizeBatch(raw, "club-1")
	assert.Equal(t, first, second)
	assert.Len(t, first, 1)
}

func TestNormalizeBatchDefaults(t *testing.T) {
	raw := []models.ScannedMember{
		{LastName: "Petit", FirstName: "Emma", Elo: "n/a", LicenseNumber: "A12345"},
		{LastName: "", FirstName: "Ghost"}, // no last name, dropped
	}
	batch := NormalizeBatch(raw, "club-9")

	require.Len(t, batch, 1)
	m := batch[0]
	assert.Equal(t, 0, m.Elo)
	assert.Equal(t, models.LicensePending, m.LicenseStatus)
	assert.Equal(t, "Adulte", m.Category)
	assert.Equal(t, "club-9", m.ClubID)
	assert.Equal(t, "A12345", m.LicenseNumber)
}

func TestUpsertUsesConflictKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewRosterService(db)
	batch := []models.Member{{
		ClubID: "club-1", FirstName: "Marie", LastName: "DUPONT",
		Elo: 1820, LicenseStatus: models.LicensePending, Category: "Adulte",
	}}

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (first_name, last_name, club_id)")).
		WithArgs("club-1", "Marie", "DUPONT", 1820, "", models.LicensePending, "Adulte").
		WillReturnResult(sqlmock.NewResult(0, 1))

	count, err := svc.Upsert(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilterMembers(t *testing.T) {
	members := []models.Member{
		{FirstName: "Marie", LastName: "Dupont", LicenseStatus: models.LicenseValid},
		{FirstName: "Paul", LastName: "Martin", LicenseStatus: models.LicensePending},
		{FirstName: "Luc", LastName: "Durand", LicenseStatus: models.LicensePending},
	}

	assert.Len(t, FilterMembers(members, "", "tous"), 3)
	assert.Len(t, FilterMembers(members, "mar", ""), 2) // Marie + Martin
	assert.Len(t, FilterMembers(members, "", models.LicensePending), 2)
	assert.Len(t, FilterMembers(members, "paul", models.LicensePending), 1)
	assert.Empty(t, FilterMembers(members, "paul", models.LicenseValid))
}

func TestSortMembers(t *testing.T) {
	members := []models.Member{
		{LastName: "martin", Elo: 1450},
		{LastName: "Dupont", Elo: 1820},
		{LastName: "DURAND", Elo: 0},
	}

	byName := SortMembers(members, "last_name", "asc")
	assert.Equal(t, []string{"Dupont", "DURAND", "martin"},
		[]string{byName[0].LastName, byName[1].LastName, byName[2].LastName})

	byElo := SortMembers(members, "elo", "desc")
	assert.Equal(t, 1820, byElo[0].Elo)
	assert.Equal(t, 0, byElo[2].Elo)

	// input untouched
	assert.Equal(t, "martin", members[0].LastName)
}

func TestNextLicenseStatus(t *testing.T) {
	assert.Equal(t, models.LicenseExpired, NextLicenseStatus(models.LicenseValid))
	assert.Equal(t, models.LicensePending, NextLicenseStatus(models.LicenseExpired))
	assert.Equal(t, models.LicenseValid, NextLicenseStatus(models.LicensePending))
	assert.Equal(t, models.LicenseValid, NextLicenseStatus("")) // unknown resolves to valide
}

func TestBuildMemberStats(t *testing.T) {
	members := []models.Member{
		{Category: "Adulte", LicenseStatus: models.LicenseValid},
		{Category: "Jeune", LicenseStatus: models.LicensePending},
		{Category: "", LicenseStatus: models.LicensePending},
	}
	stats := BuildMemberStats(members)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Adulte) // null category counted as adulte
	assert.Equal(t, 1, stats.Jeune)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.Validated)
	assert.Equal(t, stats.Total, stats.Adulte+stats.Jeune+stats.Retraite)
}
