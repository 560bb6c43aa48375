package services

import (
	"math/rand"
	"testing"

	"github.com/chessmanager/club-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorizeMember(t *testing.T) {
	cases := []struct {
		category string
		want     string
	}{
		{"Adulte", BucketAdulte},
		{"adultes", BucketAdulte},
		{"Jeune", BucketJeune},
		{"Jeunes -16", BucketJeune},
		{"Retraite", BucketRetraite},
		{"Retraité", BucketRetraite},
		{"retraités", BucketRetraite},
		{"", BucketAdulte},
		{"Vétéran", BucketAdulte}, // unknown never dropped, falls back to adulte
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CategorizeMember(tc.category), "category %q", tc.category)
	}
}

func TestCountByCategoryCoversEveryMember(t *testing.T) {
	members := []models.Member{
		{Category: "Adulte"},
		{Category: "jeune"},
		{Category: "Retraité"},
		{Category: ""},
		{Category: "???"},
	}
	counts := CountByCategory(members)
	total := counts[BucketAdulte] + counts[BucketJeune] + counts[BucketRetraite]
	assert.Equal(t, len(members), total)
	assert.Equal(t, 3, counts[BucketAdulte]) // empty + unknown count as adulte
}

func TestAnnualize(t *testing.T) {
	assert.Equal(t, 120.0, Annualize(10, models.PeriodicityMonthly))
	assert.Equal(t, 10.0, Annualize(10, models.PeriodicityYearly))
	assert.Equal(t, 10.0, Annualize(10, models.PeriodicityOneOff))
	assert.Equal(t, 10.0, Annualize(10, "")) // unknown periodicity is not multiplied
}

// The worked example from the treasury screen: 2 adults, 1 junior, 1 retiree
// at 50/20/30, one yearly sponsor of 100 and one monthly of 50, one one-off
// expense of 40 and one monthly of 10.
func TestBuildFinanceSummaryScenario(t *testing.T) {
	members := []models.Member{
		{Category: "Adulte"},
		{Category: "Adulte"},
		{Category: "Jeune"},
		{Category: "Retraite"},
	}
	sponsors := []models.Sponsor{
		{Amount: 100, Periodicity: models.PeriodicityYearly},
		{Amount: 50, Periodicity: models.PeriodicityMonthly},
	}
	expenses := []models.Expense{
		{Amount: 40, Periodicity: models.PeriodicityOneOff, Category: "Matériel & Logiciels"},
		{Amount: 10, Periodicity: models.PeriodicityMonthly, Category: "Assurances & Banque"},
	}
	pricing := Pricing{Adulte: 50, Jeune: 20, Retraite: 30}

	summary := BuildFinanceSummary(members, sponsors, expenses, pricing)

	assert.Equal(t, 150.0, summary.DuesRevenue)
	assert.Equal(t, 700.0, summary.SponsorRevenue)
	assert.Equal(t, 160.0, summary.ExpenseTotal)
	assert.Equal(t, 690.0, summary.NetBalance)
	assert.Equal(t, 40.0, summary.ByCategory["Matériel & Logiciels"])
	assert.Equal(t, 120.0, summary.ByCategory["Assurances & Banque"])
}

func TestNetBalanceCanGoNegative(t *testing.T) {
	expenses := []models.Expense{{Amount: 500, Periodicity: models.PeriodicityOneOff}}
	summary := BuildFinanceSummary(nil, nil, expenses, Pricing{})
	assert.Equal(t, -500.0, summary.NetBalance)
}

func TestEmptyInputsYieldZero(t *testing.T) {
	summary := BuildFinanceSummary(nil, nil, nil, Pricing{Adulte: 50})
	assert.Zero(t, summary.DuesRevenue)
	assert.Zero(t, summary.SponsorRevenue)
	assert.Zero(t, summary.ExpenseTotal)
	assert.Zero(t, summary.NetBalance)
}

// Summing rows in any order must give the same totals.
func TestTotalsAreOrderIndependent(t *testing.T) {
	sponsors := []models.Sponsor{
		{Amount: 100, Periodicity: models.PeriodicityYearly},
		{Amount: 50, Periodicity: models.PeriodicityMonthly},
		{Amount: 12.5, Periodicity: models.PeriodicityYearly},
		{Amount: 7, Periodicity: models.PeriodicityMonthly},
	}
	want := SponsorRevenue(sponsors)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Sponsor, len(sponsors))
		copy(shuffled, sponsors)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		assert.InDelta(t, want, SponsorRevenue(shuffled), 1e-9)
	}
}

// The category view must reproduce the per-row rule of the grand total:
// no double annualization, no separate rounding.
func TestByCategoryMatchesExpenseTotal(t *testing.T) {
	expenses := []models.Expense{
		{Amount: 40, Periodicity: models.PeriodicityOneOff, Category: "Matériel & Logiciels"},
		{Amount: 10, Periodicity: models.PeriodicityMonthly, Category: "Matériel & Logiciels"},
		{Amount: 33.33, Periodicity: models.PeriodicityMonthly, Category: "Buvette : Achats Stocks"},
	}
	byCat := ExpensesByCategory(expenses)

	var grouped float64
	for _, v := range byCat {
		grouped += v
	}
	assert.InDelta(t, ExpenseTotal(expenses), grouped, 1e-9)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 12.5, ParseAmount("12.5"))
	assert.Equal(t, 12.5, ParseAmount("12,5"))
	assert.Equal(t, 0.0, ParseAmount(""))
	assert.Equal(t, 0.0, ParseAmount("abc"))
	assert.Equal(t, 0.0, ParseAmount("-3"))
}

func TestParseElo(t *testing.T) {
	assert.Equal(t, 1500, ParseElo(" 1500 "))
	assert.Equal(t, 0, ParseElo("N/A"))
	assert.Equal(t, 0, ParseElo(""))
}

// The dashboard stats and the finance summary must count a null category the
// same way.
func TestNullCategoryConsistency(t *testing.T) {
	members := []models.Member{{Category: ""}}
	counts := CountByCategory(members)
	require.Equal(t, 1, counts[BucketAdulte])

	summary := BuildFinanceSummary(members, nil, nil, Pricing{Adulte: 50})
	assert.Equal(t, 50.0, summary.DuesRevenue)
	assert.Equal(t, counts, summary.Counts)
}
