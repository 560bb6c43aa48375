package services

import (
	"strconv"
	"strings"

	"github.com/chessmanager/club-api/models"
)

// ============================================================================
// FINANCE CORE
// Pure computation over already-fetched rows. No I/O here: handlers fetch the
// collections and feed them in, so the same numbers come out for the same
// inputs every time.
// ============================================================================

// Member category buckets. Every member lands in exactly one of them.
const (
	BucketAdulte   = "adulte"
	BucketJeune    = "jeune"
	BucketRetraite = "retraite"
)

// CategorizeMember maps a free-text member category onto a dues bucket.
// Matching is case and accent insensitive and works on substrings, so
// "Retraité", "retraites" or "Jeunes -16" all land where expected. Anything
// unrecognized (including empty) counts as adulte: unknown members are never
// dropped from the dues computation.
func CategorizeMember(category string) string {
	cat := strings.ToLower(category)
	cat = strings.NewReplacer("é", "e", "è", "e", "ê", "e").Replace(cat)
	switch {
	case strings.Contains(cat, "retraite"):
		return BucketRetraite
	case strings.Contains(cat, "jeune"):
		return BucketJeune
	default:
		return BucketAdulte
	}
}

// CountByCategory buckets a roster. sum of counts == len(members) always.
func CountByCategory(members []models.Member) map[string]int {
	counts := map[string]int{BucketAdulte: 0, BucketJeune: 0, BucketRetraite: 0}
	for _, m := range members {
		counts[CategorizeMember(m.Category)]++
	}
	return counts
}

// Pricing holds the per-category yearly dues rates.
type Pricing struct {
	Adulte   float64
	Jeune    float64
	Retraite float64
}

// PricingFromClub coerces the club's price fields, treating anything missing
// as 0 rather than an error.
func PricingFromClub(club *models.Club) Pricing {
	if club == nil {
		return Pricing{}
	}
	return Pricing{
		Adulte:   club.PriceAdulte,
		Jeune:    club.PriceJeune,
		Retraite: club.PriceRetraite,
	}
}

// DuesRevenue is linear in each bucket count. An empty roster yields 0.
func DuesRevenue(counts map[string]int, pricing Pricing) float64 {
	return float64(counts[BucketAdulte])*pricing.Adulte +
		float64(counts[BucketJeune])*pricing.Jeune +
		float64(counts[BucketRetraite])*pricing.Retraite
}

// Annualize projects a row onto the fiscal year: monthly rows count twelve
// times, every other periodicity ("annuel", "ponctuel", unknown) is taken as
// an already-annual or one-off figure. Nothing is prorated by elapsed months.
func Annualize(amount float64, periodicity string) float64 {
	if periodicity == models.PeriodicityMonthly {
		return amount * 12
	}
	return amount
}

func SponsorRevenue(sponsors []models.Sponsor) float64 {
	var total float64
	for _, s := range sponsors {
		total += Annualize(s.Amount, s.Periodicity)
	}
	return total
}

func ExpenseTotal(expenses []models.Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += Annualize(e.Amount, e.Periodicity)
	}
	return total
}

// ExpensesByCategory groups rows by their fixed category label, each group
// summed with the same per-row rule as ExpenseTotal. Display only: the grand
// total of the groups equals ExpenseTotal exactly.
func ExpensesByCategory(expenses []models.Expense) map[string]float64 {
	byCat := make(map[string]float64)
	for _, e := range expenses {
		byCat[e.Category] += Annualize(e.Amount, e.Periodicity)
	}
	return byCat
}

// BuildFinanceSummary computes the club's net yearly snapshot:
// dues + sponsor revenue - expenses. May be negative.
func BuildFinanceSummary(members []models.Member, sponsors []models.Sponsor, expenses []models.Expense, pricing Pricing) models.FinanceSummary {
	counts := CountByCategory(members)
	dues := DuesRevenue(counts, pricing)
	sponsorRev := SponsorRevenue(sponsors)
	expenseTot := ExpenseTotal(expenses)

	return models.FinanceSummary{
		Counts:         counts,
		DuesRevenue:    dues,
		SponsorRevenue: sponsorRev,
		ExpenseTotal:   expenseTot,
		NetBalance:     dues + sponsorRev - expenseTot,
		ByCategory:     ExpensesByCategory(expenses),
		SponsorCount:   len(sponsors),
		ExpenseCount:   len(expenses),
	}
}

// ParseAmount coerces a form value to a float. Empty or non-numeric input is
// worth 0, never an error: a typo in one row must not break the whole total.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ParseElo coerces a form or AI value to an integer rating, non-numeric
// becomes 0.
func ParseElo(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
