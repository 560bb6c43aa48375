// migration/normalize_categories.go
// Script de migration pour ramener les catégories libres des adhérents
// ("adultes", "retraité", "JEUNE -16", encodages cassés...) vers les trois
// valeurs canoniques Adulte / Jeune / Retraité.
//
// USAGE:
// 1. Appeler NormalizeMemberCategories() depuis un endpoint admin
// 2. Le script est idempotent : relancer ne change rien de plus

package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"
)

// Valeurs canoniques
const (
	CategoryAdulte   = "Adulte"
	CategoryJeune    = "Jeune"
	CategoryRetraite = "Retraité"
)

// Map pour normaliser les variantes saisies à la main au fil des saisons
// (pluriels, casse, accents perdus, mojibake UTF-8)
var CATEGORY_VARIANTS = map[string]string{
	// Standard
	"Adulte": CategoryAdulte, "adulte": CategoryAdulte,
	"Adultes": CategoryAdulte, "adultes": CategoryAdulte,
	"Jeune": CategoryJeune, "jeune": CategoryJeune,
	"Jeunes": CategoryJeune, "jeunes": CategoryJeune,
	"Retraité": CategoryRetraite, "retraité": CategoryRetraite,
	"Retraite": CategoryRetraite, "retraite": CategoryRetraite,
	"Retraités": CategoryRetraite, "retraités": CategoryRetraite,
	"Retraites": CategoryRetraite, "retraites": CategoryRetraite,
	// Encodage UTF-8 mojibake (caractères mal décodés)
	"RetraitÃ©":  CategoryRetraite,
	"RetraitÃ©s": CategoryRetraite,
}

// normalizeCategory ramène une saisie libre vers sa valeur canonique.
// Les variantes inconnues sont résolues par sous-chaîne (même règle que le
// calcul de trésorerie) pour que "Jeune -16 ans" devienne "Jeune".
func normalizeCategory(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if canonical, ok := CATEGORY_VARIANTS[trimmed]; ok {
		return canonical, canonical != trimmed
	}

	lower := strings.ToLower(trimmed)
	lower = strings.NewReplacer("é", "e", "è", "e", "ê", "e").Replace(lower)
	switch {
	case strings.Contains(lower, "retraite"):
		return CategoryRetraite, CategoryRetraite != trimmed
	case strings.Contains(lower, "jeune"):
		return CategoryJeune, CategoryJeune != trimmed
	case strings.Contains(lower, "adulte"):
		return CategoryAdulte, CategoryAdulte != trimmed
	}

	// Catégorie vraiment inconnue : on ne touche pas, le calcul de cotisation
	// la comptera en Adulte de toute façon.
	return trimmed, false
}

// NormalizeMemberCategories parcourt les adhérents (d'un club, ou de tous si
// clubID est vide) et réécrit les catégories non canoniques.
func NormalizeMemberCategories(ctx context.Context, db *sql.DB, clubID string) (map[string]interface{}, error) {
	start := time.Now()

	var rows *sql.Rows
	var err error

	if clubID != "" {
		rows, err = db.QueryContext(ctx, `
			SELECT id, COALESCE(category, '') FROM members WHERE club_id = $1
		`, clubID)
	} else {
		rows, err = db.QueryContext(ctx, `
			SELECT id, COALESCE(category, '') FROM members
		`)
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	type change struct {
		id       string
		category string
	}

	var changes []change
	scanned := 0
	for rows.Next() {
		var id, category string
		if err := rows.Scan(&id, &category); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		scanned++

		if canonical, changed := normalizeCategory(category); changed {
			changes = append(changes, change{id: id, category: canonical})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iteration failed: %w", err)
	}

	updated := 0
	for _, ch := range changes {
		if _, err := db.ExecContext(ctx, `
			UPDATE members SET category = $1, updated_at = NOW() WHERE id = $2
		`, ch.category, ch.id); err != nil {
			log.Printf("⚠️ Failed to normalize member %s: %v", ch.id, err)
			continue
		}
		updated++
	}

	log.Printf("✅ Category normalization: %d scanned, %d updated (%v)", scanned, updated, time.Since(start))

	return map[string]interface{}{
		"scanned":  scanned,
		"updated":  updated,
		"duration": time.Since(start).String(),
	}, nil
}
