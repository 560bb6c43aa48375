package models

import "time"

// Club is the tenant of the whole API: every member, sponsor, expense and
// event row belongs to exactly one club and is never aggregated across clubs.
type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" binding:"required"`
	Address   string    `json:"address,omitempty"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Dues pricing, one rate per member category (yearly amounts).
	PriceAdulte   float64 `json:"price_adulte"`
	PriceJeune    float64 `json:"price_jeune"`
	PriceRetraite float64 `json:"price_retraite"`

	// Branding / theming, persisted as plain columns and consumed as-is by
	// the front-end.
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	AccentColor    string `json:"accent_color,omitempty"`
	BorderRadius   string `json:"border_radius,omitempty"`
	FontFamily     string `json:"font_family,omitempty"`
	CustomFont     string `json:"custom_font,omitempty"`
	Slogan         string `json:"slogan,omitempty"`
	LogoURL        string `json:"logo_url,omitempty"`
}

type CreateClubRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
}

// ThemeUpdateRequest carries a single club attribute change (the settings
// screen saves field by field). The handler whitelists the field name.
type ThemeUpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type AIDesignRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// AIDesignConfig is the JSON object the design assistant is asked to return.
// Empty fields are left untouched.
type AIDesignConfig struct {
	PrimaryColor   string `json:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty"`
	AccentColor    string `json:"accent_color,omitempty"`
	BorderRadius   string `json:"border_radius,omitempty"`
	CustomFont     string `json:"custom_font,omitempty"`
	Slogan         string `json:"slogan,omitempty"`
}
