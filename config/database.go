package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			email_verified BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS clubs (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			address TEXT,
			admin_id UUID UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			price_adulte NUMERIC(10,2) DEFAULT 0,
			price_jeune NUMERIC(10,2) DEFAULT 0,
			price_retraite NUMERIC(10,2) DEFAULT 0,
			primary_color VARCHAR(50),
			secondary_color VARCHAR(50),
			accent_color VARCHAR(50),
			border_radius VARCHAR(50),
			font_family VARCHAR(100),
			custom_font VARCHAR(100),
			slogan TEXT,
			logo_url TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS members (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			club_id UUID REFERENCES clubs(id) ON DELETE CASCADE,
			first_name VARCHAR(255) NOT NULL,
			last_name VARCHAR(255) NOT NULL,
			elo INTEGER DEFAULT 0,
			license_number VARCHAR(50),
			license_status VARCHAR(50) DEFAULT 'en_attente',
			category VARCHAR(100) DEFAULT 'Adulte',
			doc_certificat TEXT,
			doc_autorisation TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(first_name, last_name, club_id)
		)`,

		`CREATE TABLE IF NOT EXISTS sponsors (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			club_id UUID REFERENCES clubs(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			periodicity VARCHAR(50) DEFAULT 'annuel',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			club_id UUID REFERENCES clubs(id) ON DELETE CASCADE,
			label VARCHAR(255) NOT NULL,
			amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			category VARCHAR(100) DEFAULT 'Autre / Imprévus',
			periodicity VARCHAR(50) DEFAULT 'ponctuel',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			club_id UUID REFERENCES clubs(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP,
			location TEXT,
			category VARCHAR(100) DEFAULT 'Autre',
			visibility_tag VARCHAR(50),
			description TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS email_verifications (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			token VARCHAR(255) NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_members_club_id ON members(club_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sponsors_club_id ON sponsors(club_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_club_id ON expenses(club_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_club_id ON events(club_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start_date ON events(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_email_verifications_token ON email_verifications(token)`,

		// Patch lines for databases created before these columns existed
		`ALTER TABLE clubs ADD COLUMN IF NOT EXISTS slogan TEXT`,
		`ALTER TABLE clubs ADD COLUMN IF NOT EXISTS custom_font VARCHAR(100)`,
		`ALTER TABLE members ADD COLUMN IF NOT EXISTS doc_certificat TEXT`,
		`ALTER TABLE members ADD COLUMN IF NOT EXISTS doc_autorisation TEXT`,
		`ALTER TABLE events ADD COLUMN IF NOT EXISTS visibility_tag VARCHAR(50)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
