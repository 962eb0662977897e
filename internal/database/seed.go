package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user, the fallback category, and a pair of sample posts. It is a
// no-op if users already exist. The admin will be prompted to set up 2FA
// on first login (totp_enabled = false).
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, "admin@inkwell.local", string(hash), "Admin", "admin", false).Scan(&adminID)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var categoryID string
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description)
		VALUES ('Uncategorized', 'uncategorized', 'Default category for posts without a specific category.')
		ON CONFLICT (slug) DO UPDATE SET updated_at = NOW()
		RETURNING id
	`).Scan(&categoryID)
	if err != nil {
		return fmt.Errorf("seed insert default category: %w", err)
	}

	// One published and one draft post so the public site and the
	// dashboard both have something to show immediately.
	_, err = db.Exec(`
		INSERT INTO posts (title, slug, body, body_format, status, category_id, author_id, published_at)
		VALUES
			('Welcome to Inkwell', 'welcome-to-inkwell',
			 '<p>This is your first published post. Edit or delete it from the dashboard.</p>',
			 'html', 'published', $1, $2, NOW()),
			('Draft ideas', 'draft-ideas',
			 '<p>Drafts are only visible from the dashboard.</p>',
			 'html', 'draft', $1, $2, NULL)
	`, categoryID, adminID)
	if err != nil {
		return fmt.Errorf("seed insert posts: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@inkwell.local",
		"password", "admin",
	)

	return nil
}
