package config

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/roamtours/tourdesk/internal/store"
)

// EnsureDefaultAdmin creates the bootstrap admin account on first start.
func EnsureDefaultAdmin(cfg *Config, db *store.DB) error {
	ctx := context.Background()

	var count int
	err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users WHERE email = $1", cfg.AdminEmail).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check existing admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO users (first_name, last_name, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
	`, "Tourdesk", "Admin", cfg.AdminEmail, string(hashedPassword), "admin")
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
