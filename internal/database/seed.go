package database

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/reliant-hq/quote-api/internal/config"
	"github.com/reliant-hq/quote-api/internal/models"
)

// EnsureSeedData inserts the role set, a Manager account and the product
// catalogue when the corresponding tables are empty. Safe to run on every
// startup.
func EnsureSeedData(db *DB, cfg *config.Config) error {
	ctx := context.Background()

	if err := seedRoles(ctx, db); err != nil {
		return err
	}
	if err := seedAdminUser(ctx, db, cfg); err != nil {
		return err
	}
	if err := seedProducts(ctx, db); err != nil {
		return err
	}
	return nil
}

func seedRoles(ctx context.Context, db *DB) error {
	for _, name := range []string{models.RoleManager, models.RoleSales} {
		_, err := db.Pool.Exec(ctx,
			"INSERT INTO roles (name) VALUES ($1) ON CONFLICT (name) DO NOTHING",
			name,
		)
		if err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, db *DB, cfg *config.Config) error {
	if cfg.AdminPassword == "" {
		log.Println("ADMIN_PASSWORD not set, skipping manager account creation")
		return nil
	}

	// Check if the account exists
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)",
		cfg.AdminEmail,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check for manager account: %w", err)
	}

	if exists {
		log.Println("Manager account already exists")
		return nil
	}

	// Hash password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash manager password: %w", err)
	}

	var userID int
	err = db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, full_name, is_active)
		VALUES ($1, $2, 'Manager', true)
		RETURNING id
	`, cfg.AdminEmail, string(hashedPassword)).Scan(&userID)
	if err != nil {
		return fmt.Errorf("failed to create manager account: %w", err)
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
	`, userID, models.RoleManager)
	if err != nil {
		return fmt.Errorf("failed to assign manager role: %w", err)
	}

	log.Printf("Manager account created: %s", cfg.AdminEmail)
	return nil
}

// seedProducts loads the standard catalogue once. Base prices are the
// fallback unit prices the pricing pipeline uses when prediction fails.
func seedProducts(ctx context.Context, db *DB) error {
	var count int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	products := []struct {
		name        string
		productType string
		basePrice   string
	}{
		{"uPVC Casement Window", "window", "220.00"},
		{"uPVC Tilt-Turn Window", "window", "260.00"},
		{"Composite Door", "door", "750.00"},
		{"Aluminium Bi-fold Door (panel)", "door", "600.00"},
		{"Lean-to Conservatory Kit (m²)", "conservatory", "350.00"},
		{"Edwardian Conservatory Kit (m²)", "conservatory", "420.00"},
	}

	for _, p := range products {
		_, err := db.Pool.Exec(ctx,
			"INSERT INTO products (name, product_type, base_price) VALUES ($1, $2, $3)",
			p.name, p.productType, p.basePrice,
		)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
	}

	log.Printf("Seeded %d catalogue products", len(products))
	return nil
}
