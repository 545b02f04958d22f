package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/reliant-hq/quote-api/internal/models"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
)

// CreateQuote writes the assembled aggregate (root + items) in a single
// transaction and fills in the generated identifiers. The customer display
// name is resolved with a secondary read after the transaction commits.
func (db *DB) CreateQuote(ctx context.Context, quote *models.Quote) (*models.Quote, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (customer_id, status, subtotal, vat, total, created_by_user_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, quote.CustomerID, quote.Status, quote.Subtotal, quote.Vat, quote.Total,
		quote.CreatedByUserID, quote.Notes,
	).Scan(&quote.ID, &quote.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert quote: %w", err)
	}

	for i := range quote.Items {
		item := &quote.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO quote_items (
				quote_id, product_id, width_mm, height_mm, material, glazing,
				color_tier, hardware_tier, install_complexity, qty,
				unit_price, line_total, is_ai_priced, ai_confidence
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id
		`, quote.ID, item.ProductID, item.WidthMm, item.HeightMm, item.Material, item.Glazing,
			item.ColorTier, item.HardwareTier, item.InstallComplexity, item.Qty,
			item.UnitPrice, item.LineTotal, item.IsAiPriced, item.AiConfidence,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to insert quote item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit quote: %w", err)
	}

	// Hydrate the customer display name for the response
	err = db.Pool.QueryRow(ctx,
		"SELECT name FROM customers WHERE id = $1", quote.CustomerID,
	).Scan(&quote.CustomerName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer name: %w", err)
	}

	return quote, nil
}

// GetQuoteByID retrieves a quote with its items, hydrated with customer and
// product display names
func (db *DB) GetQuoteByID(ctx context.Context, id int) (*models.Quote, error) {
	q := &models.Quote{}

	err := db.Pool.QueryRow(ctx, `
		SELECT q.id, q.customer_id, c.name, q.status, q.subtotal, q.vat, q.total,
		       q.created_at, q.created_by_user_id, q.notes
		FROM quotes q
		JOIN customers c ON q.customer_id = c.id
		WHERE q.id = $1
	`, id).Scan(
		&q.ID, &q.CustomerID, &q.CustomerName, &q.Status, &q.Subtotal, &q.Vat, &q.Total,
		&q.CreatedAt, &q.CreatedByUserID, &q.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}

	if q.Items, err = db.getQuoteItems(ctx, q.ID); err != nil {
		return nil, err
	}

	return q, nil
}

// ListQuotesByCustomer returns a customer's quotes, newest first
func (db *DB) ListQuotesByCustomer(ctx context.Context, customerID int) ([]*models.Quote, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT q.id, q.customer_id, c.name, q.status, q.subtotal, q.vat, q.total,
		       q.created_at, q.created_by_user_id, q.notes
		FROM quotes q
		JOIN customers c ON q.customer_id = c.id
		WHERE q.customer_id = $1
		ORDER BY q.created_at DESC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		q := &models.Quote{}
		err := rows.Scan(
			&q.ID, &q.CustomerID, &q.CustomerName, &q.Status, &q.Subtotal, &q.Vat, &q.Total,
			&q.CreatedAt, &q.CreatedByUserID, &q.Notes,
		)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, q := range quotes {
		if q.Items, err = db.getQuoteItems(ctx, q.ID); err != nil {
			return nil, err
		}
	}

	return quotes, nil
}

func (db *DB) getQuoteItems(ctx context.Context, quoteID int) ([]models.QuoteItem, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT qi.id, qi.product_id, p.name, qi.width_mm, qi.height_mm, qi.material,
		       qi.glazing, qi.color_tier, qi.hardware_tier, qi.install_complexity,
		       qi.qty, qi.unit_price, qi.line_total, qi.is_ai_priced, qi.ai_confidence
		FROM quote_items qi
		JOIN products p ON qi.product_id = p.id
		WHERE qi.quote_id = $1
		ORDER BY qi.id
	`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.QuoteItem{}
	for rows.Next() {
		var item models.QuoteItem
		err := rows.Scan(
			&item.ID, &item.ProductID, &item.ProductName, &item.WidthMm, &item.HeightMm,
			&item.Material, &item.Glazing, &item.ColorTier, &item.HardwareTier,
			&item.InstallComplexity, &item.Qty, &item.UnitPrice, &item.LineTotal,
			&item.IsAiPriced, &item.AiConfidence,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateQuoteStatus sets the status of an existing quote
func (db *DB) UpdateQuoteStatus(ctx context.Context, id int, status string) error {
	result, err := db.Pool.Exec(ctx,
		"UPDATE quotes SET status = $2 WHERE id = $1", id, status,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}

	return nil
}
