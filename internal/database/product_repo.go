package database

import (
	"context"
	"errors"

	"github.com/reliant-hq/quote-api/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ListProducts returns the product catalogue ordered by name
func (db *DB) ListProducts(ctx context.Context) ([]*models.Product, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, product_type, base_price
		FROM products
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductType, &p.BasePrice); err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	return products, rows.Err()
}

// GetProductsByIDs loads the products with the given ids into an id-keyed
// map. Ids with no matching product are simply absent from the map; the
// caller decides whether that is an error.
func (db *DB) GetProductsByIDs(ctx context.Context, ids []int) (map[int]*models.Product, error) {
	products := make(map[int]*models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := db.Pool.Query(ctx, `
		SELECT id, name, product_type, base_price
		FROM products
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductType, &p.BasePrice); err != nil {
			return nil, err
		}
		products[p.ID] = p
	}

	return products, rows.Err()
}
