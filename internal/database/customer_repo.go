package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/reliant-hq/quote-api/internal/models"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
)

// ListCustomers returns customers ordered by name, optionally filtered by a
// search term matched against name and email
func (db *DB) ListCustomers(ctx context.Context, search string) ([]*models.Customer, error) {
	query := `
		SELECT id, name, email, phone, address_line1, city, postcode, segment
		FROM customers
	`
	var args []interface{}
	if search != "" {
		query += " WHERE LOWER(name) LIKE LOWER($1) OR LOWER(COALESCE(email, '')) LIKE LOWER($1)"
		args = append(args, "%"+search+"%")
	}
	query += " ORDER BY name"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		c := &models.Customer{}
		err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.AddressLine1, &c.City, &c.Postcode, &c.Segment)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}

	return customers, rows.Err()
}

// GetCustomerByID retrieves a customer by ID
func (db *DB) GetCustomerByID(ctx context.Context, id int) (*models.Customer, error) {
	c := &models.Customer{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, address_line1, city, postcode, segment
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.AddressLine1, &c.City, &c.Postcode, &c.Segment)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return c, nil
}

// CustomerExists reports whether a customer with the given id exists
func (db *DB) CustomerExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)", id,
	).Scan(&exists)
	return exists, err
}

// CreateCustomer creates a new customer
func (db *DB) CreateCustomer(ctx context.Context, req *models.CreateCustomerRequest) (*models.Customer, error) {
	c := &models.Customer{}

	err := db.Pool.QueryRow(ctx, `
		INSERT INTO customers (name, email, phone, address_line1, city, postcode)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, email, phone, address_line1, city, postcode, segment
	`, req.Name, req.Email, req.Phone, req.AddressLine1, req.City, req.Postcode).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.AddressLine1, &c.City, &c.Postcode, &c.Segment,
	)
	if err != nil {
		return nil, err
	}

	return c, nil
}

// UpdateCustomer updates an existing customer
func (db *DB) UpdateCustomer(ctx context.Context, id int, req *models.UpdateCustomerRequest) (*models.Customer, error) {
	c := &models.Customer{}

	err := db.Pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address_line1 = $5, city = $6, postcode = $7
		WHERE id = $1
		RETURNING id, name, email, phone, address_line1, city, postcode, segment
	`, id, req.Name, req.Email, req.Phone, req.AddressLine1, req.City, req.Postcode).Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.AddressLine1, &c.City, &c.Postcode, &c.Segment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	return c, nil
}

// DeleteCustomer deletes a customer
func (db *DB) DeleteCustomer(ctx context.Context, id int) error {
	result, err := db.Pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}

	return nil
}
