package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/reliant-hq/quote-api/internal/models"
)

var (
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// CreateAttachment records an uploaded attachment for a quote
func (db *DB) CreateAttachment(ctx context.Context, a *models.QuoteAttachment) (*models.QuoteAttachment, error) {
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO quote_attachments (quote_id, file_name, content_type, size_bytes, s3_key, uploaded_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, a.QuoteID, a.FileName, a.ContentType, a.SizeBytes, a.S3Key, a.UploadedByUserID,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// ListAttachmentsByQuote returns a quote's attachments, oldest first
func (db *DB) ListAttachmentsByQuote(ctx context.Context, quoteID int) ([]*models.QuoteAttachment, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, quote_id, file_name, content_type, size_bytes, s3_key, uploaded_by_user_id, created_at
		FROM quote_attachments
		WHERE quote_id = $1
		ORDER BY id
	`, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []*models.QuoteAttachment
	for rows.Next() {
		a := &models.QuoteAttachment{}
		err := rows.Scan(&a.ID, &a.QuoteID, &a.FileName, &a.ContentType, &a.SizeBytes,
			&a.S3Key, &a.UploadedByUserID, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}

	return attachments, rows.Err()
}

// GetAttachment retrieves a single attachment by id
func (db *DB) GetAttachment(ctx context.Context, id int) (*models.QuoteAttachment, error) {
	a := &models.QuoteAttachment{}

	err := db.Pool.QueryRow(ctx, `
		SELECT id, quote_id, file_name, content_type, size_bytes, s3_key, uploaded_by_user_id, created_at
		FROM quote_attachments
		WHERE id = $1
	`, id).Scan(&a.ID, &a.QuoteID, &a.FileName, &a.ContentType, &a.SizeBytes,
		&a.S3Key, &a.UploadedByUserID, &a.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}

	return a, nil
}

// DeleteAttachment removes an attachment record and returns its S3 key so
// the caller can delete the object as well
func (db *DB) DeleteAttachment(ctx context.Context, id int) (string, error) {
	var key string
	err := db.Pool.QueryRow(ctx,
		"DELETE FROM quote_attachments WHERE id = $1 RETURNING s3_key", id,
	).Scan(&key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrAttachmentNotFound
		}
		return "", err
	}

	return key, nil
}
