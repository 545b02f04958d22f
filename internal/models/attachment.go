package models

import (
	"time"
)

// QuoteAttachment is a survey photo or document filed against a quote.
// The object itself lives in S3; only the key is stored here.
type QuoteAttachment struct {
	ID               int       `json:"id"`
	QuoteID          int       `json:"quote_id"`
	FileName         string    `json:"file_name"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	S3Key            string    `json:"-"`
	UploadedByUserID int       `json:"uploaded_by_user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// AttachmentDownload pairs an attachment with a short-lived download URL
type AttachmentDownload struct {
	Attachment *QuoteAttachment `json:"attachment"`
	URL        string           `json:"url"`
}
