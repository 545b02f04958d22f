package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/middleware"
	"github.com/reliant-hq/quote-api/internal/models"
)

const maxAttachmentSize = 10 * 1024 * 1024 // 10MB

// UploadAttachment stores a survey photo or document against a quote
func (h *Handler) UploadAttachment(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "attachment storage is not configured")
	}

	userID := middleware.GetUserID(c)
	if userID == 0 {
		return Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	quoteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid quote id")
	}

	// Quote must exist before we accept an object for it
	if _, err := h.db.GetQuoteByID(c.Context(), quoteID); err != nil {
		if errors.Is(err, database.ErrQuoteNotFound) {
			return Error(c, fiber.StatusNotFound, "quote not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get quote")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "file is required")
	}

	if file.Size > maxAttachmentSize {
		return Error(c, fiber.StatusBadRequest, "file too large. Maximum size is 10MB")
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	src, err := file.Open()
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to read file")
	}
	defer src.Close()

	key := h.storage.ObjectKey(quoteID, file.Filename)
	if err := h.storage.Upload(c.Context(), key, src, file.Size, contentType); err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to store file")
	}

	attachment, err := h.db.CreateAttachment(c.Context(), &models.QuoteAttachment{
		QuoteID:          quoteID,
		FileName:         file.Filename,
		ContentType:      contentType,
		SizeBytes:        file.Size,
		S3Key:            key,
		UploadedByUserID: userID,
	})
	if err != nil {
		// Best effort: don't leave an orphaned object behind
		_ = h.storage.Delete(c.Context(), key)
		return Error(c, fiber.StatusInternalServerError, "failed to record attachment")
	}

	return Created(c, attachment)
}

// ListAttachments returns a quote's attachments
func (h *Handler) ListAttachments(c *fiber.Ctx) error {
	quoteID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid quote id")
	}

	attachments, err := h.db.ListAttachmentsByQuote(c.Context(), quoteID)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to list attachments")
	}

	return Success(c, attachments)
}

// DownloadAttachment returns a short-lived presigned URL for an attachment
func (h *Handler) DownloadAttachment(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "attachment storage is not configured")
	}

	id, err := strconv.Atoi(c.Params("attachmentId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid attachment id")
	}

	attachment, err := h.db.GetAttachment(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAttachmentNotFound) {
			return Error(c, fiber.StatusNotFound, "attachment not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to get attachment")
	}

	url, err := h.storage.PresignedURL(c.Context(), attachment.S3Key, 15*time.Minute)
	if err != nil {
		return Error(c, fiber.StatusInternalServerError, "failed to generate download URL")
	}

	return Success(c, models.AttachmentDownload{
		Attachment: attachment,
		URL:        url,
	})
}

// DeleteAttachment removes an attachment record and its stored object
func (h *Handler) DeleteAttachment(c *fiber.Ctx) error {
	if h.storage == nil {
		return Error(c, fiber.StatusServiceUnavailable, "attachment storage is not configured")
	}

	id, err := strconv.Atoi(c.Params("attachmentId"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "invalid attachment id")
	}

	key, err := h.db.DeleteAttachment(c.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrAttachmentNotFound) {
			return Error(c, fiber.StatusNotFound, "attachment not found")
		}
		return Error(c, fiber.StatusInternalServerError, "failed to delete attachment")
	}

	if err := h.storage.Delete(c.Context(), key); err != nil {
		return Error(c, fiber.StatusInternalServerError, "attachment record deleted but object removal failed")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "attachment deleted successfully",
	})
}
