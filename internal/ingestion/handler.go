package ingestion

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	httperr "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/gin-gonic/gin"
)

const (
	msgReadBodyFailed    = "Failed to read request body"
	msgInvalidJSON       = "Invalid JSON body"
	msgPersistFailed     = "Failed to persist detail record"
	msgRefreshInProgress = "Detail inserts are suspended while a refresh is running"
	msgIngestFailed      = "Bulk ingestion failed"
)

// ingestionError carries the structured HTTP error shape from a helper back to the handler.
// Helpers return this instead of writing to gin.Context directly, keeping them decoupled from HTTP.
type ingestionError struct {
	statusCode int
	errorType  string
	message    string
	details    interface{}
}

func (e *ingestionError) Error() string {
	return e.message
}

// InsertHandler handles HTTP POST requests for single detail inserts.
func (s *Service) InsertHandler(c *gin.Context) {
	rec, payloadSize, err := s.parseDetail(c)
	if err != nil {
		writeError(c, err)
		return
	}

	if verr := rec.Validate(); verr != nil {
		slog.Warn("Detail validation failed", "error", verr, "rental_id", rec.RentalID)
		writeError(c, &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidRecordError,
			message:    verr.Error(),
		})
		return
	}

	slog.Info("Received detail record",
		"rental_id", rec.RentalID,
		"customer_id", rec.CustomerID,
		"amount", rec.Amount,
		"payload_size", payloadSize)

	if err := s.persistDetail(c, rec); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":     "created",
		"detail_seq": rec.DetailSeq,
	})
}

// IngestHandler handles HTTP POST requests for bulk feed ingestion.
func (s *Service) IngestHandler(c *gin.Context) {
	count, err := s.IngestDetail(c.Request.Context())
	if err != nil {
		slog.Error("Bulk ingestion failed", "error", err)
		writeError(c, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgIngestFailed,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"details": count,
	})
}

// parseDetail reads the raw request body and binds it into a DetailRecord.
// Returns the parsed record and the raw payload size (used for structured logging upstream).
func (s *Service) parseDetail(c *gin.Context) (*v1.DetailRecord, int, *ingestionError) {
	// Enforce maximum body size to prevent OOM attacks
	maxBytes := int64(s.maxBodySizeBytes)
	limitedBody := io.LimitReader(c.Request.Body, maxBytes+1) // +1 to detect oversized requests

	bodyBytes, err := io.ReadAll(limitedBody)
	if err != nil {
		slog.Error("Failed to read request body", "error", err)
		return nil, 0, &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgReadBodyFailed,
		}
	}

	if int64(len(bodyBytes)) > maxBytes {
		slog.Warn("Request body exceeds maximum size", "size", len(bodyBytes), "max", maxBytes)
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusRequestEntityTooLarge,
			errorType:  httperr.HttpInvalidJsonError,
			message:    "Request body exceeds maximum allowed size",
			details: map[string]interface{}{
				"max_size_mb": maxBytes / (1024 * 1024),
			},
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var rec v1.DetailRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		slog.Warn("Invalid JSON body received", "error", err, "payload_size", len(bodyBytes))
		return nil, len(bodyBytes), &ingestionError{
			statusCode: http.StatusBadRequest,
			errorType:  httperr.HttpInvalidJsonError,
			message:    msgInvalidJSON,
		}
	}

	return &rec, len(bodyBytes), nil
}

// persistDetail appends the record and fires the incremental hook.
func (s *Service) persistDetail(c *gin.Context, rec *v1.DetailRecord) *ingestionError {
	if err := s.InsertDetail(c.Request.Context(), rec); err != nil {
		if errors.Is(err, httperr.ErrRefreshInProgress) {
			slog.Info("Detail insert rejected during refresh window", "rental_id", rec.RentalID)
			return &ingestionError{
				statusCode: http.StatusServiceUnavailable,
				errorType:  httperr.HttpRefreshInProgressError,
				message:    msgRefreshInProgress,
			}
		}

		if errors.Is(err, httperr.ErrInvalidInput) {
			return &ingestionError{
				statusCode: http.StatusBadRequest,
				errorType:  httperr.HttpInvalidRecordError,
				message:    err.Error(),
			}
		}

		slog.Error("Failed to persist detail record", "error", err, "rental_id", rec.RentalID)
		return &ingestionError{
			statusCode: http.StatusInternalServerError,
			errorType:  httperr.HttpInternalError,
			message:    msgPersistFailed,
		}
	}

	return nil
}

// writeError serializes an ingestionError as the JSON HTTP response.
func writeError(c *gin.Context, err *ingestionError) {
	c.JSON(err.statusCode, httperr.ErrorResponse{
		ErrorType: err.errorType,
		Message:   err.message,
		Details:   err.details,
	})
}
