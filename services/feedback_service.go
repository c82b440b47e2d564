package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/skylark-app/feedback-backend/errors"
	"github.com/skylark-app/feedback-backend/internal/media"
	"github.com/skylark-app/feedback-backend/internal/store"
	"github.com/skylark-app/feedback-backend/logger"
	"github.com/skylark-app/feedback-backend/types"
)

// FeedbackService orchestrates a submission: validate, host each
// attachment, then append exactly one summary row. Individual attachment
// failures are tolerated; nothing is rolled back on a late store failure.
type FeedbackService struct {
	uploader media.Uploader
	records  store.RecordStore
	now      func() time.Time
}

// NewFeedbackService creates the ingestion pipeline. uploader may be nil
// when the media integration is unconfigured; submissions with attachments
// then fail fatally before any upload attempt.
func NewFeedbackService(uploader media.Uploader, records store.RecordStore) *FeedbackService {
	return &FeedbackService{
		uploader: uploader,
		records:  records,
		now:      time.Now,
	}
}

// Submit runs the full ingestion pipeline and returns the submission
// summary. The returned error is always an *errors.AppError.
func (s *FeedbackService) Submit(ctx context.Context, input types.SubmissionInput) (*types.SubmissionResult, error) {
	log := logger.GetLogger()

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	// Validation short-circuits before any upload attempt.
	if title == "" {
		submissionsTotal.WithLabelValues("validation_failed").Inc()
		return nil, apperrors.ValidationFailed("title required", "title must not be blank")
	}
	if description == "" {
		submissionsTotal.WithLabelValues("validation_failed").Inc()
		return nil, apperrors.ValidationFailed("description required", "description must not be blank")
	}

	// Caller-supplied date/timestamp are trusted verbatim.
	timestamp := input.Timestamp
	if timestamp == "" {
		timestamp = s.now().UTC().Format(time.RFC3339)
	}
	date := input.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}

	if len(input.Attachments) > 0 && s.uploader == nil {
		// Setup-level fault: no attachment could possibly succeed.
		submissionsTotal.WithLabelValues("upload_fatal").Inc()
		return nil, apperrors.NewMediaStorageError(fmt.Errorf("media uploader is not configured"))
	}

	// Sequential per-file upload; a failed file is logged and skipped so
	// the rest of the submission survives. Successes keep input order.
	photoURLs := make([]string, 0, len(input.Attachments))
	photoDetails := make([]types.UploadResult, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		result, err := s.uploader.Upload(ctx, att.Filename, att.Data)
		if err != nil {
			photoUploadFailures.Inc()
			log.Warnw("Attachment upload failed, skipping",
				"filename", att.Filename, "error", err)
			continue
		}
		photoURLs = append(photoURLs, result.URL)
		photoDetails = append(photoDetails, *result)
	}

	record := types.FeedbackRecord{
		Title:       title,
		Description: description,
		Photos:      strings.Join(photoURLs, ", "),
		UserID:      input.UserID,
		EmailID:     input.EmailID,
		Date:        date,
		TimeStamp:   timestamp,
	}

	if err := s.records.Append(ctx, record.Row()); err != nil {
		// Uploaded photos are deliberately not rolled back; orphaned
		// objects are an accepted trade-off.
		submissionsTotal.WithLabelValues("store_failed").Inc()
		return nil, apperrors.NewRecordStoreError(err)
	}

	submissionsTotal.WithLabelValues("ok").Inc()
	log.Infow("Feedback submitted",
		"photos_attempted", len(input.Attachments),
		"photos_uploaded", len(photoURLs),
		"email", logger.MaskEmail(input.EmailID))

	return &types.SubmissionResult{
		// The timestamp doubles as the submission id; no independent id
		// generation exists.
		SubmissionID:    timestamp,
		PhotosAttempted: len(input.Attachments),
		PhotosUploaded:  len(photoURLs),
		PhotoURLs:       photoURLs,
		PhotoDetails:    photoDetails,
	}, nil
}

// List fetches the whole feedback table and maps each data row into a
// record keyed by normalized header names. The full-table read is
// acceptable only at the small record volumes this system expects.
func (s *FeedbackService) List(ctx context.Context) ([]map[string]string, error) {
	rows, err := s.records.Rows(ctx)
	if err != nil {
		return nil, apperrors.NewRecordStoreError(err)
	}
	if len(rows) == 0 {
		return []map[string]string{}, nil
	}

	keys := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		keys[i] = normalizeHeader(h)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(map[string]string, len(keys))
		for i, key := range keys {
			if i < len(row) {
				rec[key] = row[i]
			} else {
				rec[key] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// EnsureHeaders writes the fixed 7-column header row if the sheet has
// none. Idempotent: existing headers mean zero writes.
func (s *FeedbackService) EnsureHeaders(ctx context.Context) error {
	headers, err := s.records.Headers(ctx)
	if err != nil {
		return fmt.Errorf("failed to read headers: %w", err)
	}
	if len(headers) > 0 {
		return nil
	}

	if err := s.records.WriteHeaders(ctx, types.FeedbackHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	logger.GetLogger().Infow("Feedback sheet headers initialized",
		"columns", len(types.FeedbackHeaders))
	return nil
}

// normalizeHeader lowercases a header, collapses whitespace runs, and
// joins words with underscores: "User ID" -> "user_id".
func normalizeHeader(h string) string {
	fields := strings.Fields(strings.ToLower(h))
	return strings.Join(fields, "_")
}
