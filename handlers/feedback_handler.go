package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/skylark-app/feedback-backend/config"
	apperrors "github.com/skylark-app/feedback-backend/errors"
	"github.com/skylark-app/feedback-backend/types"
)

// photoFieldName is the only multipart file field accepted.
const photoFieldName = "photos"

// Allowed MIME types for feedback photos, cross-checked against the
// extension allow-list via server-side sniffing.
var photoAllowedMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FeedbackServiceInterface defines the feedback pipeline methods needed by handlers.
type FeedbackServiceInterface interface {
	Submit(ctx context.Context, input types.SubmissionInput) (*types.SubmissionResult, error)
	List(ctx context.Context) ([]map[string]string, error)
}

// FeedbackHandler handles feedback submission and listing endpoints.
type FeedbackHandler struct {
	service   FeedbackServiceInterface
	uploadCfg config.UploadConfig
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(service FeedbackServiceInterface, uploadCfg config.UploadConfig) *FeedbackHandler {
	return &FeedbackHandler{service: service, uploadCfg: uploadCfg}
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Submit feedback text with up to 10 photo attachments
// @Tags         feedback
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true   "Feedback title"
// @Param        description  formData  string  true   "Feedback description"
// @Param        userId       formData  string  false  "Submitting user id"
// @Param        emailId      formData  string  false  "Submitting user email"
// @Param        photos       formData  file    false  "Photo attachments"
// @Success      201  {object}  types.SubmissionResult
// @Failure      400  {object}  middleware.ErrorResponse
// @Failure      429  {object}  middleware.ErrorResponse
// @Failure      500  {object}  middleware.ErrorResponse
// @Router       /api/feedback [post]
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	// Bound the whole body: every file at its limit plus form-field slack.
	maxBody := int64(h.uploadCfg.MaxFiles)*h.uploadCfg.MaxFileSizeBytes + 1024*1024
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	form, err := c.MultipartForm()
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			_ = c.Error(apperrors.ValidationFailed("file_too_large",
				fmt.Sprintf("request body exceeds %d bytes", maxBody)))
			return
		}
		_ = c.Error(apperrors.ValidationFailed("invalid_form", "failed to parse multipart form"))
		return
	}

	// Only the fixed photo field may carry files.
	for field := range form.File {
		if field != photoFieldName {
			_ = c.Error(apperrors.ValidationFailed("unexpected_field",
				fmt.Sprintf("unexpected file field %q, use %q", field, photoFieldName)))
			return
		}
	}

	files := form.File[photoFieldName]
	if len(files) > h.uploadCfg.MaxFiles {
		_ = c.Error(apperrors.ValidationFailed("too_many_files",
			fmt.Sprintf("at most %d attachments allowed, got %d", h.uploadCfg.MaxFiles, len(files))))
		return
	}

	attachments := make([]types.Attachment, 0, len(files))
	for _, fileHeader := range files {
		if fileHeader.Size > h.uploadCfg.MaxFileSizeBytes {
			_ = c.Error(apperrors.ValidationFailed("file_too_large",
				fmt.Sprintf("file %q size %d exceeds maximum of %d bytes",
					fileHeader.Filename, fileHeader.Size, h.uploadCfg.MaxFileSizeBytes)))
			return
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
		if !h.extensionAllowed(ext) {
			_ = c.Error(apperrors.ValidationFailed("disallowed_file_type",
				fmt.Sprintf("file extension %q is not allowed, allowed: %s",
					ext, strings.Join(h.uploadCfg.AllowedExtensions, ", "))))
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			_ = c.Error(apperrors.ValidationFailed("invalid_file",
				fmt.Sprintf("failed to open uploaded file %q", fileHeader.Filename)))
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			_ = c.Error(fmt.Errorf("failed to read file %q: %w", fileHeader.Filename, err))
			return
		}

		// Server-side MIME detection; the extension alone is untrusted.
		detectedMIME := mimetype.Detect(data).String()
		if !photoAllowedMimes[detectedMIME] {
			_ = c.Error(apperrors.ValidationFailed("disallowed_file_type",
				fmt.Sprintf("file %q has MIME type %s, allowed: jpeg, png, gif, webp",
					fileHeader.Filename, detectedMIME)))
			return
		}

		attachments = append(attachments, types.Attachment{
			Filename: fileHeader.Filename,
			Data:     data,
		})
	}

	input := types.SubmissionInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		UserID:      c.PostForm("userId"),
		EmailID:     c.PostForm("emailId"),
		Date:        c.PostForm("date"),
		Timestamp:   c.PostForm("timestamp"),
		Attachments: attachments,
	}

	result, err := h.service.Submit(c.Request.Context(), input)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ListFeedback godoc
// @Summary      List feedback
// @Description  Returns every feedback row keyed by normalized header names
// @Tags         feedback
// @Produce      json
// @Success      200  {array}   map[string]string
// @Failure      500  {object}  middleware.ErrorResponse
// @Router       /api/feedback [get]
func (h *FeedbackHandler) ListFeedback(c *gin.Context) {
	records, err := h.service.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *FeedbackHandler) extensionAllowed(ext string) bool {
	for _, allowed := range h.uploadCfg.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}
