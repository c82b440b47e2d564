package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skylark-app/feedback-backend/config"
	apperrors "github.com/skylark-app/feedback-backend/errors"
	"github.com/skylark-app/feedback-backend/middleware"
	"github.com/skylark-app/feedback-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFeedbackService implements FeedbackServiceInterface for handler tests.
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Submit(ctx context.Context, input types.SubmissionInput) (*types.SubmissionResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.SubmissionResult), args.Error(1)
}

func (m *MockFeedbackService) List(ctx context.Context) ([]map[string]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]string), args.Error(1)
}

var _ FeedbackServiceInterface = (*MockFeedbackService)(nil)

func testUploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxFiles:          10,
		MaxFileSizeBytes:  10 * 1024 * 1024,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "gif", "webp"},
	}
}

// buildFeedbackRouter wraps the handler in a Gin router with the error
// handler middleware, matching the production setup so c.Error() calls
// produce the correct HTTP status.
func buildFeedbackRouter(svc FeedbackServiceInterface, cfg config.UploadConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	h := NewFeedbackHandler(svc, cfg)
	r.POST("/api/feedback", h.SubmitFeedback)
	r.GET("/api/feedback", h.ListFeedback)
	return r
}

// pngBytes is a minimal payload that sniffs as image/png.
var pngBytes = []byte("\x89PNG\r\n\x1a\n.....fake-image-data.....")

type multipartFile struct {
	field, name string
	data        []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []multipartFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestSubmitFeedbackSuccess(t *testing.T) {
	svc := new(MockFeedbackService)
	result := &types.SubmissionResult{
		SubmissionID:    "2024-06-01T10:00:00Z",
		PhotosAttempted: 1,
		PhotosUploaded:  1,
		PhotoURLs:       []string{"https://cdn.example.com/a.png"},
		PhotoDetails:    []types.UploadResult{{URL: "https://cdn.example.com/a.png"}},
	}
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in types.SubmissionInput) bool {
		return in.Title == "crash" && len(in.Attachments) == 1 && in.Attachments[0].Filename == "a.png"
	})).Return(result, nil)

	r := buildFeedbackRouter(svc, testUploadConfig())
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "it broke"},
		[]multipartFile{{photoFieldName, "a.png", pngBytes}})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got types.SubmissionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 1, got.PhotosUploaded)
	assert.Equal(t, "2024-06-01T10:00:00Z", got.SubmissionID)
	svc.AssertExpectations(t)
}

func TestSubmitFeedbackValidationErrorFromPipeline(t *testing.T) {
	svc := new(MockFeedbackService)
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.ValidationFailed("title required", "title must not be blank"))

	r := buildFeedbackRouter(svc, testUploadConfig())
	body, contentType := multipartBody(t,
		map[string]string{"title": "   ", "description": "it broke"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "title required")
}

func TestSubmitFeedbackTooManyFiles(t *testing.T) {
	svc := new(MockFeedbackService)
	cfg := testUploadConfig()
	cfg.MaxFiles = 2

	files := make([]multipartFile, 3)
	for i := range files {
		files[i] = multipartFile{photoFieldName, fmt.Sprintf("f%d.png", i), pngBytes}
	}

	r := buildFeedbackRouter(svc, cfg)
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"}, files)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at most 2 attachments")
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmitFeedbackDisallowedExtension(t *testing.T) {
	svc := new(MockFeedbackService)
	r := buildFeedbackRouter(svc, testUploadConfig())
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"},
		[]multipartFile{{photoFieldName, "notes.txt", []byte("plain text")}})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "disallowed_file_type")
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestSubmitFeedbackSniffRejectsMasqueradingFile(t *testing.T) {
	svc := new(MockFeedbackService)
	r := buildFeedbackRouter(svc, testUploadConfig())
	// .png extension but plain-text content.
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"},
		[]multipartFile{{photoFieldName, "sneaky.png", []byte("#!/bin/sh\nrm -rf /")}})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "disallowed_file_type")
}

func TestSubmitFeedbackUnexpectedFileField(t *testing.T) {
	svc := new(MockFeedbackService)
	r := buildFeedbackRouter(svc, testUploadConfig())
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"},
		[]multipartFile{{"attachments", "a.png", pngBytes}})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unexpected_field")
}

func TestSubmitFeedbackOversizedFile(t *testing.T) {
	svc := new(MockFeedbackService)
	cfg := testUploadConfig()
	cfg.MaxFileSizeBytes = 64

	big := append([]byte{}, pngBytes...)
	big = append(big, bytes.Repeat([]byte{0}, 128)...)

	r := buildFeedbackRouter(svc, cfg)
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"},
		[]multipartFile{{photoFieldName, "big.png", big}})

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file_too_large")
}

func TestSubmitFeedbackStoreFault(t *testing.T) {
	svc := new(MockFeedbackService)
	svc.On("Submit", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewRecordStoreError(fmt.Errorf("append: status 503")))

	r := buildFeedbackRouter(svc, testUploadConfig())
	body, contentType := multipartBody(t,
		map[string]string{"title": "crash", "description": "x"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/feedback", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "RECORD_STORE_ERROR")
}

func TestListFeedback(t *testing.T) {
	svc := new(MockFeedbackService)
	svc.On("List", mock.Anything).Return([]map[string]string{
		{"title": "crash", "user_id": "u1"},
	}, nil)

	r := buildFeedbackRouter(svc, testUploadConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "crash", got[0]["title"])
}

func TestListFeedbackStoreFault(t *testing.T) {
	svc := new(MockFeedbackService)
	svc.On("List", mock.Anything).
		Return(nil, apperrors.NewRecordStoreError(fmt.Errorf("status 500")))

	r := buildFeedbackRouter(svc, testUploadConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/feedback", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
