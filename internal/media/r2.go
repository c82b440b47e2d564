// Package media hosts feedback photo attachments on an S3-compatible
// bucket (Cloudflare R2) served through a public CDN domain.
package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/skylark-app/feedback-backend/types"
)

// Uploader accepts raw bytes plus the original filename and returns a
// durable public URL with metadata, or fails per file.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (*types.UploadResult, error)
	Ping(ctx context.Context) error
}

// R2Uploader stores files in Cloudflare R2 (S3-compatible).
type R2Uploader struct {
	client        *s3.Client
	bucketName    string
	publicBaseURL string
}

// Ensure R2Uploader implements Uploader
var _ Uploader = (*R2Uploader)(nil)

// NewR2Uploader creates a new R2-backed uploader. publicBaseURL is the CDN
// domain the bucket is served from; uploaded keys are appended to it.
func NewR2Uploader(accountID, bucketName, accessKeyID, secretAccessKey, publicBaseURL string) (*R2Uploader, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)

	client := s3.New(s3.Options{
		Region:       "auto",
		BaseEndpoint: &endpoint,
		Credentials:  credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, ""),
	})

	return &R2Uploader{
		client:        client,
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename reduces an untrusted original filename to its base name
// with unsafe characters replaced, bounded to a sane length.
func SanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." || base == ".." {
		base = "file"
	}
	if len(base) > 128 {
		ext := filepath.Ext(base)
		base = base[:128-len(ext)] + ext
	}
	return base
}

// Upload stores one attachment under feedback/<unixnano>_<filename> and
// returns its public URL plus image metadata. Dimensions are zero when the
// payload does not decode as an image.
func (u *R2Uploader) Upload(ctx context.Context, filename string, data []byte) (*types.UploadResult, error) {
	sanitized := SanitizeFilename(filename)
	key := fmt.Sprintf("feedback/%d_%s", time.Now().UnixNano(), sanitized)
	if err := validateKey(key); err != nil {
		return nil, err
	}

	contentType := detectContentType(sanitized)
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucketName,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("r2 put object failed: %w", err)
	}

	width, height := 0, 0
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		bounds := img.Bounds()
		width = bounds.Dx()
		height = bounds.Dy()
	}

	return &types.UploadResult{
		URL:          u.publicBaseURL + "/" + key,
		StorageKey:   key,
		OriginalName: filename,
		Width:        width,
		Height:       height,
		ByteSize:     int64(len(data)),
	}, nil
}

// Ping verifies the bucket is reachable with the configured credentials.
func (u *R2Uploader) Ping(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: &u.bucketName,
	})
	if err != nil {
		return fmt.Errorf("r2 head bucket failed: %w", err)
	}
	return nil
}

func detectContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
