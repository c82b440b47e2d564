package media

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "photo.jpg", "photo.jpg"},
		{"spaces and symbols", "my photo (1).png", "my_photo__1_.png"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"directory stripped", "/tmp/uploads/cat.gif", "cat.gif"},
		{"empty", "", "file"},
		{"dot only", ".", "file"},
		{"unicode replaced", "фото.webp", "____.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameBoundsLength(t *testing.T) {
	long := strings.Repeat("a", 300) + ".jpg"
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), 128)
	assert.True(t, strings.HasSuffix(got, ".jpg"))
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey("feedback/123_photo.jpg"))
	assert.Error(t, validateKey("feedback/../secrets"))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", detectContentType("a.JPG"))
	assert.Equal(t, "image/png", detectContentType("a.png"))
	assert.Equal(t, "image/webp", detectContentType("a.webp"))
	assert.Equal(t, "application/octet-stream", detectContentType("a.bin"))
}
