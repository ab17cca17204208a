package controllers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUploadedImage_Success(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		filename    string
		contentType string
	}{
		{"temaki.png", "image/png"},
		{"temaki.PNG", "image/png"},
		{"sushi.jpg", "image/jpeg"},
		{"sushi.jpeg", "image/jpeg"},
	}

	for _, tc := range testCases {
		t.Run(tc.filename, func(t *testing.T) {
			content := []byte("image content of " + tc.filename)
			require.NoError(t, os.WriteFile(filepath.Join(env.cfg.UploadDir, tc.filename), content, 0644))

			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tc.contentType, w.Header().Get("Content-Type"))
			assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
			assert.Equal(t, content, w.Body.Bytes())
		})
	}
}

func TestGetUploadedImage_FileNotFound(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/uploads/nonexistent.png", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "FILE_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "Image not found")
}

func TestGetUploadedImage_EmptyFilename(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest("GET", "/uploads/", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	// Gin will handle this as a 404 because route doesn't match
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUploadedImage_DirectoryTraversal(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name           string
		filename       string
		expectedStatus int
		expectedError  string
	}{
		// Gin's router treats slashes as path separators, so these never match the route
		{"Parent directory traversal", "../../../etc/passwd", http.StatusNotFound, ""},
		{"Forward slash in filename", "path/to/file.png", http.StatusNotFound, ""},

		{"Backslash in filename", "path\\to\\file.png", http.StatusBadRequest, "INVALID_FILENAME"},
		{"Dots in filename", "..file.png", http.StatusBadRequest, "INVALID_FILENAME"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedError != "" {
				assert.Contains(t, w.Body.String(), tc.expectedError)
			}
		})
	}
}

func TestGetUploadedImage_InvalidFileType(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		name     string
		filename string
	}{
		{"GIF file", "image.gif"},
		{"No extension", "image"},
		{"Text file", "document.txt"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/uploads/"+tc.filename, nil)
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_FILE_TYPE")
		})
	}
}
