package files

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/lobby/internal/storage"
)

func setupRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ab", "abcdef.png"), []byte("png-bytes"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(root), "secret.txt"), []byte("nope"), 0o644))

	r := gin.New()
	r.GET("/uploads/*path", ServeUploads(storage.NewLocalStorage(root)))
	return r, root
}

func TestServeUploads(t *testing.T) {
	r, _ := setupRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/ab/abcdef.png", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
	assert.Equal(t, `"abcdef"`, w.Header().Get("ETag"))
	assert.Equal(t, "public, max-age=604800", w.Header().Get("Cache-Control"))
	assert.NotEmpty(t, w.Header().Get("Last-Modified"))
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestServeUploadsNotModified(t *testing.T) {
	r, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/uploads/ab/abcdef.png", nil)
	req.Header.Set("If-None-Match", `"abcdef"`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServeUploadsNotFound(t *testing.T) {
	r, _ := setupRouter(t)

	for _, p := range []string{
		"/uploads/ab/missing.png",
		"/uploads/ab",
		"/uploads/",
		"/uploads/../secret.txt",
		"/uploads/ab/../../secret.txt",
	} {
		t.Run(p, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}
