package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRouter(fingerprint string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", DatasetETag(fingerprint), func(c *gin.Context) {
		etag, _ := GetETag(c)
		c.String(http.StatusOK, etag)
	})
	return router
}

func TestDatasetETag(t *testing.T) {
	router := setupRouter("abc")

	tests := []struct {
		name        string
		ifNoneMatch string
		wantStatus  int
	}{
		{"no header", "", http.StatusOK},
		{"stale tag", `"old"`, http.StatusOK},
		{"current tag", `"abc"`, http.StatusNotModified},
		{"weak tag in list", `"old", W/"abc"`, http.StatusNotModified},
		{"wildcard", "*", http.StatusNotModified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/x", nil)
			if tt.ifNoneMatch != "" {
				req.Header.Set("If-None-Match", tt.ifNoneMatch)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if got := w.Header().Get("ETag"); got != `"abc"` {
				t.Errorf("Expected ETag \"abc\", got %q", got)
			}
			if w.Code == http.StatusOK && w.Body.String() != `"abc"` {
				t.Errorf("Expected handler to see the ETag, got %q", w.Body.String())
			}
		})
	}
}

func TestDatasetETag_NoFingerprint(t *testing.T) {
	router := setupRouter("")

	req, _ := http.NewRequest("GET", "/x", nil)
	req.Header.Set("If-None-Match", "*")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("ETag"); got != "" {
		t.Errorf("Expected no ETag, got %q", got)
	}
}
