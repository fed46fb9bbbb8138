package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentity_ResolvesHeader(t *testing.T) {
	r := gin.New()
	r.Use(Identity())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, Viewer(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "u42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "u42" {
		t.Fatalf("viewer = %q, want u42", w.Body.String())
	}
}

func TestIdentity_AnonymousPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(Identity())
	r.GET("/", func(c *gin.Context) {
		if Viewer(c) != "" {
			t.Errorf("expected anonymous viewer, got %q", Viewer(c))
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous requests must not be rejected: %d", w.Code)
	}
}

func TestViewer_WithoutIdentity(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if Viewer(c) != "" {
		t.Fatalf("Viewer without Identity should be empty")
	}
}

func TestRequireViewer_RejectsAnonymous(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Identity())
	r.POST("/w", RequireViewer(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/w", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body not JSON: %v", err)
	}
	if body["code"] != "unauthorized" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestRequireViewer_AllowsAuthenticated(t *testing.T) {
	r := gin.New()
	r.Use(Identity())
	r.POST("/w", RequireViewer(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
}
