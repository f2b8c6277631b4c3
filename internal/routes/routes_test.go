package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// Recovery must be installed before the routes are registered, or gin
// leaves every registered handler outside the middleware chain. With
// no database wired here, a login attempt panics inside the handler;
// the caller still has to see a 500 response.
func TestSetupRouterRecoversOnRegisteredRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter()

	body := strings.NewReader(`{"email":"x@y.com","password":"pw"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 from the recovery middleware", w.Code)
	}
}

func TestSetupRouterMiddlewareAppliesToLaterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter()
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 from the recovery middleware", w.Code)
	}
}
