package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	httpH "github.com/yungbote/costing-backend/internal/http/handlers"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

func TestRouterHealthcheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.NewNop(), HealthHandler: httpH.NewHealthHandler(nil)})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: want=200 ok got=%d %q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("healthcheck: missing X-Request-Id header")
	}
}

func TestRouterWritesRequireActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:              logger.NewNop(),
		QuoteHandler:     httpH.NewQuoteHandler(nil),
		CheckoutHandler:  httpH.NewCheckoutHandler(nil),
		CostInputHandler: httpH.NewCostInputHandler(nil),
	})

	for _, path := range []string{"/api/quotes", "/api/quotes/checkout", "/api/designs/" + uuid.NewString() + "/cost-inputs"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s without actor: want=%d got=%d", path, http.StatusUnauthorized, rec.Code)
		}
	}

	// A bad id is rejected before the handler reaches its service.
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/quotes/not-a-uuid", nil)
	req.Header.Set("X-Actor-Id", uuid.NewString())
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad quote id: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}
