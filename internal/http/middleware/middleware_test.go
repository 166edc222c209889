package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/platform/ctxutil"
	"github.com/yungbote/costing-backend/internal/platform/logger"
)

func newEngine(handler gin.HandlerFunc, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", handler)
	return r
}

func TestAttachRequestContextParsesActor(t *testing.T) {
	actor := uuid.New()
	var seen uuid.UUID
	r := newEngine(func(c *gin.Context) {
		seen = ctxutil.ActorID(c.Request.Context())
		c.Status(http.StatusNoContent)
	}, AttachRequestContext())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Actor-Id", actor.String())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || seen != actor {
		t.Fatalf("actor: want=%s/%d got=%s/%d", actor, http.StatusNoContent, seen, rec.Code)
	}
}

func TestAttachRequestContextRejectsMalformedActor(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.Status(http.StatusNoContent) }, AttachRequestContext())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Actor-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
}

func TestRequireActor(t *testing.T) {
	r := newEngine(func(c *gin.Context) { c.Status(http.StatusNoContent) }, AttachRequestContext(), RequireActor())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Actor-Id", uuid.NewString())
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("with actor: want=%d got=%d", http.StatusNoContent, rec.Code)
	}
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	var td *ctxutil.TraceData
	r := newEngine(func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	}, RequestLogger(logger.NewNop()), AttachTraceContext())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-1" {
		t.Fatalf("request id header: want=req-1 got=%q", got)
	}
	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("trace data: got=%+v", td)
	}
	if rec.Header().Get("X-Trace-Id") != td.TraceID {
		t.Fatalf("trace id header: want=%s got=%s", td.TraceID, rec.Header().Get("X-Trace-Id"))
	}
}
