package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/platform/apierr"
)

func TestRespondErr(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", domainagg.NewError(domainagg.CodeValidation, "op", "bad units", nil), http.StatusBadRequest, "validation", "bad units"},
		{"unauthorized", domainagg.NewError(domainagg.CodeUnauthorized, "op", "no plan", nil), http.StatusUnauthorized, "unauthorized", "no plan"},
		{"not found", domainagg.NewError(domainagg.CodeNotFound, "op", "missing", nil), http.StatusNotFound, "not_found", "missing"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "dup", nil), http.StatusConflict, "conflict", "dup"},
		{"retryable", domainagg.NewError(domainagg.CodeRetryable, "op", "busy", nil), http.StatusServiceUnavailable, "retryable", "busy"},
		{"internal", domainagg.NewError(domainagg.CodeInternal, "op", "boom", nil), http.StatusInternalServerError, "internal", "boom"},
		{"api error", apierr.New(http.StatusBadRequest, "invalid_quote_id", errors.New("bad id")), http.StatusBadRequest, "invalid_quote_id", "bad id"},
		{"uncoded", errors.New("driver exploded"), http.StatusInternalServerError, "internal", "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			RespondErr(c, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d", tc.wantStatus, rec.Code)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tc.wantCode || env.Error.Message != tc.wantMsg {
				t.Fatalf("envelope: want=%s/%q got=%s/%q", tc.wantCode, tc.wantMsg, env.Error.Code, env.Error.Message)
			}
		})
	}
}
