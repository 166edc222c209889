package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/costing-backend/internal/domain/aggregates"
	"github.com/yungbote/costing-backend/internal/http/response"
	"github.com/yungbote/costing-backend/internal/platform/ctxutil"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/services"
)

type CheckoutHandler struct {
	checkout services.CheckoutService
}

func NewCheckoutHandler(checkout services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// POST /api/quotes/checkout
//
// Body is a JSON array of {design_id, units}. All quotes commit or none do.
func (h *CheckoutHandler) CommitQuotes(c *gin.Context) {
	var reqs []domainagg.QuoteRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quotes, err := h.checkout.CommitQuotes(c.Request.Context(), ctxutil.ActorID(c.Request.Context()), reqs)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quotes": quotes})
}

// GET /api/designs/:id/commit-events
func (h *CheckoutHandler) ListCommitEvents(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_design_id", err)
		return
	}
	events, err := h.checkout.ListCommitEvents(dbctx.Context{Ctx: c.Request.Context()}, designID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"events": events})
}
