package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/http/response"
	"github.com/yungbote/costing-backend/internal/platform/apierr"
	"github.com/yungbote/costing-backend/internal/platform/ctxutil"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/services"
)

type QuoteHandler struct {
	quotes services.QuoteService
}

func NewQuoteHandler(quotes services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type createQuoteRequest struct {
	DesignID uuid.UUID `json:"design_id"`
	Units    int64     `json:"units"`
}

type previewQuoteRequest struct {
	Attributes types.CostAttributes `json:"attributes"`
	Units      int64                `json:"units"`
}

// POST /api/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req createQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quote, err := h.quotes.CreateQuote(c.Request.Context(), ctxutil.ActorID(c.Request.Context()), req.DesignID, req.Units)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quote": quote})
}

// POST /api/quotes/preview
func (h *QuoteHandler) PreviewQuote(c *gin.Context) {
	var req previewQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quote, err := h.quotes.PreviewQuote(dbctx.Context{Ctx: c.Request.Context()}, req.Attributes, req.Units)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": quote})
}

// GET /api/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_quote_id", err)
		return
	}
	quote, err := h.quotes.GetQuote(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": quote})
}

// GET /api/designs/:id/quote?units=
func (h *QuoteHandler) GetDesignQuote(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_design_id", err)
		return
	}
	units, err := parseUnits(c.Query("units"))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	dq, err := h.quotes.GetDesignQuote(dbctx.Context{Ctx: c.Request.Context()}, designID, units)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quote": dq})
}

// GET /api/designs/:id/quotes
func (h *QuoteHandler) ListDesignQuotes(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_design_id", err)
		return
	}
	quotes, err := h.quotes.ListQuotesByDesign(dbctx.Context{Ctx: c.Request.Context()}, designID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quotes": quotes})
}

func parseUnits(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apierr.Newf(http.StatusBadRequest, "invalid_units", "units query parameter is required")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || !types.ValidQuoteUnits(n) {
		return 0, apierr.Newf(http.StatusBadRequest, "invalid_units", "units must be an integer between 1 and %d", types.MaxQuoteUnits)
	}
	return n, nil
}
