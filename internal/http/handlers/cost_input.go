package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/costing-backend/internal/domain"
	"github.com/yungbote/costing-backend/internal/http/response"
	"github.com/yungbote/costing-backend/internal/platform/ctxutil"
	"github.com/yungbote/costing-backend/internal/platform/dbctx"
	"github.com/yungbote/costing-backend/internal/services"
)

type CostInputHandler struct {
	costInputs services.CostInputService
}

func NewCostInputHandler(costInputs services.CostInputService) *CostInputHandler {
	return &CostInputHandler{costInputs: costInputs}
}

// POST /api/designs/:id/cost-inputs
//
// Body is the attribute set; omitted versions pin to the latest release.
func (h *CostInputHandler) CommitCostInput(c *gin.Context) {
	designID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_design_id", err)
		return
	}
	var attrs types.CostAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ci, err := h.costInputs.CommitCostInput(c.Request.Context(), ctxutil.ActorID(c.Request.Context()), designID, attrs)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"cost_input": ci})
}

// GET /api/cost-inputs/:id
func (h *CostInputHandler) GetCostInput(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_cost_input_id", err)
		return
	}
	ci, err := h.costInputs.GetCostInput(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"cost_input": ci})
}
