package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/costing-backend/internal/http/response"
	"github.com/yungbote/costing-backend/internal/platform/ctxutil"
)

const headerActorID = "X-Actor-Id"

// AttachRequestContext records the acting user from X-Actor-Id. Identity is
// established upstream; a malformed header is rejected.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		rd := &ctxutil.RequestData{}
		if raw := strings.TrimSpace(c.GetHeader(headerActorID)); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "invalid_actor_id", err)
				c.Abort()
				return
			}
			rd.ActorID = id
		}
		c.Request = c.Request.WithContext(ctxutil.WithRequestData(c.Request.Context(), rd))
		c.Next()
	}
}

// RequireActor rejects requests without an actor.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ctxutil.ActorID(c.Request.Context()) == uuid.Nil {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
