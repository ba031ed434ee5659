package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/fundgraph/internal/assistant"
	httpMW "github.com/yungbote/fundgraph/internal/http/middleware"
	"github.com/yungbote/fundgraph/internal/http/response"
	"github.com/yungbote/fundgraph/internal/platform/apierr"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

// Asker answers questions for a tenant. *assistant.Service satisfies it.
type Asker interface {
	Ask(ctx context.Context, question, tenantID string) assistant.Answer
}

type QueryHandler struct {
	log       *logger.Logger
	assistant Asker
}

func NewQueryHandler(log *logger.Logger, a Asker) *QueryHandler {
	return &QueryHandler{log: log.With("handler", "QueryHandler"), assistant: a}
}

type queryRequest struct {
	Question string `json:"question"`
	TenantID string `json:"tenant_id"`
}

// POST /api/query
func (h *QueryHandler) Query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug("query request rejected", "error", err)
		response.RespondErr(c, apierr.CodeInvalidRequest, apierr.BadRequest(err))
		return
	}
	if req.Question == "" || req.TenantID == "" {
		response.RespondErr(c, apierr.CodeInvalidRequest, apierr.BadRequest(errors.New("question and tenant_id are required")))
		return
	}
	c.Set(httpMW.KeyTenantID, req.TenantID)

	// Query failures are part of the answer, not an HTTP error.
	response.RespondOK(c, h.assistant.Ask(c.Request.Context(), req.Question, req.TenantID))
}
