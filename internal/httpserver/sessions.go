package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/service/session"
)

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

func (h *handlers) workspace(c *gin.Context) *session.Workspace {
	return h.deps.Workspaces.Get(detached(c), sessionFrom(c))
}

func (h *handlers) issueSession(c *gin.Context) {
	token, sessionID, err := h.deps.Sessions.Issue(c.Request.Context())
	if err != nil {
		h.logger.Error("issue session failed", zap.Error(err))
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{
		Token:     token,
		SessionID: sessionID,
		ExpiresIn: h.deps.Sessions.TTLSeconds(),
	})
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
