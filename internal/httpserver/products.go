package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type resetRequest struct {
	Category string `json:"category"`
}

// listProducts returns the session's feed. The first call, or a call naming
// a category other than the current one, resets the feed first.
func (h *handlers) listProducts(c *gin.Context) {
	feed := h.workspace(c).Feed
	category, hasCategory := c.GetQuery("category")

	if hasCategory {
		resolved, err := h.deps.CategorySvc.Resolve(c.Request.Context(), category)
		if err != nil {
			writeError(c, err)
			return
		}
		if !feed.Started() || resolved.Slug != feed.State().Category {
			c.JSON(http.StatusOK, toFeedResponse(feed.Reset(detached(c), resolved.Slug)))
			return
		}
	} else if !feed.Started() {
		c.JSON(http.StatusOK, toFeedResponse(feed.Reset(detached(c), "")))
		return
	}
	c.JSON(http.StatusOK, toFeedResponse(feed.State()))
}

func (h *handlers) resetProducts(c *gin.Context) {
	var req resetRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, badRequest("invalid body"))
			return
		}
	}
	resolved, err := h.deps.CategorySvc.Resolve(c.Request.Context(), req.Category)
	if err != nil {
		writeError(c, err)
		return
	}
	st := h.workspace(c).Feed.Reset(detached(c), resolved.Slug)
	c.JSON(http.StatusOK, toFeedResponse(st))
}

func (h *handlers) loadMoreProducts(c *gin.Context) {
	st, issued := h.workspace(c).Feed.LoadMore(detached(c))
	status := http.StatusOK
	if !issued {
		status = http.StatusAccepted
	}
	c.JSON(status, toFeedResponse(st))
}

func (h *handlers) refetchProducts(c *gin.Context) {
	st := h.workspace(c).Feed.Refetch(detached(c))
	c.JSON(http.StatusOK, toFeedResponse(st))
}

func (h *handlers) getProduct(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": toProductResponse(*p)})
}

func pathID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id")
	}
	return id, nil
}

// detached keeps request values but not its cancellation: a state change
// that has started runs to completion even if the caller goes away.
func detached(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
