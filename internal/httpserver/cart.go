package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"storefront/internal/domain"
)

type addLineRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type updateLineRequest struct {
	Quantity *int `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	cart := h.workspace(c).Cart
	snap := cart.Snapshot()
	c.JSON(http.StatusOK, toCartResponse(snap, cart.Pricing().Summarize(snap)))
}

func (h *handlers) clearCart(c *gin.Context) {
	cart := h.workspace(c).Cart
	snap := cart.ClearCart(detached(c))
	c.JSON(http.StatusOK, toCartResponse(snap, cart.Pricing().Summarize(snap)))
}

// addLine adds productId to the cart. The product is taken from the
// session's feed when present, otherwise looked up in the catalog.
func (h *handlers) addLine(c *gin.Context) {
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID <= 0 {
		writeError(c, badRequest("productId required"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeError(c, badRequest("quantity must be positive"))
		return
	}

	ws := h.workspace(c)
	product, err := h.findProduct(c, ws.Feed.State().Products, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	snap := ws.Cart.AddToCart(detached(c), *product, req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(snap, ws.Cart.Pricing().Summarize(snap)))
}

func (h *handlers) getLine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	cart := h.workspace(c).Cart
	c.JSON(http.StatusOK, lineStatusResponse{
		ProductID: id,
		InCart:    cart.IsInCart(id),
		Quantity:  cart.ItemQuantity(id),
	})
}

func (h *handlers) updateLine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req updateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		writeError(c, badRequest("quantity required"))
		return
	}
	cart := h.workspace(c).Cart
	snap := cart.UpdateQuantity(detached(c), id, *req.Quantity)
	c.JSON(http.StatusOK, toCartResponse(snap, cart.Pricing().Summarize(snap)))
}

func (h *handlers) removeLine(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	cart := h.workspace(c).Cart
	snap := cart.RemoveFromCart(detached(c), id)
	c.JSON(http.StatusOK, toCartResponse(snap, cart.Pricing().Summarize(snap)))
}

func (h *handlers) findProduct(c *gin.Context, feed []domain.Product, id int) (*domain.Product, error) {
	for i := range feed {
		if feed[i].ID == id {
			p := feed[i]
			return &p, nil
		}
	}
	return h.deps.ProductSvc.Get(c.Request.Context(), id)
}
