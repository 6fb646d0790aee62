package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
	productrepo "storefront/internal/repository/product"
	productsvc "storefront/internal/service/product"
)

type productResponse struct {
	domain.Product
	DiscountedPrice *decimal.Decimal `json:"discountedPrice,omitempty"`
}

func toProductResponse(p domain.Product) productResponse {
	out := productResponse{Product: p}
	if price, ok := p.DiscountedPrice(); ok {
		out.DiscountedPrice = &price
	}
	return out
}

type feedResponse struct {
	Products []productResponse `json:"products"`
	Loading  bool              `json:"loading"`
	Error    string            `json:"error,omitempty"`
	HasMore  bool              `json:"hasMore"`
	Page     int               `json:"page"`
	Category string            `json:"category"`
}

func toFeedResponse(st productsvc.FetchState) feedResponse {
	products := make([]productResponse, 0, len(st.Products))
	for _, p := range st.Products {
		products = append(products, toProductResponse(p))
	}
	return feedResponse{
		Products: products,
		Loading:  st.Loading,
		Error:    st.Error,
		HasMore:  st.HasMore,
		Page:     st.Page,
		Category: st.Category,
	}
}

type cartResponse struct {
	Items     []domain.CartLine  `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"itemCount"`
	Summary   domain.CartSummary `json:"summary"`
}

func toCartResponse(s domain.CartSnapshot, summary domain.CartSummary) cartResponse {
	items := s.Lines
	if items == nil {
		items = []domain.CartLine{}
	}
	return cartResponse{
		Items:     items,
		Total:     s.Total,
		ItemCount: s.ItemCount,
		Summary:   summary,
	}
}

type lineStatusResponse struct {
	ProductID int  `json:"productId"`
	InCart    bool `json:"inCart"`
	Quantity  int  `json:"quantity"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	ExpiresIn int    `json:"expiresIn"`
}

type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return badRequestError{msg: msg}
}

func writeError(c *gin.Context, err error) {
	var (
		br badRequestError
		se *productrepo.StatusError
	)
	switch {
	case errors.As(err, &br):
		c.JSON(http.StatusBadRequest, gin.H{"error": br.msg})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, gin.H{"error": se.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
