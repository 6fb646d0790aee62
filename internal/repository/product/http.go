package product

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"storefront/internal/domain"
)

// DefaultBaseURL is the public catalog the storefront reads from.
const DefaultBaseURL = "https://fakestoreapi.in/api"

// StatusError is returned for any non-2xx catalog response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error: status %d", e.Code)
}

type httpRepo struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient returns a client with tracing on the outbound transport.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// NewHTTP reads the catalog from the REST API rooted at baseURL.
func NewHTTP(baseURL string, client *http.Client, logger *zap.Logger) Repository {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = NewHTTPClient(15 * time.Second)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &httpRepo{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

func (r *httpRepo) List(ctx context.Context, q ListQuery) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.Limit))
	endpoint := r.baseURL + "/products"
	if !domain.IsAllCategories(q.Category) {
		endpoint = r.baseURL + "/products/category"
		params.Set("type", q.Category)
	}

	body, err := r.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		r.logger.Warn("catalog list failed",
			zap.String("category", q.Category),
			zap.Int("page", q.Page),
			zap.Error(err))
		return nil, err
	}
	products, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("catalog list",
		zap.String("category", q.Category),
		zap.Int("page", q.Page),
		zap.Int("count", len(products)))
	return products, nil
}

func (r *httpRepo) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	body, err := r.get(ctx, fmt.Sprintf("%s/products/%d", r.baseURL, id))
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		r.logger.Warn("catalog get failed", zap.Int("id", id), zap.Error(err))
		return nil, err
	}
	return decodeOne(body)
}

func (r *httpRepo) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}

// productWire is the catalog's product payload. Discount arrives as a plain
// JSON number and is rounded to a whole percent.
type productWire struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Rating      *domain.Rating  `json:"rating"`
	Brand       string          `json:"brand"`
	Model       string          `json:"model"`
	Color       string          `json:"color"`
	Discount    *float64        `json:"discount"`
}

func (w productWire) toDomain() domain.Product {
	p := domain.Product{
		ID:          w.ID,
		Title:       w.Title,
		Image:       w.Image,
		Price:       w.Price,
		Description: w.Description,
		Category:    w.Category,
		Rating:      w.Rating,
		Brand:       w.Brand,
		Model:       w.Model,
		Color:       w.Color,
	}
	if w.Discount != nil {
		d := int(math.Round(*w.Discount))
		p.Discount = &d
	}
	return p
}

// decodeList accepts {"products": [...]} or a bare array.
func decodeList(body []byte) ([]domain.Product, error) {
	trimmed := bytes.TrimSpace(body)
	var wires []productWire
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
	} else {
		var envelope struct {
			Products []productWire `json:"products"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
		wires = envelope.Products
	}
	out := make([]domain.Product, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.toDomain())
	}
	return out, nil
}

// decodeOne accepts {"product": {...}} or a bare product object.
func decodeOne(body []byte) (*domain.Product, error) {
	var envelope struct {
		Product *productWire `json:"product"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	if envelope.Product != nil {
		p := envelope.Product.toDomain()
		return &p, nil
	}
	var w productWire
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	p := w.toDomain()
	return &p, nil
}
