package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

// CartWriter is the cart store the importer merges lines into.
type CartWriter interface {
	AddToCart(ctx context.Context, product domain.Product, quantity int) domain.CartSnapshot
}

// CSVImporter reads cart exports (one line per row) and adds each row to the
// cart. Rows for a product already in the cart add to its quantity.
type CSVImporter struct {
	reader *csv.Reader
	cart   CartWriter
}

func NewCSVImporter(r io.Reader, cart CartWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		cart:   cart,
	}
}

type csvRow struct {
	Line     int
	ID       int
	Title    string
	Image    string
	Price    decimal.Decimal
	Quantity int
}

// Run parses and validates every row first, then adds them to the cart. A
// bad row fails the import before anything is added. It returns the number
// of rows imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["id"]; !ok {
		return 0, errors.New("missing id column")
	}

	var rows []*csvRow
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return 0, err
		}
		if row != nil {
			rows = append(rows, row)
		}
	}

	for _, row := range rows {
		i.cart.AddToCart(ctx, domain.Product{
			ID:    row.ID,
			Title: row.Title,
			Image: row.Image,
			Price: row.Price,
		}, row.Quantity)
	}
	return len(rows), nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	idStr := pick(record, index, "id")
	priceStr := pick(record, index, "price")
	qtyStr := pick(record, index, "quantity")
	if idStr == "" && priceStr == "" && qtyStr == "" {
		return nil, nil
	}

	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("row %d: invalid id %q", line, idStr)
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("row %d: invalid price %q", line, priceStr)
	}
	qty := 1
	if qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil || qty < 1 {
			return nil, fmt.Errorf("row %d: invalid quantity %q", line, qtyStr)
		}
	}

	return &csvRow{
		Line:     line,
		ID:       id,
		Title:    pick(record, index, "title"),
		Image:    pick(record, index, "image"),
		Price:    price,
		Quantity: qty,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
