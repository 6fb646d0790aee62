package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	cartrepo "storefront/internal/repository/cart"
	"storefront/internal/repository/kv"
	cartsvc "storefront/internal/service/cart"
)

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,title,image,price,quantity
1,Wireless Earbuds,https://example.com/img1.jpg,24.99,1
,,,,
2,Phone Case,https://example.com/img2.jpg,9.50,
1,Wireless Earbuds,https://example.com/img1.jpg,24.99,2,`

	ctx := context.Background()
	cart := cartsvc.New(ctx, cartrepo.NewKV(kv.NewMemory(), cartrepo.DefaultKey))
	imp := NewCSVImporter(strings.NewReader(csvData), cart)

	count, err := imp.Run(ctx)
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows imported, got %d", count)
	}

	snap := cart.Snapshot()
	if len(snap.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %+v", snap.Lines)
	}
	if cart.ItemQuantity(1) != 3 || cart.ItemQuantity(2) != 1 {
		t.Fatalf("unexpected quantities %+v", snap.Lines)
	}
	if snap.Lines[0].Title != "Wireless Earbuds" || snap.Lines[1].Image != "https://example.com/img2.jpg" {
		t.Fatalf("unexpected line data %+v", snap.Lines)
	}
	if !snap.Total.Equal(decimal.RequireFromString("84.47")) {
		t.Fatalf("unexpected total %s", snap.Total)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing id column":       "title,price\nPhone,1.00",
		"row 2: invalid id":       "id,price,quantity\nabc,1.00,1",
		"row 3: invalid price":    "id,price,quantity\n1,1.00,1\n2,-5,1",
		"row 2: invalid quantity": "id,price,quantity\n1,1.00,0",
	}
	for want, data := range cases {
		ctx := context.Background()
		cart := cartsvc.New(ctx, cartrepo.NewKV(kv.NewMemory(), cartrepo.DefaultKey))
		n, err := NewCSVImporter(strings.NewReader(data), cart).Run(ctx)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error containing %q, got %v", want, err)
		}
		if n != 0 || len(cart.Snapshot().Lines) != 0 {
			t.Fatalf("%s: rows before the bad one were applied (n=%d, lines=%+v)", want, n, cart.Snapshot().Lines)
		}
	}
}
