package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"crm/internal/repository"
)

func TestCreateProduct_Valid(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	res := ps.CreateProduct(ctx, "Aspirin", decimal.NewFromFloat(9.99), 5)
	if !res.OK {
		t.Fatalf("expected ok, got %q", res.Message)
	}
	if res.Product.ID == 0 {
		t.Fatalf("expected id assigned")
	}
	if !res.Product.Price.Equal(decimal.NewFromFloat(9.99)) {
		t.Fatalf("price mismatch: %v", res.Product.Price)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	if res := ps.CreateProduct(ctx, "", decimal.NewFromInt(1), 1); res.OK {
		t.Fatalf("expected failure for empty name")
	}
	if res := ps.CreateProduct(ctx, "A", decimal.NewFromInt(-1), 1); res.OK {
		t.Fatalf("expected failure for negative price")
	}
	if res := ps.CreateProduct(ctx, "A", decimal.NewFromInt(1), -1); res.OK {
		t.Fatalf("expected failure for negative stock")
	}
	// нулевой остаток допустим
	if res := ps.CreateProduct(ctx, "A", decimal.NewFromInt(1), 0); !res.OK {
		t.Fatalf("expected ok for zero stock, got %q", res.Message)
	}
}

func TestRestockLowStock(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	stocks := []int64{3, 15, 9}
	for _, s := range stocks {
		if res := ps.CreateProduct(ctx, "P", decimal.NewFromInt(1), s); !res.OK {
			t.Fatal(res.Message)
		}
	}

	res := ps.RestockLowStock(ctx, 10)
	if !res.OK {
		t.Fatalf("restock failed: %q", res.Message)
	}
	if len(res.UpdatedProducts) != 2 {
		t.Fatalf("expected 2 updated, got %d", len(res.UpdatedProducts))
	}
	if res.Message != "Updated 2 products" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	for _, p := range res.UpdatedProducts {
		if p.Stock != 13 && p.Stock != 19 {
			t.Fatalf("unexpected stock after restock: %d", p.Stock)
		}
	}

	// итоговые остатки: 13, 15, 19
	list, err := ps.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		t.Fatal(err)
	}
	total := int64(0)
	for _, p := range list {
		total += p.Stock
	}
	if total != 13+15+19 {
		t.Fatalf("stocks after restock wrong, sum=%d", total)
	}
}

func TestRestockLowStock_Idempotence(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	if res := ps.CreateProduct(ctx, "P", decimal.NewFromInt(1), 3); !res.OK {
		t.Fatal(res.Message)
	}

	first := ps.RestockLowStock(ctx, 10)
	if !first.OK || len(first.UpdatedProducts) != 1 {
		t.Fatalf("first restock: %q, %d updated", first.Message, len(first.UpdatedProducts))
	}

	// строка уже поднята выше порога — второй вызов её не трогает
	second := ps.RestockLowStock(ctx, 10)
	if !second.OK {
		t.Fatalf("second restock: %q", second.Message)
	}
	if len(second.UpdatedProducts) != 0 {
		t.Fatalf("expected no updates on second pass, got %d", len(second.UpdatedProducts))
	}

	p, err := ps.GetProduct(ctx, first.UpdatedProducts[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 13 {
		t.Fatalf("stock expected 13, got %d", p.Stock)
	}
}

func TestRestockLowStock_DefaultIncrement(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	if res := ps.CreateProduct(ctx, "P", decimal.NewFromInt(1), 4); !res.OK {
		t.Fatal(res.Message)
	}
	res := ps.RestockLowStock(ctx, 0)
	if !res.OK || len(res.UpdatedProducts) != 1 {
		t.Fatalf("restock: %q", res.Message)
	}
	if res.UpdatedProducts[0].Stock != 14 {
		t.Fatalf("default increment not applied: %d", res.UpdatedProducts[0].Stock)
	}
}

func TestRestockLowStock_NegativeIncrement(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	res := ps.RestockLowStock(ctx, -5)
	if res.OK {
		t.Fatalf("expected failure for negative increment")
	}
}

func TestListProducts_Filtering(t *testing.T) {
	ctx := context.Background()
	_, ps, _ := setup(t)

	must := func(res ProductResult) {
		if !res.OK {
			t.Fatal(res.Message)
		}
	}
	must(ps.CreateProduct(ctx, "Aspirin", decimal.NewFromInt(100), 5))
	must(ps.CreateProduct(ctx, "Paracetamol", decimal.NewFromInt(50), 5))
	must(ps.CreateProduct(ctx, "Ibuprofen", decimal.NewFromInt(150), 25))

	list, err := ps.ListProducts(ctx, repository.ProductFilter{NameSubstring: "in"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) == 0 {
		t.Fatalf("expected some items")
	}

	min := 100.0
	list, err = ps.ListProducts(ctx, repository.ProductFilter{MinPrice: &min})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range list {
		if p.Price.InexactFloat64() < min {
			t.Fatalf("price filter failed")
		}
	}

	below := int64(10)
	list, err = ps.ListProducts(ctx, repository.ProductFilter{StockBelow: &below})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 low-stock items, got %d", len(list))
	}
}
