package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"crm/internal/repository"
)

func setup(t *testing.T) (*CustomerService, *ProductService, *OrderService) {
	t.Helper()
	store := repository.NewMemoryStore(2 * time.Second)
	customersRepo := repository.NewMemoryCustomers(store)
	ordersRepo := repository.NewMemoryOrders(store)
	log := zap.NewNop()
	cs := NewCustomerService(customersRepo, log)
	ps := NewProductService(store, store, 10, 10, log)
	os := NewOrderService(customersRepo, store, ordersRepo, store, log)
	return cs, ps, os
}

func TestCreateCustomer_Valid(t *testing.T) {
	ctx := context.Background()
	cs, _, _ := setup(t)

	res := cs.CreateCustomer(ctx, "  John Doe ", " John@Example.COM ", "+123456789")
	if !res.OK {
		t.Fatalf("expected ok, got %q", res.Message)
	}
	if res.Customer.Name != "John Doe" {
		t.Fatalf("name not trimmed: %q", res.Customer.Name)
	}
	if res.Customer.Email != "john@example.com" {
		t.Fatalf("email not normalized: %q", res.Customer.Email)
	}
	if res.Customer.CreatedAt.IsZero() {
		t.Fatalf("created_at not set")
	}
}

func TestCreateCustomer_InvalidPhone(t *testing.T) {
	ctx := context.Background()
	cs, _, _ := setup(t)

	res := cs.CreateCustomer(ctx, "John", "john@example.com", "12345")
	if res.OK {
		t.Fatalf("expected failure for bad phone")
	}
	if !errors.Is(res.Err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", res.Err)
	}
	if res.Message != "Invalid phone format" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	// дефисный формат валиден
	if res := cs.CreateCustomer(ctx, "Jane", "jane@example.com", "123-456-7890"); !res.OK {
		t.Fatalf("expected ok for dashed phone, got %q", res.Message)
	}
	// пустой телефон валиден
	if res := cs.CreateCustomer(ctx, "Jim", "jim@example.com", ""); !res.OK {
		t.Fatalf("expected ok for empty phone, got %q", res.Message)
	}
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	cs, _, _ := setup(t)

	if res := cs.CreateCustomer(ctx, "John", "john@example.com", ""); !res.OK {
		t.Fatalf("first create failed: %q", res.Message)
	}
	// та же почта в другом регистре — тоже дубликат
	res := cs.CreateCustomer(ctx, "Johnny", "JOHN@example.com", "")
	if res.OK {
		t.Fatalf("expected duplicate failure")
	}
	if !errors.Is(res.Err, repository.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email, got %v", res.Err)
	}
	if res.Message != "Email already exists" {
		t.Fatalf("unexpected message %q", res.Message)
	}

	// новая строка не создана
	list, err := cs.ListCustomers(ctx, repository.CustomerFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("customer count changed: %d", len(list))
	}
}

func TestCreateCustomer_MissingFields(t *testing.T) {
	ctx := context.Background()
	cs, _, _ := setup(t)

	if res := cs.CreateCustomer(ctx, "   ", "a@b.com", ""); res.OK {
		t.Fatalf("expected failure for blank name")
	}
	if res := cs.CreateCustomer(ctx, "John", "  ", ""); res.OK {
		t.Fatalf("expected failure for blank email")
	}
}

func TestGetCustomer(t *testing.T) {
	ctx := context.Background()
	cs, _, _ := setup(t)

	res := cs.CreateCustomer(ctx, "John", "john@example.com", "")
	if !res.OK {
		t.Fatal(res.Message)
	}
	got, err := cs.GetCustomer(ctx, res.Customer.ID)
	if err != nil || got.Email != "john@example.com" {
		t.Fatalf("get: %v", err)
	}
	if _, err := cs.GetCustomer(ctx, 999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := cs.GetCustomer(ctx, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
