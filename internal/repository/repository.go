package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"crm/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail возвращается при нарушении уникальности email клиента
var ErrDuplicateEmail = errors.New("email already exists")

// ErrContention возвращается, если блокировки строк не удалось получить за
// отведённое время. Единственная повторяемая ошибка.
var ErrContention = errors.New("lock contention")

// ErrInvalidRecord — защита на границе хранилища: price >= 0, stock >= 0,
// quantity >= 1. Нарушение отклоняется до записи.
var ErrInvalidRecord = errors.New("invalid record")

// CustomerFilter параметры фильтрации списка клиентов
type CustomerFilter struct {
	NameSubstring  string
	EmailSubstring string
}

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	NameSubstring string
	MinPrice      *float64
	MaxPrice      *float64
	StockBelow    *int64
}

// OrderFilter параметры фильтрации списка заказов
type OrderFilter struct {
	Since *time.Time
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]domain.Customer, error)
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	UpdateStock(ctx context.Context, id int64, stock int64) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
}

// StockTx выполняет fn, удерживая блокировки строк указанных товаров.
// Блокировки берутся в порядке возрастания id (общее правило против
// взаимоблокировок) и освобождаются вместе после завершения fn.
// Если блокировки не получены за отведённое время — ErrContention,
// без частичных изменений.
type StockTx interface {
	WithProductLocks(ctx context.Context, productIDs []int64, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortedUniqueIDs нормализует набор id для захвата блокировок
func sortedUniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
