package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crm/internal/domain"
	"crm/internal/repository"
	"crm/internal/validation"
)

// OrderService реализует размещение заказа: проверка наличия и атомарное
// списание остатка под строковой блокировкой товара
type OrderService struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	tx        repository.StockTx
	log       *zap.Logger
}

func NewOrderService(customers repository.CustomerRepository, products repository.ProductRepository, orders repository.OrderRepository, tx repository.StockTx, log *zap.Logger) *OrderService {
	return &OrderService{customers: customers, products: products, orders: orders, tx: tx, log: log}
}

// CreateOrder размещает заказ на один товар. Последовательность
// чтение-проверка-запись для остатка сериализована по товару: два
// конкурентных заказа не могут вместе увести остаток в минус.
func (s *OrderService) CreateOrder(ctx context.Context, customerID, productID, quantity int64) OrderResult {
	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OrderResult{Message: "Customer not found", Err: err}
		}
		s.log.Error("create order: load customer failed", zap.Int64("customer_id", customerID), zap.Error(err))
		return OrderResult{Message: "Could not create order", Err: err}
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return OrderResult{Message: "Product not found", Err: err}
		}
		s.log.Error("create order: load product failed", zap.Int64("product_id", productID), zap.Error(err))
		return OrderResult{Message: "Could not create order", Err: err}
	}
	if !validation.Quantity(quantity) {
		return OrderResult{Message: "Quantity must be positive", Err: ErrInvalidInput}
	}

	var created *domain.Order
	err := s.tx.WithProductLocks(ctx, []int64{productID}, func(ctx context.Context) error {
		// re-read under the row lock
		p, err := s.products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p.Stock < quantity {
			return ErrNotEnoughStock
		}
		o := domain.Order{
			CustomerID:  customerID,
			ProductID:   productID,
			Quantity:    quantity,
			TotalAmount: p.Price.Mul(decimal.NewFromInt(quantity)),
		}
		if err := s.orders.Create(ctx, &o); err != nil {
			return err
		}
		if err := s.products.UpdateStock(ctx, p.ID, p.Stock-quantity); err != nil {
			return err
		}
		created = &o
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotEnoughStock):
			return OrderResult{Message: "Not enough stock", Err: err}
		case errors.Is(err, repository.ErrContention):
			return OrderResult{Message: "Product is busy, try again", Err: err}
		case errors.Is(err, repository.ErrNotFound):
			return OrderResult{Message: "Product not found", Err: err}
		default:
			s.log.Error("create order failed", zap.Int64("product_id", productID), zap.Error(err))
			return OrderResult{Message: "Could not create order", Err: err}
		}
	}
	return OrderResult{Order: created, Message: "Order created", OK: true}
}

// GetOrder возвращает заказ по id
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

// ListOrders — снимок без блокировок; Since используется сканом напоминаний
func (s *OrderService) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	return s.orders.List(ctx, f)
}
