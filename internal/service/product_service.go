package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crm/internal/domain"
	"crm/internal/repository"
	"crm/internal/validation"
)

// ProductService: создание товаров и массовое пополнение низких остатков.
// Порог и приращение по умолчанию передаются при конструировании,
// глобальных констант нет.
type ProductService struct {
	repo             repository.ProductRepository
	tx               repository.StockTx
	restockThreshold int64
	defaultIncrement int64
	log              *zap.Logger
}

func NewProductService(repo repository.ProductRepository, tx repository.StockTx, restockThreshold, defaultIncrement int64, log *zap.Logger) *ProductService {
	return &ProductService{
		repo:             repo,
		tx:               tx,
		restockThreshold: restockThreshold,
		defaultIncrement: defaultIncrement,
		log:              log,
	}
}

// CreateProduct валидирует цену и остаток и вставляет запись
func (s *ProductService) CreateProduct(ctx context.Context, name string, price decimal.Decimal, stock int64) ProductResult {
	name = validation.NormalizeName(name)
	if name == "" || price.IsNegative() || stock < 0 {
		return ProductResult{Message: "Invalid product data", Err: ErrInvalidInput}
	}

	p := domain.Product{Name: name, Price: price, Stock: stock}
	if err := s.repo.Create(ctx, &p); err != nil {
		s.log.Error("create product failed", zap.String("name", name), zap.Error(err))
		return ProductResult{Message: "Could not create product", Err: err}
	}
	return ProductResult{Product: &p, Message: "Product created", OK: true}
}

// GetProduct возвращает товар по id
func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListProducts — снимок без блокировок
func (s *ProductService) ListProducts(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	return s.repo.List(ctx, f)
}

// RestockLowStock пополняет все товары с остатком ниже порога на incrementBy
// (0 — приращение по умолчанию) одной атомарной операцией. Кандидаты
// блокируются по возрастанию id; под блокировкой порог перепроверяется,
// поэтому уже пополненные строки повторный вызов не трогает.
func (s *ProductService) RestockLowStock(ctx context.Context, incrementBy int64) RestockResult {
	if incrementBy < 0 {
		return RestockResult{Message: "Increment must not be negative", Err: ErrInvalidInput}
	}
	if incrementBy == 0 {
		incrementBy = s.defaultIncrement
	}

	threshold := s.restockThreshold
	candidates, err := s.repo.List(ctx, repository.ProductFilter{StockBelow: &threshold})
	if err != nil {
		s.log.Error("restock: list candidates failed", zap.Error(err))
		return RestockResult{Message: "Could not read products", Err: err}
	}

	ids := make([]int64, 0, len(candidates))
	for _, p := range candidates {
		ids = append(ids, p.ID)
	}

	updated := make([]domain.Product, 0, len(ids))
	err = s.tx.WithProductLocks(ctx, ids, func(ctx context.Context) error {
		for _, id := range ids {
			p, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if p.Stock >= threshold {
				continue
			}
			p.Stock += incrementBy
			if err := s.repo.UpdateStock(ctx, p.ID, p.Stock); err != nil {
				return err
			}
			updated = append(updated, *p)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrContention) {
			return RestockResult{Message: "Could not lock products, try again", Err: err}
		}
		s.log.Error("restock failed", zap.Error(err))
		return RestockResult{Message: "Could not restock products", Err: err}
	}

	return RestockResult{
		OK:              true,
		Message:         fmt.Sprintf("Updated %d products", len(updated)),
		UpdatedProducts: updated,
	}
}
