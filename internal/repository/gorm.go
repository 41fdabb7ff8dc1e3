package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm/internal/domain"
)

// GormStore хранилище на Postgres. Строковые блокировки —
// SELECT ... FOR UPDATE в порядке возрастания id внутри одной транзакции,
// ограничение ожидания через lock_timeout.
type GormStore struct {
	db       *gorm.DB
	lockWait time.Duration
}

func NewGormStore(dsn string, lockWait time.Duration) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&domain.Customer{}, &domain.Product{}, &domain.Order{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &GormStore{db: db, lockWait: lockWait}, nil
}

var _ ProductRepository = (*GormStore)(nil)
var _ StockTx = (*GormStore)(nil)

// gormTxKey помечает контекст, выполняющийся внутри WithProductLocks
type gormTxKey struct{}

func (g *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(gormTxKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return g.db.WithContext(ctx)
}

// ProductRepository implementation
func (g *GormStore) Create(ctx context.Context, p *domain.Product) error {
	if p.Price.IsNegative() || p.Stock < 0 {
		return ErrInvalidRecord
	}
	return g.conn(ctx).Create(p).Error
}

func (g *GormStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := g.conn(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (g *GormStore) UpdateStock(ctx context.Context, id int64, stock int64) error {
	if stock < 0 {
		return ErrInvalidRecord
	}
	res := g.conn(ctx).Model(&domain.Product{}).Where("id = ?", id).Update("stock", stock)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	q := g.conn(ctx).Model(&domain.Product{})
	if f.NameSubstring != "" {
		q = q.Where("name ILIKE ?", "%"+f.NameSubstring+"%")
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.StockBelow != nil {
		q = q.Where("stock < ?", *f.StockBelow)
	}
	out := make([]domain.Product, 0)
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormStore) WithProductLocks(ctx context.Context, productIDs []int64, fn func(ctx context.Context) error) error {
	ids := sortedUniqueIDs(productIDs)
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", g.lockWait.Milliseconds())).Error; err != nil {
			return err
		}
		if len(ids) > 0 {
			var locked []domain.Product
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ?", ids).
				Order("id").
				Find(&locked).Error
			if err != nil {
				return err
			}
		}
		return fn(context.WithValue(ctx, gormTxKey{}, tx))
	})
	if isLockTimeout(err) {
		return ErrContention
	}
	return err
}

// 55P03 = lock_not_available
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55P03"
}

// GormCustomers реализует CustomerRepository поверх общего подключения
type GormCustomers struct{ store *GormStore }

func NewGormCustomers(store *GormStore) *GormCustomers { return &GormCustomers{store: store} }

var _ CustomerRepository = (*GormCustomers)(nil)

func (gc *GormCustomers) Create(ctx context.Context, c *domain.Customer) error {
	c.CreatedAt = time.Now().UTC()
	if err := gc.store.conn(ctx).Create(c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (gc *GormCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var c domain.Customer
	if err := gc.store.conn(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (gc *GormCustomers) List(ctx context.Context, f CustomerFilter) ([]domain.Customer, error) {
	q := gc.store.conn(ctx).Model(&domain.Customer{})
	if f.NameSubstring != "" {
		q = q.Where("name ILIKE ?", "%"+f.NameSubstring+"%")
	}
	if f.EmailSubstring != "" {
		q = q.Where("email ILIKE ?", "%"+f.EmailSubstring+"%")
	}
	out := make([]domain.Customer, 0)
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GormOrders реализует OrderRepository поверх общего подключения
type GormOrders struct{ store *GormStore }

func NewGormOrders(store *GormStore) *GormOrders { return &GormOrders{store: store} }

var _ OrderRepository = (*GormOrders)(nil)

func (r *GormOrders) Create(ctx context.Context, o *domain.Order) error {
	if o.Quantity < 1 || o.TotalAmount.IsNegative() {
		return ErrInvalidRecord
	}
	o.OrderDate = time.Now().UTC()
	return r.store.conn(ctx).Create(o).Error
}

func (r *GormOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.store.conn(ctx).First(&o, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	q := r.store.conn(ctx).Model(&domain.Order{})
	if f.Since != nil {
		q = q.Where("order_date >= ?", *f.Since)
	}
	out := make([]domain.Order, 0)
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
