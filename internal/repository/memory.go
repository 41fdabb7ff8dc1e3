package repository

import (
	"context"
	"sync"
	"time"

	"crm/internal/domain"
)

// MemoryStore объединённое in-memory хранилище и простой генератор ID.
// Помимо общего RWMutex на картах держит таблицу строковых блокировок
// товаров: по одному канальному семафору на строку.
type MemoryStore struct {
	mu            sync.RWMutex
	lockWait      time.Duration
	nextCustID    int64
	nextProdID    int64
	nextOrderID   int64
	customersByID map[int64]domain.Customer
	productsByID  map[int64]domain.Product
	ordersByID    map[int64]domain.Order
	emailIndex    map[string]int64
	rowLocks      map[int64]chan struct{}
}

func NewMemoryStore(lockWait time.Duration) *MemoryStore {
	return &MemoryStore{
		lockWait:      lockWait,
		nextCustID:    1,
		nextProdID:    1,
		nextOrderID:   1,
		customersByID: make(map[int64]domain.Customer),
		productsByID:  make(map[int64]domain.Product),
		ordersByID:    make(map[int64]domain.Order),
		emailIndex:    make(map[string]int64),
		rowLocks:      make(map[int64]chan struct{}),
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)
var _ StockTx = (*MemoryStore)(nil)

// ProductRepository implementation
func (m *MemoryStore) Create(ctx context.Context, p *domain.Product) error {
	if p.Price.IsNegative() || p.Stock < 0 {
		return ErrInvalidRecord
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextProdID
	m.nextProdID++
	m.productsByID[p.ID] = *p
	m.rowLocks[p.ID] = make(chan struct{}, 1)
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.productsByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	// return copy
	cp := p
	return &cp, nil
}

func (m *MemoryStore) UpdateStock(ctx context.Context, id int64, stock int64) error {
	if stock < 0 {
		return ErrInvalidRecord
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.productsByID[id]
	if !ok {
		return ErrNotFound
	}
	p.Stock = stock
	m.productsByID[id] = p
	return nil
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Product, 0)
	for _, p := range m.productsByID {
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		if f.MinPrice != nil && p.Price.InexactFloat64() < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && p.Price.InexactFloat64() > *f.MaxPrice {
			continue
		}
		if f.StockBelow != nil && p.Stock >= *f.StockBelow {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// WithProductLocks захватывает семафоры строк в порядке возрастания id.
// Общий дедлайн на весь набор: не успели — откат захваченного и ErrContention.
func (m *MemoryStore) WithProductLocks(ctx context.Context, productIDs []int64, fn func(ctx context.Context) error) error {
	ids := sortedUniqueIDs(productIDs)
	deadline := time.Now().Add(m.lockWait)

	held := make([]chan struct{}, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for _, id := range ids {
		m.mu.RLock()
		ch, ok := m.rowLocks[id]
		m.mu.RUnlock()
		if !ok {
			// несуществующий товар: блокировать нечего, fn увидит ErrNotFound
			continue
		}
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-time.After(time.Until(deadline)):
			release()
			return ErrContention
		case <-ctx.Done():
			release()
			return ctx.Err()
		}
	}
	defer release()
	return fn(ctx)
}

// MemoryCustomers реализует CustomerRepository поверх общего хранилища
type MemoryCustomers struct{ store *MemoryStore }

func NewMemoryCustomers(store *MemoryStore) *MemoryCustomers { return &MemoryCustomers{store: store} }

var _ CustomerRepository = (*MemoryCustomers)(nil)

func (mc *MemoryCustomers) Create(ctx context.Context, c *domain.Customer) error {
	mc.store.mu.Lock()
	defer mc.store.mu.Unlock()
	// email приходит уже нормализованным (trim+lowercase), поэтому
	// совпадение по ключу и есть case-insensitive уникальность
	if _, exists := mc.store.emailIndex[c.Email]; exists {
		return ErrDuplicateEmail
	}
	c.ID = mc.store.nextCustID
	mc.store.nextCustID++
	c.CreatedAt = time.Now().UTC()
	mc.store.customersByID[c.ID] = *c
	mc.store.emailIndex[c.Email] = c.ID
	return nil
}

func (mc *MemoryCustomers) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	c, ok := mc.store.customersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := c
	return &cp, nil
}

func (mc *MemoryCustomers) List(ctx context.Context, f CustomerFilter) ([]domain.Customer, error) {
	mc.store.mu.RLock()
	defer mc.store.mu.RUnlock()
	out := make([]domain.Customer, 0)
	for _, c := range mc.store.customersByID {
		if !containsIgnoreCase(c.Name, f.NameSubstring) {
			continue
		}
		if !containsIgnoreCase(c.Email, f.EmailSubstring) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// MemoryOrders реализует OrderRepository поверх общего хранилища
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	if o.Quantity < 1 || o.TotalAmount.IsNegative() {
		return ErrInvalidRecord
	}
	mo.store.mu.Lock()
	defer mo.store.mu.Unlock()
	o.ID = mo.store.nextOrderID
	mo.store.nextOrderID++
	o.OrderDate = time.Now().UTC()
	mo.store.ordersByID[o.ID] = *o
	return nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	o, ok := mo.store.ordersByID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := o
	return &cp, nil
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	mo.store.mu.RLock()
	defer mo.store.mu.RUnlock()
	out := make([]domain.Order, 0)
	for _, o := range mo.store.ordersByID {
		if f.Since != nil && o.OrderDate.Before(*f.Since) {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
