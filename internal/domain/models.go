package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer представляет клиента CRM
type Customer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"type:varchar(254);uniqueIndex;not null"`
	Phone     string    `json:"phone,omitempty" gorm:"type:varchar(30)"`
	CreatedAt time.Time `json:"created_at"`
}

// Product представляет товар со счётчиком остатка.
// Stock меняется только транзакционными операциями (заказ, пополнение).
type Product struct {
	ID    int64           `json:"id" gorm:"primaryKey"`
	Name  string          `json:"name" gorm:"type:varchar(200);not null"`
	Price decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Stock int64           `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
}

// Order сущность заказа: один товар и количество, сумма фиксируется при создании
type Order struct {
	ID          int64           `json:"id" gorm:"primaryKey"`
	CustomerID  int64           `json:"customer_id" gorm:"index;not null"`
	ProductID   int64           `json:"product_id" gorm:"index;not null"`
	Quantity    int64           `json:"quantity" gorm:"not null;check:quantity >= 1"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	OrderDate   time.Time       `json:"order_date" gorm:"index"`
}
