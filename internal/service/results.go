package service

import (
	"errors"

	"crm/internal/domain"
)

var (
	// ErrInvalidInput — некорректный аргумент: формат телефона, неположительное количество
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotEnoughStock — запрошенное количество превышает остаток
	ErrNotEnoughStock = errors.New("not enough stock")
)

// Результаты мутаций. Внутренние сбои не пробрасываются наружу:
// операция возвращает ok=false и безопасное для пользователя сообщение.
// Err хранит классификацию для транспортного слоя и в JSON не попадает.

type CustomerResult struct {
	Customer *domain.Customer `json:"customer"`
	Message  string           `json:"message"`
	OK       bool             `json:"ok"`
	Err      error            `json:"-"`
}

type ProductResult struct {
	Product *domain.Product `json:"product"`
	Message string          `json:"message"`
	OK      bool            `json:"ok"`
	Err     error           `json:"-"`
}

type OrderResult struct {
	Order   *domain.Order `json:"order"`
	Message string        `json:"message"`
	OK      bool          `json:"ok"`
	Err     error         `json:"-"`
}

type RestockResult struct {
	OK              bool             `json:"ok"`
	Message         string           `json:"message"`
	UpdatedProducts []domain.Product `json:"updated_products"`
	Err             error            `json:"-"`
}
