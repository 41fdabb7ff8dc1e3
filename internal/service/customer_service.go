package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"crm/internal/domain"
	"crm/internal/repository"
	"crm/internal/validation"
)

// CustomerService инкапсулирует бизнес-логику вокруг клиентов
type CustomerService struct {
	repo repository.CustomerRepository
	log  *zap.Logger
}

func NewCustomerService(repo repository.CustomerRepository, log *zap.Logger) *CustomerService {
	return &CustomerService{repo: repo, log: log}
}

// CreateCustomer нормализует имя и email, проверяет телефон и вставляет запись.
// Повторный email — DuplicateEmail, ok=false, без новой строки.
func (s *CustomerService) CreateCustomer(ctx context.Context, name, email, phone string) CustomerResult {
	name = validation.NormalizeName(name)
	email = validation.NormalizeEmail(email)

	if name == "" || email == "" {
		return CustomerResult{Message: "Name and email are required", Err: ErrInvalidInput}
	}
	if !validation.Phone(phone) {
		return CustomerResult{Message: "Invalid phone format", Err: ErrInvalidInput}
	}

	c := domain.Customer{Name: name, Email: email, Phone: phone}
	if err := s.repo.Create(ctx, &c); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return CustomerResult{Message: "Email already exists", Err: err}
		}
		s.log.Error("create customer failed", zap.String("email", email), zap.Error(err))
		return CustomerResult{Message: "Could not create customer", Err: err}
	}
	return CustomerResult{Customer: &c, Message: "Customer created", OK: true}
}

// GetCustomer возвращает клиента по id
func (s *CustomerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// ListCustomers — снимок без блокировок, фильтрация на стороне читателя
func (s *CustomerService) ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error) {
	return s.repo.List(ctx, f)
}
