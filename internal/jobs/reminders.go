package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crm/internal/repository"
	"crm/internal/service"
)

// OrderReminders находит заказы за последнее окно (по умолчанию 7 дней)
// и протоколирует напоминание с email клиента
type OrderReminders struct {
	orders    *service.OrderService
	customers *service.CustomerService
	window    time.Duration
	logPath   string
	log       *zap.Logger
}

func NewOrderReminders(orders *service.OrderService, customers *service.CustomerService, window time.Duration, logPath string, log *zap.Logger) *OrderReminders {
	return &OrderReminders{orders: orders, customers: customers, window: window, logPath: logPath, log: log}
}

func (j *OrderReminders) Run() {
	runID := uuid.NewString()
	ctx := context.Background()
	now := time.Now().UTC()
	since := now.Add(-j.window)

	list, err := j.orders.ListOrders(ctx, repository.OrderFilter{Since: &since})
	if err != nil {
		j.log.Warn("reminders: list orders failed", zap.String("run_id", runID), zap.Error(err))
		return
	}

	lines := make([]string, 0, len(list))
	for _, o := range list {
		cust, err := j.customers.GetCustomer(ctx, o.CustomerID)
		if err != nil {
			j.log.Warn("reminders: load customer failed",
				zap.String("run_id", runID), zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s - Order %d -> %s", now.Format(logTimeLayout), o.ID, cust.Email))
	}
	if err := appendLines(j.logPath, lines); err != nil {
		j.log.Warn("reminders: log write failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	j.log.Info("order reminders processed", zap.String("run_id", runID), zap.Int("orders", len(lines)))
}
