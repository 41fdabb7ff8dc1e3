package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"crm/internal/repository"
	"crm/internal/service"
)

// Report агрегирует число клиентов, число заказов и сумму totalAmount
type Report struct {
	customers *service.CustomerService
	orders    *service.OrderService
	logPath   string
	log       *zap.Logger
}

func NewReport(customers *service.CustomerService, orders *service.OrderService, logPath string, log *zap.Logger) *Report {
	return &Report{customers: customers, orders: orders, logPath: logPath, log: log}
}

func (j *Report) Run() {
	runID := uuid.NewString()
	ctx := context.Background()
	ts := time.Now().Format(logTimeLayout)

	custs, err := j.customers.ListCustomers(ctx, repository.CustomerFilter{})
	if err != nil {
		j.log.Warn("report: list customers failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	orders, err := j.orders.ListOrders(ctx, repository.OrderFilter{})
	if err != nil {
		j.log.Warn("report: list orders failed", zap.String("run_id", runID), zap.Error(err))
		return
	}

	revenue := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.TotalAmount)
	}

	line := fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue",
		ts, len(custs), len(orders), revenue.StringFixed(2))
	if err := appendLines(j.logPath, []string{line}); err != nil {
		j.log.Warn("report: log write failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	j.log.Info("report generated", zap.String("run_id", runID),
		zap.Int("customers", len(custs)), zap.Int("orders", len(orders)), zap.String("revenue", revenue.StringFixed(2)))
}
