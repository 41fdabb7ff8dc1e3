package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"crm/internal/service"
)

// LowStockRestock вызывает массовое пополнение и протоколирует
// обновлённые товары
type LowStockRestock struct {
	products *service.ProductService
	logPath  string
	log      *zap.Logger
}

func NewLowStockRestock(products *service.ProductService, logPath string, log *zap.Logger) *LowStockRestock {
	return &LowStockRestock{products: products, logPath: logPath, log: log}
}

func (j *LowStockRestock) Run() {
	runID := uuid.NewString()
	ts := time.Now().Format(logTimeLayout)

	res := j.products.RestockLowStock(context.Background(), 0)
	if !res.OK {
		// Contention повторяемо: следующий запуск по расписанию попробует снова
		j.log.Warn("restock job failed", zap.String("run_id", runID), zap.String("message", res.Message))
		if err := appendLines(j.logPath, []string{fmt.Sprintf("%s - ERROR: %s", ts, res.Message)}); err != nil {
			j.log.Warn("restock job: log write failed", zap.String("run_id", runID), zap.Error(err))
		}
		return
	}

	lines := []string{fmt.Sprintf("%s - Restocked %d products", ts, len(res.UpdatedProducts))}
	for _, p := range res.UpdatedProducts {
		lines = append(lines, fmt.Sprintf("- %s: stock=%d", p.Name, p.Stock))
	}
	if err := appendLines(j.logPath, lines); err != nil {
		j.log.Warn("restock job: log write failed", zap.String("run_id", runID), zap.Error(err))
	}
	j.log.Info("restock job done", zap.String("run_id", runID), zap.Int("updated", len(res.UpdatedProducts)))
}
