package jobs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"crm/internal/repository"
	"crm/internal/service"
)

func setupServices(t *testing.T) (*service.CustomerService, *service.ProductService, *service.OrderService) {
	t.Helper()
	store := repository.NewMemoryStore(2 * time.Second)
	customersRepo := repository.NewMemoryCustomers(store)
	ordersRepo := repository.NewMemoryOrders(store)
	log := zap.NewNop()
	cs := service.NewCustomerService(customersRepo, log)
	ps := service.NewProductService(store, store, 10, 10, log)
	osvc := service.NewOrderService(customersRepo, store, ordersRepo, store, log)
	return cs, ps, osvc
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestHeartbeat(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	h := NewHeartbeat(logPath, "", zap.NewNop())

	h.Run()
	h.Run()

	content := readLog(t, logPath)
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.Contains(t, line, "CRM is alive")
	}
}

func TestHeartbeat_DeadHelloEndpointNotFatal(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	h := NewHeartbeat(logPath, "http://127.0.0.1:1/hello", zap.NewNop())

	h.Run() // ping fails, the mark is still written

	require.Contains(t, readLog(t, logPath), "CRM is alive")
}

func TestLowStockRestockJob(t *testing.T) {
	_, ps, _ := setupServices(t)
	ctx := context.Background()
	require.True(t, ps.CreateProduct(ctx, "Aspirin", decimal.NewFromInt(1), 3).OK)
	require.True(t, ps.CreateProduct(ctx, "Ibuprofen", decimal.NewFromInt(1), 15).OK)

	logPath := filepath.Join(t.TempDir(), "low_stock.txt")
	j := NewLowStockRestock(ps, logPath, zap.NewNop())
	j.Run()

	content := readLog(t, logPath)
	require.Contains(t, content, "Restocked 1 products")
	require.Contains(t, content, "- Aspirin: stock=13")
	require.NotContains(t, content, "Ibuprofen")
}

func TestOrderRemindersJob(t *testing.T) {
	cs, ps, osvc := setupServices(t)
	ctx := context.Background()

	cr := cs.CreateCustomer(ctx, "John", "john@example.com", "")
	require.True(t, cr.OK)
	pr := ps.CreateProduct(ctx, "Aspirin", decimal.NewFromInt(10), 5)
	require.True(t, pr.OK)
	or := osvc.CreateOrder(ctx, cr.Customer.ID, pr.Product.ID, 1)
	require.True(t, or.OK)

	logPath := filepath.Join(t.TempDir(), "reminders.txt")
	j := NewOrderReminders(osvc, cs, 7*24*time.Hour, logPath, zap.NewNop())
	j.Run()

	content := readLog(t, logPath)
	require.Contains(t, content, "Order 1 -> john@example.com")
}

func TestOrderRemindersJob_OutsideWindow(t *testing.T) {
	cs, ps, osvc := setupServices(t)
	ctx := context.Background()

	cr := cs.CreateCustomer(ctx, "John", "john@example.com", "")
	require.True(t, cr.OK)
	pr := ps.CreateProduct(ctx, "Aspirin", decimal.NewFromInt(10), 5)
	require.True(t, pr.OK)
	require.True(t, osvc.CreateOrder(ctx, cr.Customer.ID, pr.Product.ID, 1).OK)

	// отрицательное окно: свежий заказ за границей, строк нет и файл не создаётся
	logPath := filepath.Join(t.TempDir(), "reminders.txt")
	j := NewOrderReminders(osvc, cs, -time.Hour, logPath, zap.NewNop())
	j.Run()

	_, err := os.Stat(logPath)
	require.Error(t, err, "no reminders expected, log file should not exist")
}

func TestReportJob(t *testing.T) {
	cs, ps, osvc := setupServices(t)
	ctx := context.Background()

	cr := cs.CreateCustomer(ctx, "John", "john@example.com", "")
	require.True(t, cr.OK)
	pr := ps.CreateProduct(ctx, "Aspirin", decimal.NewFromFloat(9.99), 5)
	require.True(t, pr.OK)
	require.True(t, osvc.CreateOrder(ctx, cr.Customer.ID, pr.Product.ID, 2).OK)

	logPath := filepath.Join(t.TempDir(), "report.txt")
	j := NewReport(cs, osvc, logPath, zap.NewNop())
	j.Run()

	content := readLog(t, logPath)
	require.Contains(t, content, "Report: 1 customers, 1 orders, 19.98 revenue")
}
