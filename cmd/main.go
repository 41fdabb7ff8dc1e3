package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"crm/internal/config"
	httpapi "crm/internal/http"
	"crm/internal/jobs"
	"crm/internal/repository"
	"crm/internal/service"

	_ "crm/docs"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	var (
		customersRepo repository.CustomerRepository
		productsRepo  repository.ProductRepository
		ordersRepo    repository.OrderRepository
		stockTx       repository.StockTx
	)
	if cfg.DatabaseDSN != "" {
		store, err := repository.NewGormStore(cfg.DatabaseDSN, cfg.LockWait)
		if err != nil {
			log.Fatal("connect database", zap.Error(err))
		}
		customersRepo = repository.NewGormCustomers(store)
		productsRepo = store
		ordersRepo = repository.NewGormOrders(store)
		stockTx = store
		log.Info("using postgres store")
	} else {
		store := repository.NewMemoryStore(cfg.LockWait)
		customersRepo = repository.NewMemoryCustomers(store)
		productsRepo = store
		ordersRepo = repository.NewMemoryOrders(store)
		stockTx = store
		log.Info("using in-memory store")
	}

	customersSvc := service.NewCustomerService(customersRepo, log)
	productsSvc := service.NewProductService(productsRepo, stockTx, cfg.RestockThreshold, cfg.RestockIncrement, log)
	ordersSvc := service.NewOrderService(customersRepo, productsRepo, ordersRepo, stockTx, log)

	srv := httpapi.NewServer(customersSvc, productsSvc, ordersSvc, log)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// периодические задания: расписания из исходной cron-раскладки
	heartbeat := jobs.NewHeartbeat(cfg.HeartbeatLog, cfg.HelloURL, log)
	restock := jobs.NewLowStockRestock(productsSvc, cfg.LowStockLog, log)
	reminders := jobs.NewOrderReminders(ordersSvc, customersSvc, cfg.ReminderWindow, cfg.ReminderLog, log)
	report := jobs.NewReport(customersSvc, ordersSvc, cfg.ReportLog, log)

	sched := cron.New()
	sched.AddJob("*/5 * * * *", heartbeat)
	sched.AddJob("0 */12 * * *", restock)
	sched.AddJob("0 8 * * *", reminders)
	sched.AddJob("0 6 * * 1", report)
	sched.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}
