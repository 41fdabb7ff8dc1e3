package config

import (
	"os"
	"strconv"
	"time"
)

const (
	ServiceName    = "crm"
	ServiceVersion = "0.1.0"
)

// Config собирает все процессные настройки. Значения передаются в
// конструкторы явно; пакетных изменяемых глобалов нет.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string // пусто — используется in-memory хранилище

	LockWait         time.Duration
	RestockThreshold int64
	RestockIncrement int64

	ReminderWindow time.Duration
	HelloURL       string

	HeartbeatLog string
	LowStockLog  string
	ReminderLog  string
	ReportLog    string
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":9091"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		LockWait:         getenvDuration("LOCK_WAIT", 3*time.Second),
		RestockThreshold: getenvInt64("RESTOCK_THRESHOLD", 10),
		RestockIncrement: getenvInt64("RESTOCK_INCREMENT", 10),

		ReminderWindow: getenvDuration("REMINDER_WINDOW", 7*24*time.Hour),
		HelloURL:       getenv("HELLO_URL", "http://localhost:9091/api/v1/hello"),

		HeartbeatLog: getenv("HEARTBEAT_LOG", "/tmp/crm_heartbeat_log.txt"),
		LowStockLog:  getenv("LOW_STOCK_LOG", "/tmp/low_stock_updates_log.txt"),
		ReminderLog:  getenv("REMINDER_LOG", "/tmp/order_reminders_log.txt"),
		ReportLog:    getenv("REPORT_LOG", "/tmp/crm_report_log.txt"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if x, err := strconv.ParseInt(v, 10, 64); err == nil {
			return x
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
