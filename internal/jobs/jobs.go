// Package jobs содержит периодические задания: heartbeat, пополнение низких
// остатков, напоминания по заказам и сводный отчёт. Все задания только
// читают уже зафиксированное состояние (пополнение идёт через сервис) и
// дописывают строки в свои журнальные файлы. Сбой задания никогда не
// фатален для сервиса.
package jobs

import (
	"os"
	"path/filepath"
)

const (
	heartbeatTimeLayout = "02/01/2006-15:04:05"
	logTimeLayout       = "2006-01-02 15:04:05"
)

// appendLines дописывает строки в файл, создавая каталог при необходимости
func appendLines(path string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := f.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}
