package jobs

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Heartbeat пишет отметку живости и опционально дёргает hello-эндпоинт.
// Недоступность эндпоинта игнорируется.
type Heartbeat struct {
	logPath  string
	helloURL string
	client   *http.Client
	log      *zap.Logger
}

func NewHeartbeat(logPath, helloURL string, log *zap.Logger) *Heartbeat {
	return &Heartbeat{
		logPath:  logPath,
		helloURL: helloURL,
		client:   &http.Client{Timeout: 5 * time.Second},
		log:      log,
	}
}

func (h *Heartbeat) Run() {
	runID := uuid.NewString()
	line := fmt.Sprintf("%s CRM is alive", time.Now().Format(heartbeatTimeLayout))
	if err := h.appendLine(line); err != nil {
		h.log.Warn("heartbeat: log write failed", zap.String("run_id", runID), zap.Error(err))
	}

	// optional ping, non-fatal
	if h.helloURL == "" {
		return
	}
	resp, err := h.client.Get(h.helloURL)
	if err != nil {
		h.log.Debug("heartbeat: hello ping failed", zap.String("run_id", runID), zap.Error(err))
		return
	}
	resp.Body.Close()
}

func (h *Heartbeat) appendLine(line string) error {
	return appendLines(h.logPath, []string{line})
}
