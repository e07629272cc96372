// Package jobs holds the background task definitions and the asynq worker
// bootstrap shared by the API server (enqueue side) and cmd/worker.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockmaster-erp/stockmaster/internal/quants"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeMailOTP delivers a password-reset code by email.
	TaskTypeMailOTP = "mail:otp"
	// TaskTypeLowStockScan is the scheduled sweep for products under the
	// low-stock threshold.
	TaskTypeLowStockScan = "stock:low_scan"
)

// MailOTPPayload carries everything needed to deliver a reset code.
type MailOTPPayload struct {
	To         string `json:"to"`
	Code       string `json:"code"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// NewMailOTPTask constructs the asynq task for a reset code email.
func NewMailOTPTask(payload MailOTPPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeMailOTP, data, asynq.MaxRetry(3), asynq.Timeout(30*time.Second)), nil
}

// NewLowStockScanTask constructs the scheduled low-stock sweep task.
func NewLowStockScanTask() *asynq.Task {
	return asynq.NewTask(TaskTypeLowStockScan, nil)
}

// SMTPConfig addresses the outbound mail relay.
type SMTPConfig struct {
	Host string
	Port int
	From string
}

// NewMailOTPHandler returns the worker-side handler for TaskTypeMailOTP.
func NewMailOTPHandler(logger *slog.Logger, cfg SMTPConfig) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload MailOTPPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your password reset code\r\n\r\n"+
			"Your reset code is %s. It expires in %d minutes.\r\n",
			cfg.From, payload.To, payload.Code, payload.TTLMinutes)
		addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		if err := smtp.SendMail(addr, nil, cfg.From, []string{payload.To}, []byte(body)); err != nil {
			logger.Error("otp email send failed", slog.String("to", payload.To), slog.Any("error", err))
			return err
		}
		logger.Info("otp email sent", slog.String("to", payload.To))
		return nil
	}
}

// LowStockSource lists quants currently under the configured threshold.
type LowStockSource interface {
	LowStock(ctx context.Context) ([]quants.Quant, error)
}

// NewLowStockScanHandler returns the worker-side handler for the scheduled
// sweep. The sweep only reports; replenishment stays a human decision.
func NewLowStockScanHandler(logger *slog.Logger, source LowStockSource) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		low, err := source.LowStock(ctx)
		if err != nil {
			return fmt.Errorf("jobs: low stock scan: %w", err)
		}
		if len(low) == 0 {
			logger.Info("low stock scan clean")
			return nil
		}
		for _, q := range low {
			logger.Warn("low stock",
				slog.String("sku", q.ProductSKU),
				slog.String("location", q.LocationName),
				slog.String("quantity", q.Quantity.StringFixed(2)))
		}
		logger.Info("low stock scan finished", slog.Int("flagged", len(low)))
		return nil
	}
}
