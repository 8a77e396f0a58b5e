// Package payment holds the developer-only payment simulation: a plain
// three-step mutation sequence against the service's billing tables. There
// is no retry, no coordination, and no rollback; a step failure aborts the
// remainder and earlier steps stay applied.
package payment

import (
	"context"
	"fmt"
	"io"

	"caseflow-cli/internal/model"

	"github.com/charmbracelet/log"
)

// Backend is the slice of the service API the simulator touches.
type Backend interface {
	CreatePayment(ctx context.Context, userID string, amount int64) (model.Payment, error)
	CreditBalance(ctx context.Context, userID string, delta int64) (int64, error)
	CreateNotification(ctx context.Context, userID, kind, message string) error
}

type Simulator struct {
	backend Backend
	logger  *log.Logger
}

func NewSimulator(backend Backend, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{backend: backend, logger: logger}
}

// Result reports what the simulation did.
type Result struct {
	Payment model.Payment
	Balance int64
}

// Run performs the sequence: insert payment row, credit the profile
// balance, append a receipt notification.
func (s *Simulator) Run(ctx context.Context, userID string, amount int64) (Result, error) {
	if userID == "" {
		return Result{}, fmt.Errorf("payment simulation requires a session")
	}
	if amount <= 0 {
		return Result{}, fmt.Errorf("payment amount must be positive, got %d", amount)
	}

	p, err := s.backend.CreatePayment(ctx, userID, amount)
	if err != nil {
		return Result{}, fmt.Errorf("create payment: %w", err)
	}

	balance, err := s.backend.CreditBalance(ctx, userID, amount)
	if err != nil {
		// The payment row already exists; that is accepted for a dev-only
		// simulation.
		return Result{Payment: p}, fmt.Errorf("credit balance: %w", err)
	}

	msg := fmt.Sprintf("Simulated payment of %d credited (payment %s)", amount, p.ID)
	if err := s.backend.CreateNotification(ctx, userID, "payment", msg); err != nil {
		return Result{Payment: p, Balance: balance}, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Info("payment simulated", "user", userID, "amount", amount, "balance", balance, "payment", p.ID)
	return Result{Payment: p, Balance: balance}, nil
}
