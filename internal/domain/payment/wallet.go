package payment

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/pkg/metrics"
)

type CashInRequest struct {
	CustomerID string
	WalletID   string
	Channel    Flow
	Amount     int64
}

// CreateCashIn opens a gateway intent that tops up a customer wallet.
func (s *Service) CreateCashIn(ctx context.Context, req CashInRequest) (Payment, error) {
	now := s.now()
	expiresAt := now.Add(ExpiryFor(req.Channel, s.cfg.QRExpiry, s.cfg.DefaultExpiry))

	p, err := NewCashInPayment(req.CustomerID, s.cfg.Currency, req.Amount,
		CashInDetails{WalletID: req.WalletID, Channel: req.Channel}, expiresAt, now)
	if err != nil {
		return Payment{}, err
	}

	intent, err := s.gateway.CreateIntent(ctx, CreateIntentRequest{
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
		Metadata: map[string]any{
			"payment_id": p.ID,
			"wallet":     map[string]any{"id": req.WalletID, "owner": req.CustomerID},
		},
		IdempotencyKey: p.IdempotencyKey,
		PaymentMethods: paymentMethodsFor(req.Channel),
	})
	if err != nil {
		return Payment{}, fmt.Errorf("create payment intent: %w", err)
	}
	p.IntentID = intent.ID
	p.GatewayResponse = intent.Raw

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("store payment: %w", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(p.Status)).Inc()
	slog.InfoContext(ctx, "Cash-in payment created", "payment_id", p.ID, "wallet_id", req.WalletID, "amount", p.Amount)
	return p, nil
}

type WithdrawRequest struct {
	CustomerID    string
	WalletID      string
	Amount        int64
	BankCode      string
	AccountNumber string
	AccountName   string
}

// CreateWithdraw records a pending withdrawal for the payout system.
func (s *Service) CreateWithdraw(ctx context.Context, req WithdrawRequest) (Payment, error) {
	p, err := NewWithdrawPayment(req.CustomerID, s.cfg.Currency, req.Amount, WithdrawDetails{
		WalletID:      req.WalletID,
		BankCode:      req.BankCode,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
	}, s.now())
	if err != nil {
		return Payment{}, err
	}

	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return Payment{}, fmt.Errorf("store payment: %w", err)
	}

	metrics.PaymentTransitions.WithLabelValues(string(p.Type), string(p.Status)).Inc()
	slog.InfoContext(ctx, "Withdraw payment created", "payment_id", p.ID, "wallet_id", req.WalletID, "amount", p.Amount)
	return p, nil
}
