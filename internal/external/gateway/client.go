package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"marketplace/internal/domain/payment"
	"marketplace/pkg/metrics"

	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"
)

type Config struct {
	BaseURL        string
	SecretKey      string
	WebhookSecret  string
	LiveMode       bool
	Timeout        time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration
	RateLimit      float64
	RateBurst      int
	Tolerance      time.Duration
}

// Client talks to a PayMongo-style payments API. It implements payment.Gateway.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	retryCfg   RetryConfig
	limiter    *rate.Limiter
	verifier   *Verifier
}

func New(cfg Config) *Client {
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := max(cfg.RateBurst, 1)

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		retryCfg: RetryConfig{
			MaxAttempts: cfg.RetryAttempts,
			BaseDelay:   cfg.RetryBaseDelay,
			MaxDelay:    cfg.RetryMaxDelay,
		},
		limiter:  rate.NewLimiter(limit, burst),
		verifier: NewVerifier(cfg.WebhookSecret, cfg.LiveMode, cfg.Tolerance),
	}
}

func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

func (c *Client) CreateIntent(ctx context.Context, req payment.CreateIntentRequest) (payment.Intent, error) {
	metadata, err := FlattenMetadata(req.Metadata)
	if err != nil {
		return payment.Intent{}, err
	}

	body := envelope[intentCreateAttributes]{Data: resource[intentCreateAttributes]{Attributes: intentCreateAttributes{
		Amount:               req.Amount,
		Currency:             req.Currency,
		Description:          req.Description,
		PaymentMethodAllowed: req.PaymentMethods,
		Metadata:             metadata,
		CaptureType:          "automatic",
	}}}

	var resp envelope[intentAttributes]
	if err := c.call(ctx, "create_intent", http.MethodPost, "/v1/payment_intents", req.IdempotencyKey, body, &resp); err != nil {
		return payment.Intent{}, err
	}
	return toIntent(resp.Data)
}

func (c *Client) AttachMethod(ctx context.Context, intentID string, req payment.AttachRequest) (payment.Intent, error) {
	body := envelope[attachAttributes]{Data: resource[attachAttributes]{Attributes: attachAttributes{
		PaymentMethod: req.MethodID,
		ReturnURL:     req.ReturnURL,
		ClientKey:     req.ClientKey,
	}}}

	var resp envelope[intentAttributes]
	path := "/v1/payment_intents/" + intentID + "/attach"
	if err := c.call(ctx, "attach_method", http.MethodPost, path, "", body, &resp); err != nil {
		return payment.Intent{}, err
	}
	return toIntent(resp.Data)
}

type retrieveOptions struct {
	Include []string `url:"include,comma,omitempty"`
}

func (c *Client) Retrieve(ctx context.Context, intentID string) (payment.Intent, error) {
	q, err := query.Values(retrieveOptions{Include: []string{"payments"}})
	if err != nil {
		return payment.Intent{}, fmt.Errorf("encode query: %w", err)
	}

	var resp envelope[intentAttributes]
	path := "/v1/payment_intents/" + intentID + "?" + q.Encode()
	if err := c.call(ctx, "retrieve", http.MethodGet, path, "", nil, &resp); err != nil {
		return payment.Intent{}, err
	}
	return toIntent(resp.Data)
}

func (c *Client) Refund(ctx context.Context, req payment.GatewayRefundRequest) (payment.GatewayRefund, error) {
	metadata, err := FlattenMetadata(req.Metadata)
	if err != nil {
		return payment.GatewayRefund{}, err
	}

	body := envelope[refundAttributes]{Data: resource[refundAttributes]{Attributes: refundAttributes{
		Amount:    req.Amount,
		PaymentID: req.ChargeID,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Metadata:  metadata,
	}}}

	var resp envelope[refundAttributes]
	if err := c.call(ctx, "refund", http.MethodPost, "/v1/refunds", req.IdempotencyKey, body, &resp); err != nil {
		return payment.GatewayRefund{}, err
	}
	raw, _ := json.Marshal(resp.Data)
	return payment.GatewayRefund{ID: resp.Data.ID, Status: resp.Data.Attributes.Status, Raw: raw}, nil
}

func (c *Client) CancelIntent(ctx context.Context, intentID string) (payment.Intent, error) {
	var resp envelope[intentAttributes]
	path := "/v1/payment_intents/" + intentID + "/cancel"
	if err := c.call(ctx, "cancel_intent", http.MethodPost, path, "", nil, &resp); err != nil {
		return payment.Intent{}, err
	}
	return toIntent(resp.Data)
}

// VerifyWebhookSignature returns ErrInvalidSignature unless header signs payload.
func (c *Client) VerifyWebhookSignature(payload []byte, header string) error {
	return c.verifier.Verify(payload, header)
}

func (c *Client) ValidSignature(payload []byte, header string) bool {
	return c.verifier.Valid(payload, header)
}

func (c *Client) call(ctx context.Context, op, method, path, idempotencyKey string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = b
	}

	err := DoWithRetry(ctx, c.retryCfg, func(attempt int) error {
		if attempt > 0 {
			metrics.GatewayRetries.WithLabelValues(op).Inc()
			slog.WarnContext(ctx, "Retrying gateway call", "operation", op, "attempt", attempt+1)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		return c.send(ctx, method, path, idempotencyKey, payload, out)
	})

	metrics.GatewayRequests.WithLabelValues(op, outcome(err)).Inc()
	return err
}

func (c *Client) send(ctx context.Context, method, path, idempotencyKey string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.SetBasicAuth(c.secretKey, "")
	httpReq.Header.Set("Accept", "application/json")
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(resp.Body)
	if err := handleStatus(resp.StatusCode, raw); err != nil {
		return err
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func handleStatus(code int, body []byte) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, errorDetail(body))
	case code == http.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, code, string(body))
	case code >= 400:
		return fmt.Errorf("%w: %s", ErrRejected, errorDetail(body))
	default:
		return fmt.Errorf("unexpected status code %d: %s", code, string(body))
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return "error"
}
