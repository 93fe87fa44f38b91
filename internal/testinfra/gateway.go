//go:build integration
// +build integration

package testinfra

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	"marketplace/internal/external/gateway"
)

const WebhookSecret = "whsk_test_secret"

// FakeGateway is an in-process stand-in for the payment gateway API. Intents
// are kept in memory and can be settled from the test with MarkPaid.
type FakeGateway struct {
	Server *httptest.Server

	mu      sync.Mutex
	seq     int
	intents map[string]*fakeIntent
	refunds atomic.Int32
}

type fakeIntent struct {
	id       string
	amount   int64
	currency string
	status   string
	chargeID string
	fee      int64
}

func NewFakeGateway() *FakeGateway {
	g := &FakeGateway{intents: map[string]*fakeIntent{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/payment_intents", g.createIntent)
	mux.HandleFunc("GET /v1/payment_intents/{id}", g.retrieve)
	mux.HandleFunc("POST /v1/payment_intents/{id}/attach", g.setStatus("awaiting_next_action"))
	mux.HandleFunc("POST /v1/payment_intents/{id}/cancel", g.setStatus("cancelled"))
	mux.HandleFunc("POST /v1/refunds", g.refund)

	g.Server = httptest.NewServer(mux)
	return g
}

func (g *FakeGateway) Close() {
	g.Server.Close()
}

func (g *FakeGateway) Config() gateway.Config {
	return gateway.Config{
		BaseURL:        g.Server.URL,
		SecretKey:      "sk_test",
		WebhookSecret:  WebhookSecret,
		Timeout:        5 * time.Second,
		RetryAttempts:  1,
		RetryBaseDelay: 10 * time.Millisecond,
		RetryMaxDelay:  50 * time.Millisecond,
		Tolerance:      5 * time.Minute,
	}
}

// MarkPaid settles the intent with one paid charge.
func (g *FakeGateway) MarkPaid(intentID string, fee int64) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	in := g.intents[intentID]
	in.status = "succeeded"
	in.chargeID = "pay_" + intentID
	in.fee = fee
	return in.chargeID
}

// IntentStatus reports the gateway-side status of the intent.
func (g *FakeGateway) IntentStatus(intentID string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.intents[intentID].status
}

func (g *FakeGateway) RefundCalls() int {
	return int(g.refunds.Load())
}

// PaidEvent builds a signed payment.paid webhook for the intent.
func (g *FakeGateway) PaidEvent(intentID string) (body []byte, signature string) {
	g.mu.Lock()
	in := *g.intents[intentID]
	g.mu.Unlock()

	event := map[string]any{
		"data": map[string]any{
			"id":   fmt.Sprintf("evt_%s_%d", intentID, time.Now().UnixNano()),
			"type": "event",
			"attributes": map[string]any{
				"type":       "payment.paid",
				"livemode":   false,
				"created_at": time.Now().Unix(),
				"data": map[string]any{
					"id":   in.chargeID,
					"type": "payment",
					"attributes": map[string]any{
						"amount":            in.amount,
						"fee":               in.fee,
						"status":            "paid",
						"payment_intent_id": in.id,
					},
				},
			},
		},
	}
	body, _ = json.Marshal(event)
	return body, gateway.SignatureHeaderValue([]byte(WebhookSecret), time.Now().Unix(), body, false)
}

func (g *FakeGateway) createIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data struct {
			Attributes struct {
				Amount   int64  `json:"amount"`
				Currency string `json:"currency"`
			} `json:"attributes"`
		} `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	g.seq++
	in := &fakeIntent{
		id:       fmt.Sprintf("pi_test_%d", g.seq),
		amount:   req.Data.Attributes.Amount,
		currency: req.Data.Attributes.Currency,
		status:   "awaiting_payment_method",
	}
	g.intents[in.id] = in
	resp := g.intentResponse(in)
	g.mu.Unlock()

	writeJSON(w, resp)
}

func (g *FakeGateway) retrieve(w http.ResponseWriter, r *http.Request) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[r.PathValue("id")]
	if !ok {
		http.Error(w, `{"errors":[{"code":"resource_not_found","detail":"no such intent"}]}`, http.StatusNotFound)
		return
	}
	writeJSON(w, g.intentResponse(in))
}

func (g *FakeGateway) setStatus(status string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		defer g.mu.Unlock()

		in, ok := g.intents[r.PathValue("id")]
		if !ok {
			http.Error(w, `{"errors":[{"code":"resource_not_found","detail":"no such intent"}]}`, http.StatusNotFound)
			return
		}
		in.status = status
		writeJSON(w, g.intentResponse(in))
	}
}

func (g *FakeGateway) refund(w http.ResponseWriter, r *http.Request) {
	n := g.refunds.Add(1)

	var req map[string]any
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, map[string]any{
		"data": map[string]any{
			"id":         fmt.Sprintf("ref_test_%d", n),
			"type":       "refund",
			"attributes": map[string]any{"status": "pending"},
		},
	})
}

func (g *FakeGateway) intentResponse(in *fakeIntent) map[string]any {
	attrs := map[string]any{
		"amount":   in.amount,
		"currency": in.currency,
		"status":   in.status,
	}
	if in.status == "awaiting_next_action" {
		attrs["next_action"] = map[string]any{
			"type":     "redirect",
			"redirect": map[string]any{"url": "https://gateway.test/3ds/" + in.id},
		}
	}
	if in.chargeID != "" {
		attrs["payments"] = []map[string]any{{
			"id":   in.chargeID,
			"type": "payment",
			"attributes": map[string]any{
				"amount":            in.amount,
				"fee":               in.fee,
				"status":            "paid",
				"payment_intent_id": in.id,
			},
		}}
	}
	return map[string]any{"data": map[string]any{"id": in.id, "type": "payment_intent", "attributes": attrs}}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
