// Package payment wraps the hosted Razorpay checkout widget. The service
// never captures money itself: it verifies the widget is reachable, hands
// the client the options needed to open it, and trusts the success callback
// (no server-side capture verification, matching the storefront's design).
package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// Options is the payload the client passes to the hosted widget. Amount is
// in minor units; OrderID doubles as the correlation token for the callback.
type Options struct {
	Key          string `json:"key"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	OrderID      string `json:"order_id"`
	PrefillEmail string `json:"prefill_email,omitempty"`
}

type Gateway interface {
	// Available probes the hosted checkout script. Checkout aborts before
	// creating any order when the probe fails.
	Available(ctx context.Context) error
	Checkout(amount int64, orderID, email string) Options
}

type razorpay struct {
	keyID     string
	scriptURL string
	storeName string
	client    *http.Client
}

func NewRazorpay(keyID, scriptURL, storeName string, probeTimeout time.Duration) Gateway {
	return &razorpay{
		keyID:     keyID,
		scriptURL: scriptURL,
		storeName: storeName,
		client:    &http.Client{Timeout: probeTimeout},
	}
}

func (r *razorpay) Available(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.scriptURL, nil)
	if err != nil {
		return fmt.Errorf("payment: failed to build probe request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("script_url", r.scriptURL).Msg("payment: checkout script unreachable")
		return ErrGatewayUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		log.Warn().Int("status", resp.StatusCode).Str("script_url", r.scriptURL).Msg("payment: checkout script probe failed")
		return ErrGatewayUnavailable
	}

	return nil
}

func (r *razorpay) Checkout(amount int64, orderID, email string) Options {
	return Options{
		Key:          r.keyID,
		Amount:       amount,
		Currency:     "INR",
		Name:         r.storeName,
		Description:  "Purchase from " + r.storeName,
		OrderID:      orderID,
		PrefillEmail: email,
	}
}
