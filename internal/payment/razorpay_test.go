package payment_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fashionstore/internal/payment"
)

func TestRazorpay_Available(t *testing.T) {
	t.Run("script_reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		gw := payment.NewRazorpay("rzp_test_key", server.URL, "FashionStore", time.Second)
		assert.NoError(t, gw.Available(context.Background()))
	})

	t.Run("script_missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		gw := payment.NewRazorpay("rzp_test_key", server.URL, "FashionStore", time.Second)
		assert.ErrorIs(t, gw.Available(context.Background()), payment.ErrGatewayUnavailable)
	})

	t.Run("host_unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		gw := payment.NewRazorpay("rzp_test_key", server.URL, "FashionStore", time.Second)
		assert.ErrorIs(t, gw.Available(context.Background()), payment.ErrGatewayUnavailable)
	})
}

func TestRazorpay_Checkout(t *testing.T) {
	gw := payment.NewRazorpay("rzp_test_key", "https://checkout.razorpay.com/v1/checkout.js", "FashionStore", time.Second)

	opts := gw.Checkout(112000, "3f1e8a1c-0000-0000-0000-000000000000", "shopper@example.com")

	assert.Equal(t, "rzp_test_key", opts.Key)
	assert.Equal(t, int64(112000), opts.Amount)
	assert.Equal(t, "INR", opts.Currency)
	assert.Equal(t, "FashionStore", opts.Name)
	assert.Equal(t, "3f1e8a1c-0000-0000-0000-000000000000", opts.OrderID)
	assert.Equal(t, "shopper@example.com", opts.PrefillEmail)
}
