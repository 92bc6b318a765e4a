package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

func newTestRazorpay(t *testing.T, handler http.Handler) *RazorpayGateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gateway, err := NewRazorpayGateway(types.RazorpaySettings{
		Enabled: true, KeyID: "rzp_test_key", KeySecret: "rzp_secret",
	})
	require.NoError(t, err)
	gateway.baseURL = server.URL
	return gateway
}

func signRazorpay(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpay_CreateOrderConvertsToPaise(t *testing.T) {
	var received razorpayOrderRequest
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "rzp_test_key", user)
		require.Equal(t, "rzp_secret", pass)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		json.NewEncoder(w).Encode(razorpayOrderResponse{
			ID: "order_123", Amount: received.Amount, Currency: received.Currency, Status: "created",
		})
	}))

	order, err := gateway.CreateOrder(context.Background(), CreateOrderInput{
		Amount:    decimal.RequireFromString("499.99"),
		Reference: "rcpt-1",
	})
	require.NoError(t, err)
	require.Equal(t, int64(49999), received.Amount)
	require.Equal(t, "INR", received.Currency)
	require.Equal(t, "order_123", order.OrderID)
	require.Equal(t, "rzp_test_key", order.KeyID)
	require.Equal(t, enums.PaymentMethodRazorpay, order.Provider)
}

func TestRazorpay_CreateOrderRejectsBelowMinimum(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected for sub-minimum amounts")
	}))

	_, err := gateway.CreateOrder(context.Background(), CreateOrderInput{
		Amount: decimal.RequireFromString("0.99"),
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestRazorpay_VerifyValidSignature(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/order_123", r.URL.Path)
		json.NewEncoder(w).Encode(razorpayOrderResponse{ID: "order_123", Amount: 85000, Status: "paid"})
	}))

	proof := Proof{
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: signRazorpay("rzp_secret", "order_123", "pay_456"),
	}

	valid, err := gateway.Verify(context.Background(), proof, decimal.RequireFromString("850"))
	require.NoError(t, err)
	require.True(t, valid)
}

func TestRazorpay_VerifyRejectsTamperedSignature(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no order fetch for an invalid signature")
	}))

	proof := Proof{
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: signRazorpay("wrong_secret", "order_123", "pay_456"),
	}

	valid, err := gateway.Verify(context.Background(), proof, decimal.Zero)
	require.NoError(t, err)
	require.False(t, valid)
}

func TestRazorpay_VerifyRejectsAmountMismatch(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(razorpayOrderResponse{ID: "order_123", Amount: 10000, Status: "paid"})
	}))

	proof := Proof{
		OrderID:   "order_123",
		PaymentID: "pay_456",
		Signature: signRazorpay("rzp_secret", "order_123", "pay_456"),
	}

	valid, err := gateway.Verify(context.Background(), proof, decimal.RequireFromString("850"))
	require.NoError(t, err)
	require.False(t, valid, "provider amount 100.00 must not match expected 850.00")
}

func TestRazorpay_VerifyRequiresFullProof(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	_, err := gateway.Verify(context.Background(), Proof{OrderID: "order_123"}, decimal.Zero)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestRazorpay_ProviderErrorSurfacesAsGateway(t *testing.T) {
	gateway := newTestRazorpay(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount exceeds limit"}}`))
	}))

	_, err := gateway.CreateOrder(context.Background(), CreateOrderInput{
		Amount: decimal.RequireFromString("100"),
	})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeGateway), "got %v", err)
}

func TestMinorUnits_Rounding(t *testing.T) {
	cases := map[string]int64{
		"1.00":   100,
		"1.005":  101,
		"499.99": 49999,
		"0.994":  99,
	}
	for in, want := range cases {
		got := MinorUnits(decimal.RequireFromString(in))
		require.Equal(t, want, got, "amount %s", in)
	}
}

func TestNewRazorpayGateway_MissingCredentials(t *testing.T) {
	_, err := NewRazorpayGateway(types.RazorpaySettings{Enabled: true})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeGateway), "got %v", err)
}
