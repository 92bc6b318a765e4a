package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	shippingsvc "github.com/hardikpatel/shopkart-backend/internal/shipping"
)

type fakeShippingService struct {
	quoteFn func(dest shippingsvc.Destination, subtotal decimal.Decimal, itemCount int) (*shippingsvc.QuoteResult, error)
}

func (f *fakeShippingService) Quote(ctx context.Context, dest shippingsvc.Destination, subtotal decimal.Decimal, itemCount int) (*shippingsvc.QuoteResult, error) {
	return f.quoteFn(dest, subtotal, itemCount)
}

func (f *fakeShippingService) QuoteMethod(ctx context.Context, methodID uuid.UUID, dest shippingsvc.Destination, subtotal decimal.Decimal, itemCount int) (*shippingsvc.Option, error) {
	return nil, nil
}

func TestShippingOptionsQuotesDestination(t *testing.T) {
	svc := &fakeShippingService{
		quoteFn: func(dest shippingsvc.Destination, subtotal decimal.Decimal, itemCount int) (*shippingsvc.QuoteResult, error) {
			require.Equal(t, "IN", dest.Country)
			require.Equal(t, "MH", dest.State)
			require.Equal(t, "400001", dest.Zip)
			require.True(t, subtotal.Equal(decimal.RequireFromString("750")))
			require.Equal(t, 3, itemCount)
			return &shippingsvc.QuoteResult{
				ZoneMatched: true,
				ZoneName:    "west-india",
				Options: []shippingsvc.Option{
					{MethodID: uuid.New(), Name: "standard", Amount: decimal.RequireFromString("60")},
				},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/public/v1/shipping/options?country=IN&state=MH&zip=400001&subtotal=750&item_count=3", nil)
	w := httptest.NewRecorder()
	ShippingOptions(svc, nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data shippingsvc.QuoteResult `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&envelope))
	require.True(t, envelope.Data.ZoneMatched)
	require.Len(t, envelope.Data.Options, 1)
	require.Equal(t, "standard", envelope.Data.Options[0].Name)
}

func TestShippingOptionsDefaultsItemCount(t *testing.T) {
	svc := &fakeShippingService{
		quoteFn: func(dest shippingsvc.Destination, subtotal decimal.Decimal, itemCount int) (*shippingsvc.QuoteResult, error) {
			require.Equal(t, 1, itemCount)
			return &shippingsvc.QuoteResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/public/v1/shipping/options?country=IN&subtotal=100", nil)
	w := httptest.NewRecorder()
	ShippingOptions(svc, nil)(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestShippingOptionsValidatesQuery(t *testing.T) {
	svc := &fakeShippingService{quoteFn: func(shippingsvc.Destination, decimal.Decimal, int) (*shippingsvc.QuoteResult, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	cases := map[string]string{
		"missing country":    "/api/public/v1/shipping/options?subtotal=100",
		"missing subtotal":   "/api/public/v1/shipping/options?country=IN",
		"negative subtotal":  "/api/public/v1/shipping/options?country=IN&subtotal=-5",
		"bad item count":     "/api/public/v1/shipping/options?country=IN&subtotal=100&item_count=zero",
		"item count too low": "/api/public/v1/shipping/options?country=IN&subtotal=100&item_count=0",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, target, nil)
			w := httptest.NewRecorder()
			ShippingOptions(svc, nil)(w, req)
			require.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
