package payments

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

type fakeSettings struct {
	snap settings.Snapshot
}

func (f *fakeSettings) Snapshot(ctx context.Context) (*settings.Snapshot, error) {
	snap := f.snap
	return &snap, nil
}

func (f *fakeSettings) Update(ctx context.Context, input settings.UpdateSettingsInput) (*settings.Snapshot, error) {
	return nil, nil
}

type stubGateway struct {
	provider enums.PaymentMethod
}

func (s *stubGateway) Provider() enums.PaymentMethod { return s.provider }

func (s *stubGateway) CreateOrder(ctx context.Context, input CreateOrderInput) (*ProviderOrder, error) {
	return &ProviderOrder{Provider: s.provider, OrderID: "stub"}, nil
}

func (s *stubGateway) Verify(ctx context.Context, proof Proof, expectedAmount decimal.Decimal) (bool, error) {
	return true, nil
}

func TestForMethod_DisabledProviderFailsBeforeBinding(t *testing.T) {
	svc, err := NewService(&fakeSettings{})
	require.NoError(t, err)

	built := false
	svc.(*service).newRazorpay = func(cfg types.RazorpaySettings) (Gateway, error) {
		built = true
		return &stubGateway{provider: enums.PaymentMethodRazorpay}, nil
	}

	_, err = svc.ForMethod(context.Background(), enums.PaymentMethodRazorpay)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeGateway), "got %v", err)
	require.False(t, built, "disabled provider must never be constructed")
}

func TestForMethod_LazyBindingBuildsOnce(t *testing.T) {
	fs := &fakeSettings{}
	fs.snap.Payments.Razorpay = types.RazorpaySettings{Enabled: true, KeyID: "k", KeySecret: "s"}

	svc, err := NewService(fs)
	require.NoError(t, err)

	builds := 0
	svc.(*service).newRazorpay = func(cfg types.RazorpaySettings) (Gateway, error) {
		builds++
		return &stubGateway{provider: enums.PaymentMethodRazorpay}, nil
	}

	for i := 0; i < 3; i++ {
		gateway, err := svc.ForMethod(context.Background(), enums.PaymentMethodRazorpay)
		require.NoError(t, err)
		require.Equal(t, enums.PaymentMethodRazorpay, gateway.Provider())
	}
	require.Equal(t, 1, builds)
}

func TestForMethod_CODHasNoGateway(t *testing.T) {
	svc, err := NewService(&fakeSettings{})
	require.NoError(t, err)

	_, err = svc.ForMethod(context.Background(), enums.PaymentMethodCOD)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation), "got %v", err)
}

func TestForMethod_MisconfiguredCredentialsFailFast(t *testing.T) {
	fs := &fakeSettings{}
	fs.snap.Payments.Cashfree = types.CashfreeSettings{Enabled: true} // enabled, no credentials

	svc, err := NewService(fs)
	require.NoError(t, err)

	_, err = svc.ForMethod(context.Background(), enums.PaymentMethodCashfree)
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeGateway), "got %v", err)
}

func TestCreateOrder_DelegatesToBoundGateway(t *testing.T) {
	fs := &fakeSettings{}
	fs.snap.Payments.Cashfree = types.CashfreeSettings{Enabled: true, AppID: "a", SecretKey: "s"}

	svc, err := NewService(fs)
	require.NoError(t, err)
	svc.(*service).newCashfree = func(cfg types.CashfreeSettings) (Gateway, error) {
		return &stubGateway{provider: enums.PaymentMethodCashfree}, nil
	}

	order, err := svc.CreateOrder(context.Background(), enums.PaymentMethodCashfree, CreateOrderInput{
		Amount: decimal.RequireFromString("100"), Reference: "ord-1",
	})
	require.NoError(t, err)
	require.Equal(t, "stub", order.OrderID)
}
