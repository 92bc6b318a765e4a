package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
	"github.com/hardikpatel/shopkart-backend/pkg/types"
)

// Service hands out configured gateways by payment method. Providers are
// bound lazily on first use so a misconfigured, unused provider cannot
// break startup.
type Service interface {
	ForMethod(ctx context.Context, method enums.PaymentMethod) (Gateway, error)
	CreateOrder(ctx context.Context, method enums.PaymentMethod, input CreateOrderInput) (*ProviderOrder, error)
	Verify(ctx context.Context, method enums.PaymentMethod, proof Proof, expectedAmount decimal.Decimal) (bool, error)
}

type service struct {
	settings settings.Service

	mu       sync.Mutex
	razorpay *binding
	cashfree *binding

	// factories are swappable for tests
	newRazorpay func(types.RazorpaySettings) (Gateway, error)
	newCashfree func(types.CashfreeSettings) (Gateway, error)
}

type binding struct {
	once    sync.Once
	gateway Gateway
	err     error
}

// NewService wires a payment service over the settings collaborator.
func NewService(settingsSvc settings.Service) (Service, error) {
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	return &service{
		settings: settingsSvc,
		razorpay: &binding{},
		cashfree: &binding{},
		newRazorpay: func(cfg types.RazorpaySettings) (Gateway, error) {
			return NewRazorpayGateway(cfg)
		},
		newCashfree: func(cfg types.CashfreeSettings) (Gateway, error) {
			return NewCashfreeGateway(cfg)
		},
	}, nil
}

func (s *service) ForMethod(ctx context.Context, method enums.PaymentMethod) (Gateway, error) {
	snap, err := s.settings.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	switch method {
	case enums.PaymentMethodRazorpay:
		if !snap.Payments.Razorpay.Enabled {
			return nil, pkgerrors.New(pkgerrors.CodeGateway, "razorpay is not enabled")
		}
		return s.bind(s.razorpay, func() (Gateway, error) {
			return s.newRazorpay(snap.Payments.Razorpay)
		})

	case enums.PaymentMethodCashfree:
		if !snap.Payments.Cashfree.Enabled {
			return nil, pkgerrors.New(pkgerrors.CodeGateway, "cashfree is not enabled")
		}
		return s.bind(s.cashfree, func() (Gateway, error) {
			return s.newCashfree(snap.Payments.Cashfree)
		})

	case enums.PaymentMethodCOD:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cod does not use a payment gateway")

	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown payment method %q", method))
	}
}

func (s *service) bind(b *binding, build func() (Gateway, error)) (Gateway, error) {
	b.once.Do(func() {
		b.gateway, b.err = build()
	})
	if b.err != nil {
		return nil, b.err
	}
	return b.gateway, nil
}

func (s *service) CreateOrder(ctx context.Context, method enums.PaymentMethod, input CreateOrderInput) (*ProviderOrder, error) {
	gateway, err := s.ForMethod(ctx, method)
	if err != nil {
		return nil, err
	}
	return gateway.CreateOrder(ctx, input)
}

func (s *service) Verify(ctx context.Context, method enums.PaymentMethod, proof Proof, expectedAmount decimal.Decimal) (bool, error) {
	gateway, err := s.ForMethod(ctx, method)
	if err != nil {
		return false, err
	}
	return gateway.Verify(ctx, proof, expectedAmount)
}
