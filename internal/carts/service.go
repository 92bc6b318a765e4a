package carts

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	pkgerrors "github.com/hardikpatel/shopkart-backend/pkg/errors"
)

// Service manages the single active cart per user.
type Service interface {
	// GetOrCreate returns the user's cart, creating an empty one on first use.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*models.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	WithTx(tx *gorm.DB) Service
}

// SetItemInput adds or replaces one cart line.
type SetItemInput struct {
	ProductID    uuid.UUID        `json:"product_id" validate:"required"`
	VariationSKU *string          `json:"variation_sku"`
	Quantity     int              `json:"quantity" validate:"required,gt=0"`
	Price        *decimal.Decimal `json:"price"`
}

type service struct {
	repo Repository
}

// NewService wires a cart service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) WithTx(tx *gorm.DB) Service {
	return &service{repo: s.repo.WithTx(tx)}
}

func (s *service) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &models.Cart{UserID: userID}
	if err := s.repo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *service) SetItem(ctx context.Context, userID uuid.UUID, input SetItemInput) (*models.Cart, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		CartID:       cart.ID,
		ProductID:    input.ProductID,
		VariationSKU: input.VariationSKU,
		Quantity:     input.Quantity,
		Price:        input.Price,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return s.repo.FindByUser(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, itemID uuid.UUID) (*models.Cart, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}
	return s.repo.ClearItems(ctx, cart.ID)
}
