package cron

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/hardikpatel/shopkart-backend/internal/notifications"
	"github.com/hardikpatel/shopkart-backend/pkg/db/models"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
)

const abandonedCartBatchSize = 100

type abandonedCartReader interface {
	ListAbandoned(ctx context.Context, cutoff time.Time, limit int) ([]models.Cart, error)
	MarkRecoveryEmailSent(ctx context.Context, cartID uuid.UUID, at time.Time) error
}

type cartUserReader interface {
	FindUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// AbandonedCartJobParams configure the cart recovery job.
type AbandonedCartJobParams struct {
	Logger     *logger.Logger
	Carts      abandonedCartReader
	Users      cartUserReader
	Dispatcher notifications.Dispatcher
	// AbandonedAfter is how long a cart must sit untouched before it
	// counts as abandoned.
	AbandonedAfter time.Duration
}

// NewAbandonedCartJob builds the cron job that sends one recovery
// notification per stale cart.
func NewAbandonedCartJob(params AbandonedCartJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("carts reader required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users reader required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	after := params.AbandonedAfter
	if after <= 0 {
		after = 24 * time.Hour
	}
	return &abandonedCartJob{
		logg:       params.Logger,
		carts:      params.Carts,
		users:      params.Users,
		dispatcher: params.Dispatcher,
		after:      after,
		now:        time.Now,
	}, nil
}

type abandonedCartJob struct {
	logg       *logger.Logger
	carts      abandonedCartReader
	users      cartUserReader
	dispatcher notifications.Dispatcher
	after      time.Duration
	now        func() time.Time
}

func (j *abandonedCartJob) Name() string { return "abandoned-cart" }

func (j *abandonedCartJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.after)
	stale, err := j.carts.ListAbandoned(ctx, cutoff, abandonedCartBatchSize)
	if err != nil {
		return fmt.Errorf("query abandoned carts: %w", err)
	}

	var errs error
	notified := 0
	for _, cart := range stale {
		if err := j.notify(ctx, cart); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		notified++
	}

	fields := map[string]any{"candidates": len(stale), "notified": notified}
	j.logg.Info(j.logg.WithFields(ctx, fields), "abandoned cart sweep done")
	return errs
}

func (j *abandonedCartJob) notify(ctx context.Context, cart models.Cart) error {
	user, err := j.users.FindUser(ctx, cart.UserID)
	if err != nil {
		return fmt.Errorf("load user %s: %w", cart.UserID, err)
	}
	if user == nil {
		// Orphaned cart; mark it so the sweep stops picking it up.
		return j.carts.MarkRecoveryEmailSent(ctx, cart.ID, j.now().UTC())
	}

	input := notifications.Input{
		Type:           enums.NotificationTypeAbandonedCart,
		RecipientEmail: user.Email,
		Data: map[string]string{
			"name":       user.Name,
			"item_count": strconv.Itoa(len(cart.Items)),
		},
	}
	if user.Phone != nil {
		input.RecipientPhone = *user.Phone
	}
	j.dispatcher.Dispatch(ctx, input)

	// Marked before delivery settles; a cart gets at most one reminder.
	if err := j.carts.MarkRecoveryEmailSent(ctx, cart.ID, j.now().UTC()); err != nil {
		return fmt.Errorf("mark cart %s notified: %w", cart.ID, err)
	}
	return nil
}
