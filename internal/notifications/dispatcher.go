package notifications

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/hardikpatel/shopkart-backend/internal/settings"
	"github.com/hardikpatel/shopkart-backend/pkg/enums"
	"github.com/hardikpatel/shopkart-backend/pkg/logger"
	"github.com/hardikpatel/shopkart-backend/pkg/metrics"
)

// Input is one notification request. Recipients are per channel: email goes
// to RecipientEmail, SMS and WhatsApp to RecipientPhone; an empty recipient
// skips that channel.
type Input struct {
	Type           enums.NotificationType
	RecipientEmail string
	RecipientPhone string
	Data           map[string]string
}

// Dispatcher is fire-and-forget multi-channel delivery. Dispatch returns
// immediately; delivery runs on a detached goroutine and failures only ever
// reach the log, never the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, input Input)
	// Flush blocks until all in-flight deliveries finish. Used by tests and
	// graceful shutdown.
	Flush()
	Close()
}

type dispatcher struct {
	settings settings.Service
	senders  []Sender
	logg     *logger.Logger
	metrics  *metrics.NotificationMetrics

	wg    sync.WaitGroup
	errs  chan error
	done  chan struct{}
	close sync.Once
}

// NewDispatcher wires the dispatcher and starts its error drain. The
// metrics argument may be nil.
func NewDispatcher(settingsSvc settings.Service, logg *logger.Logger, m *metrics.NotificationMetrics) (Dispatcher, error) {
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	d := &dispatcher{
		settings: settingsSvc,
		senders:  defaultSenders(),
		logg:     logg,
		metrics:  m,
		errs:     make(chan error, 64),
		done:     make(chan struct{}),
	}
	go d.drain()
	return d, nil
}

// drain moves delivery errors into the log so spawned goroutines never block
// on a full channel for long.
func (d *dispatcher) drain() {
	defer close(d.done)
	for err := range d.errs {
		d.logg.Error(context.Background(), "notification delivery failed", err)
	}
}

func (d *dispatcher) Dispatch(ctx context.Context, input Input) {
	// the delivery outlives the request; detach from its cancellation
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.deliver(detached, input); err != nil {
			select {
			case d.errs <- err:
			default:
				d.logg.Error(detached, "notification delivery failed (error channel full)", err)
			}
		}
	}()
}

func (d *dispatcher) deliver(ctx context.Context, input Input) error {
	snap, err := d.settings.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("loading notification settings: %w", err)
	}

	subject, body := Render(input.Type, input.Data)

	var errs error
	for _, sender := range d.senders {
		channel := sender.Channel()

		if !sender.Configured(snap.Notifications) {
			d.metrics.IncSkipped(channel.String())
			continue
		}

		recipient := d.recipientFor(channel, input)
		if recipient == "" {
			d.metrics.IncSkipped(channel.String())
			continue
		}

		msg := Message{Channel: channel, Recipient: recipient, Subject: subject, Body: body}
		if err := sender.Send(ctx, snap.Notifications, msg); err != nil {
			d.metrics.IncFailed(channel.String())
			errs = multierr.Append(errs, fmt.Errorf("%s to %s: %w", channel, recipient, err))
			continue
		}
		d.metrics.IncSent(channel.String())
	}
	return errs
}

func (d *dispatcher) recipientFor(channel enums.NotificationChannel, input Input) string {
	switch channel {
	case enums.NotificationChannelEmail:
		return input.RecipientEmail
	case enums.NotificationChannelSMS, enums.NotificationChannelWhatsApp:
		return input.RecipientPhone
	default:
		return ""
	}
}

func (d *dispatcher) Flush() {
	d.wg.Wait()
}

func (d *dispatcher) Close() {
	d.close.Do(func() {
		d.wg.Wait()
		close(d.errs)
		<-d.done
	})
}
