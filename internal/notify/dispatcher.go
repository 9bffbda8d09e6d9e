// Package notify fans committed CRM changes out to observers: realtime
// dashboard events and email. Every failure here is absorbed and logged;
// nothing in this package can fail a submission or a status change.
package notify

import (
	"context"
	"log/slog"

	"pathcrm/internal/crm/models"
	"pathcrm/internal/mail"
	"pathcrm/internal/platform/metrics"
	"pathcrm/pkg/domain"
)

// Realtime event names, part of the dashboard wire contract.
const (
	EventNewContact           = "new_contact"
	EventNewDemo              = "new_demo"
	EventContactStatusUpdated = "contact_status_updated"
	EventDemoStatusUpdated    = "demo_status_updated"
)

// Email template labels for metrics.
const (
	templateContactNotification = "contact_notification"
	templateDemoNotification    = "demo_notification"
	templateThankYou            = "thank_you"
)

// Broadcaster pushes an event to connected realtime clients.
type Broadcaster interface {
	Emit(event string, payload any) error
}

// Dispatcher routes entity lifecycle events to the realtime hub and the mail
// sender. A nil sender means mail is not configured and sends are skipped.
type Dispatcher struct {
	broadcaster Broadcaster
	sender      mail.Sender
	opsTo       string
	awaitSend   bool
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(d *Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithMail enables email delivery. opsTo receives the internal notifications.
func WithMail(sender mail.Sender, opsTo string) Option {
	return func(d *Dispatcher) {
		d.sender = sender
		d.opsTo = opsTo
	}
}

// WithAwaitSend makes email delivery synchronous with the triggering request.
// Needed on hosts that freeze the process as soon as the response is written.
func WithAwaitSend(await bool) Option {
	return func(d *Dispatcher) {
		d.awaitSend = await
	}
}

func NewDispatcher(broadcaster Broadcaster, opts ...Option) *Dispatcher {
	d := &Dispatcher{broadcaster: broadcaster}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// EntityCreated announces a new submission to dashboards and the ops inbox.
func (d *Dispatcher) EntityCreated(ctx context.Context, snap *models.Snapshot) {
	switch snap.Kind {
	case domain.KindContact:
		d.emit(ctx, EventNewContact, snap.Entity)
		if c, ok := snap.Entity.(*models.Contact); ok && d.sender != nil {
			d.deliver(ctx, templateContactNotification, mail.BuildContactNotification(c, d.opsTo))
		}
	case domain.KindDemo:
		d.emit(ctx, EventNewDemo, snap.Entity)
		if dm, ok := snap.Entity.(*models.Demo); ok && d.sender != nil {
			d.deliver(ctx, templateDemoNotification, mail.BuildDemoNotification(dm, d.opsTo))
		}
	}
}

// StatusChanged announces a committed transition, and sends the one
// client-facing email this system knows: the thank-you when a submission is
// first marked Contacted.
func (d *Dispatcher) StatusChanged(ctx context.Context, outcome *models.TransitionOutcome) {
	event := EventContactStatusUpdated
	if outcome.Kind == domain.KindDemo {
		event = EventDemoStatusUpdated
	}
	d.emit(ctx, event, outcome.Snapshot.Entity)

	if outcome.WantsThankYou() {
		if d.sender == nil {
			if d.logger != nil {
				d.logger.WarnContext(ctx, "mail not configured, skipping thank-you email",
					slog.String("entity_id", outcome.EntityID.String()))
			}
			return
		}
		d.deliver(ctx, templateThankYou, mail.BuildThankYou(outcome.Snapshot.FullName, outcome.Snapshot.Email))
	}
}

func (d *Dispatcher) emit(ctx context.Context, event string, payload any) {
	if d.broadcaster == nil {
		return
	}
	if err := d.broadcaster.Emit(event, payload); err != nil && d.logger != nil {
		d.logger.ErrorContext(ctx, "realtime emit failed",
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, template string, msg mail.Message) {
	if d.awaitSend {
		d.send(ctx, template, msg)
		return
	}
	// Outlive the HTTP request that triggered the send.
	go d.send(context.WithoutCancel(ctx), template, msg)
}

func (d *Dispatcher) send(ctx context.Context, template string, msg mail.Message) {
	if err := d.sender.Send(ctx, msg); err != nil {
		if d.metrics != nil {
			d.metrics.EmailFailures.WithLabelValues(template).Inc()
		}
		if d.logger != nil {
			d.logger.ErrorContext(ctx, "email send failed",
				slog.String("template", template),
				slog.Any("error", err),
			)
		}
		return
	}
	if d.metrics != nil {
		d.metrics.EmailsSent.WithLabelValues(template).Inc()
	}
	if d.logger != nil {
		d.logger.InfoContext(ctx, "email sent",
			slog.String("template", template),
			slog.String("to", msg.To),
		)
	}
}
