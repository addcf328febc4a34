package notify

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// Notifier fans lifecycle events out across the configured channels. Each
// channel attempt is independent: one failure never prevents the others, and
// no failure ever propagates to the intake pipeline.
type Notifier struct {
	cfg      config.NotificationConfig
	contacts domain.ContactMap
	email    *EmailSender
	discord  *DiscordSender
	telegram *TelegramSender
	sms      *SMSSender
	logger   *zap.Logger
}

// NewNotifier wires up all channel senders from configuration.
func NewNotifier(cfg config.NotificationConfig, contacts domain.ContactMap, logger *zap.Logger) *Notifier {
	return &Notifier{
		cfg:      cfg,
		contacts: contacts,
		email:    NewEmailSender(cfg.SMTP, logger),
		discord:  NewDiscordSender(cfg.Discord, logger),
		telegram: NewTelegramSender(cfg.Telegram, logger),
		sms:      NewSMSSender(cfg.SMS, logger),
		logger:   logger,
	}
}

// collector gathers delivery results from concurrently running attempts.
type collector struct {
	mu         sync.Mutex
	wg         sync.WaitGroup
	deliveries []Delivery
}

func (c *collector) run(attempt func() Delivery) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		d := attempt()
		c.mu.Lock()
		c.deliveries = append(c.deliveries, d)
		c.mu.Unlock()
	}()
}

func (c *collector) wait() []Delivery {
	c.wg.Wait()
	return c.deliveries
}

// TicketCreated delivers the creation event: the team broadcast (email plus
// both webhooks) when the ticket_created toggle is set, a confirmation email
// to the requester when enabled, and the operator SMS broadcast.
func (n *Notifier) TicketCreated(ctx context.Context, t *domain.Ticket) []Delivery {
	var c collector

	if n.cfg.Events.Has(config.EventToggleTicketCreated) {
		subject := fmt.Sprintf("[Helpdesk] New ticket #%d (%s) - %s", t.ID, t.Priority, t.Subject)
		body := fmt.Sprintf("Category: %s\nTeam: %s\nUser: %s\n\n%s",
			t.Category, t.AssigneeTeam, orEmpty(t.UserEmail), t.Body)
		short := fmt.Sprintf("New ticket #%d -> %s [%s] - %s", t.ID, t.AssigneeTeam, t.Priority, t.Subject)

		c.run(func() Delivery { return n.email.Send(n.cfg.AlertTo, subject, body) })
		c.run(func() Delivery { return n.discord.Send(ctx, short) })
		c.run(func() Delivery { return n.telegram.Send(ctx, short) })
	}

	if n.cfg.AlertUserOnCreate && t.UserEmail != nil && *t.UserEmail != "" {
		to := *t.UserEmail
		subject := fmt.Sprintf("[Helpdesk] Ticket #%d created - %s", t.ID, t.Subject)
		body := fmt.Sprintf(
			"Hello,\n\nYour ticket has been created.\nID: %d\nCategory: %s\nTeam: %s\nPriority: %s\n\nDetails:\n%s\n\nWe will keep you updated.\n",
			t.ID, t.Category, t.AssigneeTeam, t.Priority, t.Body)
		c.run(func() Delivery { return n.email.Send(to, subject, body) })
	}

	short := fmt.Sprintf("New ticket #%d [%s] %s", t.ID, t.Priority, t.Subject)
	for _, number := range n.cfg.OperatorNumbers {
		number := number
		c.run(func() Delivery { return n.sms.Send(ctx, number, short) })
	}

	return c.wait()
}

// TicketAssigned delivers the assignment event: the team broadcast when the
// assignment toggle is set, a direct email and SMS to the assigned
// individual, and a "you will be contacted" notice to the requester over
// whichever contact channels exist.
func (n *Notifier) TicketAssigned(ctx context.Context, t *domain.Ticket) []Delivery {
	var c collector

	if n.cfg.Events.Has(config.EventToggleAssignment) {
		subject := fmt.Sprintf("[Helpdesk] Assigned to %s - Ticket #%d", t.AssigneeTeam, t.ID)
		body := fmt.Sprintf("Ticket #%d assigned to team %s with priority %s.", t.ID, t.AssigneeTeam, t.Priority)
		short := fmt.Sprintf("Assigned: ticket #%d -> %s [%s]", t.ID, t.AssigneeTeam, t.Priority)

		c.run(func() Delivery { return n.email.Send(n.cfg.AlertTo, subject, body) })
		c.run(func() Delivery { return n.discord.Send(ctx, short) })
		c.run(func() Delivery { return n.telegram.Send(ctx, short) })
	}

	if n.cfg.AlertUserOnAssignment && t.AssigneeUser != nil && *t.AssigneeUser != "" {
		assignee := *t.AssigneeUser
		subject := fmt.Sprintf("[Helpdesk] You are assigned - Ticket #%d", t.ID)
		body := fmt.Sprintf("You have been assigned ticket #%d [%s] (%s):\n%s\n\n%s",
			t.ID, t.Priority, t.Category, t.Subject, t.Body)
		c.run(func() Delivery { return n.email.Send(assignee, subject, body) })

		// SMS only when the contact map knows the assignee; skipped silently
		// otherwise
		if phone, ok := n.contacts.Phone(assignee); ok {
			text := fmt.Sprintf("Helpdesk: you are assigned ticket #%d [%s] %s", t.ID, t.Priority, t.Subject)
			c.run(func() Delivery { return n.sms.Send(ctx, phone, text) })
		}
	}

	// requester notice over whichever contact channels are present
	notice := fmt.Sprintf("Your ticket #%d has been assigned to %s. You will be contacted shortly.", t.ID, t.AssigneeTeam)
	if t.UserEmail != nil && *t.UserEmail != "" {
		to := *t.UserEmail
		subject := fmt.Sprintf("[Helpdesk] Ticket #%d update", t.ID)
		c.run(func() Delivery { return n.email.Send(to, subject, notice) })
	}
	if t.UserPhone != nil && *t.UserPhone != "" {
		phone := *t.UserPhone
		c.run(func() Delivery { return n.sms.Send(ctx, phone, notice) })
	}

	return c.wait()
}

// ContactRequester relays a free-text message to the requester by email and
// SMS, depending on which contact details exist. With neither present the
// call is a no-op.
func (n *Notifier) ContactRequester(ctx context.Context, t *domain.Ticket, message string) []Delivery {
	hasEmail := t.UserEmail != nil && *t.UserEmail != ""
	hasPhone := t.UserPhone != nil && *t.UserPhone != ""
	if !hasEmail && !hasPhone {
		n.logger.Debug("contact requester skipped: no contact details", zap.Int64("ticket_id", t.ID))
		return nil
	}

	var c collector
	if hasEmail {
		to := *t.UserEmail
		subject := fmt.Sprintf("[Helpdesk] Ticket #%d - message from support", t.ID)
		c.run(func() Delivery { return n.email.Send(to, subject, message) })
	}
	if hasPhone {
		phone := *t.UserPhone
		c.run(func() Delivery { return n.sms.Send(ctx, phone, message) })
	}
	return c.wait()
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
