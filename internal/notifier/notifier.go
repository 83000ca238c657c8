package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
)

// Notifier turns decision events into emails. Delivery is strictly
// best-effort: the state transition that produced the event has already
// committed, so per-recipient failures are counted and logged, never
// propagated back as a handler error.
type Notifier struct {
	mailer      Mailer
	adminEmails []string
	logger      *zap.Logger
}

func New(mailer Mailer, adminEmails []string, logger ...*zap.Logger) *Notifier {
	l := zap.L().Named("notifier")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notifier")
	}
	return &Notifier{mailer: mailer, adminEmails: adminEmails, logger: l}
}

// HandleLeaveSubmitted mails the admin roster about a new pending request.
func (n *Notifier) HandleLeaveSubmitted(ctx context.Context, msg kafkago.Message) error {
	var event events.LeaveSubmittedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.Error("decode leave_submitted event failed", zap.Error(err))
		return nil // poison message, commit and move on
	}

	subject := fmt.Sprintf("New leave request from %s", event.RequesterName)
	body := fmt.Sprintf(
		"%s has requested %s leave from %s to %s.\r\n\r\nPlease review it in the leave tracker.\r\n",
		event.RequesterName, event.LeaveType, event.StartDate, event.EndDate,
	)

	n.sendEach(n.adminEmails, subject, body, event.RequestID)
	return nil
}

// HandleLeaveDecided mails the requester (and admin roster) the decision.
func (n *Notifier) HandleLeaveDecided(ctx context.Context, msg kafkago.Message) error {
	var event events.LeaveDecidedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.Error("decode leave_decided event failed", zap.Error(err))
		return nil
	}

	subject := fmt.Sprintf("Your %s leave request was %s", event.LeaveType, event.Status)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour %s leave request (%s to %s) is now %s.\r\n",
		event.RequesterName, event.LeaveType, event.StartDate, event.EndDate, event.Status,
	)
	if event.RejectionReason != "" {
		body += fmt.Sprintf("\r\nReason: %s\r\n", event.RejectionReason)
	}

	recipients := []string{event.RequesterEmail}
	recipients = append(recipients, n.adminEmails...)
	n.sendEach(recipients, subject, body, event.RequestID)
	return nil
}

// HandleToilDecided mails the TOIL accrual outcome with the balance movement.
func (n *Notifier) HandleToilDecided(ctx context.Context, msg kafkago.Message) error {
	var event events.ToilDecidedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		n.logger.Error("decode toil_decided event failed", zap.Error(err))
		return nil
	}

	subject := fmt.Sprintf("Your TOIL entry was %s", event.Status)
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour TOIL entry (%s, %.1f hours) is now %s.\r\n",
		event.RequesterName, event.Scenario, event.Hours, event.Status,
	)
	if event.Status == "APPROVED" {
		body += fmt.Sprintf("\r\nTOIL balance: %.1f -> %.1f hours.\r\n", event.PreviousBalance, event.NewBalance)
	}
	if event.Reason != "" {
		body += fmt.Sprintf("\r\nReason: %s\r\n", event.Reason)
	}

	n.sendEach([]string{event.RequesterEmail}, subject, body, event.EntryID)
	return nil
}

// sendEach delivers one mail per recipient so a single bad address cannot
// block the rest. The failure count is surfaced in the log, nothing else.
func (n *Notifier) sendEach(recipients []string, subject, body, aggregateID string) {
	failed := 0
	for _, rcpt := range recipients {
		if rcpt == "" {
			continue
		}
		if err := n.mailer.Send([]string{rcpt}, subject, body); err != nil {
			failed++
			n.logger.Warn("notification send failed",
				zap.String("recipient", rcpt),
				zap.String("aggregate_id", aggregateID),
				zap.Error(err),
			)
		}
	}

	n.logger.Info("notifications dispatched",
		zap.String("aggregate_id", aggregateID),
		zap.Int("recipients", len(recipients)),
		zap.Int("failed", failed),
	)
}
