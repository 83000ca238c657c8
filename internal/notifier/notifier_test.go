package notifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/events"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/notifier"
)

type fakeMailer struct {
	sent   [][]string
	failFn func(to []string) error
}

func (f *fakeMailer) Send(to []string, subject, body string) error {
	if f.failFn != nil {
		if err := f.failFn(to); err != nil {
			return err
		}
	}
	f.sent = append(f.sent, to)
	return nil
}

func decidedMessage(t *testing.T) kafkago.Message {
	t.Helper()
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:      "LEAVE_DECIDED",
		RequestID:      "req-1",
		RequesterEmail: "alice@example.com",
		RequesterName:  "Alice",
		LeaveType:      "ANNUAL",
		StartDate:      "2026-03-02",
		EndDate:        "2026-03-06",
		Status:         "APPROVED",
		OccurredAt:     time.Now().UTC(),
	})
	assert.NoError(t, err)
	return kafkago.Message{Value: payload}
}

func TestNotifier_HandleLeaveDecided(t *testing.T) {
	ctx := context.Background()

	t.Run("success mails requester and admins", func(t *testing.T) {
		mailer := &fakeMailer{}
		n := notifier.New(mailer, []string{"boss@example.com"})

		err := n.HandleLeaveDecided(ctx, decidedMessage(t))

		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 2)
		assert.Equal(t, []string{"alice@example.com"}, mailer.sent[0])
		assert.Equal(t, []string{"boss@example.com"}, mailer.sent[1])
	})

	t.Run("send failures never propagate", func(t *testing.T) {
		mailer := &fakeMailer{
			failFn: func(to []string) error {
				if to[0] == "alice@example.com" {
					return errors.New("mailbox full")
				}
				return nil
			},
		}
		n := notifier.New(mailer, []string{"boss@example.com"})

		err := n.HandleLeaveDecided(ctx, decidedMessage(t))

		// the decision already committed; delivery is best effort
		assert.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
	})

	t.Run("poison message is committed not retried", func(t *testing.T) {
		mailer := &fakeMailer{}
		n := notifier.New(mailer, nil)

		err := n.HandleLeaveDecided(ctx, kafkago.Message{Value: []byte("not json{")})

		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})
}
