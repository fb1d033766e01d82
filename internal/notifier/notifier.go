package notifier

import (
	"context"
	"strconv"
	"time"

	"hotelbooking/internal/kafka"
)

// Event is the JSON message pushed over the websocket.
type Event struct {
	Type      string    `json:"type"`
	BookingID int64     `json:"booking_id"`
	RoomID    int64     `json:"room_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Start     time.Time `json:"start,omitempty"`
	SentAt    time.Time `json:"sent_at"`
}

type eventPublisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Notifier fans a booking event out to the user's live websocket connection
// and to the kafka event stream. Both legs are best-effort: a missed push or
// a broker outage is logged by the caller, never returned as a user-facing
// failure.
type Notifier struct {
	hub      *Hub
	producer eventPublisher
	loggerf  func(format string, args ...interface{})
}

func New(hub *Hub, producer eventPublisher, loggerf func(format string, args ...interface{})) *Notifier {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Notifier{hub: hub, producer: producer, loggerf: loggerf}
}

func (n *Notifier) NotifyBookingCreated(ctx context.Context, ownerUserID, bookingID, roomID int64, start time.Time) error {
	n.deliver(ctx, ownerUserID, kafka.TopicBookingEvents, Event{
		Type:      "booking_created",
		BookingID: bookingID,
		RoomID:    roomID,
		Start:     start,
		SentAt:    time.Now().UTC(),
	})
	return nil
}

func (n *Notifier) NotifyBookingCancelled(ctx context.Context, clientUserID, bookingID int64, reason string) error {
	n.deliver(ctx, clientUserID, kafka.TopicBookingEvents, Event{
		Type:      "booking_cancelled",
		BookingID: bookingID,
		Reason:    reason,
		SentAt:    time.Now().UTC(),
	})
	return nil
}

func (n *Notifier) NotifyPaymentConfirmed(ctx context.Context, clientUserID, bookingID int64) error {
	n.deliver(ctx, clientUserID, kafka.TopicPaymentEvents, Event{
		Type:      "payment_confirmed",
		BookingID: bookingID,
		SentAt:    time.Now().UTC(),
	})
	return nil
}

func (n *Notifier) deliver(ctx context.Context, userID int64, topic string, ev Event) {
	if n.hub != nil && !n.hub.SendToUser(userID, ev) {
		n.loggerf("level=debug msg=user offline for push user_id=%d type=%s", userID, ev.Type)
	}

	if n.producer != nil {
		if err := n.producer.Publish(ctx, topic, strconv.FormatInt(ev.BookingID, 10), ev); err != nil {
			n.loggerf("level=error msg=kafka publish failed type=%s booking_id=%d err=%v", ev.Type, ev.BookingID, err)
		}
	}
}
