package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/slotbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Message is what would be handed to an SMTP relay.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Sender struct {
	from string
}

func NewSender(from string) *Sender {
	return &Sender{from: from}
}

// Send logs the notification for a reservation event. Events without a
// recipient are skipped.
func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	msg, ok := Compose(event)
	if !ok {
		logrus.WithField("type", event.Type).Debug("no notification for event")
		return nil
	}
	logrus.WithFields(logrus.Fields{
		"from":       s.from,
		"to":         msg.To,
		"subject":    msg.Subject,
		"booking_id": event.BookingID,
	}).Info("send email")
	return nil
}

func Compose(event kafka.ReservationEvent) (Message, bool) {
	if event.CallerEmail == "" {
		return Message{}, false
	}
	session := fmt.Sprintf("%s with %s on %s, %s-%s", event.Subject, event.SpecialistName, event.Date, event.StartTime, event.EndTime)

	switch event.Type {
	case kafka.EventBookingConfirmed:
		return Message{
			To:      event.CallerEmail,
			Subject: "Booking confirmed",
			Body: fmt.Sprintf("Hi %s,\n\nyour seat for %s is confirmed.\nBooking: %s\nPayment: %s\n",
				event.CallerName, session, event.BookingID, event.PaymentID),
		}, true
	case kafka.EventBookingCancelled:
		return Message{
			To:      event.CallerEmail,
			Subject: "Booking cancelled",
			Body: fmt.Sprintf("Hi %s,\n\nyour booking %s for %s has been cancelled.\n",
				event.CallerName, event.BookingID, session),
		}, true
	case kafka.EventReconciliationRequired:
		return Message{
			To:      event.CallerEmail,
			Subject: "We could not confirm your seat",
			Body: fmt.Sprintf("Hi %s,\n\nyour payment %s was received but the seat could not be granted. Our team will contact you to settle it.\n",
				event.CallerName, event.PaymentID),
		}, true
	default:
		return Message{}, false
	}
}
