// Package service holds integrations invoked from handlers that are not
// part of the request's own storage path.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/autopro/internal/queue"
)

// AppointmentPublisher announces stored appointments.  Failures are the
// caller's to log; a booking never fails because of them.
type AppointmentPublisher interface {
	PublishAppointmentBooked(ctx context.Context, ev q.AppointmentBookedEvent) error
}

// NopPublisher drops every event.  Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishAppointmentBooked(context.Context, q.AppointmentBookedEvent) error {
	return nil
}

// AMQPPublisher dials the broker per publish.  Booking volume is low enough
// that a long-lived channel is not worth the reconnect handling.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishAppointmentBooked sends ev as a persistent JSON message to the
// appointment.booked queue.
func (p *AMQPPublisher) PublishAppointmentBooked(ctx context.Context, ev q.AppointmentBookedEvent) error {
	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(5 * time.Second)})
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(q.AppointmentBookedQueue, true, false, false, false, nil); err != nil {
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx,
		"",                       // default exchange
		q.AppointmentBookedQueue, // routing key = queue name
		false,                    // mandatory
		false,                    // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			MessageId:    ev.AppointmentID,
			Body:         body,
		},
	)
}

// PublishAsync runs the publish off the request path with its own deadline
// and logs the outcome.
func PublishAsync(p AppointmentPublisher, ev q.AppointmentBookedEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.PublishAppointmentBooked(ctx, ev); err != nil {
			zap.L().Warn("publish appointment.booked failed", zap.String("appointment_id", ev.AppointmentID), zap.Error(err))
		}
	}()
}
