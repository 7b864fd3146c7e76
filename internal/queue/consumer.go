package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogPath is where the consumer appends booked appointments.
const DefaultLogPath = "logs/appointments.log"

// StartAppointmentConsumer connects to the broker at url, declares the
// appointment.booked queue (durable) and appends every event to the
// appointment log at logPath.  It reconnects with exponential backoff and
// returns only when ctx is cancelled.  Malformed messages are rejected
// without requeue.
func StartAppointmentConsumer(ctx context.Context, url, logPath string) error {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	out := &lumberjack.Logger{Filename: logPath, MaxSize: 16, MaxBackups: 5}
	defer out.Close()

	log := zap.L().Named("appointment-consumer")
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("dial broker failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleepCtx(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = consumeLoop(ctx, conn, out)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("consume loop ended, reconnecting", zap.Error(err))
		if !sleepCtx(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, out io.Writer) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		zap.L().Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(AppointmentBookedQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(AppointmentBookedQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(d.Body, out); err != nil {
				zap.L().Error("handle appointment event failed", zap.Error(err))
				_ = d.Nack(false, false) // do not requeue, avoids a poison loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// handleMessage decodes one event and appends its log line to out.
func handleMessage(body []byte, out io.Writer) error {
	var ev AppointmentBookedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.AppointmentID == "" {
		return errors.New("event without appointment_id")
	}
	if _, err := io.WriteString(out, ev.LogLine()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
