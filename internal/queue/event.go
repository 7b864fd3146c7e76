// Package queue defines the messages exchanged over RabbitMQ and the
// background consumer that records them.
package queue

import (
	"fmt"
	"time"

	"github.com/iliyamo/autopro/internal/model"
)

// AppointmentBookedQueue is the durable queue carrying AppointmentBookedEvent.
const AppointmentBookedQueue = "appointment.booked"

// AppointmentBookedEvent is published after an appointment is stored.  It
// carries the booking user's contact details so consumers never need to
// query the primary store.
type AppointmentBookedEvent struct {
	AppointmentID string `json:"appointment_id"`
	UserID        string `json:"user_id"`
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserPhone     string `json:"user_phone"`
	VehicleType   string `json:"vehicle_type"`
	ServiceType   string `json:"service_type"`
	Date          string `json:"date"` // YYYY-MM-DD, UTC
	TimeSlot      string `json:"time_slot"`
	Status        string `json:"status"`
	BookedAt      string `json:"booked_at"` // RFC 3339
}

// NewAppointmentBookedEvent builds the event for a stored appointment.
func NewAppointmentBookedEvent(a *model.Appointment, u *model.User) AppointmentBookedEvent {
	return AppointmentBookedEvent{
		AppointmentID: a.ID,
		UserID:        u.ID,
		UserName:      u.Name,
		UserEmail:     u.Email,
		UserPhone:     u.Phone,
		VehicleType:   string(a.VehicleType),
		ServiceType:   string(a.ServiceType),
		Date:          a.Date.UTC().Format("2006-01-02"),
		TimeSlot:      a.TimeSlot,
		Status:        string(a.Status),
		BookedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LogLine renders the event as one line of the appointment log.
func (ev AppointmentBookedEvent) LogLine() string {
	return fmt.Sprintf("[%s] Appointment booked | appointment_id=%s | user_id=%s | customer=%q | phone=%q | vehicle=%q | service=%q | date=%s | slot=%q | status=%s\n",
		ev.BookedAt, ev.AppointmentID, ev.UserID, ev.UserName, ev.UserPhone, ev.VehicleType, ev.ServiceType, ev.Date, ev.TimeSlot, ev.Status)
}
