package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/autopro/internal/apperr"
	"github.com/iliyamo/autopro/internal/config"
	"github.com/iliyamo/autopro/internal/metrics"
	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/queue"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/service"
)

const (
	MsgAppointmentRequired = "Please fill all required fields: Vehicle Type, Service Type, Date, and Time Slot."
	MsgAppointmentBooked   = "Appointment booked successfully! Pending Admin Approval."
)

// AppointmentStatusChanger moves a booking along its status lifecycle.
//
// TODO: expose PATCH /api/appointments/:id/status (admin) once the allowed
// transitions are agreed with the workshop; nothing implements this yet.
type AppointmentStatusChanger interface {
	ChangeStatus(ctx context.Context, id string, to model.AppointmentStatus) (*model.Appointment, error)
}

// AppointmentHandler serves /api/appointments.
type AppointmentHandler struct {
	Cfg          config.Config
	Appointments repository.AppointmentStore
	Publisher    service.AppointmentPublisher
}

func NewAppointmentHandler(cfg config.Config, store repository.AppointmentStore, pub service.AppointmentPublisher) *AppointmentHandler {
	if pub == nil {
		pub = service.NopPublisher{}
	}
	return &AppointmentHandler{Cfg: cfg, Appointments: store, Publisher: pub}
}

// createAppointmentReq has no user field; the owner is always the session
// user.
type createAppointmentReq struct {
	VehicleType string `json:"vehicleType"`
	ServiceType string `json:"serviceType"`
	Date        string `json:"date"`
	TimeSlot    string `json:"timeSlot"`
	Notes       string `json:"notes"`
}

// toAppointment validates the request and builds a Pending appointment.
func (r createAppointmentReq) toAppointment(userID string) (*model.Appointment, error) {
	r.VehicleType = strings.TrimSpace(r.VehicleType)
	r.ServiceType = strings.TrimSpace(r.ServiceType)
	r.Date = strings.TrimSpace(r.Date)
	r.TimeSlot = strings.TrimSpace(r.TimeSlot)
	if r.VehicleType == "" || r.ServiceType == "" || r.Date == "" || r.TimeSlot == "" {
		return nil, apperr.Validation(MsgAppointmentRequired)
	}

	vt := model.VehicleType(r.VehicleType)
	if !vt.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid vehicle type: %s", r.VehicleType))
	}
	st := model.ServiceType(r.ServiceType)
	if !st.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("Invalid service type: %s", r.ServiceType))
	}
	date, err := dateparse.ParseIn(r.Date, time.UTC)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("Invalid date: %s", r.Date))
	}

	return &model.Appointment{
		UserID:      userID,
		VehicleType: vt,
		ServiceType: st,
		Date:        date.UTC(),
		TimeSlot:    r.TimeSlot,
		Status:      model.StatusPending,
		Notes:       strings.TrimSpace(r.Notes),
	}, nil
}

// Create books an appointment for the session user and announces it.
func (h *AppointmentHandler) Create(c echo.Context) error {
	u, err := sessionUser(c)
	if err != nil {
		return err
	}
	var req createAppointmentReq
	if err := c.Bind(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	a, err := req.toAppointment(u.ID)
	if err != nil {
		return err
	}

	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()
	if err := h.Appointments.Create(ctx, a); err != nil {
		return apperr.Internal(err)
	}

	metrics.AppointmentsBookedTotal.WithLabelValues(string(a.ServiceType)).Inc()
	service.PublishAsync(h.Publisher, queue.NewAppointmentBookedEvent(a, u))

	return c.JSON(http.StatusCreated, echo.Map{
		"message":     MsgAppointmentBooked,
		"appointment": a,
	})
}

// Mine lists the session user's appointments, earliest date first.
func (h *AppointmentHandler) Mine(c echo.Context) error {
	u, err := sessionUser(c)
	if err != nil {
		return err
	}
	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	items, err := h.Appointments.ListByUser(ctx, u.ID)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, items)
}

// All lists every appointment with the booking user's contact details.
func (h *AppointmentHandler) All(c echo.Context) error {
	ctx, cancel := storeCtx(c, h.Cfg.StoreTimeout)
	defer cancel()

	items, err := h.Appointments.ListAll(ctx)
	if err != nil {
		return apperr.Internal(err)
	}
	return c.JSON(http.StatusOK, items)
}
