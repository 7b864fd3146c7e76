package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/autopro/internal/model"
)

// AppointmentRepo is the MySQL booking store.
type AppointmentRepo struct {
	db *sql.DB
}

func NewAppointmentRepo(db *sql.DB) *AppointmentRepo { return &AppointmentRepo{db: db} }

const appointmentColumns = "a.id,a.user_id,a.vehicle_type,a.service_type,a.date,a.time_slot,a.status,a.notes,a.created_at,a.updated_at"

// Create inserts a single appointment row; no other rows are touched.
func (r *AppointmentRepo) Create(ctx context.Context, a *model.Appointment) error {
	now := time.Now().UTC()
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO appointments (id, user_id, vehicle_type, service_type, date, time_slot, status, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		id, a.UserID, string(a.VehicleType), string(a.ServiceType), a.Date.UTC(), a.TimeSlot, string(a.Status), a.Notes, now, now)
	if err != nil {
		return err
	}
	a.ID, a.CreatedAt, a.UpdatedAt = id, now, now
	return nil
}

func (r *AppointmentRepo) ListByUser(ctx context.Context, userID string) ([]*model.Appointment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+appointmentColumns+" FROM appointments a WHERE a.user_id = ? ORDER BY a.date ASC, a.created_at ASC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// ListAll joins the booking user so callers get contact details in one
// round trip.  Orphaned appointments come back with a nil User.
func (r *AppointmentRepo) ListAll(ctx context.Context) ([]*model.PopulatedAppointment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+appointmentColumns+", u.id, u.name, u.email, u.phone"+
			" FROM appointments a LEFT JOIN users u ON u.id = a.user_id"+
			" ORDER BY a.created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.PopulatedAppointment{}
	for rows.Next() {
		var (
			pa                      model.PopulatedAppointment
			uid, name, email, phone sql.NullString
		)
		a := &pa.Appointment
		if err := rows.Scan(&a.ID, &a.UserID, &a.VehicleType, &a.ServiceType, &a.Date, &a.TimeSlot,
			&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt, &uid, &name, &email, &phone); err != nil {
			return nil, err
		}
		if uid.Valid {
			pa.User = &model.UserSummary{ID: uid.String, Name: name.String, Email: email.String, Phone: phone.String}
		}
		out = append(out, &pa)
	}
	return out, rows.Err()
}

func (r *AppointmentRepo) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM appointments")
	return err
}

func scanAppointment(s rowScanner, a *model.Appointment) error {
	return s.Scan(&a.ID, &a.UserID, &a.VehicleType, &a.ServiceType, &a.Date, &a.TimeSlot,
		&a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
}
