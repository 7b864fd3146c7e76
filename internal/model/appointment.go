package model

import "time"

// VehicleType lists the vehicles the garage services.
type VehicleType string

const (
	VehicleScooty     VehicleType = "Scooty"
	VehicleMotorcycle VehicleType = "Motorcycle"
	VehiclePremium    VehicleType = "Sports/Premium Bike"
	VehicleERickshaw  VehicleType = "E-Rickshaw"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleScooty, VehicleMotorcycle, VehiclePremium, VehicleERickshaw:
		return true
	}
	return false
}

// ServiceType lists the bookable services.
type ServiceType string

const (
	ServiceGeneral   ServiceType = "General Service"
	ServiceRepair    ServiceType = "Repair"
	ServiceWash      ServiceType = "Wash & Polish"
	ServiceBattery   ServiceType = "Battery Check"
	ServiceBreakdown ServiceType = "Breakdown"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceGeneral, ServiceRepair, ServiceWash, ServiceBattery, ServiceBreakdown:
		return true
	}
	return false
}

// AppointmentStatus is ordered Pending → Approved → Completed, with
// Cancelled reachable from Pending.  Nothing server-side moves an
// appointment past Pending yet.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusApproved  AppointmentStatus = "Approved"
	StatusCompleted AppointmentStatus = "Completed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Appointment records a service booking made by a user.
//
// Fields:
//
//	ID          – unique identifier.
//	UserID      – user who booked (always the session user).
//	VehicleType – vehicle to be serviced.
//	ServiceType – requested service.
//	Date        – requested day (UTC).
//	TimeSlot    – free-text slot label, e.g. "10:00 AM - 12:00 PM".
//	Status      – booking state, created as Pending.
//	Notes       – optional customer description of the issue.
type Appointment struct {
	ID          string            `json:"_id" bson:"_id"`
	UserID      string            `json:"user" bson:"user"`
	VehicleType VehicleType       `json:"vehicleType" bson:"vehicleType"`
	ServiceType ServiceType       `json:"serviceType" bson:"serviceType"`
	Date        time.Time         `json:"date" bson:"date"`
	TimeSlot    string            `json:"timeSlot" bson:"timeSlot"`
	Status      AppointmentStatus `json:"status" bson:"status"`
	Notes       string            `json:"notes" bson:"notes"`
	CreatedAt   time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt" bson:"updatedAt"`
}

// PopulatedAppointment replaces the bare user id with the booking user's
// contact details.  The outer User field shadows the embedded `user` key
// when encoded.
type PopulatedAppointment struct {
	Appointment
	User *UserSummary `json:"user"`
}
