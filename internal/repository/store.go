package repository

import (
	"context"

	"github.com/iliyamo/autopro/internal/model"
)

// UserStore is the credential store.
type UserStore interface {
	// Create inserts u.  u.ID and timestamps are assigned by the store.  A
	// colliding email yields ErrEmailExists.
	Create(ctx context.Context, u *model.User) error
	// FindByEmail matches the email exactly and includes the password hash.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByID never populates PasswordHash.
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindSummaries returns contact details for the given ids, keyed by id.
	FindSummaries(ctx context.Context, ids []string) (map[string]model.UserSummary, error)
	DeleteAll(ctx context.Context) error
}

// ProductFilter narrows product listings.  Empty fields do not filter.
type ProductFilter struct {
	Keyword  string         // case-insensitive substring of the name
	Category model.Category // exact category
}

// ProductStore persists catalog entries.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context, f ProductFilter) ([]*model.Product, error)
	// Update overwrites every mutable field of p (matched by p.ID).
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// AppointmentStore persists bookings.
type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	// ListByUser returns the user's appointments ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]*model.Appointment, error)
	// ListAll returns every appointment with its booking user's contact
	// details; User is nil when the user record no longer exists.
	ListAll(ctx context.Context) ([]*model.PopulatedAppointment, error)
	DeleteAll(ctx context.Context) error
}

// Stores bundles one implementation of each store.  Close releases the
// underlying connection, if any.
type Stores struct {
	Users        UserStore
	Products     ProductStore
	Appointments AppointmentStore
	Close        func() error
}
