package mongostore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

// AppointmentStore implements repository.AppointmentStore.  ListAll needs
// the users collection as well, so it keeps the parent Store.
type AppointmentStore struct {
	s *Store
}

var _ repository.AppointmentStore = (*AppointmentStore)(nil)

func (a *AppointmentStore) Create(ctx context.Context, ap *model.Appointment) error {
	doc := *ap
	doc.ID = uuid.NewString()
	doc.Date = doc.Date.UTC()
	doc.CreatedAt = time.Now().UTC()
	doc.UpdatedAt = doc.CreatedAt
	if _, err := a.s.col(ColAppointments).InsertOne(ctx, doc); err != nil {
		return wrapError(err)
	}
	*ap = doc
	return nil
}

func (a *AppointmentStore) ListByUser(ctx context.Context, userID string) ([]*model.Appointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	return findMany[model.Appointment](ctx, a.s.col(ColAppointments), bson.D{{Key: "user", Value: userID}}, opts)
}

// ListAll populates users with a second $in query rather than $lookup so the
// user projection stays identical to UserStore.FindSummaries.
func (a *AppointmentStore) ListAll(ctx context.Context) ([]*model.PopulatedAppointment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	items, err := findMany[model.Appointment](ctx, a.s.col(ColAppointments), bson.D{}, opts)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.UserID]; !ok {
			seen[it.UserID] = struct{}{}
			ids = append(ids, it.UserID)
		}
	}
	users, err := a.s.Users().FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*model.PopulatedAppointment, 0, len(items))
	for _, it := range items {
		pa := &model.PopulatedAppointment{Appointment: *it}
		if u, ok := users[it.UserID]; ok {
			pa.User = &u
		}
		out = append(out, pa)
	}
	return out, nil
}

func (a *AppointmentStore) DeleteAll(ctx context.Context) error {
	return deleteAll(ctx, a.s.col(ColAppointments))
}
