// Package memstore keeps every store in process memory.  It backs
// DB_DRIVER=memory and the handler tests.  Entities are copied on the way
// in and out so callers never share state with the store.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
)

// New returns a fresh set of empty stores.
func New() repository.Stores {
	users := &UserStore{byID: map[string]*model.User{}}
	return repository.Stores{
		Users:        users,
		Products:     &ProductStore{byID: map[string]*model.Product{}},
		Appointments: &AppointmentStore{byID: map[string]*model.Appointment{}, users: users},
		Close:        func() error { return nil },
	}
}

// now is swapped in tests that need distinct timestamps.
var now = func() time.Time { return time.Now().UTC() }

/* ---------- users ---------- */

type UserStore struct {
	mu   sync.RWMutex
	byID map[string]*model.User
}

func (s *UserStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	s.byID[cp.ID] = &cp
	return nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) FindByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	cp.PasswordHash = ""
	return &cp, nil
}

func (s *UserStore) FindSummaries(_ context.Context, ids []string) (map[string]model.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := s.byID[id]; ok {
			out[id] = model.UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
		}
	}
	return out, nil
}

func (s *UserStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	s.byID = map[string]*model.User{}
	s.mu.Unlock()
	return nil
}

/* ---------- products ---------- */

type ProductStore struct {
	mu   sync.RWMutex
	seq  int
	byID map[string]*model.Product
	// insertion order, used as the listing order
	order map[string]int
}

func (s *ProductStore) Create(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.order == nil {
		s.order = map[string]int{}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.Specs == nil {
		p.Specs = []model.Spec{}
	}
	s.seq++
	s.order[p.ID] = s.seq
	s.byID[p.ID] = cloneProduct(p)
	return nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *ProductStore) List(_ context.Context, f repository.ProductFilter) ([]*model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	kw := strings.ToLower(f.Keyword)
	out := []*model.Product{}
	for _, p := range s.byID {
		if kw != "" && !strings.Contains(strings.ToLower(p.Name), kw) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] < s.order[out[j].ID] })
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	next := cloneProduct(p)
	next.UserID = cur.UserID
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = now()
	if next.Specs == nil {
		next.Specs = []model.Spec{}
	}
	s.byID[p.ID] = next
	p.UpdatedAt = next.UpdatedAt
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	delete(s.order, id)
	return nil
}

func (s *ProductStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	s.byID = map[string]*model.Product{}
	s.order = map[string]int{}
	s.mu.Unlock()
	return nil
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	if p.Specs != nil {
		cp.Specs = append([]model.Spec{}, p.Specs...)
	}
	return &cp
}

/* ---------- appointments ---------- */

type AppointmentStore struct {
	mu    sync.RWMutex
	byID  map[string]*model.Appointment
	users *UserStore
}

func (s *AppointmentStore) Create(_ context.Context, a *model.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = uuid.NewString()
	a.Date = a.Date.UTC()
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	s.byID[cp.ID] = &cp
	return nil
}

func (s *AppointmentStore) ListByUser(_ context.Context, userID string) ([]*model.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*model.Appointment{}
	for _, a := range s.byID {
		if a.UserID == userID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *AppointmentStore) ListAll(ctx context.Context) ([]*model.PopulatedAppointment, error) {
	s.mu.RLock()
	items := make([]model.Appointment, 0, len(s.byID))
	ids := make([]string, 0, len(s.byID))
	for _, a := range s.byID {
		items = append(items, *a)
		ids = append(ids, a.UserID)
	}
	s.mu.RUnlock()

	users, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })

	out := make([]*model.PopulatedAppointment, 0, len(items))
	for _, a := range items {
		pa := &model.PopulatedAppointment{Appointment: a}
		if u, ok := users[a.UserID]; ok {
			pa.User = &u
		}
		out = append(out, pa)
	}
	return out, nil
}

func (s *AppointmentStore) DeleteAll(context.Context) error {
	s.mu.Lock()
	s.byID = map[string]*model.Appointment{}
	s.mu.Unlock()
	return nil
}

var (
	_ repository.UserStore        = (*UserStore)(nil)
	_ repository.ProductStore     = (*ProductStore)(nil)
	_ repository.AppointmentStore = (*AppointmentStore)(nil)
)
