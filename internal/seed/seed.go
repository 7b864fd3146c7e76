// Package seed loads the embedded development data set into the stores.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/iliyamo/autopro/internal/model"
	"github.com/iliyamo/autopro/internal/repository"
	"github.com/iliyamo/autopro/internal/utils"
)

//go:embed data.yaml
var defaultData []byte

type seedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
	IsAdmin  bool   `yaml:"isAdmin"`
}

type seedProduct struct {
	Name         string       `yaml:"name"`
	Image        string       `yaml:"image"`
	Description  string       `yaml:"description"`
	Category     string       `yaml:"category"`
	Price        float64      `yaml:"price"`
	CountInStock int          `yaml:"countInStock"`
	Specs        []model.Spec `yaml:"specs"`
}

// Data is a parsed seed file.
type Data struct {
	Users    []seedUser    `yaml:"users"`
	Products []seedProduct `yaml:"products"`
}

// Default returns the embedded data set.
func Default() (*Data, error) { return Parse(defaultData) }

// Parse decodes and checks a seed file.  The first user owns every
// product, so it must exist and be an admin.
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	if len(d.Users) == 0 || !d.Users[0].IsAdmin {
		return nil, fmt.Errorf("seed data: first user must be an admin")
	}
	for i, p := range d.Products {
		prod := p.toModel("")
		if err := prod.Validate(); err != nil {
			return nil, fmt.Errorf("seed product %d (%s): %w", i, p.Name, err)
		}
	}
	return &d, nil
}

func (p seedProduct) toModel(owner string) model.Product {
	specs := p.Specs
	if specs == nil {
		specs = []model.Spec{}
	}
	return model.Product{
		UserID:       owner,
		Name:         p.Name,
		Image:        p.Image,
		Category:     model.Category(p.Category),
		Description:  p.Description,
		Price:        model.RoundPrice(p.Price),
		CountInStock: p.CountInStock,
		Specs:        specs,
	}
}

// Destroy removes all appointments, products and users, in that order.
func Destroy(ctx context.Context, st repository.Stores) error {
	if err := st.Appointments.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete appointments: %w", err)
	}
	if err := st.Products.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete products: %w", err)
	}
	if err := st.Users.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

// Import replaces the store contents with d.  Passwords are hashed with
// bcryptCost.
func Import(ctx context.Context, st repository.Stores, d *Data, bcryptCost int) error {
	if err := Destroy(ctx, st); err != nil {
		return err
	}

	var owner string
	for i, su := range d.Users {
		hash, err := utils.HashPassword(su.Password, bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", su.Email, err)
		}
		u := &model.User{
			Name:         su.Name,
			Email:        su.Email,
			Phone:        su.Phone,
			PasswordHash: hash,
			IsAdmin:      su.IsAdmin,
		}
		if err := st.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", su.Email, err)
		}
		if i == 0 {
			owner = u.ID
		}
	}

	for _, sp := range d.Products {
		p := sp.toModel(owner)
		if err := st.Products.Create(ctx, &p); err != nil {
			return fmt.Errorf("create product %s: %w", sp.Name, err)
		}
	}
	zap.L().Info("seed data imported", zap.Int("users", len(d.Users)), zap.Int("products", len(d.Products)))
	return nil
}
