package model

import (
	"fmt"
	"math"
	"time"
)

// Category is the fixed product classification used by the sales and spare
// parts pages.
type Category string

const (
	CategoryERickshaw Category = "E-Rickshaw"
	CategorySparePart Category = "Spare Part"
	CategoryAccessory Category = "Accessory"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryERickshaw, CategorySparePart, CategoryAccessory:
		return true
	}
	return false
}

// Spec is one technical key/value line of a product (e.g. Battery: 48V).
type Spec struct {
	Key   string `json:"key" bson:"key" yaml:"key"`
	Value string `json:"value" bson:"value" yaml:"value"`
}

// Product is a catalog entry.  UserID points at the administrator who
// created it and carries no access-control meaning.
type Product struct {
	ID           string    `json:"_id" bson:"_id"`
	UserID       string    `json:"user" bson:"user"`
	Name         string    `json:"name" bson:"name"`
	Image        string    `json:"image" bson:"image"`
	Category     Category  `json:"category" bson:"category"`
	Description  string    `json:"description" bson:"description"`
	Price        float64   `json:"price" bson:"price"`
	CountInStock int       `json:"countInStock" bson:"countInStock"`
	Specs        []Spec    `json:"specs" bson:"specs"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RoundPrice rounds v to whole cents, the precision prices are stored with.
func RoundPrice(v float64) float64 { return math.Round(v*100) / 100 }

// Validate checks the invariants every stored product must hold.
func (p *Product) Validate() error {
	if !p.Category.Valid() {
		return fmt.Errorf("invalid category: %q", p.Category)
	}
	if p.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if p.CountInStock < 0 {
		return fmt.Errorf("countInStock must not be negative")
	}
	return nil
}
