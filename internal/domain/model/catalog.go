package model

import (
	"math"

	"service-sales-platform/internal/domain"
)

// Package is a purchasable service package from the catalog.
type Package struct {
	ID           string
	Name         string
	Plan         Plan
	OneTimePrice float64
	Currency     string
}

// Catalog is the package catalog, built once from configuration and injected
// into the use cases. It is immutable after construction.
type Catalog struct {
	currency   string
	contactFee float64
	byID       map[string]Package
	byPlan     map[Plan]Package
}

const defaultContactFee = 5

// NewCatalog builds a catalog from configured packages. contactFee falls back
// to the default when non-positive or non-finite.
func NewCatalog(currency string, contactFee float64, packages []Package) *Catalog {
	if contactFee <= 0 || math.IsNaN(contactFee) || math.IsInf(contactFee, 0) {
		contactFee = defaultContactFee
	}
	c := &Catalog{
		currency:   currency,
		contactFee: contactFee,
		byID:       make(map[string]Package, len(packages)),
		byPlan:     make(map[Plan]Package, len(packages)),
	}
	for _, p := range packages {
		if p.Currency == "" {
			p.Currency = currency
		}
		c.byID[p.ID] = p
		c.byPlan[p.Plan] = p
	}
	return c
}

func (c *Catalog) Currency() string    { return c.currency }
func (c *Catalog) ContactFee() float64 { return c.contactFee }

// PackageByID resolves a package by catalog id.
func (c *Catalog) PackageByID(id string) (Package, error) {
	p, ok := c.byID[id]
	if !ok {
		return Package{}, domain.ErrInvalidPackage
	}
	return p, nil
}

// PackageForPlan resolves the package sold under a canonical plan.
func (c *Catalog) PackageForPlan(plan Plan) (Package, error) {
	p, ok := c.byPlan[plan]
	if !ok {
		return Package{}, domain.ErrInvalidPackage
	}
	return p, nil
}

// Packages returns all packages (order unspecified).
func (c *Catalog) Packages() []Package {
	out := make([]Package, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	return out
}
