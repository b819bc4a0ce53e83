package model

import "time"

// Product is a storefront catalog item.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       float64
	ImageURL    string
	InStock     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups storefront products.
type Category struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}
