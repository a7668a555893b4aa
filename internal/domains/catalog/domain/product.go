package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyBarcode  = errors.New("product barcode is required")
	ErrEmptyName     = errors.New("product name is required")
	ErrNegativePrice = errors.New("product price must be zero or greater")
)

// Product is a catalog entry as seen by the engine: a read-only reference
// owned by the snapshot, never mutated in place.
type Product struct {
	ID       string
	Barcode  string
	Name     string
	Category string
	Price    float64
	Quantity int
}

// NewProduct validates the required fields and builds a Product value.
func NewProduct(id, barcode, name, category string, price float64, quantity int) (Product, error) {
	p := Product{
		ID:       id,
		Barcode:  strings.TrimSpace(barcode),
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Price:    price,
		Quantity: quantity,
	}
	if p.Barcode == "" {
		return Product{}, ErrEmptyBarcode
	}
	if p.Name == "" {
		return Product{}, ErrEmptyName
	}
	if p.Price < 0 {
		return Product{}, ErrNegativePrice
	}
	return p, nil
}

// InStock reports whether the snapshot believes at least one unit remains.
// Advisory only: the gateway is the authority on stock truth.
func (p Product) InStock() bool {
	return p.Quantity > 0
}
