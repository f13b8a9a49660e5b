package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Product represents a single inventory item. It is the only persisted
// entity; every other view of the catalog is derived from it.
type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	Name     string  `json:"name" gorm:"not null"`
	Category string  `json:"category" gorm:"not null"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	// Supplier is optional; absence is always NULL, never an empty string.
	Supplier *string `json:"supplier,omitempty"`
	// MinStock is the low-stock alert threshold. Nil disables alerting
	// for this product.
	MinStock        *int  `json:"minStock,omitempty"`
	LastRestockDate *Date `json:"lastRestockDate,omitempty" gorm:"type:date"`

	// LowStock is derived on every read and never stored.
	LowStock bool `json:"lowStock" gorm:"-"`
}

// IsLowStock reports whether the product's stock has fallen below its
// configured minimum. Products without a threshold are never flagged.
func (p *Product) IsLowStock() bool {
	return p.MinStock != nil && p.Stock < *p.MinStock
}

// ProductInput is the create/update payload. Numeric fields are pointers so
// that an absent field can be told apart from an explicit zero.
type ProductInput struct {
	Name            string   `json:"name" validate:"required,notblank"`
	Category        string   `json:"category" validate:"required,notblank"`
	Price           *float64 `json:"price" validate:"required,gte=0"`
	Stock           *int     `json:"stock" validate:"required,gte=0"`
	Supplier        *string  `json:"supplier"`
	MinStock        *int     `json:"minStock" validate:"omitempty,gte=0"`
	LastRestockDate *Date    `json:"lastRestockDate"`
}

// Normalize trims string fields and collapses a blank supplier to nil so an
// empty string never reaches storage.
func (in *ProductInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Supplier != nil {
		s := strings.TrimSpace(*in.Supplier)
		if s == "" {
			in.Supplier = nil
		} else {
			in.Supplier = &s
		}
	}
}

// ToProduct builds a Product from the input. The caller is responsible for
// validating the input first.
func (in *ProductInput) ToProduct() Product {
	return Product{
		Name:            in.Name,
		Category:        in.Category,
		Price:           *in.Price,
		Stock:           *in.Stock,
		Supplier:        in.Supplier,
		MinStock:        in.MinStock,
		LastRestockDate: in.LastRestockDate,
	}
}

// NotBlank is a validator rule rejecting strings that are empty or contain
// only whitespace. Registered under the "notblank" tag.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
