package repositories

import (
	"errors"

	"akiba/internal/models"
)

// ErrProductNotFound signals that no product row exists for the given ID.
// All other repository errors are storage failures and are surfaced to the
// caller unwrapped.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error

	// Search returns products whose name or category contains term,
	// case-insensitively. An empty term returns everything.
	Search(term string) ([]models.Product, error)
	// Filter returns products matching every clause of the filter.
	Filter(filter ProductFilter) ([]models.Product, error)
	// DistinctSuppliers returns all non-null, non-empty supplier values,
	// de-duplicated with exact case preserved.
	DistinctSuppliers() ([]string, error)
}
