package repositories

import (
	"errors"
	"fmt"
	"strings"

	"akiba/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product; the database assigns its ID.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an existing product row.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Save(product) // Save writes all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		// Save does not return ErrRecordNotFound for a missing row,
		// so the affected-row count is the existence check.
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product row permanently.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Search finds products whose name or category contains the term,
// case-insensitively. An empty term matches everything.
func (r *GORMProductRepository) Search(term string) ([]models.Product, error) {
	if term == "" {
		return r.GetAll()
	}
	pattern := "%" + strings.ToLower(term) + "%"
	var products []models.Product
	err := r.db.
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// Filter translates the filter into a conjunctive SQL query, one WHERE
// clause per set field. LOWER() is applied on both sides of string
// comparisons so behavior does not depend on the database's collation.
func (r *GORMProductRepository) Filter(filter ProductFilter) ([]models.Product, error) {
	q := r.db.Model(&models.Product{})

	if filter.Category != nil {
		q = q.Where("LOWER(category) = ?", strings.ToLower(*filter.Category))
	}
	if filter.MinStock != nil {
		q = q.Where("stock >= ?", *filter.MinStock)
	}
	if filter.MaxStock != nil {
		q = q.Where("stock <= ?", *filter.MaxStock)
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.StartDate != nil {
		q = q.Where("last_restock_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("last_restock_date <= ?", *filter.EndDate)
	}
	if filter.Supplier != nil {
		q = q.Where("supplier IS NOT NULL AND LOWER(supplier) LIKE ?",
			"%"+strings.ToLower(*filter.Supplier)+"%")
	}
	if filter.ProductName != nil {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(*filter.ProductName)+"%")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	return products, nil
}

// DistinctSuppliers returns every distinct supplier value, skipping NULLs
// and empty strings. Case is preserved exactly as stored.
func (r *GORMProductRepository) DistinctSuppliers() ([]string, error) {
	var suppliers []string
	err := r.db.Model(&models.Product{}).
		Where("supplier IS NOT NULL AND supplier <> ''").
		Distinct().
		Pluck("supplier", &suppliers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}
