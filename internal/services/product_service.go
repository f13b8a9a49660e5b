package services

import (
	"log"
	"time"

	"akiba/internal/models"
	"akiba/internal/repositories"
	"akiba/pkg/rabbitmq"
)

// EventPublisher publishes inventory events. The RabbitMQ client satisfies
// it; a nil publisher disables events entirely.
type EventPublisher interface {
	PublishInventoryEvent(event rabbitmq.InventoryEvent) error
}

// ProductService handles business logic related to products: defaulting
// rules on create, the restock heuristic on update, and the low-stock flag
// on every read.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil, in
// which case no inventory events are published.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// ListProducts returns all products, or those whose name or category
// contains the search term when it is non-empty.
func (s *ProductService) ListProducts(search string) ([]models.Product, error) {
	products, err := s.repo.Search(search)
	if err != nil {
		return nil, err
	}
	flagLowStock(products)
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	product.LowStock = product.IsLowStock()
	return product, nil
}

// CreateProduct persists a new product. When the payload carries no restock
// date, today's date is stamped on it. The input must already be validated.
func (s *ProductService) CreateProduct(input *models.ProductInput) (*models.Product, error) {
	input.Normalize()

	product := input.ToProduct()
	if product.LastRestockDate == nil {
		today := models.Today()
		product.LastRestockDate = &today
	}

	if err := s.repo.Create(&product); err != nil {
		return nil, err
	}

	product.LowStock = product.IsLowStock()
	if product.LowStock {
		s.publish(rabbitmq.EventLowStock, &product)
	}
	return &product, nil
}

// UpdateProduct replaces every mutable field of an existing product.
//
// The restock date follows the original heuristic: a stock increase is taken
// as a restock and stamps today's date, even over an explicit date in the
// same payload; otherwise an explicit date is honored, and when neither
// applies the stored date is kept.
func (s *ProductService) UpdateProduct(id uint, input *models.ProductInput) (*models.Product, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	input.Normalize()
	oldStock := existing.Stock

	existing.Name = input.Name
	existing.Category = input.Category
	existing.Price = *input.Price
	existing.Stock = *input.Stock
	existing.Supplier = input.Supplier
	existing.MinStock = input.MinStock

	restocked := *input.Stock > oldStock
	if restocked {
		today := models.Today()
		existing.LastRestockDate = &today
	} else if input.LastRestockDate != nil {
		existing.LastRestockDate = input.LastRestockDate
	}

	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}

	if restocked {
		s.publish(rabbitmq.EventRestocked, existing)
	}
	existing.LowStock = existing.IsLowStock()
	if existing.LowStock {
		s.publish(rabbitmq.EventLowStock, existing)
	}
	return existing, nil
}

// DeleteProduct removes a product permanently. The repository reports
// ErrProductNotFound when no such row exists, so a missing product is never
// confused with a successful delete.
func (s *ProductService) DeleteProduct(id uint) error {
	return s.repo.Delete(id)
}

// Report returns all products matching the conjunction of the filter's set
// fields. An empty filter is equivalent to a full listing.
func (s *ProductService) Report(filter repositories.ProductFilter) ([]models.Product, error) {
	products, err := s.repo.Filter(filter)
	if err != nil {
		return nil, err
	}
	flagLowStock(products)
	return products, nil
}

// ListSuppliers returns the distinct supplier values across the catalog.
func (s *ProductService) ListSuppliers() ([]string, error) {
	return s.repo.DistinctSuppliers()
}

// publish sends an inventory event, logging rather than failing the request
// when the broker is unreachable.
func (s *ProductService) publish(eventType string, p *models.Product) {
	if s.events == nil {
		return
	}
	event := rabbitmq.InventoryEvent{
		Type:       eventType,
		ProductID:  p.ID,
		Name:       p.Name,
		Stock:      p.Stock,
		MinStock:   p.MinStock,
		OccurredAt: time.Now(),
	}
	if err := s.events.PublishInventoryEvent(event); err != nil {
		log.Printf("Failed to publish %s event for product %d: %v", eventType, p.ID, err)
	}
}

// flagLowStock recomputes the derived low-stock flag for every product in
// the slice.
func flagLowStock(products []models.Product) {
	for i := range products {
		products[i].LowStock = products[i].IsLowStock()
	}
}
