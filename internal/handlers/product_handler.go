package handlers

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strconv"
	"strings"

	"akiba/internal/models"
	"akiba/internal/repositories"
	"akiba/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	v := validator.New()
	if err := v.RegisterValidation("notblank", models.NotBlank); err != nil {
		log.Fatalf("Failed to register notblank validation: %v", err)
	}
	// Key validation errors by the JSON field name clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &ProductHandler{
		service:  service,
		validate: v,
	}
}

// RegisterRoutes registers the product routes with the Fiber app. The
// static /suppliers and /report routes are registered before /:id so they
// are not captured by the ID parameter.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/suppliers", h.HandleListSuppliers)
	productRoutes.Get("/report", h.HandleReport)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts lists all products, optionally narrowed by a free-text
// search over name and category.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(strings.TrimSpace(c.Query("search")))
	if err != nil {
		log.Printf("Error listing products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.invalidID(c)
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.notFound(c, id)
		}
		log.Printf("Error getting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve product",
		})
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if errs := h.validateInput(&input); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	product, err := h.service.CreateProduct(&input)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct fully replaces the mutable fields of an existing
// product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.invalidID(c)
	}

	var input models.ProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if errs := h.validateInput(&input); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errs,
		})
	}

	product, err := h.service.UpdateProduct(id, &input)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.notFound(c, id)
		}
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update product",
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct permanently removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := h.parseID(c)
	if !ok {
		return h.invalidID(c)
	}

	if err := h.service.DeleteProduct(id); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return h.notFound(c, id)
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete product",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListSuppliers returns the distinct supplier values.
func (h *ProductHandler) HandleListSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers()
	if err != nil {
		log.Printf("Error listing suppliers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve suppliers",
		})
	}
	if suppliers == nil {
		suppliers = []string{}
	}
	return c.JSON(suppliers)
}

// HandleReport runs the filterable report. Every query parameter is
// optional; malformed values are rejected with a field-keyed error map.
func (h *ProductHandler) HandleReport(c *fiber.Ctx) error {
	var filter repositories.ProductFilter
	errs := make(map[string]string)

	if s := c.Query("category"); s != "" {
		filter.Category = &s
	}
	filter.MinStock = parseIntParam(c, "minStock", errs)
	filter.MaxStock = parseIntParam(c, "maxStock", errs)
	filter.MinPrice = parseFloatParam(c, "minPrice", errs)
	filter.MaxPrice = parseFloatParam(c, "maxPrice", errs)
	filter.StartDate = parseDateParam(c, "startDate", errs)
	filter.EndDate = parseDateParam(c, "endDate", errs)
	if s := c.Query("supplier"); s != "" {
		filter.Supplier = &s
	}
	if s := c.Query("productName"); s != "" {
		filter.ProductName = &s
	}

	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid report parameters",
			"errors":  errs,
		})
	}

	products, err := h.service.Report(filter)
	if err != nil {
		log.Printf("Error generating report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not generate report",
		})
	}
	if products == nil {
		products = []models.Product{}
	}
	return c.JSON(products)
}

// validateInput runs struct validation and collects every violation into a
// field→message map, not just the first.
func (h *ProductHandler) validateInput(input *models.ProductInput) map[string]string {
	err := h.validate.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"_": err.Error()}
	}

	messages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		messages[e.Field()] = validationMessage(e)
	}
	return messages
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}

func (h *ProductHandler) parseID(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHandler) invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Product ID must be a positive integer",
	})
}

func (h *ProductHandler) notFound(c *fiber.Ctx, id uint) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"message": fmt.Sprintf("Product with ID %d not found", id),
	})
}

func parseIntParam(c *fiber.Ctx, name string, errs map[string]string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs[name] = "must be an integer"
		return nil
	}
	return &n
}

func parseFloatParam(c *fiber.Ctx, name string, errs map[string]string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs[name] = "must be a number"
		return nil
	}
	return &f
}

func parseDateParam(c *fiber.Ctx, name string, errs map[string]string) *models.Date {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		errs[name] = "must be a date in YYYY-MM-DD format"
		return nil
	}
	return &d
}
