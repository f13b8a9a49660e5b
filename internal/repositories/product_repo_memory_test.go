package repositories_test

import (
	"testing"

	"akiba/internal/models"
	"akiba/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRepoCRUD(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()

	product := models.Product{Name: "Figura Sailor Moon", Category: "Figure", Price: 45, Stock: 8}
	assert.NoError(t, repo.Create(&product))
	assert.Equal(t, uint(1), product.ID)

	second := models.Product{Name: "Manga Naruto Vol. 3", Category: "Manga", Price: 7.5, Stock: 30}
	assert.NoError(t, repo.Create(&second))
	assert.Equal(t, uint(2), second.ID)

	fetched, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Figura Sailor Moon", fetched.Name)

	fetched.Stock = 12
	assert.NoError(t, repo.Update(fetched))
	refetched, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, 12, refetched.Stock)

	all, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	assert.NoError(t, repo.Delete(product.ID))
	_, err = repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestMemoryRepoNotFound(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()

	_, err := repo.GetByID(99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = repo.Update(&models.Product{ID: 99, Name: "Ghost", Category: "Other"})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	err = repo.Delete(99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestMemoryRepoSearch(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	seed := []models.Product{
		{Name: "Figura Son Goku", Category: "Figure", Price: 59.99, Stock: 25},
		{Name: "Manga One Piece", Category: "Manga", Price: 8.5, Stock: 60},
		{Name: "Goku Poster", Category: "Poster", Price: 12, Stock: 5},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	// Empty term returns everything.
	all, err := repo.Search("")
	assert.NoError(t, err)
	assert.Len(t, all, 3)

	// Matches name OR category, case-insensitively.
	results, err := repo.Search("GOKU")
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = repo.Search("manga")
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Manga One Piece", results[0].Name)

	results, err = repo.Search("zzz")
	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryRepoDistinctSuppliers(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	seed := []models.Product{
		{Name: "A", Category: "Figure", Supplier: strPtr("Bandai Spirits")},
		{Name: "B", Category: "Figure", Supplier: strPtr("Bandai Spirits")},
		{Name: "C", Category: "Manga", Supplier: strPtr("bandai spirits")}, // distinct by exact case
		{Name: "D", Category: "Poster"},                                   // no supplier
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	suppliers, err := repo.DistinctSuppliers()
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"Bandai Spirits", "bandai spirits"}, suppliers)
	assert.NotContains(t, suppliers, "")
}

func TestMemoryRepoFilterDelegatesToMatches(t *testing.T) {
	repo := repositories.NewMemoryProductRepository()
	seed := []models.Product{
		{Name: "Figura Son Goku", Category: "Figure", Price: 59.99, Stock: 25},
		{Name: "Manga One Piece", Category: "Manga", Price: 8.5, Stock: 60},
	}
	for i := range seed {
		assert.NoError(t, repo.Create(&seed[i]))
	}

	// Empty filter is the full scan.
	all, err := repo.Filter(repositories.ProductFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	results, err := repo.Filter(repositories.ProductFilter{MinStock: intPtr(30)})
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Manga One Piece", results[0].Name)

	// Inverted range matches nothing.
	results, err = repo.Filter(repositories.ProductFilter{MinStock: intPtr(50), MaxStock: intPtr(10)})
	assert.NoError(t, err)
	assert.Empty(t, results)
}
