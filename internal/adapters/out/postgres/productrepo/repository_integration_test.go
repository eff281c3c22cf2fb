package productrepo_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"marketplace/internal/adapters/out/postgres/productrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

type ProductInventoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	inventory *productrepo.GormProductInventory
}

func (s *ProductInventoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	s.Require().NoError(err)
	s.db = db

	s.Require().NoError(db.AutoMigrate(&productrepo.ProductDTO{}))

	s.inventory = productrepo.NewGormProductInventory(db)
}

func (s *ProductInventoryTestSuite) TearDownSuite() {
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *ProductInventoryTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM products").Error)
}

func (s *ProductInventoryTestSuite) seedProduct(stock int, available bool) kernel.UUID {
	id := kernel.NewUUID()
	s.Require().NoError(s.db.Create(&productrepo.ProductDTO{
		ID:        id.Raw(),
		VendorID:  kernel.NewUUID().Raw(),
		Name:      "Shashlik",
		Price:     28000,
		Stock:     stock,
		Available: available,
	}).Error)
	return id
}

func (s *ProductInventoryTestSuite) stockOf(id kernel.UUID) int {
	var dto productrepo.ProductDTO
	s.Require().NoError(s.db.First(&dto, "id = ?", id.Raw()).Error)
	return dto.Stock
}

func (s *ProductInventoryTestSuite) TestGetReturnsSnapshot() {
	id := s.seedProduct(5, true)

	snapshot, err := s.inventory.Get(context.Background(), id)
	s.Require().NoError(err)

	s.True(snapshot.ID.IsEqual(id))
	s.Equal("Shashlik", snapshot.Name)
	s.Equal(kernel.Money(28000), snapshot.Price)
	s.True(snapshot.Available)
}

func (s *ProductInventoryTestSuite) TestGetNotFound() {
	_, err := s.inventory.Get(context.Background(), kernel.NewUUID())
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func (s *ProductInventoryTestSuite) TestReserveDecrementsStock() {
	id := s.seedProduct(5, true)

	s.Require().NoError(s.inventory.Reserve(context.Background(), id, 2))

	s.Equal(3, s.stockOf(id))
}

func (s *ProductInventoryTestSuite) TestReserveInsufficientStockConflicts() {
	id := s.seedProduct(1, true)

	err := s.inventory.Reserve(context.Background(), id, 2)
	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrConflict)
	s.Equal(1, s.stockOf(id))
}

func (s *ProductInventoryTestSuite) TestReserveUnavailableProductConflicts() {
	id := s.seedProduct(5, false)

	err := s.inventory.Reserve(context.Background(), id, 1)
	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrConflict)
	s.Equal(5, s.stockOf(id))
}

func (s *ProductInventoryTestSuite) TestReserveRejectsNonPositiveQuantity() {
	id := s.seedProduct(5, true)

	err := s.inventory.Reserve(context.Background(), id, 0)
	s.Require().Error(err)
	s.ErrorIs(err, errs.ErrValueIsInvalid)
}

func (s *ProductInventoryTestSuite) TestConcurrentReservesOfLastUnit() {
	// Two buyers race for the last unit. The conditional decrement runs as
	// a single statement, so exactly one reservation lands and stock never
	// goes negative.
	id := s.seedProduct(1, true)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			results[slot] = s.inventory.Reserve(context.Background(), id, 1)
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range results {
		if err == nil {
			won++
			continue
		}
		s.ErrorIs(err, errs.ErrConflict)
		lost++
	}
	s.Equal(1, won)
	s.Equal(1, lost)
	s.Equal(0, s.stockOf(id))
}

func (s *ProductInventoryTestSuite) TestRestockIncrementsStock() {
	id := s.seedProduct(2, true)

	s.Require().NoError(s.inventory.Restock(context.Background(), id, 3))

	s.Equal(5, s.stockOf(id))
}

func (s *ProductInventoryTestSuite) TestRestockUnknownProductNotFound() {
	err := s.inventory.Restock(context.Background(), kernel.NewUUID(), 1)
	s.ErrorIs(err, errs.ErrObjectNotFound)
}

func TestProductInventoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProductInventoryTestSuite))
}
