package repositories

import (
	"context"
	"testing"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ItemRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    ItemRepository
	context context.Context
}

func (suite *ItemRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewItemRepo(mock)
	suite.context = context.Background()
}

func (suite *ItemRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestItemRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ItemRepoTestSuite))
}

func itemRow(item *models.Item) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"sku", "name", "category", "description", "cost_price", "retail_price",
		"stock_quantity", "reorder_point", "status", "is_archived", "archived_at",
		"archived_by", "image_url", "created_at", "updated_at",
	}).AddRow(item.SKU, item.Name, item.Category, item.Description, item.CostPrice,
		item.RetailPrice, item.StockQuantity, item.ReorderPoint, item.Status,
		item.IsArchived, item.ArchivedAt, item.ArchivedBy, item.ImageURL,
		item.CreatedAt, item.UpdatedAt)
}

func (suite *ItemRepoTestSuite) TestCreate() {
	desc := "Hand-pressed heavyweight tee"
	item := &models.Item{
		SKU:           "WF-TS-001",
		Name:          "Frog Logo Tee",
		Category:      "T-Shirts",
		Description:   &desc,
		CostPrice:     8.25,
		RetailPrice:   24.99,
		StockQuantity: 40,
		ReorderPoint:  10,
		Status:        models.ItemStatusActive,
	}

	suite.mock.ExpectExec(`INSERT INTO items`).
		WithArgs(item.SKU, item.Name, item.Category, item.Description,
			item.CostPrice, item.RetailPrice, item.StockQuantity, item.ReorderPoint,
			item.Status, item.ImageURL).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, item)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestGetBySKU() {
	now := time.Now()
	want := &models.Item{
		SKU: "WF-TU-003", Name: "Lily Pad Tumbler", Category: "Tumblers",
		RetailPrice: 18.50, StockQuantity: 12, ReorderPoint: 5,
		Status: models.ItemStatusActive, CreatedAt: now, UpdatedAt: now,
	}

	suite.mock.ExpectQuery(`SELECT (.+) FROM items WHERE sku = \$1`).
		WithArgs("WF-TU-003").
		WillReturnRows(itemRow(want))

	item, err := suite.repo.GetBySKU(suite.context, "WF-TU-003")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Lily Pad Tumbler", item.Name)
	assert.Equal(suite.T(), 12, item.StockQuantity)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestGetBySKUNotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM items WHERE sku = \$1`).
		WithArgs("WF-XX-999").
		WillReturnError(pgx.ErrNoRows)

	item, err := suite.repo.GetBySKU(suite.context, "WF-XX-999")
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.Nil(suite.T(), item)
}

func (suite *ItemRepoTestSuite) TestUpdateField() {
	suite.mock.ExpectExec(`UPDATE items SET reorder_point = \$1, updated_at = NOW\(\) WHERE sku = \$2`).
		WithArgs(15, "WF-TS-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateField(suite.context, "WF-TS-001", "reorder_point", 15)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestArchiveAndRestore() {
	suite.mock.ExpectExec(`UPDATE items\s+SET is_archived = TRUE`).
		WithArgs(models.ItemStatusArchived, pgxmock.AnyArg(), (*uuid.UUID)(nil), "WF-AR-002").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectExec(`UPDATE items\s+SET is_archived = FALSE`).
		WithArgs(models.ItemStatusActive, "WF-AR-002").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.Archive(suite.context, "WF-AR-002", nil))
	assert.NoError(suite.T(), suite.repo.Restore(suite.context, "WF-AR-002"))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestLastSKUForPrefix() {
	suite.mock.ExpectQuery(`SELECT sku FROM items WHERE sku LIKE \$1 ORDER BY sku DESC LIMIT 1`).
		WithArgs("WF-TS-%").
		WillReturnRows(pgxmock.NewRows([]string{"sku"}).AddRow("WF-TS-012"))

	sku, err := suite.repo.LastSKUForPrefix(suite.context, "WF-TS-")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "WF-TS-012", sku)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestAdvancedSearchBuildsFilters() {
	now := time.Now()
	category := "Tumblers"
	minStock := 1
	want := &models.Item{
		SKU: "WF-TU-001", Name: "Pond Tumbler", Category: category,
		StockQuantity: 8, Status: models.ItemStatusActive, CreatedAt: now, UpdatedAt: now,
	}

	suite.mock.ExpectQuery(`SELECT (.+) FROM items WHERE 1=1 AND is_archived = FALSE AND \(name ILIKE \$1 OR description ILIKE \$1 OR sku ILIKE \$1\) AND category = \$2 AND stock_quantity >= \$3 ORDER BY name ASC LIMIT \$4`).
		WithArgs("%pond%", category, minStock, 50).
		WillReturnRows(itemRow(want))

	items, err := suite.repo.AdvancedSearch(suite.context, &models.ItemSearchFilter{
		Query:    "pond",
		Category: &category,
		MinStock: &minStock,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), "WF-TU-001", items[0].SKU)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ItemRepoTestSuite) TestListBelowReorder() {
	now := time.Now()
	low := &models.Item{
		SKU: "WF-SU-004", Name: "Mug Press Blank", Category: "Sublimation",
		StockQuantity: 2, ReorderPoint: 6, Status: models.ItemStatusActive,
		CreatedAt: now, UpdatedAt: now,
	}

	suite.mock.ExpectQuery(`FROM items\s+WHERE is_archived = FALSE AND stock_quantity <= reorder_point`).
		WillReturnRows(itemRow(low))

	items, err := suite.repo.ListBelowReorder(suite.context)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), "WF-SU-004", items[0].SKU)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
