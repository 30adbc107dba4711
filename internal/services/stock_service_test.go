package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type StockServiceTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	svc     StockService
	context context.Context
}

func (suite *StockServiceTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.svc = NewStockService(mock, noopCache{})
	suite.context = context.Background()
}

func (suite *StockServiceTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestStockServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StockServiceTestSuite))
}

func (suite *StockServiceTestSuite) expectItemLock(sku string) {
	suite.mock.ExpectExec(`SELECT 1 FROM items WHERE sku = \$1 FOR UPDATE`).
		WithArgs(sku).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func (suite *StockServiceTestSuite) TestSyncColorStockWithSizes() {
	colorID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT item_sku FROM item_colors WHERE id = \$1`).
		WithArgs(colorID).
		WillReturnRows(pgxmock.NewRows([]string{"item_sku"}).AddRow("WF-TS-001"))
	suite.expectItemLock("WF-TS-001")
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE color_id = \$1 AND is_active = TRUE`).
		WithArgs(colorID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(14))
	suite.mock.ExpectExec(`UPDATE item_colors SET stock_level = \$1 WHERE id = \$2`).
		WithArgs(14, colorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	total, err := suite.svc.SyncColorStockWithSizes(suite.context, colorID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 14, total)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestSyncTotalStockWithColors() {
	suite.mock.ExpectBegin()
	suite.expectItemLock("WF-TS-001")
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_colors\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-TS-001").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(30))
	suite.mock.ExpectExec(`UPDATE items SET stock_quantity = \$1, updated_at = NOW\(\) WHERE sku = \$2`).
		WithArgs(30, "WF-TS-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	total, err := suite.svc.SyncTotalStockWithColors(suite.context, "WF-TS-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 30, total)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestReduceStockForSaleFlatItem() {
	suite.mock.ExpectBegin()
	suite.expectItemLock("WF-AR-001")
	suite.mock.ExpectExec(`UPDATE items\s+SET stock_quantity = GREATEST\(stock_quantity - \$1, 0\), updated_at = NOW\(\)\s+WHERE sku = \$2`).
		WithArgs(2, "WF-AR-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.svc.ReduceStockForSale(suite.context, "WF-AR-001", 2, "", "")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestReduceStockForSaleSizeAndColor() {
	colorID := uuid.New()

	suite.mock.ExpectBegin()
	suite.expectItemLock("WF-TS-001")
	suite.mock.ExpectQuery(`SELECT id FROM item_colors\s+WHERE item_sku = \$1 AND color_name = \$2 AND is_active = TRUE`).
		WithArgs("WF-TS-001", "Green").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(colorID))
	suite.mock.ExpectExec(`UPDATE item_sizes\s+SET stock_level = GREATEST\(stock_level - \$1, 0\)\s+WHERE item_sku = \$2 AND size_code = \$3 AND color_id = \$4 AND is_active = TRUE`).
		WithArgs(1, "WF-TS-001", "M", colorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// Size matched, so colors and the item total resync from the size rows.
	suite.mock.ExpectQuery(`SELECT DISTINCT color_id\s+FROM item_sizes\s+WHERE item_sku = \$1 AND color_id IS NOT NULL`).
		WithArgs("WF-TS-001").
		WillReturnRows(pgxmock.NewRows([]string{"color_id"}).AddRow(colorID))
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE color_id = \$1 AND is_active = TRUE`).
		WithArgs(colorID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(9))
	suite.mock.ExpectExec(`UPDATE item_colors SET stock_level = \$1 WHERE id = \$2`).
		WithArgs(9, colorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-TS-001").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(9))
	suite.mock.ExpectExec(`UPDATE items SET stock_quantity = \$1, updated_at = NOW\(\) WHERE sku = \$2`).
		WithArgs(9, "WF-TS-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.svc.ReduceStockForSale(suite.context, "WF-TS-001", 1, "Green", "M")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestReduceStockForSaleFallsThroughToColor() {
	colorID := uuid.New()

	suite.mock.ExpectBegin()
	suite.expectItemLock("WF-TS-001")
	suite.mock.ExpectQuery(`SELECT id FROM item_colors\s+WHERE item_sku = \$1 AND color_name = \$2 AND is_active = TRUE`).
		WithArgs("WF-TS-001", "Green").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(colorID))

	// No size row matches, so the size decrement touches nothing.
	suite.mock.ExpectExec(`UPDATE item_sizes\s+SET stock_level = GREATEST\(stock_level - \$1, 0\)\s+WHERE item_sku = \$2 AND size_code = \$3 AND color_id = \$4 AND is_active = TRUE`).
		WithArgs(1, "WF-TS-001", "XXL", colorID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// Fall through to the color level.
	suite.mock.ExpectExec(`UPDATE item_colors\s+SET stock_level = GREATEST\(stock_level - \$1, 0\)\s+WHERE item_sku = \$2 AND color_name = \$3 AND is_active = TRUE`).
		WithArgs(1, "WF-TS-001", "Green").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_colors\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-TS-001").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(4))
	suite.mock.ExpectExec(`UPDATE items SET stock_quantity = \$1, updated_at = NOW\(\) WHERE sku = \$2`).
		WithArgs(4, "WF-TS-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	err := suite.svc.ReduceStockForSale(suite.context, "WF-TS-001", 1, "Green", "XXL")
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestReduceStockForSaleRejectsNonPositiveQuantity() {
	err := suite.svc.ReduceStockForSale(suite.context, "WF-TS-001", 0, "", "")
	assert.Error(suite.T(), err)
}

func (suite *StockServiceTestSuite) TestGetStockLevelPrefersSizeAggregate() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-TS-001").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(7))

	level, err := suite.svc.GetStockLevel(suite.context, "WF-TS-001", "", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 7, level)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestGetStockLevelFlatFallback() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-AR-001").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(0))
	suite.mock.ExpectQuery(`SELECT stock_quantity FROM items WHERE sku = \$1`).
		WithArgs("WF-AR-001").
		WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}).AddRow(12))

	level, err := suite.svc.GetStockLevel(suite.context, "WF-AR-001", "", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 12, level)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestGetStockLevelSizeWithColor() {
	suite.mock.ExpectQuery(`SELECT s\.stock_level\s+FROM item_sizes s\s+JOIN item_colors c ON s\.color_id = c\.id`).
		WithArgs("WF-TS-001", "Green", "M").
		WillReturnRows(pgxmock.NewRows([]string{"stock_level"}).AddRow(3))

	level, err := suite.svc.GetStockLevel(suite.context, "WF-TS-001", "Green", "M")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, level)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *StockServiceTestSuite) TestGetStockLevelUnknownItemIsZero() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(stock_level\), 0\)\s+FROM item_sizes\s+WHERE item_sku = \$1 AND is_active = TRUE`).
		WithArgs("WF-XX-999").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(0))
	suite.mock.ExpectQuery(`SELECT stock_quantity FROM items WHERE sku = \$1`).
		WithArgs("WF-XX-999").
		WillReturnRows(pgxmock.NewRows([]string{"stock_quantity"}))

	level, err := suite.svc.GetStockLevel(suite.context, "WF-XX-999", "", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, level)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
