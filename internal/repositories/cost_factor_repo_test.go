package repositories

import (
	"context"
	"testing"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type CostFactorRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    CostFactorRepository
	context context.Context
}

func (suite *CostFactorRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewCostFactorRepo(mock)
	suite.context = context.Background()
}

func (suite *CostFactorRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestCostFactorRepoTestSuite(t *testing.T) {
	suite.Run(t, new(CostFactorRepoTestSuite))
}

func (suite *CostFactorRepoTestSuite) TestCreate() {
	factor := &models.CostFactor{
		ID:         uuid.New(),
		SKU:        "WF-TS-001",
		FactorType: models.FactorTypeMaterials,
		Label:      "Blank shirt",
		Amount:     4.75,
	}

	suite.mock.ExpectExec(`INSERT INTO cost_factors`).
		WithArgs(factor.ID, factor.SKU, factor.FactorType, factor.Label, factor.Amount).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, factor)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CostFactorRepoTestSuite) TestListBySKU() {
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "sku", "factor_type", "label", "amount", "created_at"}).
		AddRow(uuid.New(), "WF-TS-001", models.FactorTypeMaterials, "Blank shirt", 4.75, now).
		AddRow(uuid.New(), "WF-TS-001", models.FactorTypeLabor, "Press time", 3.00, now)

	suite.mock.ExpectQuery(`SELECT (.+) FROM cost_factors WHERE sku = \$1 ORDER BY created_at, id`).
		WithArgs("WF-TS-001").
		WillReturnRows(rows)

	factors, err := suite.repo.ListBySKU(suite.context, "WF-TS-001")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), factors, 2)
	assert.Equal(suite.T(), "Press time", factors[1].Label)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CostFactorRepoTestSuite) TestUpdate() {
	factor := &models.CostFactor{ID: uuid.New(), Label: "Blank shirt bulk", Amount: 4.10}

	suite.mock.ExpectExec(`UPDATE cost_factors SET label = \$1, amount = \$2 WHERE id = \$3`).
		WithArgs(factor.Label, factor.Amount, factor.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Update(suite.context, factor)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CostFactorRepoTestSuite) TestDeleteAllForSKUReportsCount() {
	suite.mock.ExpectExec(`DELETE FROM cost_factors WHERE sku = \$1`).
		WithArgs("WF-TS-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	removed, err := suite.repo.DeleteAllForSKU(suite.context, "WF-TS-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), removed)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *CostFactorRepoTestSuite) TestAmounts() {
	rows := pgxmock.NewRows([]string{"amount"}).AddRow(4.75).AddRow(3.00).AddRow(0.40)

	suite.mock.ExpectQuery(`SELECT amount FROM cost_factors WHERE sku = \$1`).
		WithArgs("WF-TS-001").
		WillReturnRows(rows)

	amounts, err := suite.repo.Amounts(suite.context, "WF-TS-001")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), []float64{4.75, 3.00, 0.40}, amounts)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
