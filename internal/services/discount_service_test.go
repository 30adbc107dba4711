package services

import (
	"context"
	"testing"
	"time"

	"whimsicalfrog/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestValidateAndComputePercent(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	svc := NewDiscountService(repo)

	repo.On("GetByCode", mock.Anything, "FROG10").Return(&models.DiscountCode{
		Code: "FROG10", Kind: models.DiscountKindPercent, Value: 10, IsActive: true,
	}, nil)

	code, amount, err := svc.ValidateAndCompute(context.Background(), "FROG10", 45.50)
	require.NoError(t, err)
	assert.Equal(t, "FROG10", code.Code)
	assert.Equal(t, 4.55, amount)
}

func TestValidateAndComputeFixedCapsAtSubtotal(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	svc := NewDiscountService(repo)

	repo.On("GetByCode", mock.Anything, "BIGOFF").Return(&models.DiscountCode{
		Code: "BIGOFF", Kind: models.DiscountKindFixed, Value: 50, IsActive: true,
	}, nil)

	_, amount, err := svc.ValidateAndCompute(context.Background(), "BIGOFF", 20)
	require.NoError(t, err)
	assert.Equal(t, 20.0, amount, "a fixed discount never exceeds the subtotal")
}

func TestValidateAndComputeRejections(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name    string
		code    *models.DiscountCode
		wantErr error
	}{
		{
			name:    "inactive",
			code:    &models.DiscountCode{Code: "X", Kind: models.DiscountKindFixed, Value: 5, IsActive: false},
			wantErr: ErrDiscountInactive,
		},
		{
			name:    "not started",
			code:    &models.DiscountCode{Code: "X", Kind: models.DiscountKindFixed, Value: 5, IsActive: true, StartsAt: &future},
			wantErr: ErrDiscountNotStarted,
		},
		{
			name:    "expired",
			code:    &models.DiscountCode{Code: "X", Kind: models.DiscountKindFixed, Value: 5, IsActive: true, ExpiresAt: &past},
			wantErr: ErrDiscountExpired,
		},
		{
			name:    "below minimum subtotal",
			code:    &models.DiscountCode{Code: "X", Kind: models.DiscountKindFixed, Value: 5, IsActive: true, MinSubtotal: 100},
			wantErr: ErrDiscountMinSubtotal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(MockDiscountCodeRepository)
			repo.On("GetByCode", mock.Anything, "X").Return(tc.code, nil)
			svc := NewDiscountService(repo)

			_, _, err := svc.ValidateAndCompute(context.Background(), "X", 50)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestValidateAndComputeUnknownCode(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	repo.On("GetByCode", mock.Anything, "NOPE").Return(nil, pgx.ErrNoRows)
	svc := NewDiscountService(repo)

	_, _, err := svc.ValidateAndCompute(context.Background(), "NOPE", 50)
	assert.ErrorIs(t, err, ErrDiscountNotFound)
}

func TestCreateCodeRejectsBadKind(t *testing.T) {
	svc := NewDiscountService(new(MockDiscountCodeRepository))

	_, err := svc.CreateCode(context.Background(), &models.DiscountCode{Code: "x", Kind: "bogus", Value: 5})
	assert.ErrorIs(t, err, ErrInvalidDiscountKind)
}

func TestCreateCodeUppercases(t *testing.T) {
	repo := new(MockDiscountCodeRepository)
	svc := NewDiscountService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.DiscountCode) bool {
		return c.Code == "SPRING"
	})).Return(nil)
	repo.On("GetByCode", mock.Anything, "SPRING").Return(&models.DiscountCode{Code: "SPRING"}, nil)

	created, err := svc.CreateCode(context.Background(), &models.DiscountCode{
		Code: " spring ", Kind: models.DiscountKindPercent, Value: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING", created.Code)
}
