package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/rateconfig/domain"
	"github.com/tubigan/waterworks/internal/rateconfig/repository"
	"github.com/tubigan/waterworks/internal/seed"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupRateConfigService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.RateConfiguration{}))

	return New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})
}

func TestCurrentBeforeFirstConfiguration(t *testing.T) {
	svc := setupRateConfigService(t)

	snap, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Found)
	assert.Empty(t, snap.Rates)
}

func TestUpdateIsSingletonUpsert(t *testing.T) {
	svc := setupRateConfigService(t)
	ctx := context.Background()

	first, err := svc.Update(ctx, domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"residential": {Minimum: 50, PerCubic: 10},
		},
		MeterReader: "J. Cruz",
		ContactNo:   "0917-000-0000",
	})
	require.NoError(t, err)
	assert.True(t, first.Found)
	assert.Equal(t, "J. Cruz", first.MeterReader)

	second, err := svc.Update(ctx, domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"residential": {Minimum: 60, PerCubic: 12},
			"commercial":  {Minimum: 120, PerCubic: 25},
		},
		MeterReader: "A. Reyes",
	})
	require.NoError(t, err)

	snap, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.Rates, snap.Rates)
	assert.Equal(t, "A. Reyes", snap.MeterReader)

	rate, ok := snap.RateFor(clientdomain.ClassificationResidential)
	require.True(t, ok)
	assert.Equal(t, 60.0, rate.Minimum)
	assert.Equal(t, 12.0, rate.PerCubic)
}

func TestUpdateFillsMissingTiersWithZero(t *testing.T) {
	svc := setupRateConfigService(t)

	snap, err := svc.Update(context.Background(), domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"residential": {Minimum: 50, PerCubic: 10},
		},
	})
	require.NoError(t, err)

	for _, classification := range clientdomain.Classifications {
		rate, ok := snap.RateFor(classification)
		require.True(t, ok, "classification %s must have an entry", classification)
		if classification != clientdomain.ClassificationResidential {
			assert.Equal(t, domain.Rate{}, rate)
		}
	}
}

func TestUpdateValidation(t *testing.T) {
	svc := setupRateConfigService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidRates)

	_, err = svc.Update(ctx, domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"penthouse": {Minimum: 50, PerCubic: 10},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRates)

	_, err = svc.Update(ctx, domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"residential": {Minimum: -1, PerCubic: 10},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNegativeRate)
}

func TestCurrentTreatsSeededZeroRatesAsUnconfigured(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.RateConfiguration{},
		&userdomain.User{},
	))
	require.NoError(t, seed.EnsureDefaults(db))

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Repo: repository.Provide(),
	})

	snap, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.False(t, snap.Found)
	assert.Len(t, snap.Rates, len(clientdomain.Classifications))

	updated, err := svc.Update(context.Background(), domain.UpdateRequest{
		Rates: map[string]domain.Rate{
			"residential": {Minimum: 50, PerCubic: 10},
		},
	})
	require.NoError(t, err)
	assert.True(t, updated.Found)
}
