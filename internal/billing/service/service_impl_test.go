package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubigan/waterworks/internal/billing/domain"
	billingrepository "github.com/tubigan/waterworks/internal/billing/repository"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	clientrepository "github.com/tubigan/waterworks/internal/client/repository"
	"github.com/tubigan/waterworks/internal/config"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type rateStub struct {
	snap rateconfigdomain.Snapshot
}

func (r *rateStub) Current(ctx context.Context) (rateconfigdomain.Snapshot, error) {
	return r.snap, nil
}

func (r *rateStub) Update(ctx context.Context, req rateconfigdomain.UpdateRequest) (rateconfigdomain.Snapshot, error) {
	return r.snap, nil
}

func testSnapshot() rateconfigdomain.Snapshot {
	return rateconfigdomain.Snapshot{
		Found: true,
		Rates: map[clientdomain.Classification]rateconfigdomain.Rate{
			clientdomain.ClassificationResidential: {Minimum: 50, PerCubic: 10},
			clientdomain.ClassificationCommercial:  {Minimum: 100, PerCubic: 20},
		},
		MeterReader: "J. Cruz",
	}
}

func setupBillingService(t *testing.T, cfg config.BillingConfig, snap rateconfigdomain.Snapshot) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&domain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       billingrepository.Provide(),
		ClientRepo: clientrepository.Provide(),
		RateSvc:    &rateStub{snap: snap},
		BillingCfg: config.StaticBillingConfig(cfg),
	})
	return svc, db, node
}

func seedClient(t *testing.T, db *gorm.DB, node *snowflake.Node, code string, status clientdomain.Status) *clientdomain.Client {
	t.Helper()

	now := time.Now().UTC()
	client := &clientdomain.Client{
		ID:             node.Generate(),
		Code:           code,
		FirstName:      "Juan",
		LastName:       "Dela Cruz",
		Classification: clientdomain.ClassificationResidential,
		Status:         status,
		MeterNumber:    "MTR-" + code,
		Barangay:       "Poblacion",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, db.Create(client).Error)
	return client
}

func TestGenerateBillsActiveClients(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())
	ctx := context.Background()

	metered := seedClient(t, db, node, "0001", clientdomain.StatusActive)
	unread := seedClient(t, db, node, "0002", clientdomain.StatusActive)
	seedClient(t, db, node, "0003", clientdomain.StatusDisconnected)

	summary, err := svc.Generate(ctx, domain.GenerateRequest{
		Period:   "2025-01",
		Readings: map[string]float64{"0001": 115},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Generated)
	assert.Equal(t, 0, summary.Skipped)
	assert.Empty(t, summary.Errors)

	records, err := svc.ListByPeriod(ctx, "2025-01")
	require.NoError(t, err)
	require.Len(t, records, 2)

	byClient := make(map[int64]domain.Record, len(records))
	for _, record := range records {
		byClient[int64(record.ClientID)] = record
	}

	read := byClient[int64(metered.ID)]
	assert.Equal(t, 115.0, read.CurrentReading)
	assert.Equal(t, 115.0, read.Consumption)
	// 105 chargeable cubic at 10 plus the 50 minimum.
	assert.Equal(t, 1100.0, read.CurrentBilling)
	assert.Equal(t, 1100.0, read.RemainingBalance)
	assert.Equal(t, "J. Cruz", read.MeterReader)

	missing := byClient[int64(unread.ID)]
	assert.Equal(t, 0.0, missing.Consumption)
	assert.Equal(t, 50.0, missing.CurrentBilling, "no reading yields a minimum-only bill")
}

func TestGenerateIsIdempotent(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())
	ctx := context.Background()

	seedClient(t, db, node, "0001", clientdomain.StatusActive)
	seedClient(t, db, node, "0002", clientdomain.StatusActive)

	first, err := svc.Generate(ctx, domain.GenerateRequest{Period: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.Generated)

	second, err := svc.Generate(ctx, domain.GenerateRequest{Period: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 2, second.Skipped)

	records, err := svc.ListByPeriod(ctx, "2025-01")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestGenerateCarriesPreviousReading(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())
	ctx := context.Background()

	seedClient(t, db, node, "0001", clientdomain.StatusActive)

	_, err := svc.Generate(ctx, domain.GenerateRequest{
		Period:   "2025-01",
		Readings: map[string]float64{"0001": 115},
	})
	require.NoError(t, err)

	_, err = svc.Generate(ctx, domain.GenerateRequest{
		Period:   "2025-02",
		Readings: map[string]float64{"0001": 130},
	})
	require.NoError(t, err)

	records, err := svc.ListByPeriod(ctx, "2025-02")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 115.0, records[0].PreviousReading)
	assert.Equal(t, 15.0, records[0].Consumption)
	// 5 chargeable cubic at 10 plus the 50 minimum.
	assert.Equal(t, 100.0, records[0].CurrentBilling)
}

func TestGenerateValidatesPeriod(t *testing.T) {
	svc, _, _ := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{Period: "January 2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestGenerateStrictRequiresConfiguration(t *testing.T) {
	cfg := config.DefaultBillingConfig()
	cfg.StrictRates = true
	svc, db, node := setupBillingService(t, cfg, rateconfigdomain.Snapshot{})

	seedClient(t, db, node, "0001", clientdomain.StatusActive)

	_, err := svc.Generate(context.Background(), domain.GenerateRequest{Period: "2025-01"})
	assert.ErrorIs(t, err, domain.ErrConfigurationMissing)
}

func TestGenerateLenientWithoutConfiguration(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), rateconfigdomain.Snapshot{})
	ctx := context.Background()

	seedClient(t, db, node, "0001", clientdomain.StatusActive)

	summary, err := svc.Generate(ctx, domain.GenerateRequest{
		Period:   "2025-01",
		Readings: map[string]float64{"0001": 40},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)

	records, err := svc.ListByPeriod(ctx, "2025-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 0.0, records[0].CurrentBilling)
}

func TestManualCreateRejectsDuplicatePeriod(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())
	ctx := context.Background()

	client := seedClient(t, db, node, "0001", clientdomain.StatusActive)

	_, err := svc.ManualCreate(ctx, domain.ManualCreateRequest{
		ClientID:       client.ID.String(),
		Period:         "2025-01",
		CurrentReading: 20,
	})
	require.NoError(t, err)

	_, err = svc.ManualCreate(ctx, domain.ManualCreateRequest{
		ClientID:       client.ID.String(),
		Period:         "2025-01",
		CurrentReading: 25,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePeriod)
}

func TestManualCreateUnknownClient(t *testing.T) {
	svc, _, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())

	_, err := svc.ManualCreate(context.Background(), domain.ManualCreateRequest{
		ClientID:       node.Generate().String(),
		Period:         "2025-01",
		CurrentReading: 20,
	})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestApplyPayment(t *testing.T) {
	svc, db, node := setupBillingService(t, config.DefaultBillingConfig(), testSnapshot())
	ctx := context.Background()

	client := seedClient(t, db, node, "0001", clientdomain.StatusActive)
	record, err := svc.ManualCreate(ctx, domain.ManualCreateRequest{
		ClientID:       client.ID.String(),
		Period:         "2025-01",
		CurrentReading: 15,
	})
	require.NoError(t, err)
	require.Equal(t, 100.0, record.CurrentBilling)

	updated, err := svc.ApplyPayment(ctx, record.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, 40.0, updated.PaidAmount)
	assert.Equal(t, 60.0, updated.RemainingBalance)

	updated, err = svc.ApplyPayment(ctx, record.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 140.0, updated.PaidAmount)
	assert.Equal(t, 0.0, updated.RemainingBalance, "overpayment clamps at zero")

	_, err = svc.ApplyPayment(ctx, record.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = svc.ApplyPayment(ctx, node.Generate(), 10)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type insertFailRepo struct {
	domain.Repository
	failClientID snowflake.ID
}

func (r *insertFailRepo) Insert(ctx context.Context, db *gorm.DB, record *domain.Record) error {
	if record.ClientID == r.failClientID {
		return errors.New("insert failed")
	}
	return r.Repository.Insert(ctx, db, record)
}

func TestGenerateContinuesAfterClientFailure(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&clientdomain.Client{},
		&domain.Record{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := &insertFailRepo{Repository: billingrepository.Provide()}
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repo,
		ClientRepo: clientrepository.Provide(),
		RateSvc:    &rateStub{snap: testSnapshot()},
		BillingCfg: config.StaticBillingConfig(config.DefaultBillingConfig()),
	})

	ctx := context.Background()
	good := seedClient(t, db, node, "0001", clientdomain.StatusActive)
	bad := seedClient(t, db, node, "0002", clientdomain.StatusActive)
	repo.failClientID = bad.ID

	summary, err := svc.Generate(ctx, domain.GenerateRequest{Period: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Generated)
	assert.Equal(t, 0, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "0002", summary.Errors[0].ClientCode)
	assert.NotEmpty(t, summary.Errors[0].Message)

	records, err := svc.ListByClient(ctx, good.ID.String())
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = svc.ListByClient(ctx, bad.ID.String())
	require.NoError(t, err)
	assert.Empty(t, records)
}
