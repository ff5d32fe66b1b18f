package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/billing/domain"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/config"
	obsmetrics "github.com/tubigan/waterworks/internal/observability/metrics"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
	"github.com/tubigan/waterworks/internal/ratelimit"
	"github.com/tubigan/waterworks/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// generateLockTTL bounds how long a crashed run can block the next one.
const generateLockTTL = 5 * time.Minute

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	ClientRepo clientdomain.Repository
	RateSvc    rateconfigdomain.Service
	BillingCfg *config.BillingConfigHolder
	Metrics    *obsmetrics.Metrics `optional:"true"`
	Locker     *ratelimit.Locker   `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	clientRepo clientdomain.Repository
	rateSvc    rateconfigdomain.Service
	billingCfg *config.BillingConfigHolder
	metrics    *obsmetrics.Metrics
	locker     *ratelimit.Locker
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		rateSvc:    p.RateSvc,
		billingCfg: p.BillingCfg,
		metrics:    p.Metrics,
		locker:     p.Locker,
	}
}

// Generate bills every active client for the period. Each client is handled
// independently: one failing record is reported in the summary and never
// aborts the batch. Re-running for the same period only fills gaps.
func (s *Service) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.Summary, error) {
	period := strings.TrimSpace(req.Period)
	if !domain.ValidPeriod(period) {
		return nil, domain.ErrInvalidPeriod
	}

	if s.locker != nil {
		key := "billing:generate:" + period
		token, ok, err := s.locker.TryLock(ctx, key, generateLockTTL)
		if err != nil {
			s.log.Warn("generation lock unavailable, relying on unique index", zap.Error(err))
		} else if !ok {
			return nil, domain.ErrGenerationInProgress
		} else {
			defer func() {
				if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
					s.log.Warn("generation lock release failed", zap.Error(err))
				}
			}()
		}
	}

	cfg := s.billingCfg.Get()

	// One snapshot for the whole batch. A config change mid-run does not
	// split the batch across two rate tables.
	rates, err := s.rateSvc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.StrictRates && !rates.Found {
		return nil, domain.ErrConfigurationMissing
	}

	clients, err := s.clientRepo.ListByStatus(ctx, s.db, clientdomain.StatusActive)
	if err != nil {
		return nil, err
	}

	billed, err := s.repo.BilledClientIDs(ctx, s.db, period)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{Period: period}
	for _, client := range clients {
		if _, ok := billed[client.ID]; ok {
			summary.Skipped++
			continue
		}

		if err := s.generateOne(ctx, client, period, req.Readings, rates, cfg); err != nil {
			if db.IsDuplicateKeyErr(err) {
				// A concurrent run won the insert; same end state.
				summary.Skipped++
				continue
			}
			summary.Errors = append(summary.Errors, domain.ItemError{
				ClientCode: client.Code,
				Message:    err.Error(),
			})
			s.log.Warn("billing generation failed for client",
				zap.String("client_code", client.Code),
				zap.String("period", period),
				zap.Error(err),
			)
			continue
		}
		summary.Generated++
	}

	s.metrics.RecordBillingRun("completed")
	s.metrics.RecordBillingItems(summary.Generated, summary.Skipped, len(summary.Errors))
	s.log.Info("billing generation finished",
		zap.String("period", period),
		zap.Int("generated", summary.Generated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", len(summary.Errors)),
	)
	return summary, nil
}

func (s *Service) generateOne(
	ctx context.Context,
	client *clientdomain.Client,
	period string,
	readings map[string]float64,
	rates rateconfigdomain.Snapshot,
	cfg config.BillingConfig,
) error {
	previous := 0.0
	if prior, err := s.repo.LatestBefore(ctx, s.db, client.ID, period); err != nil {
		return err
	} else if prior != nil {
		previous = prior.CurrentReading
	}

	// No captured reading means the meter sheet has not come in yet; the
	// client gets a minimum-only bill for the period.
	current := previous
	if reading, ok := readings[client.Code]; ok {
		current = reading
	}

	result, err := domain.Calculate(domain.CalcInput{
		Classification:  client.Classification,
		PreviousReading: previous,
		CurrentReading:  current,
		FreeCubic:       cfg.FreeCubic,
	}, rates, cfg.StrictRates)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	record := domain.Record{
		ID:               s.genID.Generate(),
		ClientID:         client.ID,
		Period:           period,
		PreviousReading:  previous,
		CurrentReading:   current,
		Consumption:      result.Consumption,
		FreeCubic:        cfg.FreeCubic,
		Minimum:          result.Minimum,
		PerCubic:         result.PerCubic,
		CurrentBilling:   result.CurrentBilling,
		PaidAmount:       0,
		RemainingBalance: result.RemainingBalance,
		MeterReader:      rates.MeterReader,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	return s.repo.Insert(ctx, s.db, &record)
}

func (s *Service) ManualCreate(ctx context.Context, req domain.ManualCreateRequest) (*domain.Record, error) {
	period := strings.TrimSpace(req.Period)
	if !domain.ValidPeriod(period) {
		return nil, domain.ErrInvalidPeriod
	}

	clientID, err := parseID(req.ClientID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	if existing, err := s.repo.FindByClientAndPeriod(ctx, s.db, clientID, period); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicatePeriod
	}

	cfg := s.billingCfg.Get()
	rates, err := s.rateSvc.Current(ctx)
	if err != nil {
		return nil, err
	}

	previous := 0.0
	if req.PreviousReading != nil {
		previous = *req.PreviousReading
	} else if prior, err := s.repo.LatestBefore(ctx, s.db, clientID, period); err != nil {
		return nil, err
	} else if prior != nil {
		previous = prior.CurrentReading
	}

	freeCubic := cfg.FreeCubic
	if req.FreeCubic != nil {
		freeCubic = *req.FreeCubic
	}

	result, err := domain.Calculate(domain.CalcInput{
		Classification:  client.Classification,
		PreviousReading: previous,
		CurrentReading:  req.CurrentReading,
		FreeCubic:       freeCubic,
		Minimum:         req.Minimum,
		PerCubic:        req.PerCubic,
		Discount:        req.Discount,
		LessAmount:      req.LessAmount,
		PaidAmount:      req.PaidAmount,
	}, rates, cfg.StrictRates)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := domain.Record{
		ID:               s.genID.Generate(),
		ClientID:         clientID,
		Period:           period,
		PreviousReading:  previous,
		CurrentReading:   req.CurrentReading,
		Consumption:      result.Consumption,
		FreeCubic:        freeCubic,
		Minimum:          result.Minimum,
		PerCubic:         result.PerCubic,
		Discount:         req.Discount,
		LessAmount:       req.LessAmount,
		CurrentBilling:   result.CurrentBilling,
		PaidAmount:       req.PaidAmount,
		RemainingBalance: result.RemainingBalance,
		MeterReader:      rates.MeterReader,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicatePeriod
		}
		return nil, err
	}
	return &record, nil
}

func (s *Service) GetByID(ctx context.Context, idValue string) (*domain.Record, error) {
	id, err := parseID(idValue)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	return record, nil
}

func (s *Service) ListByPeriod(ctx context.Context, period string) ([]domain.Record, error) {
	period = strings.TrimSpace(period)
	if !domain.ValidPeriod(period) {
		return nil, domain.ErrInvalidPeriod
	}
	items, err := s.repo.ListByPeriod(ctx, s.db, period)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]domain.Record, error) {
	id, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListByClient(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (s *Service) ApplyPayment(ctx context.Context, recordID snowflake.ID, amount float64) (*domain.Record, error) {
	if !(amount > 0) {
		return nil, domain.ErrInvalidAmount
	}

	var updated *domain.Record
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := s.applyPayment(ctx, tx, recordID, amount)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ApplyPaymentTx(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, amount float64) (*domain.Record, error) {
	if !(amount > 0) {
		return nil, domain.ErrInvalidAmount
	}
	return s.applyPayment(ctx, tx, recordID, amount)
}

func (s *Service) applyPayment(ctx context.Context, tx *gorm.DB, recordID snowflake.ID, amount float64) (*domain.Record, error) {
	record, err := s.repo.FindByID(ctx, tx, recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}

	record.PaidAmount += amount
	record.RemainingBalance = domain.RecomputeBalance(record.CurrentBilling, record.PaidAmount)
	record.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdatePayment(ctx, tx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func deref(items []*domain.Record) []domain.Record {
	records := make([]domain.Record, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}
	return records
}
