package service

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
	obsmetrics "github.com/tubigan/waterworks/internal/observability/metrics"
	"github.com/tubigan/waterworks/internal/payment/domain"
	"github.com/tubigan/waterworks/pkg/db"
	"github.com/tubigan/waterworks/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	BillingSvc billingdomain.Service
	Metrics    *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	store      repository.Repository[domain.Payment]
	billingSvc billingdomain.Service
	metrics    *obsmetrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("payment.service"),
		genID:      p.GenID,
		store:      repository.ProvideStore[domain.Payment](p.DB),
		billingSvc: p.BillingSvc,
		metrics:    p.Metrics,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (*domain.Receipt, error) {
	if !(req.Amount > 0) {
		return nil, domain.ErrInvalidAmount
	}

	record, err := s.billingSvc.GetByID(ctx, req.BillingRecordID)
	if err != nil {
		if errors.Is(err, billingdomain.ErrNotFound) || errors.Is(err, billingdomain.ErrInvalidID) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}

	orNumber := strings.TrimSpace(req.ORNumber)
	if orNumber == "" {
		orNumber = newORNumber()
	} else {
		// Manual OR numbers are checked up front so a reused receipt fails
		// before the balance is touched.
		existing, err := s.store.FindOne(ctx, &domain.Payment{ORNumber: orNumber})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicateOR
		}
	}

	payment := domain.Payment{
		ID:              s.genID.Generate(),
		BillingRecordID: record.ID,
		ClientID:        record.ClientID,
		ORNumber:        orNumber,
		Amount:          req.Amount,
		Cashier:         strings.TrimSpace(req.Cashier),
		PaidAt:          time.Now().UTC(),
		CreatedAt:       time.Now().UTC(),
	}

	// The balance mutation and the payment row commit together; a failed
	// insert must not leave an inflated paid total behind.
	var updated *billingdomain.Record
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updated, err = s.billingSvc.ApplyPaymentTx(ctx, tx, record.ID, req.Amount)
		if err != nil {
			return err
		}
		return s.store.WithTrx(tx).Create(ctx, &payment)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateOR
		}
		return nil, err
	}

	s.metrics.RecordPayment()
	s.log.Info("payment recorded",
		zap.String("or_number", payment.ORNumber),
		zap.String("billing_record_id", record.ID.String()),
		zap.Float64("amount", payment.Amount),
	)

	return &domain.Receipt{Payment: payment, Record: *updated}, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]domain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(clientID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	items, err := s.store.Find(ctx, &domain.Payment{ClientID: id})
	if err != nil {
		return nil, err
	}

	payments := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		payments = append(payments, *item)
	}
	return payments, nil
}

func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Payment, error) {
	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return nil, domain.ErrInvalidRange
	}

	payments := make([]domain.Payment, 0)
	err := s.db.WithContext(ctx).
		Raw(`SELECT * FROM payments WHERE paid_at >= ? AND paid_at < ? ORDER BY paid_at ASC`, from, to).
		Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func newORNumber() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return "OR-" + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
