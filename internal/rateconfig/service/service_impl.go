package service

import (
	"context"
	"strings"
	"time"

	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/rateconfig/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("rateconfig.service"),
		repo: p.Repo,
	}
}

func (s *Service) Current(ctx context.Context) (domain.Snapshot, error) {
	cfg, err := s.repo.Get(ctx, s.db)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.SnapshotOf(cfg), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Snapshot, error) {
	if len(req.Rates) == 0 {
		return domain.Snapshot{}, domain.ErrInvalidRates
	}

	rates := make(map[string]domain.Rate, len(req.Rates))
	for name, rate := range req.Rates {
		classification, ok := clientdomain.ParseClassification(strings.TrimSpace(name))
		if !ok {
			return domain.Snapshot{}, domain.ErrInvalidRates
		}
		if rate.Minimum < 0 || rate.PerCubic < 0 {
			return domain.Snapshot{}, domain.ErrNegativeRate
		}
		rates[string(classification)] = rate
	}
	// Every classification must resolve to an entry; missing tiers are
	// stored as zero rates rather than left absent.
	for _, classification := range clientdomain.Classifications {
		if _, ok := rates[string(classification)]; !ok {
			rates[string(classification)] = domain.Rate{}
		}
	}

	cfg := domain.RateConfiguration{
		ID:          domain.SingletonID,
		Rates:       datatypes.NewJSONType(rates),
		MeterReader: strings.TrimSpace(req.MeterReader),
		ContactNo:   strings.TrimSpace(req.ContactNo),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, s.db, &cfg); err != nil {
		return domain.Snapshot{}, err
	}

	s.log.Info("rate configuration updated", zap.String("meter_reader", cfg.MeterReader))
	return domain.SnapshotOf(&cfg), nil
}
