package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/fee/domain"
	"github.com/tubigan/waterworks/pkg/db/option"
	"github.com/tubigan/waterworks/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	store repository.Repository[domain.Fee]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("fee.service"),
		genID: p.GenID,
		store: repository.ProvideStore[domain.Fee](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Fee, error) {
	clientID, err := parseID(req.ClientID)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}
	if !(req.Amount > 0) {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	fee := domain.Fee{
		ID:          s.genID.Generate(),
		ClientID:    clientID,
		Description: description,
		Amount:      req.Amount,
		Status:      domain.FeeStatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, &fee); err != nil {
		return nil, err
	}
	return &fee, nil
}

func (s *Service) ListByClient(ctx context.Context, clientID string) ([]domain.Fee, error) {
	id, err := parseID(clientID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.Find(ctx, &domain.Fee{ClientID: id}, option.WithOrder("created_at desc"))
	if err != nil {
		return nil, err
	}

	fees := make([]domain.Fee, 0, len(items))
	for _, item := range items {
		fees = append(fees, *item)
	}
	return fees, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Fee, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	fee, err := s.store.FindOne(ctx, &domain.Fee{ID: id})
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, domain.ErrNotFound
	}
	if fee.Status == domain.FeeStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	updates := map[string]any{}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, domain.ErrInvalidDescription
		}
		fee.Description = description
		updates["description"] = description
	}
	if req.Amount != nil {
		if !(*req.Amount > 0) {
			return nil, domain.ErrInvalidAmount
		}
		fee.Amount = *req.Amount
		updates["amount"] = *req.Amount
	}
	if len(updates) == 0 {
		return fee, nil
	}

	fee.UpdatedAt = time.Now().UTC()
	updates["updated_at"] = fee.UpdatedAt
	if err := s.store.Update(ctx, fee.ID.String(), updates); err != nil {
		return nil, err
	}
	return fee, nil
}

func (s *Service) MarkPaid(ctx context.Context, idValue string, orNumber string) (*domain.Fee, error) {
	id, err := parseID(idValue)
	if err != nil {
		return nil, err
	}

	fee, err := s.store.FindOne(ctx, &domain.Fee{ID: id})
	if err != nil {
		return nil, err
	}
	if fee == nil {
		return nil, domain.ErrNotFound
	}
	if fee.Status == domain.FeeStatusPaid {
		return nil, domain.ErrAlreadyPaid
	}

	fee.Status = domain.FeeStatusPaid
	fee.ORNumber = strings.TrimSpace(orNumber)
	fee.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, fee.ID.String(), map[string]any{
		"status":     fee.Status,
		"or_number":  fee.ORNumber,
		"updated_at": fee.UpdatedAt,
	}); err != nil {
		return nil, err
	}

	s.log.Info("fee settled", zap.String("fee_id", fee.ID.String()), zap.String("or_number", fee.ORNumber))
	return fee, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
