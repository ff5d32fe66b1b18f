package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/message/domain"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
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
	store repository.Repository[domain.Message]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("message.service"),
		genID: p.GenID,
		store: repository.ProvideStore[domain.Message](p.DB),
	}
}

func (s *Service) Send(ctx context.Context, req domain.SendRequest) (*domain.Message, error) {
	from, ok := userdomain.ParseOffice(strings.TrimSpace(req.FromOffice))
	if !ok {
		return nil, domain.ErrInvalidOffice
	}
	to, ok := userdomain.ParseOffice(strings.TrimSpace(req.ToOffice))
	if !ok {
		return nil, domain.ErrInvalidOffice
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, domain.ErrEmptyBody
	}

	message := domain.Message{
		ID:         s.genID.Generate(),
		FromOffice: string(from),
		ToOffice:   string(to),
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Create(ctx, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (s *Service) Poll(ctx context.Context, office string, afterID string) ([]domain.Message, error) {
	to, ok := userdomain.ParseOffice(strings.TrimSpace(office))
	if !ok {
		return nil, domain.ErrInvalidOffice
	}

	var after snowflake.ID
	if value := strings.TrimSpace(afterID); value != "" {
		parsed, err := snowflake.ParseString(value)
		if err != nil {
			return nil, domain.ErrInvalidAfterID
		}
		after = parsed
	}

	var messages []domain.Message
	err := s.db.WithContext(ctx).
		Where("to_office = ? AND id > ?", string(to), after).
		Order("id asc").
		Limit(200).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}
