package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/user/domain"
	"github.com/tubigan/waterworks/pkg/db"
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
	store repository.Repository[domain.User]
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("user.service"),
		genID: p.GenID,
		store: repository.ProvideStore[domain.User](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		return nil, domain.ErrInvalidUsername
	}
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, domain.ErrInvalidName
	}
	office, ok := domain.ParseOffice(strings.TrimSpace(req.Office))
	if !ok {
		return nil, domain.ErrInvalidOffice
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:        s.genID.Generate(),
		Username:  username,
		FullName:  fullName,
		Office:    office,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, &user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}

	s.log.Info("user created", zap.String("username", user.Username), zap.String("office", string(user.Office)))
	return &user, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.User, error) {
	user, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, domain.ErrInvalidName
		}
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Office != nil {
		office, ok := domain.ParseOffice(strings.TrimSpace(*req.Office))
		if !ok {
			return nil, domain.ErrInvalidOffice
		}
		user.Office = office
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, user.ID.String(), map[string]any{
		"full_name":  user.FullName,
		"office":     user.Office,
		"active":     user.Active,
		"updated_at": user.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	items, err := s.store.Find(ctx, &domain.User{}, option.WithOrder("username asc"))
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, 0, len(items))
	for _, item := range items {
		users = append(users, *item)
	}
	return users, nil
}

func (s *Service) GetByID(ctx context.Context, idValue string) (*domain.User, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(idValue))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	user, err := s.store.FindOne(ctx, &domain.User{ID: id})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) (*domain.User, error) {
	inactive := false
	return s.Update(ctx, domain.UpdateRequest{ID: id, Active: &inactive})
}
