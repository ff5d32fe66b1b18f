package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/pkg/db"
	"github.com/tubigan/waterworks/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Client, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return nil, domain.ErrInvalidName
	}

	classification, err := resolveClassification(req.Classification, req.LegacyClassification)
	if err != nil {
		return nil, err
	}

	status := domain.StatusOnProcess
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := domain.ParseStatus(req.Status)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		status = parsed
	}

	now := time.Now().UTC()
	client := domain.Client{
		ID:             s.genID.Generate(),
		Code:           code,
		FirstName:      firstName,
		LastName:       lastName,
		Classification: classification,
		Status:         status,
		MeterNumber:    strings.TrimSpace(req.MeterNumber),
		Barangay:       strings.TrimSpace(req.Barangay),
		Sitio:          strings.TrimSpace(req.Sitio),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateCode
		}
		return nil, err
	}

	s.log.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("code", client.Code),
		zap.String("classification", string(client.Classification)),
	)
	return &client, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Client, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, domain.ErrInvalidName
		}
		client.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, domain.ErrInvalidName
		}
		client.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Classification != nil {
		parsed, ok := domain.ParseClassification(*req.Classification)
		if !ok {
			return nil, domain.ErrInvalidClassification
		}
		client.Classification = parsed
	}
	if req.Status != nil {
		parsed, ok := domain.ParseStatus(*req.Status)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		client.Status = parsed
	}
	if req.MeterNumber != nil {
		client.MeterNumber = strings.TrimSpace(*req.MeterNumber)
	}
	if req.Barangay != nil {
		client.Barangay = strings.TrimSpace(*req.Barangay)
	}
	if req.Sitio != nil {
		client.Sitio = strings.TrimSpace(*req.Sitio)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	filter := domain.ListFilter{
		Barangay: strings.TrimSpace(req.Barangay),
		Search:   strings.TrimSpace(req.Search),
	}
	if value := strings.TrimSpace(req.Status); value != "" {
		parsed, ok := domain.ParseStatus(value)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = parsed
	}
	if value := strings.TrimSpace(req.Classification); value != "" {
		parsed, ok := domain.ParseClassification(value)
		if !ok {
			return nil, domain.ErrInvalidClassification
		}
		filter.Classification = parsed
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		clients = append(clients, *item)
	}

	return &domain.ListResponse{
		Clients:       clients,
		NextPageToken: pageInfo.NextPageToken,
		HasMore:       pageInfo.HasMore,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, idValue string) (*domain.Client, error) {
	id, err := s.parseID(idValue)
	if err != nil {
		return nil, err
	}
	client, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Client, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}
	client, err := s.repo.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

func (s *Service) Disconnect(ctx context.Context, idValue string) (*domain.Client, error) {
	status := string(domain.StatusDisconnected)
	return s.Update(ctx, domain.UpdateRequest{ID: idValue, Status: &status})
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func resolveClassification(name string, legacy *int) (domain.Classification, error) {
	if strings.TrimSpace(name) != "" {
		parsed, ok := domain.ParseClassification(strings.TrimSpace(name))
		if !ok {
			return "", domain.ErrInvalidClassification
		}
		return parsed, nil
	}
	if legacy != nil {
		return domain.ClassificationFromLegacy(*legacy), nil
	}
	return domain.ClassificationResidential, nil
}
