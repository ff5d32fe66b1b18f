package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/client/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupClientService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Client{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
}

func intPtr(v int) *int { return &v }

func TestCreateClientDefaults(t *testing.T) {
	svc := setupClientService(t)

	client, err := svc.Create(context.Background(), domain.CreateRequest{
		Code:      "0001",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Barangay:  "Poblacion",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationResidential, client.Classification)
	assert.Equal(t, domain.StatusOnProcess, client.Status)
	assert.NotZero(t, client.ID)
}

func TestCreateClientLegacyClassification(t *testing.T) {
	svc := setupClientService(t)
	ctx := context.Background()

	tests := []struct {
		legacy int
		want   domain.Classification
	}{
		{0, domain.ClassificationResidential},
		{1, domain.ClassificationResidential},
		{2, domain.ClassificationCommercial},
		{3, domain.ClassificationInstitutional},
		{4, domain.ClassificationIndustrial},
		{9, domain.ClassificationResidential},
	}

	for i, tt := range tests {
		client, err := svc.Create(ctx, domain.CreateRequest{
			Code:                 fmt.Sprintf("L%03d", i),
			FirstName:            "Juan",
			LastName:             "Dela Cruz",
			LegacyClassification: intPtr(tt.legacy),
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, client.Classification, "legacy code %d", tt.legacy)
	}

	// Explicit name wins over the legacy code.
	client, err := svc.Create(ctx, domain.CreateRequest{
		Code:                 "L900",
		FirstName:            "Juan",
		LastName:             "Dela Cruz",
		Classification:       "commercial",
		LegacyClassification: intPtr(3),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationCommercial, client.Classification)
}

func TestCreateClientDuplicateCode(t *testing.T) {
	svc := setupClientService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{
		Code:      "0001",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Code:      "0001",
		FirstName: "Pedro",
		LastName:  "Penduko",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
}

func TestCreateClientValidation(t *testing.T) {
	svc := setupClientService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{FirstName: "Juan", LastName: "Dela Cruz"})
	assert.ErrorIs(t, err, domain.ErrInvalidCode)

	_, err = svc.Create(ctx, domain.CreateRequest{Code: "0001", LastName: "Dela Cruz"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Code:           "0001",
		FirstName:      "Juan",
		LastName:       "Dela Cruz",
		Classification: "penthouse",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidClassification)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Code:      "0001",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Status:    "floating",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestDisconnectKeepsRecord(t *testing.T) {
	svc := setupClientService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{
		Code:      "0001",
		FirstName: "Juan",
		LastName:  "Dela Cruz",
		Status:    "active",
	})
	require.NoError(t, err)

	disconnected, err := svc.Disconnect(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDisconnected, disconnected.Status)

	found, err := svc.GetByCode(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, domain.StatusDisconnected, found.Status)
}

func TestListClientsFilters(t *testing.T) {
	svc := setupClientService(t)
	ctx := context.Background()

	for i, status := range []string{"active", "active", "disconnected"} {
		_, err := svc.Create(ctx, domain.CreateRequest{
			Code:      fmt.Sprintf("%04d", i+1),
			FirstName: "Juan",
			LastName:  "Dela Cruz",
			Status:    status,
			Barangay:  "Poblacion",
		})
		require.NoError(t, err)
	}

	resp, err := svc.List(ctx, domain.ListRequest{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, resp.Clients, 2)

	resp, err = svc.List(ctx, domain.ListRequest{Search: "0003"})
	require.NoError(t, err)
	require.Len(t, resp.Clients, 1)
	assert.Equal(t, "0003", resp.Clients[0].Code)

	_, err = svc.List(ctx, domain.ListRequest{Status: "floating"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
