package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
}

func TestCreateUser(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateRequest{
		Username: "  M.Santos ",
		FullName: "Maria Santos",
		Office:   "treasury",
	})
	require.NoError(t, err)
	assert.Equal(t, "m.santos", user.Username, "usernames are normalized")
	assert.Equal(t, domain.OfficeTreasury, user.Office)
	assert.True(t, user.Active)

	_, err = svc.Create(ctx, domain.CreateRequest{
		Username: "m.santos",
		FullName: "Other Person",
		Office:   "billing",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestCreateUserValidation(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{FullName: "X", Office: "billing"})
	assert.ErrorIs(t, err, domain.ErrInvalidUsername)

	_, err = svc.Create(ctx, domain.CreateRequest{Username: "x", Office: "billing"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Username: "x", FullName: "X", Office: "mayor"})
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)
}

func TestDeactivateUser(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateRequest{
		Username: "j.cruz",
		FullName: "Juan Cruz",
		Office:   "engineering",
	})
	require.NoError(t, err)

	deactivated, err := svc.Deactivate(ctx, user.ID.String())
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	found, err := svc.GetByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.False(t, found.Active)
}

func TestUpdateUserOffice(t *testing.T) {
	svc := setupUserService(t)
	ctx := context.Background()

	user, err := svc.Create(ctx, domain.CreateRequest{
		Username: "a.reyes",
		FullName: "Ana Reyes",
		Office:   "billing",
	})
	require.NoError(t, err)

	office := "admin"
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: user.ID.String(), Office: &office})
	require.NoError(t, err)
	assert.Equal(t, domain.OfficeAdmin, updated.Office)

	bad := "warehouse"
	_, err = svc.Update(ctx, domain.UpdateRequest{ID: user.ID.String(), Office: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)
}
