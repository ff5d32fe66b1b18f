package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tubigan/waterworks/internal/message/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupMessageService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Message{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
	})
}

func TestSendValidatesOfficesAndBody(t *testing.T) {
	svc := setupMessageService(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, domain.SendRequest{FromOffice: "billing", ToOffice: "warehouse", Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)

	_, err = svc.Send(ctx, domain.SendRequest{FromOffice: "mayor", ToOffice: "treasury", Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)

	_, err = svc.Send(ctx, domain.SendRequest{FromOffice: "billing", ToOffice: "treasury", Body: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyBody)
}

func TestPollReturnsOnlyNewerMessagesForOffice(t *testing.T) {
	svc := setupMessageService(t)
	ctx := context.Background()

	first, err := svc.Send(ctx, domain.SendRequest{FromOffice: "billing", ToOffice: "treasury", Body: "cutoff list ready"})
	require.NoError(t, err)
	second, err := svc.Send(ctx, domain.SendRequest{FromOffice: "billing", ToOffice: "treasury", Body: "reprint OR-5"})
	require.NoError(t, err)
	_, err = svc.Send(ctx, domain.SendRequest{FromOffice: "billing", ToOffice: "engineering", Body: "meter 0004 leaking"})
	require.NoError(t, err)

	all, err := svc.Poll(ctx, "treasury", "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID, "oldest first")
	assert.Equal(t, second.ID, all[1].ID)

	newer, err := svc.Poll(ctx, "treasury", first.ID.String())
	require.NoError(t, err)
	require.Len(t, newer, 1)
	assert.Equal(t, second.ID, newer[0].ID)

	none, err := svc.Poll(ctx, "treasury", second.ID.String())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPollValidation(t *testing.T) {
	svc := setupMessageService(t)
	ctx := context.Background()

	_, err := svc.Poll(ctx, "warehouse", "")
	assert.ErrorIs(t, err, domain.ErrInvalidOffice)

	_, err = svc.Poll(ctx, "treasury", "not-a-number")
	assert.ErrorIs(t, err, domain.ErrInvalidAfterID)
}
