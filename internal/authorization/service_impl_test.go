package authorization

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAuthorization(t *testing.T) Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	return New(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestAuthorizeRejectsUnknownOffice(t *testing.T) {
	svc := setupAuthorization(t)
	ctx := context.Background()

	err := svc.Authorize(ctx, "mayor", ObjectClient, ActionView)
	assert.ErrorIs(t, err, ErrInvalidOffice)

	err = svc.Authorize(ctx, "", ObjectClient, ActionView)
	assert.ErrorIs(t, err, ErrInvalidOffice)
}

func TestAuthorizeValidatesObjectAndAction(t *testing.T) {
	svc := setupAuthorization(t)
	ctx := context.Background()

	err := svc.Authorize(ctx, string(userdomain.OfficeAdmin), "", ActionView)
	assert.ErrorIs(t, err, ErrInvalidObject)

	err = svc.Authorize(ctx, string(userdomain.OfficeAdmin), ObjectClient, "")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestAuthorizeOfficePolicies(t *testing.T) {
	svc := setupAuthorization(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, string(userdomain.OfficeBilling), ObjectBilling, ActionGenerate))
	require.NoError(t, svc.Authorize(ctx, "Billing", ObjectBillingConfig, ActionUpdate))
	require.NoError(t, svc.Authorize(ctx, string(userdomain.OfficeAdmin), ObjectUser, ActionCreate))
	require.NoError(t, svc.Authorize(ctx, string(userdomain.OfficeTreasury), ObjectPayment, ActionPay))

	err := svc.Authorize(ctx, string(userdomain.OfficeTreasury), ObjectBilling, ActionGenerate)
	assert.ErrorIs(t, err, ErrForbidden)

	err = svc.Authorize(ctx, string(userdomain.OfficeEngineering), ObjectPayment, ActionPay)
	assert.ErrorIs(t, err, ErrForbidden)
}
