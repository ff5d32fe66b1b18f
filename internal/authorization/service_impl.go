package authorization

import (
	"context"
	_ "embed"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectClient        = "client"
	ObjectBillingConfig = "billing_config"
	ObjectBilling       = "billing"
	ObjectPayment       = "payment"
	ObjectFee           = "fee"
	ObjectMessage       = "message"
	ObjectUser          = "user"
	ObjectDashboard     = "dashboard"
)

const (
	ActionView     = "view"
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionGenerate = "generate"
	ActionPay      = "pay"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type service struct {
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer wires the casbin enforcer to the shared gorm connection
// and seeds the per-office policies on first boot.
func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	return enforcer, nil
}

func New(p Params) Service {
	return &service{
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *service) Authorize(ctx context.Context, office string, object string, action string) error {
	office = strings.TrimSpace(strings.ToLower(office))
	if _, ok := userdomain.ParseOffice(office); !ok {
		return ErrInvalidOffice
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	allowed, err := s.enforcer.Enforce(office, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.log.Debug("authorization denied",
			zap.String("office", office),
			zap.String("object", object),
			zap.String("action", action),
		)
		return ErrForbidden
	}
	return nil
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Admin office can do everything.
		{string(userdomain.OfficeAdmin), "*", "*"},

		// Billing office owns client records, rates and bill generation.
		{string(userdomain.OfficeBilling), ObjectClient, ActionView},
		{string(userdomain.OfficeBilling), ObjectBillingConfig, ActionView},
		{string(userdomain.OfficeBilling), ObjectBillingConfig, ActionUpdate},
		{string(userdomain.OfficeBilling), ObjectBilling, ActionView},
		{string(userdomain.OfficeBilling), ObjectBilling, ActionCreate},
		{string(userdomain.OfficeBilling), ObjectBilling, ActionGenerate},
		{string(userdomain.OfficeBilling), ObjectDashboard, ActionView},
		{string(userdomain.OfficeBilling), ObjectMessage, ActionView},
		{string(userdomain.OfficeBilling), ObjectMessage, ActionCreate},

		// Treasury office collects payments and miscellaneous fees.
		{string(userdomain.OfficeTreasury), ObjectClient, ActionView},
		{string(userdomain.OfficeTreasury), ObjectBilling, ActionView},
		{string(userdomain.OfficeTreasury), ObjectPayment, ActionView},
		{string(userdomain.OfficeTreasury), ObjectPayment, ActionPay},
		{string(userdomain.OfficeTreasury), ObjectFee, ActionView},
		{string(userdomain.OfficeTreasury), ObjectFee, ActionCreate},
		{string(userdomain.OfficeTreasury), ObjectFee, ActionUpdate},
		{string(userdomain.OfficeTreasury), ObjectDashboard, ActionView},
		{string(userdomain.OfficeTreasury), ObjectMessage, ActionView},
		{string(userdomain.OfficeTreasury), ObjectMessage, ActionCreate},

		// Engineering office maintains service connections.
		{string(userdomain.OfficeEngineering), ObjectClient, ActionView},
		{string(userdomain.OfficeEngineering), ObjectClient, ActionCreate},
		{string(userdomain.OfficeEngineering), ObjectClient, ActionUpdate},
		{string(userdomain.OfficeEngineering), ObjectBilling, ActionView},
		{string(userdomain.OfficeEngineering), ObjectDashboard, ActionView},
		{string(userdomain.OfficeEngineering), ObjectMessage, ActionView},
		{string(userdomain.OfficeEngineering), ObjectMessage, ActionCreate},
	}

	for _, policy := range policies {
		has, err := enforcer.HasPolicy(policy)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
