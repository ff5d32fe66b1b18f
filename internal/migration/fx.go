package migration

import (
	billingdomain "github.com/tubigan/waterworks/internal/billing/domain"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	"github.com/tubigan/waterworks/internal/config"
	feedomain "github.com/tubigan/waterworks/internal/fee/domain"
	messagedomain "github.com/tubigan/waterworks/internal/message/domain"
	paymentdomain "github.com/tubigan/waterworks/internal/payment/domain"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
	"github.com/tubigan/waterworks/internal/seed"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs lean on gorm's schema sync.
			if err := conn.AutoMigrate(
				&clientdomain.Client{},
				&rateconfigdomain.RateConfiguration{},
				&billingdomain.Record{},
				&paymentdomain.Payment{},
				&feedomain.Fee{},
				&messagedomain.Message{},
				&userdomain.User{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureDefaults(conn)
	}),
)
