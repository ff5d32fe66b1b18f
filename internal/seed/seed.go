package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/tubigan/waterworks/internal/client/domain"
	rateconfigdomain "github.com/tubigan/waterworks/internal/rateconfig/domain"
	userdomain "github.com/tubigan/waterworks/internal/user/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminFullName = "Waterworks Admin"
)

// EnsureDefaults seeds the rate configuration singleton and the
// bootstrap admin account on a fresh install.
func EnsureDefaults(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureRateConfigurationTx(ctx, tx); err != nil {
			return err
		}
		return ensureAdminUserTx(ctx, tx, node)
	})
}

func ensureRateConfigurationTx(ctx context.Context, tx *gorm.DB) error {
	var existing rateconfigdomain.RateConfiguration
	err := tx.WithContext(ctx).
		Where("id = ?", rateconfigdomain.SingletonID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rates := make(map[string]rateconfigdomain.Rate, len(clientdomain.Classifications))
	for _, classification := range clientdomain.Classifications {
		rates[string(classification)] = rateconfigdomain.Rate{}
	}
	row := rateconfigdomain.RateConfiguration{
		ID:        rateconfigdomain.SingletonID,
		Rates:     datatypes.NewJSONType(rates),
		UpdatedAt: time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&row).Error
}

func ensureAdminUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var existing userdomain.User
	err := tx.WithContext(ctx).
		Where("username = ?", defaultAdminUsername).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	user := userdomain.User{
		ID:        node.Generate(),
		Username:  defaultAdminUsername,
		FullName:  defaultAdminFullName,
		Office:    userdomain.OfficeAdmin,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&user).Error
}
