package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingConfig holds the operational billing defaults that treasurers tune
// per deployment without a rebuild.
type BillingConfig struct {
	// FreeCubic is the consumption allowance (in cubic meters) covered by the
	// minimum charge when a record does not carry its own allowance.
	FreeCubic float64 `mapstructure:"freeCubic"`
	// StrictRates makes billing generation fail when a classification has no
	// configured rate instead of billing at zero.
	StrictRates bool `mapstructure:"strictRates"`
	// DueDay is the day of month printed on statements as the payment deadline.
	DueDay int `mapstructure:"dueDay"`
}

func DefaultBillingConfig() BillingConfig {
	return BillingConfig{
		FreeCubic:   10,
		StrictRates: false,
		DueDay:      20,
	}
}

// BillingConfigHolder exposes the current billing defaults and hot-reloads
// them when the config file changes.
type BillingConfigHolder struct {
	current atomic.Value // holds BillingConfig
}

func NewBillingConfigHolder() (*BillingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/waterworks/config")
	v.AddConfigPath("/etc/waterworks")
	v.AddConfigPath(".")

	v.SetEnvPrefix("WATERWORKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingConfig()
	v.SetDefault("billing.freeCubic", defaults.FreeCubic)
	v.SetDefault("billing.strictRates", defaults.StrictRates)
	v.SetDefault("billing.dueDay", defaults.DueDay)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg BillingConfig
	if err := v.UnmarshalKey("billing", &cfg); err != nil {
		return nil, err
	}
	if err := validateBillingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingConfig
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-config] reload failed: %v", err)
			return
		}
		if err := validateBillingConfig(updated); err != nil {
			log.Printf("[billing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingConfigHolder) Get() BillingConfig {
	return h.current.Load().(BillingConfig)
}

// StaticBillingConfig wraps a fixed config without file watching. Used by
// tests and one-shot tools.
func StaticBillingConfig(cfg BillingConfig) *BillingConfigHolder {
	holder := &BillingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateBillingConfig(cfg BillingConfig) error {
	if cfg.FreeCubic < 0 {
		return errors.New("billing.freeCubic cannot be negative")
	}
	if cfg.DueDay < 1 || cfg.DueDay > 28 {
		return errors.New("billing.dueDay must be between 1 and 28")
	}
	return nil
}
