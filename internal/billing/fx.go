package billing

import (
	"github.com/tubigan/waterworks/internal/billing/repository"
	"github.com/tubigan/waterworks/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
