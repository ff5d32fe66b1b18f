package rateconfig

import (
	"github.com/tubigan/waterworks/internal/rateconfig/repository"
	"github.com/tubigan/waterworks/internal/rateconfig/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rateconfig.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
