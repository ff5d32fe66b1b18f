package client

import (
	"github.com/tubigan/waterworks/internal/client/repository"
	"github.com/tubigan/waterworks/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
