package fee

import (
	"github.com/tubigan/waterworks/internal/fee/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fee.service",
	fx.Provide(service.New),
)
