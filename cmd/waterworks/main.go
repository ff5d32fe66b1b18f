package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tubigan/waterworks/internal/config"
	"github.com/tubigan/waterworks/internal/migration"
	obsmetrics "github.com/tubigan/waterworks/internal/observability/metrics"
	"github.com/tubigan/waterworks/internal/server"
	"github.com/tubigan/waterworks/pkg/db"
	"github.com/tubigan/waterworks/pkg/log"
	"github.com/tubigan/waterworks/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		obsmetrics.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
		fx.Invoke(telemetry.NewTracerProvider),
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
