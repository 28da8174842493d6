// README: Entry point; loads config, wires clients and services with fx, runs the HTTP server.
package main

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"wayfare/internal/config"
	httptransport "wayfare/internal/http"
	"wayfare/internal/modules/aiusage"
	"wayfare/internal/modules/assistant"
	"wayfare/internal/modules/profile"
	"wayfare/internal/modules/search"
	"wayfare/internal/modules/trip"
)

func main() {
	fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.StopTimeout(15*time.Second),

		fx.Provide(
			config.Load,
			provideLogger,
			provideFirebaseApp,
			provideVerifier,
			provideGeocoder,
			provideAmadeus,
			provideCompleter,
			provideUsageCounter,
			provideStores,

			search.NewService,
			assistant.NewService,
			trip.NewService,
			profile.NewService,
			func(c aiusage.Counter, cfg config.Config) *aiusage.Service {
				return aiusage.NewService(c, cfg.Chat.MonthlyQuota)
			},

			provideRouter,
			provideServer,
		),
		fx.Invoke(startServer),
	).Run()
}

func startServer(lc fx.Lifecycle, srv *httptransport.Server, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
