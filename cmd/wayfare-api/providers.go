package main

import (
	"context"
	"io"
	"net/http"

	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"wayfare/internal/ai"
	"wayfare/internal/amadeus"
	"wayfare/internal/config"
	httptransport "wayfare/internal/http"
	"wayfare/internal/infra"
	"wayfare/internal/maps"
	"wayfare/internal/modules/aiusage"
	"wayfare/internal/modules/assistant"
	"wayfare/internal/modules/profile"
	"wayfare/internal/modules/search"
	"wayfare/internal/modules/trip"
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	log, err := infra.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() { _ = log.Sync() }))
	return log, nil
}

func provideFirebaseApp(cfg config.Config) (*firebase.App, error) {
	return infra.NewFirebaseApp(context.Background(), cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
}

func provideVerifier(app *firebase.App) (infra.TokenVerifier, error) {
	return infra.NewFirebaseVerifier(context.Background(), app)
}

// provideGeocoder returns nil when no Maps key is configured; the Amadeus client then
// reports cities without coordinates as not found.
func provideGeocoder(cfg config.Config, log *zap.Logger) (amadeus.Geocoder, error) {
	if cfg.Maps.APIKey == "" {
		log.Info("geocoding fallback disabled")
		return nil, nil
	}
	g, err := maps.NewGeocoder(cfg.Maps.APIKey)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func provideAmadeus(cfg config.Config, geocoder amadeus.Geocoder) (search.Provider, error) {
	c, err := amadeus.NewClient(amadeus.Config{
		BaseURL:           cfg.Amadeus.BaseURL,
		ClientID:          cfg.Amadeus.ClientID,
		ClientSecret:      cfg.Amadeus.ClientSecret,
		RequestsPerSecond: cfg.Amadeus.RequestsPerSecond,
		HTTPClient:        http.DefaultClient,
		Geocoder:          geocoder,
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func provideCompleter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (ai.Completer, error) {
	key := cfg.Chat.OpenAIKey
	if cfg.Chat.Provider == config.ChatGemini {
		key = cfg.Chat.GeminiKey
	}
	c, err := ai.NewCompleter(context.Background(), cfg.Chat.Provider, key, cfg.Chat.Model)
	if err != nil {
		return nil, err
	}
	if closer, ok := c.(io.Closer); ok {
		lc.Append(fx.StopHook(closer.Close))
	}
	log.Info("chat backend ready", zap.String("backend", c.Name()))
	return c, nil
}

// provideUsageCounter returns an untyped nil Counter when metering is off so that
// aiusage.Service.Enabled reports false.
func provideUsageCounter(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (aiusage.Counter, error) {
	if !cfg.QuotaEnabled() {
		log.Info("chat quota disabled")
		return nil, nil
	}
	rdb, err := infra.NewRedis(context.Background(), cfg.Redis.Addr)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(rdb.Close))
	log.Info("chat quota enabled", zap.Int("monthly_quota", cfg.Chat.MonthlyQuota))
	return aiusage.NewStore(rdb), nil
}

type storesOut struct {
	fx.Out

	Trips    trip.Store
	Profiles profile.Store
}

// provideStores opens the configured document backend and returns both module stores on it.
func provideStores(lc fx.Lifecycle, cfg config.Config, app *firebase.App, log *zap.Logger) (storesOut, error) {
	ctx := context.Background()
	switch cfg.Store.Backend {
	case config.StorePostgres:
		db, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return storesOut{}, err
		}
		lc.Append(fx.StopHook(db.Close))
		if cfg.DB.Migrate {
			if err := infra.Migrate(ctx, db, cfg.DB.MigrationsDir); err != nil {
				db.Close()
				return storesOut{}, err
			}
			log.Info("migrations applied", zap.String("dir", cfg.DB.MigrationsDir))
		}
		return storesOut{Trips: trip.NewPostgresStore(db), Profiles: profile.NewPostgresStore(db)}, nil
	default:
		client, err := infra.NewFirestore(ctx, app)
		if err != nil {
			return storesOut{}, err
		}
		lc.Append(fx.StopHook(client.Close))
		return storesOut{Trips: trip.NewFirestoreStore(client), Profiles: profile.NewFirestoreStore(client)}, nil
	}
}

type routerIn struct {
	fx.In

	Log       *zap.Logger
	Verifier  infra.TokenVerifier
	Search    *search.Service
	Assistant *assistant.Service
	Usage     *aiusage.Service
	Trips     *trip.Service
	Profiles  *profile.Service
}

func provideRouter(cfg config.Config, in routerIn) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httptransport.NewRouter(httptransport.RouterDeps{
		Log:       in.Log,
		Verifier:  in.Verifier,
		Search:    in.Search,
		Assistant: in.Assistant,
		Usage:     in.Usage,
		Trips:     in.Trips,
		Profiles:  in.Profiles,
	})
}

func provideServer(cfg config.Config, engine *gin.Engine, log *zap.Logger) *httptransport.Server {
	return httptransport.NewServer(httptransport.ServerConfig{
		Addr:        cfg.HTTP.Addr,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	}, engine, log)
}
