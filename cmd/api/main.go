package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "gogo_hotel/internal/adapters/http_server"
	"gogo_hotel/internal/adapters/observability"
	redisad "gogo_hotel/internal/adapters/redis"
	"gogo_hotel/internal/adapters/storefront"
	"gogo_hotel/internal/app"
	"gogo_hotel/internal/shared"
	mysqlstore "gogo_hotel/internal/storage/mysql"
)

const purgeEvery = time.Hour

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// durable "remember me" store
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	durable := mysqlstore.New(db, cfg.RememberTTL)
	go purgeLoop(ctx, durable)

	// session-scoped store
	scoped := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.SessionTTL)
	if err := scoped.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis ping failed")
	}
	defer scoped.Close()

	client, err := storefront.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("storefront client")
	}

	catalog := app.NewCatalogService(client)
	sessions := app.NewSessionAccessor(durable, scoped)

	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:  catalog,
		Pages:    app.NewPageRegistry(catalog, app.PageOptions{IdleTTL: cfg.PageIdle, Location: cfg.HotelTZ}),
		Accounts: app.NewAccountService(client, sessions),
		Bookings: client,
		Cookies:  server.CookieOptions{Secure: cfg.CookieSecure, RememberFor: cfg.RememberTTL},
	})

	log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBase).Str("tz", cfg.HotelTZ.String()).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	_ = db.Close()
	log.Info().Msg("bye")
}

// purgeLoop drops expired remembered sessions until ctx ends.
func purgeLoop(ctx context.Context, st *mysqlstore.Store) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := st.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purge expired sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("rows", n).Msg("expired sessions purged")
			}
		}
	}
}
