package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"authgate/internal/api"
	"authgate/internal/auth"
	"authgate/internal/biz"
	"authgate/internal/conf"
	"authgate/internal/data"
	"authgate/internal/server"
	"authgate/internal/service"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// load config
	cfg, err := conf.Load(flagconf)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// data 层
	var store biz.SessionStore
	switch cfg.Store.Driver {
	case "sqlite":
		sqliteStore, err := data.NewSQLiteSessionStore(cfg.Store.Path)
		if err != nil {
			logger.Error("failed to init session store", "error", err)
			os.Exit(1)
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		store = data.NewMemorySessionStore()
	}

	gateway, err := data.NewIdentityGateway(cfg.Identity, nil, logger)
	if err != nil {
		logger.Error("failed to init identity gateway", "error", err)
		os.Exit(1)
	}

	// biz 层
	ports := service.NewHostPorts(logger)
	router := biz.NewSessionRouter(store, ports, ports, logger)
	controller := biz.NewController(gateway, router, logger)

	// service 层
	gateService := service.NewGateService(controller, store, ports)

	// api 层
	gateHandler := api.NewGateHandler(gateService, logger)

	var authHandler *api.AuthHandler
	if cfg.Google.Enabled {
		redirectURL := cfg.Google.GetRedirectURL(cfg.Server.BaseURL)
		signIn, err := auth.NewGoogleSignIn(ctx, &cfg.Google, redirectURL)
		if err != nil {
			logger.Error("failed to init Google sign-in", "error", err)
			os.Exit(1)
		}
		adapter := auth.NewGoogleOAuthAdapter(controller)
		authHandler = api.NewAuthHandler(signIn, adapter, gateService, api.NewStateStore(ctx), cfg.Server.FrontendURL, logger)
		logger.Info("Google sign-in enabled", "redirect_url", redirectURL)
	} else {
		logger.Info("Google sign-in disabled")
	}

	handler := api.NewRouter(gateHandler, authHandler)

	logger.Info("identity backend", "base_url", cfg.Identity.BaseURL, "store", cfg.Store.Driver)
	if err := server.Run(ctx, cfg.Server.Addr, handler, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
