// README: Entry point; loads config, wires services, serves the HTTP API until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"vtc/internal/app"
	"vtc/internal/config"
	httptransport "vtc/internal/http"
	"vtc/internal/infra"
	"vtc/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("ERROR", "json").Error("load config", "error", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("wire services", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	deps := httptransport.RouterDeps{
		Estimator: svc.Estimate,
		Pricer:    svc.Pricing,
		Catalog:   svc.Catalog,
		Places:    svc.Resolver,
		Log:       log,
	}
	if cfg.Firebase.ProjectID != "" {
		verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Error("firebase init", "error", err)
			os.Exit(1)
		}
		deps.Trips = svc.Trips
		deps.Verifier = verifier
	} else {
		log.Warn("VTC_FIREBASE_PROJECT_ID not set, trip routes disabled")
	}

	server := httptransport.NewServer(cfg.HTTP.Addr, httptransport.NewRouter(deps), log)
	if err := server.Run(ctx); err != nil {
		log.Error("http server", "error", err)
		os.Exit(1)
	}
}
