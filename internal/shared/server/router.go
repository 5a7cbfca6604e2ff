package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/detector/hivevlm"
	"casefile-backend/internal/detector/sightengine"
	"casefile-backend/internal/evidence"
	"casefile-backend/internal/notes"
	"casefile-backend/internal/reports"
	"casefile-backend/internal/shared/config"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/server/middleware"
	"casefile-backend/internal/shared/server/respond"
	"casefile-backend/internal/shared/storage/db"
	"casefile-backend/internal/shared/storage/object"
	"casefile-backend/internal/shared/storage/object/local"
	"casefile-backend/internal/shared/storage/object/s3"
	"casefile-backend/internal/shared/telemetry"
	"casefile-backend/internal/vision"
)

// NewRouter builds the HTTP router with all routes and middleware wired.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	caseRepo, evidenceRepo, noteRepo, err := buildRepos(cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildObjectStore(cfg)
	if err != nil {
		return nil, err
	}

	evidenceService := &evidence.Service{Repo: evidenceRepo, Store: store}
	caseService := &cases.Service{Repo: caseRepo}

	agent := &vision.Agent{
		Detector: sightengine.New(cfg.SightEngineUser, cfg.SightEngineSecret),
		Model:    hivevlm.New(cfg.HiveAPIKey, cfg.HiveBaseURL, cfg.HiveModel),
		Timeout:  cfg.VLMTimeout,
		Env:      cfg.Env,
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Env, cfg.APIToken))
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"ANALYZE": {Rate: 0.2, Burst: 3},
			"DEFAULT": {Rate: 5, Burst: 20},
		},
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/api/v1/evidence/:id/analyze" {
				return "ANALYZE"
			}
			return "DEFAULT"
		},
	}))

	(&cases.Handler{Service: caseService}).Register(api)
	(&evidence.Handler{Service: evidenceService, Cases: caseRepo}).Register(api)
	(&notes.Handler{Repo: noteRepo, Cases: caseRepo}).Register(api)
	(&vision.Handler{Agent: agent, Evidence: evidenceService, Env: cfg.Env}).Register(api)
	(&reports.Handler{Evidence: evidenceService, Cases: caseRepo}).Register(api)

	return r, nil
}

// buildRepos connects to Postgres when DATABASE_URL is set, otherwise serves
// from in-memory repositories. Production requires the database.
func buildRepos(cfg config.Config) (cases.Repo, evidence.Repo, notes.Repo, error) {
	if cfg.DatabaseURL == "" {
		telemetry.Warn("storage.memory", map[string]any{
			"reason": "DATABASE_URL not set, using in-memory repositories",
		})
		return cases.NewMemoryRepo(), evidence.NewMemoryRepo(), notes.NewMemoryRepo(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, nil, nil, err
	}
	return cases.NewPGRepo(database), evidence.NewPGRepo(database), notes.NewPGRepo(database), nil
}

func buildObjectStore(cfg config.Config) (object.ObjectStore, error) {
	if cfg.ObjectStoreType == "s3" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s3.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	}
	return local.New(cfg.LocalStoreDir), nil
}

// Addr returns the listen address for the configured port.
func Addr(cfg config.Config) string {
	return ":" + cfg.Port
}

// Serve runs the HTTP server until it fails.
func Serve(cfg config.Config) error {
	r, err := NewRouter(cfg)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              Addr(cfg),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	telemetry.Info("server.listen", map[string]any{"addr": srv.Addr, "env": cfg.Env})
	return srv.ListenAndServe()
}
