package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/artifacts"
	"cv-backend/internal/config"
	"cv-backend/internal/health"
	"cv-backend/internal/llm"
	"cv-backend/internal/llm/together"
	"cv-backend/internal/profiles"
	"cv-backend/internal/server"
	"cv-backend/internal/shared/storage/db"
	"cv-backend/internal/shared/storage/object/local"
	"cv-backend/internal/shared/storage/object/s3"
	"cv-backend/internal/shared/telemetry"
)

// App is a fully wired application instance.
type App struct {
	Router *gin.Engine
	DB     *sql.DB
}

// Close releases held resources.
func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

// Build wires the application from configuration. The completion client is
// chosen from config: Together when an API key is present, otherwise a
// placeholder that fails every structuring request.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	client, err := completionClient(cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithLLM(ctx, cfg, client)
}

// BuildWithLLM wires the application around a caller-supplied completion
// client. Tests use it to inject fakes.
func BuildWithLLM(ctx context.Context, cfg config.Config, client llm.CompletionClient) (*App, error) {
	artifactStore, err := buildArtifacts(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repo, database, err := buildRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service := profiles.NewService(&profiles.Structurer{Client: client}, artifactStore, repo)
	profilesHandler := profiles.NewHandler(service)
	healthHandler := health.NewHandler(artifactStore)

	return &App{
		Router: server.NewRouter(cfg, profilesHandler, healthHandler),
		DB:     database,
	}, nil
}

func completionClient(cfg config.Config) (llm.CompletionClient, error) {
	if cfg.TogetherAPIKey == "" {
		telemetry.Warn("bootstrap.llm_not_configured", map[string]any{
			"hint": "set TOGETHER_API_KEY to enable structuring",
		})
		return llm.PlaceholderClient{}, nil
	}
	client, err := together.NewClient(cfg.TogetherAPIKey, cfg.LLMModel)
	if err != nil {
		return nil, fmt.Errorf("together client: %w", err)
	}
	return client, nil
}

func buildArtifacts(ctx context.Context, cfg config.Config) (*artifacts.Store, error) {
	localStore := local.New(cfg.UploadDir, cfg.PublicBaseURL)

	var remote artifacts.RemoteStore
	if cfg.Storage.Configured() {
		s3Store, err := s3.New(ctx, s3.Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			// The local tier still works; start degraded rather than not at all.
			telemetry.Warn("bootstrap.object_store_unavailable", map[string]any{"err": err.Error()})
		} else {
			remote = s3Store
		}
	} else {
		telemetry.Info("bootstrap.object_store_not_configured", map[string]any{
			"upload_dir": cfg.UploadDir,
		})
	}

	return artifacts.New(remote, localStore), nil
}

func buildRepo(ctx context.Context, cfg config.Config) (profiles.Repo, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		if cfg.Env == "production" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required in production")
		}
		telemetry.Warn("bootstrap.using_memory_repo", map[string]any{
			"env":  cfg.Env,
			"hint": "set DATABASE_URL to persist submissions",
		})
		return profiles.NewMemoryRepo(), nil, nil
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.RunMigrations(ctx, database); err != nil {
		_ = database.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return &profiles.PGRepo{DB: database}, database, nil
}
