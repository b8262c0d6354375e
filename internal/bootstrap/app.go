package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"signflow-backend/internal/analysis"
	"signflow-backend/internal/assistant"
	"signflow-backend/internal/compliance"
	"signflow-backend/internal/documents"
	"signflow-backend/internal/knowledge"
	openaiknowledge "signflow-backend/internal/knowledge/openai"
	"signflow-backend/internal/services/health"
	"signflow-backend/internal/shared/config"
	"signflow-backend/internal/shared/server"
	"signflow-backend/internal/shared/storage/db"
	"signflow-backend/internal/shared/storage/object"
	localstore "signflow-backend/internal/shared/storage/object/local"
	s3store "signflow-backend/internal/shared/storage/object/s3"
	"signflow-backend/internal/shared/telemetry"
	"signflow-backend/internal/workflow"
)

// App holds shared dependencies wired at startup.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	DocumentsRepo documents.Repo
	AnalysisRepo  analysis.Repo

	DocumentsService *documents.Service
	AnalysisService  *analysis.Service
	Optimizer        *workflow.Optimizer
	Compliance       *compliance.Engine
	Responder        *assistant.Responder

	DocumentsHandler  *documents.Handler
	AnalysisHandler   *analysis.Handler
	WorkflowHandler   *workflow.Handler
	ComplianceHandler *compliance.Handler
	AssistantHandler  *assistant.Handler
}

// Build prepares all dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Health:            health.NewService(app.DB),
		DocumentsHandler:  app.DocumentsHandler,
		AnalysisHandler:   app.AnalysisHandler,
		WorkflowHandler:   app.WorkflowHandler,
		ComplianceHandler: app.ComplianceHandler,
		AssistantHandler:  app.AssistantHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "migrations failed", "error": err.Error()})
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildKnowledge(cfg config.Config) knowledge.Client {
	if cfg.KnowledgeProvider != "openai" {
		return nil
	}
	timeout := time.Duration(cfg.KnowledgeTimeoutSeconds) * time.Second
	client, err := openaiknowledge.NewClient(cfg.OpenAIAPIKey, cfg.KnowledgeModel, timeout)
	if err != nil {
		telemetry.Warn("bootstrap.knowledge_disabled", map[string]any{"error": err.Error()})
		return nil
	}
	return client
}

func buildServices(app *App) error {
	var docRepo documents.Repo
	var analysisRepo analysis.Repo
	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		analysisRepo = &analysis.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		analysisRepo = analysis.NewMemoryRepo()
	}

	kn := buildKnowledge(app.Config)

	classifier, err := analysis.NewClassifier(kn)
	if err != nil {
		return err
	}
	engine, err := compliance.NewEngine(compliance.Config{})
	if err != nil {
		return err
	}

	docSvc := &documents.Service{Store: app.Store, Repo: docRepo}
	analysisSvc := analysis.NewService(analysisRepo, docRepo, app.Store, classifier, engine)
	optimizer := workflow.NewOptimizer(workflow.OptimizerConfig{})
	responder := assistant.NewResponder(kn)

	app.DocumentsRepo = docRepo
	app.AnalysisRepo = analysisRepo
	app.DocumentsService = docSvc
	app.AnalysisService = analysisSvc
	app.Optimizer = optimizer
	app.Compliance = engine
	app.Responder = responder

	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AnalysisHandler = analysis.NewHandler(analysisSvc)
	app.WorkflowHandler = workflow.NewHandler(optimizer, analysisRepo)
	app.ComplianceHandler = compliance.NewHandler(engine, docRepo, app.Store)
	app.AssistantHandler = assistant.NewHandler(responder)

	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
