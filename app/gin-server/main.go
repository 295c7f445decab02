package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/adit-wn/teamlane/config"
	"github.com/adit-wn/teamlane/internal/api/handlers"
	"github.com/adit-wn/teamlane/internal/api/middleware"
	"github.com/adit-wn/teamlane/internal/api/routes"
	"github.com/adit-wn/teamlane/internal/cache"
	"github.com/adit-wn/teamlane/internal/logger"
	"github.com/adit-wn/teamlane/internal/models"
	"github.com/adit-wn/teamlane/internal/providers/embedding"
	"github.com/adit-wn/teamlane/internal/providers/explain"
	mongorepo "github.com/adit-wn/teamlane/internal/repositories/mongo"
	pgrepo "github.com/adit-wn/teamlane/internal/repositories/postgres"
	"github.com/adit-wn/teamlane/internal/services"
	"github.com/adit-wn/teamlane/internal/workers"
)

func main() {
	_ = godotenv.Load()

	log := logger.New()
	ctx := context.Background()

	// Postgres
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("postgres init failed")
	}
	if err := config.MigratePostgres(); err != nil {
		log.WithError(err).Fatal("postgres migration failed")
	}
	log.Info("postgres connected")

	// Redis
	if err := config.InitRedis(); err != nil {
		log.WithError(err).Fatal("redis init failed")
	}
	log.Info("redis connected")

	// Mongo audit store is optional
	var audit mongorepo.AuditRepository
	if os.Getenv("MONGO_URI") != "" {
		if err := config.InitMongo(); err != nil {
			log.WithError(err).Fatal("mongo init failed")
		}
		db := config.MongoClient.Database(envOr("MONGO_DB", "teamlane"))
		if err := config.EnsureMongoIndexes(db); err != nil {
			log.WithError(err).Warn("mongo index creation failed")
		}
		audit = mongorepo.NewAuditRepo(db)
		log.Info("mongo connected")
	} else {
		log.Warn("MONGO_URI not set, match audit log disabled")
	}

	// Providers: Vertex AI when configured, local fallbacks otherwise so the
	// pipeline stays runnable in development.
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	var embedder embedding.Provider
	var explainer explain.Provider
	if projectID := os.Getenv("VERTEX_PROJECT_ID"); projectID != "" {
		location := envOr("VERTEX_LOCATION", "us-central1")

		v, err := embedding.NewVertex(ctx, projectID, location, os.Getenv("VERTEX_EMBED_MODEL"), models.EmbeddingDim, opts...)
		if err != nil {
			log.WithError(err).Fatal("vertex embedding init failed")
		}
		defer v.Close()
		embedder = v

		g, err := explain.NewVertexGemini(ctx, projectID, location, os.Getenv("VERTEX_GEMINI_MODEL"), opts...)
		if err != nil {
			log.WithError(err).Fatal("vertex gemini init failed")
		}
		defer g.Close()
		explainer = g

		log.WithField("embed_model", v.Model()).Info("vertex providers ready")
	} else {
		embedder = embedding.NewHash(models.EmbeddingDim)
		log.Warn("VERTEX_PROJECT_ID not set, using local hash embedder and no explanation provider")
	}

	// Repositories
	candidateRepo := pgrepo.NewCandidateRepo(config.PostgresDB)
	projectRepo := pgrepo.NewProjectRepo(config.PostgresDB)
	embeddingRepo := pgrepo.NewEmbeddingRepo(config.PostgresDB)
	scoreRepo := pgrepo.NewMatchScoreRepo(config.PostgresDB)

	snapshots := cache.NewRedisCache(config.RedisClient)
	queue := services.NewRedisMatchQueue(config.RedisClient)

	// Services
	embeddingSvc := services.NewEmbeddingService(embedder, embeddingRepo,
		envDuration("EMBED_TIMEOUT", 20*time.Second), logger.Component(log, "embeddings"))

	matchSvc := services.NewMatchService(services.MatchServiceDeps{
		Candidates:     candidateRepo,
		Projects:       projectRepo,
		Scores:         scoreRepo,
		Embeddings:     embeddingSvc,
		Explainer:      explainer,
		Audit:          audit,
		Snapshots:      snapshots,
		Logger:         logger.Component(log, "match"),
		ExplainTimeout: envDuration("EXPLAIN_TIMEOUT", 30*time.Second),
	})

	authSvc := services.NewAuthService(candidateRepo, os.Getenv("JWT_SECRET"), envDuration("JWT_TTL", 24*time.Hour))
	candidateSvc := services.NewCandidateService(candidateRepo, embeddingRepo, scoreRepo, snapshots, queue, logger.Component(log, "candidates"))
	projectSvc := services.NewProjectService(projectRepo, embeddingRepo, scoreRepo, snapshots, queue, logger.Component(log, "projects"))

	// Background precompute workers
	pool := &workers.MatchWorkerPool{
		Redis:      config.RedisClient,
		Matches:    matchSvc,
		NumWorkers: envInt("MATCH_WORKERS", 3),
		Logger:     log,
	}
	if err := pool.Start(ctx); err != nil {
		log.WithError(err).Fatal("worker pool start failed")
	}

	// HTTP
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	routes.RegisterRoutes(r, routes.Deps{
		JWTSecret: os.Getenv("JWT_SECRET"),
		Auth:      handlers.NewAuthHandler(authSvc),
		Profile:   handlers.NewProfileHandler(candidateSvc),
		Project:   handlers.NewProjectHandler(projectSvc),
		Match:     handlers.NewMatchHandler(matchSvc, projectSvc, queue, audit),
		WS:        handlers.NewWSHandler(config.RedisClient, queue, os.Getenv("WS_ALLOWED_ORIGIN")),
	})

	port := envOr("PORT", "8080")
	if err := r.Run(":" + port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
