package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hnam209/studypilot/config"
	"github.com/hnam209/studypilot/database"
	_ "github.com/hnam209/studypilot/docs" // Swagger docs
	"github.com/hnam209/studypilot/internal/controller"
	"github.com/hnam209/studypilot/internal/logger"
	"github.com/hnam209/studypilot/internal/model"
	"github.com/hnam209/studypilot/internal/repository"
	"github.com/hnam209/studypilot/internal/retrieval"
	"github.com/hnam209/studypilot/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title StudyPilot API
// @version 1.0
// @description Quiz generation and personalized study-notes API. Documents go in pre-chunked, quizzes are generated from them, and notes are synthesized from quiz performance.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
			NewVectorIndex,
			func(idx retrieval.VectorIndex) retrieval.Retriever { return idx },
			func(idx retrieval.VectorIndex) retrieval.Indexer { return idx },
		),

		// Repositories layer
		fx.Provide(NewRepositories),

		// Services layer
		fx.Provide(
			service.NewGeminiLLMService,
			service.NewPerformanceAnalyzer,
			service.NewStudyPlanner,
			service.NewContentAggregator,
			service.NewNotesSynthesizer,
			service.NewNotesService,
			service.NewQuizService,
			service.NewDocumentService,
		),

		// API controllers layer
		fx.Provide(controller.NewController),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// NewVectorIndex selects the vector index implementation. The memory storage
// backend gets the in-process index so the whole stack runs without external
// services; otherwise chunks are embedded via Gemini and stored in Pinecone.
func NewVectorIndex(cfg *config.Config) (retrieval.VectorIndex, error) {
	if cfg.Storage == "memory" {
		log.Info().Msg("Memory storage backend selected, using in-memory vector index")
		return retrieval.NewMemoryIndex(), nil
	}

	client, err := retrieval.NewPineconeClient(retrieval.PineconeConfig{APIKey: cfg.Pinecone.ApiKey})
	if err != nil {
		return nil, err
	}
	embedder, err := retrieval.NewGeminiEmbedder(context.Background(), cfg.GeminiApiKey)
	if err != nil {
		return nil, err
	}
	return retrieval.NewPineconeIndex(context.Background(), client, embedder, cfg.Pinecone.IndexName, cfg.Pinecone.IndexHost)
}

// NewRepositories selects the persistence backend per STORAGE_BACKEND.
func NewRepositories(cfg *config.Config, db *gorm.DB) (
	repository.DocumentRepository,
	repository.QuizRepository,
	repository.AttemptRepository,
	repository.NotesRepository,
) {
	if cfg.Storage == "memory" {
		store := repository.NewMemoryStore()
		return store.Documents(), store.Quizzes(), store.Attempts(), store.Notes()
	}
	return repository.NewDocumentRepository(db),
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewNotesRepository(db)
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	ctrl *controller.Controller,
) {
	ctrl.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("StudyPilot API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	if db == nil {
		log.Info().Msg("Memory storage backend selected, skipping migrations")
		return nil
	}
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Document{},
		&model.Quiz{},
		&model.Question{},
		&model.QuizAttempt{},
		&model.StudyNotes{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
