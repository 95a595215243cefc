// @title           GigExecs Backend API
// @version         1.0.0
// @description     Backend API for the GigExecs marketplace: multi-step wizards with server-side drafts for gig creation and onboarding, project lifecycle, uploads and reference data.

// @contact.name   API Support
// @contact.email  support@example.com

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gigexecs-backend/docs"
	"gigexecs-backend/internal/config"
	"gigexecs-backend/internal/database"
	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/functions"
	"gigexecs-backend/internal/handlers"
	"gigexecs-backend/internal/middleware"
	"gigexecs-backend/internal/reference"
	"gigexecs-backend/internal/services"
	"gigexecs-backend/internal/supabase"
	"gigexecs-backend/internal/wizard"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		logger.Println("Warning: DATABASE_URL not set. Migrations will be skipped and wizards cannot be submitted.")
	}

	// Create database client for direct queries
	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			logger.Printf("Warning: Failed to initialize database client: %v", err)
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(dbURL, logger)
			if err != nil {
				logger.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					logger.Printf("Warning: Migration failed: %v", err)
				} else {
					logger.Println("Migrations completed successfully")
				}
			}
		}
	}

	draftStore, closeDrafts := openDraftStore(cfg, logger)
	defer closeDrafts()

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey)
	if err != nil {
		logger.Fatalf("Failed to initialize storage client: %v", err)
	}

	functionsURL := cfg.FunctionsBaseURL
	if functionsURL == "" {
		functionsURL = strings.TrimRight(cfg.SupabaseURL, "/") + "/functions/v1"
	}
	functionsClient := functions.NewClient(functionsURL)

	catalog := reference.NewCatalog(supabaseClient, cfg.ReferenceCacheTTL)
	resolver := reference.NewResolver(catalog)

	registry, err := wizard.DefaultRegistry()
	if err != nil {
		logger.Fatalf("Failed to load wizard definitions: %v", err)
	}
	controller := wizard.NewController(registry, draftStore)
	coordinator := services.NewCoordinator(draftStore, services.NewLogReporter(logger), logger)

	uploadService := services.NewUploadService(storageClient, services.UploadBuckets{
		Attachments: cfg.AttachmentsBucket,
		Photos:      cfg.PhotosBucket,
		Logos:       cfg.LogosBucket,
	}, logger)

	submissions := map[string]handlers.SubmissionFactory{}
	if dbClient != nil {
		submissions[wizard.GigCreation] = func(userID uuid.UUID) services.Submission {
			return services.NewGigSubmission(userID, dbClient, resolver)
		}
		submissions[wizard.ProfessionalOnboarding] = func(userID uuid.UUID) services.Submission {
			return services.NewProfileSubmission(userID, dbClient, resolver)
		}
		submissions[wizard.ClientOnboarding] = func(userID uuid.UUID) services.Submission {
			return services.NewClientProfileSubmission(userID, dbClient, resolver, storageClient)
		}
	} else {
		logger.Println("Warning: Database not available. Wizard submissions and projects are disabled.")
	}

	// Initialize handlers
	var dbPinger handlers.Pinger
	if dbClient != nil {
		dbPinger = dbClient
	}
	healthHandler := handlers.NewHealthHandler(cfg.DraftStore, draftStore, dbPinger)
	wizardsHandler := handlers.NewWizardsHandler(controller, coordinator, submissions)
	onboardingHandler := handlers.NewOnboardingHandler(controller, functionsClient)
	referenceHandler := handlers.NewReferenceHandler(catalog)
	uploadsHandler := handlers.NewUploadsHandler(uploadService)
	externalGigsHandler := handlers.NewExternalGigsHandler(functionsClient, logger)

	// Setup router
	router := gin.New()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", healthHandler.Health)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	// Reference data
	api.GET("/reference/:kind", referenceHandler.ListReferences)

	// Wizards
	api.GET("/wizards", wizardsHandler.ListWizards)
	api.GET("/wizards/:wizard/steps/:step", wizardsHandler.EnterStep)
	api.POST("/wizards/:wizard/steps/:step/continue", wizardsHandler.ContinueStep)
	api.POST("/wizards/:wizard/steps/:step/back", wizardsHandler.BackStep)
	api.POST("/wizards/:wizard/steps/:step/skip", wizardsHandler.SkipStep)
	api.DELETE("/wizards/:wizard/draft", wizardsHandler.DiscardDraft)
	api.POST("/wizards/:wizard/submit", wizardsHandler.Submit)
	api.POST("/wizards/professional_onboarding/cv-import", onboardingHandler.ImportCV)

	// Projects
	if dbClient != nil {
		projectService := services.NewProjectService(dbClient, resolver, catalog, logger)
		projectsHandler := handlers.NewProjectsHandler(projectService)

		api.GET("/projects", projectsHandler.ListProjects)
		api.GET("/projects/:project_id", projectsHandler.GetProject)
		api.PUT("/projects/:project_id", projectsHandler.UpdateProject)
		api.GET("/projects/:project_id/bids", projectsHandler.ListBids)
		api.POST("/projects/:project_id/bids/:bid_id/award", projectsHandler.AwardBid)
		api.POST("/projects/:project_id/complete", projectsHandler.CompleteProject)
		api.POST("/projects/:project_id/cancel", projectsHandler.CancelProject)
	}

	// Uploads
	api.POST("/uploads/:kind", uploadsHandler.Upload)
	api.DELETE("/uploads", uploadsHandler.DeleteUpload)

	// External gigs
	api.POST("/external-gigs/:id/click", externalGigsHandler.TrackClick)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

// openDraftStore builds the configured draft backend. The returned func
// releases its connections.
func openDraftStore(cfg *config.Config, logger *log.Logger) (drafts.Store, func()) {
	switch cfg.DraftStore {
	case config.DraftStorePostgres:
		store, err := drafts.OpenPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("Failed to open postgres draft store: %v", err)
		}
		logger.Println("Drafts stored in postgres")
		return store, func() { _ = store.Close() }
	case config.DraftStoreMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client, err := drafts.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			logger.Fatalf("Failed to connect to mongo draft store: %v", err)
		}
		logger.Println("Drafts stored in mongo")
		store := drafts.NewMongoStore(client.Database(cfg.MongoDatabase), cfg.MongoDraftsCollection)
		return store, func() { _ = client.Disconnect(context.Background()) }
	default:
		logger.Println("Drafts stored in memory")
		return drafts.NewMemoryStore(), func() {}
	}
}

func corsConfig(origins []string) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}
