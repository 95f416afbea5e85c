package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"seo_content_automation_backend/cmd/api/config"
	"seo_content_automation_backend/internal/api"
	"seo_content_automation_backend/internal/auth"
	"seo_content_automation_backend/internal/broker"
	"seo_content_automation_backend/internal/database"
	"seo_content_automation_backend/internal/services"
	"seo_content_automation_backend/internal/wsocket"

	"github.com/gorilla/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"google.golang.org/api/option"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Environment check failed: %v", err)
	}

	ctx := context.Background()

	database.InitDB()

	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GoogleAIAPIKey))
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}
	defer genaiClient.Close()

	gcsService, err := services.NewGCSService(ctx)
	if err != nil {
		log.Fatalf("Failed to create GCS service: %v", err)
	}

	// Initialize internal services
	searchClient := services.NewSearchClient(cfg.SearchBaseURL, cfg.SearchAPIKey)
	sourceLoader := services.NewSourceLoader(cfg.ArxivBaseURL)

	researchService := services.NewResearchService(
		searchClient,
		sourceLoader,
		genaiClient.GenerativeModel(cfg.ResearchModel),
		cfg.MaxSources,
	)
	cacheService := services.NewResearchCacheService(
		services.NewResearchCacheDB(database.DB),
		cfg.CacheTTL,
		cfg.CacheExtendPeriod,
	)
	writerService := services.NewWriterService(
		genaiClient.GenerativeModel(cfg.WriterModel),
		cfg.MinWordCount,
		cfg.WriterRetries,
	)

	messageBroker := broker.NewBroker()

	workflowService := services.NewWorkflowService(
		researchService,
		cacheService,
		writerService,
		services.NewArticleServiceDB(database.DB),
		services.NewJobServiceDB(database.DB),
		services.NewExportService(),
		gcsService,
		messageBroker,
		cfg.GCSBucketName,
	)

	userService := services.NewUserService(database.DB)

	r := gin.Default()

	// CORS middleware configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// WebSocket upgrader
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // TODO: Implement a more secure check in production
		},
	}

	wsHandler := wsocket.NewHandler(workflowService, upgrader, 5*time.Second)

	api.SetupRoutes(r, workflowService, cacheService, sourceLoader, userService)
	auth.SetupRoutes(r, userService)

	// Job progress over WebSocket
	r.GET("/ws", auth.AuthMiddleware(userService), func(c *gin.Context) {
		user, _ := c.Get("user")
		wsHandler.HandleWebSocket(c.Writer, c.Request, user, messageBroker)
	})

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
