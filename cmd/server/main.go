package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"github.com/tekions/clubhub-backend/internal/bootstrap"
	"github.com/tekions/clubhub-backend/internal/config"
	"github.com/tekions/clubhub-backend/internal/handler"
	"github.com/tekions/clubhub-backend/internal/middleware"
	"github.com/tekions/clubhub-backend/internal/repository"
	"github.com/tekions/clubhub-backend/internal/service"
	"github.com/tekions/clubhub-backend/pkg/database"
	"github.com/tekions/clubhub-backend/pkg/mailer"
	"github.com/tekions/clubhub-backend/pkg/storage"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}
	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	redisClient := connectRedis(cfg.RedisURL)

	meiliHost := cfg.MeiliSearchHost
	if !strings.HasPrefix(meiliHost, "http") {
		meiliHost = "http://" + meiliHost + ":7700"
	}
	meiliClient := meilisearch.New(meiliHost, meilisearch.WithAPIKey(cfg.MeiliMasterKey))

	imageStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	var genaiClient *genai.Client
	if cfg.GeminiAPIKey != "" {
		genaiClient, err = genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Printf("Gemini client unavailable, suggestions run without AI refinement: %v", err)
			genaiClient = nil
		}
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	clubRepo := repository.NewClubRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	leaderboardRepo := repository.NewLeaderboardRepository(db)

	// Services
	mail := mailer.NewSMTPMailer()
	authService := service.NewAuthService(userRepo, tokenRepo, mail)
	searchService := service.NewSearchService(meiliClient)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo)
	notificationService := service.NewNotificationService(notificationRepo, redisClient)
	clubService := service.NewClubService(clubRepo, membershipRepo, leaderboardService, notificationService, searchService, imageStorage, redisClient, cfg.RateLimitClubCreate, cfg.RateLimitJoinReq)
	eventService := service.NewEventService(eventRepo, clubRepo, membershipRepo, leaderboardService)
	announcementService := service.NewAnnouncementService(announcementRepo, clubRepo, membershipRepo)
	addressService := service.NewAddressService(addressRepo)
	sheetService := service.NewSheetService(clubRepo, redisClient, cfg.EventSheetURL, cfg.AnnouncementSheetURL, cfg.SheetCacheTTL)
	suggestionService := service.NewSuggestionService(clubRepo, eventRepo, genaiClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	clubHandler := handler.NewClubHandler(clubService, searchService)
	eventHandler := handler.NewEventHandler(eventService, sheetService)
	announcementHandler := handler.NewAnnouncementHandler(announcementService, sheetService)
	addressHandler := handler.NewAddressHandler(addressService)
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	suggestionHandler := handler.NewSuggestionHandler(suggestionService)
	notificationHandler := handler.NewNotificationHandler(notificationService, redisClient)

	authMiddleware := middleware.NewAuthMiddleware()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.GET("/verify-email", authHandler.VerifyEmail)
			auth.POST("/login", authHandler.Login)
		}

		// Public reads
		api.GET("/clubs", clubHandler.GetClubs)
		api.GET("/clubs/search-token", clubHandler.SearchToken)
		api.GET("/clubs/:id", clubHandler.GetClub)
		api.GET("/clubs/:id/members", clubHandler.ListMembers)
		api.GET("/events", eventHandler.GetEvents)
		api.GET("/events/csv", eventHandler.GetSheetEvents)
		api.GET("/events/:id", eventHandler.GetEvent)
		api.GET("/announcements", announcementHandler.GetAnnouncements)
		api.GET("/announcements/csv", announcementHandler.GetSheetAnnouncements)
		api.GET("/announcements/:id", announcementHandler.GetAnnouncement)
		api.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		profile := protected.Group("/profile")
		{
			profile.GET("/me", authHandler.GetMe)
			profile.PUT("", authHandler.UpdateProfile)
		}

		protected.POST("/clubs", clubHandler.CreateClub)
		protected.PUT("/clubs/:id", clubHandler.UpdateClub)
		protected.DELETE("/clubs/:id", clubHandler.DeleteClub)
		protected.POST("/clubs/:id/logo", clubHandler.UploadLogo)

		protected.POST("/clubs/:id/join", clubHandler.Join)
		protected.DELETE("/clubs/:id/join", clubHandler.Leave)
		protected.GET("/clubs/:id/requests", clubHandler.ListRequests)
		protected.POST("/clubs/:id/requests", clubHandler.RequestMembership)
		protected.PATCH("/clubs/:id/requests/:requestId", clubHandler.ResolveRequest)
		protected.PATCH("/clubs/:id/members/:memberId", clubHandler.UpdateMemberRole)
		protected.DELETE("/clubs/:id/members/:memberId", clubHandler.RemoveMember)

		protected.POST("/events", eventHandler.CreateEvent)
		protected.PUT("/events/:id", eventHandler.UpdateEvent)
		protected.DELETE("/events/:id", eventHandler.DeleteEvent)

		protected.POST("/announcements", announcementHandler.CreateAnnouncement)
		protected.PUT("/announcements/:id", announcementHandler.UpdateAnnouncement)
		protected.DELETE("/announcements/:id", announcementHandler.DeleteAnnouncement)

		addresses := protected.Group("/user/addresses")
		{
			addresses.GET("", addressHandler.GetAddresses)
			addresses.POST("", addressHandler.CreateAddress)
			addresses.PUT("/:id", addressHandler.UpdateAddress)
			addresses.DELETE("/:id", addressHandler.DeleteAddress)
		}

		protected.POST("/suggestions", suggestionHandler.Suggest)

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/:id/read", notificationHandler.MarkAsRead)
			notifications.POST("/read-all", notificationHandler.MarkAllAsRead)
			notifications.GET("/stream", notificationHandler.Stream)
		}
	}

	startBackgroundJobs(cfg, sheetService, tokenRepo)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func connectRedis(redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("REDIS_URL not set, rate limiting and live notifications disabled")
		return nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, continuing without redis: %v", err)
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unreachable, continuing without redis: %v", err)
		return nil
	}

	return client
}

func startBackgroundJobs(cfg *config.Config, sheetService service.SheetService, tokenRepo repository.TokenRepository) {
	// Sheet feed refresh
	go func() {
		ticker := time.NewTicker(cfg.SheetRefreshInterval)
		defer ticker.Stop()

		for range ticker.C {
			sheetService.Refresh(context.Background())
		}
	}()

	// Expired verification token cleanup
	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			deleted, err := tokenRepo.DeleteExpired(context.Background())
			if err != nil {
				log.Printf("Failed to clean up expired verification tokens: %v", err)
				continue
			}
			if deleted > 0 {
				log.Printf("Cleaned up %d expired verification tokens", deleted)
			}
		}
	}()
}
