package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"streakup/handlers"
	"streakup/middleware"
	"streakup/models"
	"streakup/services"
	"streakup/utils"
	"streakup/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — JSON traffic only, uploads live elsewhere
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Challenge{},
		&models.Project{},
		&models.CompletedChallenge{},
		&models.StartedChallenge{},
		&models.SharedChallenge{},
		&models.Certificate{},
		&models.Redemption{},
		&models.BadgeType{},
		&models.UserBadge{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// --- Mail service for certificate notices ---
	mailServiceURL := os.Getenv("MAIL_SERVICE_URL")
	if mailServiceURL == "" {
		log.Fatal("MAIL_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("STREAKUP_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("STREAKUP_SERVICE_TOKEN environment variable not set")
	}

	mailClient := services.NewMailServiceClient(mailServiceURL, serviceToken)
	notifyWorker := workers.NewCertificateNotifyWorker(mailClient)

	completionService := services.NewCompletionService(db, notifyWorker)
	challengeService := services.NewChallengeService(db, completionService)
	rewardService := services.NewRewardService(db, completionService)
	certificateService := services.NewCertificateService(db, notifyWorker)
	badgeService := services.NewBadgeService(db)
	userService := services.NewUserService(db)

	if err := badgeService.SeedBadgeTypes(); err != nil {
		log.Fatal("failed to seed badge types:", err)
	}

	// --- Profile sync from the profile service ---
	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}
	profileSyncWorker := workers.NewProfileSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	notifyWorker.Start(ctx)
	profileSyncWorker.Start(ctx)

	// --- Ban mirror from the moderation service ---
	banSyncClient := workers.NewBanSyncClient(db)
	go workers.PollBans(ctx, banSyncClient, 30*time.Second)

	rewardService.StartHighlightExpiryScheduler()

	// ✅ Routes — all behind enforced Gateway auth
	handlers.SetupChallengeRoutes(app, db, challengeService)
	handlers.SetupRewardRoutes(app, db, rewardService)
	handlers.SetupCertificateRoutes(app, db, certificateService, userService)
	handlers.SetupUserRoutes(app, db, userService, badgeService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ Profile Sync Worker running")
	log.Println("✅ Ban polling running (every 30s)")
	log.Println("✅ Highlight expiry scheduler running (every 1m)")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
