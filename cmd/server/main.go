package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contact-directory/internal/auth"
	"github.com/iliyamo/contact-directory/internal/config"
	"github.com/iliyamo/contact-directory/internal/database"
	"github.com/iliyamo/contact-directory/internal/handler"
	"github.com/iliyamo/contact-directory/internal/queue"
	"github.com/iliyamo/contact-directory/internal/repository"
	"github.com/iliyamo/contact-directory/internal/router"
	"github.com/iliyamo/contact-directory/internal/storage"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	users := repository.NewUserRepo(db)
	contacts := repository.NewContactRepo(db)

	hasher := auth.NewHasher(cfg.BcryptCost)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Avatar storage is optional in dev; uploads answer 503 until an
	// endpoint is configured.
	var avatars handler.AvatarUploader
	if cfg.AvatarEndpoint != "" {
		store, err := storage.NewAvatarStore(cfg.AvatarEndpoint, cfg.AvatarAccessKey, cfg.AvatarSecretKey,
			cfg.AvatarBucket, cfg.AvatarUseSSL, cfg.AvatarBaseURL)
		if err != nil {
			log.Fatalf("avatar storage: %v", err)
		}
		avatars = store
	}

	// Deliver queued verification mails in the background.
	go queue.StartVerificationConsumer()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, hasher, tokens), tokens, users)
	router.RegisterContacts(e, handler.NewContactHandler(contacts), tokens, users)
	router.RegisterProfile(e, handler.NewProfileHandler(users, avatars), tokens, users,
		config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
