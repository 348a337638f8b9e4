package main

import (
	"bargainhub/backend/internal/api/handler"
	"bargainhub/backend/internal/bargain"
	"bargainhub/backend/internal/bargainhub"
	"bargainhub/backend/internal/catalog"
	"bargainhub/backend/internal/config"
	"bargainhub/backend/internal/models"
	"bargainhub/backend/internal/notify"
	"bargainhub/backend/internal/order"
	"bargainhub/backend/internal/pricing"
	"bargainhub/backend/internal/storage"
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.BargainSession{},
		&models.BargainMessage{},
		&models.Order{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting BargainHub Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}
	cfg := config.Load()

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	// Core services: price policy, session service, order sink, notifier.
	policy := pricing.NewPolicy(cfg.MaxDiscount)
	bargainSvc := bargain.NewService(s, policy, cfg.MaxTurns, cfg.SessionTTL)
	bargainSvc.Orders = order.NewService(s)

	if cfg.TelegramBotToken != "" {
		notifier, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, s)
		if err != nil {
			log.Fatalf("Failed to start Telegram notifier: %v", err)
		}
		bargainSvc.Notifier = notifier
	} else {
		log.Println("TELEGRAM_BOT_TOKEN not set, seller notifications disabled.")
		bargainSvc.Notifier = notify.Noop{}
	}

	// Realtime gateway.
	hub := bargainhub.NewManager(s, bargainSvc)
	hub.StartPubSubListener()
	go hub.Run()

	// Gin routing.
	r := gin.Default()
	h := handler.NewHandler(hub, bargainSvc, catalog.NewService(s), s, cfg)

	r.POST("/auth/token", h.IssueToken) // identity-provider boundary stub
	r.GET("/ws", h.ServeWebSocket)      // WebSocket upgrade

	api := r.Group("/")
	api.Use(h.AuthMiddleware())
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.POST("/sessions", h.CreateSession)
	api.GET("/sessions", h.ListSessions)
	api.GET("/sessions/:id", h.GetSession)
	api.POST("/sessions/:id/messages", h.AppendMessage)
	api.PATCH("/sessions/:id/status", h.UpdateStatus)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
