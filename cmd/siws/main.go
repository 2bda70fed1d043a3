package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/layer-3/siws/adapters/events"
	"github.com/layer-3/siws/adapters/identity"
	"github.com/layer-3/siws/adapters/store"
	"github.com/layer-3/siws/config"
	"github.com/layer-3/siws/service"
	httptransport "github.com/layer-3/siws/transport/http"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.GinMode)

	// Parse Redis URL and create client
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}

	redisClient := redis.NewClient(opts)

	// Initialize Watermill Redis publisher
	logger := watermill.NewStdLogger(false, false)
	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{
			Client: redisClient,
		},
		logger,
	)
	if err != nil {
		log.Fatalf("Failed to create Redis publisher: %v", err)
	}

	verifications := store.NewRedisStore(redisClient)
	identityStore := identity.NewMemoryStore(identity.TokenConfig{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Issuer: "siws",
	})
	eventPub := events.NewWatermillPublisher(publisher)

	authService := service.NewAuthService(slog.Default(), verifications, identityStore, eventPub, service.Config{
		Domain:    cfg.Domain,
		URI:       cfg.URI,
		Statement: cfg.Statement,
		NonceTTL:  cfg.NonceTTL,
	})

	sessions := httptransport.NewCookieTransport(true)

	// Setup Gin router
	router := httptransport.SetupRouter(authService, identityStore, sessions)

	// Start server
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
