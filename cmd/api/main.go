package main

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	_ "github.com/the-connection/app-connection-api/docs"
	"github.com/the-connection/app-connection-api/internal/api/routes"
	"github.com/the-connection/app-connection-api/internal/auth"
	"github.com/the-connection/app-connection-api/internal/cache"
	"github.com/the-connection/app-connection-api/internal/config"
	"github.com/the-connection/app-connection-api/internal/events"
	"github.com/the-connection/app-connection-api/internal/moderation"
	"github.com/the-connection/app-connection-api/internal/notify"
	"github.com/the-connection/app-connection-api/internal/observability"
	"github.com/the-connection/app-connection-api/internal/realtime"
	"github.com/the-connection/app-connection-api/internal/recommend"
	"github.com/the-connection/app-connection-api/internal/search"
	"github.com/the-connection/app-connection-api/internal/storage"
)

// @title           The Connection API
// @version         1.0
// @description     Faith-based social platform: communities, microblogs, prayer requests, events and a personalized feed.

// @contact.name   The Connection
// @contact.email  support@theconnection.app

// @license.name  MIT

// @host      api.theconnection.app

func main() {
	cfg := config.LoadConfig()

	observability.InitTracer(cfg)
	defer observability.ShutdownTracer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var store storage.Store
	if cfg.DatabaseURL != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("connecting to postgres: %v", err)
		}
		defer pg.Close()
		store = pg
	} else {
		log.Println("DATABASE_URL not set, using in-memory storage")
		store = storage.NewMemoryStore()
	}

	var timelines *cache.TimelineStore
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Printf("redis unavailable, timeline cache disabled: %v", err)
		} else {
			timelines = cache.NewTimelineStore(rdb)
		}
	}

	var publisher *events.Publisher
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Printf("nats unavailable, event publishing disabled: %v", err)
		} else {
			defer nc.Close()
			publisher = events.NewPublisher(nc)
			if timelines != nil {
				consumer := events.NewConsumer(nc, store, timelines)
				if err := consumer.Start(); err != nil {
					log.Fatalf("starting event consumer: %v", err)
				}
				defer consumer.Stop()
			}
		}
	}

	var searchClient *search.Client
	if cfg.TypesenseAPIKey != "" {
		searchClient = search.NewClient(cfg)
		if err := searchClient.EnsureCollections(ctx); err != nil {
			log.Fatalf("preparing search collections: %v", err)
		}
	}

	var screener *moderation.Screener
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.GeminiAPIKey,
		})
		if err != nil {
			log.Printf("gemini unavailable, report screening disabled: %v", err)
		} else {
			screener = moderation.NewScreener(geminiClient, cfg.GeminiChatModel)
		}
	}

	var notifier notify.Notifier
	if cfg.NotifyMode == "smtp" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		notifier = notify.NewLogNotifier()
	}

	hub := realtime.NewHub()
	go hub.Run(ctx)

	feed := recommend.NewService(store, cfg.Recommend)
	if publisher != nil {
		feed = feed.WithPublisher(publisher)
	}

	r := routes.SetupRouter(routes.Dependencies{
		Store:     store,
		Sessions:  auth.NewSessionProvider(cfg.SessionSecret, time.Duration(cfg.SessionTTLHours)*time.Hour),
		Hasher:    auth.NewPasswordHasher(nil),
		Feed:      feed,
		Notifier:  notifier,
		Search:    searchClient,
		Publisher: publisher,
		Timelines: timelines,
		Hub:       hub,
		Screener:  screener,
	})

	log.Printf("server listening on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("starting server: %v", err)
	}
}
