package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"shop-backend-service/internal/api"
	"shop-backend-service/internal/config"
	"shop-backend-service/internal/notifier"
	"shop-backend-service/internal/repository"
	"shop-backend-service/internal/service"
	"shop-backend-service/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	if level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Error creating indexes")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer kafkaWriter.Close()

	hub := notifier.NewHub()

	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)

	productService := service.NewProductService(
		productRepo,
		cartRepo,
		service.NewRedisProductCache(rdb),
		cfg.CacheTTL,
		hub,
		notifier.NewKafkaPublisher(kafkaWriter),
	)
	cartService := service.NewCartService(cartRepo, productRepo)

	productHandler := api.NewProductHandler(productService, cfg.BaseURL)
	cartHandler := api.NewCartHandler(cartService)
	viewHandler := api.NewViewHandler(productService, cartService)

	renderer, err := api.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Error parsing templates")
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.RateLimit),
			Burst:     cfg.RateBurst,
			ExpiresIn: 3 * time.Minute,
		})))

	// API routes
	e.GET("/api/products", productHandler.List)
	e.GET("/api/products/:pid", productHandler.Get)
	e.POST("/api/products", productHandler.Create)
	e.PUT("/api/products/:pid", productHandler.Update)
	e.DELETE("/api/products/:pid", productHandler.Delete)

	e.POST("/api/carts", cartHandler.Create)
	e.GET("/api/carts/:cid", cartHandler.Get)
	e.POST("/api/carts/:cid/product/:pid", cartHandler.AddProduct)
	e.DELETE("/api/carts/:cid/products/:pid", cartHandler.RemoveProduct)
	e.PUT("/api/carts/:cid", cartHandler.Replace)
	e.PUT("/api/carts/:cid/products/:pid", cartHandler.SetQuantity)
	e.DELETE("/api/carts/:cid", cartHandler.Clear)

	// live updates
	e.GET("/ws", hub.Handle)

	// rendered views + static assets
	e.GET("/products", viewHandler.ProductsPage)
	e.GET("/products/:pid", viewHandler.ProductDetailPage)
	e.GET("/carts/:cid", viewHandler.CartPage)
	e.StaticFS("/static", echo.MustSubFS(web.Static, "static"))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"service": "shop-backend-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil {
			log.Info().Err(err).Msg("HTTP server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutdown requested")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error shutting down HTTP server")
	}
}
