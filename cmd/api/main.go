package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classtrack/internal/activity"
	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/dashboard"
	"classtrack/internal/handler"
	"classtrack/internal/holiday"
	"classtrack/internal/preferences"
	"classtrack/internal/ratelimit"
	"classtrack/internal/roster"
	"classtrack/internal/settings"
	"classtrack/internal/store"
)

func main() {
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	settingsStore := settings.NewStore(settings.NewRepository(db.Client))
	if err := settingsStore.InitializeDefaults(context.Background()); err != nil {
		log.Printf("warning: settings defaults not seeded: %v", err)
	}

	rosterRepo := roster.NewRepository(db.Client)
	audit := activity.NewLog(activity.NewRepository(db.Client))
	holidays := holiday.NewCalendar(holiday.NewRepository(db.Client))
	prefs := preferences.NewService(preferences.NewRepository(db.Client))

	var statsCache dashboard.Cache
	if redisClient.Healthy(context.Background()) {
		statsCache = dashboard.NewRedisCache(redisClient.Client)
	} else {
		log.Println("redis not reachable, dashboard cache disabled")
	}
	stats := dashboard.NewAggregator(dashboard.NewRepository(db.Client, rosterRepo), statsCache, cfg.StatsCacheTTL)

	tokens := auth.NewManager(cfg.JWTIssuer, cfg.JWTSigningKey)

	ownership := auth.NewOwnershipRegistry()
	ownership.Register(auth.ResourceSession, func(ctx context.Context, instructorID, sessionID string) (bool, error) {
		owner, err := rosterRepo.SessionOwner(ctx, sessionID)
		if err != nil {
			return false, err
		}
		return owner != "" && owner == instructorID, nil
	})
	ownership.Register(auth.ResourceClass, rosterRepo.InstructorAssigned)

	var limiter ratelimit.Limiter
	if cfg.RateLimitBackend == "redis" {
		limiter = ratelimit.NewSlidingWindow(redisClient.Client)
	} else {
		limiter = ratelimit.NewFixedWindow()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	h := handler.New(tokens, cfg.AccessTTL, rosterRepo, settingsStore, holidays, prefs, stats, audit, ownership)

	public := r.Group("/api/v1")
	public.Use(ratelimit.Middleware(limiter, cfg.RateLimit, cfg.RateLimitWindow))

	protected := r.Group("/api/v1")
	protected.Use(auth.Require(tokens))
	protected.Use(auth.RequireInstructor())
	protected.Use(ratelimit.Middleware(limiter, cfg.RateLimit, cfg.RateLimitWindow))

	h.Register(public, protected)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		// Only add HSTS in production
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
