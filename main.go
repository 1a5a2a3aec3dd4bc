package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"

	"surveyserver/config"
	"surveyserver/db"
	"surveyserver/handlers"
	"surveyserver/logger"
	"surveyserver/metrics"
	"surveyserver/models"
	"surveyserver/processing"
	"surveyserver/services"
	"surveyserver/storage"
	"surveyserver/utils"
)

func main() {
	log, err := logger.New(config.LOG_MODE)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db.Init(log)
	if err = models.Migrate(db.Instance); err != nil {
		log.Fatal("Migration failed", "error", err)
	}
	store := storage.Init(log)

	sweeper := processing.NewFileSweeper(db.Instance, store, log)
	if err = sweeper.Start(config.FILE_SWEEP_SCHEDULE); err != nil {
		log.Fatal("Invalid FILE_SWEEP_SCHEDULE", "schedule", config.FILE_SWEEP_SCHEDULE, "error", err)
	}
	defer sweeper.Stop()

	service := services.New(db.Instance, log, sweeper)
	if config.SEED_FILE != "" {
		seed(service, log)
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	_ = router.SetTrustedProxies([]string{})
	router.Use(gin.Recovery(), utils.RequestLogger(log), metrics.Middleware())
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware(log))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  config.AllowedOrigins(),
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(handlers.FileRoutePatterns)))
	}
	limiter := utils.NewRateLimiter(config.RATE_LIMIT_RPS, config.RATE_LIMIT_BURST)
	router.Use(limiter.Handler())
	go func() {
		for range time.Tick(time.Minute) {
			limiter.Cleanup()
		}
	}()

	api := handlers.New(service, store, log, uint(config.THUMB_SIZE))
	api.FileCacheTime = time.Duration(config.FILE_CACHE_SECONDS) * time.Second
	api.ThumbCacheTime = time.Duration(config.THUMB_CACHE_SECONDS) * time.Second
	api.Routes(router)

	if domains := config.TLSDomains(); len(domains) > 0 {
		err = autotls.Run(router, domains...)
	} else {
		log.Info("Listening", "address", config.BIND_ADDRESS)
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatal("Server stopped", "error", err)
}

func seed(service *services.Service, log *logger.Logger) {
	data, err := os.ReadFile(config.SEED_FILE)
	if err != nil {
		log.Fatal("Cannot read SEED_FILE", "file", config.SEED_FILE, "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if _, err = service.SeedAssetTypes(ctx, data); err != nil {
		log.Fatal("Seeding asset types failed", "file", config.SEED_FILE, "error", err)
	}
}
