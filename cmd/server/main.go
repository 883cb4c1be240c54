package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/recipeshare/internal/bootstrap"
	"anoa.com/recipeshare/internal/config"
	"anoa.com/recipeshare/internal/server"
	"anoa.com/recipeshare/pkg/cache"
	"anoa.com/recipeshare/pkg/database"
	"anoa.com/recipeshare/pkg/logger"
	"anoa.com/recipeshare/pkg/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(database.Options{
		Driver:     cfg.DBDriver,
		URL:        cfg.DatabaseURL,
		Host:       cfg.DBHost,
		Port:       cfg.DBPort,
		User:       cfg.DBUser,
		Password:   cfg.DBPass,
		Name:       cfg.DBName,
		SSLMode:    cfg.DBSSLMode,
		SQLitePath: cfg.SQLitePath,
		Debug:      cfg.IsDevelopment() && cfg.LogLevel == "debug",
	})
	if err != nil {
		logrus.Fatalf("failed to open database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logrus.WithError(err).Warn("failed to close database")
		}
	}()

	if err := bootstrap.Migrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	if cfg.IsDevelopment() {
		if err := bootstrap.SeedCategories(db); err != nil {
			logrus.Fatalf("failed to seed categories: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			// the API still works without the listing cache
			logrus.WithError(err).Warn("redis unavailable, listing cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	imageStorage, err := storage.New(ctx, storage.Options{
		Provider:            cfg.ImageStorage,
		CloudinaryURL:       cfg.CloudinaryURL,
		CloudinaryCloudName: cfg.CloudinaryCloudName,
		CloudinaryAPIKey:    cfg.CloudinaryAPIKey,
		CloudinaryAPISecret: cfg.CloudinaryAPISecret,
		S3Bucket:            cfg.S3Bucket,
		S3Region:            cfg.S3Region,
		S3AccessKey:         cfg.S3AccessKey,
		S3SecretKey:         cfg.S3SecretKey,
		S3PublicURL:         cfg.S3PublicURL,
	})
	if err != nil {
		logrus.Fatalf("failed to initialize image storage: %v", err)
	}

	srv := server.NewServer(db, redisClient, imageStorage, server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		CacheTTL:       cfg.CacheTTL,
		UploadFolder:   cfg.CloudinaryUploadFolder,
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logrus.WithError(err).Error("http server stopped")
		}
	case <-ctx.Done():
		logrus.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
}
