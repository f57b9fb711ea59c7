package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/database"
	"github.com/daijiahui66/ADDoc/internal/routes"
	"github.com/daijiahui66/ADDoc/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// 加载环境变量
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCloser := logger.Init(cfg.Log)
	defer logCloser.Close()

	gin.SetMode(cfg.Server.Mode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("Failed to auto migrate")
	}
	if err := database.EnsureAdmin(db, cfg.Admin.InitialPassword); err != nil {
		logrus.WithError(err).Fatal("Failed to seed admin account")
	}

	if err := createDirs(cfg.File.UploadPath, cfg.Backup.Path, cfg.Backup.TempDir); err != nil {
		logrus.WithError(err).Fatal("Failed to create directories")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router, err := routes.Setup(ctx, db, cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to set up routes")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("Failed to start server")
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
	}
}

func createDirs(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
