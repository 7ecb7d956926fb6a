package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"click-collect/config"
	"click-collect/events"
	"click-collect/handlers"
	"click-collect/middleware"
	"click-collect/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatalw("invalid configuration", "error", err)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		logger.Fatalw("failed to open database", "driver", cfg.DBDriver, "error", err)
	}
	logger.Infow("database connected and migrated", "driver", cfg.DBDriver)

	created, err := handlers.EnsureSuperAdmin(context.Background(), db, cfg.SuperAdminEmail, cfg.SuperAdminPassword)
	if err != nil {
		logger.Fatalw("failed to seed superadmin", "error", err)
	}
	if created {
		logger.Infow("superadmin account created", "email", cfg.SuperAdminEmail)
	}

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		broker, err := events.NewRabbitMQ(cfg.RabbitMQURL, logger)
		if err != nil {
			logger.Fatalw("failed to connect to RabbitMQ", "error", err)
		}
		publisher = broker
		logger.Info("connected to RabbitMQ")
	} else {
		logger.Warn("RABBITMQ_URL not set, order events will not be published")
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	routes.SetupRoutes(r, handlers.New(db, logger, publisher, cfg.JWTSecret))

	if err := serve(r, cfg, logger, db, publisher); err != nil {
		logger.Fatalw("server error", "error", err)
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// serve runs until SIGINT or SIGTERM, then drains requests and closes the
// broker and database.
func serve(handler http.Handler, cfg config.Config, logger *zap.SugaredLogger, db *gorm.DB, publisher events.Publisher) error {
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Infow("signal caught", "signal", s.String())

		err := srv.Shutdown(ctx)

		if err := publisher.Close(); err != nil {
			logger.Errorw("error closing event publisher", "error", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Errorw("error closing database", "error", err)
			}
		}

		shutdown <- err
	}()

	logger.Infow("server has started", "addr", srv.Addr, "env", cfg.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-shutdown; err != nil {
		return err
	}

	logger.Infow("server has stopped", "addr", srv.Addr)
	return nil
}
