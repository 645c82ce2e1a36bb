package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/handler"
	mid "github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/middleware"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/model"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/internal/repository"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/config"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/database"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/pkg/logger"
	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type routeRegistrar interface {
	Register(e *echo.Echo)
}

type indexedStore interface {
	EnsureIndexes(ctx context.Context) error
	Entity() model.Entity
}

func main() {
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting HS CRM server", appConfig.LogConfig()...)

	prometheus.InitMetrics(appConfig.Metrics.Prefix, promclient.DefaultRegisterer)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := database.InitDB(ctx, appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Pinged deployment, database connection established",
		zap.String("db_name", appConfig.DB.Name))

	e := newServer(appConfig)

	go func() {
		port := appConfig.Server.Port
		log.Info("Starting server", zap.String("port", port))
		if err := e.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	if err := database.Disconnect(shutdownCtx); err != nil {
		log.Error("Database disconnect failed", zap.Error(err))
	}
}

func newServer(appConfig *config.Config) *echo.Echo {
	log := logger.GetLogger()
	db := database.GetDB()

	projects := repository.NewCollection[model.Project](db, model.ProjectEntity)
	customers := repository.NewCollection[model.Customer](db, model.CustomerEntity)
	departments := repository.NewCollection[model.Department](db, model.DepartmentEntity)
	designations := repository.NewCollection[model.Designation](db, model.DesignationEntity)

	indexCtx, cancel := context.WithTimeout(context.Background(), appConfig.DB.ConnectTimeout)
	defer cancel()
	for _, s := range []indexedStore{projects, customers, departments, designations} {
		if err := s.EnsureIndexes(indexCtx); err != nil {
			// existing duplicate data blocks index creation; keep serving
			log.Error("Failed to ensure indexes",
				zap.String("collection", s.Entity().Collection),
				zap.Error(err))
		}
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: appConfig.Server.CORSAllowOrigins,
	}))
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)
	e.Use(logger.Middleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	routes := []routeRegistrar{
		handler.NewHealthHandler(appConfig.ServiceName, database.Ping),
		handler.NewCollectionHandler[model.Project](projects),
		handler.NewCollectionHandler[model.Customer](customers),
		handler.NewCollectionHandler[model.Department](departments),
		handler.NewCollectionHandler[model.Designation](designations),
	}
	for _, r := range routes {
		r.Register(e)
	}

	return e
}
