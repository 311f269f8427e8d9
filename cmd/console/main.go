package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/fitdesk/gym-console/api/swagger"
	"github.com/fitdesk/gym-console/internal/handler"
	consolemiddleware "github.com/fitdesk/gym-console/internal/middleware"
	"github.com/fitdesk/gym-console/internal/service"
	"github.com/fitdesk/gym-console/internal/upstream"
	"github.com/fitdesk/gym-console/internal/view"
	"github.com/fitdesk/gym-console/pkg/config"
	"github.com/fitdesk/gym-console/pkg/export"
	"github.com/fitdesk/gym-console/pkg/logger"
	corsmiddleware "github.com/fitdesk/gym-console/pkg/middleware/cors"
	reqidmiddleware "github.com/fitdesk/gym-console/pkg/middleware/requestid"
)

// @title Gym Console Gateway
// @version 0.1.0
// @description Admin console backend for the gym membership API
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	client := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, metrics, logr)

	directory := view.NewMemberDirectory(client, validate, logr)
	board := view.NewPlanBoard(client, cfg.Fanout.Concurrency, metrics, validate, logr)
	attendance := view.NewAttendanceLog(client, validate, logr)

	exports := service.NewExportService(export.NewCSVExporter(), export.NewPDFExporter(), logr)

	members := handler.NewMemberHandler(directory)
	plans := handler.NewPlanHandler(board)
	checkins := handler.NewAttendanceHandler(attendance)
	downloads := handler.NewExportHandler(directory, attendance, exports)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(consolemiddleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	console := r.Group(cfg.APIPrefix)
	{
		console.GET("/members", members.List)
		console.POST("/members", members.Create)
		console.PUT("/members/:id", members.Update)
		console.DELETE("/members/:id", members.Delete)

		console.GET("/plans", plans.List)
		console.POST("/plans", plans.Create)
		console.PUT("/plans/:id", plans.Update)
		console.DELETE("/plans/:id", plans.Delete)
		console.GET("/assignments", plans.Assignments)
		console.POST("/assignments", plans.Assign)

		console.GET("/attendance", checkins.List)
		console.POST("/attendance/checkin", checkins.CheckIn)

		if cfg.Exports.Enabled {
			console.GET("/members/export", downloads.Members)
			console.GET("/attendance/export", downloads.Attendance)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("console starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("console failed", "error", err)
	}
}
