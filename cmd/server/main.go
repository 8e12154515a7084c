package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"cake_store/internal/config"
	"cake_store/internal/handlers"
	"cake_store/internal/redis"
	"cake_store/internal/services"
	"cake_store/pkg/bakery"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize Redis
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer redisClient.Close()

	// Initialize bakery API client
	bakeryClient := bakery.NewClient(cfg.BakeryAPIURL)

	// Initialize services
	catalogService := services.NewCatalogService(bakeryClient, redisClient, time.Duration(cfg.CacheTTL)*time.Second)
	stockService := services.NewStockService()
	scheduleService := services.NewScheduleService(cfg)
	reportService := services.NewReportService()
	orderService := services.NewOrderService(redisClient, bakeryClient, catalogService, scheduleService, time.Duration(cfg.SessionTimeout)*time.Second)

	// Initialize handlers
	storeHandler := handlers.NewStoreHandler(catalogService, stockService, scheduleService, orderService)
	dashboardHandler := handlers.NewDashboardHandler(catalogService, reportService)

	// Setup routes
	router := gin.Default()

	store := router.Group("/store")
	{
		store.GET("/catalog", storeHandler.GetCatalog)
		store.GET("/cakes/:name", storeHandler.GetCake)
		store.GET("/dates", storeHandler.GetDates)
		store.GET("/times", storeHandler.GetTimes)

		store.POST("/sessions", storeHandler.CreateSession)
		store.GET("/sessions/:session_id", storeHandler.GetSession)
		store.POST("/sessions/:session_id/lines", storeHandler.AddLine)
		store.PUT("/sessions/:session_id/lines/:index", storeHandler.UpdateLine)
		store.DELETE("/sessions/:session_id/lines/:index", storeHandler.RemoveLine)
		store.PUT("/sessions/:session_id/pickup", storeHandler.SetPickup)
		store.POST("/sessions/:session_id/submit", storeHandler.Submit)
	}

	router.GET("/dashboard/summary", dashboardHandler.GetSummary)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
