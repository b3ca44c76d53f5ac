package main

import (
	"fmt"
	"log"
	"os"

	"gvix-backtest/internal/api/handlers"
	"gvix-backtest/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Log working directory and the dataset registry location for debugging
	wd, err := os.Getwd()
	if err == nil {
		log.Printf("Working directory: %s", wd)
	}
	registryPath := os.Getenv("DATASETS_FILE")
	if registryPath == "" {
		registryPath = "./data/datasets.json"
	}
	if _, err := os.Stat(registryPath); err == nil {
		log.Printf("Dataset registry found: %s", registryPath)
	} else {
		log.Printf("Dataset registry not found at: %s (error: %v)", registryPath, err)
	}

	// Set up Gin router
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply middleware
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	// Initialize handlers
	backtestHandler := handlers.NewBacktestHandler()
	strategyHandler := handlers.NewStrategyHandler()
	rankHandler := handlers.NewRankHandler()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		api.POST("/backtest", backtestHandler.RunBacktest)
		api.POST("/backtest/compare", backtestHandler.CompareBacktests)

		api.GET("/rank", rankHandler.RankSigmas)
		api.GET("/strategies", strategyHandler.ListStrategies)
		api.GET("/datasets", handlers.ListDatasets)
	}

	// Serve the research figures directory if it exists
	// (fig/GVIX_time_series.png and friends).
	figDir := os.Getenv("FIG_DIR")
	if figDir == "" {
		figDir = "./fig"
	}
	if _, err := os.Stat(figDir); err == nil {
		router.Static("/fig", figDir)
		log.Printf("Serving charts from %s", figDir)
	} else {
		log.Printf("Charts directory %s not found, skipping static file serving", figDir)
	}

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
