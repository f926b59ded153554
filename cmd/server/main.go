package main

import (
	"flag"
	"fmt"

	"holdem-service/internal/api"
	"holdem-service/internal/config"
	"holdem-service/internal/limiter"
	"holdem-service/internal/repo"
	"holdem-service/internal/room"
	"holdem-service/internal/ws"
	"holdem-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load Config
	config.LoadConfig(configPath)

	// 2. Init Logger
	logger.InitLogger(config.GlobalConfig.Server.Mode)
	defer logger.Log.Sync()

	logger.Log.Info("Starting server...", zap.String("mode", config.GlobalConfig.Server.Mode))

	// 3. Init Redis
	repo.InitRedis()

	// 3.5 Init game runtime
	registry := room.NewRegistry(config.GlobalConfig.Game, logger.Log)
	manager := room.NewManager(registry, config.GlobalConfig.Game, logger.Log)
	rateLimiter := limiter.New(repo.RDB)
	wsHandler := ws.NewHandler(manager, rateLimiter)

	// 4. Init Router
	if config.GlobalConfig.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// Register Routes
	api.RegisterRoutes(r, manager, wsHandler)

	// 5. Start Server
	addr := fmt.Sprintf(":%s", config.GlobalConfig.Server.Port)
	logger.Log.Info("Server listening", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
