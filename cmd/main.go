package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/manish-terminal/Elastomechwork/internal/handler"
	"github.com/manish-terminal/Elastomechwork/internal/repositories"
	"github.com/manish-terminal/Elastomechwork/internal/router"
	"github.com/manish-terminal/Elastomechwork/internal/service"
	"github.com/manish-terminal/Elastomechwork/pkg/database"
	"github.com/manish-terminal/Elastomechwork/pkg/envconfig"
	"github.com/manish-terminal/Elastomechwork/pkg/flags"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
	"github.com/manish-terminal/Elastomechwork/pkg/shutdownsetup"
)

func main() {
	flagConfig := flags.Parse()

	if err := flagConfig.Validate(); err != nil {
		fmt.Printf("Configuration error: %v\n", err)
		return
	}

	envErr := envconfig.LoadEnvFile(".env")

	loggerConfig := logger.Config{
		Level:        envconfig.GetLogLevel(),
		Format:       envconfig.GetEnv("LOG_FORMAT", "json"),
		Output:       envconfig.GetEnv("LOG_OUTPUT", "stdout"),
		EnableCaller: envconfig.GetEnv("LOG_ENABLE_CALLER", "true") == "true",
		Environment:  envconfig.GetEnv("ENVIRONMENT", "development"),
	}

	appLogger := logger.New(loggerConfig)

	if envErr != nil {
		appLogger.Warn("Failed to load .env file", "error", envErr)
	} else {
		appLogger.Debug(".env file loaded successfully")
	}

	appLogger.Info("Starting Elastomech Works application",
		"environment", loggerConfig.Environment,
		"log_level", loggerConfig.Level)

	dbConfig := envconfig.LoadDatabaseConfig()

	db, err := database.NewConnection(dbConfig, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to establish database connection", "error", err)
	}

	if err := db.HealthCheck(); err != nil {
		appLogger.Error("Database health check failed", "error", err)
	} else {
		appLogger.Info("Database health check passed")
	}

	defer func() {
		if err := db.Close(); err != nil {
			appLogger.Error("Failed to close database connection", "error", err)
		}
	}()

	// Repositories
	orderRepo := repositories.NewOrderRepository(appLogger, db)
	formulaRepo := repositories.NewFormulaRepository(appLogger, db)
	inventoryRepo := repositories.NewInventoryRepository(appLogger, db)

	// Services
	orderService := service.NewOrderService(orderRepo, formulaRepo, inventoryRepo, appLogger)
	formulaService := service.NewFormulaService(formulaRepo, appLogger)
	inventoryService := service.NewInventoryService(inventoryRepo, appLogger)

	// Handlers
	orderHandler := handler.NewOrderHandler(orderService, appLogger)
	formulaHandler := handler.NewFormulaHandler(formulaService, appLogger)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, appLogger)

	mux := router.NewRouter(orderHandler, formulaHandler, inventoryHandler, db, appLogger)

	rootHandler := appLogger.HTTPMiddleware(mux)

	initialPort := flagConfig.Port
	if initialPort == "" {
		initialPort = envconfig.GetEnv("PORT", "8080")
	}
	host := envconfig.GetEnv("HOST", "localhost")

	port := initialPort

	server := &http.Server{
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)

	maxRetries := 3
	for i := 0; i < maxRetries; i++ {
		server.Addr = host + ":" + port

		go func() {
			appLogger.Info("Starting HTTP server",
				"host", host,
				"port", port,
				"address", server.Addr)

			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLogger.Error("Server error", "error", err)
				serverErrors <- err
			}
		}()

		select {
		case err := <-serverErrors:
			if strings.Contains(err.Error(), "address already in use") && i < maxRetries-1 {
				port = nextPort(initialPort, i)
				appLogger.Warn("Port already in use, trying alternative port",
					"current_port", server.Addr,
					"next_port", port)
				continue
			} else {
				appLogger.Error("Failed to start server after retries", "error", err)
				return
			}
		case <-time.After(200 * time.Millisecond):
			appLogger.Info("Server started successfully", "port", port)
		}

		break
	}

	select {
	case err := <-serverErrors:
		appLogger.Error("Could not start server", "error", err)
		return
	default:
		shutdownsetup.SetupGracefulShutdown(server, appLogger)
	}
}

// nextPort picks the fallback port after a bind failure, counting up
// from the configured port rather than a fixed base.
func nextPort(initialPort string, attempt int) string {
	basePort, err := strconv.Atoi(initialPort)
	if err != nil {
		basePort = 8080
	}
	return strconv.Itoa(basePort + attempt + 1)
}
