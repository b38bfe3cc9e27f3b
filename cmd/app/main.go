package main

import (
	"VisionAgent/internal/config"
	"VisionAgent/pkg/log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

const defaultAgentConfigPath = "./config/agent.json"

func main() {
	envErr := godotenv.Load()
	logger := log.NewLogger()
	if envErr != nil && !os.IsNotExist(envErr) {
		logger.Fatalf("Error loading .env file: %v", envErr)
	}

	agentConfigPath := os.Getenv("ML_CONFIG_PATH")
	if agentConfigPath == "" {
		agentConfigPath = defaultAgentConfigPath
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithMiddleware(),
		config.WithUtils(),
		config.WithAgent(agentConfigPath),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
}
