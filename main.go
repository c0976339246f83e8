package main

import (
	"log"

	"goimpute/adapters/postgres"
	"goimpute/adapters/storage"
	"goimpute/app"
	"goimpute/internal/config"
	"goimpute/ports"
	"goimpute/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	store, err := storage.NewLocalStore(appConfig.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}
	log.Printf("[Server] Storing files under %s", store.Dir())

	// The transfer ledger is optional; without DATABASE_URL the service
	// runs with no persistence beyond the files themselves.
	var ledger ports.TransferLedgerPort
	if appConfig.Database.URL != "" {
		db, err := postgres.Connect(appConfig.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		ledger = postgres.NewTransferLedgerRepository(db)
		log.Println("Transfer ledger enabled")
	}

	service := app.NewTransferService(store, ledger,
		appConfig.Limits.PreviewRows, appConfig.Limits.MaxConcurrentProcs)

	server, err := ui.NewServer(service, appConfig.Limits.MaxUploadBytes)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	log.Printf("Starting goimpute server on port %s", appConfig.Server.Port)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
