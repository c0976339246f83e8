package main

import (
	"log"

	"goimpute/adapters/postgres"
	"goimpute/adapters/storage"
	"goimpute/app"
	"goimpute/internal/config"
	"goimpute/ports"
	"goimpute/ui"

	"github.com/joho/godotenv"
)

// Headless variant of the service: the /api endpoints on a chi router,
// without the HTML frontend.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := storage.NewLocalStore(appConfig.Storage.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

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

	apiApp := ui.NewApp(service, appConfig.Limits.MaxUploadBytes)
	log.Fatal(apiApp.Start(":" + appConfig.Server.Port))
}
