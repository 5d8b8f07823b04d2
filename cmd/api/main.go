package main

import (
	"log"
	"os"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/events"
	"launchcontrol/internal/handlers"
	"launchcontrol/internal/routes"
	"launchcontrol/internal/store"
	"launchcontrol/internal/treasury"
	"launchcontrol/pkg/config"
)

func main() {
	// Initialize database
	config.InitDB()

	sinks := events.MultiSink{events.NewDBSink(config.DB)}

	// Initialize RabbitMQ (optional, events are still logged to the database
	// without it)
	if os.Getenv("RABBITMQ_HOST") != "" {
		config.InitRabbitMQ()
		defer func() {
			if config.RabbitMQ != nil {
				config.RabbitMQ.Close()
			}
		}()

		publisher, err := config.NewPublisher()
		if err != nil {
			log.Fatal("Create publisher failed:", err)
		}
		defer publisher.Close()
		sinks = append(sinks, events.NewQueueSink(publisher))
		log.Println("RabbitMQ initialized successfully")
	} else {
		log.Println("RabbitMQ not configured, skipping initialization")
	}

	hub := events.NewHub()
	sinks = append(sinks, hub)

	book := treasury.NewBook(config.DB)
	ledger := engine.NewLedger(engine.Config{
		Access:     engine.StaticOwner(config.LedgerOwner()),
		Transfers:  book,
		Sink:       sinks,
		TokenAsset: config.LedgerTokenAsset(),
	})

	st := store.New(config.DB)
	snap, err := st.Load()
	if err != nil {
		log.Fatal("Failed to load ledger state:", err)
	}
	if snap != nil {
		ledger.Restore(snap)
		log.Println("Ledger state restored from database")
	} else if err := st.Save(ledger.Snapshot()); err != nil {
		log.Fatal("Failed to save initial ledger state:", err)
	}

	handlers.Init(ledger, st, book, hub)

	// Set up router
	r := routes.SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
