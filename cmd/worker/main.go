package main

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"
	"launchcontrol/pkg/config"

	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	// errorCounts tracks consecutive failures per event kind
	errorCounts   = make(map[string]int)
	errorCountsMu sync.Mutex
)

const maxErrorCount = 3

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Optionally drop any backlog from a previous run
	if os.Getenv("PURGE_QUEUE_ON_START") == "true" {
		if err := config.PurgeQueue(config.EventsQueue); err != nil {
			logrus.Warnf("Failed to purge events queue: %v", err)
		}
	}

	// Create consumer for the ledger events queue
	msgConsumer, err := config.NewConsumer(config.EventsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Ledger event worker started, waiting for messages...")

	err = msgConsumer.Consume(func(msg []byte) error {
		var ev engine.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			logrus.Errorf("Failed to unmarshal event: %v", err)
			return err
		}

		logFields := logrus.Fields{
			"kind": ev.Kind,
			"time": ev.Time,
		}
		if ev.Account != "" {
			logFields["account"] = ev.Account
		}
		if ev.Asset != "" {
			logFields["asset"] = ev.Asset
		}
		if ev.Amount != "" {
			logFields["amount"] = ev.Amount
		}
		if ev.Pool != "" {
			logFields["pool"] = ev.Pool
		}
		if ev.Phase != "" {
			logFields["phase"] = ev.Phase
		}
		logrus.WithFields(logFields).Info("Ledger event consumed")

		if err := tallyEvent(ev); err != nil {
			count := incrementErrorCount(string(ev.Kind))
			if count >= maxErrorCount {
				logrus.Errorf("Error count exceeded threshold for kind %s, dropping event: %v", ev.Kind, err)
				resetErrorCount(string(ev.Kind))
				return nil
			}
			logrus.Errorf("Failed to tally event: %v", err)
			return err
		}
		resetErrorCount(string(ev.Kind))
		return nil
	})
	if err != nil {
		logrus.Fatal("Consumer stopped: ", err)
	}
}

// tallyEvent bumps the per-kind aggregate row for the consumed event.
func tallyEvent(ev engine.Event) error {
	return config.DB.Transaction(func(tx *gorm.DB) error {
		var row models.EventCount
		err := tx.Where("kind = ?", string(ev.Kind)).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.EventCount{
				Kind:     string(ev.Kind),
				Count:    1,
				LastTime: ev.Time,
			}).Error
		}
		if err != nil {
			return err
		}
		row.Count++
		if ev.Time > row.LastTime {
			row.LastTime = ev.Time
		}
		return tx.Save(&row).Error
	})
}

func incrementErrorCount(kind string) int {
	errorCountsMu.Lock()
	defer errorCountsMu.Unlock()
	errorCounts[kind]++
	return errorCounts[kind]
}

func resetErrorCount(kind string) {
	errorCountsMu.Lock()
	defer errorCountsMu.Unlock()
	delete(errorCounts, kind)
}
