package events

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"
	"launchcontrol/pkg/config"
)

// MultiSink fans one event out to several sinks in order.
type MultiSink []engine.Sink

func (m MultiSink) Emit(ev engine.Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}

// DBSink appends each event to the ledger_event table. Emit runs after the
// triggering operation has already committed, so a failed insert is logged and
// dropped rather than failing the operation.
type DBSink struct {
	db *gorm.DB
}

func NewDBSink(db *gorm.DB) *DBSink {
	return &DBSink{db: db}
}

func (s *DBSink) Emit(ev engine.Event) {
	row := models.LedgerEvent{
		Kind:          string(ev.Kind),
		Time:          ev.Time,
		Account:       ev.Account,
		Referrer:      ev.Referrer,
		Asset:         ev.Asset,
		Amount:        ev.Amount,
		Bonus:         ev.Bonus,
		Cost:          ev.Cost,
		Fee:           ev.Fee,
		Phase:         ev.Phase,
		Pool:          ev.Pool,
		PositionIndex: ev.Index,
		Detail:        ev.Detail,
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.WithFields(log.Fields{
			"kind":  ev.Kind,
			"error": err.Error(),
		}).Error("Failed to save ledger event")
	}
}

// QueueSink publishes each event to the RabbitMQ events queue for the worker.
type QueueSink struct {
	publisher *config.Publisher
	queue     string
}

func NewQueueSink(publisher *config.Publisher) *QueueSink {
	return &QueueSink{publisher: publisher, queue: config.EventsQueue}
}

func (s *QueueSink) Emit(ev engine.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(s.queue, ev); err != nil {
		log.WithFields(log.Fields{
			"kind":  ev.Kind,
			"queue": s.queue,
			"error": err.Error(),
		}).Error("Failed to publish ledger event")
	}
}
