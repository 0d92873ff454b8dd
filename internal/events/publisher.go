package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

const SubjectImportCompleted = "catalog.import.completed"

// ImportCompletedEvent is published after an import run has been logged
type ImportCompletedEvent struct {
	EventID         string             `json:"eventId"`
	EventType       string             `json:"eventType"`
	LogID           string             `json:"logId"`
	FileName        string             `json:"fileName"`
	Supplier        string             `json:"supplier,omitempty"`
	Schema          string             `json:"schema"`
	Strategy        string             `json:"strategy"`
	State           models.ImportState `json:"state"`
	ProductsAdded   int                `json:"productsAdded"`
	ProductsUpdated int                `json:"productsUpdated"`
	ProductsFailed  int                `json:"productsFailed"`
	MasterCount     int                `json:"masterCount"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Publisher publishes catalog import events to NATS
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS_URL not set")
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service-publisher"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "catalog-events"),
	}, nil
}

// Close drains and closes the NATS connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// PublishImportCompleted publishes a catalog.import.completed event
func (p *Publisher) PublishImportCompleted(ctx context.Context, log *models.ImportLog, outcome *models.ImportOutcome) error {
	event := NewImportCompletedEvent(log, outcome)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(SubjectImportCompleted, data); err != nil {
		p.logger.WithError(err).WithField("log_id", event.LogID).Error("Failed to publish import event")
		return fmt.Errorf("failed to publish %s: %w", SubjectImportCompleted, err)
	}

	p.logger.WithFields(logrus.Fields{
		"log_id": event.LogID,
		"state":  event.State,
		"added":  event.ProductsAdded,
		"failed": event.ProductsFailed,
	}).Debug("Published import event")
	return nil
}

// NewImportCompletedEvent builds the event payload for a logged run
func NewImportCompletedEvent(log *models.ImportLog, outcome *models.ImportOutcome) *ImportCompletedEvent {
	event := &ImportCompletedEvent{
		EventID:         uuid.New().String(),
		EventType:       SubjectImportCompleted,
		LogID:           log.ID.String(),
		FileName:        log.FileName,
		Schema:          log.Schema,
		Strategy:        log.Strategy,
		ProductsAdded:   log.ProductsAdded,
		ProductsUpdated: log.ProductsUpdated,
		ProductsFailed:  log.ProductsFailed,
		Timestamp:       time.Now().UTC(),
	}
	if log.Supplier != nil {
		event.Supplier = *log.Supplier
	}
	if outcome != nil {
		event.State = outcome.State
		event.MasterCount = outcome.MasterCount
	}
	return event
}
