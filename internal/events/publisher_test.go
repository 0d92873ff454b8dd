package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/models"
)

func TestNewImportCompletedEvent(t *testing.T) {
	supplier := "da Vinci"
	log := &models.ImportLog{
		ID:              uuid.New(),
		FileName:        "brushes.xlsx",
		Supplier:        &supplier,
		Schema:          "localized",
		Strategy:        "prefix-merge",
		ImportStatus:    models.ImportStatusCompleted,
		ProductsAdded:   3,
		ProductsUpdated: 1,
		ProductsFailed:  2,
	}
	outcome := &models.ImportOutcome{State: models.ImportStateCompletedWithFailures, MasterCount: 2}

	event := NewImportCompletedEvent(log, outcome)

	assert.Equal(t, SubjectImportCompleted, event.EventType)
	assert.Equal(t, log.ID.String(), event.LogID)
	assert.Equal(t, "da Vinci", event.Supplier)
	assert.Equal(t, models.ImportStateCompletedWithFailures, event.State)
	assert.Equal(t, 2, event.MasterCount)
	assert.Equal(t, 2, event.ProductsFailed)
	assert.NotEmpty(t, event.EventID)

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"state":"COMPLETED_WITH_FAILURES"`)
}

func TestNewImportCompletedEvent_NilOutcome(t *testing.T) {
	event := NewImportCompletedEvent(&models.ImportLog{ID: uuid.New()}, nil)
	assert.Empty(t, event.State)
	assert.Empty(t, event.Supplier)
}

func TestNewPublisher_RequiresURL(t *testing.T) {
	_, err := NewPublisher("", nil)
	assert.Error(t, err)
}
