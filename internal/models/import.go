package models

import (
	"time"

	"github.com/google/uuid"
)

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportStatus is the status recorded on an import log
type ImportStatus string

const (
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportState is a step of the import state machine
type ImportState string

const (
	ImportStateIdle                  ImportState = "IDLE"
	ImportStateValidating            ImportState = "VALIDATING"
	ImportStateValidationFailed      ImportState = "VALIDATION_FAILED"
	ImportStateMapping               ImportState = "MAPPING"
	ImportStateGrouping              ImportState = "GROUPING"
	ImportStatePersisting            ImportState = "PERSISTING"
	ImportStateCompleted             ImportState = "COMPLETED"
	ImportStateCompletedWithFailures ImportState = "COMPLETED_WITH_FAILURES"
	ImportStateFailed                ImportState = "FAILED"
)

// Terminal reports whether no further transition can happen from s
func (s ImportState) Terminal() bool {
	switch s {
	case ImportStateValidationFailed, ImportStateCompleted, ImportStateCompletedWithFailures, ImportStateFailed:
		return true
	}
	return false
}

// ImportLog is the audit record of one import run that reached persistence.
// Written once, never updated.
type ImportLog struct {
	ID              uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FileName        string       `json:"fileName" gorm:"not null"`
	Supplier        *string      `json:"supplier,omitempty"`
	Schema          string       `json:"schema"`
	Strategy        string       `json:"strategy"`
	ImportStatus    ImportStatus `json:"importStatus" gorm:"not null;index:idx_catalog_import_logs_status_created"`
	ProductsAdded   int          `json:"productsAdded"`
	ProductsUpdated int          `json:"productsUpdated"`
	ProductsFailed  int          `json:"productsFailed"`
	CreatedAt       time.Time    `json:"createdAt" gorm:"index:idx_catalog_import_logs_status_created"`
}

// TableName specifies the table name for ImportLog
func (ImportLog) TableName() string {
	return string(TableImportLogs)
}

// ValidationError is a row-level problem found before anything is written.
// Row is the spreadsheet line: header is line 1, the first data row is line 2.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProgress holds the run-scoped counters surfaced to the caller
type ImportProgress struct {
	Total            int               `json:"total"`
	Processed        int               `json:"processed"`
	Successful       int               `json:"successful"`
	Failed           int               `json:"failed"`
	ValidationErrors []ValidationError `json:"validationErrors,omitempty"`
}

// Persistence error codes
const (
	ErrCodeChunkFailed        = "CHUNK_FAILED"
	ErrCodeChunkTimeout       = "CHUNK_TIMEOUT"
	ErrCodePartialChunk       = "PARTIAL_CHUNK"
	ErrCodeMasterUpsertFailed = "MASTER_UPSERT_FAILED"
	ErrCodeCancelled          = "CANCELLED"
)

// PersistenceError describes a chunk of variants that was not written
type PersistenceError struct {
	Group   int    `json:"group"`
	Chunk   int    `json:"chunk"`
	Master  string `json:"master,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DominantError summarizes the most frequent persistence error code of a run
type DominantError struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	Occurrences int    `json:"occurrences"`
}

// ImportOutcome is the summary returned to the caller of an import run
type ImportOutcome struct {
	State            ImportState        `json:"state"`
	SuccessCount     int                `json:"successCount"`
	FailedCount      int                `json:"failedCount"`
	CreatedCount     int                `json:"createdCount"`
	UpdatedCount     int                `json:"updatedCount"`
	MasterCount      int                `json:"masterCount"`
	UngroupedCount   int                `json:"ungroupedCount,omitempty"`
	ValidationErrors []ValidationError  `json:"validationErrors,omitempty"`
	Errors           []PersistenceError `json:"errors,omitempty"`
	DominantError    *DominantError     `json:"dominantError,omitempty"`
	LogID            *uuid.UUID         `json:"logId,omitempty"`
	Progress         ImportProgress     `json:"progress"`
	ProcessingMs     int64              `json:"processingMs"`
}

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	Required bool   `json:"required"`
	Type     string `json:"type"` // string, number, integer
	Example  string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Schema  string                 `json:"schema"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// CleanupResult reports the rows removed by the excel cleanup operation
type CleanupResult struct {
	VariantsDeleted int64 `json:"variantsDeleted"`
	MastersDeleted  int64 `json:"mastersDeleted"`
}

// ErrorResponse is the error envelope returned by the HTTP API
type ErrorResponse struct {
	Success bool  `json:"success"`
	Error   Error `json:"error"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
