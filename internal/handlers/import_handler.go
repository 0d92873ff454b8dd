package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/grouping"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"
)

// ImportRunner is the part of the import service the HTTP layer uses
type ImportRunner interface {
	Run(ctx context.Context, req services.ImportRequest) (*models.ImportOutcome, error)
	CleanupExcelImports(ctx context.Context) (*models.CleanupResult, error)
	LatestImport(ctx context.Context) (*models.ImportLog, error)
	PreviewRegroup(ctx context.Context, strategy grouping.Strategy) ([]models.MasterProduct, error)
}

type ImportHandler struct {
	service       ImportRunner
	defaultSchema string
	maxBatchSize  int
	logger        *logrus.Entry
}

func NewImportHandler(service ImportRunner, defaultSchema string, maxBatchSize int, logger *logrus.Logger) *ImportHandler {
	if maxBatchSize <= 0 {
		maxBatchSize = services.MaxBatchSize
	}
	return &ImportHandler{
		service:       service,
		defaultSchema: defaultSchema,
		maxBatchSize:  maxBatchSize,
		logger:        logger.WithField("component", "import-handler"),
	}
}

// GetImportTemplate returns the import template definition or file
// @Summary Download import template
// @Tags imports
// @Produce json
// @Param schema query string false "Column mapping (localized, generic)"
// @Param format query string false "json, csv or xlsx"
// @Success 200 {object} models.ImportTemplate
// @Failure 400 {object} models.ErrorResponse
// @Router /imports/template [get]
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	schema := c.DefaultQuery("schema", h.defaultSchema)
	mapping, err := importer.Resolve(schema)
	if err != nil {
		respondError(c, http.StatusBadRequest, "UNKNOWN_SCHEMA", err.Error(), importer.Schemas())
		return
	}
	template := importer.TemplateFor(mapping)
	filename := "catalog_import_template_" + mapping.Name

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename="+filename+".csv")
		if err := importer.WriteCSVTemplate(c.Writer, template); err != nil {
			h.logger.WithError(err).Error("Failed to write CSV template")
		}
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", "attachment; filename="+filename+".xlsx")
		if err := importer.WriteXLSXTemplate(c.Writer, template); err != nil {
			h.logger.WithError(err).Error("Failed to write XLSX template")
		}
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// ImportProducts imports a CSV or Excel product sheet
// @Summary Import products from a spreadsheet
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param schema formData string false "Column mapping"
// @Param supplier formData string false "Supplier name"
// @Param strategy formData string false "prefix-merge or similarity-class"
// @Param batchSize formData int false "Variants per chunk"
// @Success 200 {object} models.ImportOutcome
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ImportOutcome
// @Failure 502 {object} models.ErrorResponse
// @Router /imports [post]
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "FILE_REQUIRED", "Please upload a CSV or Excel file", nil)
		return
	}
	defer file.Close()

	// empty leaves the service's configured strategy in place
	var strategy grouping.Strategy
	if raw := c.PostForm("strategy"); raw != "" {
		if strategy, err = grouping.ParseStrategy(raw); err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_STRATEGY", err.Error(), nil)
			return
		}
	}

	batchSize := 0
	if bs := c.PostForm("batchSize"); bs != "" {
		if parsed, err := strconv.Atoi(bs); err == nil && parsed > 0 {
			batchSize = min(parsed, h.maxBatchSize)
		}
	}

	sheet, err := importer.ReadFile(header.Filename, file)
	if err != nil {
		code := "PARSE_ERROR"
		if errors.Is(err, importer.ErrUnsupportedFile) {
			code = "INVALID_FORMAT"
		}
		respondError(c, http.StatusBadRequest, code, err.Error(), nil)
		return
	}
	if len(sheet.Rows) == 0 {
		respondError(c, http.StatusBadRequest, "EMPTY_FILE", "The file contains no data rows", nil)
		return
	}

	outcome, err := h.service.Run(c.Request.Context(), services.ImportRequest{
		FileName:  header.Filename,
		Schema:    c.DefaultPostForm("schema", h.defaultSchema),
		Supplier:  strings.TrimSpace(c.PostForm("supplier")),
		Strategy:  strategy,
		BatchSize: batchSize,
		Headers:   sheet.Headers,
		Rows:      sheet.Rows,
	})

	var schemaErr *importer.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		respondError(c, http.StatusBadRequest, "SCHEMA_MISMATCH", schemaErr.Error(), schemaErr.Missing)
	case errors.Is(err, services.ErrSystemicFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   models.Error{Code: "SYSTEMIC_FAILURE", Message: err.Error()},
			"outcome": outcome,
		})
	case err != nil:
		h.logger.WithError(err).WithField("file", header.Filename).Error("Import failed")
		respondError(c, http.StatusInternalServerError, "IMPORT_FAILED", err.Error(), nil)
	case outcome.State == models.ImportStateValidationFailed:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"outcome": outcome,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"outcome": outcome,
		})
	}
}

// GetLatestImport returns the most recent completed import log
// @Summary Latest completed import
// @Tags imports
// @Produce json
// @Success 200 {object} models.ImportLog
// @Failure 404 {object} models.ErrorResponse
// @Router /imports/latest [get]
func (h *ImportHandler) GetLatestImport(c *gin.Context) {
	log, err := h.service.LatestImport(c.Request.Context())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, http.StatusNotFound, "NOT_FOUND", "No completed import yet", nil)
			return
		}
		h.logger.WithError(err).Error("Failed to load latest import")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load latest import", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    log,
	})
}

// CleanupExcelImports deletes every excel-sourced variant and master
// @Summary Remove imported catalog data
// @Tags imports
// @Produce json
// @Success 200 {object} models.CleanupResult
// @Failure 500 {object} models.ErrorResponse
// @Router /imports/excel [delete]
func (h *ImportHandler) CleanupExcelImports(c *gin.Context) {
	result, err := h.service.CleanupExcelImports(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Cleanup failed")
		respondError(c, http.StatusInternalServerError, "CLEANUP_FAILED", err.Error(), result)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// PreviewRegroup shows how the stored catalog would group under a strategy
// @Summary Preview regrouping of imported variants
// @Tags imports
// @Produce json
// @Param strategy query string false "prefix-merge or similarity-class"
// @Success 200 {array} models.MasterProduct
// @Failure 400 {object} models.ErrorResponse
// @Router /imports/regroup-preview [get]
func (h *ImportHandler) PreviewRegroup(c *gin.Context) {
	strategy, err := grouping.ParseStrategy(c.DefaultQuery("strategy", string(grouping.StrategySimilarityClass)))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_STRATEGY", err.Error(), nil)
		return
	}
	masters, err := h.service.PreviewRegroup(c.Request.Context(), strategy)
	if err != nil {
		h.logger.WithError(err).Error("Regroup preview failed")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to preview grouping", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"strategy": strategy,
		"data":     masters,
		"count":    len(masters),
	})
}

func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
