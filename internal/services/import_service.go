package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"catalog-service/internal/grouping"
	"catalog-service/internal/importer"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ErrSystemicFailure means no variant of a run could be persisted
var ErrSystemicFailure = errors.New("systemic persistence failure: no variant was written")

// ImportEventPublisher is notified after an import run has been logged
type ImportEventPublisher interface {
	PublishImportCompleted(ctx context.Context, log *models.ImportLog, outcome *models.ImportOutcome) error
}

// ProgressFunc receives the state and counters after each transition and finished group
type ProgressFunc func(state models.ImportState, progress models.ImportProgress)

// ImportSettings holds the defaults applied when a request leaves them unset
type ImportSettings struct {
	BatchSize    int
	MaxBatchSize int
	Workers      int
	ChunkTimeout time.Duration
	Strategy     grouping.Strategy
}

// ImportRequest is one spreadsheet import. Headers, when given, are checked
// against the mapping before any row is looked at.
type ImportRequest struct {
	FileName   string
	Schema     string
	Supplier   string
	Strategy   grouping.Strategy
	BatchSize  int
	Headers    []string
	Rows       []models.RawRow
	OnProgress ProgressFunc
}

// ImportService runs the import state machine
type ImportService struct {
	catalog   repository.CatalogRepositoryInterface
	logs      repository.ImportLogRepositoryInterface
	publisher ImportEventPublisher
	persister *BatchPersister
	settings  ImportSettings
	logger    *logrus.Entry
}

// NewImportService creates a new ImportService. publisher may be nil.
func NewImportService(
	catalog repository.CatalogRepositoryInterface,
	logs repository.ImportLogRepositoryInterface,
	publisher ImportEventPublisher,
	settings ImportSettings,
	logger *logrus.Logger,
) *ImportService {
	if settings.BatchSize <= 0 {
		settings.BatchSize = DefaultBatchSize
	}
	if settings.MaxBatchSize <= 0 {
		settings.MaxBatchSize = MaxBatchSize
	}
	if settings.Workers <= 0 {
		settings.Workers = DefaultWorkers
	}
	if settings.Strategy == "" {
		settings.Strategy = grouping.DefaultStrategy
	}
	return &ImportService{
		catalog:   catalog,
		logs:      logs,
		publisher: publisher,
		persister: NewBatchPersister(catalog, settings.ChunkTimeout, logger),
		settings:  settings,
		logger:    logger.WithField("component", "import-service"),
	}
}

// Settings returns the effective defaults
func (s *ImportService) Settings() ImportSettings {
	return s.settings
}

// importRun carries the state of one run. Progress is guarded by mu because
// persistence workers report into it.
type importRun struct {
	mu         sync.Mutex
	state      models.ImportState
	progress   models.ImportProgress
	onProgress ProgressFunc
	logger     *logrus.Entry
}

func (r *importRun) transition(state models.ImportState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger.WithFields(logrus.Fields{"from": r.state, "to": state}).Debug("Import state transition")
	r.state = state
	r.notify()
}

func (r *importRun) update(fn func(p *models.ImportProgress)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(&r.progress)
	r.notify()
}

func (r *importRun) notify() {
	if r.onProgress == nil {
		return
	}
	p := r.progress
	p.ValidationErrors = append([]models.ValidationError(nil), r.progress.ValidationErrors...)
	r.onProgress(r.state, p)
}

func (r *importRun) snapshot() (models.ImportState, models.ImportProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.progress
}

// Run executes one import. Schema problems and systemic failure come back as
// errors alongside the outcome; validation failures and partial persistence
// failures are reported in the outcome only.
func (s *ImportService) Run(ctx context.Context, req ImportRequest) (*models.ImportOutcome, error) {
	start := time.Now()
	logger := s.logger.WithFields(logrus.Fields{"file": req.FileName, "schema": req.Schema})
	run := &importRun{state: models.ImportStateIdle, onProgress: req.OnProgress, logger: logger}

	finish := func(outcome *models.ImportOutcome) *models.ImportOutcome {
		outcome.State, outcome.Progress = run.snapshot()
		outcome.ProcessingMs = time.Since(start).Milliseconds()
		return outcome
	}

	mapping, err := importer.Resolve(req.Schema)
	if err == nil && req.Headers != nil {
		err = mapping.CheckHeaders(req.Headers)
	}
	if err != nil {
		logger.WithError(err).Warn("Import rejected before validation")
		run.transition(models.ImportStateFailed)
		return finish(&models.ImportOutcome{}), err
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = s.settings.Strategy
	}
	grouper, err := grouping.New(strategy)
	if err != nil {
		run.transition(models.ImportStateFailed)
		return finish(&models.ImportOutcome{}), err
	}

	run.transition(models.ImportStateValidating)
	validationErrors := importer.Validate(req.Rows, mapping)
	run.update(func(p *models.ImportProgress) {
		p.Total = len(req.Rows)
		p.ValidationErrors = validationErrors
	})
	if len(validationErrors) > 0 {
		logger.WithField("errors", len(validationErrors)).Info("Import rejected by validation")
		run.transition(models.ImportStateValidationFailed)
		return finish(&models.ImportOutcome{ValidationErrors: validationErrors}), nil
	}

	outcome, err := s.execute(ctx, run, req, mapping, grouper)
	outcome = finish(outcome)
	logger.WithFields(logrus.Fields{
		"state":      outcome.State,
		"successful": outcome.SuccessCount,
		"failed":     outcome.FailedCount,
		"masters":    outcome.MasterCount,
		"duration":   outcome.ProcessingMs,
	}).Info("Import finished")
	return outcome, err
}

// execute runs mapping, grouping and persistence. A panic in any stage ends
// the run in Failed with the panic as the cause.
func (s *ImportService) execute(ctx context.Context, run *importRun, req ImportRequest, mapping importer.ColumnMapping, grouper grouping.Grouper) (outcome *models.ImportOutcome, err error) {
	outcome = &models.ImportOutcome{}
	defer func() {
		if r := recover(); r != nil {
			state, _ := run.snapshot()
			err = fmt.Errorf("import failed during %s: %v", strings.ToLower(string(state)), r)
			run.logger.WithField("panic", r).Error("Import aborted")
			run.transition(models.ImportStateFailed)
		}
	}()

	run.transition(models.ImportStateMapping)
	variants := importer.MapRows(req.Rows, mapping)
	run.update(func(p *models.ImportProgress) { p.Total = len(variants) })

	run.transition(models.ImportStateGrouping)
	groups := grouper.Group(variants)
	outcome.MasterCount = len(groups)
	grouped := 0
	for _, g := range groups {
		grouped += len(g.Variants)
	}
	outcome.UngroupedCount = len(variants) - grouped

	batchSize := req.BatchSize
	if batchSize <= 0 {
		batchSize = s.settings.BatchSize
	}
	batchSize = min(batchSize, s.settings.MaxBatchSize)

	run.transition(models.ImportStatePersisting)
	result := s.persister.PersistGroups(ctx, groups, PersistOptions{
		BatchSize: batchSize,
		Workers:   s.settings.Workers,
		OnGroupDone: func(_ int, res BatchResult) {
			run.update(func(p *models.ImportProgress) {
				p.Processed += res.SuccessCount + res.FailedCount
				p.Successful += res.SuccessCount
				p.Failed += res.FailedCount
			})
		},
	})

	outcome.SuccessCount = result.SuccessCount
	outcome.FailedCount = result.FailedCount
	outcome.CreatedCount = result.Created
	outcome.UpdatedCount = result.Updated
	outcome.MasterCount = result.Masters
	outcome.Errors = result.Errors
	outcome.DominantError = DominantError(result.Errors)

	switch {
	case result.SuccessCount == 0 && result.FailedCount > 0:
		run.transition(models.ImportStateFailed)
		cause := ErrSystemicFailure
		if outcome.DominantError != nil {
			return outcome, fmt.Errorf("%w: %s: %s", cause, outcome.DominantError.Code, outcome.DominantError.Message)
		}
		return outcome, cause
	case result.FailedCount == 0:
		run.transition(models.ImportStateCompleted)
	default:
		run.transition(models.ImportStateCompletedWithFailures)
	}

	state, _ := run.snapshot()
	outcome.State = state
	s.recordLog(ctx, run, req, grouper.Strategy(), outcome)
	return outcome, nil
}

// recordLog writes the audit entry and publishes the completion event. Neither
// failure changes the outcome of the run.
func (s *ImportService) recordLog(ctx context.Context, run *importRun, req ImportRequest, strategy grouping.Strategy, outcome *models.ImportOutcome) {
	entry := &models.ImportLog{
		FileName:        req.FileName,
		Schema:          req.Schema,
		Strategy:        string(strategy),
		ImportStatus:    models.ImportStatusCompleted,
		ProductsAdded:   outcome.CreatedCount,
		ProductsUpdated: outcome.UpdatedCount,
		ProductsFailed:  outcome.FailedCount,
	}
	if req.Supplier != "" {
		supplier := req.Supplier
		entry.Supplier = &supplier
	}

	logCtx := context.WithoutCancel(ctx)
	if err := s.logs.Create(logCtx, entry); err != nil {
		run.logger.WithError(err).Error("Failed to write import log")
		return
	}
	id := entry.ID
	outcome.LogID = &id

	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishImportCompleted(logCtx, entry, outcome); err != nil {
		run.logger.WithError(err).Warn("Failed to publish import event")
	}
}

// DominantError picks the most frequent error code; its message is the first
// one seen for that code. Ties go to the code seen first.
func DominantError(errs []models.PersistenceError) *models.DominantError {
	if len(errs) == 0 {
		return nil
	}
	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	for _, e := range errs {
		if _, ok := counts[e.Code]; !ok {
			order = append(order, e.Code)
			first[e.Code] = e.Message
		}
		counts[e.Code]++
	}
	best := order[0]
	for _, code := range order[1:] {
		if counts[code] > counts[best] {
			best = code
		}
	}
	return &models.DominantError{Code: best, Message: first[best], Occurrences: counts[best]}
}

// CleanupExcelImports deletes every excel-sourced variant and then every
// excel-sourced master. It stops at the first failing step; counts of the
// steps that ran are returned alongside the error.
func (s *ImportService) CleanupExcelImports(ctx context.Context) (*models.CleanupResult, error) {
	result := &models.CleanupResult{}
	excel := models.SourcePredicate(models.SourceExcel)

	n, err := s.catalog.DeleteWhere(ctx, models.TableVariants, excel)
	if err != nil {
		return result, fmt.Errorf("failed to delete excel variants: %w", err)
	}
	result.VariantsDeleted = n

	n, err = s.catalog.DeleteWhere(ctx, models.TableMasterProducts, excel)
	if err != nil {
		return result, fmt.Errorf("failed to delete excel master products: %w", err)
	}
	result.MastersDeleted = n

	s.logger.WithFields(logrus.Fields{
		"variants": result.VariantsDeleted,
		"masters":  result.MastersDeleted,
	}).Info("Excel imports cleaned up")
	return result, nil
}

// LatestImport returns the most recent completed import log
func (s *ImportService) LatestImport(ctx context.Context) (*models.ImportLog, error) {
	return s.logs.LatestCompleted(ctx)
}

// PreviewRegroup regroups the stored excel catalog with the given strategy
// without writing anything. Variant names are restored to their full form first.
func (s *ImportService) PreviewRegroup(ctx context.Context, strategy grouping.Strategy) ([]models.MasterProduct, error) {
	grouper, err := grouping.New(strategy)
	if err != nil {
		return nil, err
	}
	masters, err := s.catalog.SelectMasters(ctx, models.SourcePredicate(models.SourceExcel))
	if err != nil {
		return nil, err
	}

	var variants []models.Variant
	for _, m := range masters {
		for _, v := range m.Variants {
			v.Name = FullVariantName(m.Name, v.Name)
			variants = append(variants, v)
		}
	}
	return grouper.Group(variants), nil
}

// FullVariantName rebuilds the original product name from a master name and a
// variant label. Labels that already carry the master name are returned as is.
func FullVariantName(master, label string) string {
	if label == "" {
		return master
	}
	if master == "" || strings.HasPrefix(strings.ToLower(label), strings.ToLower(master)) {
		return label
	}
	return master + " " + label
}
