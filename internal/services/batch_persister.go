package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

const (
	DefaultBatchSize    = 50
	MaxBatchSize        = 500
	DefaultWorkers      = 4
	DefaultChunkTimeout = 30 * time.Second
)

// BatchResult accumulates the outcome of persisting variants.
// SuccessCount + FailedCount always equals the number of variants submitted.
type BatchResult struct {
	SuccessCount int                       `json:"successCount"`
	FailedCount  int                       `json:"failedCount"`
	Created      int                       `json:"created"`
	Updated      int                       `json:"updated"`
	Masters      int                       `json:"masters"`
	Errors       []models.PersistenceError `json:"errors,omitempty"`
}

func (r *BatchResult) merge(other BatchResult) {
	r.SuccessCount += other.SuccessCount
	r.FailedCount += other.FailedCount
	r.Created += other.Created
	r.Updated += other.Updated
	r.Masters += other.Masters
	r.Errors = append(r.Errors, other.Errors...)
}

func (r *BatchResult) fail(group, chunk int, master, code, message string, count int) {
	r.FailedCount += count
	r.Errors = append(r.Errors, models.PersistenceError{
		Group:   group,
		Chunk:   chunk,
		Master:  master,
		Code:    code,
		Message: message,
		Count:   count,
	})
}

// PersistOptions tunes PersistGroups
type PersistOptions struct {
	BatchSize int
	Workers   int
	// OnGroupDone is called once per finished group, never concurrently
	OnGroupDone func(group int, result BatchResult)
}

// BatchPersister writes master products and their variants in chunks.
// A failing chunk is recorded and skipped; it never aborts the chunks after it.
type BatchPersister struct {
	repo         repository.CatalogRepositoryInterface
	chunkTimeout time.Duration
	logger       *logrus.Entry
}

// NewBatchPersister creates a new BatchPersister
func NewBatchPersister(repo repository.CatalogRepositoryInterface, chunkTimeout time.Duration, logger *logrus.Logger) *BatchPersister {
	if chunkTimeout <= 0 {
		chunkTimeout = DefaultChunkTimeout
	}
	return &BatchPersister{
		repo:         repo,
		chunkTimeout: chunkTimeout,
		logger:       logger.WithField("component", "batch-persister"),
	}
}

// PersistMaster upserts a master product by name and returns its id
func (p *BatchPersister) PersistMaster(ctx context.Context, master *models.MasterProduct) (uuid.UUID, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.chunkTimeout)
	defer cancel()

	saved, err := p.repo.UpsertMaster(callCtx, &models.MasterProduct{
		Name:      master.Name,
		BasePrice: master.BasePrice,
		Category:  master.Category,
		Source:    master.Source,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return saved.ID, nil
}

// PersistVariants upserts variants by article number in chunks of batchSize
func (p *BatchPersister) PersistVariants(ctx context.Context, variants []models.Variant, masterID uuid.UUID, batchSize int) BatchResult {
	return p.persistVariants(ctx, 0, "", variants, masterID, batchSize)
}

func (p *BatchPersister) persistVariants(ctx context.Context, group int, master string, variants []models.Variant, masterID uuid.UUID, batchSize int) BatchResult {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var result BatchResult
	for chunk, start := 0, 0; start < len(variants); chunk, start = chunk+1, start+batchSize {
		end := min(start+batchSize, len(variants))

		records := make([]*models.Variant, 0, end-start)
		for _, v := range variants[start:end] {
			record := v
			id := masterID
			record.MasterProductID = &id
			records = append(records, &record)
		}
		result.merge(p.persistChunk(ctx, group, chunk, master, records))
	}
	return result
}

func (p *BatchPersister) persistChunk(ctx context.Context, group, chunk int, master string, records []*models.Variant) BatchResult {
	var result BatchResult
	size := len(records)

	callCtx, cancel := context.WithTimeout(ctx, p.chunkTimeout)
	defer cancel()

	counts, err := p.repo.UpsertVariants(callCtx, records)
	if err != nil {
		code := models.ErrCodeChunkFailed
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			code = models.ErrCodeChunkTimeout
		}
		p.logger.WithError(err).WithFields(logrus.Fields{
			"master": master,
			"chunk":  chunk,
			"size":   size,
			"code":   code,
		}).Warn("Variant chunk failed")
		result.fail(group, chunk, master, code, err.Error(), size)
		return result
	}

	applied := min(counts.Applied(), size)
	result.SuccessCount = applied
	result.Created = min(counts.Created, applied)
	result.Updated = applied - result.Created
	if shortfall := size - applied; shortfall > 0 {
		result.fail(group, chunk, master, models.ErrCodePartialChunk,
			fmt.Sprintf("store applied %d of %d variants", applied, size), shortfall)
	}
	return result
}

// PersistGroups upserts every master and then its variants, fanning groups out
// to a bounded worker pool. Once ctx is cancelled no further group is started;
// the variants of unstarted groups are counted as failed. Groups already
// running finish on a context detached from ctx.
func (p *BatchPersister) PersistGroups(ctx context.Context, groups []models.MasterProduct, opts PersistOptions) BatchResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var (
		mu       sync.Mutex
		total    BatchResult
		panicked interface{}
	)
	record := func(i int, res BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		total.merge(res)
		if opts.OnGroupDone != nil {
			opts.OnGroupDone(i, res)
		}
	}

	detached := context.WithoutCancel(ctx)
	g := new(errgroup.Group)
	g.SetLimit(workers)

	cancelled := func(i int, group models.MasterProduct) {
		var res BatchResult
		res.fail(i, 0, group.Name, models.ErrCodeCancelled, "import cancelled before group was persisted", len(group.Variants))
		record(i, res)
	}

	for i := range groups {
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		group := groups[i]
		if ctx.Err() != nil {
			cancelled(i, group)
			continue
		}
		// Go blocks while every worker is busy; ctx may be cancelled meanwhile
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					mu.Lock()
					if panicked == nil {
						panicked = r
					}
					mu.Unlock()
				}
			}()
			if ctx.Err() != nil {
				cancelled(i, group)
				return nil
			}
			record(i, p.persistGroup(detached, i, group, opts.BatchSize))
			return nil
		})
	}
	_ = g.Wait()

	// surface a worker panic on the caller's goroutine
	if panicked != nil {
		panic(panicked)
	}

	sort.SliceStable(total.Errors, func(a, b int) bool {
		ea, eb := total.Errors[a], total.Errors[b]
		if ea.Group != eb.Group {
			return ea.Group < eb.Group
		}
		return ea.Chunk < eb.Chunk
	})
	return total
}

func (p *BatchPersister) persistGroup(ctx context.Context, index int, group models.MasterProduct, batchSize int) BatchResult {
	masterID, err := p.PersistMaster(ctx, &group)
	if err != nil {
		p.logger.WithError(err).WithField("master", group.Name).Warn("Master upsert failed")
		var res BatchResult
		res.fail(index, 0, group.Name, models.ErrCodeMasterUpsertFailed, err.Error(), len(group.Variants))
		return res
	}

	res := p.persistVariants(ctx, index, group.Name, group.Variants, masterID, batchSize)
	res.Masters = 1
	return res
}
