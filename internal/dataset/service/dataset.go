package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"negociosverdes/internal/catalog"
	"negociosverdes/internal/classifier"
	dataseterrors "negociosverdes/internal/dataset/errors"
	"negociosverdes/internal/dataset/repository"
	"negociosverdes/internal/events"
	"negociosverdes/internal/pipeline"
	"negociosverdes/pkg/config"
	apperrors "negociosverdes/pkg/errors"
	"negociosverdes/pkg/logger"
	"negociosverdes/pkg/metrics"
	"negociosverdes/pkg/model"
	"negociosverdes/pkg/sanitizer"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type DatasetService interface {
	// Snapshot returns the cleaned table of the active version, loading it on first use.
	Snapshot(ctx context.Context) (*model.Snapshot, error)
	// Refresh runs the pipeline again and makes the result active under version. An
	// empty version generates a fresh token.
	Refresh(ctx context.Context, version string) (*model.Snapshot, error)
	// List returns one page of matching rows and the total number of matches.
	List(ctx context.Context, query model.RecordQuery) (*model.Table, int, error)
	FilterOptions(ctx context.Context) (*model.FilterOptions, error)
	// Loaded reports whether a snapshot is in memory.
	Loaded() bool
}

// Runner produces a cleaned table. *pipeline.Pipeline is the production Runner.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Result, error)
	SourceName() string
}

type datasetService struct {
	runner    Runner
	repo      repository.SnapshotRepository
	publisher events.Publisher
	log       *logger.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.RWMutex
	version string
	current *model.Snapshot
	// generation counts activations. A warm load only activates when no other
	// snapshot was activated while it ran.
	generation uint64

	group singleflight.Group
}

// NewDatasetService wires the service. repo may be nil when no snapshot store is
// configured and publisher may be nil when events are disabled.
func NewDatasetService(
	runner Runner,
	repo repository.SnapshotRepository,
	publisher events.Publisher,
	version string,
	log *logger.Logger,
	m *metrics.Metrics,
) DatasetService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &datasetService{
		runner:    runner,
		repo:      repo,
		publisher: publisher,
		log:       log,
		metrics:   m,
		now:       time.Now,
		version:   version,
	}
}

func (s *datasetService) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	version, current := s.version, s.current
	s.mu.RUnlock()

	if current != nil && current.Version == version {
		return current, nil
	}

	return s.load(ctx, version, true)
}

func (s *datasetService) Refresh(ctx context.Context, version string) (*model.Snapshot, error) {
	if version == "" {
		version = s.newVersion()
	}

	snap, err := s.load(ctx, "refresh:"+version, false)
	if err != nil {
		return nil, err
	}

	s.log.Info("Dataset refreshed", "version", snap.Version, "run_id", snap.Report.RunID)
	return snap, nil
}

func (s *datasetService) newVersion() string {
	return s.now().UTC().Format("20060102T150405") + "-" + uuid.NewString()[:8]
}

func (s *datasetService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// load collapses concurrent loads of one key into a single run. Keys of refreshes carry
// a "refresh:" prefix so that a refresh never shares the result of a warm start.
func (s *datasetService) load(ctx context.Context, key string, warm bool) (*model.Snapshot, error) {
	version := strings.TrimPrefix(key, "refresh:")

	// The shared run must outlive the caller that happened to start it.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		return s.build(shared, version, warm)
	})

	select {
	case <-ctx.Done():
		return nil, apperrors.Timeout("Dataset load did not finish in time")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Snapshot), nil
	}
}

func (s *datasetService) build(ctx context.Context, version string, warm bool) (*model.Snapshot, error) {
	s.mu.RLock()
	started := s.generation
	s.mu.RUnlock()

	if warm {
		if snap := s.loadStored(ctx, version); snap != nil {
			return s.activate(snap, started, false), nil
		}
	}

	res, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("Failed to build dataset", "version", version, "source", s.runner.SourceName(), "error", err)
		return nil, apperrors.SourceUnavailable(err)
	}

	snap := &model.Snapshot{
		Version:  version,
		Table:    res.Table,
		Report:   res.Report,
		Origin:   model.OriginPipeline,
		LoadedAt: s.now(),
	}
	active := s.activate(snap, started, !warm)
	s.store(ctx, snap)
	s.publish(ctx, snap)

	return active, nil
}

// activate makes snap the active snapshot and returns whichever snapshot is active
// afterwards. Refreshes always win. A warm load that finishes after another activation
// leaves the newer snapshot in place.
func (s *datasetService) activate(snap *model.Snapshot, started uint64, refresh bool) *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !refresh && s.generation != started && s.current != nil {
		s.log.Info("Discarding stale dataset load", "version", snap.Version, "active_version", s.version)
		return s.current
	}

	s.generation++
	s.version = snap.Version
	s.current = snap
	s.metrics.Snapshot(snap.Table.Len(), snap.Report.Aligned)
	return snap
}

func (s *datasetService) loadStored(ctx context.Context, version string) *model.Snapshot {
	if s.repo == nil {
		return nil
	}

	snap, err := s.repo.Load(ctx, version)
	switch {
	case err == nil:
		s.metrics.StoreOperation("load", "hit")
		snap.Origin = model.OriginStore
		snap.LoadedAt = s.now()
		s.log.Info("Dataset loaded from snapshot store", "version", version, "rows", snap.Table.Len())
		return snap
	case errors.Is(err, dataseterrors.ErrSnapshotNotFound):
		s.metrics.StoreOperation("load", "miss")
		s.log.Debug("No stored snapshot", "version", version)
	default:
		s.metrics.StoreOperation("load", "error")
		s.log.Warn("Failed to load stored snapshot, running pipeline", "version", version, "error", err)
	}
	return nil
}

func (s *datasetService) store(ctx context.Context, snap *model.Snapshot) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, snap); err != nil {
		s.metrics.StoreOperation("save", "error")
		s.log.Warn("Failed to save snapshot", "version", snap.Version, "error", err)
		return
	}
	s.metrics.StoreOperation("save", "success")
}

func (s *datasetService) publish(ctx context.Context, snap *model.Snapshot) {
	event := events.DatasetCleaned{
		Version:      snap.Version,
		RunID:        snap.Report.RunID,
		Source:       snap.Report.Source,
		Rows:         snap.Table.Len(),
		Aligned:      snap.Report.Aligned,
		SkippedSteps: snap.Report.SkippedSteps(),
		FinishedAt:   snap.Report.FinishedAt,
	}
	if err := s.publisher.PublishDatasetCleaned(ctx, event); err != nil {
		s.log.Warn("Failed to publish dataset event", "version", snap.Version, "error", err)
	}
}

func (s *datasetService) List(ctx context.Context, query model.RecordQuery) (*model.Table, int, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, 0, err
	}

	matches := snap.Table.Filter(matcher(snap.Table, query))
	page := matches.Slice(config.NormalizeOffset(query.Offset), config.NormalizePaginationLimit(query.Limit))
	return page, matches.Len(), nil
}

func matcher(t *model.Table, q model.RecordQuery) func(i int) bool {
	regions := setOf(q.Regions)
	departments := setOf(q.Departments)
	sectors := setOf(q.Sectors)
	search := catalog.MatchKey(q.Search)

	return func(i int) bool {
		if !inSet(regions, t.Get(i, model.ColumnRegion)) ||
			!inSet(departments, t.Get(i, model.ColumnDepartment)) ||
			!inSet(sectors, t.Get(i, model.ColumnSector)) {
			return false
		}
		if len(q.Categories) > 0 && !mentionsAny(t.Get(i, model.ColumnAlignmentCategories).Text(), q.Categories) {
			return false
		}
		if q.Aligned != nil && (t.Get(i, model.ColumnAligned).Text() == model.AlignedYes) != *q.Aligned {
			return false
		}
		if search != "" && !strings.Contains(catalog.MatchKey(t.Get(i, model.ColumnDescription).Text()), search) {
			return false
		}
		return true
	}
}

func setOf(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]bool, len(values))
	for _, v := range values {
		out[v] = true
	}
	return out
}

// inSet is true for an empty selection; otherwise the cell text must be selected.
func inSet(set map[string]bool, v model.Value) bool {
	if set == nil {
		return true
	}
	return !v.IsNull() && set[v.Text()]
}

func mentionsAny(classification string, categories []string) bool {
	for _, c := range categories {
		if strings.Contains(classification, c) {
			return true
		}
	}
	return false
}

func (s *datasetService) FilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	t := snap.Table

	var categories []string
	for _, v := range t.Column(model.ColumnAlignmentCategories) {
		categories = append(categories, classifier.Split(v.Text())...)
	}

	return &model.FilterOptions{
		Regions:     sanitizer.UniqueSorted(texts(t.Column(model.ColumnRegion)), strings.TrimSpace),
		Departments: sanitizer.UniqueSorted(texts(t.Column(model.ColumnDepartment)), strings.TrimSpace),
		Sectors:     sanitizer.UniqueSorted(texts(t.Column(model.ColumnSector)), strings.TrimSpace),
		Categories:  sanitizer.UniqueSorted(categories, strings.TrimSpace),
	}, nil
}

func texts(values []model.Value) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !v.IsNull() {
			out = append(out, v.Text())
		}
	}
	return out
}
