package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/fatih-calik/dersdagitim-sub001/internal/models"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/config"
	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
	"github.com/fatih-calik/dersdagitim-sub001/pkg/jobs"
)

const gapPenaltyShrink = 0.9

type solverStore interface {
	GetParams(ctx context.Context, engine string) (*models.SolverParams, error)
	SaveParams(ctx context.Context, params *models.SolverParams) error
	CreateRun(ctx context.Context, run *models.SolverRun) error
	UpdateRun(ctx context.Context, id, status string, placed, unplaced int, progress types.JSONText, finishedAt *time.Time) error
	FindRun(ctx context.Context, id string) (*models.SolverRun, error)
}

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*PlacementSnapshot, error)
}

type solverBlockStore interface {
	BeginTxx(ctx context.Context) (*sqlx.Tx, error)
	ListAll(ctx context.Context) ([]models.DistributionBlock, error)
	ListPlaced(ctx context.Context) ([]models.DistributionBlock, error)
	Unplace(ctx context.Context, exec sqlx.ExtContext, id int64) error
	UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, id int64, day, hour int, locked, manual bool, placementType string) error
	UpdateScores(ctx context.Context, id int64, gap, adjacency, total float64) error
}

type solverMetrics interface {
	SolverRun(engine, status string, took time.Duration)
}

type solverJob struct {
	RunID  string
	Engine string
}

// UpdateSolverParamsRequest tunes the persisted weights for one engine.
type UpdateSolverParamsRequest struct {
	TimeBudgetMS    int64                `json:"time_budget_ms" validate:"min=0"`
	Mode            models.PlacementMode `json:"mode" validate:"required,oneof=CLEAR_ALL KEEP_LOCKED KEEP_CURRENT"`
	GapPenalty      int                  `json:"gap_penalty" validate:"min=1"`
	MorningWeight   int                  `json:"morning_weight" validate:"min=0"`
	AdjacencyReward int                  `json:"adjacency_reward" validate:"min=0"`
	MinDailyLessons int                  `json:"min_daily_lessons" validate:"min=0"`
	BalancePenalty  int                  `json:"balance_penalty" validate:"min=0"`
}

// SolverService owns the pluggable engines, their persisted parameters and
// the asynchronous run lifecycle.
type SolverService struct {
	store     solverStore
	blocks    solverBlockStore
	snapshots snapshotProvider
	lessons   validatorLessonStore
	sessions  sessionStaler
	views     viewInvalidator
	metrics   solverMetrics
	cfg       config.SolverConfig
	validator *validator.Validate
	logger    *zap.Logger

	mu      sync.RWMutex
	engines map[string]Solver
	queue   *jobs.Queue
}

// NewSolverService instantiates SolverService with the greedy baseline
// engine registered.
func NewSolverService(store solverStore, blocks solverBlockStore, snapshots snapshotProvider, lessons validatorLessonStore, sessions sessionStaler, views viewInvalidator, metrics solverMetrics, cfg config.SolverConfig, validate *validator.Validate, logger *zap.Logger) *SolverService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SolverService{
		store:     store,
		blocks:    blocks,
		snapshots: snapshots,
		lessons:   lessons,
		sessions:  sessions,
		views:     views,
		metrics:   metrics,
		cfg:       cfg,
		validator: validate,
		logger:    logger,
		engines:   map[string]Solver{},
	}
	s.RegisterEngine(NewGreedyEngine())
	s.queue = jobs.NewQueue("solver", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.QueueWorkers,
		MaxRetries: 1,
		Logger:     logger,
	})
	return s
}

// RegisterEngine adds or replaces a placement engine.
func (s *SolverService) RegisterEngine(engine Solver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engines[engine.Name()] = engine
}

// Start launches the run workers.
func (s *SolverService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the run workers.
func (s *SolverService) Stop() {
	s.queue.Stop()
}

// Engines lists the registered engine names.
func (s *SolverService) Engines() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	return names
}

// Params returns the persisted parameter set for an engine, falling back to
// the configured defaults.
func (s *SolverService) Params(ctx context.Context, engine string) (*models.SolverParams, error) {
	if engine == "" {
		engine = s.cfg.Engine
	}
	if _, err := s.engine(engine); err != nil {
		return nil, err
	}
	params, err := s.store.GetParams(ctx, engine)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := s.defaultParams(engine)
			return &defaults, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solver params")
	}
	return params, nil
}

// UpdateParams persists a new parameter set for an engine.
func (s *SolverService) UpdateParams(ctx context.Context, engine string, req UpdateSolverParamsRequest) (*models.SolverParams, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid solver params payload")
	}
	if engine == "" {
		engine = s.cfg.Engine
	}
	if _, err := s.engine(engine); err != nil {
		return nil, err
	}
	params := &models.SolverParams{
		Engine:       engine,
		TimeBudgetMS: req.TimeBudgetMS,
		Mode:         req.Mode,
		SolverWeights: models.SolverWeights{
			GapPenalty:      req.GapPenalty,
			MorningWeight:   req.MorningWeight,
			AdjacencyReward: req.AdjacencyReward,
			MinDailyLessons: req.MinDailyLessons,
			BalancePenalty:  req.BalancePenalty,
		},
	}
	if params.TimeBudgetMS == 0 {
		params.TimeBudgetMS = s.cfg.TimeBudget.Milliseconds()
	}
	if err := s.store.SaveParams(ctx, params); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save solver params")
	}
	return params, nil
}

// StartRun creates a pending run record and enqueues the search.
func (s *SolverService) StartRun(ctx context.Context, engine string) (*models.SolverRun, error) {
	if engine == "" {
		engine = s.cfg.Engine
	}
	if _, err := s.engine(engine); err != nil {
		return nil, err
	}
	run := &models.SolverRun{
		ID:     uuid.NewString(),
		Engine: engine,
		Status: models.SolverRunPending,
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create solver run")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: run.ID, Type: "solver.run", Payload: solverJob{RunID: run.ID, Engine: engine}}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue solver run")
	}
	s.logger.Info("solver run enqueued", zap.String("run_id", run.ID), zap.String("engine", engine))
	return run, nil
}

// GetRun loads one run record.
func (s *SolverService) GetRun(ctx context.Context, id string) (*models.SolverRun, error) {
	run, err := s.store.FindRun(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solver run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load solver run")
	}
	return run, nil
}

func (s *SolverService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(solverJob)
	if !ok {
		return fmt.Errorf("unexpected solver payload %T", job.Payload)
	}
	return s.Execute(ctx, payload.RunID, payload.Engine)
}

// Execute runs one placement search synchronously and records the outcome.
func (s *SolverService) Execute(ctx context.Context, runID, engineName string) error {
	start := time.Now()
	engine, err := s.engine(engineName)
	if err != nil {
		return err
	}
	params, err := s.Params(ctx, engineName)
	if err != nil {
		return err
	}

	var progressMu sync.Mutex
	var notes []string
	progress := func(note string) {
		progressMu.Lock()
		notes = append(notes, note)
		progressMu.Unlock()
		s.logger.Debug("solver progress", zap.String("run_id", runID), zap.String("note", note))
	}

	if err := s.store.UpdateRun(ctx, runID, models.SolverRunRunning, 0, 0, nil, nil); err != nil {
		return err
	}

	status, placed, unplaced, runErr := s.execute(ctx, engine, *params, progress)

	now := time.Now().UTC()
	progressJSON, _ := json.Marshal(notes)
	if err := s.store.UpdateRun(ctx, runID, status, placed, unplaced, progressJSON, &now); err != nil {
		s.logger.Error("failed to finalize solver run", zap.String("run_id", runID), zap.Error(err))
	}

	if s.sessions != nil {
		s.sessions.MarkMutation()
	}
	if s.views != nil {
		if err := s.views.Invalidate(ctx); err != nil {
			s.logger.Warn("failed to invalidate timetable views", zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.SolverRun(engineName, status, time.Since(start))
	}

	// A run that left blocks unplaced relaxes the gap penalty for the next
	// attempt: shrink by 10 percent, never below 1.
	if status == models.SolverRunFailed && runErr == nil {
		shrunk := int(float64(params.GapPenalty) * gapPenaltyShrink)
		if shrunk < 1 {
			shrunk = 1
		}
		if shrunk != params.GapPenalty {
			params.GapPenalty = shrunk
			if err := s.store.SaveParams(ctx, params); err != nil {
				s.logger.Error("failed to persist shrunk gap penalty", zap.Error(err))
			} else {
				s.logger.Info("gap penalty shrunk after failed run",
					zap.String("run_id", runID), zap.Int("gap_penalty", shrunk))
			}
		}
	}

	s.logger.Info("solver run finished",
		zap.String("run_id", runID),
		zap.String("status", status),
		zap.Int("placed", placed),
		zap.Int("unplaced", unplaced),
		zap.Duration("took", time.Since(start)))
	return runErr
}

func (s *SolverService) execute(ctx context.Context, engine Solver, params models.SolverParams, progress func(string)) (status string, placed, unplaced int, err error) {
	if err = s.prepareMode(ctx, params.Mode); err != nil {
		return models.SolverRunFailed, 0, 0, err
	}
	snapshot, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return models.SolverRunFailed, 0, 0, err
	}
	all, err := s.blocks.ListAll(ctx)
	if err != nil {
		return models.SolverRunFailed, 0, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blocks")
	}
	var candidates []models.DistributionBlock
	for _, b := range all {
		if !b.Placed() {
			candidates = append(candidates, b)
		}
	}
	morning, err := s.morningWeights(ctx)
	if err != nil {
		return models.SolverRunFailed, 0, 0, err
	}

	budget := params.TimeBudget()
	if budget <= 0 {
		budget = s.cfg.TimeBudget
	}
	solveCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	result, err := engine.Solve(solveCtx, SolverInput{
		Candidates:     candidates,
		Snapshot:       snapshot,
		MorningWeights: morning,
	}, params, progress)
	if err != nil {
		return models.SolverRunFailed, 0, 0, err
	}

	if err = s.applyPlacements(ctx, candidates, result); err != nil {
		return models.SolverRunFailed, 0, 0, err
	}
	s.scorePlacedBlocks(ctx, params)

	placed = len(result.Placements)
	unplaced = len(result.Unplaced)
	if unplaced > 0 {
		return models.SolverRunFailed, placed, unplaced, nil
	}
	return models.SolverRunSucceeded, placed, unplaced, nil
}

// prepareMode clears placements according to the run mode: CLEAR_ALL starts
// from an empty grid, KEEP_LOCKED keeps only locked and manual placements,
// KEEP_CURRENT keeps everything.
func (s *SolverService) prepareMode(ctx context.Context, mode models.PlacementMode) error {
	if mode == "" {
		mode = models.PlacementMode(s.cfg.Mode)
	}
	if mode == models.ModeKeepAll {
		return nil
	}
	placed, err := s.blocks.ListPlaced(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load placed blocks")
	}
	var targets []int64
	for _, b := range placed {
		if mode == models.ModeClearAll || !b.Protected() {
			targets = append(targets, b.ID)
		}
	}
	if len(targets) == 0 {
		return nil
	}

	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, id := range targets {
		if err = s.blocks.Unplace(ctx, tx, id); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear placement")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	s.logger.Info("solver cleared placements", zap.String("mode", string(mode)), zap.Int("cleared", len(targets)))
	return nil
}

func (s *SolverService) applyPlacements(ctx context.Context, candidates []models.DistributionBlock, result SolverResult) error {
	if len(result.Placements) == 0 {
		return nil
	}
	tx, err := s.blocks.BeginTxx(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	for _, b := range candidates {
		slot, ok := result.Placements[b.ID]
		if !ok {
			continue
		}
		if err = s.blocks.UpdatePlacement(ctx, tx, b.ID, slot.Day, slot.Hour, false, false, models.PlacementAuto); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply placement")
		}
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit transaction")
	}
	return nil
}

// scorePlacedBlocks writes quality scores back to every placed block. Score
// failures only degrade reporting, they never fail the run.
func (s *SolverService) scorePlacedBlocks(ctx context.Context, params models.SolverParams) {
	placed, err := s.blocks.ListPlaced(ctx)
	if err != nil {
		s.logger.Warn("failed to load blocks for scoring", zap.Error(err))
		return
	}
	for i := range placed {
		b := &placed[i]
		classHours := make([]int, 0, 8)
		adjacency := 0.0
		for j := range placed {
			other := &placed[j]
			if other.Day != b.Day {
				continue
			}
			if other.ClassID == b.ClassID {
				for offset := 0; offset < other.Duration; offset++ {
					classHours = append(classHours, other.Hour+offset)
				}
			}
			if other.ID != b.ID && other.ClassLessonID == b.ClassLessonID &&
				(other.Hour+other.Duration == b.Hour || b.Hour+b.Duration == other.Hour) {
				adjacency = 1
			}
		}
		gap := float64(GapForHours(classHours))
		total := adjacency*float64(params.AdjacencyReward) - gap*float64(params.GapPenalty)
		if err := s.blocks.UpdateScores(ctx, b.ID, gap, adjacency, total); err != nil {
			s.logger.Warn("failed to store block scores", zap.Int64("block_id", b.ID), zap.Error(err))
		}
	}
}

func (s *SolverService) morningWeights(ctx context.Context) (map[string]int, error) {
	lessons, err := s.lessons.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	weights := make(map[string]int, len(lessons))
	for _, lesson := range lessons {
		weights[lesson.Code] = lesson.MorningWeight
	}
	return weights, nil
}

func (s *SolverService) engine(name string) (Solver, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	engine, ok := s.engines[name]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown solver engine %q", name))
	}
	return engine, nil
}

func (s *SolverService) defaultParams(engine string) models.SolverParams {
	return models.SolverParams{
		Engine:       engine,
		TimeBudgetMS: s.cfg.TimeBudget.Milliseconds(),
		Mode:         models.PlacementMode(s.cfg.Mode),
		SolverWeights: models.SolverWeights{
			GapPenalty:      s.cfg.GapPenalty,
			MorningWeight:   s.cfg.MorningWeight,
			AdjacencyReward: s.cfg.AdjacencyReward,
			MinDailyLessons: s.cfg.MinDailyLessons,
			BalancePenalty:  s.cfg.BalancePenalty,
		},
	}
}
