// Package state records migration runs and the stages each run completed, so an
// interrupted migration can resume instead of starting over.
package state

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/fundgraph/internal/platform/envutil"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

const defaultStateDSN = "fundgraph_state.db"

type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

// Open connects to dsn (a postgres URL, otherwise a SQLite file path) and migrates the
// state tables.
func Open(dsn string, log *logger.Logger) (*Store, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("state: open: %w", err)
	}
	if err := db.AutoMigrate(&MigrationRun{}, &StageMarker{}); err != nil {
		return nil, fmt.Errorf("state: migrate: %w", err)
	}
	return &Store{db: db, log: log.With("service", "StateStore")}, nil
}

func OpenFromEnv(log *logger.Logger) (*Store, error) {
	return Open(envutil.String("STATE_DSN", defaultStateDSN), log)
}

func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toJSON(v any) (datatypes.JSON, error) {
	if v == nil {
		return datatypes.JSON("{}"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// StartRun records a new running migration for scope. options is stored as JSON.
func (s *Store) StartRun(ctx context.Context, scope string, options any) (*MigrationRun, error) {
	opts, err := toJSON(options)
	if err != nil {
		return nil, fmt.Errorf("state: encode options: %w", err)
	}
	run := &MigrationRun{
		ID:        uuid.New(),
		Scope:     scope,
		Status:    RunStatusRunning,
		Options:   opts,
		StartedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("state: start run: %w", err)
	}
	return run, nil
}

// MarkStage records that stage finished for the run. Marking the same stage twice
// updates the detail.
func (s *Store) MarkStage(ctx context.Context, run *MigrationRun, stage string, detail any) error {
	d, err := toJSON(detail)
	if err != nil {
		return fmt.Errorf("state: encode %s detail: %w", stage, err)
	}
	marker := StageMarker{
		RunID:       run.ID,
		Scope:       run.Scope,
		Stage:       stage,
		Detail:      d,
		CompletedAt: time.Now().UTC(),
	}
	err = s.db.WithContext(ctx).
		Where(StageMarker{RunID: run.ID, Stage: stage}).
		Assign(StageMarker{Detail: d, CompletedAt: marker.CompletedAt}).
		FirstOrCreate(&marker).Error
	if err != nil {
		return fmt.Errorf("state: mark %s: %w", stage, err)
	}
	return nil
}

// CompletedStages returns the stages finished by the unsuccessful runs for scope since its
// last successful run. After a success nothing is considered complete, so the next run
// starts over.
func (s *Store) CompletedStages(ctx context.Context, scope string) (map[string]bool, error) {
	var runs []MigrationRun
	err := s.db.WithContext(ctx).
		Where("scope = ?", scope).
		Order("started_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("state: list runs: %w", err)
	}

	ids := make([]string, 0, len(runs))
	for _, r := range runs {
		if r.Status == RunStatusSucceeded {
			break
		}
		ids = append(ids, r.ID.String())
	}
	out := make(map[string]bool)
	if len(ids) == 0 {
		return out, nil
	}

	var markers []StageMarker
	if err := s.db.WithContext(ctx).Where("run_id IN ?", ids).Find(&markers).Error; err != nil {
		return nil, fmt.Errorf("state: list stage markers: %w", err)
	}
	for _, m := range markers {
		out[m.Stage] = true
	}
	return out, nil
}

// FinishRun closes the run as succeeded, or failed with runErr's message.
func (s *Store) FinishRun(ctx context.Context, run *MigrationRun, runErr error) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = RunStatusSucceeded
	run.Error = ""
	if runErr != nil {
		run.Status = RunStatusFailed
		run.Error = runErr.Error()
	}
	err := s.db.WithContext(ctx).Model(&MigrationRun{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":      run.Status,
			"error":       run.Error,
			"finished_at": now,
		}).Error
	if err != nil {
		return fmt.Errorf("state: finish run: %w", err)
	}
	s.log.Info("migration run finished", "run_id", run.ID.String(), "scope", run.Scope, "status", run.Status)
	return nil
}
