package state

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// ScopeAll is the scope of a run across every tenant.
const ScopeAll = "*"

type MigrationRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Scope      string         `gorm:"column:scope;not null;index" json:"scope"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Options    datatypes.JSON `gorm:"column:options" json:"options"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
}

func (MigrationRun) TableName() string { return "migration_run" }

type StageMarker struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID       uuid.UUID      `gorm:"type:uuid;column:run_id;not null;uniqueIndex:idx_stage_marker_run_stage" json:"run_id"`
	Scope       string         `gorm:"column:scope;not null;index" json:"scope"`
	Stage       string         `gorm:"column:stage;not null;uniqueIndex:idx_stage_marker_run_stage" json:"stage"`
	Detail      datatypes.JSON `gorm:"column:detail" json:"detail"`
	CompletedAt time.Time      `gorm:"column:completed_at;not null" json:"completed_at"`
}

func (StageMarker) TableName() string { return "stage_marker" }
