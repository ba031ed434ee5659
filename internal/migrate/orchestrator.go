// Package migrate sequences the relational-to-graph migration: node stages, time-series
// consolidation, relationship reconciliation and verification.
package migrate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/fundgraph/internal/data/graph"
	"github.com/yungbote/fundgraph/internal/data/source"
	"github.com/yungbote/fundgraph/internal/data/state"
	"github.com/yungbote/fundgraph/internal/domain"
	"github.com/yungbote/fundgraph/internal/observability"
	"github.com/yungbote/fundgraph/internal/platform/logger"
	"github.com/yungbote/fundgraph/internal/reconcile"
)

const DefaultBatchSize = 50

// Source is the relational side of the migration. *source.Reader satisfies it.
type Source interface {
	Tenants(ctx context.Context, f source.Filter) ([]domain.Tenant, error)
	Users(ctx context.Context, f source.Filter) ([]domain.User, error)
	UserEntities(ctx context.Context, f source.Filter) ([]domain.UserEntity, error)
	UserFunds(ctx context.Context, f source.Filter) ([]domain.UserFund, error)
	Subscriptions(ctx context.Context, f source.Filter) ([]domain.Subscription, error)
	NAVs(ctx context.Context, f source.Filter) ([]domain.NAVRow, error)
	Movements(ctx context.Context, f source.Filter) ([]domain.MovementRow, error)
	Transactions(ctx context.Context, f source.Filter) ([]domain.MovementRow, error)
}

// StateStore persists run and stage-completion markers. *state.Store satisfies it.
type StateStore interface {
	StartRun(ctx context.Context, scope string, options any) (*state.MigrationRun, error)
	MarkStage(ctx context.Context, run *state.MigrationRun, stage string, detail any) error
	CompletedStages(ctx context.Context, scope string) (map[string]bool, error)
	FinishRun(ctx context.Context, run *state.MigrationRun, runErr error) error
}

type Options struct {
	TenantID    string `json:"tenant_id,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	SkipSchema  bool   `json:"skip_schema,omitempty"`
	Resume      bool   `json:"resume,omitempty"`
	BatchSize   int    `json:"batch_size"`
	RepairEdges bool   `json:"repair_edges,omitempty"`
	Parallelism int    `json:"parallelism"`
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Parallelism <= 0 {
		o.Parallelism = 1
	}
	return o
}

func (o Options) scope() string {
	if o.TenantID == "" {
		return state.ScopeAll
	}
	return o.TenantID
}

func (o Options) filter() source.Filter {
	return source.Filter{TenantID: o.TenantID, Limit: o.Limit}
}

const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusResumed = "resumed"
	StatusFailed  = "failed"
)

type StageReport struct {
	Name          string        `json:"name"`
	Status        string        `json:"status"`
	Rows          int           `json:"rows"`
	NodesCreated  int           `json:"nodes_created"`
	PropertiesSet int           `json:"properties_set"`
	Duration      time.Duration `json:"duration"`
}

type Report struct {
	RunID      uuid.UUID         `json:"run_id"`
	TenantID   string            `json:"tenant_id,omitempty"`
	Stages     []StageReport     `json:"stages"`
	Reconcile  *reconcile.Report `json:"reconcile,omitempty"`
	NodeCounts map[string]int64  `json:"node_counts"`
	EdgeCounts map[string]int64  `json:"edge_counts"`
}

type Orchestrator struct {
	source   Source
	graph    graph.Runner
	state    StateStore
	log      *logger.Logger
	progress io.Writer
}

// New builds an orchestrator. st may be nil, in which case no markers are kept and Resume
// has nothing to resume from. Progress lines go to progress when it is not nil.
func New(src Source, g graph.Runner, st StateStore, log *logger.Logger, progress io.Writer) *Orchestrator {
	if progress == nil {
		progress = io.Discard
	}
	return &Orchestrator{
		source:   src,
		graph:    g,
		state:    st,
		log:      log.With("service", "MigrationOrchestrator"),
		progress: progress,
	}
}

// Run executes every stage in order and stops at the first failure, returning the error
// wrapped with the stage name alongside the partial report.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (rep *Report, err error) {
	opts = opts.withDefaults()
	scope := opts.scope()

	ctx, span := observability.StartSpan(ctx, "migrate.run", attribute.String("scope", scope))
	defer func() { observability.EndSpan(span, err) }()

	done := map[string]bool{}
	if opts.Resume {
		if o.state == nil {
			o.log.Warn("resume requested without a state store; running every stage")
		} else if done, err = o.state.CompletedStages(ctx, scope); err != nil {
			return nil, err
		}
	}

	var run *state.MigrationRun
	rep = &Report{RunID: uuid.New(), TenantID: opts.TenantID}
	if o.state != nil {
		if run, err = o.state.StartRun(ctx, scope, opts); err != nil {
			return nil, err
		}
		rep.RunID = run.ID
	}
	span.SetAttributes(attribute.String("run_id", rep.RunID.String()))
	log := o.log.With("run_id", rep.RunID.String(), "scope", scope)
	log.Info("migration started", "batch_size", opts.BatchSize, "limit", opts.Limit, "resume", opts.Resume)

	stages := o.stages(opts, rep)
	for i, st := range stages {
		prefix := fmt.Sprintf("[%d/%d] %s", i+1, len(stages), st.name)
		switch {
		case st.name == StageSchema && opts.SkipSchema:
			rep.Stages = append(rep.Stages, StageReport{Name: st.name, Status: StatusSkipped})
			fmt.Fprintf(o.progress, "%s: skipped\n", prefix)
			continue
		case st.resumable && done[st.name]:
			rep.Stages = append(rep.Stages, StageReport{Name: st.name, Status: StatusResumed})
			fmt.Fprintf(o.progress, "%s: already completed, skipping\n", prefix)
			continue
		}

		sr, stageErr := o.runStage(ctx, st)
		rep.Stages = append(rep.Stages, sr)
		if stageErr != nil {
			err = fmt.Errorf("%s: %w", st.name, stageErr)
			fmt.Fprintf(o.progress, "%s: FAILED: %v\n", prefix, stageErr)
			log.Error("migration stage failed", "stage", st.name, "error", stageErr)
			o.finish(ctx, run, err)
			return rep, err
		}
		fmt.Fprintf(o.progress, "%s: %d rows, %d nodes created (%s)\n", prefix, sr.Rows, sr.NodesCreated, sr.Duration.Round(time.Millisecond))

		if run != nil && st.resumable {
			if err = o.state.MarkStage(ctx, run, st.name, sr); err != nil {
				o.finish(ctx, run, err)
				return rep, err
			}
		}
	}

	o.finish(ctx, run, nil)
	log.Info("migration complete", "stages", len(rep.Stages))
	return rep, nil
}

func (o *Orchestrator) runStage(ctx context.Context, st stage) (StageReport, error) {
	ctx, span := observability.StartSpan(ctx, "migrate.stage", attribute.String("stage", st.name))
	start := time.Now()
	res, err := st.run(ctx)
	observability.EndSpan(span, err)
	status := StatusDone
	if err != nil {
		status = StatusFailed
	}
	return StageReport{
		Name:          st.name,
		Status:        status,
		Rows:          res.rows,
		NodesCreated:  res.summary.NodesCreated,
		PropertiesSet: res.summary.PropertiesSet,
		Duration:      time.Since(start),
	}, err
}

func (o *Orchestrator) finish(ctx context.Context, run *state.MigrationRun, runErr error) {
	if run == nil {
		return
	}
	if err := o.state.FinishRun(ctx, run, runErr); err != nil {
		o.log.Warn("failed to record run outcome", "run_id", run.ID.String(), "error", err)
	}
}
