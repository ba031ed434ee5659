package app

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/fundgraph/internal/assistant"
	"github.com/yungbote/fundgraph/internal/data/source"
	"github.com/yungbote/fundgraph/internal/data/state"
	apphttp "github.com/yungbote/fundgraph/internal/http"
	httpH "github.com/yungbote/fundgraph/internal/http/handlers"
	"github.com/yungbote/fundgraph/internal/migrate"
	"github.com/yungbote/fundgraph/internal/observability"
	"github.com/yungbote/fundgraph/internal/platform/logger"
	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
	"github.com/yungbote/fundgraph/internal/platform/openai"
	"github.com/yungbote/fundgraph/internal/platform/pgdb"
)

// App owns the process-wide clients. Both binaries start from New and wire the part they
// need on top.
type App struct {
	Log    *logger.Logger
	Cfg    Config
	Graph  *neo4jdb.Client
	Server *apphttp.Server

	closers      []func(context.Context) error
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	LoadEnv()
	cfg := LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	cfg.log(log)

	a := &App{Log: log, Cfg: cfg}
	a.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})

	g, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init neo4j: %w", err)
	}
	a.Graph = g
	a.closers = append(a.closers, g.Close)
	return a, nil
}

// WireAssistant builds the query assistant and the HTTP server in front of it.
func (a *App) WireAssistant() error {
	promptCfg, err := assistant.LoadPromptConfig(a.Cfg.PromptConfigPath)
	if err != nil {
		return fmt.Errorf("load prompt config: %w", err)
	}
	llm, err := openai.NewClient(a.Log)
	if err != nil {
		return fmt.Errorf("init openai: %w", err)
	}

	checks := map[string]httpH.Pinger{
		"neo4j": a.Graph.Driver.VerifyConnectivity,
	}
	var cache assistant.QueryCache
	rc, err := assistant.NewRedisCacheFromEnv(a.Log)
	if err != nil {
		a.Log.Warn("query cache unavailable", "error", err)
	} else if rc != nil {
		cache = rc
		checks["redis"] = rc.Ping
		a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
	}

	svc := assistant.NewService(assistant.NewLLMTranslator(llm, promptCfg), a.Graph, cache, promptCfg, a.Log)
	a.Server = apphttp.NewServer(apphttp.RouterConfig{
		Log:           a.Log,
		ServiceName:   a.Cfg.ServiceName,
		QueryHandler:  httpH.NewQueryHandler(a.Log, svc),
		HealthHandler: httpH.NewHealthHandler(checks),
	})
	return nil
}

// Run serves the assistant API until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("assistant listening", "addr", addr)
	return a.Server.Run(ctx, addr)
}

// NewMigrator connects to the relational source and the run-state store and returns an
// orchestrator writing to the graph. Progress lines go to progress.
func (a *App) NewMigrator(ctx context.Context, progress io.Writer) (*migrate.Orchestrator, error) {
	pg, err := pgdb.NewFromEnv(ctx, a.Log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { pg.Close(); return nil })

	counts, err := pg.TableCounts(ctx)
	if err != nil {
		return nil, err
	}
	a.Log.Info("source tables", "counts", counts)

	st, err := state.OpenFromEnv(a.Log)
	if err != nil {
		return nil, fmt.Errorf("init state store: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return st.Close() })

	return migrate.New(source.NewReader(pg), a.Graph, st, a.Log, progress), nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	ctx := context.Background()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && a.Log != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	if a.otelShutdown != nil {
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
