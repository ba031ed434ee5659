package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/fundgraph/internal/platform/logger"
	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
)

var (
	ErrEmptyQuestion = errors.New("question is required")
	ErrEmptyTenant   = errors.New("tenant_id is required")
)

// GraphReader runs read-only statements. *neo4jdb.Client satisfies it.
type GraphReader interface {
	Read(ctx context.Context, cypher string, params map[string]any) (*neo4jdb.Result, error)
}

// Answer is the structured outcome of a question. Failures are reported in Error, never
// returned as Go errors.
type Answer struct {
	Success  bool             `json:"success"`
	Query    string           `json:"query"`
	Records  []map[string]any `json:"records"`
	Error    string           `json:"error,omitempty"`
	Repaired bool             `json:"repaired,omitempty"`
}

func failed(query string, err error) Answer {
	return Answer{Query: query, Records: []map[string]any{}, Error: err.Error()}
}

type Service struct {
	translator Translator
	graph      GraphReader
	cache      QueryCache
	cfg        PromptConfig
	schema     string
	log        *logger.Logger
}

// NewService wires the assistant. cache may be nil.
func NewService(t Translator, g GraphReader, cache QueryCache, cfg PromptConfig, log *logger.Logger) *Service {
	return &Service{
		translator: t,
		graph:      g,
		cache:      cache,
		cfg:        cfg,
		schema:     SchemaDescription(),
		log:        log.With("service", "QueryAssistant"),
	}
}

// Ask translates the question, runs it for the tenant and, if execution fails, retries
// once with numeric fields cast to float.
func (s *Service) Ask(ctx context.Context, question, tenantID string) Answer {
	question = strings.TrimSpace(question)
	tenantID = strings.TrimSpace(tenantID)
	if question == "" {
		return failed("", ErrEmptyQuestion)
	}
	if tenantID == "" {
		return failed("", ErrEmptyTenant)
	}

	cypher, err := s.translate(ctx, question, tenantID)
	if err != nil {
		s.log.Warn("query translation failed", "tenant_id", tenantID, "error", err)
		return failed("", err)
	}
	if err := rejectWrites(cypher); err != nil {
		s.log.Warn("generated query rejected", "tenant_id", tenantID, "query", cypher, "error", err)
		return failed(cypher, err)
	}

	params := map[string]any{"tenant_id": tenantID}
	res, err := s.graph.Read(ctx, cypher, params)
	if err == nil {
		return Answer{Success: true, Query: cypher, Records: records(res)}
	}

	repaired, changed := castNumeric(cypher, s.cfg.NumericFields)
	if !changed {
		s.log.Warn("query failed", "tenant_id", tenantID, "query", cypher, "error", err)
		return failed(cypher, err)
	}
	s.log.Info("retrying query with numeric casts", "tenant_id", tenantID, "error", err)
	res, err = s.graph.Read(ctx, repaired, params)
	if err != nil {
		s.log.Warn("repaired query failed", "tenant_id", tenantID, "query", repaired, "error", err)
		a := failed(repaired, err)
		a.Repaired = true
		return a
	}
	return Answer{Success: true, Query: repaired, Records: records(res), Repaired: true}
}

func (s *Service) translate(ctx context.Context, question, tenantID string) (string, error) {
	if s.cache != nil {
		cypher, ok, err := s.cache.Get(ctx, tenantID, question)
		if err != nil {
			s.log.Warn("query cache read failed", "error", err)
		} else if ok {
			return cypher, nil
		}
	}
	cypher, err := s.translator.Translate(ctx, question, tenantID, s.schema)
	if err != nil {
		return "", err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, tenantID, question, cypher); err != nil {
			s.log.Warn("query cache write failed", "error", err)
		}
	}
	return cypher, nil
}

func records(res *neo4jdb.Result) []map[string]any {
	if res == nil || res.Records == nil {
		return []map[string]any{}
	}
	return res.Records
}
