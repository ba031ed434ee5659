package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/fundgraph/internal/assistant"
	httpH "github.com/yungbote/fundgraph/internal/http/handlers"
	"github.com/yungbote/fundgraph/internal/platform/logger"
)

type stubAsker struct {
	question, tenant string
	answer           assistant.Answer
}

func (s *stubAsker) Ask(_ context.Context, question, tenantID string) assistant.Answer {
	s.question, s.tenant = question, tenantID
	return s.answer
}

func newTestRouter(a httpH.Asker, checks map[string]httpH.Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	return NewRouter(RouterConfig{
		Log:           log,
		ServiceName:   "fundgraph-test",
		QueryHandler:  httpH.NewQueryHandler(log, a),
		HealthHandler: httpH.NewHealthHandler(checks),
	})
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestQueryEndpoint(t *testing.T) {
	a := &stubAsker{answer: assistant.Answer{
		Success: true,
		Query:   "MATCH (n) RETURN n",
		Records: []map[string]any{{"fund_name": "Growth Fund"}},
	}}
	rec := post(newTestRouter(a, nil), `{"question":"which funds?","tenant_id":"T1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "MATCH (n) RETURN n", got["query"])
	assert.Len(t, got["records"], 1)
	assert.Equal(t, "which funds?", a.question)
	assert.Equal(t, "T1", a.tenant)
}

func TestQueryFailureIsStructured(t *testing.T) {
	a := &stubAsker{answer: assistant.Answer{Query: "MATCH", Records: []map[string]any{}, Error: "Type mismatch"}}
	rec := post(newTestRouter(a, nil), `{"question":"q","tenant_id":"T1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":false,"query":"MATCH","records":[],"error":"Type mismatch"}`, rec.Body.String())
}

func TestQueryBadRequest(t *testing.T) {
	r := newTestRouter(&stubAsker{}, nil)
	for _, body := range []string{`{"question":"q"}`, `not json`} {
		rec := post(r, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)

		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got), body)
		assert.Equal(t, false, got["success"], body)
		assert.Equal(t, "invalid_request", got["code"], body)
		assert.Equal(t, []any{}, got["records"], body)
		assert.NotEmpty(t, got["error"], body)
	}
}

func TestHealthcheck(t *testing.T) {
	r := newTestRouter(&stubAsker{}, map[string]httpH.Pinger{
		"neo4j": func(context.Context) error { return nil },
	})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"neo4j":"ok"}`, rec.Body.String())
}
