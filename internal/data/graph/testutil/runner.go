package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/yungbote/fundgraph/internal/platform/neo4jdb"
)

type Call struct {
	Cypher string
	Params map[string]any
}

// Responder answers a statement. Returning handled=false passes to the next responder.
type Responder func(cypher string, params map[string]any) (res *neo4jdb.Result, handled bool, err error)

// Runner is a scripted graph.Runner that records every statement it sees.
type Runner struct {
	mu         sync.Mutex
	Calls      []Call
	responders []Responder
}

func (r *Runner) On(fragment string, res *neo4jdb.Result, err error) *Runner {
	return r.Handle(func(cypher string, _ map[string]any) (*neo4jdb.Result, bool, error) {
		if !strings.Contains(cypher, fragment) {
			return nil, false, nil
		}
		return res, true, err
	})
}

func (r *Runner) Handle(fn Responder) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responders = append(r.responders, fn)
	return r
}

func (r *Runner) Run(_ context.Context, cypher string, params map[string]any) (*neo4jdb.Result, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, Call{Cypher: cypher, Params: params})
	responders := append([]Responder(nil), r.responders...)
	r.mu.Unlock()

	for _, fn := range responders {
		if res, ok, err := fn(cypher, params); ok {
			if res == nil && err == nil {
				res = &neo4jdb.Result{}
			}
			return res, err
		}
	}
	return &neo4jdb.Result{}, nil
}

// Matching returns the recorded calls whose statement contains fragment.
func (r *Runner) Matching(fragment string) []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Call
	for _, c := range r.Calls {
		if strings.Contains(c.Cypher, fragment) {
			out = append(out, c)
		}
	}
	return out
}

func Records(rows ...map[string]any) *neo4jdb.Result {
	return &neo4jdb.Result{Records: rows}
}
