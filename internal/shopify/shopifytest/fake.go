// Package shopifytest provides an in-memory shopify.Executor for tests.
package shopifytest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
)

// Call is one recorded Execute invocation.
type Call struct {
	Query     string
	Variables map[string]any
}

// Operation returns the GraphQL operation name ("getProducts",
// "productCreate", ...) or "" for an anonymous document.
func (c Call) Operation() string {
	q := strings.TrimSpace(c.Query)
	for _, kw := range []string{"query ", "mutation "} {
		if strings.HasPrefix(q, kw) {
			rest := strings.TrimSpace(q[len(kw):])
			if i := strings.IndexAny(rest, "( {"); i > 0 {
				return rest[:i]
			}
		}
	}
	return ""
}

// Executor records calls and answers with Response, or Err when set.
type Executor struct {
	Response json.RawMessage
	Err      error

	mu    sync.Mutex
	calls []Call
}

func New(response string) *Executor {
	return &Executor{Response: json.RawMessage(response)}
}

func (e *Executor) Execute(_ context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Query: query, Variables: variables})
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Response, nil
}

func (e *Executor) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Last returns the most recent call. It panics when there is none.
func (e *Executor) Last() Call {
	calls := e.Calls()
	return calls[len(calls)-1]
}
