package database

import (
	"context"
	"sync"
)

// Call records one dispatch made against a MemoryClient.
type Call struct {
	Read  bool
	Query string
}

// MemoryClient is a Client that never leaves the process. It records every
// dispatched query and answers with scripted results, falling back to an
// empty RowSet.
type MemoryClient struct {
	mu      sync.Mutex
	calls   []Call
	results []RowSet
	err     error
}

func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// Respond queues results handed out in order by later dispatches.
func (m *MemoryClient) Respond(results ...RowSet) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, results...)
	return m
}

// Fail makes every later dispatch return err. A nil err clears it.
func (m *MemoryClient) Fail(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

func (m *MemoryClient) Select(ctx context.Context, query string) (RowSet, error) {
	return m.dispatch(ctx, true, query)
}

func (m *MemoryClient) Write(ctx context.Context, query string) (RowSet, error) {
	return m.dispatch(ctx, false, query)
}

func (m *MemoryClient) dispatch(ctx context.Context, read bool, query string) (RowSet, error) {
	if err := ctx.Err(); err != nil {
		return RowSet{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Read: read, Query: query})
	if m.err != nil {
		return RowSet{}, m.err
	}
	if len(m.results) == 0 {
		return RowSet{}, nil
	}
	rs := m.results[0]
	m.results = m.results[1:]
	return rs, nil
}

// Calls returns a copy of the dispatch log.
func (m *MemoryClient) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent dispatch.
func (m *MemoryClient) LastCall() (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Call{}, false
	}
	return m.calls[len(m.calls)-1], true
}

var _ Client = (*MemoryClient)(nil)
