package postgresengine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tradewind-labs/orderstore-go/orderstore/postgresengine/internal/adapters"
)

// fakeResponse is one scripted reply for the next Query or Exec call.
type fakeResponse struct {
	rows     [][]any
	affected int64
	err      error
}

// fakeAdapter scripts database replies in call order and records every
// statement, so tests can assert on generated SQL without a live database.
type fakeAdapter struct {
	responses []fakeResponse
	executed  []string

	beginCalls    int
	commitCalls   int
	rollbackCalls int
	beginErr      error
}

func (f *fakeAdapter) nextResponse() fakeResponse {
	if len(f.responses) == 0 {
		return fakeResponse{}
	}

	response := f.responses[0]
	f.responses = f.responses[1:]

	return response
}

func (f *fakeAdapter) Query(_ context.Context, query string) (adapters.DBRows, error) {
	f.executed = append(f.executed, query)

	response := f.nextResponse()
	if response.err != nil {
		return nil, response.err
	}

	return &fakeRows{rows: response.rows}, nil
}

func (f *fakeAdapter) Exec(_ context.Context, query string) (adapters.DBResult, error) {
	f.executed = append(f.executed, query)

	response := f.nextResponse()
	if response.err != nil {
		return nil, response.err
	}

	return fakeResult{affected: response.affected}, nil
}

func (f *fakeAdapter) Begin(_ context.Context) (adapters.DBTx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}

	f.beginCalls++

	return &fakeTx{adapter: f}, nil
}

type fakeTx struct {
	adapter *fakeAdapter
}

func (t *fakeTx) Query(ctx context.Context, query string) (adapters.DBRows, error) {
	return t.adapter.Query(ctx, query)
}

func (t *fakeTx) Exec(ctx context.Context, query string) (adapters.DBResult, error) {
	return t.adapter.Exec(ctx, query)
}

func (t *fakeTx) Commit(_ context.Context) error {
	t.adapter.commitCalls++
	return nil
}

func (t *fakeTx) Rollback(_ context.Context) error {
	t.adapter.rollbackCalls++
	return nil
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}

	r.idx++

	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expects %d destinations, got %d", len(row), len(dest))
	}

	for i, value := range row {
		if err := assignScanValue(dest[i], value); err != nil {
			return err
		}
	}

	return nil
}

func (r *fakeRows) Close() error {
	return nil
}

type fakeResult struct {
	affected int64
}

func (r fakeResult) RowsAffected() (int64, error) {
	return r.affected, nil
}

//nolint:gocognit // exhaustive type switch over the scannable kinds
func assignScanValue(dest any, value any) error {
	switch d := dest.(type) {
	case *int64:
		*d = value.(int64)
	case *int:
		*d = value.(int)
	case *string:
		*d = value.(string)
	case *float64:
		*d = value.(float64)
	case *time.Time:
		*d = value.(time.Time)
	case *sql.NullFloat64:
		if value == nil {
			*d = sql.NullFloat64{}
		} else {
			*d = sql.NullFloat64{Float64: value.(float64), Valid: true}
		}
	case *sql.NullTime:
		if value == nil {
			*d = sql.NullTime{}
		} else {
			*d = sql.NullTime{Time: value.(time.Time), Valid: true}
		}
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}

	return nil
}
