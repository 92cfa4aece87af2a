package db

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type ClientMock struct {
	mock.Mock
	Client
}

func (m *ClientMock) Exec(ctx context.Context, query string, args ...any) error {
	ret := m.Called(ctx, query, args)
	return ret.Error(0)
}

func (m *ClientMock) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Row), ret.Error(1)
}

func (m *ClientMock) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	ret := m.Called(ctx, query, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(Rows), ret.Error(1)
}

func (m *ClientMock) Ping(ctx context.Context) error {
	ret := m.Called(ctx)
	return ret.Error(0)
}

type RowMock struct {
	mock.Mock
	Row
}

func (m *RowMock) Scan(dest ...any) error {
	ret := m.Called(dest)
	return ret.Error(0)
}

// FakeRows replays fixed value tuples through the Rows interface.
type FakeRows struct {
	Vals [][]any
	idx  int
	errs error
}

func NewFakeRows(vals ...[]any) *FakeRows {
	return &FakeRows{Vals: vals}
}

func (r *FakeRows) Next() bool {
	return r.idx < len(r.Vals)
}

func (r *FakeRows) Scan(dest ...any) error {
	row := &mockRow{vals: r.Vals[r.idx]}
	r.idx++
	return row.Scan(dest...)
}

func (r *FakeRows) Close()     {}
func (r *FakeRows) Err() error { return r.errs }
