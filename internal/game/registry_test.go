package game

import (
	"context"
	"testing"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTables struct {
	clubs map[int64]int64
}

func (f *fakeTables) ResolveClub(_ context.Context, tableID int64) (int64, error) {
	clubID, ok := f.clubs[tableID]
	if !ok {
		return 0, ErrTableNotFound
	}
	return clubID, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	tables := &fakeTables{clubs: map[int64]int64{7: 1, 8: 1}}
	return NewRegistry(newFakeLedger(nil), &fakeHistory{}, tables, 10, quartz.NewMock(t))
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	first, err := reg.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := reg.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := reg.GetOrCreate(ctx, 8)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestGetOrCreateUnknownTable(t *testing.T) {
	reg := newTestRegistry(t)

	sess, err := reg.GetOrCreate(context.Background(), 999)
	require.ErrorIs(t, err, ErrTableNotFound)
	assert.Nil(t, sess)
	assert.Nil(t, reg.Get(999))
}

func TestGetBeforeCreate(t *testing.T) {
	reg := newTestRegistry(t)

	assert.Nil(t, reg.Get(7))

	_, err := reg.GetOrCreate(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, reg.Get(7))
}

func TestAllReturnsEverySession(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	_, err := reg.GetOrCreate(ctx, 7)
	require.NoError(t, err)
	_, err = reg.GetOrCreate(ctx, 8)
	require.NoError(t, err)

	assert.Len(t, reg.All(), 2)
}
