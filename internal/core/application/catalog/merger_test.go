package catalog_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"heblo/internal/core/application/catalog"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	name      string
	rows      []catalog.Row
	next      []catalog.Row
	err       error
	refreshes int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	if f.err != nil {
		return f.err
	}
	if f.next != nil {
		f.rows = f.next
	}
	return nil
}

func (f *fakeSource) Rows() []catalog.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows
}

func (f *fakeSource) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMerger_Merge(t *testing.T) {
	// Given
	boxes := &fakeSource{name: "transport-boxes", rows: []catalog.Row{
		{ProductCode: "akl001", ProductName: "Bisabolol", Bucket: catalog.BucketOpenedBoxes, Amount: dec("2")},
		{ProductCode: "AKL001", Bucket: catalog.BucketInTransit, Amount: dec("1.5")},
		{ProductCode: "AKL001", Bucket: catalog.BucketInTransit, Amount: dec("0.5")},
		{ProductCode: "MAS002", ProductName: "Shea", Bucket: catalog.BucketInReserve, Amount: dec("4")},
	}}
	stock := &fakeSource{name: "stock-up", rows: []catalog.Row{
		{ProductCode: "AKL001", ProductName: "Bisabolol", Bucket: catalog.BucketStockedFromBoxes, Amount: dec("10")},
	}}
	m := catalog.NewMerger(discardLogger(), boxes, stock)
	assert.Equal(t, 0, m.Snapshot().Len())

	// When
	err := m.Merge(context.Background())

	// Then
	require.NoError(t, err)
	snapshot := m.Snapshot()
	assert.False(t, snapshot.MergedAt().IsZero())
	require.Equal(t, 2, snapshot.Len())

	item, ok := snapshot.Get("akl001")
	require.True(t, ok)
	assert.Equal(t, "AKL001", item.ProductCode)
	assert.Equal(t, "Bisabolol", item.ProductName)
	assert.True(t, item.InOpenedBoxes.Equal(dec("2")))
	assert.True(t, item.InTransit.Equal(dec("2")))
	assert.True(t, item.InReserve.IsZero())
	assert.True(t, item.StockedFromBoxes.Equal(dec("10")))

	items := snapshot.Items()
	assert.Equal(t, "AKL001", items[0].ProductCode)
	assert.Equal(t, "MAS002", items[1].ProductCode)
}

func TestMerger_KeepsPreviousSnapshotOnFailure(t *testing.T) {
	good := &fakeSource{name: "stock-up", rows: []catalog.Row{
		{ProductCode: "P1", Bucket: catalog.BucketStockedFromBoxes, Amount: dec("1")},
	}}
	m := catalog.NewMerger(discardLogger(), good)
	require.NoError(t, m.Merge(context.Background()))
	before := m.Snapshot()

	good.rows = []catalog.Row{{ProductCode: "P1", Bucket: catalog.Bucket(99), Amount: dec("1")}}
	err := m.Merge(context.Background())

	require.Error(t, err)
	assert.Same(t, before, m.Snapshot())
}

func TestMerger_RespectsCancellation(t *testing.T) {
	m := catalog.NewMerger(discardLogger(), &fakeSource{name: "stock-up"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Merge(ctx)

	require.ErrorIs(t, err, context.Canceled)
}

func TestRefresher(t *testing.T) {
	t.Run("refreshes and schedules a merge", func(t *testing.T) {
		source := &fakeSource{name: "stock-up"}
		scheduler := &stubScheduler{}
		r := catalog.NewRefresher(scheduler, discardLogger(), source)

		err := r.HandleInvalidation(context.Background(), "stock-up")

		require.NoError(t, err)
		assert.Equal(t, 1, source.refreshCount())
		assert.Equal(t, []string{"stock-up"}, scheduler.scheduled())
	})

	t.Run("does not schedule when refresh fails", func(t *testing.T) {
		source := &fakeSource{name: "stock-up", err: errors.New("db down")}
		scheduler := &stubScheduler{}
		r := catalog.NewRefresher(scheduler, discardLogger(), source)

		err := r.HandleInvalidation(context.Background(), "stock-up")

		require.ErrorContains(t, err, "db down")
		assert.Empty(t, scheduler.scheduled())
	})

	t.Run("rejects unknown source", func(t *testing.T) {
		r := catalog.NewRefresher(&stubScheduler{}, discardLogger())

		err := r.HandleInvalidation(context.Background(), "invoices")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invoices")
	})

	t.Run("refresh all continues after a failure", func(t *testing.T) {
		broken := &fakeSource{name: "transport-boxes", err: errors.New("timeout")}
		healthy := &fakeSource{name: "stock-up"}
		scheduler := &stubScheduler{}
		r := catalog.NewRefresher(scheduler, discardLogger(), broken, healthy)

		err := r.RefreshAll(context.Background())

		require.ErrorContains(t, err, "timeout")
		assert.Equal(t, 1, healthy.refreshCount())
		assert.Equal(t, []string{"stock-up"}, scheduler.scheduled())
	})
}

func TestLocalInvalidator(t *testing.T) {
	source := &fakeSource{name: "transport-boxes"}
	scheduler := &stubScheduler{}
	inv := catalog.NewLocalInvalidator(catalog.NewRefresher(scheduler, discardLogger(), source), discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	inv.Invalidate(ctx, "transport-boxes")
	inv.Invalidate(ctx, "unknown")
	cancel()
	inv.Wait()

	assert.Equal(t, 1, source.refreshCount())
	assert.Equal(t, []string{"transport-boxes"}, scheduler.scheduled())
}
