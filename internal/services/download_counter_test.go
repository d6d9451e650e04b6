package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/renderdragon/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDownloadCounter_Load(t *testing.T) {
	t.Run("replaces counts", func(t *testing.T) {
		repo := &mockDownloadRepository{rows: []models.DownloadCount{
			{ResourceID: 1, Count: 10},
			{ResourceID: 42, Count: 3},
		}}
		counter := NewDownloadCounter(repo, zap.NewNop())
		counter.Increment(context.Background(), "custom")

		require.NoError(t, counter.Load(context.Background()))

		assert.Equal(t, models.DownloadCounts{"1": 10, "42": 3}, counter.Snapshot())
	})

	t.Run("keeps counts on failure", func(t *testing.T) {
		repo := &mockDownloadRepository{}
		counter := NewDownloadCounter(repo, zap.NewNop())
		counter.Increment(context.Background(), "7")
		repo.err = errors.New("database down")

		err := counter.Load(context.Background())

		assert.Error(t, err)
		assert.Equal(t, int64(1), counter.Count("7"))
	})
}

func TestDownloadCounter_Increment(t *testing.T) {
	t.Run("prefixed id seeds from numeric count", func(t *testing.T) {
		repo := &mockDownloadRepository{rows: []models.DownloadCount{{ResourceID: 42, Count: 5}}}
		counter := NewDownloadCounter(repo, zap.NewNop())
		require.NoError(t, counter.Load(context.Background()))

		assert.Equal(t, int64(6), counter.Increment(context.Background(), "main-42"))
		assert.Equal(t, int64(7), counter.Increment(context.Background(), "main-42"))

		assert.Equal(t, []int64{42, 42}, repo.incremented)
		assert.Equal(t, int64(7), counter.Count("main-42"))
	})

	t.Run("non numeric id stays in memory", func(t *testing.T) {
		repo := &mockDownloadRepository{}
		counter := NewDownloadCounter(repo, zap.NewNop())

		assert.Equal(t, int64(1), counter.Increment(context.Background(), "hbg-3"))
		assert.Empty(t, repo.incremented)
	})

	t.Run("repository failure keeps memory count", func(t *testing.T) {
		repo := &mockDownloadRepository{incErr: errors.New("write failed")}
		counter := NewDownloadCounter(repo, zap.NewNop())

		assert.Equal(t, int64(1), counter.Increment(context.Background(), "9"))
		assert.Equal(t, int64(1), counter.Count("9"))
		assert.Equal(t, []int64{9}, repo.incremented)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		repo := &mockDownloadRepository{}
		counter := NewDownloadCounter(repo, zap.NewNop())

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				counter.Increment(context.Background(), "12")
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(50), counter.Count("12"))
		assert.Len(t, repo.incremented, 50)
	})
}

func TestDownloadCounter_SnapshotIsCopy(t *testing.T) {
	counter := NewDownloadCounter(&mockDownloadRepository{}, zap.NewNop())
	counter.Increment(context.Background(), "1")

	snapshot := counter.Snapshot()
	snapshot["1"] = 100

	assert.Equal(t, int64(1), counter.Count("1"))
}

func TestNumericID(t *testing.T) {
	tests := []struct {
		id       string
		expected int64
		ok       bool
	}{
		{id: "42", expected: 42, ok: true},
		{id: "main-42", expected: 42, ok: true},
		{id: " 7 ", expected: 7, ok: true},
		{id: "0", expected: 0, ok: true},
		{id: "hbg-1", ok: false},
		{id: "main-", ok: false},
		{id: "-5", ok: false},
		{id: "music-3", ok: false},
		{id: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			n, ok := NumericID(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, n)
		})
	}
}
