package async

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

type fakeProcessor struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
	reqIDs   sync.Map
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, path string) (*entity.Report, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxSeen.Load()
		if n <= m || f.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}
	f.reqIDs.Store(path, common.RequestIDFromContext(ctx))

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if strings.HasSuffix(path, ".bad") {
		return nil, errors.New("cannot read " + path)
	}
	return &entity.Report{ID: uuid.New(), Document: entity.DocumentMetadata{Title: path}}, nil
}

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func TestProcessorQueue_ProcessesAllJobs(t *testing.T) {
	proc := &fakeProcessor{delay: 10 * time.Millisecond}
	var col collector
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(2), WithResultHandler(col.add))

	ctx := context.Background()
	paths := []string{"a.txt", "b.txt", "c.bad", "d.txt", "e.txt", "f.txt"}
	for _, p := range paths {
		require.NoError(t, q.Enqueue(ctx, Job{Path: p, RequestID: "req-" + p}))
	}
	require.NoError(t, q.Shutdown(ctx))

	require.Len(t, col.results, len(paths))
	failed := 0
	for _, r := range col.results {
		assert.NotEqual(t, uuid.Nil, r.Job.ID)
		assert.False(t, r.Job.SubmittedAt.IsZero())
		if r.Err != nil {
			failed++
			assert.Equal(t, "c.bad", r.Job.Path)
			assert.Nil(t, r.Report)
		} else {
			assert.Equal(t, r.Job.Path, r.Report.Document.Title)
		}
	}
	assert.Equal(t, 1, failed)
	assert.LessOrEqual(t, proc.maxSeen.Load(), int32(3))

	id, ok := proc.reqIDs.Load("d.txt")
	require.True(t, ok)
	assert.Equal(t, "req-d.txt", id)
}

func TestProcessorQueue_TimeoutCancelsJob(t *testing.T) {
	proc := &fakeProcessor{delay: time.Second}
	var col collector
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithProcessTimeout(20*time.Millisecond), WithResultHandler(col.add))

	require.NoError(t, q.Enqueue(context.Background(), Job{Path: "slow.txt"}))
	require.NoError(t, q.Shutdown(context.Background()))

	require.Len(t, col.results, 1)
	assert.ErrorIs(t, col.results[0].Err, context.DeadlineExceeded)
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProcessor{}, nil, WithWorkers(1))
	require.NoError(t, q.Shutdown(context.Background()))
	require.NoError(t, q.Shutdown(context.Background()))

	err := q.Enqueue(context.Background(), Job{Path: "late.txt"})
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestProcessorQueue_EnqueueHonorsContextWhenFull(t *testing.T) {
	proc := &fakeProcessor{delay: 200 * time.Millisecond}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))
	defer func() { _ = q.Shutdown(context.Background()) }()

	bg := context.Background()
	require.NoError(t, q.Enqueue(bg, Job{Path: "1.txt"}))
	// Give the worker time to pick up the first job so the buffer holds exactly one.
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Enqueue(bg, Job{Path: "2.txt"}))

	ctx, cancel := context.WithTimeout(bg, 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Path: "3.txt"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
