package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkhub/internal/pkg/async"
)

func TestExecuteCollectsResultsByName(t *testing.T) {
	pool := async.NewPool(3)

	tasks := []async.Task{
		{Name: "a", Execute: func() (interface{}, error) { return int64(1), nil }},
		{Name: "b", Execute: func() (interface{}, error) { return "two", nil }},
		{Name: "c", Execute: func() (interface{}, error) { return nil, errors.New("boom") }},
	}

	results := pool.Execute(context.Background(), tasks)
	require.Len(t, results, 3)

	assert.Equal(t, int64(1), results["a"].Data)
	assert.NoError(t, results["a"].Err)
	assert.Equal(t, "two", results["b"].Data)
	assert.EqualError(t, results["c"].Err, "boom")
}

func TestExecuteRunsAllTasksWithFewerWorkers(t *testing.T) {
	pool := async.NewPool(2)

	var ran atomic.Int64
	tasks := make([]async.Task, 0, 8)
	for i := 0; i < 8; i++ {
		name := string(rune('a' + i))
		tasks = append(tasks, async.Task{
			Name: name,
			Execute: func() (interface{}, error) {
				ran.Add(1)
				return name, nil
			},
		})
	}

	results := pool.Execute(context.Background(), tasks)
	assert.Len(t, results, 8)
	assert.Equal(t, int64(8), ran.Load())
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := async.NewPool(1)
	results := pool.Execute(ctx, []async.Task{
		{Name: "a", Execute: func() (interface{}, error) { return nil, nil }},
	})

	// The task may or may not have been picked up before the cut-off.
	assert.LessOrEqual(t, len(results), 1)
}
