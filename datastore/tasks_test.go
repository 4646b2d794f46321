package datastore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/storage"
)

func TestAddTaskAppearsLast(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddTask(ctx, "first")
	require.NoError(t, err)
	added, err := repo.AddTask(ctx, "second")
	require.NoError(t, err)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	last := tasks[len(tasks)-1]
	assert.Equal(t, *added, last)
	assert.Equal(t, "second", last.Text)
	assert.False(t, last.Done)
	assert.Equal(t, fixedNow, last.CreatedAt)
}

func TestAddTaskRejectsBlankText(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := repo.AddTask(context.Background(), text)
		assert.ErrorIs(t, err, ErrInvalidInput, "text %q", text)
	}

	tasks, err := repo.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskIDsStrictlyIncrease(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	var last int64
	for i := 0; i < 50; i++ {
		task, err := repo.AddTask(ctx, "same millisecond")
		require.NoError(t, err)
		assert.Greater(t, task.ID, last)
		last = task.ID
	}
}

func TestDeletedTaskIDIsNotReissued(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	_, err := repo.AddTask(ctx, "a")
	require.NoError(t, err)
	newest, err := repo.AddTask(ctx, "b")
	require.NoError(t, err)
	require.NoError(t, repo.RemoveTask(ctx, newest.ID))

	next, err := repo.AddTask(ctx, "c")
	require.NoError(t, err)
	assert.Greater(t, next.ID, newest.ID)

	require.NoError(t, repo.RemoveTask(ctx, next.ID))
	bulk, err := repo.AddTasks(ctx, []string{"d", "e"})
	require.NoError(t, err)
	require.Len(t, bulk, 2)
	assert.Greater(t, bulk[0].ID, next.ID)
	assert.Greater(t, bulk[1].ID, bulk[0].ID)

	// A stale update aimed at the removed id must not land on the new task.
	_, err = repo.SetTaskDone(ctx, newest.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitSeedsTaskIDsFromStoredDocument(t *testing.T) {
	backend := storage.NewMemoryStore()
	ctx := context.Background()

	first := NewStore(backend, zap.NewNop())
	first.now = func() time.Time { return fixedNow }
	require.NoError(t, first.Init(ctx))
	stored, err := NewTaskRepository(first).AddTask(ctx, "from an earlier run")
	require.NoError(t, err)

	second := NewStore(backend, zap.NewNop())
	second.now = func() time.Time { return fixedNow.Add(-time.Hour) }
	require.NoError(t, second.Init(ctx))

	task, err := NewTaskRepository(second).AddTask(ctx, "clock stepped back")
	require.NoError(t, err)
	assert.Greater(t, task.ID, stored.ID)
}

func TestGetTask(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	added, err := repo.AddTask(ctx, "find me")
	require.NoError(t, err)

	task, err := repo.GetTask(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, *added, *task)

	_, err = repo.GetTask(ctx, added.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddTasksSkipsBlankEntries(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	added, err := repo.AddTasks(ctx, []string{"Call the vendor", " ", "Email Sam"})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Less(t, added[0].ID, added[1].ID)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, added, tasks)
}

func TestAddTasksEmptyInput(t *testing.T) {
	added, err := NewTaskRepository(newTestStore(t)).AddTasks(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, added)
	assert.Empty(t, added)
}

func TestSetTaskDoneOnlyTouchesTarget(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	a, err := repo.AddTask(ctx, "a")
	require.NoError(t, err)
	b, err := repo.AddTask(ctx, "b")
	require.NoError(t, err)

	updated, err := repo.SetTaskDone(ctx, b.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.Done)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, *a, tasks[0])
	assert.True(t, tasks[1].Done)

	updated, err = repo.SetTaskDone(ctx, b.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.Done)
}

func TestSetTaskDoneUnknownID(t *testing.T) {
	_, err := NewTaskRepository(newTestStore(t)).SetTaskDone(context.Background(), 42, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveTaskTwice(t *testing.T) {
	repo := NewTaskRepository(newTestStore(t))
	ctx := context.Background()

	task, err := repo.AddTask(ctx, "remove me")
	require.NoError(t, err)
	keep, err := repo.AddTask(ctx, "keep me")
	require.NoError(t, err)

	require.NoError(t, repo.RemoveTask(ctx, task.ID))
	assert.ErrorIs(t, repo.RemoveTask(ctx, task.ID), ErrNotFound)

	tasks, err := repo.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, keep.ID, tasks[0].ID)
}
