package datastore

import (
	"context"
	"fmt"
	"strings"

	"github.com/insighthub/insighthub/models"
)

type TaskRepository struct {
	store *Store
}

func NewTaskRepository(store *Store) *TaskRepository {
	return &TaskRepository{store: store}
}

// ListTasks returns all tasks in insertion order. The result is never nil.
func (r *TaskRepository) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := r.store.View(ctx, "list_tasks", func(doc *models.Document) error {
		tasks = doc.Tasks
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// GetTask returns the task with id, or ErrNotFound.
func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var task *models.Task
	err := r.store.View(ctx, "get_task", func(doc *models.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				t := doc.Tasks[i]
				task = &t
				return nil
			}
		}
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AddTask appends a new, not yet done task. Text is stored exactly as given.
func (r *TaskRepository) AddTask(ctx context.Context, text string) (*models.Task, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: task text is required", ErrInvalidInput)
	}

	var task models.Task
	err := r.store.Update(ctx, "add_task", func(doc *models.Document) error {
		now := r.store.now()
		task = models.Task{
			ID:        r.store.nextTaskID(now, doc),
			Text:      text,
			Done:      false,
			CreatedAt: now.UTC(),
		}
		doc.Tasks = append(doc.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add task: %w", err)
	}
	return &task, nil
}

// AddTasks appends one task per non-blank text in a single save. Blank
// entries are skipped rather than rejected.
func (r *TaskRepository) AddTasks(ctx context.Context, texts []string) ([]models.Task, error) {
	added := []models.Task{}
	err := r.store.Update(ctx, "add_tasks", func(doc *models.Document) error {
		now := r.store.now()
		for _, text := range texts {
			if strings.TrimSpace(text) == "" {
				continue
			}
			task := models.Task{
				ID:        r.store.nextTaskID(now, doc),
				Text:      text,
				CreatedAt: now.UTC(),
			}
			doc.Tasks = append(doc.Tasks, task)
			added = append(added, task)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add tasks: %w", err)
	}
	return added, nil
}

// SetTaskDone updates the done flag of the task with id.
func (r *TaskRepository) SetTaskDone(ctx context.Context, id int64, done bool) (*models.Task, error) {
	var task models.Task
	err := r.store.Update(ctx, "set_task_done", func(doc *models.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				doc.Tasks[i].Done = done
				task = doc.Tasks[i]
				return nil
			}
		}
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// RemoveTask deletes the task with id. Deleting an id that is already gone
// fails with ErrNotFound.
func (r *TaskRepository) RemoveTask(ctx context.Context, id int64) error {
	return r.store.Update(ctx, "remove_task", func(doc *models.Document) error {
		for i := range doc.Tasks {
			if doc.Tasks[i].ID == id {
				doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	})
}
