package routehandlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/insight"
	"github.com/insighthub/insighthub/metrics"
	"github.com/insighthub/insighthub/models"
	"github.com/insighthub/insighthub/webutil"
)

// Holds dependencies for task route handlers.
type TaskHandler struct {
	Tasks     *datastore.TaskRepository
	Stats     *datastore.StatsRepository
	Processor *ingestion.ContentProcessor
	Logger    *zap.Logger
}

func NewTaskHandler(
	tasks *datastore.TaskRepository,
	stats *datastore.StatsRepository,
	processor *ingestion.ContentProcessor,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{Tasks: tasks, Stats: stats, Processor: processor, Logger: logger}
}

func (h *TaskHandler) HandleGetTasks(w http.ResponseWriter, r *http.Request) error {
	tasks, err := h.Tasks.ListTasks(r.Context())
	if err != nil {
		return err
	}
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"tasks": tasks})
	return nil
}

func (h *TaskHandler) HandleCreateTask(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	task, err := h.Tasks.AddTask(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, datastore.ErrInvalidInput) {
			return webutil.ErrBadRequest("Task text is required")
		}
		return err
	}
	metrics.RecordTasksCreated("api", 1)

	h.Logger.Info("Task created", zap.Int64("task_id", task.ID))
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"task": task})
	return nil
}

func (h *TaskHandler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) error {
	taskID, err := parseTaskID(r)
	if err != nil {
		return err
	}

	var req struct {
		Done *bool `json:"done"`
	}
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Done == nil {
		// An unknown id outranks the missing field.
		if _, err := h.Tasks.GetTask(r.Context(), taskID); err != nil {
			if errors.Is(err, datastore.ErrNotFound) {
				return webutil.ErrNotFoundWrap("Task not found", err)
			}
			return err
		}
		return webutil.ErrBadRequest("Field 'done' is required")
	}

	task, err := h.Tasks.SetTaskDone(r.Context(), taskID, *req.Done)
	if err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("Task not found", err)
		}
		return fmt.Errorf("failed to update task %d: %w", taskID, err)
	}

	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"task": task})
	return nil
}

func (h *TaskHandler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) error {
	taskID, err := parseTaskID(r)
	if err != nil {
		return err
	}

	if err := h.Tasks.RemoveTask(r.Context(), taskID); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			return webutil.ErrNotFoundWrap("Task not found", err)
		}
		return fmt.Errorf("failed to delete task %d: %w", taskID, err)
	}

	h.Logger.Info("Task deleted", zap.Int64("task_id", taskID))
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"message": "Task deleted"})
	return nil
}

// HandleExtractTasks runs task extraction over the posted text and adds every
// extracted line as a task, then records one "task" event. This is the
// server-side version of the dashboard's extract button.
func (h *TaskHandler) HandleExtractTasks(w http.ResponseWriter, r *http.Request) error {
	var req textRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	text, err := normalizeText(h.Processor, req)
	if err != nil {
		return err
	}

	extracted := insight.ExtractTasks(text)
	metrics.RecordInsight("tasks")

	added, err := h.Tasks.AddTasks(r.Context(), extracted)
	if err != nil {
		return err
	}
	metrics.RecordTasksCreated("extract", len(added))

	stats, err := h.Stats.RecordEvent(r.Context(), models.StatKindTask)
	if err != nil {
		return err
	}

	h.Logger.Info("Extracted tasks", zap.Int("extracted", len(extracted)), zap.Int("added", len(added)))
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"tasks": added, "stats": stats})
	return nil
}

func parseTaskID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, paramID)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, webutil.ErrBadRequestWrap("Invalid task ID", err)
	}
	return id, nil
}
