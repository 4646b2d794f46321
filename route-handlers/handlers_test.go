package routehandlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/storage"
	"github.com/insighthub/insighthub/webutil"
)

type testEnv struct {
	router http.Handler
	tasks  *datastore.TaskRepository
	stats  *datastore.StatsRepository
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	logger := zap.NewNop()
	store := datastore.NewStore(storage.NewMemoryStore(), logger)
	require.NoError(t, store.Init(context.Background()))

	tasks := datastore.NewTaskRepository(store)
	stats := datastore.NewStatsRepository(store)
	users := datastore.NewUserRepository(store, nil)
	processor := ingestion.NewContentProcessor(logger)

	th := NewTaskHandler(tasks, stats, processor, logger)
	sh := NewStatsHandler(stats, logger)
	ih := NewInsightHandler(processor, stats)
	ah := NewAuthHandler(users, logger)
	hh := NewHealthHandler(store, logger)

	r := chi.NewRouter()
	r.Get("/health", hh.HandleAPIHealth)
	r.Get("/readyz", hh.HandleReadyz)
	r.Get("/tasks", webutil.MakeHandler(th.HandleGetTasks))
	r.Post("/tasks", webutil.MakeHandler(th.HandleCreateTask))
	r.Post("/tasks/extract", webutil.MakeHandler(th.HandleExtractTasks))
	r.Put("/tasks/{id}", webutil.MakeHandler(th.HandleUpdateTask))
	r.Delete("/tasks/{id}", webutil.MakeHandler(th.HandleDeleteTask))
	r.Get("/stats", webutil.MakeHandler(sh.HandleGetStats))
	r.Post("/stats", webutil.MakeHandler(sh.HandleRecordStat))
	r.Post("/reset", webutil.MakeHandler(sh.HandleReset))
	r.Post("/ai/summarize", webutil.MakeHandler(ih.HandleSummarize))
	r.Post("/ai/sentiment", webutil.MakeHandler(ih.HandleSentiment))
	r.Post("/ai/tasks", webutil.MakeHandler(ih.HandleExtractTasks))
	r.Post("/ai/ideas", webutil.MakeHandler(ih.HandleIdeas))
	r.Post("/ai/chat", webutil.MakeHandler(ih.HandleChat))
	r.Post("/auth/register", webutil.MakeHandler(ah.HandleRegister))
	r.Post("/auth/login", webutil.MakeHandler(ah.HandleLogin))

	return testEnv{router: r, tasks: tasks, stats: stats}
}

func (e testEnv) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return rec.Code, decoded
}

func TestTaskLifecycle(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/tasks", `{"text":"Buy milk"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	task := body["task"].(map[string]any)
	assert.Equal(t, "Buy milk", task["text"])
	assert.Equal(t, false, task["done"])
	id := int64(task["id"].(float64))

	code, body = env.do(t, http.MethodPut, "/tasks/"+strconv.FormatInt(id, 10), `{"done":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["task"].(map[string]any)["done"])

	code, body = env.do(t, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["tasks"], 1)

	code, body = env.do(t, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Task deleted", body["message"])

	code, body = env.do(t, http.MethodDelete, "/tasks/"+strconv.FormatInt(id, 10), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Task not found", body["message"])
}

func TestTaskErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		code    int
		message string
	}{
		{"empty text", http.MethodPost, "/tasks", `{"text":"   "}`, http.StatusBadRequest, "Task text is required"},
		{"missing body", http.MethodPost, "/tasks", ``, http.StatusBadRequest, "Task text is required"},
		{"malformed json", http.MethodPost, "/tasks", `{"text":`, http.StatusBadRequest, "Invalid request payload"},
		{"bad id", http.MethodPut, "/tasks/abc", `{"done":true}`, http.StatusBadRequest, "Invalid task ID"},
		{"missing done on unknown id", http.MethodPut, "/tasks/1", `{}`, http.StatusNotFound, "Task not found"},
		{"unknown id", http.MethodPut, "/tasks/1", `{"done":true}`, http.StatusNotFound, "Task not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestUpdateTaskMissingDone(t *testing.T) {
	env := newTestEnv(t)

	added, err := env.tasks.AddTask(context.Background(), "Buy milk")
	require.NoError(t, err)

	code, body := env.do(t, http.MethodPut, "/tasks/"+strconv.FormatInt(added.ID, 10), `{"text":"ignored"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Field 'done' is required", body["message"])

	code, body = env.do(t, http.MethodPut, "/tasks/"+strconv.FormatInt(added.ID+1, 10), `{}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Task not found", body["message"])
}

func TestExtractTasksAddsAndRecords(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/tasks/extract",
		`{"text":"Please call the vendor. The weather is nice. Schedule a meeting with the team."}`)
	require.Equal(t, http.StatusOK, code)

	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Please call the vendor", tasks[0].(map[string]any)["text"])
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["tasks"])

	stored, err := env.tasks.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestStatsEndpoints(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/stats", `{"type":"summary"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["summaries"])

	code, body = env.do(t, http.MethodPost, "/stats", `{"type":"bogus"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["summaries"])

	_, err := env.tasks.AddTask(context.Background(), "keep me?")
	require.NoError(t, err)

	code, _ = env.do(t, http.MethodPost, "/reset", "")
	require.Equal(t, http.StatusOK, code)

	code, body = env.do(t, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), body["stats"].(map[string]any)["summaries"])

	tasks, err := env.tasks.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestInsightEndpoints(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/ai/summarize", `{"text":"One. Two. Three. Four."}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"One", "Two", "Three"}, body["summary"])

	code, body = env.do(t, http.MethodPost, "/ai/summarize", `{}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"No text provided."}, body["summary"])

	code, body = env.do(t, http.MethodPost, "/ai/sentiment", `{"text":"What a GREAT day"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.82, body["score"])
	assert.Equal(t, "Positive", body["label"])

	code, body = env.do(t, http.MethodPost, "/ai/tasks",
		`{"format":"html","text":"<p>Please call the vendor.</p><p>The weather is nice.</p>"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"Please call the vendor"}, body["tasks"])

	code, body = env.do(t, http.MethodPost, "/ai/tasks", `{"format":"pdf","text":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, body["success"])

	code, body = env.do(t, http.MethodPost, "/ai/ideas", `{"topic":"gardening"}`)
	require.Equal(t, http.StatusOK, code)
	ideas := body["ideas"].([]any)
	require.Len(t, ideas, 4)
	for _, idea := range ideas {
		assert.Contains(t, idea, "gardening")
	}

	code, body = env.do(t, http.MethodPost, "/ai/ideas", `{"topic":"  "}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Topic is required", body["message"])
}

func TestChatRecordsEvent(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/ai/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, `I received: "hello" - I can help you convert this into tasks or summaries!`, body["reply"])
	assert.Equal(t, float64(1), body["stats"].(map[string]any)["chats"])

	code, _ = env.do(t, http.MethodPost, "/ai/chat", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@example.com", user["email"])
	assert.NotContains(t, user, "password")

	code, body = env.do(t, http.MethodPost, "/auth/register", `{"email":"a@example.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "User already exists", body["message"])

	code, body = env.do(t, http.MethodPost, "/auth/register", `{"email":"b@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Email and password required", body["message"])

	code, body = env.do(t, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "a@example.com", body["user"].(map[string]any)["email"])

	code, body = env.do(t, http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", body["message"])
}

func TestReadyzHidesStoreError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	store := datastore.NewStore(storage.NewFileStore(path, nil), nil)
	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	core, logs := observer.New(zap.ErrorLevel)
	h := NewHealthHandler(store, zap.New(core))

	rec := httptest.NewRecorder()
	h.HandleReadyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), path)
	assert.NotContains(t, rec.Body.String(), "corrupt")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "store_not_ready", body["status"])
	assert.Equal(t, "Store unavailable", body["message"])
	assert.NotContains(t, body, "error")

	entries := logs.FilterMessage("Readiness check failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "corrupt")
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	code, body := env.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Server is running!", body["message"])

	code, body = env.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "memory", body["backend"])
}
