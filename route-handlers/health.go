package routehandlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/webutil"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	Store  *datastore.Store
	Logger *zap.Logger
}

func NewHealthHandler(store *datastore.Store, logger *zap.Logger) *HealthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthHandler{Store: store, Logger: logger}
}

// HandleAPIHealth is the dashboard's liveness probe.
func (h *HealthHandler) HandleAPIHealth(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithJSON(w, http.StatusOK, webutil.Envelope{"status": "OK", "message": "Server is running!"})
}

// HandleHealthz responds with plain OK for load balancers.
func (h *HealthHandler) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	webutil.RespondWithText(w, http.StatusOK, "OK")
}

// HandleReadyz reports whether the document can still be loaded. The cause of
// a failure is logged, not returned, since it names files and decode errors.
func (h *HealthHandler) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Logger.Error("Readiness check failed",
			zap.String("backend", h.Store.BackendName()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		webutil.RespondWithJSON(w, http.StatusServiceUnavailable, webutil.Envelope{
			"status":  "store_not_ready",
			"backend": h.Store.BackendName(),
			"message": "Store unavailable",
		})
		return
	}
	webutil.RespondWithJSON(w, http.StatusOK, webutil.Envelope{"status": "ready", "backend": h.Store.BackendName()})
}
