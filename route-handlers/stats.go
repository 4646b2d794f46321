package routehandlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/models"
	"github.com/insighthub/insighthub/webutil"
)

type StatsHandler struct {
	Stats  *datastore.StatsRepository
	Logger *zap.Logger
}

func NewStatsHandler(stats *datastore.StatsRepository, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, Logger: logger}
}

func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.Stats.GetStats(r.Context())
	if err != nil {
		return err
	}
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"stats": stats})
	return nil
}

// HandleRecordStat bumps the counter named by "type". Unknown types answer
// with the unchanged counters.
func (h *StatsHandler) HandleRecordStat(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Type models.StatKind `json:"type"`
	}
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}

	stats, err := h.Stats.RecordEvent(r.Context(), req.Type)
	if err != nil {
		return err
	}
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"stats": stats})
	return nil
}

func (h *StatsHandler) HandleReset(w http.ResponseWriter, r *http.Request) error {
	if err := h.Stats.ResetAll(r.Context()); err != nil {
		return err
	}
	h.Logger.Info("Tasks and stats reset")
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"message": "Data reset"})
	return nil
}
