package routehandlers

import (
	"net/http"
	"strings"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/insight"
	"github.com/insighthub/insighthub/metrics"
	"github.com/insighthub/insighthub/models"
	"github.com/insighthub/insighthub/webutil"
)

// InsightHandler serves the /api/ai endpoints. Apart from chat, these do not
// touch the store; the dashboard records their stats itself.
type InsightHandler struct {
	Processor *ingestion.ContentProcessor
	Stats     *datastore.StatsRepository
}

func NewInsightHandler(processor *ingestion.ContentProcessor, stats *datastore.StatsRepository) *InsightHandler {
	return &InsightHandler{Processor: processor, Stats: stats}
}

func (h *InsightHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) error {
	text, err := h.decodeText(r)
	if err != nil {
		return err
	}
	metrics.RecordInsight("summarize")
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"summary": insight.Summarize(text)})
	return nil
}

func (h *InsightHandler) HandleSentiment(w http.ResponseWriter, r *http.Request) error {
	text, err := h.decodeText(r)
	if err != nil {
		return err
	}
	metrics.RecordInsight("sentiment")
	result := insight.AnalyzeSentiment(text)
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"score": result.Score, "label": result.Label})
	return nil
}

func (h *InsightHandler) HandleExtractTasks(w http.ResponseWriter, r *http.Request) error {
	text, err := h.decodeText(r)
	if err != nil {
		return err
	}
	metrics.RecordInsight("tasks")
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"tasks": insight.ExtractTasks(text)})
	return nil
}

func (h *InsightHandler) HandleIdeas(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return webutil.ErrBadRequest("Topic is required")
	}

	metrics.RecordInsight("ideas")
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"ideas": insight.GenerateIdeas(topic)})
	return nil
}

// HandleChat answers with the canned echo reply and records a chat event.
func (h *InsightHandler) HandleChat(w http.ResponseWriter, r *http.Request) error {
	var req struct {
		Message string `json:"message"`
	}
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return err
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return webutil.ErrBadRequest("Message is required")
	}

	metrics.RecordInsight("chat")
	stats, err := h.Stats.RecordEvent(r.Context(), models.StatKindChat)
	if err != nil {
		return err
	}
	webutil.RespondSuccess(w, http.StatusOK, webutil.Envelope{"reply": insight.ChatReply(message), "stats": stats})
	return nil
}

func (h *InsightHandler) decodeText(r *http.Request) (string, error) {
	var req textRequest
	if err := webutil.DecodeJSON(r, &req); err != nil {
		return "", err
	}
	return normalizeText(h.Processor, req)
}
