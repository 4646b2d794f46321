package webhooks

import (
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/insighthub/insighthub/datastore"
	"github.com/insighthub/insighthub/ingestion"
	"github.com/insighthub/insighthub/insight"
	"github.com/insighthub/insighthub/metrics"
	"github.com/insighthub/insighthub/models"
	"github.com/insighthub/insighthub/webutil"
)

const (
	maxMultipartMemory = 32 << 20

	formFieldEmail = "email"
	formFieldFrom  = "from"
)

// InboundEmailHandler turns mail forwarded by an inbound-parse webhook into
// tasks. Only mail from registered users is accepted; anything else is
// acknowledged and dropped so the provider does not retry it.
type InboundEmailHandler struct {
	Processor *ingestion.ContentProcessor
	Users     *datastore.UserRepository
	Tasks     *datastore.TaskRepository
	Stats     *datastore.StatsRepository
	Logger    *zap.Logger
}

func NewInboundEmailHandler(
	processor *ingestion.ContentProcessor,
	users *datastore.UserRepository,
	tasks *datastore.TaskRepository,
	stats *datastore.StatsRepository,
	logger *zap.Logger,
) *InboundEmailHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InboundEmailHandler{
		Processor: processor,
		Users:     users,
		Tasks:     tasks,
		Stats:     stats,
		Logger:    logger,
	}
}

func (h *InboundEmailHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	webhookData, err := parseWebhookRequest(r)
	if err != nil {
		h.Logger.Warn("Rejected inbound email webhook", zap.Error(err))
		webutil.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	email, err := h.Processor.ParseEmail(webhookData.RawMIME)
	if err != nil {
		h.acknowledge(w, "could not parse message", zap.Error(err))
		return
	}

	sender := email.Sender
	if sender == "" {
		sender = addressFromField(webhookData.Sender)
	}
	if sender == "" {
		h.acknowledge(w, "no sender address", zap.String("message_id", email.MessageID))
		return
	}

	log := h.Logger.With(zap.String("sender", sender), zap.String("message_id", email.MessageID))

	if _, err := h.Users.FindByEmail(r.Context(), sender); err != nil {
		if errors.Is(err, datastore.ErrNotFound) {
			h.acknowledge(w, "sender not registered", zap.String("sender", sender))
			return
		}
		log.Error("Failed to look up sender", zap.Error(err))
		webutil.RespondWithError(w, http.StatusInternalServerError, "Error processing email")
		return
	}

	extracted := insight.ExtractTasks(email.Text)
	added, err := h.Tasks.AddTasks(r.Context(), extracted)
	if err != nil {
		log.Error("Failed to add tasks from email", zap.Error(err))
		webutil.RespondWithError(w, http.StatusInternalServerError, "Error processing email")
		return
	}
	metrics.RecordTasksCreated("email", len(added))

	if len(added) > 0 {
		if _, err := h.Stats.RecordEvent(r.Context(), models.StatKindTask); err != nil {
			log.Error("Failed to record task stat", zap.Error(err))
		}
	}

	log.Info("Processed inbound email", zap.String("subject", email.Subject), zap.Int("tasks_added", len(added)))
	webutil.RespondWithText(w, http.StatusOK, fmt.Sprintf("OK (%d tasks added)", len(added)))
}

// acknowledge answers 200 for mail that is dropped on purpose.
func (h *InboundEmailHandler) acknowledge(w http.ResponseWriter, reason string, fields ...zap.Field) {
	h.Logger.Warn("Ignoring inbound email: "+reason, fields...)
	webutil.RespondWithText(w, http.StatusOK, fmt.Sprintf("OK (%s)", reason))
}

type webhookInputData struct {
	RawMIME string
	Sender  string
}

func parseWebhookRequest(r *http.Request) (webhookInputData, error) {
	var data webhookInputData
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if err := r.ParseForm(); err != nil {
			return data, fmt.Errorf("failed to parse form data: %w", err)
		}
	}
	data.RawMIME = r.FormValue(formFieldEmail)
	data.Sender = r.FormValue(formFieldFrom)

	if data.RawMIME == "" {
		return data, fmt.Errorf("missing raw email content in webhook payload")
	}
	return data, nil
}

// addressFromField accepts both "Name <a@b.c>" and a bare address.
func addressFromField(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if addr, err := mail.ParseAddress(raw); err == nil {
		return strings.ToLower(addr.Address)
	}
	if strings.Contains(raw, "@") {
		return strings.ToLower(raw)
	}
	return ""
}
