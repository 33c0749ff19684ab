package server

import (
	"context"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"amo_checkbox/internal/domain/service/receipt"
	"amo_checkbox/pkg/contextx"
	"amo_checkbox/pkg/httpx/reply"
	"amo_checkbox/pkg/httpx/req"
	"amo_checkbox/pkg/logx"
	"amo_checkbox/pkg/rest"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type receiptService interface {
	HandleLeadEvent(ctx context.Context, leadID int64) receipt.Outcome
}

type operatorNotifier interface {
	Notify(ctx context.Context, text string)
}

type WebhookServer struct {
	receipts receiptService
	notifier operatorNotifier
}

func NewWebhookServer(receipts receiptService, notifier operatorNotifier) WebhookServer {
	return WebhookServer{
		receipts: receipts,
		notifier: notifier,
	}
}

func (s WebhookServer) getHealth(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, rest.Health{Status: "ok"})

	return nil
}

// postAmoCRMWebhook принимает хук AmoCRM о смене статуса сделки. AmoCRM
// шлёт его либо JSON-ом, либо form-encoded; нечитаемое тело равносильно
// телу без идентификатора сделки.
func (s WebhookServer) postAmoCRMWebhook(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	leadID, ok := s.extractLeadID(r)
	if !ok {
		logger(ctx).Error("lead id not found in webhook")
		s.notifier.Notify(ctx, "❌ Вебхук AmoCRM: не удалось получить ID сделки")
		reply.JSON(ctx, w, http.StatusBadRequest, rest.WebhookResult{Error: "lead_id not found"})

		return nil
	}

	ctx = contextx.WithLeadID(ctx, contextx.LeadID(leadID))

	outcome := s.receipts.HandleLeadEvent(ctx, leadID)

	status, result := newRESTWebhookResult(outcome)
	reply.JSON(ctx, w, status, result)

	return nil
}

func (s WebhookServer) extractLeadID(r *http.Request) (int64, bool) {
	if isJSONRequest(r) {
		var request rest.WebhookRequest

		if err := req.Read(r, &request); err != nil {
			logger(r.Context()).Warn("webhook body decode failed", logx.Error(err))
			return 0, false
		}

		return leadIDFromJSON(request)
	}

	if err := r.ParseForm(); err != nil {
		logger(r.Context()).Warn("webhook form decode failed", logx.Error(err))
		return 0, false
	}

	return leadIDFromForm(r.PostForm)
}

func isJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}

	return mediaType == "application/json"
}

func leadIDFromJSON(request rest.WebhookRequest) (int64, bool) {
	if request.Leads != nil {
		items := request.Leads.Status
		if len(items) == 0 {
			items = request.Leads.StatusLeads
		}

		if len(items) > 0 {
			if id, ok := toLeadID(items[0].ID); ok {
				return id, true
			}

			return 0, false
		}
	}

	return toLeadID(request.LeadID)
}

// leadIDFromForm ищет ключи вида leads[status][0][id] в form-encoded хуке,
// затем запасной ключ lead_id.
func leadIDFromForm(form map[string][]string) (int64, bool) {
	for key, values := range form {
		if !strings.HasSuffix(key, "[id]") || !strings.Contains(key, "leads[status]") {
			continue
		}

		if len(values) == 0 {
			return 0, false
		}

		return toLeadID(values[0])
	}

	if values, ok := form["lead_id"]; ok && len(values) > 0 {
		return toLeadID(values[0])
	}

	return 0, false
}

func toLeadID(value any) (int64, bool) {
	switch v := value.(type) {
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil || id == 0 {
			return 0, false
		}

		return id, true
	case float64:
		if v != math.Trunc(v) || v == 0 {
			return 0, false
		}

		return int64(v), true
	case int64:
		return v, v != 0
	default:
		return 0, false
	}
}
