package server

import (
	"net/http"

	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/service/receipt"
	"amo_checkbox/pkg/rest"
)

// newRESTWebhookResult отображает терминальное состояние обработки на HTTP
// статус и тело ответа. Мягкие пропуски отвечают 200, чтобы AmoCRM не
// пытался доставить хук повторно.
func newRESTWebhookResult(outcome receipt.Outcome) (int, rest.WebhookResult) {
	result := rest.WebhookResult{
		LeadID:        outcome.LeadID,
		ProfileID:     outcome.ProfileID,
		ReceiptID:     outcome.ReceiptID,
		ReceiptNumber: outcome.ReceiptNumber,
	}

	switch outcome.Kind {
	case receipt.OutcomeSuccess:
		result.Status = "ok"
		return http.StatusOK, result
	case receipt.OutcomeAlreadyProcessed:
		result.Status = "already_processed"
		return http.StatusOK, result
	case receipt.OutcomeSkippedByStatus:
		result.Status = "skipped_by_status"
		return http.StatusOK, result
	case receipt.OutcomeMaintenanceWindow:
		result.Status = "maintenance_window"
		return http.StatusOK, result
	case receipt.OutcomeClientError:
		result.Error = domain.UserMessage(outcome.Err)
		return http.StatusBadRequest, result
	case receipt.OutcomeServerError:
		result.Error = domain.UserMessage(outcome.Err)
		return http.StatusInternalServerError, result
	default:
		result.Error = "unknown outcome"
		return http.StatusInternalServerError, result
	}
}
