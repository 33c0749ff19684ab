package rest

// WebhookRequest JSON-вариант вебхука AmoCRM о смене статуса сделки.
// Тот же хук может прийти form-encoded, тогда он разбирается отдельно.
type WebhookRequest struct {
	Leads  *WebhookLeads `json:"leads,omitempty"`
	LeadID any           `json:"lead_id,omitempty"`
}

type WebhookLeads struct {
	Status      []WebhookLead `json:"status,omitempty"`
	StatusLeads []WebhookLead `json:"status_leads,omitempty"`
}

type WebhookLead struct {
	ID any `json:"id"`
}

// WebhookResult итог обработки одного события вебхука.
type WebhookResult struct {
	Status        string `json:"status,omitempty"`
	LeadID        int64  `json:"lead_id,omitempty"`
	ProfileID     string `json:"profile_id,omitempty"`
	ReceiptID     string `json:"receipt_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	Error         string `json:"error,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
