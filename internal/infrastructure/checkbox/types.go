package checkbox

type signInRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type signInResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

type goodBody struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Price int64   `json:"price"`
	Tax   []int64 `json:"tax"`
}

type goodEntry struct {
	Good     goodBody `json:"good"`
	Quantity int64    `json:"quantity"`
	IsReturn bool     `json:"is_return"`
}

type paymentEntry struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
	Label string `json:"label"`
}

type discountEntry struct {
	Type  string `json:"type"`
	Mode  string `json:"mode"`
	Value int64  `json:"value"`
	Name  string `json:"name"`
}

type deliveryBody struct {
	Emails []string `json:"emails"`
}

type sellRequest struct {
	Goods     []goodEntry     `json:"goods"`
	Payments  []paymentEntry  `json:"payments"`
	Discounts []discountEntry `json:"discounts,omitempty"`
	Delivery  *deliveryBody   `json:"delivery,omitempty"`
}

type sellResponse struct {
	ID         string `json:"id"`
	ReceiptID  string `json:"receipt_id"`
	FiscalCode string `json:"fiscal_code"`
	Number     string `json:"number"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Фискальная группа НДС для всех позиций чека.
var goodsTaxGroup = []int64{8} //nolint:gochecknoglobals
