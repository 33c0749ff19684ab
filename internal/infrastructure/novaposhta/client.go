package novaposhta

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/httpx"
	"amo_checkbox/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// StatusDocument документ из ответа getStatusDocuments. Из всего ответа
// нам нужно только описание отправителя для маршрутизации по кассам.
type StatusDocument struct {
	Number            string `json:"Number"`
	Status            string `json:"Status"`
	SenderDescription string `json:"CounterpartySenderDescription"`
}

type StatusResponse struct {
	Success   bool             `json:"success"`
	Documents []StatusDocument `json:"data"`
	Errors    []string         `json:"errors"`
}

type trackingRequest struct {
	APIKey           string             `json:"apiKey"`
	ModelName        string             `json:"modelName"`
	CalledMethod     string             `json:"calledMethod"`
	MethodProperties trackingProperties `json:"methodProperties"`
}

type trackingProperties struct {
	Documents []trackingDocumentRef `json:"Documents"`
}

type trackingDocumentRef struct {
	DocumentNumber string `json:"DocumentNumber"`
	Phone          string `json:"Phone"`
}

// Client клиент публичного API Новой Пошты. Ключ передаётся в теле каждого
// запроса, по ключу на аккаунт отправителя.
type Client struct {
	apiURL     string
	httpClient *http.Client
}

func NewClient(cfg config.NovaPoshta) *Client {
	return &Client{
		apiURL: cfg.APIURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			),
		},
	}
}

// GetTrackingStatus запрашивает статус ТТН от имени аккаунта с данным ключом.
func (c *Client) GetTrackingStatus(ctx context.Context, apiKey, ttn string) (StatusResponse, error) {
	body := trackingRequest{
		APIKey:       apiKey,
		ModelName:    "TrackingDocument",
		CalledMethod: "getStatusDocuments",
		MethodProperties: trackingProperties{
			Documents: []trackingDocumentRef{{DocumentNumber: ttn, Phone: ""}},
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(b))
	if err != nil {
		return StatusResponse{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusResponse{}, domain.WrapError(err, errcodes.UpstreamError, "nova poshta request failed")
	}

	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return StatusResponse{}, domain.WrapError(err, errcodes.UpstreamError, "nova poshta response read failed")
	}

	var statusResp StatusResponse

	if err := json.Unmarshal(respBytes, &statusResp); err != nil {
		return StatusResponse{}, domain.WrapError(err, errcodes.UpstreamError, "nova poshta response decode failed")
	}

	return statusResp, nil
}
