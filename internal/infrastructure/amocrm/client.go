package amocrm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/httpx"
	"amo_checkbox/pkg/logx"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Client клиент AmoCRM API v4. Токен подставляется bearer round tripper'ом,
// весь обмен логируется с маскированием секретов.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.AmoCRM) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: httpx.NewAuthBearerRoundTripper(
				httpx.NewLoggingRoundTripper(
					http.DefaultTransport,
					httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
				),
				httpx.NewStaticTokenAuthenticator(cfg.AccessToken),
			),
		},
	}
}

func (c *Client) GetLead(ctx context.Context, leadID int64) (Lead, error) {
	var lead Lead

	query := url.Values{"with": []string{"contacts"}}

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v4/leads/%d", leadID), query, nil, &lead); err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (c *Client) GetContact(ctx context.Context, contactID int64) (Contact, error) {
	var contact Contact

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v4/contacts/%d", contactID), nil, nil, &contact); err != nil {
		return Contact{}, err
	}

	return contact, nil
}

func (c *Client) GetLeadLinks(ctx context.Context, leadID int64) ([]Link, error) {
	var resp linksResponse

	query := url.Values{"limit": []string{"250"}}

	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v4/leads/%d/links", leadID), query, nil, &resp); err != nil {
		return nil, err
	}

	return resp.Embedded.Links, nil
}

func (c *Client) GetCatalogElement(ctx context.Context, catalogID, elementID int64) (CatalogElement, error) {
	var element CatalogElement

	path := fmt.Sprintf("/api/v4/catalogs/%d/elements/%d", catalogID, elementID)

	if err := c.do(ctx, http.MethodGet, path, nil, nil, &element); err != nil {
		return CatalogElement{}, err
	}

	return element, nil
}

func (c *Client) UpdateLeadCustomField(ctx context.Context, leadID, fieldID int64, value string) error {
	body := map[string]any{
		"custom_fields_values": []map[string]any{
			{
				"field_id": fieldID,
				"values":   []map[string]any{{"value": value}},
			},
		},
	}

	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/v4/leads/%d", leadID), nil, body, nil)
}

func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body, dest any,
) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader = http.NoBody

	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.UpstreamError, "amocrm request failed")
	}

	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(err, errcodes.UpstreamError, "amocrm response read failed")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewError(
			errcodes.UpstreamError,
			fmt.Sprintf("amocrm status %d: %s", resp.StatusCode, errorMessage(respBytes)),
		)
	}

	if dest != nil {
		if err := json.Unmarshal(respBytes, dest); err != nil {
			return domain.WrapError(err, errcodes.UpstreamError, "amocrm response decode failed")
		}
	}

	return nil
}

func errorMessage(body []byte) string {
	var errResp errorResponse

	if err := json.Unmarshal(body, &errResp); err == nil {
		for _, msg := range []string{errResp.Title, errResp.Message, errResp.Detail} {
			if msg != "" {
				return msg
			}
		}
	}

	const previewLen = 500

	if len(body) > previewLen {
		body = body[:previewLen]
	}

	return string(body)
}
