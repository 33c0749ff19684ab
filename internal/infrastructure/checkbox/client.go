package checkbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"amo_checkbox/internal/config"
	"amo_checkbox/internal/domain"
	"amo_checkbox/internal/domain/entity"
	"amo_checkbox/pkg/errcodes"
	"amo_checkbox/pkg/httpx"
	"amo_checkbox/pkg/logx"
	"amo_checkbox/pkg/lox"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

// Client клиент Checkbox API. Токен кассира короткоживущий и передаётся
// параметром: каждый чек начинается с нового входа, клиент ничего не кэширует.
type Client struct {
	baseURL       string
	clientName    string
	clientVersion string
	httpClient    *http.Client
}

func NewClient(cfg config.Checkbox) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.APIBase, "/"),
		clientName:    cfg.ClientName,
		clientVersion: cfg.ClientVersion,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: httpx.NewLoggingRoundTripper(
				http.DefaultTransport,
				httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
			),
		},
	}
}

// SignIn аутентифицирует кассира и возвращает bearer-токен.
func (c *Client) SignIn(ctx context.Context, login, password string) (string, error) {
	var resp signInResponse

	err := c.do(ctx, http.MethodPost, "/cashier/signin", request{
		body: signInRequest{Login: login, Password: password},
	}, &resp)
	if err != nil {
		return "", err
	}

	token := lo.CoalesceOrEmpty(resp.AccessToken, resp.Token)
	if token == "" {
		return "", domain.NewError(errcodes.FiscalAuthError, "checkbox signin: no token in response")
	}

	return token, nil
}

func (c *Client) OpenShift(ctx context.Context, token, licenseKey string) error {
	return c.do(ctx, http.MethodPost, "/shifts", request{
		token:      token,
		licenseKey: licenseKey,
		body:       struct{}{},
	}, nil)
}

func (c *Client) CloseShift(ctx context.Context, token, licenseKey string) error {
	return c.do(ctx, http.MethodPost, "/shifts/close", request{
		token:      token,
		licenseKey: licenseKey,
		body:       struct{}{},
	}, nil)
}

// CreateSellReceipt регистрирует чек продажи и возвращает его идентификаторы.
func (c *Client) CreateSellReceipt(
	ctx context.Context,
	token, licenseKey string,
	receipt entity.ReceiptRequest,
) (entity.ReceiptResult, error) {
	var resp sellResponse

	err := c.do(ctx, http.MethodPost, "/receipts/sell", request{
		token:      token,
		licenseKey: licenseKey,
		body:       newSellRequest(receipt),
	}, &resp)
	if err != nil {
		return entity.ReceiptResult{}, err
	}

	return entity.ReceiptResult{
		ID:     lo.CoalesceOrEmpty(resp.ID, resp.ReceiptID),
		Number: lo.CoalesceOrEmpty(resp.FiscalCode, resp.Number),
	}, nil
}

func newSellRequest(receipt entity.ReceiptRequest) sellRequest {
	goods := lox.Map(receipt.Goods, func(g entity.Good) goodEntry {
		return goodEntry{
			Good: goodBody{
				Code:  g.Code,
				Name:  g.Name,
				Price: g.PriceMinor,
				Tax:   goodsTaxGroup,
			},
			Quantity: g.QuantityMillis,
			IsReturn: false,
		}
	})

	paymentValue := receipt.TotalMinor - receipt.DiscountMinor
	if paymentValue < 0 {
		paymentValue = 0
	}

	req := sellRequest{
		Goods: goods,
		Payments: []paymentEntry{
			{Type: receipt.PaymentType, Value: paymentValue, Label: "Оплата"},
		},
	}

	if receipt.DiscountMinor > 0 {
		req.Discounts = []discountEntry{
			{Type: "DISCOUNT", Mode: "VALUE", Value: receipt.DiscountMinor, Name: "Знижка з AmoCRM"},
		}
	}

	if receipt.Email != "" {
		req.Delivery = &deliveryBody{Emails: []string{receipt.Email}}
	}

	return req
}

type request struct {
	token      string
	licenseKey string
	body       any
}

func (c *Client) do(ctx context.Context, method, path string, r request, dest any) error {
	var reqBody io.Reader = http.NoBody

	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Name", c.clientName)
	req.Header.Set("X-Client-Version", c.clientVersion)

	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	if r.licenseKey != "" {
		req.Header.Set("X-License-Key", r.licenseKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WrapError(err, errcodes.UpstreamError, "checkbox request failed")
	}

	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(err, errcodes.UpstreamError, "checkbox response read failed")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.NewError(
			errcodes.UpstreamError,
			fmt.Sprintf("checkbox status %d: %s", resp.StatusCode, errorMessage(respBytes)),
		)
	}

	if dest != nil {
		if err := json.Unmarshal(respBytes, dest); err != nil {
			return domain.WrapError(err, errcodes.UpstreamError, "checkbox response decode failed")
		}
	}

	return nil
}

func errorMessage(body []byte) string {
	var errResp errorResponse

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return errResp.Message
	}

	const previewLen = 500

	if len(body) > previewLen {
		body = body[:previewLen]
	}

	return string(body)
}
