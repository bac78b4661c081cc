package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"contractflow/internal/config"
	"contractflow/pkg/utils"
)

// HostedCheckoutGateway talks to a Flutterwave-compatible v3 API: a hosted
// payment link is created with POST /payments and settled transactions are
// read back with GET /transactions/{id}/verify.
type HostedCheckoutGateway struct {
	name       string
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

func NewHostedCheckoutGateway(cfg config.PaymentConfig) *HostedCheckoutGateway {
	return &HostedCheckoutGateway{
		name:      cfg.Provider,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		secretKey: cfg.SecretKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (g *HostedCheckoutGateway) Name() string { return g.name }

type createPaymentBody struct {
	TxRef          string            `json:"tx_ref"`
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	RedirectURL    string            `json:"redirect_url"`
	Customer       customerBody      `json:"customer"`
	Customizations customizations    `json:"customizations"`
	Meta           map[string]string `json:"meta,omitempty"`
}

type customerBody struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	PhoneNumber string `json:"phonenumber,omitempty"`
}

type customizations struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type verifyData struct {
	ID            json.Number    `json:"id"`
	TxRef         string         `json:"tx_ref"`
	FlwRef        string         `json:"flw_ref"`
	Amount        float64        `json:"amount"`
	ChargedAmount float64        `json:"charged_amount"`
	AppFee        float64        `json:"app_fee"`
	Currency      string         `json:"currency"`
	Status        string         `json:"status"`
	PaymentType   string         `json:"payment_type"`
	CreatedAt     string         `json:"created_at"`
	Meta          map[string]any `json:"meta"`
	Customer      struct {
		Email string `json:"email"`
	} `json:"customer"`
}

func (g *HostedCheckoutGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	body := createPaymentBody{
		TxRef:       req.TxRef,
		Amount:      req.Amount,
		Currency:    req.Currency,
		RedirectURL: req.RedirectURL,
		Customer: customerBody{
			Email:       req.Customer.Email,
			Name:        req.Customer.Name,
			PhoneNumber: req.Customer.Phone,
		},
		Customizations: customizations{
			Title:       req.Title,
			Description: req.Description,
			Logo:        req.Logo,
		},
		Meta: req.Meta,
	}

	env, status, err := g.do(ctx, http.MethodPost, "/payments", body)
	if err != nil {
		return nil, utils.NewPaymentInitError(err.Error())
	}
	if status >= http.StatusBadRequest || env.Status != "success" {
		return nil, utils.NewPaymentInitError(providerMessage(env, status))
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Link == "" {
		return nil, utils.NewPaymentInitError("response carried no checkout link")
	}

	return &Session{CheckoutURL: data.Link}, nil
}

func (g *HostedCheckoutGateway) VerifyTransaction(ctx context.Context, transactionID string) (*Transaction, error) {
	if _, err := strconv.ParseInt(transactionID, 10, 64); err != nil {
		return nil, utils.NewPaymentVerificationError("malformed transaction id")
	}

	env, status, err := g.do(ctx, http.MethodGet, "/transactions/"+url.PathEscape(transactionID)+"/verify", nil)
	if err != nil {
		return nil, utils.NewPaymentVerificationError(err.Error())
	}
	if status >= http.StatusBadRequest || env.Status != "success" {
		return nil, utils.NewPaymentVerificationError(providerMessage(env, status))
	}

	var data verifyData
	dec := json.NewDecoder(bytes.NewReader(env.Data))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, utils.NewPaymentVerificationError("unreadable transaction payload")
	}

	meta := make(map[string]string, len(data.Meta))
	for k, v := range data.Meta {
		meta[k] = fmt.Sprint(v)
	}

	return &Transaction{
		ID:            data.ID.String(),
		TxRef:         data.TxRef,
		ProviderRef:   data.FlwRef,
		Status:        strings.ToLower(data.Status),
		Amount:        data.Amount,
		ChargedAmount: data.ChargedAmount,
		AppFee:        data.AppFee,
		Currency:      data.Currency,
		PaymentType:   data.PaymentType,
		CustomerEmail: data.Customer.Email,
		CreatedAt:     data.CreatedAt,
		Meta:          meta,
	}, nil
}

func (g *HostedCheckoutGateway) do(ctx context.Context, method, path string, payload any) (*apiEnvelope, int, error) {
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response (status %d)", resp.StatusCode)
	}
	return &env, resp.StatusCode, nil
}

func providerMessage(env *apiEnvelope, status int) string {
	if env != nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("unexpected status %d", status)
}
