package gateway

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

	"ticket-purchase/internal/data/entity"
	"ticket-purchase/pkg/apperrors"
	"ticket-purchase/pkg/utils"

	"go.uber.org/zap"
)

type paypalProvider struct {
	config utils.PayPalConfig
	client *http.Client
	log    *zap.Logger
}

// NewPayPalProvider builds a provider over PayPal's Checkout Orders v2 API.
func NewPayPalProvider(config utils.PayPalConfig, timeout time.Duration, log *zap.Logger) PaymentProvider {
	return &paypalProvider{
		config: config,
		client: &http.Client{Timeout: timeout},
		log:    log.With(zap.String("provider", "paypal")),
	}
}

func (p *paypalProvider) Type() entity.PaymentType {
	return entity.PaymentTypePayPal
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (p *paypalProvider) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request returned %d: %s", resp.StatusCode, string(body))
	}

	var token paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return token.AccessToken, nil
}

type paypalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

type paypalCaptureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		PayerID string `json:"payer_id"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID string `json:"id"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

func (p *paypalProvider) Initiate(ctx context.Context, payment *entity.Payment, pctx ProcessingContext) (*InitiateResult, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		p.log.Error("Failed to obtain PayPal access token", zap.Error(err))
		return nil, apperrors.ExternalService("PayPal", err)
	}

	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": payment.OrderID.String(),
				"amount": map[string]string{
					"currency_code": payment.Currency,
					"value":         strconv.FormatFloat(payment.Amount, 'f', 2, 64),
				},
			},
		},
		"application_context": map[string]string{
			"return_url": pctx.ReturnURL,
			"cancel_url": pctx.CancelURL,
		},
	}

	var order paypalOrderResponse
	if err := p.post(ctx, token, "/v2/checkout/orders", body, &order); err != nil {
		p.log.Error("Failed to create PayPal order",
			zap.Error(err),
			zap.String("order_id", payment.OrderID.String()),
		)
		return nil, apperrors.ExternalService("PayPal", err)
	}

	result := &InitiateResult{ProviderOrderID: order.ID}
	for _, link := range order.Links {
		if link.Rel == "approve" {
			result.ApprovalURL = link.Href
		}
	}

	expiresAt := time.Now().Add(entity.PaymentExpiry)
	result.ExpiresAt = &expiresAt

	p.log.Info("PayPal order created",
		zap.String("provider_order_id", order.ID),
		zap.String("order_id", payment.OrderID.String()),
	)

	return result, nil
}

func (p *paypalProvider) Capture(ctx context.Context, payment *entity.Payment) (*CaptureResult, error) {
	if payment.ProviderOrderID == nil {
		return nil, apperrors.Internal(fmt.Errorf("payment %s has no provider order ID", payment.ID.String()))
	}

	token, err := p.accessToken(ctx)
	if err != nil {
		p.log.Error("Failed to obtain PayPal access token", zap.Error(err))
		return nil, apperrors.ExternalService("PayPal", err)
	}

	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", *payment.ProviderOrderID)

	var capture paypalCaptureResponse
	if err := p.post(ctx, token, path, map[string]any{}, &capture); err != nil {
		p.log.Error("Failed to capture PayPal order",
			zap.Error(err),
			zap.String("provider_order_id", *payment.ProviderOrderID),
		)
		return nil, apperrors.ExternalService("PayPal", err)
	}

	if capture.Status != "COMPLETED" {
		return nil, apperrors.ExternalService("PayPal",
			fmt.Errorf("capture returned status %s", capture.Status))
	}

	result := &CaptureResult{PayerID: capture.Payer.PayerID}
	if len(capture.PurchaseUnits) > 0 && len(capture.PurchaseUnits[0].Payments.Captures) > 0 {
		result.CaptureID = capture.PurchaseUnits[0].Payments.Captures[0].ID
	}

	return result, nil
}

func (p *paypalProvider) Cancel(ctx context.Context, payment *entity.Payment) error {
	// PayPal checkout orders are not cancelled server side. An unapproved order
	// simply lapses, so cancellation is local bookkeeping only.
	p.log.Info("PayPal payment cancelled locally",
		zap.String("payment_id", payment.ID.String()),
	)
	return nil
}

func (p *paypalProvider) post(ctx context.Context, token, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
