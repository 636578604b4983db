package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
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

type stripeProvider struct {
	config utils.StripeConfig
	client *http.Client
	log    *zap.Logger
}

// NewStripeProvider builds a provider over Stripe's PaymentIntents API.
func NewStripeProvider(config utils.StripeConfig, timeout time.Duration, log *zap.Logger) PaymentProvider {
	return &stripeProvider{
		config: config,
		client: &http.Client{Timeout: timeout},
		log:    log.With(zap.String("provider", "stripe")),
	}
}

func (p *stripeProvider) Type() entity.PaymentType {
	return entity.PaymentTypeStripe
}

type stripeIntentResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret"`
	LatestCharge string `json:"latest_charge"`
}

func (p *stripeProvider) Initiate(ctx context.Context, payment *entity.Payment, _ ProcessingContext) (*InitiateResult, error) {
	form := url.Values{
		"amount":                  {strconv.FormatInt(int64(math.Round(payment.Amount*100)), 10)},
		"currency":                {strings.ToLower(payment.Currency)},
		"capture_method":          {"manual"},
		"metadata[order_id]":      {payment.OrderID.String()},
		"payment_method_types[0]": {"card"},
	}

	var intent stripeIntentResponse
	if err := p.postForm(ctx, "/v1/payment_intents", form, &intent); err != nil {
		p.log.Error("Failed to create Stripe payment intent",
			zap.Error(err),
			zap.String("order_id", payment.OrderID.String()),
		)
		return nil, apperrors.ExternalService("Stripe", err)
	}

	p.log.Info("Stripe payment intent created",
		zap.String("provider_order_id", intent.ID),
		zap.String("order_id", payment.OrderID.String()),
	)

	return &InitiateResult{
		ProviderOrderID: intent.ID,
		ClientSecret:    intent.ClientSecret,
	}, nil
}

func (p *stripeProvider) Capture(ctx context.Context, payment *entity.Payment) (*CaptureResult, error) {
	if payment.ProviderOrderID == nil {
		return nil, apperrors.Internal(fmt.Errorf("payment %s has no provider order ID", payment.ID.String()))
	}

	path := fmt.Sprintf("/v1/payment_intents/%s/capture", *payment.ProviderOrderID)

	var intent stripeIntentResponse
	if err := p.postForm(ctx, path, url.Values{}, &intent); err != nil {
		p.log.Error("Failed to capture Stripe payment intent",
			zap.Error(err),
			zap.String("provider_order_id", *payment.ProviderOrderID),
		)
		return nil, apperrors.ExternalService("Stripe", err)
	}

	if intent.Status != "succeeded" {
		return nil, apperrors.ExternalService("Stripe",
			fmt.Errorf("capture returned status %s", intent.Status))
	}

	return &CaptureResult{CaptureID: intent.LatestCharge}, nil
}

func (p *stripeProvider) Cancel(ctx context.Context, payment *entity.Payment) error {
	if payment.ProviderOrderID == nil {
		return nil
	}

	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", *payment.ProviderOrderID)

	var intent stripeIntentResponse
	if err := p.postForm(ctx, path, url.Values{}, &intent); err != nil {
		p.log.Error("Failed to cancel Stripe payment intent",
			zap.Error(err),
			zap.String("provider_order_id", *payment.ProviderOrderID),
		)
		return apperrors.ExternalService("Stripe", err)
	}

	return nil
}

func (p *stripeProvider) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.config.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
