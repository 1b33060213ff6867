package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"gigmarket-be/internal/config"
	"gigmarket-be/internal/logger"

	"go.uber.org/zap"
)

type paypalGateway struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewPayPalGateway(cfg *config.Config) PayPalGateway {
	if cfg.PayPalClientID == "" || cfg.PayPalSecret == "" {
		logger.L().Warn("PayPal credentials are empty")
	}

	return &paypalGateway{
		clientID: cfg.PayPalClientID,
		secret:   cfg.PayPalSecret,
		baseURL:  cfg.PayPalBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ----------------- OAuth -----------------

func (p *paypalGateway) token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.accessToken != "" && time.Now().Before(p.tokenExpiry) {
		return p.accessToken, nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}

	req.SetBasicAuth(p.clientID, p.secret)
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read paypal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal auth error: %s", string(bodyBytes))
	}

	var res struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		return "", err
	}

	p.accessToken = res.AccessToken
	// refresh a minute early so in-flight requests never carry a stale token
	p.tokenExpiry = time.Now().Add(time.Duration(res.ExpiresIn-60) * time.Second)

	return p.accessToken, nil
}

// ----------------- CreateOrder -----------------

func (p *paypalGateway) CreateOrder(
	ctx context.Context,
	amount float64,
	description string,
	meta CheckoutMetadata,
) (*CheckoutSession, error) {

	log := logger.FromCtx(ctx).With(
		zap.Uint("service_id", meta.ServiceID),
		zap.String("tier", meta.Name),
		zap.Float64("amount", amount),
	)

	token, err := p.token(ctx)
	if err != nil {
		log.Error("PayPal auth failed", zap.Error(err))
		return nil, err
	}

	customID, err := meta.EncodeJSON()
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"description": description,
				"custom_id":   customID,
				"amount": map[string]interface{}{
					"currency_code": "USD",
					"value":         fmt.Sprintf("%.2f", amount),
				},
			},
		},
	}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("Failed to marshal order request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/v2/checkout/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("Content-Type", "application/json")

	log.Info("Creating PayPal order")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Error("PayPal request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read paypal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("PayPal returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("paypal error: %s", string(bodyBytes))
	}

	var res struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding PayPal response", zap.Error(err))
		return nil, err
	}

	log.Info("PayPal order created",
		zap.String("paypal_order_id", res.ID),
		zap.String("status", res.Status),
	)

	return &CheckoutSession{ID: res.ID}, nil
}

// ----------------- CaptureOrder -----------------

func (p *paypalGateway) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	log := logger.FromCtx(ctx).With(zap.String("paypal_order_id", orderID))

	token, err := p.token(ctx)
	if err != nil {
		log.Error("PayPal auth failed", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		p.baseURL+"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Add("Authorization", "Bearer "+token)
	req.Header.Add("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		log.Error("PayPal capture request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read paypal response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("PayPal capture failed",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("paypal capture error: %s", string(bodyBytes))
	}

	var res struct {
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID       string `json:"id"`
					Status   string `json:"status"`
					CustomID string `json:"custom_id"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding capture response", zap.Error(err))
		return nil, err
	}

	if len(res.PurchaseUnits) == 0 || len(res.PurchaseUnits[0].Payments.Captures) == 0 {
		log.Error("Capture response missing capture details", zap.ByteString("response", bodyBytes))
		return nil, ErrCaptureFailed
	}

	capture := res.PurchaseUnits[0].Payments.Captures[0]

	log.Info("PayPal order captured",
		zap.String("capture_id", capture.ID),
		zap.String("status", capture.Status),
	)

	return &CaptureResult{
		CaptureID: capture.ID,
		Status:    capture.Status,
		CustomID:  capture.CustomID,
	}, nil
}
