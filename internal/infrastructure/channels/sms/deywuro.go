package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Sender delivers a text message to a phone number
type Sender interface {
	Send(ctx context.Context, destination, message string) error
}

// gatewayResponse is the Deywuro reply payload
type gatewayResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Known Deywuro result codes
var gatewayErrors = map[int]string{
	401: "invalid credentials",
	402: "insufficient balance",
	403: "invalid destination",
	404: "invalid source",
	500: "internal error",
}

// DeywuroClient sends SMS through the Deywuro HTTP gateway
type DeywuroClient struct {
	cfg    config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

// NewDeywuroClient creates a Deywuro SMS client
func NewDeywuroClient(cfg config.SMSConfig, logger *zap.Logger) *DeywuroClient {
	return &DeywuroClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("sms"),
	}
}

// Send posts one message to the gateway. A zero result code means
// delivered to the gateway; anything else maps to an error.
func (c *DeywuroClient) Send(ctx context.Context, destination, message string) error {
	if strings.TrimSpace(destination) == "" {
		return fmt.Errorf("sms: destination is empty")
	}
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("sms: message is empty")
	}

	form := url.Values{}
	form.Set("username", c.cfg.Username)
	form.Set("password", c.cfg.Password)
	form.Set("destination", destination)
	form.Set("source", c.cfg.SenderID)
	form.Set("message", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("sms: read response: %w", err)
	}

	var gw gatewayResponse
	if err := json.Unmarshal(body, &gw); err != nil {
		return fmt.Errorf("sms: unexpected gateway response (HTTP %d)", resp.StatusCode)
	}

	if gw.Code != 0 {
		if msg, ok := gatewayErrors[gw.Code]; ok {
			return fmt.Errorf("sms: %s", msg)
		}
		return fmt.Errorf("SMS gateway error %d", gw.Code)
	}

	c.logger.Info("sms sent", zap.String("destination", destination))
	return nil
}

var _ Sender = (*DeywuroClient)(nil)
