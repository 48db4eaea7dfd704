package whatsapp

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

// Sender delivers a WhatsApp message to a phone number
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// apiError is the Twilio error payload
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Known Twilio error codes, mapped to operator-friendly text
var twilioErrors = map[int]string{
	21211: "invalid 'To' number",
	21608: "unverified recipient (trial account)",
	21610: "recipient has opted out",
	21212: "invalid 'From' number",
	63016: "outside allowed window (template required)",
	21614: "'To' is not a valid mobile number",
}

// TwilioClient sends WhatsApp messages through the Twilio REST API
type TwilioClient struct {
	cfg    config.WhatsAppConfig
	client *http.Client
	logger *zap.Logger
}

// NewTwilioClient creates a Twilio WhatsApp client
func NewTwilioClient(cfg config.WhatsAppConfig, logger *zap.Logger) *TwilioClient {
	return &TwilioClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("whatsapp"),
	}
}

// Send posts one message. The To number is normalised to the
// whatsapp:+E164 form Twilio expects.
func (c *TwilioClient) Send(ctx context.Context, to, body string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("whatsapp: recipient is empty")
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("whatsapp: message body is empty")
	}

	form := url.Values{}
	form.Set("From", normalize(c.cfg.From))
	form.Set("To", normalize(to))
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.AccountSID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: api unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("whatsapp: read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("whatsapp sent", zap.String("to", to))
		return nil
	}

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Code != 0 {
		if msg, ok := twilioErrors[apiErr.Code]; ok {
			return fmt.Errorf("whatsapp: %s", msg)
		}
		if apiErr.Message != "" {
			return fmt.Errorf("whatsapp: %s (code %d)", apiErr.Message, apiErr.Code)
		}
		return fmt.Errorf("whatsapp: error code %d", apiErr.Code)
	}

	return fmt.Errorf("whatsapp: HTTP %d from api", resp.StatusCode)
}

// normalize ensures the whatsapp: channel prefix is present
func normalize(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

var _ Sender = (*TwilioClient)(nil)
