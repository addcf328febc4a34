package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const smsTimeout = 10 * time.Second

// SMSSender sends text messages through a Twilio-compatible REST gateway.
// Without account credentials it degrades to logging.
type SMSSender struct {
	cfg    config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

// NewSMSSender constructs a sender.
func NewSMSSender(cfg config.SMSConfig, logger *zap.Logger) *SMSSender {
	return &SMSSender{
		cfg:    cfg,
		client: &http.Client{Timeout: smsTimeout},
		logger: logger,
	}
}

// Send delivers one text message to the given phone number.
func (s *SMSSender) Send(ctx context.Context, to, text string) Delivery {
	d := Delivery{Channel: "sms", Target: to}
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" || s.cfg.From == "" || to == "" {
		s.logger.Info("sms channel unconfigured; logging instead",
			zap.String("to", to),
			zap.String("text", text))
		d.Status = DeliveryLogged
		return d
	}

	if err := s.post(ctx, to, text); err != nil {
		s.logger.Warn("sms send failed", zap.String("to", to), zap.Error(err))
		d.Status = DeliveryFailed
		d.Err = err
		return d
	}
	d.Status = DeliverySent
	return d
}

func (s *SMSSender) post(ctx context.Context, to, text string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.APIBase, s.cfg.AccountSID)
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.From)
	form.Set("Body", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post sms: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
