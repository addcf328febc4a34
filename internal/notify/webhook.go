package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const webhookTimeout = 10 * time.Second

// DiscordSender posts messages to a Discord incoming webhook. Unconfigured,
// it logs locally.
type DiscordSender struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewDiscordSender constructs a sender.
func NewDiscordSender(cfg config.DiscordConfig, logger *zap.Logger) *DiscordSender {
	return &DiscordSender{
		webhookURL: cfg.WebhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
		logger:     logger,
	}
}

// Send posts one message.
func (s *DiscordSender) Send(ctx context.Context, text string) Delivery {
	d := Delivery{Channel: "discord", Target: "webhook"}
	if s.webhookURL == "" {
		s.logger.Info("discord channel unconfigured; logging instead", zap.String("text", text))
		d.Status = DeliveryLogged
		return d
	}
	if err := postJSON(ctx, s.client, s.webhookURL, map[string]string{"content": text}); err != nil {
		s.logger.Warn("discord send failed", zap.Error(err))
		d.Status = DeliveryFailed
		d.Err = err
		return d
	}
	d.Status = DeliverySent
	return d
}

// TelegramSender sends messages through the Telegram bot API. Unconfigured,
// it logs locally.
type TelegramSender struct {
	cfg    config.TelegramConfig
	client *http.Client
	logger *zap.Logger
}

// NewTelegramSender constructs a sender.
func NewTelegramSender(cfg config.TelegramConfig, logger *zap.Logger) *TelegramSender {
	return &TelegramSender{
		cfg:    cfg,
		client: &http.Client{Timeout: webhookTimeout},
		logger: logger,
	}
}

// Send posts one message to the configured chat.
func (s *TelegramSender) Send(ctx context.Context, text string) Delivery {
	d := Delivery{Channel: "telegram", Target: s.cfg.ChatID}
	if s.cfg.BotToken == "" || s.cfg.ChatID == "" {
		s.logger.Info("telegram channel unconfigured; logging instead", zap.String("text", text))
		d.Status = DeliveryLogged
		return d
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIBase, s.cfg.BotToken)
	payload := map[string]string{"chat_id": s.cfg.ChatID, "text": text}
	if err := postJSON(ctx, s.client, url, payload); err != nil {
		s.logger.Warn("telegram send failed", zap.Error(err))
		d.Status = DeliveryFailed
		d.Err = err
		return d
	}
	d.Status = DeliverySent
	return d
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
