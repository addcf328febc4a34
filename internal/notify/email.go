package notify

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

const smtpTimeout = 10 * time.Second

// EmailSender delivers plain-text mail over SMTP. Without a configured host
// it degrades to logging the message locally.
type EmailSender struct {
	cfg     config.SMTPConfig
	tlsConf *tls.Config
	logger  *zap.Logger
}

// NewEmailSender constructs a sender.
func NewEmailSender(cfg config.SMTPConfig, logger *zap.Logger) *EmailSender {
	return &EmailSender{
		cfg: cfg,
		// ServerName is required for the STARTTLS handshake to proceed
		tlsConf: &tls.Config{ServerName: cfg.Host},
		logger:  logger,
	}
}

// Send delivers one message. The returned Delivery carries the outcome;
// Send itself never panics and never blocks past the SMTP timeout.
func (s *EmailSender) Send(to, subject, body string) Delivery {
	d := Delivery{Channel: "email", Target: to}
	if s.cfg.Host == "" || to == "" {
		s.logger.Info("email channel unconfigured; logging instead",
			zap.String("to", to),
			zap.String("subject", subject))
		d.Status = DeliveryLogged
		return d
	}

	if err := s.send(to, subject, body); err != nil {
		s.logger.Warn("email send failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err))
		d.Status = DeliveryFailed
		d.Err = err
		return d
	}
	d.Status = DeliverySent
	return d
}

func (s *EmailSender) send(to, subject, body string) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	conn, err := net.DialTimeout("tcp", addr, smtpTimeout)
	if err != nil {
		return fmt.Errorf("dial smtp: %w", err)
	}
	_ = conn.SetDeadline(time.Now().Add(smtpTimeout))

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(s.tlsConf); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}
	if s.cfg.Username != "" && s.cfg.Password != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.cfg.From, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}
