package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func TestSMSSend_PostsTwilioStyleForm(t *testing.T) {
	t.Parallel()

	var path, to, from, body string
	var sid, token string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		sid, token, _ = r.BasicAuth()
		_ = r.ParseForm()
		to = r.FormValue("To")
		from = r.FormValue("From")
		body = r.FormValue("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	s := NewSMSSender(config.SMSConfig{
		AccountSID: "AC42",
		AuthToken:  "tok",
		From:       "+15559999",
		APIBase:    srv.URL,
	}, zap.NewNop())

	d := s.Send(context.Background(), "+15550001", "hello")
	if d.Status != DeliverySent {
		t.Fatalf("status = %s, err = %v", d.Status, d.Err)
	}
	if !strings.Contains(path, "/Accounts/AC42/Messages.json") {
		t.Errorf("path = %q", path)
	}
	if sid != "AC42" || token != "tok" {
		t.Errorf("basic auth = %q/%q", sid, token)
	}
	if to != "+15550001" || from != "+15559999" || body != "hello" {
		t.Errorf("form = To %q From %q Body %q", to, from, body)
	}
}

func TestSMSSend_UnconfiguredLogsLocally(t *testing.T) {
	t.Parallel()

	s := NewSMSSender(config.SMSConfig{}, zap.NewNop())
	d := s.Send(context.Background(), "+15550001", "hello")
	if d.Status != DeliveryLogged || d.Err != nil {
		t.Errorf("delivery = %+v, want logged", d)
	}
}

func TestSMSSend_GatewayErrorFails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	s := NewSMSSender(config.SMSConfig{
		AccountSID: "AC42",
		AuthToken:  "tok",
		From:       "+15559999",
		APIBase:    srv.URL,
	}, zap.NewNop())

	d := s.Send(context.Background(), "+15550001", "hello")
	if d.Status != DeliveryFailed || d.Err == nil {
		t.Errorf("delivery = %+v, want failed", d)
	}
}
