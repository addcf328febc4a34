package notify

import (
	"bufio"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

// fakeRelay is a minimal SMTP server that advertises STARTTLS and records
// what the client sent after the handshake.
type fakeRelay struct {
	cert tls.Certificate

	mu       sync.Mutex
	tlsUsed  bool
	mailFrom string
	rcptTo   string
	data     string
}

func (f *fakeRelay) serve(conn net.Conn) {
	defer conn.Close()
	br := bufio.NewReader(conn)
	reply := func(s string) { fmt.Fprintf(conn, "%s\r\n", s) }
	reply("220 relay.test ESMTP")
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return
		}
		raw := strings.TrimSpace(line)
		cmd := strings.ToUpper(raw)
		switch {
		case strings.HasPrefix(cmd, "EHLO"), strings.HasPrefix(cmd, "HELO"):
			fmt.Fprintf(conn, "250-relay.test\r\n250 STARTTLS\r\n")
		case cmd == "STARTTLS":
			reply("220 2.0.0 ready for TLS")
			tc := tls.Server(conn, &tls.Config{Certificates: []tls.Certificate{f.cert}})
			if err := tc.Handshake(); err != nil {
				return
			}
			f.mu.Lock()
			f.tlsUsed = true
			f.mu.Unlock()
			conn = tc
			br = bufio.NewReader(conn)
		case strings.HasPrefix(cmd, "MAIL FROM"):
			f.mu.Lock()
			f.mailFrom = raw
			f.mu.Unlock()
			reply("250 OK")
		case strings.HasPrefix(cmd, "RCPT TO"):
			f.mu.Lock()
			f.rcptTo = raw
			f.mu.Unlock()
			reply("250 OK")
		case cmd == "DATA":
			reply("354 go ahead")
			var b strings.Builder
			for {
				dl, err := br.ReadString('\n')
				if err != nil {
					return
				}
				if strings.TrimRight(dl, "\r\n") == "." {
					break
				}
				b.WriteString(dl)
			}
			f.mu.Lock()
			f.data = b.String()
			f.mu.Unlock()
			reply("250 queued")
		case cmd == "QUIT":
			reply("221 bye")
			return
		default:
			reply("250 OK")
		}
	}
}

func newRelayCert(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "relay.test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, pool
}

func TestEmailSend_NegotiatesSTARTTLS(t *testing.T) {
	t.Parallel()

	cert, pool := newRelayCert(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	relay := &fakeRelay{cert: cert}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		relay.serve(conn)
	}()

	s := NewEmailSender(config.SMTPConfig{
		Host: "127.0.0.1",
		Port: ln.Addr().(*net.TCPAddr).Port,
		From: "helpdesk@example.com",
	}, zap.NewNop())
	s.tlsConf = &tls.Config{ServerName: "127.0.0.1", RootCAs: pool}

	d := s.Send("user@example.com", "Ticket #1 received", "We are on it.")
	if d.Status != DeliverySent {
		t.Fatalf("status = %s, err = %v", d.Status, d.Err)
	}

	relay.mu.Lock()
	defer relay.mu.Unlock()
	if !relay.tlsUsed {
		t.Error("relay never completed the TLS handshake")
	}
	if !strings.Contains(relay.mailFrom, "helpdesk@example.com") {
		t.Errorf("mail from = %q", relay.mailFrom)
	}
	if !strings.Contains(relay.rcptTo, "user@example.com") {
		t.Errorf("rcpt to = %q", relay.rcptTo)
	}
	if !strings.Contains(relay.data, "Subject: Ticket #1 received") {
		t.Errorf("data = %q", relay.data)
	}
}

func TestNewEmailSender_TLSConfigCarriesServerName(t *testing.T) {
	t.Parallel()

	s := NewEmailSender(config.SMTPConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())
	if s.tlsConf == nil || s.tlsConf.ServerName != "smtp.example.com" {
		t.Fatalf("tlsConf = %+v, want ServerName smtp.example.com", s.tlsConf)
	}
}

func TestEmailSend_UnconfiguredLogsLocally(t *testing.T) {
	t.Parallel()

	s := NewEmailSender(config.SMTPConfig{}, zap.NewNop())
	d := s.Send("user@example.com", "hello", "body")
	if d.Status != DeliveryLogged || d.Err != nil {
		t.Errorf("delivery = %+v, want logged", d)
	}
}
