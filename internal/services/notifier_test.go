package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"contractflow/internal/config"
	"contractflow/internal/models/db_models"
	"contractflow/pkg/utils"
)

type recordingMail struct {
	mu   sync.Mutex
	sent map[string]EmailData
	err  error
}

func (m *recordingMail) Send(to string, data EmailData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent == nil {
		m.sent = make(map[string]EmailData)
	}
	m.sent[to] = data
	return m.err
}

func syncNotifier(mail IMailService, cfg MailNotifierConfig) *mailNotifier {
	n := NewMailNotifier(mail, cfg).(*mailNotifier)
	n.dispatch = func(f func()) { f() }
	return n
}

func paidContract() *db_models.Contract {
	paidAt := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	amount := int64(145000)
	return &db_models.Contract{
		Token:         "tok123456789abc",
		ClientName:    "Lead 7",
		BusinessName:  "Mama Put",
		OwnerName:     "Ada",
		Email:         "ada@example.com",
		PackageName:   "Growth",
		PackagePrice:  290000,
		Currency:      "NGN",
		PaymentMethod: "flutterwave",
		TransactionID: "555",
		AmountPaid:    &amount,
		PaidAt:        &paidAt,
		Status:        db_models.StatusPaid,
	}
}

func TestMailNotifierSendsToClientAndOwner(t *testing.T) {
	mail := &recordingMail{}
	n := syncNotifier(mail, MailNotifierConfig{OwnerAddress: "owner@studio.test", FrontendURL: "https://site.test/"})

	if err := n.NotifyPaymentConfirmed(context.Background(), paidContract()); err != nil {
		t.Fatalf("NotifyPaymentConfirmed failed: %v", err)
	}

	client, ok := mail.sent["ada@example.com"]
	if !ok {
		t.Fatal("Expected a mail to the client")
	}
	if client.ButtonURL != "https://site.test/contract/tok123456789abc" {
		t.Errorf("Unexpected client link %s", client.ButtonURL)
	}
	owner, ok := mail.sent["owner@studio.test"]
	if !ok {
		t.Fatal("Expected a mail to the owner")
	}
	if !strings.Contains(owner.Subject, "Mama Put") {
		t.Errorf("Expected owner subject to name the business, got %q", owner.Subject)
	}

	var amountRow string
	for _, r := range owner.Rows {
		if r.Label == "Amount paid" {
			amountRow = r.Value
		}
	}
	if amountRow != "NGN 145,000" {
		t.Errorf("Expected formatted amount row, got %q", amountRow)
	}
}

func TestMailNotifierWithoutRecipients(t *testing.T) {
	c := paidContract()
	c.Email = ""
	n := syncNotifier(&recordingMail{}, MailNotifierConfig{})

	if err := n.NotifyPaymentConfirmed(context.Background(), c); !errors.Is(err, utils.ErrNotifier) {
		t.Errorf("Expected ErrNotifier, got %v", err)
	}
}

func TestMailNotifierSwallowsDeliveryFailure(t *testing.T) {
	n := syncNotifier(&recordingMail{err: errors.New("smtp down")}, MailNotifierConfig{OwnerAddress: "owner@studio.test"})
	if err := n.NotifyPaymentConfirmed(context.Background(), paidContract()); err != nil {
		t.Errorf("Expected delivery failure to stay off the caller's path, got %v", err)
	}
}

func TestRenderEmailEscapesHTML(t *testing.T) {
	svc, err := NewSMTPMailService(config.MailConfig{Host: "smtp.test", From: "noreply@studio.test"}, "Studio")
	if err != nil {
		t.Fatalf("NewSMTPMailService failed: %v", err)
	}
	s := svc.(*smtpMailService)

	html, text, err := renderEmail(s.htmlTpl, s.textTpl, EmailData{
		Title: "Paid",
		Rows:  []EmailRow{{Label: "Business", Value: "<b>Shop</b>"}},
	})
	if err != nil {
		t.Fatalf("renderEmail failed: %v", err)
	}
	if strings.Contains(html, "<b>Shop</b>") {
		t.Error("Expected html body to escape field values")
	}
	if !strings.Contains(text, "Business: <b>Shop</b>") {
		t.Errorf("Expected text body to carry raw value, got %q", text)
	}

	msg := string(s.buildMessage("ada@example.com", "Paid ✓", html, text))
	if !strings.Contains(msg, "multipart/alternative") || !strings.Contains(msg, "=?UTF-8?q?") {
		t.Errorf("Expected multipart message with encoded subject, got %q", msg[:200])
	}
}

func TestNewSMTPMailServiceRequiresHost(t *testing.T) {
	if _, err := NewSMTPMailService(config.MailConfig{From: "a@b.co"}, "Studio"); err == nil {
		t.Error("Expected error without host")
	}
}
