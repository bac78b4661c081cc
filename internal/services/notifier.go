package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contractflow/internal/models/db_models"
	"contractflow/pkg/logger"
	"contractflow/pkg/utils"
)

// Notifier announces a confirmed payment. Implementations must not block the
// caller on delivery.
type Notifier interface {
	NotifyPaymentConfirmed(ctx context.Context, contract *db_models.Contract) error
}

type MailNotifierConfig struct {
	OwnerAddress string
	BusinessName string
	FrontendURL  string
	Location     *time.Location
}

type mailNotifier struct {
	mail IMailService
	cfg  MailNotifierConfig
	// dispatch runs the send; tests swap it for a synchronous call.
	dispatch func(func())
}

func NewMailNotifier(mail IMailService, cfg MailNotifierConfig) Notifier {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &mailNotifier{
		mail:     mail,
		cfg:      cfg,
		dispatch: func(f func()) { go f() },
	}
}

func (n *mailNotifier) NotifyPaymentConfirmed(ctx context.Context, contract *db_models.Contract) error {
	if contract == nil {
		return fmt.Errorf("%w: nil contract", utils.ErrNotifier)
	}

	type delivery struct {
		to   string
		data EmailData
	}
	var deliveries []delivery

	rows := n.summaryRows(contract)
	link := strings.TrimRight(n.cfg.FrontendURL, "/") + "/contract/" + contract.Token

	if contract.Email != "" {
		deliveries = append(deliveries, delivery{
			to: contract.Email,
			data: EmailData{
				Subject:   "Your payment is confirmed",
				Title:     "Payment confirmed",
				Intro:     fmt.Sprintf("Thank you, %s. Your deposit for the %s package has been received and work on your website can begin.", firstNonEmpty(contract.OwnerName, contract.BusinessName), contract.PackageName),
				Rows:      rows,
				ButtonURL: link,
				ButtonTxt: "View your agreement",
			},
		})
	}
	if n.cfg.OwnerAddress != "" {
		deliveries = append(deliveries, delivery{
			to: n.cfg.OwnerAddress,
			data: EmailData{
				Subject: fmt.Sprintf("Payment received: %s", firstNonEmpty(contract.BusinessName, contract.ClientName)),
				Title:   "New paid contract",
				Intro:   fmt.Sprintf("Contract %s (%s) is now paid.", contract.Token, contract.ClientName),
				Rows:    rows,
			},
		})
	}

	if len(deliveries) == 0 {
		return fmt.Errorf("%w: no recipients for contract %s", utils.ErrNotifier, contract.Token)
	}

	bg := context.WithoutCancel(ctx)
	for _, d := range deliveries {
		d := d
		n.dispatch(func() {
			if err := n.mail.Send(d.to, d.data); err != nil {
				logger.Error(bg, "failed to send payment notification", "to", d.to, "error", err)
				return
			}
			logger.Info(bg, "payment notification sent", "to", d.to)
		})
	}
	return nil
}

func (n *mailNotifier) summaryRows(c *db_models.Contract) []EmailRow {
	rows := []EmailRow{
		{Label: "Business", Value: c.BusinessName},
		{Label: "Package", Value: c.PackageName},
		{Label: "Package price", Value: c.Currency + " " + utils.FormatAmount(c.PackagePrice)},
	}
	if c.AmountPaid != nil {
		rows = append(rows, EmailRow{Label: "Amount paid", Value: c.Currency + " " + utils.FormatAmount(*c.AmountPaid)})
	}
	if c.PaymentMethod != "" {
		rows = append(rows, EmailRow{Label: "Payment method", Value: c.PaymentMethod})
	}
	if c.TransactionID != "" {
		rows = append(rows, EmailRow{Label: "Transaction", Value: c.TransactionID})
	}
	if c.PaidAt != nil {
		rows = append(rows, EmailRow{Label: "Paid at", Value: utils.FormatDisplay(*c.PaidAt, n.cfg.Location)})
	}
	return rows
}

// logNotifier is used when mail is disabled.
type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) NotifyPaymentConfirmed(ctx context.Context, contract *db_models.Contract) error {
	logger.Info(ctx, "payment confirmed, mail notifications disabled",
		"contract", contract.Token,
		"business", contract.BusinessName,
		"method", contract.PaymentMethod,
	)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
