// Package payment defines the card-gateway port used for deposits and the
// hosted-checkout adapter that implements it.
package payment

import "context"

// StatusSuccessful is the only provider transaction status treated as paid.
const StatusSuccessful = "successful"

type Customer struct {
	Email string
	Name  string
	Phone string
}

type SessionRequest struct {
	TxRef       string
	Amount      int64
	Currency    string
	RedirectURL string
	Customer    Customer
	Title       string
	Description string
	Logo        string
	Meta        map[string]string
}

type Session struct {
	CheckoutURL string
}

// Transaction is the provider's server-side record of a charge.
type Transaction struct {
	ID            string
	TxRef         string
	ProviderRef   string
	Status        string
	Amount        float64
	ChargedAmount float64
	AppFee        float64
	Currency      string
	PaymentType   string
	CustomerEmail string
	CreatedAt     string
	Meta          map[string]string
}

type Provider interface {
	Name() string
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	VerifyTransaction(ctx context.Context, transactionID string) (*Transaction, error)
}
