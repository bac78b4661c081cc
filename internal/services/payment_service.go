package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"

	"contractflow/internal/config"
	"contractflow/internal/models/db_models"
	"contractflow/internal/models/request_models"
	"contractflow/internal/models/response_models"
	"contractflow/internal/payment"
	"contractflow/internal/repositories"
	"contractflow/pkg/logger"
	"contractflow/pkg/utils"
)

type PaymentService interface {
	InitializePayment(ctx context.Context, req request_models.InitializePaymentRequest) (*response_models.InitializePaymentResponse, error)
	// VerifyPayment never returns an error; every outcome is a redirect back
	// to the contract page.
	VerifyPayment(ctx context.Context, query request_models.VerifyPaymentQuery) response_models.VerifyPaymentResult
}

type paymentService struct {
	repo     repositories.ContractRepository
	provider payment.Provider
	notifier Notifier
	cfg      *config.Config
	clock    utils.Clock
}

func NewPaymentService(
	repo repositories.ContractRepository,
	provider payment.Provider,
	notifier Notifier,
	cfg *config.Config,
	clock utils.Clock,
) PaymentService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &paymentService{
		repo:     repo,
		provider: provider,
		notifier: notifier,
		cfg:      cfg,
		clock:    clock,
	}
}

func (p *paymentService) InitializePayment(ctx context.Context, req request_models.InitializePaymentRequest) (*response_models.InitializePaymentResponse, error) {
	token := strings.TrimSpace(req.Token)
	email := strings.TrimSpace(req.Email)
	name := strings.TrimSpace(req.Name)

	if token == "" {
		return nil, utils.NewValidationError("token", "is required")
	}
	if !utils.ValidateEmail(email) {
		return nil, utils.NewValidationError("email", "is not a valid email address")
	}
	if name == "" {
		return nil, utils.NewValidationError("name", "is required")
	}

	contract, err := p.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.ErrContractNotFound
	}
	ctx = logger.WithContract(ctx, token)

	now := p.clock()
	if contract.IsPaid() {
		return nil, utils.ErrAlreadyPaid
	}
	if Expired(contract, now) {
		return nil, utils.ErrContractExpired
	}
	if contract.PackagePrice <= 0 {
		return nil, utils.NewValidationError("package", "free packages do not take card payments")
	}

	amount := DepositAmount(contract.PackagePrice)
	txRef := fmt.Sprintf("%s-%d", token, now.UnixNano())

	// The reference is on the record before the provider is called.
	applied, err := p.repo.UpdateFieldsUnlessStatus(ctx, token, db_models.StatusPaid, db_models.ContractPatch{
		TransactionRef:     &txRef,
		PaymentInitiatedAt: &now,
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.ErrAlreadyPaid
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.PaymentTimeout())
	defer cancel()

	session, err := p.provider.CreateSession(callCtx, payment.SessionRequest{
		TxRef:       txRef,
		Amount:      amount,
		Currency:    contract.Currency,
		RedirectURL: p.verifyURL(token),
		Customer: payment.Customer{
			Email: email,
			Name:  name,
			Phone: strings.TrimSpace(req.Phone),
		},
		Title:       p.cfg.Payment.CheckoutTitle,
		Description: fmt.Sprintf("50%% deposit for the %s package", contract.PackageName),
		Logo:        p.cfg.Payment.CheckoutLogo,
		Meta:        map[string]string{"token": token},
	})
	if err != nil {
		logger.Warn(ctx, "payment session creation failed", "tx_ref", txRef, "error", err)
		if errors.Is(err, utils.ErrPaymentInit) {
			return nil, err
		}
		return nil, utils.NewPaymentInitError(err.Error())
	}

	// The payment only becomes pending once the provider holds a session.
	applied, err = p.repo.UpdateFieldsUnlessStatus(ctx, token, db_models.StatusPaid, db_models.ContractPatch{
		PaymentMethod: db_models.Ptr(p.provider.Name()),
		PaymentStatus: db_models.Ptr(db_models.PaymentStatusPending),
		Status:        db_models.Ptr(db_models.StatusPaymentPending),
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.ErrAlreadyPaid
	}

	logger.Info(ctx, "payment session created", "tx_ref", txRef, "amount", amount)
	return &response_models.InitializePaymentResponse{
		RedirectURL:    session.CheckoutURL,
		TransactionRef: txRef,
		Amount:         amount,
		Currency:       contract.Currency,
	}, nil
}

func (p *paymentService) VerifyPayment(ctx context.Context, query request_models.VerifyPaymentQuery) response_models.VerifyPaymentResult {
	token := strings.TrimSpace(query.Token)
	if token == "" {
		token = tokenFromTxRef(query.TxRef)
	}
	if token == "" {
		logger.Warn(ctx, "payment redirect without token", "tx_ref", query.TxRef)
		return p.result(response_models.OutcomeError, "")
	}
	ctx = logger.WithContract(ctx, token)

	if strings.EqualFold(query.Status, "cancelled") {
		logger.Info(ctx, "payment cancelled by buyer", "tx_ref", query.TxRef)
		return p.result(response_models.OutcomeCancelled, token)
	}

	transactionID := strings.TrimSpace(query.TransactionID)
	if transactionID == "" {
		logger.Warn(ctx, "payment redirect without transaction id", "status", query.Status)
		return p.result(response_models.OutcomeFailed, token)
	}

	contract, err := p.repo.FindByToken(ctx, token)
	if err != nil {
		logger.Error(ctx, "failed to load contract for verification", "error", err)
		return p.result(response_models.OutcomeError, token)
	}
	if contract == nil {
		logger.Warn(ctx, "payment redirect for unknown contract")
		return p.result(response_models.OutcomeError, "")
	}

	if contract.IsPaid() && contract.TransactionID == transactionID {
		return p.result(response_models.OutcomeSuccess, token)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.cfg.PaymentTimeout())
	defer cancel()

	tx, err := p.provider.VerifyTransaction(callCtx, transactionID)
	if err != nil {
		logger.Warn(ctx, "transaction verification failed", "transaction_id", transactionID, "error", err)
		return p.result(response_models.OutcomeFailed, token)
	}

	if err := p.checkTransaction(contract, tx, transactionID, query.TxRef); err != nil {
		logger.Warn(ctx, "transaction rejected", "transaction_id", transactionID, "reason", err.Error())
		return p.result(response_models.OutcomeFailed, token)
	}

	if Expired(contract, p.clock()) {
		logger.Warn(ctx, "verified payment arrived after the link expired", "transaction_id", transactionID)
	}

	applied, err := p.confirm(ctx, contract, tx)
	if err != nil {
		logger.Error(ctx, "failed to record verified payment", "transaction_id", transactionID, "error", err)
		return p.result(response_models.OutcomeError, token)
	}
	if !applied {
		logger.Warn(ctx, "contract already paid, ignoring second verified transaction", "transaction_id", transactionID)
	}

	return p.result(response_models.OutcomeSuccess, token)
}

// checkTransaction fails closed: anything that cannot be tied to this
// contract's deposit is rejected.
func (p *paymentService) checkTransaction(c *db_models.Contract, tx *payment.Transaction, transactionID, redirectTxRef string) error {
	if tx == nil {
		return errors.New("empty transaction")
	}
	if tx.ID != transactionID {
		return fmt.Errorf("transaction id mismatch: %s", tx.ID)
	}
	if tx.Status != payment.StatusSuccessful {
		return fmt.Errorf("status %q", tx.Status)
	}
	if tx.Currency != p.cfg.Payment.Currency {
		return fmt.Errorf("currency %q", tx.Currency)
	}
	if !strings.HasPrefix(tx.TxRef, c.Token+"-") {
		return fmt.Errorf("tx_ref %q does not belong to contract", tx.TxRef)
	}
	if redirectTxRef != "" && redirectTxRef != tx.TxRef {
		return fmt.Errorf("tx_ref %q differs from redirect", tx.TxRef)
	}
	if metaToken, ok := tx.Meta["token"]; ok && metaToken != c.Token {
		return fmt.Errorf("metadata token %q", metaToken)
	}
	if deposit := DepositAmount(c.PackagePrice); tx.Amount < float64(deposit) {
		return fmt.Errorf("amount %.2f below deposit %d", tx.Amount, deposit)
	}
	return nil
}

func (p *paymentService) confirm(ctx context.Context, c *db_models.Contract, tx *payment.Transaction) (bool, error) {
	details, err := json.Marshal(map[string]any{
		"source":         p.provider.Name(),
		"transaction_id": tx.ID,
		"tx_ref":         tx.TxRef,
		"provider_ref":   tx.ProviderRef,
		"amount":         tx.Amount,
		"charged_amount": tx.ChargedAmount,
		"app_fee":        tx.AppFee,
		"currency":       tx.Currency,
		"payment_type":   tx.PaymentType,
		"customer_email": tx.CustomerEmail,
		"created_at":     tx.CreatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("encode payment details: %w", err)
	}

	now := p.clock()
	amountPaid := int64(math.Floor(tx.Amount))
	patch := db_models.ContractPatch{
		PaymentStatus:  db_models.Ptr(db_models.PaymentStatusConfirmed),
		Status:         db_models.Ptr(db_models.StatusPaid),
		PaymentMethod:  db_models.Ptr(p.provider.Name()),
		AmountPaid:     &amountPaid,
		PaidAt:         &now,
		TransactionID:  &tx.ID,
		TransactionRef: &tx.TxRef,
		PaymentDetails: details,
	}
	if c.SubmittedAt == nil {
		patch.SubmittedAt = &now
	}

	applied, err := p.repo.UpdateFieldsUnlessStatus(ctx, c.Token, db_models.StatusPaid, patch)
	if err != nil || !applied {
		return false, err
	}

	merged := c.Clone()
	patch.Apply(merged)
	logger.Info(ctx, "payment confirmed", "transaction_id", tx.ID, "amount", amountPaid)
	notify(ctx, p.notifier, merged)
	return true, nil
}

func (p *paymentService) verifyURL(token string) string {
	return strings.TrimRight(p.cfg.Server.BaseURL, "/") + "/payment/verify?token=" + url.QueryEscape(token)
}

func (p *paymentService) result(outcome, token string) response_models.VerifyPaymentResult {
	base := strings.TrimRight(p.cfg.Server.FrontendURL, "/") + "/contract"
	if token != "" {
		base += "/" + url.PathEscape(token)
	}
	return response_models.VerifyPaymentResult{
		Outcome:     outcome,
		RedirectURL: base + "?payment=" + outcome,
	}
}

// tokenFromTxRef recovers the token from a "<token>-<nanos>" reference.
func tokenFromTxRef(txRef string) string {
	i := strings.LastIndex(txRef, "-")
	if i <= 0 {
		return ""
	}
	return txRef[:i]
}
