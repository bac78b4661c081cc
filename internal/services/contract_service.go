package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"time"

	"contractflow/internal/config"
	"contractflow/internal/document"
	"contractflow/internal/models/db_models"
	"contractflow/internal/models/request_models"
	"contractflow/internal/models/response_models"
	"contractflow/internal/repositories"
	"contractflow/pkg/logger"
	"contractflow/pkg/utils"
)

const (
	adminListLimit       = 200
	maxDescriptionLength = 2000
)

var brandColorRE = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

var allowedAssetTypes = map[string]map[string]bool{
	AssetKindLogo: {
		"image/png":     true,
		"image/jpeg":    true,
		"image/webp":    true,
		"image/svg+xml": true,
	},
	AssetKindReceipt: {
		"image/png":       true,
		"image/jpeg":      true,
		"image/webp":      true,
		"application/pdf": true,
	},
}

type ContractService interface {
	CreateContract(ctx context.Context, req request_models.CreateContractRequest) (*response_models.CreateContractResponse, error)
	// GetContract returns the view together with ErrContractExpired when the
	// link has lapsed, so callers can still show what was agreed.
	GetContract(ctx context.Context, token string) (*response_models.ContractView, error)
	SubmitStep(ctx context.Context, token string, req request_models.SubmitStepRequest) (*response_models.StepResult, error)
	RenderDocument(ctx context.Context, token string) ([]byte, string, error)
	UploadAsset(ctx context.Context, token, kind, filename, contentType string, reader io.Reader, size int64) (*response_models.UploadAssetResponse, error)

	ListContracts(ctx context.Context, status string) ([]response_models.AdminContract, error)
	GetFullContract(ctx context.Context, token string) (*response_models.AdminContract, error)
	ConfirmManualPayment(ctx context.Context, token, confirmedBy string, req request_models.ConfirmManualPaymentRequest) (*response_models.AdminContract, error)
}

type contractService struct {
	repo     repositories.ContractRepository
	catalog  *PackageCatalog
	tokens   TokenGenerator
	notifier Notifier
	assets   AssetStore
	cfg      *config.Config
	clock    utils.Clock
	location *time.Location
}

func NewContractService(
	repo repositories.ContractRepository,
	catalog *PackageCatalog,
	tokens TokenGenerator,
	notifier Notifier,
	assets AssetStore,
	cfg *config.Config,
	clock utils.Clock,
) ContractService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &contractService{
		repo:     repo,
		catalog:  catalog,
		tokens:   tokens,
		notifier: notifier,
		assets:   assets,
		cfg:      cfg,
		clock:    clock,
		location: utils.LoadLocation(cfg.Contract.DocumentTimezone, 0),
	}
}

func (s *contractService) CreateContract(ctx context.Context, req request_models.CreateContractRequest) (*response_models.CreateContractResponse, error) {
	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return nil, utils.NewValidationError("clientName", "is required")
	}

	pkg, ok := s.catalog.Lookup(strings.TrimSpace(req.Package))
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrUnknownPackage, req.Package)
	}

	days := req.ExpiryDays
	if days == 0 {
		days = s.cfg.Contract.DefaultExpiryDays
	}
	if days < s.cfg.Contract.MinExpiryDays || days > s.cfg.Contract.MaxExpiryDays {
		return nil, utils.NewValidationError("expiryDays",
			fmt.Sprintf("must be between %d and %d", s.cfg.Contract.MinExpiryDays, s.cfg.Contract.MaxExpiryDays))
	}

	now := s.clock()
	for attempt := 1; attempt <= tokenMaxRetries; attempt++ {
		token, err := s.tokens.Generate()
		if err != nil {
			return nil, err
		}

		contract := &db_models.Contract{
			Token:        token,
			Status:       db_models.StatusPending,
			Package:      pkg.Code,
			PackageName:  pkg.Name,
			PackagePrice: pkg.Price,
			Currency:     s.cfg.Payment.Currency,
			ClientName:   clientName,
			CreatedAt:    now,
			ExpiresAt:    now.Add(time.Duration(days) * 24 * time.Hour),
		}

		err = s.repo.Create(ctx, contract)
		if errors.Is(err, utils.ErrDuplicateToken) {
			logger.Warn(ctx, "contract token collision, retrying", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Info(logger.WithContract(ctx, token), "contract created", "package", pkg.Code, "expiry_days", days)
		return &response_models.CreateContractResponse{
			Token:     token,
			ExpiresAt: contract.ExpiresAt,
			Link:      s.contractLink(token),
		}, nil
	}

	return nil, fmt.Errorf("could not allocate a unique token after %d attempts: %w", tokenMaxRetries, utils.ErrDuplicateToken)
}

func (s *contractService) GetContract(ctx context.Context, token string) (*response_models.ContractView, error) {
	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	view := toContractView(contract, now)
	if Expired(contract, now) {
		return view, utils.ErrContractExpired
	}
	return view, nil
}

func (s *contractService) SubmitStep(ctx context.Context, token string, req request_models.SubmitStepRequest) (*response_models.StepResult, error) {
	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContract(ctx, contract.Token)

	now := s.clock()
	if Expired(contract, now) {
		return nil, utils.ErrContractExpired
	}

	var merged *db_models.Contract
	switch strings.TrimSpace(req.Step) {
	case StepAgreement:
		merged, err = s.submitAgreement(ctx, contract, req, now)
	case StepClientInfo:
		merged, err = s.submitClientInfo(ctx, contract, req)
	case StepBusinessSetup:
		merged, err = s.submitBusinessSetup(ctx, contract, req)
	case StepPayment:
		merged, err = s.submitPayment(ctx, contract, req, now)
	default:
		return nil, utils.NewValidationError("step", fmt.Sprintf("unknown step %q", req.Step))
	}
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "contract step submitted", "step", req.Step, "status", merged.Status)
	return &response_models.StepResult{
		Status:      string(merged.Status),
		CurrentStep: CurrentStep(merged, now),
	}, nil
}

func (s *contractService) submitAgreement(ctx context.Context, c *db_models.Contract, req request_models.SubmitStepRequest, now time.Time) (*db_models.Contract, error) {
	if req.AgreedToTerms == nil || !*req.AgreedToTerms {
		return nil, utils.NewValidationError("agreedToTerms", "must be true")
	}

	patch := db_models.ContractPatch{AgreedToTerms: db_models.Ptr(true)}
	if c.AgreedAt == nil {
		patch.AgreedAt = &now
	}
	return s.writeInfoStep(ctx, c, patch)
}

func (s *contractService) submitClientInfo(ctx context.Context, c *db_models.Contract, req request_models.SubmitStepRequest) (*db_models.Contract, error) {
	businessName := strings.TrimSpace(req.BusinessName)
	ownerName := strings.TrimSpace(req.OwnerName)
	email := strings.TrimSpace(req.Email)

	if businessName == "" {
		return nil, utils.NewValidationError("businessName", "is required")
	}
	if ownerName == "" {
		return nil, utils.NewValidationError("ownerName", "is required")
	}
	if strings.TrimSpace(req.WhatsappNumber) == "" {
		return nil, utils.NewValidationError("whatsappNumber", "is required")
	}
	phone, err := utils.NormalizeWhatsAppNumber(req.WhatsappNumber, s.cfg.Contract.DefaultCountryCode)
	if err != nil {
		return nil, utils.NewValidationError("whatsappNumber", "is not a valid phone number")
	}
	if email != "" && !utils.ValidateEmail(email) {
		return nil, utils.NewValidationError("email", "is not a valid email address")
	}

	return s.writeInfoStep(ctx, c, db_models.ContractPatch{
		BusinessName:   &businessName,
		OwnerName:      &ownerName,
		WhatsappNumber: &phone,
		Email:          &email,
	})
}

func (s *contractService) submitBusinessSetup(ctx context.Context, c *db_models.Contract, req request_models.SubmitStepRequest) (*db_models.Contract, error) {
	logoURL := strings.TrimSpace(req.LogoURL)
	brandColor := strings.TrimSpace(req.BrandColor)
	description := strings.TrimSpace(req.Description)
	provideLater := req.ProvideLater != nil && *req.ProvideLater

	if logoURL != "" && !isHTTPURL(logoURL) {
		return nil, utils.NewValidationError("logoUrl", "must be an http(s) URL")
	}
	if brandColor != "" && !brandColorRE.MatchString(brandColor) {
		return nil, utils.NewValidationError("brandColor", "must be a hex color such as #1a7f37")
	}
	if len(description) > maxDescriptionLength {
		return nil, utils.NewValidationError("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}

	return s.writeInfoStep(ctx, c, db_models.ContractPatch{
		LogoURL:      &logoURL,
		BrandColor:   &brandColor,
		Description:  &description,
		ProvideLater: &provideLater,
	})
}

func (s *contractService) submitPayment(ctx context.Context, c *db_models.Contract, req request_models.SubmitStepRequest, now time.Time) (*db_models.Contract, error) {
	method := strings.TrimSpace(req.PaymentMethod)
	if method == "" {
		return nil, utils.NewValidationError("paymentMethod", "is required")
	}

	if c.IsPaid() {
		// A repeated submission of the method that settled the contract is
		// answered with the current state.
		if method == c.PaymentMethod {
			return c, nil
		}
		return nil, utils.ErrAlreadyPaid
	}

	patch := db_models.ContractPatch{PaymentMethod: &method}
	if c.SubmittedAt == nil {
		patch.SubmittedAt = &now
	}

	switch method {
	case db_models.PaymentMethodTesting:
		if c.PackagePrice != 0 {
			return nil, utils.NewValidationError("paymentMethod", "testing is only available for free packages")
		}
		patch.PaymentStatus = db_models.Ptr(db_models.PaymentStatusConfirmed)
		patch.Status = db_models.Ptr(db_models.StatusPaid)
		patch.AmountPaid = db_models.Ptr(int64(0))
		patch.PaidAt = &now
		return s.confirmPaid(ctx, c, patch)

	case db_models.PaymentMethodManual:
		receiptURL := strings.TrimSpace(req.ReceiptURL)
		if receiptURL != "" && !isHTTPURL(receiptURL) {
			return nil, utils.NewValidationError("receiptUrl", "must be an http(s) URL")
		}
		if receiptURL != "" || c.ReceiptURL == "" {
			patch.ReceiptURL = &receiptURL
		}

	case s.cfg.Payment.Provider:
		if c.PackagePrice == 0 {
			return nil, utils.NewValidationError("paymentMethod", "free packages use the testing method")
		}

	default:
		return nil, utils.NewValidationError("paymentMethod", fmt.Sprintf("unsupported payment method %q", method))
	}

	// Manual and gateway submissions only mark the payment as pending. A
	// confirmed state requires an admin or a verified transaction.
	patch.PaymentStatus = db_models.Ptr(db_models.PaymentStatusPending)
	patch.Status = db_models.Ptr(db_models.StatusPaymentPending)

	applied, err := s.repo.UpdateFieldsUnlessStatus(ctx, c.Token, db_models.StatusPaid, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.ErrAlreadyPaid
	}

	merged := c.Clone()
	patch.Apply(merged)
	return merged, nil
}

// writeInfoStep persists a non-payment step. Status comes from the stored row
// after the merge, never from c.
func (s *contractService) writeInfoStep(ctx context.Context, c *db_models.Contract, patch db_models.ContractPatch) (*db_models.Contract, error) {
	return s.repo.UpdateStepFields(ctx, c.Token, patch)
}

// confirmPaid moves an unpaid contract to paid and notifies once. Losing the
// race to another confirmation is not an error.
func (s *contractService) confirmPaid(ctx context.Context, c *db_models.Contract, patch db_models.ContractPatch) (*db_models.Contract, error) {
	applied, err := s.repo.UpdateFieldsUnlessStatus(ctx, c.Token, db_models.StatusPaid, patch)
	if err != nil {
		return nil, err
	}

	if !applied {
		current, err := s.load(ctx, c.Token)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "contract already confirmed by a concurrent request")
		return current, nil
	}

	merged := c.Clone()
	patch.Apply(merged)
	notify(ctx, s.notifier, merged)
	return merged, nil
}

func (s *contractService) RenderDocument(ctx context.Context, token string) ([]byte, string, error) {
	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, "", err
	}

	doc, err := document.Render(contract, document.Options{
		BusinessName: s.cfg.Contract.BusinessName,
		Location:     s.location,
		GeneratedAt:  s.clock(),
		Status:       string(DeriveStatus(contract, s.clock())),
	})
	if err != nil {
		return nil, "", fmt.Errorf("render agreement: %w", err)
	}

	return doc, fmt.Sprintf("agreement-%s.html", contract.Token), nil
}

func (s *contractService) UploadAsset(ctx context.Context, token, kind, filename, contentType string, reader io.Reader, size int64) (*response_models.UploadAssetResponse, error) {
	allowed, ok := allowedAssetTypes[kind]
	if !ok {
		return nil, utils.NewValidationError("kind", "must be logo or receipt")
	}

	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if Expired(contract, s.clock()) {
		return nil, utils.ErrContractExpired
	}

	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !allowed[mediaType] {
		return nil, utils.NewValidationError("file", fmt.Sprintf("content type %q is not accepted for %s", contentType, kind))
	}
	maxBytes := s.cfg.Minio.MaxUploadMB << 20
	if size <= 0 || size > maxBytes {
		return nil, utils.NewValidationError("file", fmt.Sprintf("must be between 1 byte and %d MB", s.cfg.Minio.MaxUploadMB))
	}

	link, err := s.assets.Upload(ctx, contract.Token, kind, filename, mediaType, reader, size)
	if err != nil {
		return nil, err
	}

	logger.Info(logger.WithContract(ctx, contract.Token), "asset uploaded", "kind", kind, "size", size)
	return &response_models.UploadAssetResponse{URL: link}, nil
}

func (s *contractService) ListContracts(ctx context.Context, status string) ([]response_models.AdminContract, error) {
	now := s.clock()

	var (
		contracts []db_models.Contract
		err       error
	)
	switch st := db_models.ContractStatus(strings.TrimSpace(status)); {
	case st == "":
		contracts, err = s.repo.ListByStatus(ctx, "", adminListLimit)
	case st == db_models.StatusExpired:
		contracts, err = s.repo.ListExpired(ctx, now, adminListLimit)
	case st.Valid():
		contracts, err = s.repo.ListByStatus(ctx, st, adminListLimit)
	default:
		return nil, utils.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
	}
	if err != nil {
		return nil, err
	}

	out := make([]response_models.AdminContract, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		// Stored status lags expiry; skip rows that lapsed since the write.
		if st := db_models.ContractStatus(status); st != "" && st != db_models.StatusExpired && Expired(c, now) {
			continue
		}
		out = append(out, toAdminContract(c, now))
	}
	return out, nil
}

func (s *contractService) GetFullContract(ctx context.Context, token string) (*response_models.AdminContract, error) {
	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	view := toAdminContract(contract, s.clock())
	return &view, nil
}

func (s *contractService) ConfirmManualPayment(ctx context.Context, token, confirmedBy string, req request_models.ConfirmManualPaymentRequest) (*response_models.AdminContract, error) {
	contract, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithContract(ctx, contract.Token)

	if contract.IsPaid() {
		return nil, utils.ErrAlreadyPaid
	}
	if contract.PaymentMethod != db_models.PaymentMethodManual || contract.PaymentStatus != db_models.PaymentStatusPending {
		return nil, utils.NewValidationError("paymentMethod", "no manual payment is awaiting confirmation")
	}

	amount := DepositAmount(contract.PackagePrice)
	if req.AmountPaid != nil {
		amount = *req.AmountPaid
	}

	now := s.clock()
	details, err := json.Marshal(map[string]any{
		"source":       "manual",
		"confirmed_by": confirmedBy,
		"confirmed_at": now,
		"reference":    req.Reference,
		"receipt_url":  contract.ReceiptURL,
	})
	if err != nil {
		return nil, fmt.Errorf("encode payment details: %w", err)
	}

	patch := db_models.ContractPatch{
		PaymentStatus:  db_models.Ptr(db_models.PaymentStatusConfirmed),
		Status:         db_models.Ptr(db_models.StatusPaid),
		AmountPaid:     &amount,
		PaidAt:         &now,
		PaymentDetails: details,
	}
	if ref := strings.TrimSpace(req.Reference); ref != "" {
		patch.TransactionID = &ref
	}

	applied, err := s.repo.UpdateFieldsUnlessStatus(ctx, contract.Token, db_models.StatusPaid, patch)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, utils.ErrAlreadyPaid
	}

	merged := contract.Clone()
	patch.Apply(merged)
	logger.Info(ctx, "manual payment confirmed", "by", confirmedBy, "amount", amount)
	notify(ctx, s.notifier, merged)

	view := toAdminContract(merged, now)
	return &view, nil
}

func (s *contractService) load(ctx context.Context, token string) (*db_models.Contract, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, utils.ErrContractNotFound
	}
	contract, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, utils.ErrContractNotFound
	}
	return contract, nil
}

func (s *contractService) contractLink(token string) string {
	return strings.TrimRight(s.cfg.Server.FrontendURL, "/") + "/contract/" + token
}

// notify never fails the caller; a lost email is logged.
func notify(ctx context.Context, n Notifier, c *db_models.Contract) {
	if n == nil {
		return
	}
	if err := n.NotifyPaymentConfirmed(ctx, c); err != nil {
		logger.Error(ctx, "payment notification failed", "error", err)
	}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func toContractView(c *db_models.Contract, now time.Time) *response_models.ContractView {
	return &response_models.ContractView{
		Token:          c.Token,
		Package:        c.Package,
		PackageName:    c.PackageName,
		PackagePrice:   c.PackagePrice,
		DepositAmount:  DepositAmount(c.PackagePrice),
		Currency:       c.Currency,
		Status:         string(DeriveStatus(c, now)),
		CurrentStep:    CurrentStep(c, now),
		ExpiresAt:      c.ExpiresAt,
		Expired:        Expired(c, now),
		AgreedToTerms:  c.AgreedToTerms,
		AgreedAt:       c.AgreedAt,
		BusinessName:   c.BusinessName,
		OwnerName:      c.OwnerName,
		WhatsappNumber: c.WhatsappNumber,
		Email:          c.Email,
		HasLogo:        c.LogoURL != "",
		BrandColor:     c.BrandColor,
		Description:    c.Description,
		ProvideLater:   c.ProvideLater,
		PaymentMethod:  c.PaymentMethod,
		PaymentStatus:  string(c.PaymentStatus),
	}
}

func toAdminContract(c *db_models.Contract, now time.Time) response_models.AdminContract {
	var details json.RawMessage
	if len(c.PaymentDetails) > 0 {
		details = json.RawMessage(c.PaymentDetails)
	}
	return response_models.AdminContract{
		Token:              c.Token,
		Status:             string(DeriveStatus(c, now)),
		Expired:            Expired(c, now),
		Package:            c.Package,
		PackageName:        c.PackageName,
		PackagePrice:       c.PackagePrice,
		Currency:           c.Currency,
		ClientName:         c.ClientName,
		CreatedAt:          c.CreatedAt,
		ExpiresAt:          c.ExpiresAt,
		AgreedToTerms:      c.AgreedToTerms,
		AgreedAt:           c.AgreedAt,
		BusinessName:       c.BusinessName,
		OwnerName:          c.OwnerName,
		WhatsappNumber:     c.WhatsappNumber,
		Email:              c.Email,
		LogoURL:            c.LogoURL,
		BrandColor:         c.BrandColor,
		Description:        c.Description,
		ProvideLater:       c.ProvideLater,
		PaymentMethod:      c.PaymentMethod,
		PaymentStatus:      string(c.PaymentStatus),
		ReceiptURL:         c.ReceiptURL,
		SubmittedAt:        c.SubmittedAt,
		PaymentInitiatedAt: c.PaymentInitiatedAt,
		TransactionRef:     c.TransactionRef,
		AmountPaid:         c.AmountPaid,
		PaidAt:             c.PaidAt,
		TransactionID:      c.TransactionID,
		PaymentDetails:     details,
	}
}
