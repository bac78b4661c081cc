package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"contractflow/internal/models/db_models"
	"contractflow/internal/models/request_models"
	"contractflow/pkg/utils"
)

func boolPtr(b bool) *bool { return &b }

func (f *fixture) create(t *testing.T, pkg string, days int) string {
	t.Helper()
	resp, err := f.contract.CreateContract(context.Background(), request_models.CreateContractRequest{
		ClientName: "Lagos lead #42",
		Package:    pkg,
		ExpiryDays: days,
	})
	if err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}
	return resp.Token
}

func (f *fixture) submit(t *testing.T, token string, req request_models.SubmitStepRequest) {
	t.Helper()
	if _, err := f.contract.SubmitStep(context.Background(), token, req); err != nil {
		t.Fatalf("SubmitStep %s failed: %v", req.Step, err)
	}
}

var clientInfo = request_models.SubmitStepRequest{
	Step:           StepClientInfo,
	BusinessName:   "Mama Put Kitchen",
	OwnerName:      "Ada Obi",
	WhatsappNumber: "0801 234 5678",
	Email:          "ada@example.com",
}

func TestCreateContract(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.contract.CreateContract(ctx, request_models.CreateContractRequest{ClientName: "Lead", Package: "growth"})
	if err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}
	if resp.Link != "https://site.test/contract/"+resp.Token {
		t.Errorf("Unexpected link %s", resp.Link)
	}

	c := f.mustGet(resp.Token)
	if c.Status != db_models.StatusPending || c.PackagePrice != 290000 || c.PackageName != "Growth" || c.Currency != "NGN" {
		t.Errorf("Unexpected stored contract %+v", c)
	}
	if !c.ExpiresAt.Equal(f.clock.Now().Add(7 * 24 * time.Hour)) {
		t.Errorf("Expected default 7 day expiry, got %s", c.ExpiresAt)
	}

	tests := []struct {
		name string
		req  request_models.CreateContractRequest
		want error
	}{
		{"unknown package", request_models.CreateContractRequest{ClientName: "x", Package: "gold"}, utils.ErrUnknownPackage},
		{"expiry too long", request_models.CreateContractRequest{ClientName: "x", Package: "growth", ExpiryDays: 31}, utils.ErrValidation},
		{"negative expiry", request_models.CreateContractRequest{ClientName: "x", Package: "growth", ExpiryDays: -1}, utils.ErrValidation},
		{"blank client", request_models.CreateContractRequest{ClientName: "  ", Package: "growth"}, utils.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.contract.CreateContract(ctx, tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateContractRetriesDuplicateToken(t *testing.T) {
	f := newFixture()
	f.tokens.tokens = []string{"aaaaaaaaaaaaaaaa", "aaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbb"}

	first := f.create(t, "starter", 0)
	second := f.create(t, "starter", 0)

	if first != "aaaaaaaaaaaaaaaa" || second != "bbbbbbbbbbbbbbbb" {
		t.Errorf("Expected retry onto a fresh token, got %s and %s", first, second)
	}
	if f.repo.Count() != 2 {
		t.Errorf("Expected 2 contracts, got %d", f.repo.Count())
	}
}

func TestSnapshotSurvivesCatalogChange(t *testing.T) {
	f := newFixture()
	token := f.create(t, "growth", 0)

	repriced, _ := NewPackageCatalog(map[string]int64{"growth": 500000})
	other := NewContractService(f.repo, repriced, f.tokens, f.notifier, f.assets, f.cfg, f.clock.Now)

	view, err := other.GetContract(context.Background(), token)
	if err != nil {
		t.Fatalf("GetContract failed: %v", err)
	}
	if view.PackagePrice != 290000 || view.DepositAmount != 145000 {
		t.Errorf("Expected snapshot price 290000/145000, got %d/%d", view.PackagePrice, view.DepositAmount)
	}
}

// Free package walked through every step with the testing method.
func TestScenarioFreePackage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "testing", 7)

	f.submit(t, token, request_models.SubmitStepRequest{Step: StepAgreement, AgreedToTerms: boolPtr(true)})
	f.submit(t, token, clientInfo)
	f.submit(t, token, request_models.SubmitStepRequest{Step: StepBusinessSetup, ProvideLater: boolPtr(true)})

	res, err := f.contract.SubmitStep(ctx, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})
	if err != nil {
		t.Fatalf("payment step failed: %v", err)
	}
	if res.Status != string(db_models.StatusPaid) || res.CurrentStep != StepComplete {
		t.Errorf("Expected paid/complete, got %+v", res)
	}

	c := f.mustGet(token)
	if c.Status != db_models.StatusPaid || c.PaymentMethod != db_models.PaymentMethodTesting || c.PaymentStatus != db_models.PaymentStatusConfirmed {
		t.Errorf("Unexpected final contract %+v", c)
	}
	if c.AmountPaid == nil || *c.AmountPaid != 0 {
		t.Errorf("Expected amountPaid 0, got %v", c.AmountPaid)
	}
	if c.WhatsappNumber != "2348012345678" {
		t.Errorf("Expected normalized whatsapp number, got %s", c.WhatsappNumber)
	}
	if f.notifier.Count() != 1 {
		t.Errorf("Expected one notification, got %d", f.notifier.Count())
	}
	if f.provider.verifyCalls != 0 || len(f.provider.sessions) != 0 {
		t.Error("Expected no provider round trip for the testing method")
	}

	// Double click on the final step.
	res, err = f.contract.SubmitStep(ctx, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})
	if err != nil || res.Status != string(db_models.StatusPaid) {
		t.Errorf("Expected idempotent resubmission, got %+v, %v", res, err)
	}
	if f.notifier.Count() != 1 {
		t.Errorf("Expected notification count to stay 1, got %d", f.notifier.Count())
	}
}

func TestConcurrentTestingPaymentNotifiesOnce(t *testing.T) {
	f := newFixture()
	token := f.create(t, "testing", 0)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.contract.SubmitStep(context.Background(), token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})
		}()
	}
	wg.Wait()

	if f.notifier.Count() != 1 {
		t.Errorf("Expected exactly one notification, got %d", f.notifier.Count())
	}
}

// One-day link, clock moved past the deadline, client-info rejected.
func TestScenarioExpiredContract(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 1)
	before := f.mustGet(token)

	f.clock.Advance(25 * time.Hour)

	steps := []request_models.SubmitStepRequest{
		clientInfo,
		{Step: StepAgreement, AgreedToTerms: boolPtr(true)},
		{Step: StepBusinessSetup, ProvideLater: boolPtr(true)},
		{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual},
	}
	for _, step := range steps {
		if _, err := f.contract.SubmitStep(ctx, token, step); !errors.Is(err, utils.ErrContractExpired) {
			t.Errorf("Step %s: expected ErrContractExpired, got %v", step.Step, err)
		}
	}

	if after := f.mustGet(token); !reflect.DeepEqual(before, after) {
		t.Errorf("Expected no mutation on expired contract\nbefore %+v\nafter  %+v", before, after)
	}

	view, err := f.contract.GetContract(ctx, token)
	if !errors.Is(err, utils.ErrContractExpired) {
		t.Fatalf("Expected ErrContractExpired on read, got %v", err)
	}
	if view == nil || !view.Expired || view.Status != string(db_models.StatusExpired) || view.BusinessName != "" {
		t.Errorf("Expected expired view with original fields, got %+v", view)
	}
	if view.CurrentStep != StepExpired {
		t.Errorf("Expected currentStep expired, got %s", view.CurrentStep)
	}
}

func TestStepOrderIndependence(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 0)

	res, err := f.contract.SubmitStep(ctx, token, clientInfo)
	if err != nil {
		t.Fatalf("client-info before agreement failed: %v", err)
	}
	if res.Status != string(db_models.StatusInfoSubmitted) || res.CurrentStep != StepAgreement {
		t.Errorf("Expected info_submitted at agreement, got %+v", res)
	}

	f.submit(t, token, request_models.SubmitStepRequest{Step: StepAgreement, AgreedToTerms: boolPtr(true)})

	c := f.mustGet(token)
	if c.Status != StoredStatus(c) {
		t.Errorf("Stored status %s drifted from fields (%s)", c.Status, StoredStatus(c))
	}
	if c.Status != db_models.StatusInfoSubmitted {
		t.Errorf("Expected agreement to leave status at info_submitted, got %s", c.Status)
	}
}

func TestAgreedAtSetOnce(t *testing.T) {
	f := newFixture()
	token := f.create(t, "growth", 0)

	f.submit(t, token, request_models.SubmitStepRequest{Step: StepAgreement, AgreedToTerms: boolPtr(true)})
	first := *f.mustGet(token).AgreedAt

	f.clock.Advance(time.Hour)
	f.submit(t, token, request_models.SubmitStepRequest{Step: StepAgreement, AgreedToTerms: boolPtr(true)})

	if got := *f.mustGet(token).AgreedAt; !got.Equal(first) {
		t.Errorf("Expected agreedAt to stay %s, got %s", first, got)
	}
}

func TestSubmitStepValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 0)

	tests := []struct {
		name  string
		req   request_models.SubmitStepRequest
		field string
	}{
		{"agreement false", request_models.SubmitStepRequest{Step: StepAgreement, AgreedToTerms: boolPtr(false)}, "agreedToTerms"},
		{"agreement missing", request_models.SubmitStepRequest{Step: StepAgreement}, "agreedToTerms"},
		{"missing business", request_models.SubmitStepRequest{Step: StepClientInfo, OwnerName: "a", WhatsappNumber: "08012345678"}, "businessName"},
		{"missing owner", request_models.SubmitStepRequest{Step: StepClientInfo, BusinessName: "b", WhatsappNumber: "08012345678"}, "ownerName"},
		{"missing whatsapp", request_models.SubmitStepRequest{Step: StepClientInfo, BusinessName: "b", OwnerName: "a"}, "whatsappNumber"},
		{"bad whatsapp", request_models.SubmitStepRequest{Step: StepClientInfo, BusinessName: "b", OwnerName: "a", WhatsappNumber: "123"}, "whatsappNumber"},
		{"bad email", request_models.SubmitStepRequest{Step: StepClientInfo, BusinessName: "b", OwnerName: "a", WhatsappNumber: "08012345678", Email: "nope"}, "email"},
		{"bad color", request_models.SubmitStepRequest{Step: StepBusinessSetup, BrandColor: "green"}, "brandColor"},
		{"bad logo url", request_models.SubmitStepRequest{Step: StepBusinessSetup, LogoURL: "javascript:alert(1)"}, "logoUrl"},
		{"missing method", request_models.SubmitStepRequest{Step: StepPayment}, "paymentMethod"},
		{"testing on paid package", request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: "testing"}, "paymentMethod"},
		{"unknown method", request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: "crypto"}, "paymentMethod"},
		{"unknown step", request_models.SubmitStepRequest{Step: "review"}, "step"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.contract.SubmitStep(ctx, token, tt.req)
			var ve *utils.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field %s, got %s", tt.field, ve.Field)
			}
		})
	}

	if _, err := f.contract.SubmitStep(ctx, "doesnotexist0000", clientInfo); !errors.Is(err, utils.ErrContractNotFound) {
		t.Errorf("Expected ErrContractNotFound, got %v", err)
	}
}

func TestManualAndGatewayPaymentStayPending(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for _, method := range []string{db_models.PaymentMethodManual, "flutterwave"} {
		t.Run(method, func(t *testing.T) {
			token := f.create(t, "growth", 0)
			res, err := f.contract.SubmitStep(ctx, token, request_models.SubmitStepRequest{
				Step:          StepPayment,
				PaymentMethod: method,
				ReceiptURL:    "https://assets.test/receipt.jpg",
			})
			if err != nil {
				t.Fatalf("SubmitStep failed: %v", err)
			}
			if res.Status != string(db_models.StatusPaymentPending) {
				t.Errorf("Expected payment_pending, got %s", res.Status)
			}

			c := f.mustGet(token)
			if c.PaymentStatus != db_models.PaymentStatusPending || c.AmountPaid != nil || c.PaidAt != nil {
				t.Errorf("Expected unconfirmed pending payment, got %+v", c)
			}
			if c.SubmittedAt == nil {
				t.Error("Expected submittedAt to be recorded")
			}
		})
	}

	if f.notifier.Count() != 0 {
		t.Errorf("Expected no notifications, got %d", f.notifier.Count())
	}
}

func TestSubmittedAtKeepsFirstSubmission(t *testing.T) {
	f := newFixture()
	token := f.create(t, "growth", 0)

	f.submit(t, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual})
	first := *f.mustGet(token).SubmittedAt

	f.clock.Advance(time.Minute)
	f.submit(t, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual, ReceiptURL: "https://assets.test/r.png"})

	c := f.mustGet(token)
	if !c.SubmittedAt.Equal(first) {
		t.Errorf("Expected submittedAt %s, got %s", first, c.SubmittedAt)
	}
	if c.ReceiptURL != "https://assets.test/r.png" {
		t.Errorf("Expected receipt url to be stored, got %q", c.ReceiptURL)
	}
}

func TestClientInfoCorrectionAfterPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "testing", 0)
	f.submit(t, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})

	corrected := clientInfo
	corrected.BusinessName = "Mama Put Kitchen Ltd"
	f.submit(t, token, corrected)

	c := f.mustGet(token)
	if c.Status != db_models.StatusPaid || c.BusinessName != "Mama Put Kitchen Ltd" {
		t.Errorf("Expected correction on a paid contract to keep paid status, got %+v", c)
	}

	_, err := f.contract.SubmitStep(ctx, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual})
	if !errors.Is(err, utils.ErrAlreadyPaid) {
		t.Errorf("Expected ErrAlreadyPaid when switching method after payment, got %v", err)
	}
}

func TestGetContractRedactsInternalFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 0)
	f.submit(t, token, request_models.SubmitStepRequest{Step: StepBusinessSetup, LogoURL: "https://assets.test/logo.png"})

	view, err := f.contract.GetContract(ctx, token)
	if err != nil {
		t.Fatalf("GetContract failed: %v", err)
	}
	if !view.HasLogo {
		t.Error("Expected hasLogo to be true")
	}
	if view.CurrentStep != StepAgreement {
		t.Errorf("Expected agreement as current step, got %s", view.CurrentStep)
	}

	if _, err := f.contract.GetContract(ctx, "unknowntoken0000"); !errors.Is(err, utils.ErrContractNotFound) {
		t.Errorf("Expected ErrContractNotFound, got %v", err)
	}
}

func TestConfirmManualPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 0)

	if _, err := f.contract.ConfirmManualPayment(ctx, token, "owner", request_models.ConfirmManualPaymentRequest{}); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("Expected validation error before a manual submission, got %v", err)
	}

	f.submit(t, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual})

	view, err := f.contract.ConfirmManualPayment(ctx, token, "owner", request_models.ConfirmManualPaymentRequest{Reference: "GTB-7781"})
	if err != nil {
		t.Fatalf("ConfirmManualPayment failed: %v", err)
	}
	if view.Status != string(db_models.StatusPaid) || view.AmountPaid == nil || *view.AmountPaid != 145000 {
		t.Errorf("Expected paid with deposit amount, got %+v", view)
	}
	if view.TransactionID != "GTB-7781" || !strings.Contains(string(view.PaymentDetails), `"confirmed_by":"owner"`) {
		t.Errorf("Expected reference and details recorded, got %+v", view)
	}
	if f.notifier.Count() != 1 {
		t.Errorf("Expected one notification, got %d", f.notifier.Count())
	}

	if _, err := f.contract.ConfirmManualPayment(ctx, token, "owner", request_models.ConfirmManualPaymentRequest{}); !errors.Is(err, utils.ErrAlreadyPaid) {
		t.Errorf("Expected ErrAlreadyPaid on second confirmation, got %v", err)
	}
	if f.notifier.Count() != 1 {
		t.Errorf("Expected notification count to stay 1, got %d", f.notifier.Count())
	}
}

func TestNotifierFailureDoesNotFailPayment(t *testing.T) {
	f := newFixture()
	f.notifier.err = errors.New("smtp down")
	token := f.create(t, "testing", 0)

	res, err := f.contract.SubmitStep(context.Background(), token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})
	if err != nil || res.Status != string(db_models.StatusPaid) {
		t.Errorf("Expected paid despite notifier failure, got %+v, %v", res, err)
	}
}

func TestListContracts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	paidToken := f.create(t, "testing", 0)
	f.submit(t, paidToken, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodTesting})
	infoToken := f.create(t, "growth", 0)
	f.submit(t, infoToken, clientInfo)
	shortToken := f.create(t, "growth", 1)
	f.submit(t, shortToken, clientInfo)

	f.clock.Advance(36 * time.Hour)

	all, err := f.contract.ListContracts(ctx, "")
	if err != nil || len(all) != 3 {
		t.Fatalf("Expected 3 contracts, got %d (%v)", len(all), err)
	}

	info, _ := f.contract.ListContracts(ctx, "info_submitted")
	if len(info) != 1 || info[0].Token != infoToken {
		t.Errorf("Expected only the unexpired info_submitted contract, got %+v", info)
	}

	expired, _ := f.contract.ListContracts(ctx, "expired")
	if len(expired) != 1 || expired[0].Token != shortToken || expired[0].Status != string(db_models.StatusExpired) {
		t.Errorf("Expected the short-lived contract as expired, got %+v", expired)
	}

	if _, err := f.contract.ListContracts(ctx, "archived"); !errors.Is(err, utils.ErrValidation) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}

func TestRenderDocument(t *testing.T) {
	f := newFixture()
	token := f.create(t, "growth", 0)
	f.submit(t, token, clientInfo)

	doc, name, err := f.contract.RenderDocument(context.Background(), token)
	if err != nil {
		t.Fatalf("RenderDocument failed: %v", err)
	}
	if name != "agreement-"+token+".html" {
		t.Errorf("Unexpected filename %s", name)
	}
	if !strings.Contains(string(doc), "Mama Put Kitchen") || !strings.Contains(string(doc), "Pixel Works") {
		t.Error("Expected document to reflect current record and provider name")
	}
}

func TestUploadAsset(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	token := f.create(t, "growth", 0)
	body := strings.Repeat("x", 128)

	resp, err := f.contract.UploadAsset(ctx, token, AssetKindLogo, "Logo.PNG", "image/png", strings.NewReader(body), int64(len(body)))
	if err != nil {
		t.Fatalf("UploadAsset failed: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://assets.test/contracts/"+token+"/logo/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Errorf("Unexpected asset url %s", resp.URL)
	}

	tests := []struct {
		name, kind, contentType string
		size                    int64
	}{
		{"unknown kind", "avatar", "image/png", 10},
		{"pdf logo", AssetKindLogo, "application/pdf", 10},
		{"too large", AssetKindReceipt, "application/pdf", 2 << 20},
		{"empty", AssetKindReceipt, "image/jpeg", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.contract.UploadAsset(ctx, token, tt.kind, "f", tt.contentType, strings.NewReader("x"), tt.size)
			if !errors.Is(err, utils.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}

	disabled := NewContractService(f.repo, mustCatalog(), f.tokens, f.notifier, NewDisabledAssetStore(), f.cfg, f.clock.Now)
	if _, err := disabled.UploadAsset(ctx, token, AssetKindLogo, "l.png", "image/png", strings.NewReader("x"), 1); !errors.Is(err, utils.ErrAssetUnavailable) {
		t.Errorf("Expected ErrAssetUnavailable, got %v", err)
	}
}

func mustCatalog() *PackageCatalog {
	c, err := NewPackageCatalog(nil)
	if err != nil {
		panic(err)
	}
	return c
}

func TestInfoStepKeepsConcurrentManualPayment(t *testing.T) {
	steps := []request_models.SubmitStepRequest{
		clientInfo,
		{Step: StepAgreement, AgreedToTerms: boolPtr(true)},
		{Step: StepBusinessSetup, ProvideLater: boolPtr(true)},
	}

	for _, step := range steps {
		t.Run(step.Step, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			token := f.create(t, "growth", 0)
			f.submit(t, token, clientInfo)

			repo := &interleavingRepo{MemoryContractRepository: f.repo}
			repo.between = func() {
				f.submit(t, token, request_models.SubmitStepRequest{Step: StepPayment, PaymentMethod: db_models.PaymentMethodManual})
			}
			svc := NewContractService(repo, mustCatalog(), f.tokens, f.notifier, f.assets, f.cfg, f.clock.Now)

			res, err := svc.SubmitStep(ctx, token, step)
			if err != nil {
				t.Fatalf("SubmitStep failed: %v", err)
			}
			if res.Status != string(db_models.StatusPaymentPending) {
				t.Errorf("Expected response status payment_pending, got %s", res.Status)
			}

			c := f.mustGet(token)
			if c.PaymentStatus != db_models.PaymentStatusPending || c.Status != db_models.StatusPaymentPending {
				t.Errorf("Expected payment_pending/pending, got %s/%s", c.Status, c.PaymentStatus)
			}
			if c.Status != StoredStatus(c) {
				t.Errorf("Stored status %s drifted from fields (%s)", c.Status, StoredStatus(c))
			}

			listed, err := f.contract.ListContracts(ctx, string(db_models.StatusPaymentPending))
			if err != nil || len(listed) != 1 || listed[0].Token != token {
				t.Errorf("Expected contract listed as payment_pending, got %+v, %v", listed, err)
			}
		})
	}
}
