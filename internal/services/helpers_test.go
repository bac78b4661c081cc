package services

import (
	"context"
	"io"
	"sync"
	"time"

	"contractflow/internal/config"
	"contractflow/internal/models/db_models"
	"contractflow/internal/payment"
	"contractflow/internal/repositories"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type countingNotifier struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (n *countingNotifier) NotifyPaymentConfirmed(_ context.Context, c *db_models.Contract) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tokens = append(n.tokens, c.Token)
	return n.err
}

func (n *countingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.tokens)
}

type fakeProvider struct {
	mu          sync.Mutex
	sessions    []payment.SessionRequest
	tx          *payment.Transaction
	createErr   error
	verifyErr   error
	verifyCalls int
}

func (p *fakeProvider) Name() string { return "flutterwave" }

func (p *fakeProvider) CreateSession(_ context.Context, req payment.SessionRequest) (*payment.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.sessions = append(p.sessions, req)
	return &payment.Session{CheckoutURL: "https://checkout.test/pay/" + req.TxRef}, nil
}

func (p *fakeProvider) VerifyTransaction(_ context.Context, id string) (*payment.Transaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.verifyCalls++
	if p.verifyErr != nil {
		return nil, p.verifyErr
	}
	if p.tx == nil {
		return nil, context.DeadlineExceeded
	}
	tx := *p.tx
	return &tx, nil
}

type fakeAssetStore struct {
	uploads []string
}

func (s *fakeAssetStore) Upload(_ context.Context, token, kind, filename, _ string, r io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	name := assetObjectName(token, kind, filename)
	s.uploads = append(s.uploads, name)
	return "https://assets.test/contracts/" + name, nil
}

// sequenceTokens replays fixed tokens, then falls back to random ones.
type sequenceTokens struct {
	tokens []string
	next   TokenGenerator
}

func (s *sequenceTokens) Generate() (string, error) {
	if len(s.tokens) > 0 {
		t := s.tokens[0]
		s.tokens = s.tokens[1:]
		return t, nil
	}
	return s.next.Generate()
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			BaseURL:     "https://api.test",
			FrontendURL: "https://site.test",
		},
		Contract: config.ContractConfig{
			DefaultExpiryDays:  7,
			MinExpiryDays:      1,
			MaxExpiryDays:      30,
			TokenLength:        16,
			BusinessName:       "Pixel Works",
			DocumentTimezone:   "UTC",
			DefaultCountryCode: "234",
		},
		Payment: config.PaymentConfig{
			Provider:       "flutterwave",
			Currency:       "NGN",
			TimeoutSeconds: 5,
		},
		Minio: config.MinioConfig{MaxUploadMB: 1},
	}
}

type fixture struct {
	cfg      *config.Config
	clock    *fakeClock
	repo     *repositories.MemoryContractRepository
	notifier *countingNotifier
	provider *fakeProvider
	assets   *fakeAssetStore
	tokens   *sequenceTokens
	contract ContractService
	payment  PaymentService
}

func newFixture() *fixture {
	cfg := testConfig()
	catalog, err := NewPackageCatalog(nil)
	if err != nil {
		panic(err)
	}
	gen, err := NewTokenGenerator(cfg.Contract.TokenLength)
	if err != nil {
		panic(err)
	}

	f := &fixture{
		cfg:      cfg,
		clock:    newFakeClock(),
		repo:     repositories.NewMemoryContractRepository(),
		notifier: &countingNotifier{},
		provider: &fakeProvider{},
		assets:   &fakeAssetStore{},
		tokens:   &sequenceTokens{next: gen},
	}
	f.contract = NewContractService(f.repo, catalog, f.tokens, f.notifier, f.assets, cfg, f.clock.Now)
	f.payment = NewPaymentService(f.repo, f.provider, f.notifier, cfg, f.clock.Now)
	return f
}

func (f *fixture) mustGet(token string) *db_models.Contract {
	c, err := f.repo.FindByToken(context.Background(), token)
	if err != nil || c == nil {
		panic("contract " + token + " missing")
	}
	return c
}

// interleavingRepo runs between once, right after the first FindByToken
// returns, to land a write between a handler's read and its own write.
type interleavingRepo struct {
	*repositories.MemoryContractRepository
	once    sync.Once
	between func()
}

func (r *interleavingRepo) FindByToken(ctx context.Context, token string) (*db_models.Contract, error) {
	c, err := r.MemoryContractRepository.FindByToken(ctx, token)
	if r.between != nil {
		r.once.Do(r.between)
	}
	return c, err
}
