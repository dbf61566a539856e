package billing

import (
	"context"
	"sync"
	"time"

	"github.com/marktline/billing-service/internal/config"
	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
)

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func testBillingConfig() *config.Billing {
	return &config.Billing{
		CommissionDueDays:    30,
		MinInvoiceAmount:     1000,
		InvoiceLookaheadDays: 7,
		MonthlyLateFeeRate:   0.015,
		MaxLateFeeRate:       0.10,
		MinPayoutAmount:      1000,
		CreditTopupFloor:     500,
		CreditTopupAmount:    2000,
		MaxMonthlyTopup:      10000,
		TaskWorkers:          4,
		GatewayRetryAttempts: 1,
	}
}

type fakeCommissionRepo struct {
	mu          sync.Mutex
	commissions map[string]*domain.Commission
	// sellers mirrors the ledger side of the late-fee transaction.
	sellers *fakeSellerRepo
}

func newFakeCommissionRepo(commissions ...*domain.Commission) *fakeCommissionRepo {
	r := &fakeCommissionRepo{commissions: make(map[string]*domain.Commission)}
	for _, c := range commissions {
		cp := *c
		r.commissions[c.ID] = &cp
	}
	return r
}

func (r *fakeCommissionRepo) get(id string) *domain.Commission {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.commissions[id]
	return &cp
}

func (r *fakeCommissionRepo) CreateForSale(context.Context, *domain.SaleConfirmation) error {
	return nil
}

func (r *fakeCommissionRepo) GetCommissionByID(_ context.Context, id string) (*domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commission, ok := r.commissions[id]
	if !ok {
		return nil, domain.NewNotFoundError("commission not found")
	}
	cp := *commission
	return &cp, nil
}

func (r *fakeCommissionRepo) GetCommissionsBySellerID(context.Context, string, []domain.CommissionStatus) ([]*domain.Commission, error) {
	return nil, nil
}

func (r *fakeCommissionRepo) FindInvoiceable(_ context.Context, minAmount int64, dueBefore time.Time) ([]*domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Commission
	for _, commission := range r.commissions {
		if commission.Status == domain.CommissionStatusPending &&
			commission.CommissionAmount >= minAmount &&
			commission.DueDate.Before(dueBefore) {
			cp := *commission
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCommissionRepo) FindOverdueInvoiced(_ context.Context, asOf time.Time) ([]*domain.Commission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Commission
	for _, commission := range r.commissions {
		if commission.Status == domain.CommissionStatusInvoiced && commission.DueDate.Before(asOf) {
			cp := *commission
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCommissionRepo) FindPayable(context.Context) ([]*domain.Commission, error) {
	return nil, nil
}

func (r *fakeCommissionRepo) ClaimInvoice(_ context.Context, id string, version int64, invoiceID, invoiceNumber string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commission, ok := r.commissions[id]
	if !ok || commission.Status != domain.CommissionStatusPending || commission.Version != version {
		return false, nil
	}
	commission.InvoiceID = invoiceID
	commission.InvoiceNumber = invoiceNumber
	commission.Version++
	return true, nil
}

func (r *fakeCommissionRepo) MarkInvoiced(_ context.Context, id string, version int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commission, ok := r.commissions[id]
	if !ok || commission.Status != domain.CommissionStatusPending || commission.Version != version {
		return false, nil
	}
	commission.Status = domain.CommissionStatusInvoiced
	commission.Version++
	return true, nil
}

func (r *fakeCommissionRepo) ApplyLateFee(_ context.Context, id string, version int64, fee domain.LateFee, newTotal int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commission, ok := r.commissions[id]
	if !ok || commission.Status != domain.CommissionStatusInvoiced || commission.Version != version {
		return false, nil
	}
	if r.sellers != nil {
		r.sellers.addOwed(commission.SellerID, newTotal-commission.CommissionAmount)
	}
	commission.LateFee = fee
	commission.CommissionAmount = newTotal
	commission.Version++
	return true, nil
}

func (r *fakeCommissionRepo) MarkStatusAdmin(context.Context, string, int64, domain.CommissionStatus) (bool, error) {
	return false, nil
}

func (r *fakeCommissionRepo) SettleBatch(context.Context, *domain.PayoutBatch, []*domain.Commission, time.Time) error {
	return nil
}

func (r *fakeCommissionRepo) PendingTotalBySeller(context.Context, string) (int64, int64, error) {
	return 0, 0, nil
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*domain.Subscription
}

func newFakeSubscriptionRepo(subs ...*domain.Subscription) *fakeSubscriptionRepo {
	r := &fakeSubscriptionRepo{subs: make(map[string]*domain.Subscription)}
	for _, s := range subs {
		cp := *s
		r.subs[s.ID] = &cp
	}
	return r
}

func (r *fakeSubscriptionRepo) GetSubscriptionBySellerID(_ context.Context, sellerID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.SellerID == sellerID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, domain.NewNotFoundError("subscription not found")
}

func (r *fakeSubscriptionRepo) FindSubscriptionsForRenewal(_ context.Context, dueBefore time.Time) ([]*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Subscription
	for _, sub := range r.subs {
		if sub.Status != domain.SubscriptionCanceled && sub.CurrentPeriodEnd.Before(dueBefore) {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) UpdateSubscription(_ context.Context, subID string, status domain.SubscriptionStatus, periodEnd time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[subID]
	if !ok {
		return domain.NewNotFoundError("subscription not found")
	}
	sub.Status = status
	sub.CurrentPeriodEnd = periodEnd
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payment
}

func newFakePaymentRepo(payments ...*domain.Payment) *fakePaymentRepo {
	r := &fakePaymentRepo{payments: make(map[string]*domain.Payment)}
	for _, p := range payments {
		cp := *p
		r.payments[p.ID] = &cp
	}
	return r
}

func (r *fakePaymentRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindFailedPayments(context.Context) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Payment
	for _, payment := range r.payments {
		if payment.Status == domain.PaymentFailed {
			cp := *payment
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) UpdatePaymentStatus(_ context.Context, paymentID string, status domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment, ok := r.payments[paymentID]; ok {
		payment.Status = status
	}
	return nil
}

func (r *fakePaymentRepo) MarkPaymentNotified(_ context.Context, paymentID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment, ok := r.payments[paymentID]; ok {
		payment.NotifiedAt = &at
	}
	return nil
}

type fakeSellerRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.SellerAccount
}

func newFakeSellerRepo(accounts ...*domain.SellerAccount) *fakeSellerRepo {
	r := &fakeSellerRepo{accounts: make(map[string]*domain.SellerAccount)}
	for _, a := range accounts {
		cp := *a
		r.accounts[a.SellerID] = &cp
	}
	return r
}

func (r *fakeSellerRepo) GetSellerAccount(_ context.Context, sellerID string) (*domain.SellerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[sellerID]
	if !ok {
		return nil, domain.NewNotFoundError("seller account not found")
	}
	cp := *account
	return &cp, nil
}

func (r *fakeSellerRepo) CreateSellerAccount(context.Context, *domain.SellerAccount) error {
	return nil
}

func (r *fakeSellerRepo) addOwed(sellerID string, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.accounts[sellerID]; ok {
		account.TotalCommissionOwed += delta
	}
}

func (r *fakeSellerRepo) DebitLeadCredits(context.Context, string, int64) (bool, error) {
	return false, nil
}

func (r *fakeSellerRepo) AddLeadCredits(_ context.Context, sellerID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.accounts[sellerID]; ok {
		account.LeadCredits += amount
	}
	return nil
}

func (r *fakeSellerRepo) AddMonthlyTopupSpent(_ context.Context, sellerID string, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.accounts[sellerID]; ok {
		account.MonthlyTopupSpent += amount
	}
	return nil
}

func (r *fakeSellerRepo) UpdatePlanTier(_ context.Context, sellerID string, tier domain.PlanTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if account, ok := r.accounts[sellerID]; ok {
		account.PlanTier = tier
	}
	return nil
}

func (r *fakeSellerRepo) FindTopupCandidates(_ context.Context, creditFloor int64) ([]*domain.SellerAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.SellerAccount
	for _, account := range r.accounts {
		if account.AutoTopup && account.LeadCredits < creditFloor {
			cp := *account
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeGateway drives every gateway interaction from per-method hooks; nil
// hooks fall back to benign defaults.
type fakeGateway struct {
	mu             sync.Mutex
	invoices       int
	finalizes      int
	charges        int
	invoiceErr     map[string]error // keyed by commission_id metadata
	finalizeErr    error
	chargeErr      error
	intentStatus   domain.IntentStatus
	subStatus      string
	rateLimitFirst int // fail the first n calls with a rate limit error
}

func (g *fakeGateway) CreateInvoice(_ context.Context, _ string, _ int64, _ int, metadata map[string]string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rateLimitFirst > 0 {
		g.rateLimitFirst--
		return "", domain.NewGatewayError("rate limited", domain.ErrGatewayRateLimited)
	}
	if err := g.invoiceErr[metadata["commission_id"]]; err != nil {
		return "", err
	}
	g.invoices++
	return "in_" + metadata["commission_id"], nil
}

func (g *fakeGateway) FinalizeAndSend(context.Context, string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.finalizeErr != nil {
		return g.finalizeErr
	}
	g.finalizes++
	return nil
}

func (g *fakeGateway) RetrievePaymentIntent(context.Context, string) (domain.IntentStatus, error) {
	if g.intentStatus == "" {
		return domain.IntentFailed, nil
	}
	return g.intentStatus, nil
}

func (g *fakeGateway) CreateTransfer(context.Context, string, int64) (string, error) {
	return "tr_test", nil
}

func (g *fakeGateway) RetrieveSubscription(context.Context, string) (*domain.GatewaySubscription, error) {
	status := g.subStatus
	if status == "" {
		status = "active"
	}
	return &domain.GatewaySubscription{
		Status:      status,
		PeriodStart: testNow,
		PeriodEnd:   testNow.AddDate(0, 1, 0),
	}, nil
}

func (g *fakeGateway) ChargeCustomer(context.Context, string, int64, string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "ch_test", nil
}

// fakeLock counts acquisitions; held simulates a lock another run owns.
type fakeLock struct {
	mu       sync.Mutex
	held     map[string]bool
	acquired []string
}

func newFakeLock() *fakeLock {
	return &fakeLock{held: make(map[string]bool)}
}

func (l *fakeLock) Acquire(_ context.Context, taskName string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[taskName] {
		return false, nil
	}
	l.held[taskName] = true
	l.acquired = append(l.acquired, taskName)
	return true, nil
}

func (l *fakeLock) Release(_ context.Context, taskName string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, taskName)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []kafka.BillingEvent
}

func (p *fakePublisher) PublishBillingEvent(event kafka.BillingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fixture struct {
	uc             *DefaultBillingUsecase
	commissionRepo *fakeCommissionRepo
	subRepo        *fakeSubscriptionRepo
	paymentRepo    *fakePaymentRepo
	sellerRepo     *fakeSellerRepo
	gateway        *fakeGateway
	lock           *fakeLock
	publisher      *fakePublisher
}

func newFixture(opts ...func(*fixture)) *fixture {
	f := &fixture{
		commissionRepo: newFakeCommissionRepo(),
		subRepo:        newFakeSubscriptionRepo(),
		paymentRepo:    newFakePaymentRepo(),
		sellerRepo:     newFakeSellerRepo(),
		gateway:        &fakeGateway{},
		lock:           newFakeLock(),
		publisher:      &fakePublisher{},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.commissionRepo.sellers = f.sellerRepo

	f.uc = NewDefaultBillingUsecase(
		f.commissionRepo,
		f.subRepo,
		f.paymentRepo,
		f.sellerRepo,
		f.gateway,
		f.publisher,
		nil,
		f.lock,
		testBillingConfig(),
	)
	f.uc.now = func() time.Time { return testNow }
	return f
}
