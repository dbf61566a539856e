package lead

import (
	"context"
	"sync"
	"time"

	"github.com/marktline/billing-service/internal/domain"
	"github.com/marktline/billing-service/internal/infrastructure/kafka"
)

// fakeLeadRepo keeps leads in a map behind a mutex so the claim swap behaves
// like the database's conditional update under concurrency.
type fakeLeadRepo struct {
	mu        sync.Mutex
	leads     map[string]*domain.Lead
	released  []string
	createErr error
}

func newFakeLeadRepo(leads ...*domain.Lead) *fakeLeadRepo {
	r := &fakeLeadRepo{leads: make(map[string]*domain.Lead)}
	for _, l := range leads {
		cp := *l
		r.leads[l.ID] = &cp
	}
	return r
}

func (r *fakeLeadRepo) CreateLead(_ context.Context, lead *domain.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	cp := *lead
	r.leads[lead.ID] = &cp
	return nil
}

func (r *fakeLeadRepo) GetLeadByID(_ context.Context, leadID string) (*domain.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[leadID]
	if !ok {
		return nil, domain.NewNotFoundError("lead not found")
	}
	cp := *lead
	return &cp, nil
}

func (r *fakeLeadRepo) LeadExistsForContact(_ context.Context, listingID, fingerprint string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lead := range r.leads {
		if lead.ListingID == listingID && lead.ContactFingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLeadRepo) ClaimLead(_ context.Context, leadID string, purchasedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[leadID]
	if !ok || lead.Status != domain.LeadStatusAvailable {
		return false, nil
	}
	lead.Status = domain.LeadStatusPurchased
	lead.PurchasedAt = &purchasedAt
	lead.Version++
	return true, nil
}

func (r *fakeLeadRepo) ReleaseLead(_ context.Context, leadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[leadID]
	if !ok || lead.Status != domain.LeadStatusPurchased {
		return domain.NewStateConflictError("lead is not claimed")
	}
	lead.Status = domain.LeadStatusAvailable
	lead.PurchasedAt = nil
	lead.Version++
	r.released = append(r.released, leadID)
	return nil
}

func (r *fakeLeadRepo) UpdateLeadStatusCAS(_ context.Context, leadID string, oldStatus, newStatus domain.LeadStatus, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lead, ok := r.leads[leadID]
	if !ok || lead.Status != oldStatus {
		return false, nil
	}
	lead.Status = newStatus
	switch newStatus {
	case domain.LeadStatusContacted:
		lead.ContactedAt = &at
	case domain.LeadStatusConverted:
		lead.ConvertedAt = &at
	}
	lead.Version++
	return true, nil
}

func (r *fakeLeadRepo) GetLeadsBySellerID(_ context.Context, sellerID string, _, _ int64, _ domain.LeadFilters) ([]*domain.Lead, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Lead
	for _, lead := range r.leads {
		if lead.SellerID == sellerID {
			cp := *lead
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

type fakeListingRepo struct {
	listings map[string]*domain.Listing
}

func newFakeListingRepo(listings ...*domain.Listing) *fakeListingRepo {
	r := &fakeListingRepo{listings: make(map[string]*domain.Listing)}
	for _, l := range listings {
		r.listings[l.ID] = l
	}
	return r
}

func (r *fakeListingRepo) GetListingByID(_ context.Context, listingID string) (*domain.Listing, error) {
	listing, ok := r.listings[listingID]
	if !ok {
		return nil, domain.NewNotFoundError("listing not found")
	}
	return listing, nil
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

func (r *fakeSellerRepo) CreateSellerAccount(_ context.Context, account *domain.SellerAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	r.accounts[account.SellerID] = &cp
	return nil
}

func (r *fakeSellerRepo) DebitLeadCredits(_ context.Context, sellerID string, amount int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[sellerID]
	if !ok || account.LeadCredits < amount {
		return false, nil
	}
	account.LeadCredits -= amount
	return true, nil
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

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments []*domain.Payment
}

func (r *fakePaymentRepo) CreatePayment(_ context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *fakePaymentRepo) FindFailedPayments(context.Context) ([]*domain.Payment, error) {
	return nil, nil
}

func (r *fakePaymentRepo) UpdatePaymentStatus(context.Context, string, domain.PaymentStatus) error {
	return nil
}

func (r *fakePaymentRepo) MarkPaymentNotified(context.Context, string, time.Time) error {
	return nil
}

// fakeGateway records charges; chargeErr makes every charge fail.
type fakeGateway struct {
	mu        sync.Mutex
	charges   int
	chargeErr error
}

func (g *fakeGateway) ChargeCustomer(_ context.Context, _ string, _ int64, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	return "ch_test", nil
}

func (g *fakeGateway) CreateInvoice(context.Context, string, int64, int, map[string]string) (string, error) {
	return "in_test", nil
}

func (g *fakeGateway) FinalizeAndSend(context.Context, string) error { return nil }

func (g *fakeGateway) RetrievePaymentIntent(context.Context, string) (domain.IntentStatus, error) {
	return domain.IntentSucceeded, nil
}

func (g *fakeGateway) CreateTransfer(context.Context, string, int64) (string, error) {
	return "tr_test", nil
}

func (g *fakeGateway) RetrieveSubscription(context.Context, string) (*domain.GatewaySubscription, error) {
	return &domain.GatewaySubscription{Status: "active"}, nil
}

type fakeSaleConfirmer struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *fakeSaleConfirmer) ConfirmSale(_ context.Context, listingID string, _ time.Time) (*domain.Commission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, listingID)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Commission{ID: "comm-1", ListingID: listingID}, nil
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
