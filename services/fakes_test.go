package services

import (
	"context"
	"sort"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"
	"github.com/suportekambafy-lab/checkout-service/repository"

	"github.com/google/uuid"
)

// In-memory repository fakes shared by the service tests.

type fakeOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	r.orders[order.ID] = order
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) FindByCode(ctx context.Context, code string) (*models.Order, error) {
	for _, order := range r.orders {
		if order.OrderCode == code {
			copied := *order
			return &copied, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	order, ok := r.orders[id]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	return true, nil
}

type fakeProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	repo := &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return product, nil
}

type fakeAccessRepo struct {
	accesses []models.CustomerAccess
	err      error
}

func (r *fakeAccessRepo) Create(ctx context.Context, access *models.CustomerAccess) error {
	if r.err != nil {
		return r.err
	}
	if access.ID == uuid.Nil {
		access.ID = uuid.New()
	}
	r.accesses = append(r.accesses, *access)
	return nil
}

func (r *fakeAccessRepo) FindByEmail(ctx context.Context, email string) ([]models.CustomerAccess, error) {
	var out []models.CustomerAccess
	for _, a := range r.accesses {
		if a.CustomerEmail == email {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLedgerRepo struct {
	splits []models.RevenueSplit
	err    error
}

func (r *fakeLedgerRepo) CreateSplits(ctx context.Context, splits []models.RevenueSplit) error {
	if r.err != nil {
		return r.err
	}
	r.splits = append(r.splits, splits...)
	return nil
}

func (r *fakeLedgerRepo) FindByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.RevenueSplit, error) {
	var out []models.RevenueSplit
	for _, s := range r.splits {
		if s.OrderID == orderID {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeAffiliateRepo struct {
	affiliates map[string]*models.Affiliate
}

func newFakeAffiliateRepo(affiliates ...*models.Affiliate) *fakeAffiliateRepo {
	repo := &fakeAffiliateRepo{affiliates: make(map[string]*models.Affiliate)}
	for _, a := range affiliates {
		repo.affiliates[a.Code] = a
	}
	return repo
}

func (r *fakeAffiliateRepo) FindActiveByCode(ctx context.Context, code string) (*models.Affiliate, error) {
	affiliate, ok := r.affiliates[code]
	if !ok || !affiliate.Active {
		return nil, repository.ErrAffiliateNotFound
	}
	return affiliate, nil
}

type fakeWebhookRepo struct {
	events    map[uuid.UUID]*models.WebhookEvent
	endpoints map[uuid.UUID][]models.WebhookEndpoint
}

func newFakeWebhookRepo() *fakeWebhookRepo {
	return &fakeWebhookRepo{
		events:    make(map[uuid.UUID]*models.WebhookEvent),
		endpoints: make(map[uuid.UUID][]models.WebhookEndpoint),
	}
}

func (r *fakeWebhookRepo) addEndpoint(productID uuid.UUID, url string) {
	r.endpoints[productID] = append(r.endpoints[productID], models.WebhookEndpoint{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: productID,
		URL:       url,
		Active:    true,
	})
}

func (r *fakeWebhookRepo) CreateEvent(ctx context.Context, event *models.WebhookEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = time.Now()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *fakeWebhookRepo) FindEventByID(ctx context.Context, id uuid.UUID) (*models.WebhookEvent, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrWebhookEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeWebhookRepo) FindActiveEndpoints(ctx context.Context, productID uuid.UUID) ([]models.WebhookEndpoint, error) {
	return r.endpoints[productID], nil
}

func (r *fakeWebhookRepo) IncrementAttempts(ctx context.Context, id uuid.UUID) error {
	r.events[id].WebhookAttempts++
	return nil
}

func (r *fakeWebhookRepo) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	event := r.events[id]
	event.WebhookSent = true
	event.WebhookSentAt = &sentAt
	event.WebhookLastError = nil
	return nil
}

func (r *fakeWebhookRepo) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	r.events[id].WebhookLastError = &cause
	return nil
}

func (r *fakeWebhookRepo) ListRecentByIntegrator(ctx context.Context, userID uuid.UUID, limit int) ([]models.WebhookEvent, error) {
	var out []models.WebhookEvent
	for _, event := range r.events {
		out = append(out, *event)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeWebhookRepo) StatsByIntegrator(ctx context.Context, userID uuid.UUID) (*repository.WebhookStats, error) {
	stats := &repository.WebhookStats{}
	var completed int64
	for _, event := range r.events {
		stats.Total++
		if event.WebhookSent {
			stats.Delivered++
		} else if event.WebhookAttempts > 0 {
			stats.Failed++
		}
		if event.Status == models.OrderStatusPending {
			stats.Pending++
		}
		if event.Status == models.OrderStatusCompleted {
			completed++
		}
	}
	if completed > 0 {
		stats.DeliveryRate = float64(stats.Delivered) / float64(completed)
	}
	return stats, nil
}
