package service

import (
	"context"
	"errors"

	"invoicer/internal/model"
	"invoicer/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository layer. They make no attempt at
// rollback: tests assert on what was written, so a failed "transaction"
// shows up as partial state the assertions can inspect.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	items    map[uuid.UUID][]model.InvoiceItem

	failCreate      bool
	failCreateItems bool
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[uuid.UUID]*model.Invoice),
		items:    make(map[uuid.UUID][]model.InvoiceItem),
	}
}

func (r *fakeInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	stored := *invoice
	r.invoices[invoice.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) CreateItems(_ context.Context, items []model.InvoiceItem) error {
	if r.failCreateItems {
		return errors.New("items insert failed")
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		r.items[items[i].InvoiceID] = append(r.items[items[i].InvoiceID], items[i])
	}
	return nil
}

func (r *fakeInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *inv
	return &found, nil
}

func (r *fakeInvoiceRepo) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Items = append([]model.InvoiceItem(nil), r.items[id]...)
	return inv, nil
}

func (r *fakeInvoiceRepo) List(_ context.Context, _ repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	result := make([]model.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		result = append(result, *inv)
	}
	return result, int64(len(result)), nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, invoice *model.Invoice) error {
	if _, ok := r.invoices[invoice.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *invoice
	r.invoices[invoice.ID] = &stored
	return nil
}

func (r *fakeInvoiceRepo) ReplaceItems(_ context.Context, invoiceID uuid.UUID, items []model.InvoiceItem) error {
	r.items[invoiceID] = nil
	return r.CreateItems(context.Background(), items)
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	delete(r.items, id)
	return nil
}

type fakeRecurringRepo struct {
	recs map[uuid.UUID]*model.RecurringInvoice

	updateCalls int
	failUpdate  bool
}

func newFakeRecurringRepo() *fakeRecurringRepo {
	return &fakeRecurringRepo{recs: make(map[uuid.UUID]*model.RecurringInvoice)}
}

func (r *fakeRecurringRepo) Create(_ context.Context, rec *model.RecurringInvoice) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	stored := *rec
	r.recs[rec.ID] = &stored
	return nil
}

func (r *fakeRecurringRepo) FindByID(_ context.Context, id uuid.UUID) (*model.RecurringInvoice, error) {
	rec, ok := r.recs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *rec
	return &found, nil
}

func (r *fakeRecurringRepo) List(_ context.Context, _, _ int) ([]model.RecurringInvoice, int64, error) {
	result := make([]model.RecurringInvoice, 0, len(r.recs))
	for _, rec := range r.recs {
		result = append(result, *rec)
	}
	return result, int64(len(result)), nil
}

func (r *fakeRecurringRepo) Update(_ context.Context, rec *model.RecurringInvoice) error {
	if r.failUpdate {
		return errors.New("update failed")
	}
	r.updateCalls++
	stored := *rec
	r.recs[rec.ID] = &stored
	return nil
}

func (r *fakeRecurringRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.recs, id)
	return nil
}

type fakeClientRepo struct {
	clients map[uuid.UUID]*model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *fakeClientRepo) Create(_ context.Context, client *model.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	stored := *client
	r.clients[client.ID] = &stored
	return nil
}

func (r *fakeClientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Client, error) {
	client, ok := r.clients[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *client
	return &found, nil
}

func (r *fakeClientRepo) List(_ context.Context, _ string, _, _ int) ([]model.Client, int64, error) {
	return nil, 0, nil
}

func (r *fakeClientRepo) Update(_ context.Context, client *model.Client) error {
	stored := *client
	r.clients[client.ID] = &stored
	return nil
}

func (r *fakeClientRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.clients, id)
	return nil
}

type fakeProfileRepo struct {
	profile *model.Profile
}

func (r *fakeProfileRepo) Get(_ context.Context) (*model.Profile, error) {
	if r.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	found := *r.profile
	return &found, nil
}

func (r *fakeProfileRepo) Save(_ context.Context, profile *model.Profile) error {
	stored := *profile
	r.profile = &stored
	return nil
}
