package service

import (
	"context"
	"testing"
	"time"

	"invoicer/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceServiceAt(invRepo *fakeInvoiceRepo, clientRepo *fakeClientRepo, profileRepo *fakeProfileRepo, now time.Time) *invoiceService {
	if clientRepo == nil {
		clientRepo = newFakeClientRepo()
	}
	if profileRepo == nil {
		profileRepo = &fakeProfileRepo{}
	}
	return &invoiceService{
		invoiceRepo: invRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		txManager:   fakeTxManager{},
		now:         func() time.Time { return now },
	}
}

func TestCreateInvoiceComputesTotalsServerSide(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	invRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceAt(invRepo, nil, nil, now)

	resp, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		TaxRate:    "10",
		Discount:   "5",
		Items: []InvoiceItemRequest{
			{Description: "Consulting", Quantity: "2", Rate: "50"},
			{Description: "Hosting", Quantity: "1", Rate: "30"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "130.0000", resp.Subtotal)
	assert.Equal(t, "13.0000", resp.TaxTotal)
	assert.Equal(t, "138.0000", resp.Total)
	assert.Equal(t, model.StatusDraft, resp.Status)

	// Defaults: date today, due in 15 days, generated ten-digit number.
	assert.Equal(t, "2024-06-15", resp.Date)
	assert.Equal(t, "2024-06-30", resp.DueDate)
	assert.Len(t, resp.InvoiceNumber, 10)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "100.0000", resp.Items[0].Total)
	assert.Equal(t, 1, resp.Items[1].SortOrder)
}

func TestCreateInvoiceCoercesUnparsableNumbersToZero(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newInvoiceServiceAt(newFakeInvoiceRepo(), nil, nil, now)

	resp, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		TaxRate:    "not-a-number",
		Items: []InvoiceItemRequest{
			{Description: "Broken qty", Quantity: "abc", Rate: "50"},
			{Description: "Real line", Quantity: "1", Rate: "100"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "0.0000", resp.Items[0].Total)
	assert.Equal(t, "100.0000", resp.Subtotal)
	assert.Equal(t, "0.0000", resp.TaxTotal)
	assert.Equal(t, "100.0000", resp.Total)
}

func TestCreateInvoiceNegativeRateAndOversizedDiscount(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newInvoiceServiceAt(newFakeInvoiceRepo(), nil, nil, now)

	resp, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		Discount:   "200",
		Items: []InvoiceItemRequest{
			{Description: "Work", Quantity: "1", Rate: "100"},
			{Description: "Credit", Quantity: "1", Rate: "-30"},
		},
	})
	require.NoError(t, err)

	// No clamping anywhere: the credit line and the oversized discount
	// push the total negative.
	assert.Equal(t, "70.0000", resp.Subtotal)
	assert.Equal(t, "-130.0000", resp.Total)
}

func TestCreateInvoicePrefillsClientSnapshot(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	clientRepo := newFakeClientRepo()
	client := model.Client{Name: "Acme Corp", Email: "billing@acme.test", Phone: "555-0100"}
	require.NoError(t, clientRepo.Create(context.Background(), &client))

	svc := newInvoiceServiceAt(newFakeInvoiceRepo(), clientRepo, nil, now)

	resp, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientID:    client.ID.String(),
		ClientEmail: "override@acme.test", // explicit field wins over the record
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", resp.ClientName)
	assert.Equal(t, "override@acme.test", resp.ClientEmail)
	assert.Equal(t, "555-0100", resp.ClientPhone)
	require.NotNil(t, resp.ClientID)
	assert.Equal(t, client.ID.String(), *resp.ClientID)
}

func TestCreateInvoiceAppliesProfileDefaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	profileRepo := &fakeProfileRepo{profile: &model.Profile{
		CompanyName:     "Studio Ltd",
		CompanyEmail:    "hello@studio.test",
		DefaultCurrency: "EUR",
		DefaultTaxRate:  decimal.NewFromFloat(7.5),
		DefaultTerms:    "Net 15",
	}}

	svc := newInvoiceServiceAt(newFakeInvoiceRepo(), nil, profileRepo, now)

	resp, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		Items:      []InvoiceItemRequest{{Description: "Work", Quantity: "1", Rate: "100"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Studio Ltd", resp.CompanyName)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, "Net 15", resp.Terms)
	assert.Equal(t, "7.5000", resp.TaxRate)
	assert.Equal(t, "7.5000", resp.TaxTotal)
	assert.Equal(t, "107.5000", resp.Total)
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	invRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceAt(invRepo, nil, nil, now)

	created, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		TaxRate:    "10",
		Items:      []InvoiceItemRequest{{Description: "Work", Quantity: "1", Rate: "100"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "110.0000", created.Total)

	// Changing only the discount still recomputes against the kept items.
	discount := "20"
	updated, err := svc.UpdateInvoice(context.Background(), created.ID, UpdateInvoiceRequest{Discount: &discount})
	require.NoError(t, err)
	assert.Equal(t, "100.0000", updated.Subtotal)
	assert.Equal(t, "90.0000", updated.Total)
	require.Len(t, updated.Items, 1)

	// Replacing the item list rebuilds totals from the new rows.
	newItems := []InvoiceItemRequest{{Description: "Rework", Quantity: "3", Rate: "40"}}
	updated, err = svc.UpdateInvoice(context.Background(), created.ID, UpdateInvoiceRequest{Items: &newItems})
	require.NoError(t, err)
	assert.Equal(t, "120.0000", updated.Subtotal)
	assert.Equal(t, "112.0000", updated.Total) // 120 + 12 tax - 20 discount
}

func TestUpdateStatusValidatesValue(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	invRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceAt(invRepo, nil, nil, now)

	created, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{ClientName: "Acme Corp"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "CANCELLED")
	assert.Error(t, err)

	resp, err := svc.UpdateStatus(context.Background(), created.ID, model.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, resp.Status)
}

func TestIsOverdueDerivedFromDueDateAndStatus(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	svc := newInvoiceServiceAt(newFakeInvoiceRepo(), nil, nil, now)

	created, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		Date:       "2024-05-01",
		DueDate:    "2024-05-15",
	})
	require.NoError(t, err)
	assert.True(t, created.IsOverdue)

	// Paying it clears the derived flag; the stored status never becomes
	// OVERDUE on its own.
	paid, err := svc.UpdateStatus(context.Background(), created.ID, model.StatusPaid)
	require.NoError(t, err)
	assert.False(t, paid.IsOverdue)
}

func TestDeleteInvoiceRemovesHeaderAndItems(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	invRepo := newFakeInvoiceRepo()
	svc := newInvoiceServiceAt(invRepo, nil, nil, now)

	created, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		ClientName: "Acme Corp",
		Items:      []InvoiceItemRequest{{Description: "Work", Quantity: "1", Rate: "100"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInvoice(context.Background(), created.ID))

	_, err = svc.GetInvoice(context.Background(), created.ID)
	assert.Error(t, err)
}
