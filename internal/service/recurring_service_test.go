package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"invoicer/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecurringServiceAt(recRepo *fakeRecurringRepo, invRepo *fakeInvoiceRepo, now time.Time) *recurringInvoiceService {
	return &recurringInvoiceService{
		recurringRepo: recRepo,
		invoiceRepo:   invRepo,
		clientRepo:    newFakeClientRepo(),
		txManager:     fakeTxManager{},
		now:           func() time.Time { return now },
	}
}

func seedRecurring(t *testing.T, repo *fakeRecurringRepo, rec model.RecurringInvoice, tpl model.InvoiceTemplate) model.RecurringInvoice {
	t.Helper()
	require.NoError(t, rec.SetTemplate(tpl))
	require.NoError(t, repo.Create(context.Background(), &rec))
	return rec
}

func TestGenerateNowMaterializesDraftInvoice(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	recRepo := newFakeRecurringRepo()
	invRepo := newFakeInvoiceRepo()
	svc := newRecurringServiceAt(recRepo, invRepo, now)

	tpl := model.InvoiceTemplate{
		ClientName:  "Acme Corp",
		ClientEmail: "billing@acme.test",
		Currency:    "EUR",
		Total:       decimal.NewFromInt(999), // stale cached total, must be ignored
		Items: []model.TemplateItem{
			{Description: "Consulting", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
			{Description: "Hosting", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(30)},
		},
	}
	rec := seedRecurring(t, recRepo, model.RecurringInvoice{
		Frequency:       model.FrequencyMonthly,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		NextInvoiceDate: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
		IsActive:        true,
	}, tpl)

	resp, err := svc.GenerateNow(context.Background(), rec.ID.String())
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("REC-%06d", now.UnixMilli()%1_000_000), resp.InvoiceNumber)
	assert.Equal(t, "2024-06-15", resp.Date)
	assert.Equal(t, "2024-07-15", resp.DueDate)
	assert.Equal(t, model.StatusDraft, resp.Status)
	assert.Equal(t, "EUR", resp.Currency)
	assert.Equal(t, "Acme Corp", resp.ClientName)
	assert.Equal(t, "billing@acme.test", resp.ClientEmail)

	// Totals come from the item list, not the template's cached 999.
	assert.Equal(t, "130.0000", resp.Subtotal)
	assert.Equal(t, "0.0000", resp.TaxTotal)
	assert.Equal(t, "130.0000", resp.Total)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Consulting", resp.Items[0].Description)
	assert.Equal(t, 0, resp.Items[0].SortOrder)
	assert.Equal(t, "100.0000", resp.Items[0].Total)
	assert.Equal(t, "30.0000", resp.Items[1].Total)

	// Schedule advanced: counter up, next date pushed a full interval out.
	stored, err := recRepo.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.InvoicesGenerated)
	assert.True(t, stored.NextInvoiceDate.Equal(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, stored.LastGeneratedAt)
	assert.True(t, stored.LastGeneratedAt.Equal(now))
}

func TestGenerateNowFailedItemsInsertDoesNotAdvanceSchedule(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	recRepo := newFakeRecurringRepo()
	invRepo := newFakeInvoiceRepo()
	invRepo.failCreateItems = true
	svc := newRecurringServiceAt(recRepo, invRepo, now)

	nextDate := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)
	rec := seedRecurring(t, recRepo, model.RecurringInvoice{
		Frequency:       model.FrequencyWeekly,
		StartDate:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		NextInvoiceDate: nextDate,
		IsActive:        true,
	}, model.InvoiceTemplate{
		Items: []model.TemplateItem{{Description: "Retainer", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(500)}},
	})

	_, err := svc.GenerateNow(context.Background(), rec.ID.String())
	require.Error(t, err)

	stored, findErr := recRepo.FindByID(context.Background(), rec.ID)
	require.NoError(t, findErr)
	assert.Equal(t, 0, stored.InvoicesGenerated)
	assert.True(t, stored.NextInvoiceDate.Equal(nextDate))
	assert.Nil(t, stored.LastGeneratedAt)
	assert.Equal(t, 0, recRepo.updateCalls)
}

func TestCreateRecurringFutureStartKeepsStartAsNextDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	recRepo := newFakeRecurringRepo()
	svc := newRecurringServiceAt(recRepo, newFakeInvoiceRepo(), now)

	resp, err := svc.Create(context.Background(), CreateRecurringInvoiceRequest{
		ClientName:  "Acme Corp",
		Description: "Monthly retainer",
		Amount:      "1500",
		Frequency:   model.FrequencyMonthly,
		StartDate:   "2024-09-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-09-01", resp.NextInvoiceDate)
	assert.True(t, resp.IsActive)
	assert.False(t, resp.IsDue)
	assert.Equal(t, "1500.0000", resp.Amount)
}

func TestCreateRecurringPastStartSchedulesFromToday(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	recRepo := newFakeRecurringRepo()
	svc := newRecurringServiceAt(recRepo, newFakeInvoiceRepo(), now)

	resp, err := svc.Create(context.Background(), CreateRecurringInvoiceRequest{
		ClientName:  "Acme Corp",
		Description: "Weekly sync",
		Amount:      "200",
		Frequency:   model.FrequencyWeekly,
		StartDate:   "2024-01-01",
	})
	require.NoError(t, err)

	// Start already passed: next occurrence is today plus one interval.
	assert.Equal(t, "2024-06-22", resp.NextInvoiceDate)
}

func TestCreateRecurringRejectsUnknownFrequency(t *testing.T) {
	svc := newRecurringServiceAt(newFakeRecurringRepo(), newFakeInvoiceRepo(), time.Now())

	_, err := svc.Create(context.Background(), CreateRecurringInvoiceRequest{
		ClientName:  "Acme Corp",
		Description: "Whenever",
		Amount:      "100",
		Frequency:   "fortnightly",
		StartDate:   "2024-01-01",
	})
	assert.Error(t, err)
}

func TestToggleActiveFlipsState(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	recRepo := newFakeRecurringRepo()
	svc := newRecurringServiceAt(recRepo, newFakeInvoiceRepo(), now)

	rec := seedRecurring(t, recRepo, model.RecurringInvoice{
		Frequency:       model.FrequencyMonthly,
		StartDate:       now,
		NextInvoiceDate: now,
		IsActive:        true,
	}, model.InvoiceTemplate{})

	resp, err := svc.ToggleActive(context.Background(), rec.ID.String())
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
	assert.False(t, resp.IsDue) // paused templates are never due

	resp, err = svc.ToggleActive(context.Background(), rec.ID.String())
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.True(t, resp.IsDue)
}

func TestGenerateNowUnknownID(t *testing.T) {
	svc := newRecurringServiceAt(newFakeRecurringRepo(), newFakeInvoiceRepo(), time.Now())

	_, err := svc.GenerateNow(context.Background(), "00000000-0000-0000-0000-000000000001")
	assert.Error(t, err)
}
