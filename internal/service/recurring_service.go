package service

import (
	"context"
	"fmt"
	"time"

	"invoicer/internal/calc"
	"invoicer/internal/model"
	"invoicer/internal/repository"
	"invoicer/internal/schedule"
	ws "invoicer/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const generatedDueDays = 30 // generated invoices are due in 30 days regardless of frequency

// --- DTOs ---

type CreateRecurringInvoiceRequest struct {
	ClientID    string `json:"client_id"`   // optional; weak back-reference
	ClientName  string `json:"client_name"` // used when no client_id is given
	Description string `json:"description" binding:"required"`
	Amount      string `json:"amount" binding:"required"` // fixed amount per occurrence
	Currency    string `json:"currency"`
	Frequency   string `json:"frequency" binding:"required,oneof=weekly biweekly monthly bimonthly quarterly semiannual annual"`
	StartDate   string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string `json:"end_date"`                      // YYYY-MM-DD, optional
}

type RecurringInvoiceResponse struct {
	ID                string  `json:"id"`
	ClientID          *string `json:"client_id"`
	ClientName        string  `json:"client_name"`
	ClientEmail       string  `json:"client_email"`
	Description       string  `json:"description"`
	Amount            string  `json:"amount"`
	Currency          string  `json:"currency"`
	Frequency         string  `json:"frequency"`
	StartDate         string  `json:"start_date"`
	EndDate           *string `json:"end_date"`
	NextInvoiceDate   string  `json:"next_invoice_date"`
	IsActive          bool    `json:"is_active"`
	IsDue             bool    `json:"is_due"`
	InvoicesGenerated int     `json:"invoices_generated"`
	LastGeneratedAt   *string `json:"last_generated_at"`
	CreatedAt         string  `json:"created_at"`
}

// --- Interface ---

// RecurringInvoiceService owns the recurrence schedule: creating
// templates, toggling them, and materializing due occurrences into
// concrete invoices.
type RecurringInvoiceService interface {
	Create(ctx context.Context, req CreateRecurringInvoiceRequest) (RecurringInvoiceResponse, error)
	List(ctx context.Context, page, limit int) ([]RecurringInvoiceResponse, int64, error)
	ToggleActive(ctx context.Context, id string) (RecurringInvoiceResponse, error)
	Delete(ctx context.Context, id string) error
	GenerateNow(ctx context.Context, id string) (InvoiceResponse, error)
}

type recurringInvoiceService struct {
	recurringRepo repository.RecurringInvoiceRepository
	invoiceRepo   repository.InvoiceRepository
	clientRepo    repository.ClientRepository
	txManager     repository.TransactionManager
	hub           *ws.Hub
	now           func() time.Time
}

func NewRecurringInvoiceService(
	recurringRepo repository.RecurringInvoiceRepository,
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) RecurringInvoiceService {
	return &recurringInvoiceService{
		recurringRepo: recurringRepo,
		invoiceRepo:   invoiceRepo,
		clientRepo:    clientRepo,
		txManager:     txManager,
		hub:           hub,
		now:           time.Now,
	}
}

// --- Implementation ---

func (s *recurringInvoiceService) Create(ctx context.Context, req CreateRecurringInvoiceRequest) (RecurringInvoiceResponse, error) {
	amount := parseOrZero(req.Amount)

	if !model.ValidFrequency(req.Frequency) {
		return RecurringInvoiceResponse{}, fmt.Errorf("invalid frequency %q", req.Frequency)
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("invalid start_date: %w", err)
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, parseErr := time.Parse(dateLayout, req.EndDate)
		if parseErr != nil {
			return RecurringInvoiceResponse{}, fmt.Errorf("invalid end_date: %w", parseErr)
		}
		endDate = &parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	clientName := req.ClientName
	clientEmail := ""
	var clientID *uuid.UUID
	if req.ClientID != "" {
		parsed, parseErr := uuid.Parse(req.ClientID)
		if parseErr != nil {
			return RecurringInvoiceResponse{}, fmt.Errorf("invalid client_id: %w", parseErr)
		}
		clientID = &parsed
		if client, clientErr := s.clientRepo.FindByID(ctx, parsed); clientErr == nil {
			clientName = client.Name
			clientEmail = client.Email
		}
	}

	// Fixed-amount single-line template snapshot.
	tpl := model.InvoiceTemplate{
		ClientName:  clientName,
		ClientEmail: clientEmail,
		Currency:    currency,
		Total:       amount,
		Items: []model.TemplateItem{{
			Description: req.Description,
			Quantity:    decimal.NewFromInt(1),
			Rate:        amount,
			Total:       amount,
		}},
	}

	rec := model.RecurringInvoice{
		ClientID:        clientID,
		Frequency:       req.Frequency,
		StartDate:       startDate,
		EndDate:         endDate,
		NextInvoiceDate: schedule.NextInvoiceDate(startDate, req.Frequency, s.now()),
		IsActive:        true,
	}
	if err := rec.SetTemplate(tpl); err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("failed to encode template: %w", err)
	}

	if err := s.recurringRepo.Create(ctx, &rec); err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("failed to create recurring invoice: %w", err)
	}

	return s.toResponse(rec), nil
}

func (s *recurringInvoiceService) List(ctx context.Context, page, limit int) ([]RecurringInvoiceResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	recs, total, err := s.recurringRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch recurring invoices: %w", err)
	}

	result := make([]RecurringInvoiceResponse, 0, len(recs))
	for _, rec := range recs {
		result = append(result, s.toResponse(rec))
	}
	return result, total, nil
}

// ToggleActive flips a template between Active and Paused. These are
// the only two states; nothing pauses a template automatically.
func (s *recurringInvoiceService) ToggleActive(ctx context.Context, id string) (RecurringInvoiceResponse, error) {
	recID, err := uuid.Parse(id)
	if err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("invalid recurring invoice id: %w", err)
	}

	rec, err := s.recurringRepo.FindByID(ctx, recID)
	if err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("recurring invoice not found: %w", err)
	}

	rec.IsActive = !rec.IsActive
	if err := s.recurringRepo.Update(ctx, rec); err != nil {
		return RecurringInvoiceResponse{}, fmt.Errorf("failed to update recurring invoice: %w", err)
	}

	return s.toResponse(*rec), nil
}

func (s *recurringInvoiceService) Delete(ctx context.Context, id string) error {
	recID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid recurring invoice id: %w", err)
	}

	if _, err := s.recurringRepo.FindByID(ctx, recID); err != nil {
		return fmt.Errorf("recurring invoice not found: %w", err)
	}

	return s.recurringRepo.Delete(ctx, recID)
}

// GenerateNow materializes a template into a concrete draft invoice.
// The invoice insert, the items insert, and the schedule advance run
// in one transaction: if any write fails, the template keeps its
// next_invoice_date and invoices_generated untouched, so a retry
// cannot double-generate from a half-applied attempt.
func (s *recurringInvoiceService) GenerateNow(ctx context.Context, id string) (InvoiceResponse, error) {
	recID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid recurring invoice id: %w", err)
	}

	rec, err := s.recurringRepo.FindByID(ctx, recID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("recurring invoice not found: %w", err)
	}

	tpl, err := rec.Template()
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to decode template: %w", err)
	}

	now := s.now()
	today := schedule.DateOnly(now)

	currency := tpl.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	items := make([]model.InvoiceItem, 0, len(tpl.Items))
	lines := make([]calc.Line, 0, len(tpl.Items))
	for i, it := range tpl.Items {
		items = append(items, model.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Rate:        it.Rate,
			Total:       calc.LineTotal(it.Quantity, it.Rate),
			SortOrder:   i,
		})
		lines = append(lines, calc.Line{Quantity: it.Quantity, Rate: it.Rate})
	}

	// Totals are recomputed from the stored item list rather than
	// trusting the template's cached scalar, which can go stale.
	totals := calc.Totals(lines, decimal.Zero, decimal.Zero)

	invoice := model.Invoice{
		InvoiceNumber: generateRecurringNumber(now),
		Date:          today,
		DueDate:       today.AddDate(0, 0, generatedDueDays),
		Status:        model.StatusDraft,
		Currency:      currency,
		ClientID:      rec.ClientID,
		ClientName:    tpl.ClientName,
		ClientEmail:   tpl.ClientEmail,
		Subtotal:      totals.Subtotal,
		TaxTotal:      totals.TaxTotal,
		Total:         totals.Total,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}

		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := s.invoiceRepo.CreateItems(txCtx, items); err != nil {
			return fmt.Errorf("failed to create invoice items: %w", err)
		}

		// Advance the schedule only after the invoice writes succeeded.
		rec.InvoicesGenerated++
		rec.LastGeneratedAt = &now
		rec.NextInvoiceDate = schedule.NextInvoiceDate(today, rec.Frequency, now)
		if err := s.recurringRepo.Update(txCtx, rec); err != nil {
			return fmt.Errorf("failed to advance recurring invoice: %w", err)
		}

		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.hub.BroadcastEvent(ws.EventRecurringGenerated, map[string]string{
		"recurring_id":   rec.ID.String(),
		"invoice_id":     invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
	})

	invoice.Items = items
	return invoiceToResponse(invoice, s.now), nil
}

// generateRecurringNumber derives a short suffix from the current
// time. Distinct from the manual ten-digit scheme so generated
// invoices are recognizable; uniqueness is best-effort and backed by
// the unique index, not guaranteed here.
func generateRecurringNumber(now time.Time) string {
	return fmt.Sprintf("REC-%06d", now.UnixMilli()%1_000_000)
}

// --- Mapping ---

func (s *recurringInvoiceService) toResponse(rec model.RecurringInvoice) RecurringInvoiceResponse {
	tpl, _ := rec.Template()

	description := ""
	if len(tpl.Items) > 0 {
		description = tpl.Items[0].Description
	}

	resp := RecurringInvoiceResponse{
		ID:                rec.ID.String(),
		ClientName:        tpl.ClientName,
		ClientEmail:       tpl.ClientEmail,
		Description:       description,
		Amount:            tpl.Total.StringFixed(4),
		Currency:          tpl.Currency,
		Frequency:         rec.Frequency,
		StartDate:         rec.StartDate.Format(dateLayout),
		NextInvoiceDate:   rec.NextInvoiceDate.Format(dateLayout),
		IsActive:          rec.IsActive,
		IsDue:             schedule.IsDue(rec.IsActive, rec.NextInvoiceDate, rec.EndDate, s.now()),
		InvoicesGenerated: rec.InvoicesGenerated,
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
	}

	if rec.ClientID != nil {
		id := rec.ClientID.String()
		resp.ClientID = &id
	}
	if rec.EndDate != nil {
		end := rec.EndDate.Format(dateLayout)
		resp.EndDate = &end
	}
	if rec.LastGeneratedAt != nil {
		last := rec.LastGeneratedAt.Format(time.RFC3339)
		resp.LastGeneratedAt = &last
	}

	return resp
}
