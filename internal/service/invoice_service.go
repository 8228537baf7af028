package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"invoicer/internal/calc"
	"invoicer/internal/model"
	"invoicer/internal/repository"
	ws "invoicer/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	dateLayout      = "2006-01-02"
	defaultDueDays  = 15
	defaultCurrency = "USD"
)

// --- DTOs ---

type InvoiceItemRequest struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"` // numeric string; unparsable values coerce to 0
	Rate        string `json:"rate"`     // may be negative for credit lines
}

type CreateInvoiceRequest struct {
	InvoiceNumber string               `json:"invoice_number"` // generated when empty
	Date          string               `json:"date"`           // YYYY-MM-DD, defaults to today
	DueDate       string               `json:"due_date"`       // YYYY-MM-DD, defaults to date+15d
	Currency      string               `json:"currency"`
	ClientID      string               `json:"client_id"` // optional; snapshot prefilled from client record
	ClientName    string               `json:"client_name"`
	ClientEmail   string               `json:"client_email"`
	ClientAddress string               `json:"client_address"`
	ClientPhone   string               `json:"client_phone"`
	TaxRate       string               `json:"tax_rate"` // percentage, e.g. "7.5"
	Discount      string               `json:"discount"` // flat post-tax amount
	Notes         string               `json:"notes"`
	Terms         string               `json:"terms"`
	Items         []InvoiceItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	Date          *string               `json:"date"`
	DueDate       *string               `json:"due_date"`
	Currency      *string               `json:"currency"`
	ClientName    *string               `json:"client_name"`
	ClientEmail   *string               `json:"client_email"`
	ClientAddress *string               `json:"client_address"`
	ClientPhone   *string               `json:"client_phone"`
	TaxRate       *string               `json:"tax_rate"`
	Discount      *string               `json:"discount"`
	Notes         *string               `json:"notes"`
	Terms         *string               `json:"terms"`
	Items         *[]InvoiceItemRequest `json:"items"` // nil leaves items untouched, empty slice clears them
}

type InvoiceItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Total       string `json:"total"`
	SortOrder   int    `json:"sort_order"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	Date          string                `json:"date"`
	DueDate       string                `json:"due_date"`
	Status        string                `json:"status"`
	IsOverdue     bool                  `json:"is_overdue"` // display-only: past due and unpaid
	Currency      string                `json:"currency"`
	ClientID      *string               `json:"client_id"`
	ClientName    string                `json:"client_name"`
	ClientEmail   string                `json:"client_email"`
	ClientAddress string                `json:"client_address"`
	ClientPhone   string                `json:"client_phone"`
	CompanyName   string                `json:"company_name"`
	CompanyEmail  string                `json:"company_email"`
	Subtotal      string                `json:"subtotal"`
	TaxRate       string                `json:"tax_rate"`
	TaxTotal      string                `json:"tax_total"`
	Discount      string                `json:"discount"`
	Total         string                `json:"total"`
	Notes         string                `json:"notes"`
	Terms         string                `json:"terms"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     string                `json:"created_at"`
}

type InvoiceFilter struct {
	Status        string
	InvoiceNumber string
	Page          int
	Limit         int
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error)
	UpdateStatus(ctx context.Context, id string, status string) (InvoiceResponse, error)
	DeleteInvoice(ctx context.Context, id string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	profileRepo repository.ProfileRepository
	txManager   repository.TransactionManager
	hub         *ws.Hub
	now         func() time.Time
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	profileRepo repository.ProfileRepository,
	txManager repository.TransactionManager,
	hub *ws.Hub,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		hub:         hub,
		now:         time.Now,
	}
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	today := s.now()

	date := today
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid date: %w", err)
		}
		date = parsed
	}

	dueDate := date.AddDate(0, 0, defaultDueDays)
	if req.DueDate != "" {
		parsed, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid due_date: %w", err)
		}
		dueDate = parsed
	}

	number := req.InvoiceNumber
	if number == "" {
		number = generateInvoiceNumber()
	}

	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	invoice := model.Invoice{
		InvoiceNumber: number,
		Date:          date,
		DueDate:       dueDate,
		Status:        model.StatusDraft,
		Currency:      currency,
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientAddress: req.ClientAddress,
		ClientPhone:   req.ClientPhone,
		TaxRate:       parseOrZero(req.TaxRate),
		Discount:      parseOrZero(req.Discount),
		Notes:         req.Notes,
		Terms:         req.Terms,
	}

	// Prefill the client snapshot from the referenced record where the
	// request left fields empty. The snapshot is frozen afterwards.
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid client_id: %w", err)
		}
		invoice.ClientID = &clientID
		if client, clientErr := s.clientRepo.FindByID(ctx, clientID); clientErr == nil {
			if invoice.ClientName == "" {
				invoice.ClientName = client.Name
			}
			if invoice.ClientEmail == "" {
				invoice.ClientEmail = client.Email
			}
			if invoice.ClientAddress == "" {
				invoice.ClientAddress = client.Address
			}
			if invoice.ClientPhone == "" {
				invoice.ClientPhone = client.Phone
			}
		}
	}

	// Company snapshot comes from the profile; absence is fine for drafts.
	if profile, profileErr := s.profileRepo.Get(ctx); profileErr == nil {
		invoice.CompanyName = profile.CompanyName
		invoice.CompanyEmail = profile.CompanyEmail
		invoice.CompanyAddress = profile.CompanyAddress
		invoice.CompanyPhone = profile.CompanyPhone
		invoice.CompanyWebsite = profile.CompanyWebsite
		invoice.CompanyLogoURL = profile.CompanyLogoURL
		if req.TaxRate == "" {
			invoice.TaxRate = profile.DefaultTaxRate
		}
		if req.Currency == "" && profile.DefaultCurrency != "" {
			invoice.Currency = profile.DefaultCurrency
		}
		if req.Notes == "" {
			invoice.Notes = profile.DefaultNotes
		}
		if req.Terms == "" {
			invoice.Terms = profile.DefaultTerms
		}
	}

	items := buildItems(req.Items)
	applyTotals(&invoice, items)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Create(txCtx, &invoice); err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := s.invoiceRepo.CreateItems(txCtx, items); err != nil {
			return fmt.Errorf("failed to create invoice items: %w", err)
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.hub.BroadcastEvent(ws.EventInvoiceCreated, map[string]string{
		"id":             invoice.ID.String(),
		"invoice_number": invoice.InvoiceNumber,
	})

	invoice.Items = items
	return s.toResponse(invoice), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	return s.toResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repository.InvoiceListFilter{
		Status:        filter.Status,
		InvoiceNumber: filter.InvoiceNumber,
		Page:          filter.Page,
		Limit:         filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, s.toResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, req UpdateInvoiceRequest) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	if req.Date != nil {
		parsed, parseErr := time.Parse(dateLayout, *req.Date)
		if parseErr != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid date: %w", parseErr)
		}
		invoice.Date = parsed
	}
	if req.DueDate != nil {
		parsed, parseErr := time.Parse(dateLayout, *req.DueDate)
		if parseErr != nil {
			return InvoiceResponse{}, fmt.Errorf("invalid due_date: %w", parseErr)
		}
		invoice.DueDate = parsed
	}
	if req.Currency != nil {
		invoice.Currency = *req.Currency
	}
	if req.ClientName != nil {
		invoice.ClientName = *req.ClientName
	}
	if req.ClientEmail != nil {
		invoice.ClientEmail = *req.ClientEmail
	}
	if req.ClientAddress != nil {
		invoice.ClientAddress = *req.ClientAddress
	}
	if req.ClientPhone != nil {
		invoice.ClientPhone = *req.ClientPhone
	}
	if req.TaxRate != nil {
		invoice.TaxRate = parseOrZero(*req.TaxRate)
	}
	if req.Discount != nil {
		invoice.Discount = parseOrZero(*req.Discount)
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	if req.Terms != nil {
		invoice.Terms = *req.Terms
	}

	items := invoice.Items
	if req.Items != nil {
		items = buildItems(*req.Items)
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
	}

	// Any edit to items, tax rate, or discount recomputes the totals.
	applyTotals(invoice, items)

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Update(txCtx, invoice); err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		if req.Items != nil {
			if err := s.invoiceRepo.ReplaceItems(txCtx, invoice.ID, items); err != nil {
				return fmt.Errorf("failed to update invoice items: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	invoice.Items = items
	return s.toResponse(*invoice), nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, id string, status string) (InvoiceResponse, error) {
	switch status {
	case model.StatusDraft, model.StatusSent, model.StatusPaid, model.StatusOverdue:
	default:
		return InvoiceResponse{}, fmt.Errorf("invalid status %q", status)
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invoice not found: %w", err)
	}

	invoice.Status = status
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to update status: %w", err)
	}

	s.hub.BroadcastEvent(ws.EventInvoiceStatusChanged, map[string]string{
		"id":     invoice.ID.String(),
		"status": status,
	})

	return s.toResponse(*invoice), nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) error {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid invoice id: %w", err)
	}

	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		return fmt.Errorf("invoice not found: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.invoiceRepo.Delete(txCtx, invoiceID); err != nil {
			return fmt.Errorf("failed to delete invoice: %w", err)
		}
		return nil
	})
}

// --- Helpers ---

// parseOrZero coerces unparsable numeric strings to zero instead of
// erroring; the editor feeds raw input through and an empty or garbled
// field means 0, not a rejected request.
func parseOrZero(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// buildItems maps request rows to line items with derived totals, in
// sequence order.
func buildItems(reqs []InvoiceItemRequest) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(reqs))
	for i, it := range reqs {
		quantity := parseOrZero(it.Quantity)
		rate := parseOrZero(it.Rate)
		items = append(items, model.InvoiceItem{
			Description: it.Description,
			Quantity:    quantity,
			Rate:        rate,
			Total:       calc.LineTotal(quantity, rate),
			SortOrder:   i,
		})
	}
	return items
}

// applyTotals recomputes the invoice's derived figures from its items.
func applyTotals(invoice *model.Invoice, items []model.InvoiceItem) {
	lines := make([]calc.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, calc.Line{Quantity: it.Quantity, Rate: it.Rate})
	}
	totals := calc.Totals(lines, invoice.TaxRate, invoice.Discount)
	invoice.Subtotal = totals.Subtotal
	invoice.TaxTotal = totals.TaxTotal
	invoice.Total = totals.Total
}

// generateInvoiceNumber produces a random ten-digit number. Collisions
// are possible under heavy use; the unique index rejects them and a
// retry gets a fresh draw.
func generateInvoiceNumber() string {
	return fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
}

// --- Mapping ---

func (s *invoiceService) toResponse(inv model.Invoice) InvoiceResponse {
	return invoiceToResponse(inv, s.now)
}

func invoiceToResponse(inv model.Invoice, now func() time.Time) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.Date.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Status:        inv.Status,
		IsOverdue:     inv.Status != model.StatusPaid && inv.DueDate.Before(now()),
		Currency:      inv.Currency,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientAddress: inv.ClientAddress,
		ClientPhone:   inv.ClientPhone,
		CompanyName:   inv.CompanyName,
		CompanyEmail:  inv.CompanyEmail,
		Subtotal:      inv.Subtotal.StringFixed(4),
		TaxRate:       inv.TaxRate.StringFixed(4),
		TaxTotal:      inv.TaxTotal.StringFixed(4),
		Discount:      inv.Discount.StringFixed(4),
		Total:         inv.Total.StringFixed(4),
		Notes:         inv.Notes,
		Terms:         inv.Terms,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
	}

	if inv.ClientID != nil {
		id := inv.ClientID.String()
		resp.ClientID = &id
	}

	for _, it := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:          it.ID.String(),
			Description: it.Description,
			Quantity:    it.Quantity.StringFixed(4),
			Rate:        it.Rate.StringFixed(4),
			Total:       it.Total.StringFixed(4),
			SortOrder:   it.SortOrder,
		})
	}

	return resp
}
