package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const (
	defaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"
	ratesCacheTTL   = time.Hour
)

// fallbackRates is the static USD-pivot table used when the remote
// source is unreachable. Conversions degrade to stale approximations
// instead of failing.
var fallbackRates = map[string]float64{
	"USD": 1,
	"BRL": 5.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"JPY": 149.5,
	"ARS": 850,
	"CLP": 900,
	"MXN": 17.2,
	"CAD": 1.36,
	"AUD": 1.53,
}

// --- DTOs ---

type RatesResponse struct {
	Base        string             `json:"base"`
	Rates       map[string]float64 `json:"rates"`
	LastUpdated string             `json:"last_updated"`
	Fallback    bool               `json:"fallback"` // true when the static table is in use
}

type ConversionResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
}

// --- Interface ---

// CurrencyService serves USD-pivot exchange rates for display-only
// conversion. It never returns a fetch error to callers: a failed
// remote call falls back to the static table.
type CurrencyService interface {
	GetRates(ctx context.Context) RatesResponse
	Convert(ctx context.Context, amount float64, from, to string) (ConversionResponse, error)
}

type currencyService struct {
	apiURL string
	client *http.Client

	mu        sync.RWMutex
	cached    RatesResponse
	fetchedAt time.Time
}

func NewCurrencyService(apiURL string) CurrencyService {
	if apiURL == "" {
		apiURL = defaultRatesURL
	}
	return &currencyService{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// --- Implementation ---

func (s *currencyService) GetRates(ctx context.Context) RatesResponse {
	s.mu.RLock()
	if s.cached.Rates != nil && time.Since(s.fetchedAt) < ratesCacheTTL {
		cached := s.cached
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	rates, err := s.fetchRates(ctx)
	if err != nil {
		log.Println("currency: rate fetch failed, using fallback table:", err)
		return RatesResponse{
			Base:        "USD",
			Rates:       fallbackRates,
			LastUpdated: time.Now().UTC().Format(time.RFC3339),
			Fallback:    true,
		}
	}

	s.mu.Lock()
	s.cached = rates
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	return rates
}

// Convert pivots through USD: amount / rates[from] * rates[to].
func (s *currencyService) Convert(ctx context.Context, amount float64, from, to string) (ConversionResponse, error) {
	rates := s.GetRates(ctx)

	fromRate, ok := rates.Rates[from]
	if !ok || fromRate == 0 {
		return ConversionResponse{}, fmt.Errorf("unknown currency %q", from)
	}
	toRate, ok := rates.Rates[to]
	if !ok {
		return ConversionResponse{}, fmt.Errorf("unknown currency %q", to)
	}

	inUSD := amount / fromRate
	return ConversionResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Converted: inUSD * toRate,
	}, nil
}

func (s *currencyService) fetchRates(ctx context.Context) (RatesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL, nil)
	if err != nil {
		return RatesResponse{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return RatesResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RatesResponse{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Base  string             `json:"base"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return RatesResponse{}, err
	}
	if len(body.Rates) == 0 {
		return RatesResponse{}, fmt.Errorf("empty rate table")
	}

	return RatesResponse{
		Base:        "USD",
		Rates:       body.Rates,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
