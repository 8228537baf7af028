package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRatesFallsBackWhenRemoteFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewCurrencyService(server.URL)

	rates := svc.GetRates(context.Background())
	assert.True(t, rates.Fallback)
	assert.Equal(t, "USD", rates.Base)
	assert.Equal(t, 1.0, rates.Rates["USD"])
	assert.NotEmpty(t, rates.Rates["EUR"])
}

func TestGetRatesCachesRemoteTable(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.5,"GBP":0.8}}`))
	}))
	defer server.Close()

	svc := NewCurrencyService(server.URL)

	first := svc.GetRates(context.Background())
	second := svc.GetRates(context.Background())

	assert.False(t, first.Fallback)
	assert.Equal(t, 0.5, first.Rates["EUR"])
	assert.Equal(t, first.Rates, second.Rates)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestConvertPivotsThroughUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.5,"BRL":5}}`))
	}))
	defer server.Close()

	svc := NewCurrencyService(server.URL)

	// 10 EUR -> 20 USD -> 100 BRL
	result, err := svc.Convert(context.Background(), 10, "EUR", "BRL")
	require.NoError(t, err)
	assert.Equal(t, "EUR", result.From)
	assert.Equal(t, "BRL", result.To)
	assert.InDelta(t, 100, result.Converted, 1e-9)

	identity, err := svc.Convert(context.Background(), 42, "USD", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 42, identity.Converted, 1e-9)
}

func TestConvertRejectsUnknownCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"USD":1}}`))
	}))
	defer server.Close()

	svc := NewCurrencyService(server.URL)

	_, err := svc.Convert(context.Background(), 10, "XYZ", "USD")
	assert.Error(t, err)

	_, err = svc.Convert(context.Background(), 10, "USD", "XYZ")
	assert.Error(t, err)
}

func TestConvertUsesFallbackWhenRemoteUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewCurrencyService(server.URL)

	// Fallback table must still let conversions through.
	result, err := svc.Convert(context.Background(), 100, "USD", "BRL")
	require.NoError(t, err)
	assert.InDelta(t, 500, result.Converted, 1e-9)
}
