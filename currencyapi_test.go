package wealthfolio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luoyee/wealthfolio/date"
)

func TestCurrencyAPI_Rates(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"date":"2023-01-01","usd":{"hkd":7.8123,"cny":6.95,"eur":0.93}}`))
	}))
	defer srv.Close()

	p := NewCurrencyAPI(WithCurrencyAPIBaseURL(srv.URL + "/npm/currency-api"))
	rates, err := p.Rates(context.Background(), date.MustParse("2023-01-01"), []string{"HKD", "CNY", "USD"})
	if err != nil {
		t.Fatalf("Rates() error = %v", err)
	}
	if !strings.Contains(gotPath, "currency-api@2023-01-01/v1/currencies/usd.json") {
		t.Errorf("request path = %q, want the dated dataset", gotPath)
	}
	if len(rates) != 2 {
		t.Fatalf("Rates() = %v, want HKD and CNY only (USD is implicit)", rates)
	}
	if !rates["HKD"].Equal(dec(t, "7.8123")) {
		t.Errorf("HKD = %s, want 7.8123", rates["HKD"])
	}
	if !rates["CNY"].Equal(dec(t, "6.95")) {
		t.Errorf("CNY = %s, want 6.95", rates["CNY"])
	}
}

func TestCurrencyAPI_MissingCurrency(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"date":"2023-01-01","usd":{"eur":0.93}}`))
	}))
	defer srv.Close()

	p := NewCurrencyAPI(WithCurrencyAPIBaseURL(srv.URL + "/npm/currency-api"))
	_, err := p.Rates(context.Background(), date.MustParse("2023-01-01"), []string{"HKD"})
	if _, ok := err.(*ProviderError); !ok {
		t.Fatalf("Rates() error = %v, want *ProviderError", err)
	}
}

func TestCurrencyAPI_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewCurrencyAPI(WithCurrencyAPIBaseURL(srv.URL + "/npm/currency-api"))
	_, err := p.Rates(context.Background(), date.MustParse("2023-01-01"), []string{"HKD"})
	if _, ok := err.(*ProviderError); !ok {
		t.Fatalf("Rates() error = %v, want *ProviderError", err)
	}
}
