package wealthfolio

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luoyee/wealthfolio/date"
)

func TestEastmoney_Symbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "fs=m:128") {
			http.Error(w, "wrong market selector", http.StatusBadRequest)
			return
		}
		page := r.URL.Query().Get("pn")
		switch page {
		case "1":
			fmt.Fprint(w, `{"data":{"total":3,"diff":[
				{"f12":"00700","f13":116,"f14":"TENCENT"},
				{"f12":"09988","f13":116,"f14":"BABA-W"}]}}`)
		default:
			fmt.Fprint(w, `{"data":{"total":3,"diff":[
				{"f12":"03690","f13":116,"f14":"MEITUAN-W"}]}}`)
		}
	}))
	defer srv.Close()

	p := NewEastmoney(WithEastmoneyBaseURLs(srv.URL, srv.URL))
	symbols, err := p.Symbols(context.Background(), MarketHK)
	if err != nil {
		t.Fatalf("Symbols() error = %v", err)
	}
	if len(symbols) != 3 {
		t.Fatalf("Symbols() = %d listings, want 3 across two pages", len(symbols))
	}
	first := symbols[0]
	if first.Display != "00700" || first.Native != "116.00700" {
		t.Errorf("first symbol = %+v", first)
	}
	for _, sym := range symbols {
		if sym.Currency != "HKD" || sym.Market != MarketHK {
			t.Errorf("symbol %s: currency=%s market=%s, want HKD/HK", sym.Display, sym.Currency, sym.Market)
		}
	}
}

func TestEastmoney_DailyCloses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("secid") != "105.AAPL" {
			http.Error(w, "wrong secid", http.StatusBadRequest)
			return
		}
		if q.Get("beg") != "20230101" || q.Get("end") != "20230104" {
			http.Error(w, "wrong range", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, `{"data":{"code":"AAPL","klines":[
			"2023-01-03,125.07",
			"2023-01-04,126.36"]}}`)
	}))
	defer srv.Close()

	p := NewEastmoney(WithEastmoneyBaseURLs(srv.URL, srv.URL))
	sym := SymbolInfo{Display: "AAPL", Native: "105.AAPL", Market: MarketUS, Currency: "USD"}
	closes, err := p.DailyCloses(context.Background(), sym, date.MustParse("2023-01-01"), date.MustParse("2023-01-04"))
	if err != nil {
		t.Fatalf("DailyCloses() error = %v", err)
	}
	if len(closes) != 2 {
		t.Fatalf("DailyCloses() = %d closes, want 2 (only trading days)", len(closes))
	}
	if closes[0].Day != date.MustParse("2023-01-03") || !closes[0].Close.Equal(dec(t, "125.07")) {
		t.Errorf("first close = %+v", closes[0])
	}
}

func TestEastmoney_MalformedKline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"klines":["garbage"]}}`)
	}))
	defer srv.Close()

	p := NewEastmoney(WithEastmoneyBaseURLs(srv.URL, srv.URL))
	sym := SymbolInfo{Display: "AAPL", Native: "105.AAPL", Market: MarketUS, Currency: "USD"}
	_, err := p.DailyCloses(context.Background(), sym, date.MustParse("2023-01-01"), date.MustParse("2023-01-02"))
	if _, ok := err.(*ProviderError); !ok {
		t.Fatalf("DailyCloses() error = %v, want *ProviderError", err)
	}
}
