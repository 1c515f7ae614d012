package wealthfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// Eastmoney serves symbol listings and daily closing prices from the
// eastmoney.com quote API, which covers both US and Hong Kong listings
// without an API key.
type Eastmoney struct {
	client      *webClient
	listBaseURL string
	histBaseURL string
}

// EastmoneyOption configures an Eastmoney provider.
type EastmoneyOption func(*Eastmoney)

// WithEastmoneyBaseURLs overrides the listing and history endpoints, for tests.
func WithEastmoneyBaseURLs(list, hist string) EastmoneyOption {
	return func(p *Eastmoney) {
		p.listBaseURL = strings.TrimSuffix(list, "/")
		p.histBaseURL = strings.TrimSuffix(hist, "/")
	}
}

// NewEastmoney creates the price provider.
func NewEastmoney(opts ...EastmoneyOption) *Eastmoney {
	p := &Eastmoney{
		client:      newWebClient(2, 30*time.Second),
		listBaseURL: "https://push2.eastmoney.com",
		histBaseURL: "https://push2his.eastmoney.com",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// market selectors of the clist endpoint. US listings are spread over three
// internal market numbers, Hong Kong over one.
var marketSelectors = map[Market]string{
	MarketUS: "m:105,m:106,m:107",
	MarketHK: "m:128",
}

// marketCurrencies maps a market to the currency its prices are quoted in.
var marketCurrencies = map[Market]string{
	MarketUS: "USD",
	MarketHK: "HKD",
}

const listPageSize = 1000

// Symbols lists every ticker trading on a market. The endpoint pages, so the
// listing is fetched page by page until the reported total is reached.
func (p *Eastmoney) Symbols(ctx context.Context, market Market) ([]SymbolInfo, error) {
	selector, ok := marketSelectors[market]
	if !ok {
		return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("unknown market %q", market)}
	}
	currency := marketCurrencies[market]

	var symbols []SymbolInfo
	for page := 1; ; page++ {
		addr := fmt.Sprintf("%s/api/qt/clist/get?pn=%d&pz=%d&po=1&np=1&fltt=2&invt=2&fid=f12&fs=%s&fields=f12,f13,f14",
			p.listBaseURL, page, listPageSize, selector)

		var payload struct {
			Data struct {
				Total int `json:"total"`
				Diff  []struct {
					Code   string      `json:"f12"`
					Market json.Number `json:"f13"`
					Name   string      `json:"f14"`
				} `json:"diff"`
			} `json:"data"`
		}
		if err := p.client.getJSON(ctx, addr, &payload); err != nil {
			return nil, &ProviderError{Provider: "eastmoney", Err: err}
		}
		if len(payload.Data.Diff) == 0 {
			break
		}
		for _, row := range payload.Data.Diff {
			symbols = append(symbols, SymbolInfo{
				Display:  row.Code,
				Native:   row.Market.String() + "." + row.Code,
				Market:   market,
				Currency: currency,
			})
		}
		if len(symbols) >= payload.Data.Total {
			break
		}
	}
	return symbols, nil
}

// DailyCloses fetches a ticker's daily closing prices over a date range.
// Only trading days come back; weekends and holidays are simply absent from
// the series.
func (p *Eastmoney) DailyCloses(ctx context.Context, symbol SymbolInfo, from, to date.Date) ([]ClosePrice, error) {
	addr := fmt.Sprintf("%s/api/qt/stock/kline/get?secid=%s&klt=101&fqt=1&beg=%s&end=%s&fields1=f1,f2,f3&fields2=f51,f53",
		p.histBaseURL, symbol.Native, from.Fmt("20060102"), to.Fmt("20060102"))

	var jobj any
	if err := p.client.getJSON(ctx, addr, &jobj); err != nil {
		return nil, &ProviderError{Provider: "eastmoney", Err: err}
	}
	// each kline is a comma-joined string, "2023-01-03,125.07"
	jval, err := jsonpath.Get("$.data.klines", jobj)
	if err != nil {
		return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("no klines for %s: %w", symbol.Display, err)}
	}
	jlines, ok := jval.([]any)
	if !ok {
		return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("unexpected klines payload for %s", symbol.Display)}
	}

	closes := make([]ClosePrice, 0, len(jlines))
	for _, jline := range jlines {
		line, ok := jline.(string)
		if !ok {
			return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("unexpected kline entry for %s", symbol.Display)}
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("malformed kline %q for %s", line, symbol.Display)}
		}
		day, err := date.Parse(fields[0])
		if err != nil {
			return nil, &ProviderError{Provider: "eastmoney", Err: err}
		}
		closePrice, err := decimal.NewFromString(fields[1])
		if err != nil {
			return nil, &ProviderError{Provider: "eastmoney", Err: fmt.Errorf("malformed close %q for %s", fields[1], symbol.Display)}
		}
		closes = append(closes, ClosePrice{Day: day, Close: closePrice})
	}
	return closes, nil
}
