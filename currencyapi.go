package wealthfolio

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio/date"
)

// DefaultCurrencyAPIBaseURL is the jsdelivr mirror of the free currency-api
// dataset. One JSON document per day holds every rate against the US dollar.
const DefaultCurrencyAPIBaseURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api"

// CurrencyAPI fetches daily exchange rates from the fawazahmed0 currency-api
// dataset. Rates come back as units of foreign currency per one US dollar,
// exactly the quoting the valuation expects.
type CurrencyAPI struct {
	client  *webClient
	baseURL string
}

// CurrencyAPIOption configures a CurrencyAPI.
type CurrencyAPIOption func(*CurrencyAPI)

// WithCurrencyAPIBaseURL overrides the dataset URL, for tests.
func WithCurrencyAPIBaseURL(u string) CurrencyAPIOption {
	return func(p *CurrencyAPI) { p.baseURL = strings.TrimSuffix(u, "/") }
}

// NewCurrencyAPI creates the rate provider.
func NewCurrencyAPI(opts ...CurrencyAPIOption) *CurrencyAPI {
	p := &CurrencyAPI{
		client:  newWebClient(4, 30*time.Second),
		baseURL: DefaultCurrencyAPIBaseURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Rates fetches the USD rate sheet for one day and picks out the requested
// currencies. USD itself is skipped; its rate is one by definition.
func (p *CurrencyAPI) Rates(ctx context.Context, day date.Date, currencies []string) (map[string]decimal.Decimal, error) {
	// e.g. .../currency-api@2024-03-01/v1/currencies/usd.json
	addr := fmt.Sprintf("%s@%s/v1/currencies/usd.json", p.baseURL, day)

	var payload struct {
		Date string                     `json:"date"`
		USD  map[string]decimal.Decimal `json:"usd"`
	}
	if err := p.client.getJSON(ctx, addr, &payload); err != nil {
		return nil, &ProviderError{Provider: "currency-api", Err: err}
	}

	rates := make(map[string]decimal.Decimal, len(currencies))
	for _, currency := range currencies {
		if currency == ReferenceCurrency {
			continue
		}
		rate, ok := payload.USD[strings.ToLower(currency)]
		if !ok {
			return nil, &ProviderError{
				Provider: "currency-api",
				Err:      fmt.Errorf("no %s rate on %s", currency, day),
			}
		}
		if !rate.IsPositive() {
			return nil, &ProviderError{
				Provider: "currency-api",
				Err:      fmt.Errorf("non-positive %s rate %s on %s", currency, rate, day),
			}
		}
		rates[currency] = rate
	}
	return rates, nil
}
