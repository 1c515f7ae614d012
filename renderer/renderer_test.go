package renderer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/luoyee/wealthfolio"
	"github.com/luoyee/wealthfolio/date"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestMoney(t *testing.T) {
	testCases := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234.5", "USD", "$1,234.50"},
		{"780", "HKD", "HK$780.00"},
		{"0.125", "USD", "$0.13"}, // rounded to cents
	}
	for _, tc := range testCases {
		t.Run(tc.currency+tc.amount, func(t *testing.T) {
			got := Money(dec(t, tc.amount), tc.currency)
			if got != tc.want {
				t.Errorf("Money(%s, %s) = %q, want %q", tc.amount, tc.currency, got, tc.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := wealthfolio.Summary{
		Day: date.MustParse("2023-01-03"),
		Holdings: []wealthfolio.HoldingRow{{
			Symbol: "AAPL", Shares: dec(t, "10"), AvgCost: dec(t, "100"),
			Price: dec(t, "120"), Currency: "USD", Value: dec(t, "1200"),
		}},
		Cash: []wealthfolio.CashRow{{
			Currency: "USD", Balance: dec(t, "500"), Value: dec(t, "500"),
		}},
		Total: dec(t, "1700"),
	}
	md := Summary(s)
	for _, want := range []string{"2023-01-03", "AAPL", "$1,200.00", "$500.00", "$1,700.00"} {
		if !strings.Contains(md, want) {
			t.Errorf("Summary() missing %q:\n%s", want, md)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	md := Summary(wealthfolio.Summary{})
	if !strings.Contains(md, "wf sync") {
		t.Errorf("empty Summary() should point at sync:\n%s", md)
	}
}

func TestTransaction(t *testing.T) {
	stock := wealthfolio.NewStockTx(1, date.MustParse("2023-01-01"), wealthfolio.Buy,
		"AAPL", dec(t, "10"), dec(t, "125.07"), "")
	if got := Transaction(stock); got != "2023-01-01 Bought 10 AAPL at 125.07" {
		t.Errorf("Transaction(stock) = %q", got)
	}
	cash := wealthfolio.NewCurrencyTx(2, date.MustParse("2023-01-02"), wealthfolio.Sell,
		"USD", dec(t, "500"), "withdrawal")
	if got := Transaction(cash); got != "2023-01-02 Sold $500.00" {
		t.Errorf("Transaction(cash) = %q", got)
	}
}

func TestTransactions_IncludesNotes(t *testing.T) {
	cash := wealthfolio.NewCurrencyTx(1, date.MustParse("2023-01-02"), wealthfolio.Sell,
		"USD", dec(t, "500"), "reconcile")
	md := Transactions([]wealthfolio.Transaction{cash})
	if !strings.Contains(md, "(reconcile)") {
		t.Errorf("Transactions() missing note:\n%s", md)
	}
}

func TestTickerHistory(t *testing.T) {
	md := TickerHistory("0700", []wealthfolio.TickerPoint{{
		Day:    date.MustParse("2023-01-01"),
		Shares: dec(t, "100"), AvgCost: dec(t, "300"),
		Close: dec(t, "390"), Currency: "HKD",
		Value: dec(t, "5000"), Return: dec(t, "0.3"),
	}})
	for _, want := range []string{"0700", "2023-01-01", "390", "$5,000.00", "30.00%"} {
		if !strings.Contains(md, want) {
			t.Errorf("TickerHistory() missing %q:\n%s", want, md)
		}
	}
}

func TestTickerHistory_Empty(t *testing.T) {
	md := TickerHistory("MSFT", nil)
	if !strings.Contains(md, "wf sync") {
		t.Errorf("empty TickerHistory() should point at sync:\n%s", md)
	}
}

func TestHistoryAndRates(t *testing.T) {
	history := History([]wealthfolio.AccountPoint{
		{Day: date.MustParse("2023-01-01"), Value: dec(t, "1000")},
	})
	if !strings.Contains(history, "$1,000.00") {
		t.Errorf("History() missing value:\n%s", history)
	}

	rates := Rates([]wealthfolio.RateRow{
		{Currency: "HKD", Day: date.MustParse("2023-01-01"), Rate: dec(t, "7.8123")},
	})
	if !strings.Contains(rates, "7.8123") {
		t.Errorf("Rates() missing rate:\n%s", rates)
	}
}
