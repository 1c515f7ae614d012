package wealthfolio

import (
	"errors"
	"testing"

	"github.com/luoyee/wealthfolio/date"
)

func TestRateBook_USDIsAlwaysOne(t *testing.T) {
	rates := make(RateBook)
	r, err := rates.Rate("USD", date.MustParse("2023-01-01"))
	if err != nil {
		t.Fatalf("Rate(USD) error = %v", err)
	}
	if !r.Equal(dec(t, "1")) {
		t.Errorf("Rate(USD) = %s, want 1", r)
	}
}

func TestRateBook_NoForwardFill(t *testing.T) {
	rates := make(RateBook)
	rates.Add("HKD", date.MustParse("2023-01-01"), dec(t, "7.8"))

	if _, err := rates.Rate("HKD", date.MustParse("2023-01-01")); err != nil {
		t.Fatalf("Rate() on the stored day error = %v", err)
	}
	_, err := rates.Rate("HKD", date.MustParse("2023-01-02"))
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("Rate() on a gap = %v, want *MissingRateError", err)
	}
	if missing.Currency != "HKD" || missing.Day != date.MustParse("2023-01-02") {
		t.Errorf("MissingRateError = %+v", missing)
	}
}

func TestPriceBook_ForwardFills(t *testing.T) {
	prices := make(PriceBook)
	prices.Add("AAPL", date.MustParse("2023-01-03"), dec(t, "125.07"), "USD")

	p, err := prices.PriceAsOf("AAPL", date.MustParse("2023-01-05"))
	if err != nil {
		t.Fatalf("PriceAsOf() error = %v", err)
	}
	if !p.Price.Equal(dec(t, "125.07")) {
		t.Errorf("PriceAsOf() = %s, want the last known close", p.Price)
	}

	_, err = prices.PriceAsOf("AAPL", date.MustParse("2023-01-02"))
	var missing *MissingPriceError
	if !errors.As(err, &missing) {
		t.Fatalf("PriceAsOf() before first close = %v, want *MissingPriceError", err)
	}
}

func TestRebuildAccountValues_USDOnly(t *testing.T) {
	snapshots := []Snapshot{
		{Day: date.MustParse("2023-01-01"), Asset: AssetKey{Currency, "USD"}, Balance: dec(t, "1000")},
		{Day: date.MustParse("2023-01-02"), Asset: AssetKey{Currency, "USD"}, Balance: dec(t, "1000")},
	}
	points, err := RebuildAccountValues(snapshots, make(PriceBook), make(RateBook))
	if err != nil {
		t.Fatalf("RebuildAccountValues() error = %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	for _, p := range points {
		if !p.Value.Equal(dec(t, "1000")) {
			t.Errorf("value on %s = %s, want 1000", p.Day, p.Value)
		}
	}
}

func TestRebuildAccountValues_ConvertsWithDailyRate(t *testing.T) {
	day := date.MustParse("2023-01-01")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Currency, "HKD"}, Balance: dec(t, "780")},
	}
	rates := make(RateBook)
	rates.Add("HKD", day, dec(t, "7.8"))

	points, err := RebuildAccountValues(snapshots, make(PriceBook), rates)
	if err != nil {
		t.Fatalf("RebuildAccountValues() error = %v", err)
	}
	if !points[0].Value.Equal(dec(t, "100")) {
		t.Errorf("value = %s, want 100 (780 HKD / 7.8)", points[0].Value)
	}
}

func TestRebuildAccountValues_TickerMarkedAtClose(t *testing.T) {
	day := date.MustParse("2023-01-03")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Ticker, "0700"}, Shares: dec(t, "100"), AvgCost: dec(t, "300")},
	}
	prices := make(PriceBook)
	prices.Add("0700", day, dec(t, "390"), "HKD")
	rates := make(RateBook)
	rates.Add("HKD", day, dec(t, "7.8"))

	points, err := RebuildAccountValues(snapshots, prices, rates)
	if err != nil {
		t.Fatalf("RebuildAccountValues() error = %v", err)
	}
	// 100 shares * 390 HKD / 7.8 = 5000 USD
	if !points[0].Value.Equal(dec(t, "5000")) {
		t.Errorf("value = %s, want 5000", points[0].Value)
	}
}

func TestRebuildAccountValues_MissingRateAborts(t *testing.T) {
	day := date.MustParse("2023-01-01")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Currency, "CNY"}, Balance: dec(t, "100")},
	}
	_, err := RebuildAccountValues(snapshots, make(PriceBook), make(RateBook))
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("RebuildAccountValues() error = %v, want *MissingRateError", err)
	}
}

func TestRebuildAccountValues_ClosedPositionNeedsNoPrice(t *testing.T) {
	day := date.MustParse("2023-01-01")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Ticker, "AAPL"}}, // zero shares, no price known
	}
	points, err := RebuildAccountValues(snapshots, make(PriceBook), make(RateBook))
	if err != nil {
		t.Fatalf("RebuildAccountValues() error = %v", err)
	}
	if !points[0].Value.IsZero() {
		t.Errorf("value = %s, want 0", points[0].Value)
	}
}

func TestRebuildAccountValues_NoLookahead(t *testing.T) {
	// A close known only on the 2nd must not leak into the value of the 1st.
	d1, d2 := date.MustParse("2023-01-01"), date.MustParse("2023-01-02")
	snapshots := []Snapshot{
		{Day: d1, Asset: AssetKey{Ticker, "AAPL"}, Shares: dec(t, "1"), AvgCost: dec(t, "100")},
		{Day: d2, Asset: AssetKey{Ticker, "AAPL"}, Shares: dec(t, "1"), AvgCost: dec(t, "100")},
	}
	prices := make(PriceBook)
	prices.Add("AAPL", d2, dec(t, "999"), "USD")

	_, err := RebuildAccountValues(snapshots, prices, make(RateBook))
	var missing *MissingPriceError
	if !errors.As(err, &missing) {
		t.Fatalf("RebuildAccountValues() error = %v, want *MissingPriceError for the first day", err)
	}
	if missing.Day != d1 {
		t.Errorf("MissingPriceError.Day = %s, want %s", missing.Day, d1)
	}
}

func TestTickerSeries(t *testing.T) {
	d1, d2, d3 := date.MustParse("2023-01-01"), date.MustParse("2023-01-02"), date.MustParse("2023-01-03")
	key := AssetKey{Ticker, "0700"}
	snapshots := []Snapshot{
		{Day: d1, Asset: key, Shares: dec(t, "100"), AvgCost: dec(t, "300")},
		{Day: d2, Asset: key, Shares: dec(t, "100"), AvgCost: dec(t, "300")},
		{Day: d3, Asset: key}, // position closed
	}
	prices := make(PriceBook)
	prices.Add("0700", d1, dec(t, "390"), "HKD")
	rates := make(RateBook)
	rates.Add("HKD", d1, dec(t, "7.8"))
	rates.Add("HKD", d2, dec(t, "7.8"))

	points, err := TickerSeries(snapshots, prices, rates)
	if err != nil {
		t.Fatalf("TickerSeries() error = %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	// 100 shares * 390 HKD / 7.8 = 5000 USD
	if !points[0].Value.Equal(dec(t, "5000")) {
		t.Errorf("value on %s = %s, want 5000", points[0].Day, points[0].Value)
	}
	// the close carries forward over the quote gap on the 2nd
	if !points[1].Close.Equal(dec(t, "390")) {
		t.Errorf("close on %s = %s, want 390", points[1].Day, points[1].Close)
	}
	// (390 - 300) / 300 = 0.3
	if !points[1].Return.Equal(dec(t, "0.3")) {
		t.Errorf("return on %s = %s, want 0.3", points[1].Day, points[1].Return)
	}
	// the closed day needs no quote and carries no value or return
	if !points[2].Value.IsZero() || !points[2].Return.IsZero() {
		t.Errorf("closed day = %+v, want zero value and return", points[2])
	}
}

func TestTickerSeries_MissingRateAborts(t *testing.T) {
	day := date.MustParse("2023-01-01")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Ticker, "0700"}, Shares: dec(t, "1"), AvgCost: dec(t, "300")},
	}
	prices := make(PriceBook)
	prices.Add("0700", day, dec(t, "390"), "HKD")

	_, err := TickerSeries(snapshots, prices, make(RateBook))
	var missing *MissingRateError
	if !errors.As(err, &missing) {
		t.Fatalf("TickerSeries() error = %v, want *MissingRateError", err)
	}
}

func TestTickerSeries_RejectsCashRows(t *testing.T) {
	snapshots := []Snapshot{
		{Day: date.MustParse("2023-01-01"), Asset: AssetKey{Currency, "USD"}, Balance: dec(t, "1")},
	}
	_, err := TickerSeries(snapshots, make(PriceBook), make(RateBook))
	if _, ok := err.(*IntegrityError); !ok {
		t.Fatalf("TickerSeries() error = %v, want *IntegrityError", err)
	}
}

func TestSummarize(t *testing.T) {
	day := date.MustParse("2023-01-03")
	snapshots := []Snapshot{
		{Day: day, Asset: AssetKey{Ticker, "AAPL"}, Shares: dec(t, "10"), AvgCost: dec(t, "100")},
		{Day: day, Asset: AssetKey{Ticker, "MSFT"}}, // closed, must not show
		{Day: day, Asset: AssetKey{Currency, "USD"}, Balance: dec(t, "500")},
	}
	prices := make(PriceBook)
	prices.Add("AAPL", day, dec(t, "120"), "USD")

	summary, err := Summarize(snapshots, prices, make(RateBook))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if summary.Day != day {
		t.Errorf("Day = %s, want %s", summary.Day, day)
	}
	if len(summary.Holdings) != 1 || summary.Holdings[0].Symbol != "AAPL" {
		t.Fatalf("Holdings = %+v, want only AAPL", summary.Holdings)
	}
	if len(summary.Cash) != 1 || summary.Cash[0].Currency != "USD" {
		t.Fatalf("Cash = %+v, want only USD", summary.Cash)
	}
	if !summary.Total.Equal(dec(t, "1700")) {
		t.Errorf("Total = %s, want 1700", summary.Total)
	}
}
