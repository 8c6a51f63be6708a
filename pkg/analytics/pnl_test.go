package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

func fill(side, conditionID, outcome, title string, size, price string, ts time.Time) Trade {
	return Trade{
		ID:          "t-" + conditionID + "-" + outcome + "-" + side + "-" + size,
		ConditionID: conditionID,
		Title:       title,
		Outcome:     outcome,
		Side:        side,
		Size:        decimal.RequireFromString(size),
		Price:       decimal.RequireFromString(price),
		Timestamp:   ts,
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	got := AnalyzeAt(nil, nil, testNow)
	want := EmptyAnalysis()

	if !got.WinRate.Equal(want.WinRate) || !got.ProfitFactor.Equal(want.ProfitFactor) || !got.TotalVolume.Equal(want.TotalVolume) {
		t.Fatalf("empty analysis not zeroed: %+v", got)
	}
	if got.TradeCount != 0 {
		t.Fatalf("expected zero trade count, got %d", got.TradeCount)
	}
	if got.Specialty != SectorOther {
		t.Fatalf("expected specialty Other, got %s", got.Specialty)
	}
	if len(got.VolumeHistory) != VolumeHistoryDays {
		t.Fatalf("expected %d buckets, got %d", VolumeHistoryDays, len(got.VolumeHistory))
	}
	for i, b := range got.VolumeHistory {
		if !b.IsZero() {
			t.Fatalf("bucket %d not zero: %s", i, b)
		}
	}
	for _, s := range Sectors() {
		stats, ok := got.SectorBreakdown[s]
		if !ok {
			t.Fatalf("missing sector %s in breakdown", s)
		}
		if stats.Trades != 0 || !stats.WinRate.IsZero() {
			t.Fatalf("sector %s not zeroed: %+v", s, stats)
		}
	}
}

func TestAnalyzeRealizedWin(t *testing.T) {
	trades := []Trade{
		fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.4", testNow.Add(-2*time.Hour)),
		fill(SideSell, "0xabc", "YES", "Will it rain?", "10", "0.6", testNow.Add(-time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	if !got.WinRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("win rate: got %s want 100", got.WinRate)
	}
	// No losses recorded, so the profit factor is the capped sentinel.
	if !got.ProfitFactor.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("profit factor: got %s want 10", got.ProfitFactor)
	}
	if !got.RecentPnL.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("recent pnl: got %s want 2", got.RecentPnL)
	}
	if got.TradeCount != 2 {
		t.Fatalf("trade count: got %d want 2", got.TradeCount)
	}
	if !got.TotalVolume.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("total volume: got %s want 10", got.TotalVolume)
	}
}

func TestAnalyzeBreakEvenCountsAsLoss(t *testing.T) {
	trades := []Trade{
		fill(SideBuy, "0xabc", "YES", "Will it rain?", "10", "0.5", testNow.Add(-2*time.Hour)),
		fill(SideSell, "0xabc", "YES", "Will it rain?", "10", "0.5", testNow.Add(-time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	if !got.WinRate.IsZero() {
		t.Fatalf("break-even should be a loss; win rate got %s", got.WinRate)
	}
	if !got.ProfitFactor.IsZero() {
		t.Fatalf("profit factor: got %s want 0", got.ProfitFactor)
	}
}

func TestAnalyzeHeldResolution(t *testing.T) {
	buy := fill(SideBuy, "0xheld", "YES", "Will it rain?", "100", "0.3", testNow.Add(-24*time.Hour))

	t.Run("own outcome wins", func(t *testing.T) {
		res := map[string]MarketResolutionInfo{
			"0xheld": {Closed: true, Status: ResolutionResolved, WinningOutcome: "YES"},
		}
		got := AnalyzeAt([]Trade{buy}, res, testNow)
		if !got.WinRate.Equal(decimal.NewFromInt(100)) {
			t.Fatalf("win rate: got %s want 100", got.WinRate)
		}
		if !got.RecentPnL.Equal(decimal.NewFromInt(70)) {
			t.Fatalf("pnl: got %s want 70", got.RecentPnL)
		}
	})

	t.Run("opposing outcome wins", func(t *testing.T) {
		res := map[string]MarketResolutionInfo{
			"0xheld": {Closed: true, Status: ResolutionResolved, WinningOutcome: "NO"},
		}
		got := AnalyzeAt([]Trade{buy}, res, testNow)
		if !got.WinRate.IsZero() {
			t.Fatalf("win rate: got %s want 0", got.WinRate)
		}
		if !got.RecentPnL.Equal(decimal.NewFromInt(-30)) {
			t.Fatalf("pnl: got %s want -30", got.RecentPnL)
		}
	})

	t.Run("invalid resolution excluded", func(t *testing.T) {
		res := map[string]MarketResolutionInfo{
			"0xheld": {Closed: true, Status: ResolutionInvalid},
		}
		got := AnalyzeAt([]Trade{buy}, res, testNow)
		if !got.WinRate.IsZero() || !got.RecentPnL.IsZero() {
			t.Fatalf("invalid market must not attribute pnl: winRate=%s pnl=%s", got.WinRate, got.RecentPnL)
		}
	})

	t.Run("unknown resolution excluded", func(t *testing.T) {
		got := AnalyzeAt([]Trade{buy}, nil, testNow)
		if !got.WinRate.IsZero() || !got.RecentPnL.IsZero() {
			t.Fatalf("unresolved holdings must not be guessed: winRate=%s pnl=%s", got.WinRate, got.RecentPnL)
		}
	})
}

func TestAnalyzeDecimalExactness(t *testing.T) {
	trades := make([]Trade, 0, 1000)
	for i := 0; i < 1000; i++ {
		trades = append(trades, fill(SideBuy, "0xexact", "YES", "Will it rain?", "1", "0.1", testNow.Add(-30*time.Minute)))
	}
	got := AnalyzeAt(trades, nil, testNow)

	want := decimal.NewFromInt(100)
	if !got.TotalVolume.Equal(want) {
		t.Fatalf("volume drifted: got %s want exactly 100", got.TotalVolume)
	}
	if !got.VolumeHistory[VolumeHistoryDays-1].Equal(want) {
		t.Fatalf("newest bucket: got %s want exactly 100", got.VolumeHistory[VolumeHistoryDays-1])
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	trades := []Trade{
		fill(SideBuy, "0xa", "YES", "Will BTC hit 100k?", "10", "0.4", testNow.Add(-50*time.Hour)),
		fill(SideSell, "0xa", "YES", "Will BTC hit 100k?", "4", "0.7", testNow.Add(-20*time.Hour)),
		fill(SideBuy, "0xb", "NO", "Lakers vs. Celtics", "25", "0.55", testNow.Add(-3*time.Hour)),
	}
	res := map[string]MarketResolutionInfo{
		"0xb": {Closed: true, Status: ResolutionResolved, WinningOutcome: "NO"},
	}

	first := AnalyzeAt(trades, res, testNow)
	second := AnalyzeAt(trades, res, testNow)

	if !first.WinRate.Equal(second.WinRate) ||
		!first.ProfitFactor.Equal(second.ProfitFactor) ||
		!first.TotalVolume.Equal(second.TotalVolume) ||
		!first.RecentPnL.Equal(second.RecentPnL) ||
		first.Specialty != second.Specialty {
		t.Fatalf("analysis is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	for i := range first.VolumeHistory {
		if !first.VolumeHistory[i].Equal(second.VolumeHistory[i]) {
			t.Fatalf("bucket %d differs between runs", i)
		}
	}
}

func TestAnalyzeBounds(t *testing.T) {
	trades := []Trade{
		fill(SideBuy, "0xa", "YES", "Will BTC hit 100k?", "10", "0.4", testNow.Add(-time.Hour)),
		fill(SideSell, "0xa", "YES", "Will BTC hit 100k?", "10", "0.6", testNow.Add(-time.Hour)),
		fill(SideBuy, "0xb", "YES", "Lakers vs. Celtics", "10", "0.8", testNow.Add(-time.Hour)),
		fill(SideSell, "0xb", "YES", "Lakers vs. Celtics", "10", "0.2", testNow.Add(-time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	if got.WinRate.LessThan(decimal.Zero) || got.WinRate.GreaterThan(decimal.NewFromInt(100)) {
		t.Fatalf("win rate out of bounds: %s", got.WinRate)
	}
	if got.ProfitFactor.LessThan(decimal.Zero) {
		t.Fatalf("profit factor negative: %s", got.ProfitFactor)
	}
	if !got.WinRate.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("win rate: got %s want 50", got.WinRate)
	}
	// One +2 win against one -6 loss.
	if !got.ProfitFactor.Equal(decimal.RequireFromString("0.3333333333333333")) {
		t.Fatalf("profit factor: got %s", got.ProfitFactor)
	}
}

func TestAnalyzeSpecialtyAndSectors(t *testing.T) {
	trades := []Trade{
		fill(SideBuy, "0xpol", "YES", "Will Trump win the election?", "100", "0.5", testNow.Add(-time.Hour)),
		fill(SideSell, "0xpol", "YES", "Will Trump win the election?", "100", "0.6", testNow.Add(-time.Hour)),
		fill(SideBuy, "0xcrypto", "YES", "Will Bitcoin close above 100k?", "10", "0.5", testNow.Add(-time.Hour)),
		fill(SideSell, "0xcrypto", "YES", "Will Bitcoin close above 100k?", "10", "0.4", testNow.Add(-time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	if got.Specialty != SectorPolitics {
		t.Fatalf("specialty: got %s want Politics", got.Specialty)
	}
	pol := got.SectorBreakdown[SectorPolitics]
	if pol.Trades != 1 || !pol.WinRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("politics breakdown: %+v", pol)
	}
	crypto := got.SectorBreakdown[SectorCrypto]
	if crypto.Trades != 1 || !crypto.WinRate.IsZero() {
		t.Fatalf("crypto breakdown: %+v", crypto)
	}
}

func TestAnalyzeMultiOutcomeGrouping(t *testing.T) {
	// Same market, different outcomes: two independent positions.
	trades := []Trade{
		fill(SideBuy, "0xmulti", "YES", "Will it rain?", "10", "0.4", testNow.Add(-time.Hour)),
		fill(SideSell, "0xmulti", "NO", "Will it rain?", "10", "0.6", testNow.Add(-time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	// Neither group has both sides, so nothing is decided.
	if !got.WinRate.IsZero() {
		t.Fatalf("cross-outcome fills must not match: win rate %s", got.WinRate)
	}
	if len(GroupTrades(trades)) != 2 {
		t.Fatalf("expected 2 position groups")
	}
}

func TestVolumeHistoryBuckets(t *testing.T) {
	trades := []Trade{
		// 6.5 days ago: oldest bucket.
		fill(SideBuy, "0xa", "YES", "Will it rain?", "10", "0.5", testNow.Add(-156*time.Hour)),
		// 12 hours ago: newest bucket.
		fill(SideBuy, "0xa", "YES", "Will it rain?", "20", "0.5", testNow.Add(-12*time.Hour)),
		// 8 days ago: outside the window entirely.
		fill(SideBuy, "0xa", "YES", "Will it rain?", "40", "0.5", testNow.Add(-192*time.Hour)),
	}
	got := AnalyzeAt(trades, nil, testNow)

	if !got.VolumeHistory[0].Equal(decimal.NewFromInt(5)) {
		t.Fatalf("oldest bucket: got %s want 5", got.VolumeHistory[0])
	}
	if !got.VolumeHistory[6].Equal(decimal.NewFromInt(10)) {
		t.Fatalf("newest bucket: got %s want 10", got.VolumeHistory[6])
	}
	if !got.TotalVolume.Equal(decimal.NewFromInt(35)) {
		t.Fatalf("total volume counts all fills: got %s want 35", got.TotalVolume)
	}
}
