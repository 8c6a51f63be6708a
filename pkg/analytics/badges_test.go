package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
)

func hasBadge(badges []Badge, want Badge) bool {
	for _, b := range badges {
		if b == want {
			return true
		}
	}
	return false
}

func TestAssignBadgesWhaleOnly(t *testing.T) {
	analysis := EmptyAnalysis()
	analysis.TotalVolume = decimal.NewFromInt(150000)

	badges := AssignBadges(analysis)
	if len(badges) != 1 || badges[0] != BadgeWhale {
		t.Fatalf("expected [Whale], got %v", badges)
	}
}

func TestAssignBadgesThresholds(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*TradeAnalysis)
		want    Badge
		present bool
	}{
		{"whale at threshold", func(a *TradeAnalysis) { a.TotalVolume = decimal.NewFromInt(100000) }, BadgeWhale, true},
		{"whale below threshold", func(a *TradeAnalysis) { a.TotalVolume = decimal.RequireFromString("99999.99") }, BadgeWhale, false},
		{"sniper", func(a *TradeAnalysis) { a.WinRate = decimal.NewFromInt(65); a.TradeCount = 10 }, BadgeSniper, true},
		{"sniper too few fills", func(a *TradeAnalysis) { a.WinRate = decimal.NewFromInt(90); a.TradeCount = 9 }, BadgeSniper, false},
		{"high volume", func(a *TradeAnalysis) { a.TradeCount = 50 }, BadgeHighVolume, true},
		{"hot streak", func(a *TradeAnalysis) { a.WinRate = decimal.NewFromInt(70); a.TradeCount = 5 }, BadgeHotStreak, true},
		{"hot streak cold", func(a *TradeAnalysis) { a.WinRate = decimal.RequireFromString("69.9"); a.TradeCount = 5 }, BadgeHotStreak, false},
		{"specialist", func(a *TradeAnalysis) {
			a.Specialty = SectorPolitics
			a.SectorBreakdown[SectorPolitics] = SectorStats{Trades: 10, WinRate: decimal.Zero}
		}, BadgeSpecialist, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := EmptyAnalysis()
			tc.mutate(&analysis)
			got := hasBadge(AssignBadges(analysis), tc.want)
			if got != tc.present {
				t.Fatalf("badge %s: present=%t want %t", tc.want, got, tc.present)
			}
		})
	}
}

func TestAssignBadgesStack(t *testing.T) {
	analysis := EmptyAnalysis()
	analysis.TotalVolume = decimal.NewFromInt(200000)
	analysis.WinRate = decimal.NewFromInt(80)
	analysis.TradeCount = 60
	analysis.Specialty = SectorCrypto
	analysis.SectorBreakdown[SectorCrypto] = SectorStats{Trades: 25, WinRate: decimal.NewFromInt(80)}

	badges := AssignBadges(analysis)
	for _, want := range []Badge{BadgeWhale, BadgeSniper, BadgeHighVolume, BadgeHotStreak, BadgeSpecialist} {
		if !hasBadge(badges, want) {
			t.Fatalf("expected %s in %v", want, badges)
		}
	}
}
