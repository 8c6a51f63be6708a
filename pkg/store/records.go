package store

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/walletscope/walletscope-go/pkg/analytics"
)

// Decimals travel as strings inside the payload blob. Encoding them as
// msgpack floats would reintroduce exactly the rounding the analysis engine
// exists to avoid.

type sectorRecord struct {
	Trades  int    `msgpack:"trades"`
	WinRate string `msgpack:"winRate"`
}

type statsRecord struct {
	WinRate         string                  `msgpack:"winRate"`
	ProfitFactor    string                  `msgpack:"profitFactor"`
	TotalVolume     string                  `msgpack:"totalVolume"`
	TradeCount      int                     `msgpack:"tradeCount"`
	SectorBreakdown map[string]sectorRecord `msgpack:"sectorBreakdown"`
	Specialty       string                  `msgpack:"specialty"`
	RecentPnL       string                  `msgpack:"recentPnL"`
	VolumeHistory   []string                `msgpack:"volumeHistory"`
	Badges          []string                `msgpack:"badges"`
}

func encodeStats(stats analytics.TraderStats) ([]byte, error) {
	rec := statsRecord{
		WinRate:         stats.Analysis.WinRate.String(),
		ProfitFactor:    stats.Analysis.ProfitFactor.String(),
		TotalVolume:     stats.Analysis.TotalVolume.String(),
		TradeCount:      stats.Analysis.TradeCount,
		SectorBreakdown: make(map[string]sectorRecord, len(stats.Analysis.SectorBreakdown)),
		Specialty:       string(stats.Analysis.Specialty),
		RecentPnL:       stats.Analysis.RecentPnL.String(),
		VolumeHistory:   make([]string, len(stats.Analysis.VolumeHistory)),
		Badges:          make([]string, len(stats.Badges)),
	}
	for sector, ss := range stats.Analysis.SectorBreakdown {
		rec.SectorBreakdown[string(sector)] = sectorRecord{
			Trades:  ss.Trades,
			WinRate: ss.WinRate.String(),
		}
	}
	for i, v := range stats.Analysis.VolumeHistory {
		rec.VolumeHistory[i] = v.String()
	}
	for i, b := range stats.Badges {
		rec.Badges[i] = string(b)
	}
	return msgpack.Marshal(rec)
}

func decodeStats(payload []byte) (analytics.TraderStats, error) {
	var rec statsRecord
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return analytics.TraderStats{}, err
	}

	var stats analytics.TraderStats
	var err error
	if stats.Analysis.WinRate, err = decimal.NewFromString(rec.WinRate); err != nil {
		return analytics.TraderStats{}, fmt.Errorf("winRate: %w", err)
	}
	if stats.Analysis.ProfitFactor, err = decimal.NewFromString(rec.ProfitFactor); err != nil {
		return analytics.TraderStats{}, fmt.Errorf("profitFactor: %w", err)
	}
	if stats.Analysis.TotalVolume, err = decimal.NewFromString(rec.TotalVolume); err != nil {
		return analytics.TraderStats{}, fmt.Errorf("totalVolume: %w", err)
	}
	if stats.Analysis.RecentPnL, err = decimal.NewFromString(rec.RecentPnL); err != nil {
		return analytics.TraderStats{}, fmt.Errorf("recentPnL: %w", err)
	}
	stats.Analysis.TradeCount = rec.TradeCount
	stats.Analysis.Specialty = analytics.Sector(rec.Specialty)

	stats.Analysis.SectorBreakdown = make(map[analytics.Sector]analytics.SectorStats, len(rec.SectorBreakdown))
	for sector, sr := range rec.SectorBreakdown {
		wr, err := decimal.NewFromString(sr.WinRate)
		if err != nil {
			return analytics.TraderStats{}, fmt.Errorf("sector %s winRate: %w", sector, err)
		}
		stats.Analysis.SectorBreakdown[analytics.Sector(sector)] = analytics.SectorStats{
			Trades:  sr.Trades,
			WinRate: wr,
		}
	}

	stats.Analysis.VolumeHistory = make([]decimal.Decimal, len(rec.VolumeHistory))
	for i, v := range rec.VolumeHistory {
		if stats.Analysis.VolumeHistory[i], err = decimal.NewFromString(v); err != nil {
			return analytics.TraderStats{}, fmt.Errorf("volumeHistory[%d]: %w", i, err)
		}
	}

	stats.Badges = make([]analytics.Badge, len(rec.Badges))
	for i, b := range rec.Badges {
		stats.Badges[i] = analytics.Badge(b)
	}
	return stats, nil
}
