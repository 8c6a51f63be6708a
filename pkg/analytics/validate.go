package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxClockSkew is the tolerated distance into the future for a fill
// timestamp. Anything further ahead is treated as malformed upstream data.
const MaxClockSkew = 60 * time.Second

var priceCeiling = decimal.NewFromInt(1)

// SanitizeTrades is the sole gate between upstream payloads and the P&L
// engine's arithmetic invariants. Malformed records are dropped
// individually, never fatally; the returned count is the number of drops.
// Fills arriving without an identifier get one synthesized.
func SanitizeTrades(trades []Trade, now time.Time) ([]Trade, int) {
	valid := make([]Trade, 0, len(trades))
	dropped := 0
	cutoff := now.Add(MaxClockSkew)

	for _, t := range trades {
		if !validTrade(t, cutoff) {
			dropped++
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		valid = append(valid, t)
	}
	return valid, dropped
}

func validTrade(t Trade, cutoff time.Time) bool {
	if t.Side != SideBuy && t.Side != SideSell {
		return false
	}
	if t.Size.IsNegative() {
		return false
	}
	if t.Price.IsNegative() || t.Price.GreaterThan(priceCeiling) {
		return false
	}
	if t.Timestamp.IsZero() || t.Timestamp.After(cutoff) {
		return false
	}
	return true
}
