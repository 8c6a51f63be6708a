package gamma

import (
	"encoding/json"
	"strings"

	"github.com/walletscope/walletscope-go/pkg/analytics"
)

// Market is the Gamma wire shape. Outcomes and OutcomePrices arrive as
// stringified JSON arrays.
type Market struct {
	ID                  string `json:"id"`
	ConditionID         string `json:"conditionId"`
	Question            string `json:"question"`
	Slug                string `json:"slug"`
	Outcomes            string `json:"outcomes"`
	OutcomePrices       string `json:"outcomePrices"`
	Active              bool   `json:"active"`
	Closed              bool   `json:"closed"`
	UMAResolutionStatus string `json:"umaResolutionStatus"`
}

// MarketsRequest filters the /markets endpoint.
type MarketsRequest struct {
	ConditionIDs []string
	Closed       *bool
	Limit        int
	Offset       int
}

// OutcomeList decodes the stringified outcomes array.
func (m Market) OutcomeList() []string {
	return decodeStringArray(m.Outcomes)
}

// WinningOutcome returns the outcome whose settlement price is 1, or "" if
// the market has not settled that way.
func (m Market) WinningOutcome() string {
	outcomes := m.OutcomeList()
	prices := decodeStringArray(m.OutcomePrices)
	for i, p := range prices {
		if i >= len(outcomes) {
			break
		}
		if p == "1" || p == "1.0" {
			return outcomes[i]
		}
	}
	return ""
}

// ResolutionInfo collapses the Gamma fields into the fact record the
// analytics core consumes. Unknown or in-flight UMA states are reported as
// unresolved so held positions stay out of win/loss tallies.
func (m Market) ResolutionInfo() analytics.MarketResolutionInfo {
	info := analytics.MarketResolutionInfo{
		Closed: m.Closed,
		Status: analytics.ResolutionUnresolved,
	}
	switch strings.ToLower(m.UMAResolutionStatus) {
	case "resolved":
		if winner := m.WinningOutcome(); winner != "" {
			info.Status = analytics.ResolutionResolved
			info.WinningOutcome = winner
		}
	case "invalid", "deleted":
		info.Status = analytics.ResolutionInvalid
	}
	return info
}

// ResolutionMap indexes resolution facts by condition id.
func ResolutionMap(markets []Market) map[string]analytics.MarketResolutionInfo {
	out := make(map[string]analytics.MarketResolutionInfo, len(markets))
	for _, m := range markets {
		if m.ConditionID == "" {
			continue
		}
		out[m.ConditionID] = m.ResolutionInfo()
	}
	return out
}

func decodeStringArray(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
