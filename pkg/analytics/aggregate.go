package analytics

// GroupTrades buckets fills by position key (conditionId + outcome). It is a
// pure grouping: every fill carrying a condition id and outcome participates,
// nothing is filtered or reordered.
func GroupTrades(trades []Trade) map[string][]Trade {
	groups := make(map[string][]Trade)
	for _, t := range trades {
		if t.ConditionID == "" || t.Outcome == "" {
			continue
		}
		key := t.PositionKey()
		groups[key] = append(groups[key], t)
	}
	return groups
}
