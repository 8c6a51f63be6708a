package gamma

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/walletscope/walletscope-go/pkg/transport"
)

// conditionIDChunk keeps repeated condition_ids params within URL limits.
const conditionIDChunk = 20

type clientImpl struct {
	transport *transport.Client
}

func (c *clientImpl) Markets(ctx context.Context, req *MarketsRequest) ([]Market, error) {
	if req == nil {
		req = &MarketsRequest{}
	}
	q := url.Values{}
	for _, id := range req.ConditionIDs {
		q.Add("condition_ids", id)
	}
	if req.Closed != nil {
		q.Set("closed", strconv.FormatBool(*req.Closed))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	var out []Market
	if err := c.transport.GetJSON(ctx, "/markets", q, &out); err != nil {
		return nil, fmt.Errorf("markets query failed: %w", err)
	}
	return out, nil
}

func (c *clientImpl) MarketsByConditionIDs(ctx context.Context, conditionIDs []string) ([]Market, error) {
	var all []Market
	for start := 0; start < len(conditionIDs); start += conditionIDChunk {
		end := start + conditionIDChunk
		if end > len(conditionIDs) {
			end = len(conditionIDs)
		}
		batch, err := c.Markets(ctx, &MarketsRequest{ConditionIDs: conditionIDs[start:end]})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}
