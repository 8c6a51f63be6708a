package data

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/walletscope/walletscope-go/pkg/transport"
)

const (
	defaultPageSize = 500
	maxPages        = 40
)

type clientImpl struct {
	transport *transport.Client
}

func (c *clientImpl) Health(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.transport.GetJSON(ctx, "/", nil, &out)
	return out, err
}

func (c *clientImpl) Trades(ctx context.Context, req *TradesRequest) ([]Trade, error) {
	if req == nil {
		req = &TradesRequest{}
	}
	q := url.Values{}
	if req.User != "" {
		q.Set("user", req.User)
	}
	if req.Market != "" {
		q.Set("market", req.Market)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}
	if req.TakerOnly {
		q.Set("takerOnly", "true")
	}

	var out []Trade
	if err := c.transport.GetJSON(ctx, "/trades", q, &out); err != nil {
		return nil, fmt.Errorf("trades query failed: %w", err)
	}
	return out, nil
}

func (c *clientImpl) TradesAll(ctx context.Context, req *TradesRequest) ([]Trade, error) {
	if req == nil {
		req = &TradesRequest{}
	}
	page := *req
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	page.Offset = 0

	var all []Trade
	for i := 0; i < maxPages; i++ {
		batch, err := c.Trades(ctx, &page)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < page.Limit {
			return all, nil
		}
		page.Offset += page.Limit
	}
	return all, nil
}

func (c *clientImpl) Positions(ctx context.Context, req *PositionsRequest) ([]Position, error) {
	if req == nil {
		req = &PositionsRequest{}
	}
	q := url.Values{}
	if req.User != "" {
		q.Set("user", req.User)
	}
	if req.Market != "" {
		q.Set("market", req.Market)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	var out []Position
	if err := c.transport.GetJSON(ctx, "/positions", q, &out); err != nil {
		return nil, fmt.Errorf("positions query failed: %w", err)
	}
	return out, nil
}

func (c *clientImpl) Value(ctx context.Context, req *ValueRequest) (ValueResponse, error) {
	q := url.Values{}
	if req != nil && req.User != "" {
		q.Set("user", req.User)
	}
	var out ValueResponse
	if err := c.transport.GetJSON(ctx, "/value", q, &out); err != nil {
		return ValueResponse{}, fmt.Errorf("value query failed: %w", err)
	}
	return out, nil
}
