package gamma

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/walletscope/walletscope-go/pkg/analytics"
	"github.com/walletscope/walletscope-go/pkg/transport"
)

type staticDoer struct {
	responses map[string]string
}

func (d *staticDoer) Do(req *http.Request) (*http.Response, error) {
	key := req.URL.Path
	if req.URL.RawQuery != "" {
		key += "?" + req.URL.RawQuery
	}
	payload, ok := d.responses[key]
	if !ok {
		return nil, fmt.Errorf("unexpected request %q", key)
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString(payload)),
		Header:     make(http.Header),
	}, nil
}

func TestMarketsByConditionIDs(t *testing.T) {
	doer := &staticDoer{responses: map[string]string{
		"/markets?condition_ids=0xcond": `[{"conditionId":"0xcond","question":"Will it rain?","closed":true,"umaResolutionStatus":"resolved","outcomes":"[\"Yes\",\"No\"]","outcomePrices":"[\"1\",\"0\"]"}]`,
	}}
	client := NewClient(transport.NewClient(doer, BaseURL))

	markets, err := client.MarketsByConditionIDs(context.Background(), []string{"0xcond"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("markets: got %d want 1", len(markets))
	}
	if got := markets[0].WinningOutcome(); got != "Yes" {
		t.Fatalf("winning outcome: got %q want Yes", got)
	}
}

func TestResolutionInfo(t *testing.T) {
	cases := []struct {
		name   string
		market Market
		want   analytics.MarketResolutionInfo
	}{
		{
			"resolved",
			Market{ConditionID: "a", Closed: true, UMAResolutionStatus: "resolved", Outcomes: `["Yes","No"]`, OutcomePrices: `["0","1"]`},
			analytics.MarketResolutionInfo{Closed: true, Status: analytics.ResolutionResolved, WinningOutcome: "No"},
		},
		{
			"invalid",
			Market{ConditionID: "b", Closed: true, UMAResolutionStatus: "invalid"},
			analytics.MarketResolutionInfo{Closed: true, Status: analytics.ResolutionInvalid},
		},
		{
			"open",
			Market{ConditionID: "c", Closed: false, UMAResolutionStatus: "initialized"},
			analytics.MarketResolutionInfo{Closed: false, Status: analytics.ResolutionUnresolved},
		},
		{
			"resolved status without settlement prices",
			Market{ConditionID: "d", Closed: true, UMAResolutionStatus: "resolved", Outcomes: `["Yes","No"]`, OutcomePrices: `["0.5","0.5"]`},
			analytics.MarketResolutionInfo{Closed: true, Status: analytics.ResolutionUnresolved},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.market.ResolutionInfo()
			if got != tc.want {
				t.Fatalf("got %+v want %+v", got, tc.want)
			}
		})
	}
}

func TestResolutionMap(t *testing.T) {
	markets := []Market{
		{ConditionID: "a", Closed: true, UMAResolutionStatus: "resolved", Outcomes: `["Yes"]`, OutcomePrices: `["1"]`},
		{ConditionID: ""},
	}
	got := ResolutionMap(markets)
	if len(got) != 1 {
		t.Fatalf("map size: got %d want 1", len(got))
	}
	if got["a"].Status != analytics.ResolutionResolved {
		t.Fatalf("status: %+v", got["a"])
	}
}
