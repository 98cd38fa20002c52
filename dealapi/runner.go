package dealapi

import (
	"context"
	"fmt"
	"strconv"

	"github.com/golang/glog"
)

// Runner drives one deal-check batch: one fetch per row, strictly sequential,
// each row's outcome recorded and never aborting the batch.
type Runner struct {
	client *Client
}

func NewRunner(client *Client) *Runner {
	return &Runner{client: client}
}

// Run compares every sheet row against the remote API. Rows without a numeric
// Deal Meta ID are SKIPPED before any call; fetch failures become ERROR rows.
func (r *Runner) Run(ctx context.Context, deals []SheetDeal, authToken string) []RowResult {
	results := make([]RowResult, 0, len(deals))
	for i, deal := range deals {
		result := r.runOne(ctx, deal, authToken)
		results = append(results, result)
		glog.Infof("deal check %d/%d: deal %q -> %s", i+1, len(deals), deal.MetaID, result.Status)
	}
	return results
}

func (r *Runner) runOne(ctx context.Context, deal SheetDeal, authToken string) RowResult {
	dealID, err := strconv.ParseInt(deal.MetaID, 10, 64)
	if deal.MetaID == "" || err != nil {
		return RowResult{
			DealID:   deal.MetaID,
			Status:   RowSkipped,
			Comments: "missing or non-numeric Deal Meta ID",
		}
	}

	detail, err := r.client.GetDeal(ctx, dealID, authToken)
	if err != nil {
		glog.Warningf("deal %d: API request failed: %v", dealID, err)
		return RowResult{
			DealID:   deal.MetaID,
			Status:   RowError,
			Comments: fmt.Sprintf("API request failed: %v", err),
		}
	}

	return Compare(deal, detail)
}
