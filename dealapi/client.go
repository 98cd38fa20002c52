package dealapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dealqa/dealqa-server/config"
	"github.com/dealqa/dealqa-server/errortypes"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches deal-detail records from the remote deal management API.
type Client struct {
	httpClient httpClient
	cfg        config.DealAPI
}

// NewClient returns a new deal API client.
func NewClient(httpClient httpClient, cfg config.DealAPI) *Client {
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
	}
}

// GetDeal fetches one deal-detail record. Transport errors and non-2xx
// responses come back as errors for the caller to record as ERROR rows; they
// never abort a batch.
func (c *Client) GetDeal(ctx context.Context, dealID int64, authToken string) (*DealDetail, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.EndpointURL(dealID), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Authorization", ensureBearer(authToken))
	request.Header.Set("Content-Type", "application/json")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, &errortypes.BadServerResponse{
			Message: fmt.Sprintf("deal API responded with status %d for deal %d", response.StatusCode, dealID),
		}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	return NewDealDetail(body), nil
}

// ensureBearer normalizes the supplied credential to a Bearer header value.
// Operators paste both bare tokens and full header values.
func ensureBearer(token string) string {
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return token
	}
	return "Bearer " + token
}
