// Package metaads is the HTTP collaborator that fetches raw performance data
// from the ads platform. It owns transport concerns (retries, backoff); the
// core never retries on its own.
package metaads

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"adboard/internal/insights"
)

// insightFields is the fixed field list requested per daily record.
var insightFields = []string{
	"date_start",
	"impressions",
	"clicks",
	"spend",
	"reach",
	"frequency",
	"actions",
	"conversions",
	"conversion_values",
	"inline_link_clicks",
	"unique_inline_link_clicks",
	"video_30_sec_watched_actions",
	"video_p25_watched_actions",
	"video_p50_watched_actions",
	"video_p75_watched_actions",
	"video_p100_watched_actions",
}

const maxAttempts = 3

// TransportError is a fetch failure propagated to the caller untouched.
type TransportError struct {
	Status int
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ads platform request to %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("ads platform request to %s failed with status %d", e.URL, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPClient is the minimal http.Client surface the client needs.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a Graph-style ads API.
type Client struct {
	baseURL string
	token   string
	httpc   HTTPClient
	logger  *slog.Logger
}

func NewClient(baseURL, token string, httpc HTTPClient, logger *slog.Logger) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   httpc,
		logger:  logger,
	}
}

// RemoteAccount mirrors the platform's ad account payload. Monetary amounts
// arrive in minor units and are converted on read.
type RemoteAccount struct {
	AccountID    string `json:"account_id"`
	Name         string `json:"name"`
	Currency     string `json:"currency"`
	Status       string `json:"account_status"`
	AmountSpent  string `json:"amount_spent"`
	Balance      string `json:"balance"`
	SpendCap     string `json:"spend_cap"`
	BusinessName string `json:"business_name"`
	Timezone     string `json:"timezone_name"`
}

// RemoteCampaign mirrors the platform's campaign payload.
type RemoteCampaign struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Objective      string `json:"objective"`
	Status         string `json:"status"`
	DailyBudget    string `json:"daily_budget"`
	LifetimeBudget string `json:"lifetime_budget"`
}

// FetchAdAccounts lists the ad accounts visible to the configured token.
func (c *Client) FetchAdAccounts(ctx context.Context) ([]RemoteAccount, error) {
	var page struct {
		Data []RemoteAccount `json:"data"`
	}
	if err := c.getJSON(ctx, "/me/adaccounts", url.Values{}, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// FetchCampaigns lists the campaigns under one ad account.
func (c *Client) FetchCampaigns(ctx context.Context, accountID string) ([]RemoteCampaign, error) {
	if !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}
	var page struct {
		Data []RemoteCampaign `json:"data"`
	}
	if err := c.getJSON(ctx, "/"+accountID+"/campaigns", url.Values{}, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// FetchInsights returns the raw daily records for a campaign over the
// inclusive [from, to] date range. An empty list is a valid result. Pagination
// follows the response's next link until exhausted.
func (c *Client) FetchInsights(ctx context.Context, campaignID string, from, to time.Time, breakdowns []string) ([]insights.RawInsight, error) {
	params := url.Values{}
	params.Set("fields", strings.Join(insightFields, ","))
	params.Set("time_increment", "1")
	params.Set("since", from.Format(insights.DateLayout))
	params.Set("until", to.Format(insights.DateLayout))
	if len(breakdowns) > 0 {
		params.Set("breakdowns", strings.Join(breakdowns, ","))
	}

	var all []insights.RawInsight
	path := "/" + campaignID + "/insights"
	for {
		var page struct {
			Data   []insights.RawInsight `json:"data"`
			Paging struct {
				Next string `json:"next"`
			} `json:"paging"`
		}
		if err := c.getJSON(ctx, path, params, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if page.Paging.Next == "" {
			return all, nil
		}
		next, err := url.Parse(page.Paging.Next)
		if err != nil {
			return all, nil
		}
		path = next.Path
		params = next.Query()
	}
}

// getJSON performs a GET with bounded exponential backoff plus jitter on
// transport errors and 5xx responses. 4xx responses are not retried.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dst any) error {
	params.Set("access_token", c.token)
	reqURL := c.baseURL + path + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			sleep := time.Duration(1<<attempt) * 200 * time.Millisecond
			sleep += time.Duration(rand.Intn(150)) * time.Millisecond
			select {
			case <-time.After(sleep):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return &TransportError{URL: path, Err: err}
		}
		resp, err := c.httpc.Do(req)
		if err != nil {
			lastErr = &TransportError{URL: path, Err: err}
			c.logger.Warn("Ads platform request failed",
				slog.String("path", path),
				slog.Int("attempt", attempt+1),
				slog.Any("error", err))
			continue
		}

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			err := json.NewDecoder(resp.Body).Decode(dst)
			resp.Body.Close()
			if err != nil {
				return &TransportError{URL: path, Err: fmt.Errorf("decoding response: %w", err)}
			}
			return nil
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = &TransportError{Status: resp.StatusCode, URL: path}
			c.logger.Warn("Ads platform returned server error",
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempt", attempt+1))
		default:
			resp.Body.Close()
			return &TransportError{Status: resp.StatusCode, URL: path}
		}
	}
	return lastErr
}

// ParseMinorUnits converts the platform's minor-unit money strings ("12345"
// cents) to major units. Empty strings yield 0.
func ParseMinorUnits(s string) float64 {
	if s == "" {
		return 0
	}
	var cents float64
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%f", &cents); err != nil {
		return 0
	}
	return cents / 100
}
