package metaads

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchAdAccounts(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("access_token")
		assert.Equal(t, "/me/adaccounts", r.URL.Path)
		fmt.Fprint(w, `{"data": [{"account_id": "123", "name": "Acme", "currency": "EUR", "amount_spent": "150050"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok-1", nil, testLogger())
	accounts, err := client.FetchAdAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "123", accounts[0].AccountID)
	assert.Equal(t, "Acme", accounts[0].Name)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, 1500.50, ParseMinorUnits(accounts[0].AmountSpent))
}

func TestFetchCampaignsAddsAccountPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/act_123/campaigns", r.URL.Path)
		fmt.Fprint(w, `{"data": [{"id": "c1", "name": "Summer Sale", "status": "ACTIVE"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil, testLogger())
	campaigns, err := client.FetchCampaigns(context.Background(), "123")
	require.NoError(t, err)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "c1", campaigns[0].ID)
}

func TestFetchInsightsFollowsPagination(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/c1/insights", r.URL.Path)
		if r.URL.Query().Get("after") == "" {
			assert.Equal(t, "1", r.URL.Query().Get("time_increment"))
			assert.Equal(t, "2024-03-01", r.URL.Query().Get("since"))
			fmt.Fprintf(w, `{"data": [{"date_start": "2024-03-01", "impressions": "100"}], "paging": {"next": %q}}`,
				server.URL+"/c1/insights?after=page2")
			return
		}
		fmt.Fprint(w, `{"data": [{"date_start": "2024-03-02", "impressions": "200"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil, testLogger())
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)

	raws, err := client.FetchInsights(context.Background(), "c1", from, to, nil)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.Equal(t, "2024-03-01", raws[0]["date_start"])
	assert.Equal(t, "2024-03-02", raws[1]["date_start"])
}

func TestFetchInsightsSendsBreakdowns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "country,publisher_platform", r.URL.Query().Get("breakdowns"))
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil, testLogger())
	now := time.Now()
	raws, err := client.FetchInsights(context.Background(), "c1", now, now, []string{"country", "publisher_platform"})
	require.NoError(t, err)
	assert.Empty(t, raws)
}

func TestServerErrorsAreRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"data": [{"account_id": "123"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil, testLogger())
	accounts, err := client.FetchAdAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
	assert.Equal(t, 3, calls)
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad-token", nil, testLogger())
	_, err := client.FetchAdAccounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusForbidden, terr.Status)
}

func TestExhaustedRetriesReturnTransportError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", nil, testLogger())
	_, err := client.FetchAdAccounts(context.Background())
	require.Error(t, err)
	assert.Equal(t, maxAttempts, calls)

	var terr *TransportError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadGateway, terr.Status)
}

func TestParseMinorUnits(t *testing.T) {
	assert.Equal(t, 0.0, ParseMinorUnits(""))
	assert.Equal(t, 0.0, ParseMinorUnits("not a number"))
	assert.Equal(t, 123.45, ParseMinorUnits("12345"))
	assert.Equal(t, 0.5, ParseMinorUnits("50"))
}
