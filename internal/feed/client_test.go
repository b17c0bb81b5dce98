package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchParsesFeed(t *testing.T) {
	server := feedServer(t, "Company,Title,City,URL,Updated\n"+
		"Acme,Go Developer,Haifa,https://jobs.example/1,2026-08-01\n"+
		"Beta,Data Engineer,Tel Aviv,https://jobs.example/2,2026-08-02\n")

	client := NewClient(server.URL, zap.NewNop())
	postings, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, postings, 2)
	require.Equal(t, "Acme", postings[0].Company)
	require.Equal(t, "Go Developer", postings[0].Title)
	require.Equal(t, "Haifa", postings[0].City)
	require.Equal(t, "https://jobs.example/1", postings[0].URL)
	require.Equal(t, "2026-08-02", postings[1].Updated)
}

func TestFetchHeaderIsCaseInsensitive(t *testing.T) {
	server := feedServer(t, " COMPANY , TITLE ,URL\nAcme,Go Developer,https://jobs.example/1\n")

	client := NewClient(server.URL, zap.NewNop())
	postings, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, postings, 1)
	require.Equal(t, "Acme", postings[0].Company)
	require.Equal(t, "Go Developer", postings[0].Title)
}

func TestFetchCompanyFallbacks(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"company_name column",
			"company_name,title\nAcme,Go Developer\n",
			"Acme",
		},
		{
			"employer column",
			"employer,title\nBeta,QA\n",
			"Beta",
		},
		{
			"first column fallback",
			"org,title\nGamma,SRE\n",
			"Gamma",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := feedServer(t, tc.body)
			client := NewClient(server.URL, zap.NewNop())

			postings, err := client.Fetch(context.Background(), 0)
			require.NoError(t, err)
			require.Len(t, postings, 1)
			require.Equal(t, tc.want, postings[0].Company)
		})
	}
}

func TestFetchRespectsLimit(t *testing.T) {
	server := feedServer(t, "company,title\nAcme,One\nAcme,Two\nAcme,Three\n")

	client := NewClient(server.URL, zap.NewNop())
	postings, err := client.Fetch(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, postings, 2)
	require.Equal(t, "One", postings[0].Title)
	require.Equal(t, "Two", postings[1].Title)
}

func TestFetchUnevenRows(t *testing.T) {
	server := feedServer(t, "company,title,url\nAcme,Go Developer\nBeta,QA,https://jobs.example/2,extra\n")

	client := NewClient(server.URL, zap.NewNop())
	postings, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)

	require.Len(t, postings, 2)
	require.Empty(t, postings[0].URL)
	require.Equal(t, "https://jobs.example/2", postings[1].URL)
}

func TestFetchServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Fetch(context.Background(), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected status")
}

func TestFetchEmptyFeed(t *testing.T) {
	server := feedServer(t, "company,title,url\n")

	client := NewClient(server.URL, zap.NewNop())
	postings, err := client.Fetch(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, postings)
}
