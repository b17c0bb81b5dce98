package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func geocodeServer(t *testing.T, body string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := NewClient(zap.NewNop())
	client.BaseURL = server.URL
	return client
}

func TestResolve(t *testing.T) {
	client := geocodeServer(t, `[{"lat": "32.0853", "lon": "34.7818"}]`)

	coords, err := client.Resolve(context.Background(), "Tel Aviv")
	require.NoError(t, err)
	require.InDelta(t, 32.0853, coords.Lat, 1e-6)
	require.InDelta(t, 34.7818, coords.Lon, 1e-6)
}

func TestResolveNotFound(t *testing.T) {
	client := geocodeServer(t, `[]`)

	_, err := client.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not found")
}

func TestResolveBadCoordinates(t *testing.T) {
	client := geocodeServer(t, `[{"lat": "north", "lon": "34.7818"}]`)

	_, err := client.Resolve(context.Background(), "Tel Aviv")
	require.Error(t, err)
}

func TestResolveServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	client := NewClient(zap.NewNop())
	client.BaseURL = server.URL

	_, err := client.Resolve(context.Background(), "Tel Aviv")
	require.Error(t, err)
}

func TestDistanceKnownPairs(t *testing.T) {
	cases := []struct {
		name   string
		a, b   Coordinates
		wantKm float64
		delta  float64
	}{
		{
			"tel aviv to haifa",
			Coordinates{Lat: 32.0853, Lon: 34.7818},
			Coordinates{Lat: 32.7940, Lon: 34.9896},
			81, 3,
		},
		{
			"london to paris",
			Coordinates{Lat: 51.5074, Lon: -0.1278},
			Coordinates{Lat: 48.8566, Lon: 2.3522},
			344, 5,
		},
		{
			"new york to los angeles",
			Coordinates{Lat: 40.7128, Lon: -74.0060},
			Coordinates{Lat: 34.0522, Lon: -118.2437},
			3944, 20,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.wantKm, Distance(tc.a, tc.b), tc.delta)
		})
	}
}

func TestDistanceSamePoint(t *testing.T) {
	p := Coordinates{Lat: 32.0853, Lon: 34.7818}
	require.InDelta(t, 0, Distance(p, p), 1e-6)
}

func TestDistanceIsSymmetric(t *testing.T) {
	a := Coordinates{Lat: 32.0853, Lon: 34.7818}
	b := Coordinates{Lat: 51.5074, Lon: -0.1278}
	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-6)
}
