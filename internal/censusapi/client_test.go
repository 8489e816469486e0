package censusapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Steve-the-map-Maker/census-ai-backend/internal/contract"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClientWithHTTP(server.URL, "acs/acs5", "test-key", server.Client())
	return client, server
}

// TestClientFetch tests the HTTP round trip and response parsing.
func TestClientFetch(t *testing.T) {
	t.Run("parses positional response into rows", func(t *testing.T) {
		var gotQuery string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			assert.Contains(t, r.URL.Path, "/2022/acs/acs5")
			_, _ = w.Write([]byte(`[
				["NAME","B01003_001E","state"],
				["California","39029342","06"],
				["Texas","30029572","48"]
			]`))
		})
		defer server.Close()

		rows, err := client.Fetch(context.Background(), 2022, []string{"NAME", "B01003_001E"}, "state:*", nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "California", rows[0]["NAME"])
		assert.Equal(t, "39029342", rows[0]["B01003_001E"])
		assert.Equal(t, "06", rows[0]["state"])

		assert.Contains(t, gotQuery, "get=NAME%2CB01003_001E")
		assert.Contains(t, gotQuery, "key=test-key")
	})

	t.Run("parent clauses emitted state first", func(t *testing.T) {
		var gotURL string
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			gotURL = r.URL.String()
			_, _ = w.Write([]byte(`[["NAME"],["Autauga County"]]`))
		})
		defer server.Close()

		_, err := client.Fetch(context.Background(), 2022, []string{"NAME"}, "county:*", map[string]string{"state": "01"})
		require.NoError(t, err)
		assert.Contains(t, gotURL, "in=state%3A01")
		assert.Contains(t, gotURL, "for=county%3A%2A")
	})

	t.Run("missing api key fails before any request", func(t *testing.T) {
		client := NewClientWithHTTP("http://unused", "acs/acs5", "", http.DefaultClient)
		_, err := client.Fetch(context.Background(), 2022, []string{"NAME"}, "state:*", nil)
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("no codes rejected", func(t *testing.T) {
		client := NewClientWithHTTP("http://unused", "acs/acs5", "key", http.DefaultClient)
		_, err := client.Fetch(context.Background(), 2022, nil, "state:*", nil)
		assert.Error(t, err)
	})

	t.Run("http error includes body snippet", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("error: unknown variable"))
		})
		defer server.Close()

		_, err := client.Fetch(context.Background(), 2022, []string{"NAME"}, "state:*", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "unknown variable")
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a table"}`))
		})
		defer server.Close()

		_, err := client.Fetch(context.Background(), 2022, []string{"NAME"}, "state:*", nil)
		assert.Error(t, err)
	})

	t.Run("header only means no data", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[["NAME","B01003_001E"]]`))
		})
		defer server.Close()

		rows, err := client.Fetch(context.Background(), 2022, []string{"NAME"}, "state:*", nil)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("short value rows tolerated", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[["NAME","B01003_001E"],["Partial"]]`))
		})
		defer server.Close()

		rows, err := client.Fetch(context.Background(), 2022, []string{"NAME", "B01003_001E"}, "state:*", nil)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Partial", rows[0]["NAME"])
		assert.NotContains(t, rows[0], "B01003_001E")
	})

	t.Run("context cancellation aborts", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`[["NAME"],["X"]]`))
		})
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := client.Fetch(ctx, 2022, []string{"NAME"}, "state:*", nil)
		assert.Error(t, err)
	})
}

// TestNewClient tests construction from validated config.
func TestNewClient(t *testing.T) {
	cfg := &contract.Config{
		BaseURL: "https://example.test/data",
		Dataset: "acs/acs5",
		APIKey:  "k",
	}
	client := NewClient(cfg)
	require.NotNil(t, client)
	assert.Equal(t, contract.DefaultHTTPTimeout, client.httpc.Timeout)
}

func TestOrderedParents(t *testing.T) {
	got := orderedParents(map[string]string{"county": "001", "state": "01", "place": "123"})
	assert.Equal(t, []string{"state", "county", "place"}, got)
}

func TestJoinCodes(t *testing.T) {
	assert.Equal(t, "", joinCodes(nil))
	assert.Equal(t, "A", joinCodes([]string{"A"}))
	assert.Equal(t, "A,B,C", joinCodes([]string{"A", "B", "C"}))
}
