package scraperapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name     string
		req      FetchRequest
		status   int
		body     string
		wantErr  string
		checkReq func(t *testing.T, r *http.Request)
	}{
		{
			name:   "success",
			req:    FetchRequest{URL: "https://shop.example.com/p/1"},
			status: http.StatusOK,
			body:   "<html>page</html>",
			checkReq: func(t *testing.T, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "test-key", q.Get("api_key"))
				assert.Equal(t, "https://shop.example.com/p/1", q.Get("url"))
				assert.Empty(t, q.Get("render"))
				assert.Empty(t, q.Get("premium"))
			},
		},
		{
			name:   "render_and_premium",
			req:    FetchRequest{URL: "https://shop.example.com/p/2", Render: true, PremiumProxy: true},
			status: http.StatusOK,
			body:   "<html>rendered</html>",
			checkReq: func(t *testing.T, r *http.Request) {
				q := r.URL.Query()
				assert.Equal(t, "true", q.Get("render"))
				assert.Equal(t, "true", q.Get("premium"))
			},
		},
		{
			name:    "api_error",
			req:     FetchRequest{URL: "https://shop.example.com/p/3"},
			status:  http.StatusUnauthorized,
			body:    "invalid api key",
			wantErr: "HTTP 401",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				if tt.checkReq != nil {
					tt.checkReq(t, r)
				}
				w.Header().Set("Content-Type", "text/html")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("test-key", WithBaseURL(srv.URL))

			resp, err := client.Fetch(context.Background(), tt.req)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, tt.status, apiErr.StatusCode)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.body, string(resp.Body))
			assert.Equal(t, "text/html", resp.ContentType)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAmazonProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/structured/amazon/product", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "B08N5WRWNW", q.Get("asin"))
		_, _ = w.Write([]byte(`{"name": "Widget"}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	raw, err := client.AmazonProduct(context.Background(), "B08N5WRWNW")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name": "Widget"}`, string(raw))
}

func TestAmazonProductNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))

	_, err := client.AmazonProduct(context.Background(), "B08N5WRWNW")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not JSON")
}

func TestWithBaseURLEmptyKeepsDefault(t *testing.T) {
	c := NewClient("k", WithBaseURL("")).(*httpClient)
	assert.Equal(t, defaultBaseURL, c.baseURL)
}
